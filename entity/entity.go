// Package entity fornisce il tipo non possessivo usato dal core GNC per
// riferirsi a un bersaglio o a un frame di riferimento esterno: un
// Entity espone posizione, assetto quaternionico e le porte di
// attracco, senza che il chiamante debba tenere un puntatore al corpo
// fisico che lo possiede.
package entity

import (
	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/physics/body"
	"github.com/google/uuid"
)

// DockingPort identifica quale punto di un'entità va usato come
// bersaglio: il centro di massa o una delle due porte di attracco.
type DockingPort int

const (
	// PortCenter punta al centro di massa dell'entità
	PortCenter DockingPort = iota
	// PortFront punta alla porta di attracco anteriore
	PortFront
	// PortBack punta alla porta di attracco posteriore
	PortBack
)

// Entity rappresenta un oggetto osservabile dal core GNC: un veicolo
// bersaglio o un frame di riferimento. Tutti i metodi sono di sola
// lettura dal punto di vista del GNC, che non possiede mai l'entità.
type Entity interface {
	// ID restituisce l'identificatore univoco dell'entità
	ID() uuid.UUID

	// GetBody restituisce il corpo fisico sottostante
	GetBody() body.Body

	// Position restituisce la posizione del centro di massa
	Position() vector.Vector3

	// Velocity restituisce la velocità del centro di massa
	Velocity() vector.Vector3

	// Orientation restituisce l'assetto corrente
	Orientation() quat.Quaternion

	// AngularVelocity restituisce la velocità angolare corrente
	AngularVelocity() vector.Vector3

	// DockingPortPosition restituisce la posizione nel frame mondo della
	// porta di attracco richiesta, ruotando l'offset locale per
	// l'assetto corrente e traslandolo sul centro di massa
	DockingPortPosition(port DockingPort) vector.Vector3

	// Update avanza lo stato dell'entità di dt secondi
	Update(dt float64)
}

// BaseEntity implementa Entity sopra un body.Body, con offset locali
// fissi per le porte di attracco anteriore e posteriore (tipicamente
// lungo l'asse +z/-z del corpo).
type BaseEntity struct {
	id         uuid.UUID
	body       body.Body
	frontLocal vector.Vector3
	backLocal  vector.Vector3
}

// NewBaseEntity crea una nuova entità sopra il corpo fornito, con le
// porte di attracco poste a frontLocal/backLocal nel frame del corpo.
func NewBaseEntity(body body.Body, frontLocal, backLocal vector.Vector3) *BaseEntity {
	return &BaseEntity{
		id:         uuid.New(),
		body:       body,
		frontLocal: frontLocal,
		backLocal:  backLocal,
	}
}

// ID restituisce l'identificatore univoco dell'entità
func (e *BaseEntity) ID() uuid.UUID {
	return e.id
}

// GetBody restituisce il corpo fisico sottostante
func (e *BaseEntity) GetBody() body.Body {
	return e.body
}

// Position restituisce la posizione del centro di massa
func (e *BaseEntity) Position() vector.Vector3 {
	return e.body.Position()
}

// Velocity restituisce la velocità del centro di massa
func (e *BaseEntity) Velocity() vector.Vector3 {
	return e.body.Velocity()
}

// Orientation restituisce l'assetto corrente
func (e *BaseEntity) Orientation() quat.Quaternion {
	return e.body.Orientation()
}

// AngularVelocity restituisce la velocità angolare corrente
func (e *BaseEntity) AngularVelocity() vector.Vector3 {
	return e.body.AngularVelocity()
}

// DockingPortPosition restituisce la posizione mondo della porta richiesta
func (e *BaseEntity) DockingPortPosition(port DockingPort) vector.Vector3 {
	var local vector.Vector3
	switch port {
	case PortFront:
		local = e.frontLocal
	case PortBack:
		local = e.backLocal
	default:
		return e.Position()
	}
	world := e.Orientation().RotateVector(local)
	return e.Position().Add(world)
}

// Update avanza lo stato dell'entità delegando al corpo fisico
// sottostante (usato solo dal banco di prova: il core GNC non chiama
// mai Update su un'entità bersaglio, la legge soltanto).
func (e *BaseEntity) Update(dt float64) {
	e.body.Update(dt)
}
