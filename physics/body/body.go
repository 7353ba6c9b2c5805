// Package body fornisce interfacce e implementazioni per i corpi fisici
package body

import (
	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/units"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/google/uuid"
)

// Material rappresenta le proprietà fisiche di un materiale
type Material interface {
	// Name restituisce il nome del materiale
	Name() string

	// Density restituisce la densità del materiale
	Density() units.Quantity

	// SpecificHeat restituisce la capacità termica specifica del materiale
	SpecificHeat() units.Quantity

	// ThermalConductivity restituisce la conducibilità termica del materiale
	ThermalConductivity() units.Quantity

	// Emissivity restituisce l'emissività del materiale
	Emissivity() float64

	// Elasticity restituisce l'elasticità del materiale
	Elasticity() float64
}

// Body rappresenta un corpo fisico rigido a 6 gradi di libertà. A
// differenza della versione originale del motore, qui l'orientamento è
// un quaternione e il corpo accumula anche velocità e coppia angolare,
// dato che il GNC core non integra più soltanto il moto lineare: serve
// un bersaglio completo (posizione + assetto) per i modi di controllo.
type Body interface {
	// ID restituisce l'identificatore univoco del corpo
	ID() uuid.UUID

	// Position restituisce la posizione del corpo
	Position() vector.Vector3
	// SetPosition imposta la posizione del corpo
	SetPosition(pos vector.Vector3)

	// Velocity restituisce la velocità del corpo
	Velocity() vector.Vector3
	// SetVelocity imposta la velocità del corpo
	SetVelocity(vel vector.Vector3)

	// Acceleration restituisce l'accelerazione del corpo
	Acceleration() vector.Vector3
	// SetAcceleration imposta l'accelerazione del corpo
	SetAcceleration(acc vector.Vector3)

	// Orientation restituisce l'assetto del corpo
	Orientation() quat.Quaternion
	// SetOrientation imposta l'assetto del corpo
	SetOrientation(q quat.Quaternion)

	// AngularVelocity restituisce la velocità angolare del corpo (frame mondo)
	AngularVelocity() vector.Vector3
	// SetAngularVelocity imposta la velocità angolare del corpo
	SetAngularVelocity(w vector.Vector3)

	// Mass restituisce la massa del corpo
	Mass() units.Quantity
	// SetMass imposta la massa del corpo
	SetMass(mass units.Quantity)

	// Material restituisce il materiale del corpo
	Material() Material
	// SetMaterial imposta il materiale del corpo
	SetMaterial(mat Material)

	// ApplyForce applica una forza al corpo, nel frame mondo
	ApplyForce(force vector.Vector3)

	// ApplyTorque applica una coppia al corpo, nel frame mondo
	ApplyTorque(torque vector.Vector3)

	// Update aggiorna lo stato del corpo
	Update(dt float64)

	// IsStatic restituisce true se il corpo è statico (non si muove)
	IsStatic() bool
	// SetStatic imposta se il corpo è statico
	SetStatic(static bool)
}

// RigidBody implementa un corpo rigido a 6 DOF usato dal banco di prova
// (harness di test): nessun codice non di test sotto gnc/ lo usa,
// perché il core GNC non possiede un integratore fisico
// proprio. Qui vive solo come "fisica esterna" che chiude l'anello di
// controllo nei test end-to-end.
type RigidBody struct {
	id              uuid.UUID
	position        vector.Vector3
	velocity        vector.Vector3
	acceleration    vector.Vector3
	orientation     quat.Quaternion
	angularVelocity vector.Vector3
	torqueAccum     vector.Vector3
	inertia         vector.Vector3 // momenti principali d'inerzia, diagonali
	mass            units.Quantity
	material        Material
	isStatic        bool
}

// NewRigidBody crea un nuovo corpo rigido
func NewRigidBody(
	mass units.Quantity,
	inertia vector.Vector3,
	position vector.Vector3,
	velocity vector.Vector3,
	mat Material,
) *RigidBody {
	return &RigidBody{
		id:              uuid.New(),
		position:        position,
		velocity:        velocity,
		acceleration:    vector.Zero3(),
		orientation:     quat.Identity(),
		angularVelocity: vector.Zero3(),
		torqueAccum:     vector.Zero3(),
		inertia:         inertia,
		mass:            mass,
		material:        mat,
		isStatic:        false,
	}
}

// ID restituisce l'identificatore univoco del corpo
func (rb *RigidBody) ID() uuid.UUID {
	return rb.id
}

// Position restituisce la posizione del corpo
func (rb *RigidBody) Position() vector.Vector3 {
	return rb.position
}

// SetPosition imposta la posizione del corpo
func (rb *RigidBody) SetPosition(pos vector.Vector3) {
	rb.position = pos
}

// Velocity restituisce la velocità del corpo
func (rb *RigidBody) Velocity() vector.Vector3 {
	return rb.velocity
}

// SetVelocity imposta la velocità del corpo
func (rb *RigidBody) SetVelocity(vel vector.Vector3) {
	rb.velocity = vel
	if rb.isStatic {
		rb.velocity = vector.Zero3()
	}
}

// Acceleration restituisce l'accelerazione del corpo
func (rb *RigidBody) Acceleration() vector.Vector3 {
	return rb.acceleration
}

// SetAcceleration imposta l'accelerazione del corpo
func (rb *RigidBody) SetAcceleration(acc vector.Vector3) {
	rb.acceleration = acc
	if rb.isStatic {
		rb.acceleration = vector.Zero3()
	}
}

// Orientation restituisce l'assetto del corpo
func (rb *RigidBody) Orientation() quat.Quaternion {
	return rb.orientation
}

// SetOrientation imposta l'assetto del corpo
func (rb *RigidBody) SetOrientation(q quat.Quaternion) {
	rb.orientation = q.Normalize()
}

// AngularVelocity restituisce la velocità angolare del corpo
func (rb *RigidBody) AngularVelocity() vector.Vector3 {
	return rb.angularVelocity
}

// SetAngularVelocity imposta la velocità angolare del corpo
func (rb *RigidBody) SetAngularVelocity(w vector.Vector3) {
	rb.angularVelocity = w
	if rb.isStatic {
		rb.angularVelocity = vector.Zero3()
	}
}

// Mass restituisce la massa del corpo
func (rb *RigidBody) Mass() units.Quantity {
	return rb.mass
}

// SetMass imposta la massa del corpo
func (rb *RigidBody) SetMass(mass units.Quantity) {
	if mass.Unit().Type() != units.Mass {
		panic("Mass must be a mass quantity")
	}
	rb.mass = mass
}

// Material restituisce il materiale del corpo
func (rb *RigidBody) Material() Material {
	return rb.material
}

// SetMaterial imposta il materiale del corpo
func (rb *RigidBody) SetMaterial(mat Material) {
	rb.material = mat
}

// ApplyForce applica una forza al corpo
func (rb *RigidBody) ApplyForce(force vector.Vector3) {
	if rb.isStatic {
		return
	}
	massValue := rb.mass.Value()
	if massValue <= 0 {
		return
	}
	acceleration := force.Scale(1.0 / massValue)
	rb.acceleration = rb.acceleration.Add(acceleration)
}

// ApplyTorque applica una coppia al corpo; viene integrata alla
// prossima Update, non immediatamente, per restare coerente con
// l'accumulo di forze di ApplyForce.
func (rb *RigidBody) ApplyTorque(torque vector.Vector3) {
	if rb.isStatic {
		return
	}
	rb.torqueAccum = rb.torqueAccum.Add(torque)
}

// Update aggiorna posizione, velocità e assetto del corpo
func (rb *RigidBody) Update(dt float64) {
	if rb.isStatic {
		rb.velocity = vector.Zero3()
		rb.acceleration = vector.Zero3()
		rb.angularVelocity = vector.Zero3()
		rb.torqueAccum = vector.Zero3()
		return
	}

	// Integrazione lineare (Eulero semi-implicito)
	rb.velocity = rb.velocity.Add(rb.acceleration.Scale(dt))
	rb.position = rb.position.Add(rb.velocity.Scale(dt))
	rb.acceleration = vector.Zero3()

	// Integrazione angolare: alpha = I^-1 * tau (inerzia diagonale nel frame corpo)
	alpha := vector.NewVector3(
		safeDiv(rb.torqueAccum.X(), rb.inertia.X()),
		safeDiv(rb.torqueAccum.Y(), rb.inertia.Y()),
		safeDiv(rb.torqueAccum.Z(), rb.inertia.Z()),
	)
	rb.angularVelocity = rb.angularVelocity.Add(alpha.Scale(dt))
	rb.torqueAccum = vector.Zero3()

	// q_{t+1} = normalize(q_t + 0.5 * Quat(0, w) * q_t * dt)
	w := rb.angularVelocity
	wq := quat.New(0, w.X(), w.Y(), w.Z())
	dq := quat.Mul(wq, rb.orientation)
	rb.orientation = quat.New(
		rb.orientation.W()+0.5*dq.W()*dt,
		rb.orientation.X()+0.5*dq.X()*dt,
		rb.orientation.Y()+0.5*dq.Y()*dt,
		rb.orientation.Z()+0.5*dq.Z()*dt,
	).Normalize()
}

// IsStatic restituisce true se il corpo è statico (non si muove)
func (rb *RigidBody) IsStatic() bool {
	return rb.isStatic
}

// SetStatic imposta se il corpo è statico
func (rb *RigidBody) SetStatic(static bool) {
	rb.isStatic = static
	if static {
		rb.velocity = vector.Zero3()
		rb.acceleration = vector.Zero3()
		rb.angularVelocity = vector.Zero3()
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
