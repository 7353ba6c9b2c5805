// Package force fornisce interfacce e implementazioni per le forze fisiche
// applicate dal banco di prova: disturbi esterni (vento solare, drag
// residuo) usati dai test per verificare che i modi di
// controllo rigettino perturbazioni, non forze di campo a N corpi.
package force

import (
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/physics/body"
)

// Force rappresenta una forza fisica
type Force interface {
	// Apply applica la forza a un corpo e restituisce il vettore forza
	Apply(b body.Body) vector.Vector3

	// IsGlobal restituisce true se la forza è globale (applicata a tutti i corpi)
	IsGlobal() bool
}

// ConstantForce implementa una forza costante
type ConstantForce struct {
	force vector.Vector3
}

// NewConstantForce crea una nuova forza costante
func NewConstantForce(force vector.Vector3) *ConstantForce {
	return &ConstantForce{
		force: force,
	}
}

// Apply applica la forza costante a un corpo
func (cf *ConstantForce) Apply(b body.Body) vector.Vector3 {
	return cf.force
}

// IsGlobal restituisce false perché la forza costante non è globale
func (cf *ConstantForce) IsGlobal() bool {
	return false
}

// DragForce implementa una forza di resistenza proporzionale al
// quadrato della velocità, usata dal banco di prova per simulare drag
// residuo dell'atmosfera o degassamento.
type DragForce struct {
	coefficient float64 // Coefficiente di resistenza
}

// NewDragForce crea una nuova forza di resistenza
func NewDragForce(coefficient float64) *DragForce {
	return &DragForce{
		coefficient: coefficient,
	}
}

// Apply applica la forza di resistenza a un corpo
func (df *DragForce) Apply(b body.Body) vector.Vector3 {
	// F = -c * v^2 * v_hat
	velocity := b.Velocity()
	speed := velocity.Length()

	if speed < 1e-10 {
		return vector.Zero3()
	}

	direction := velocity.Scale(1.0 / speed)
	forceMagnitude := df.coefficient * speed * speed
	return direction.Scale(-forceMagnitude)
}

// IsGlobal restituisce true perché la forza di resistenza è globale
func (df *DragForce) IsGlobal() bool {
	return true
}
