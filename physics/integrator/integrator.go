// Package integrator fornisce integratori numerici per le equazioni del
// moto. Esclusivamente un collaboratore del banco di prova (harness):
// lo importano solo i file _test.go (anche gnc/core_test.go), mai il
// codice non di test del pacchetto gnc, perché il core GNC
// non possiede un integratore fisico (vedi §1 Non-goals, "no rigid-body
// integration").
package integrator

import (
	"github.com/alexanderi96/go-gnc-core/physics/body"
)

// Integrator rappresenta un integratore numerico per le equazioni del moto
type Integrator interface {
	// Integrate integra le equazioni del moto per un corpo
	Integrate(b body.Body, dt float64)
	// IntegrateAll integra le equazioni del moto per tutti i corpi
	IntegrateAll(bodies []body.Body, dt float64)
}

// EulerIntegrator integra posizione, velocità e assetto con il metodo
// di Eulero semi-implicito, delegando al corpo stesso (body.Body.Update
// applica già l'integrazione lineare e quaternionica dell'assetto).
type EulerIntegrator struct{}

// NewEulerIntegrator crea un nuovo integratore di Eulero
func NewEulerIntegrator() *EulerIntegrator {
	return &EulerIntegrator{}
}

// Integrate integra un singolo corpo di un passo dt
func (ei *EulerIntegrator) Integrate(b body.Body, dt float64) {
	b.Update(dt)
}

// IntegrateAll integra tutti i corpi di un passo dt
func (ei *EulerIntegrator) IntegrateAll(bodies []body.Body, dt float64) {
	for _, b := range bodies {
		ei.Integrate(b, dt)
	}
}
