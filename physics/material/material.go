// Package material describes the physical material of a rigid body
// used by the mock integrator in tests; the GNC core itself never reads
// a material property.
package material

import (
	"github.com/alexanderi96/go-gnc-core/core/units"
)

// Material exposes the physical properties of a rigid body's hull.
type Material interface {
	// Name returns the material's name.
	Name() string

	// Density returns the material's density.
	Density() units.Quantity

	// SpecificHeat returns the material's specific heat capacity.
	SpecificHeat() units.Quantity

	// ThermalConductivity returns the material's thermal conductivity.
	ThermalConductivity() units.Quantity

	// Emissivity returns the material's emissivity.
	Emissivity() float64

	// Elasticity returns the material's coefficient of restitution.
	Elasticity() float64

	// Color returns the material's color as RGB.
	Color() [3]float64
}

// BasicMaterial is a plain data implementation of Material.
type BasicMaterial struct {
	name                string
	density             units.Quantity
	specificHeat        units.Quantity
	thermalConductivity units.Quantity
	emissivity          float64
	elasticity          float64
	color               [3]float64
}

// NewBasicMaterial builds a material from its physical properties.
func NewBasicMaterial(
	name string,
	density units.Quantity,
	specificHeat units.Quantity,
	thermalConductivity units.Quantity,
	emissivity float64,
	elasticity float64,
	color [3]float64,
) *BasicMaterial {
	return &BasicMaterial{
		name:                name,
		density:             density,
		specificHeat:        specificHeat,
		thermalConductivity: thermalConductivity,
		emissivity:          emissivity,
		elasticity:          elasticity,
		color:               color,
	}
}

// Name returns the material's name.
func (m *BasicMaterial) Name() string { return m.name }

// Density returns the material's density.
func (m *BasicMaterial) Density() units.Quantity { return m.density }

// SpecificHeat returns the material's specific heat capacity.
func (m *BasicMaterial) SpecificHeat() units.Quantity { return m.specificHeat }

// ThermalConductivity returns the material's thermal conductivity.
func (m *BasicMaterial) ThermalConductivity() units.Quantity { return m.thermalConductivity }

// Emissivity returns the material's emissivity.
func (m *BasicMaterial) Emissivity() float64 { return m.emissivity }

// Elasticity returns the material's coefficient of restitution.
func (m *BasicMaterial) Elasticity() float64 { return m.elasticity }

// Color returns the material's color.
func (m *BasicMaterial) Color() [3]float64 { return m.color }

// Iron and Aluminum are the only hull materials exercised by this
// module: Iron by the small test fixtures, Aluminum as the hull
// material spacecraft.Create uses when its Config names none.
var (
	// Iron is a dense, low-cost hull material used by test fixtures.
	Iron = NewBasicMaterial(
		"Iron",
		units.NewQuantity(7874.0, units.Kilogram),
		units.NewQuantity(450.0, units.Joule),
		units.NewQuantity(80.2, units.Watt),
		0.3,
		0.7,
		[3]float64{0.6, 0.6, 0.6},
	)

	// Aluminum is the default hull material of spacecraft.Create,
	// matching a typical reaction-control vehicle structure.
	Aluminum = NewBasicMaterial(
		"Aluminum",
		units.NewQuantity(2700.0, units.Kilogram),
		units.NewQuantity(900.0, units.Joule),
		units.NewQuantity(237.0, units.Watt),
		0.1,
		0.6,
		[3]float64{0.8, 0.8, 0.85},
	)
)
