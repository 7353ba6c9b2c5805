// Package spacecraft builds the physical fixture a GNC core is tested
// and demonstrated against: a box-hulled rigid body with a derived
// 24-nozzle reaction-control layout, wrapped as an entity.Entity so it
// can also serve as a target or reference frame for another craft.
package spacecraft

import (
	"fmt"

	"github.com/alexanderi96/go-gnc-core/core/units"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/entity"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/physics/body"
	"github.com/alexanderi96/go-gnc-core/physics/material"
)

// Config bundles the parameters CreateSpacecraft needs: hull mass and
// box dimensions, uniform thruster capacity, initial position and
// velocity, and hull material.
type Config struct {
	Mass                    float64 // kilograms
	Width, Height, Depth    float64 // meters, local x/y/z
	ThrusterBaseThrust      float64 // newtons, applied uniformly to all 24 nozzles
	Position                vector.Vector3
	Velocity                vector.Vector3
	Material                material.Material // defaults to material.Aluminum if nil
}

// DefaultConfig returns a mid-sized crewed-vehicle-scale configuration.
func DefaultConfig() Config {
	return Config{
		Mass:               1000.0,
		Width:              2.0,
		Height:             2.0,
		Depth:              4.0,
		ThrusterBaseThrust: 250.0,
		Position:           vector.Zero3(),
		Velocity:           vector.Zero3(),
	}
}

// Spacecraft is the fixture returned by Create: a physical rigid body
// wrapped as an entity.Entity, plus the mass properties and thruster
// configuration a GncCore needs to drive it.
type Spacecraft struct {
	Entity    *entity.BaseEntity
	Body      *body.RigidBody
	Mass      gnctypes.MassProperties
	Thrusters *gnctypes.ThrusterConfig
}

// Create builds a spacecraft from cfg: a box rigid body with
// principal inertias from gnctypes.MassProperties, docking ports at
// +/- depth/2 along local z, and a derived 24-thruster RCS layout
// sized by cfg.ThrusterBaseThrust.
func Create(cfg Config) (*Spacecraft, error) {
	mass := gnctypes.MassProperties{Mass: cfg.Mass, Width: cfg.Width, Height: cfg.Height, Depth: cfg.Depth}
	if err := mass.Validate(); err != nil {
		return nil, fmt.Errorf("spacecraft: %w", err)
	}

	mat := cfg.Material
	if mat == nil {
		mat = material.Aluminum
	}

	rb := body.NewRigidBody(
		units.NewQuantity(cfg.Mass, units.Kilogram),
		mass.Inertia(),
		cfg.Position,
		cfg.Velocity,
		mat,
	)

	halfExtents := vector.NewVector3(cfg.Width/2, cfg.Height/2, cfg.Depth/2)
	specs, caps, groups := BuildRCSLayout(halfExtents, cfg.ThrusterBaseThrust)
	thrusters, err := gnctypes.NewThrusterConfig(specs, caps, cfg.ThrusterBaseThrust, groups)
	if err != nil {
		return nil, fmt.Errorf("spacecraft: %w", err)
	}

	e := entity.NewBaseEntity(rb, vector.NewVector3(0, 0, cfg.Depth/2), vector.NewVector3(0, 0, -cfg.Depth/2))

	return &Spacecraft{Entity: e, Body: rb, Mass: mass, Thrusters: thrusters}, nil
}
