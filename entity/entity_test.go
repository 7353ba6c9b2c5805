package entity

import (
	"math"
	"testing"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/units"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/physics/body"
	"github.com/alexanderi96/go-gnc-core/physics/material"
	"github.com/stretchr/testify/assert"
)

func newTestBody() *body.RigidBody {
	return body.NewRigidBody(
		units.NewQuantity(100, units.Kilogram),
		vector.NewVector3(10, 10, 10),
		vector.NewVector3(1, 2, 3),
		vector.Zero3(),
		material.Iron,
	)
}

func TestNewBaseEntityExposesBody(t *testing.T) {
	b := newTestBody()
	e := NewBaseEntity(b, vector.NewVector3(0, 0, 1), vector.NewVector3(0, 0, -1))

	assert.Equal(t, b, e.GetBody())
	assert.NotEqual(t, e.ID().String(), "")
}

func TestPositionVelocityDelegateToBody(t *testing.T) {
	b := newTestBody()
	e := NewBaseEntity(b, vector.Zero3(), vector.Zero3())

	assert.Equal(t, b.Position(), e.Position())
	assert.Equal(t, b.Velocity(), e.Velocity())
}

func TestOrientationAndAngularVelocityDelegateToBody(t *testing.T) {
	b := newTestBody()
	b.SetOrientation(quat.FromAxisAngle(vector.NewVector3(0, 1, 0), math.Pi/2))
	b.SetAngularVelocity(vector.NewVector3(0, 0, 0.5))
	e := NewBaseEntity(b, vector.Zero3(), vector.Zero3())

	assert.Equal(t, b.Orientation(), e.Orientation())
	assert.Equal(t, b.AngularVelocity(), e.AngularVelocity())
}

func TestDockingPortCenterIsPosition(t *testing.T) {
	b := newTestBody()
	e := NewBaseEntity(b, vector.NewVector3(0, 0, 1), vector.NewVector3(0, 0, -1))

	assert.Equal(t, e.Position(), e.DockingPortPosition(PortCenter))
}

func TestDockingPortFrontAndBackAreOppositeAlongBodyAxis(t *testing.T) {
	b := newTestBody()
	e := NewBaseEntity(b, vector.NewVector3(0, 0, 2), vector.NewVector3(0, 0, -2))

	front := e.DockingPortPosition(PortFront)
	back := e.DockingPortPosition(PortBack)
	pos := e.Position()

	assert.InDelta(t, 2.0, front.Z()-pos.Z(), 1e-9)
	assert.InDelta(t, -2.0, back.Z()-pos.Z(), 1e-9)
}

func TestDockingPortRotatesWithOrientation(t *testing.T) {
	b := newTestBody()
	// 90 degrees about Y rotates +z to +x.
	b.SetOrientation(quat.FromAxisAngle(vector.NewVector3(0, 1, 0), math.Pi/2))
	e := NewBaseEntity(b, vector.NewVector3(0, 0, 1), vector.Zero3())

	front := e.DockingPortPosition(PortFront)
	pos := e.Position()
	assert.InDelta(t, 1.0, front.X()-pos.X(), 1e-9)
	assert.InDelta(t, 0.0, front.Z()-pos.Z(), 1e-9)
}

func TestUpdateAdvancesUnderlyingBody(t *testing.T) {
	b := newTestBody()
	b.SetVelocity(vector.NewVector3(1, 0, 0))
	e := NewBaseEntity(b, vector.Zero3(), vector.Zero3())

	startX := e.Position().X()
	e.Update(1.0)

	assert.Greater(t, e.Position().X(), startX)
}
