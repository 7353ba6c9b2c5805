package gnc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/entity/vehicle/spacecraft"
	"github.com/alexanderi96/go-gnc-core/gnc/autotune"
	"github.com/alexanderi96/go-gnc-core/gnc/config"
	"github.com/alexanderi96/go-gnc-core/physics/force"
	"github.com/alexanderi96/go-gnc-core/physics/integrator"
)

// testCraft bundles a fresh spacecraft fixture with the core driving
// it, closing the loop: Step -> thruster buffer -> body force/torque ->
// Euler integrator -> next snapshot.
type testCraft struct {
	t    *testing.T
	ship *spacecraft.Spacecraft
	core *GncCore
	itg  *integrator.EulerIntegrator
}

func newTestCraft(t *testing.T, cfg *config.Config) *testCraft {
	t.Helper()
	sc, err := spacecraft.Create(spacecraft.DefaultConfig())
	require.NoError(t, err)

	core, err := New(cfg, *sc.Thrusters, sc.Mass)
	require.NoError(t, err)

	return &testCraft{t: t, ship: sc, core: core, itg: integrator.NewEulerIntegrator()}
}

func (c *testCraft) tick(dt float64) {
	snapshot := Snapshot{
		Position:        c.ship.Entity.Position(),
		Orientation:     c.ship.Entity.Orientation(),
		Velocity:        c.ship.Entity.Velocity(),
		AngularVelocity: c.ship.Entity.AngularVelocity(),
	}
	out := c.core.Step(dt, snapshot)

	netForce := vector.Zero3()
	netTorque := vector.Zero3()
	for i, mag := range out {
		if mag == 0 {
			continue
		}
		spec := c.ship.Thrusters.Thrusters[i]
		force := spec.Direction.Scale(-mag)
		netForce = netForce.Add(force)
		netTorque = netTorque.Add(spec.Position.Cross(force))
	}
	orientation := c.ship.Entity.Orientation()
	c.ship.Body.ApplyForce(orientation.RotateVector(netForce))
	c.ship.Body.ApplyTorque(orientation.RotateVector(netTorque))
	c.itg.Integrate(c.ship.Body, dt)
}

// TestCancelRotationDampsSpinOver200Ticks (scenario S1): a craft
// spinning at 0.5 rad/s about local x, with only CancelRotation
// active, ends 200 ticks later with a materially smaller angular rate.
func TestCancelRotationDampsSpinOver200Ticks(t *testing.T) {
	c := newTestCraft(t, config.New())
	c.ship.Body.SetAngularVelocity(vector.NewVector3(0.5, 0, 0))
	c.core.SetMode(ModeCancelRotation, true)

	const dt = 1.0 / 30.0
	for i := 0; i < 200; i++ {
		c.tick(dt)
	}

	assert.Less(t, c.ship.Entity.AngularVelocity().Length(), 0.1)
}

// TestPointToPositionConvergesWithin500Ticks (scenario S3): pointing
// at a fixed off-axis target converges to under 2 degrees of pointing
// error within 500 ticks at 30Hz.
func TestPointToPositionConvergesWithin500Ticks(t *testing.T) {
	c := newTestCraft(t, config.New())
	c.core.SetTargetPosition(vector.NewVector3(0, 10, 10))
	c.core.SetMode(ModePointToPosition, true)

	const dt = 1.0 / 30.0
	var lastTelemetry Telemetry
	for i := 0; i < 500; i++ {
		c.tick(dt)
		rot, _, rotActive, _ := c.core.Telemetry()
		if rotActive {
			lastTelemetry = rot
		}
	}

	const twoDegreesInRadians = 2.0 * 3.14159265 / 180.0
	assert.Less(t, lastTelemetry.Angle, twoDegreesInRadians)
}

// TestGoToPositionEngagesBrakingNearTarget (scenario S4): approaching
// a target head-on, GoToPosition eventually reports Braking once the
// craft is within its own stopping distance, and distance to target
// keeps shrinking once braking engages (no overshoot runaway).
func TestGoToPositionEngagesBrakingNearTarget(t *testing.T) {
	c := newTestCraft(t, config.New())
	c.core.SetTargetPosition(vector.NewVector3(0, 0, 20))
	c.core.SetMode(ModeGoToPosition, true)

	const dt = 1.0 / 30.0
	sawBraking := false
	var prevDistance float64 = -1
	monotonicSinceBraking := true

	for i := 0; i < 2000; i++ {
		c.tick(dt)
		_, trans, _, transActive := c.core.Telemetry()
		if !transActive {
			continue
		}
		if trans.Braking {
			if sawBraking && prevDistance >= 0 && trans.Distance > prevDistance+0.05 {
				monotonicSinceBraking = false
			}
			sawBraking = true
			prevDistance = trans.Distance
		}
	}

	assert.True(t, sawBraking, "expected braking hysteresis to engage while approaching the target")
	assert.True(t, monotonicSinceBraking, "distance should not grow once braking has engaged")
}

// TestCancelRotationRejectsDragDisturbance (scenario S1 variant): a
// velocity-squared drag force applied to the translating body every
// tick, a purely translational disturbance, should not prevent
// CancelRotation from converging.
func TestCancelRotationRejectsDragDisturbance(t *testing.T) {
	c := newTestCraft(t, config.New())
	c.ship.Body.SetAngularVelocity(vector.NewVector3(0.5, 0, 0))
	c.ship.Body.SetVelocity(vector.NewVector3(2, 0, 0))
	c.core.SetMode(ModeCancelRotation, true)

	drag := force.NewDragForce(0.05)

	const dt = 1.0 / 30.0
	for i := 0; i < 300; i++ {
		c.ship.Body.ApplyForce(drag.Apply(c.ship.Body))
		c.tick(dt)
	}

	assert.Less(t, c.ship.Entity.AngularVelocity().Length(), 0.1)
}

// TestAutoTunePreservesPriorModeState (scenario S6): calibrating the
// rotation-cancel domain, starting from CancelRotation already active,
// restores CancelRotation (and only CancelRotation) once the
// calibration window closes.
func TestAutoTunePreservesPriorModeState(t *testing.T) {
	cfg := config.NewConfigBuilder().WithAutoTuneEnabled(true).Build()
	c := newTestCraft(t, cfg)
	c.ship.Body.SetAngularVelocity(vector.NewVector3(0.4, 0, 0))
	c.core.SetMode(ModeCancelRotation, true)

	c.core.StartCalibration(autotune.DomainRotCancel)
	assert.True(t, c.core.IsCalibrating())

	const dt = 1.0 / 30.0
	for i := 0; i < 90; i++ { // 90 * 1/30s = 3s, past the 1.2s sampling window
		c.tick(dt)
	}

	assert.False(t, c.core.IsCalibrating(), "calibration window should have closed")
	active, ok := c.core.manager.ActiveRotational()
	require.True(t, ok)
	assert.Equal(t, ModeCancelRotation, active)
	_, transOK := c.core.manager.ActiveTranslational()
	assert.False(t, transOK)
}
