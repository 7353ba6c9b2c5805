package modes

import (
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

const smoothingAlphaTranslational = 0.4

// CancelLinearMotion drives body velocity (relative to the reference
// frame, if any) to zero.
type CancelLinearMotion struct {
	controller *pid.Controller
	telemetry  gnctypes.Telemetry
}

// NewCancelLinearMotion builds a cancel-linear-motion mode with its
// own momentum-domain PID.
func NewCancelLinearMotion(kp, ki, kd float64) *CancelLinearMotion {
	return &CancelLinearMotion{controller: pid.New(kp, ki, kd, pid.DomainLinearMomentum)}
}

// ID identifies this mode.
func (m *CancelLinearMotion) ID() gnctypes.ModeID { return gnctypes.ModeCancelLinearMotion }

// Controller exposes the underlying PID, e.g. for the auto-tuner.
func (m *CancelLinearMotion) Controller() *pid.Controller { return m.controller }

// Reset clears PID history, matching a fresh enable.
func (m *CancelLinearMotion) Reset() { m.controller.Reset() }

// Telemetry returns the last tick's observability snapshot.
func (m *CancelLinearMotion) Telemetry() gnctypes.Telemetry { return m.telemetry }

// Step computes velocity relative to the reference frame in the body
// frame, applies a proportional damping pre-gain, and feeds the
// result through the PID into the allocator's force path.
func (m *CancelLinearMotion) Step(ctx StepContext) {
	vRelWorld := ctx.Snapshot.Velocity.Sub(ctx.RefVelocity)
	vLocal := ctx.Snapshot.Orientation.InverseRotateVector(vRelWorld)

	dampedErr := vLocal.Scale(-ctx.Limits.DampingFactor)
	pidOut := m.controller.Update(dampedErr, ctx.Dt)

	force := pidOut.Scale(ctx.Mass)

	fMax := ctx.Limits.MaxForce
	if ctx.Dt > 0 && ctx.Limits.MaxLinearMomentum > 0 {
		impulseCap := ctx.Limits.MaxLinearMomentum / ctx.Dt
		if fMax <= 0 || impulseCap < fMax {
			fMax = impulseCap
		}
	}
	force = clampLength(force, fMax)

	ctx.Allocator.ApplyForce(force, smoothingAlphaTranslational, *ctx.Thrusters, ctx.Limits.Epsilon, ctx.Out)

	m.telemetry = gnctypes.Telemetry{
		Mode:          gnctypes.ModeCancelLinearMotion,
		AlongVelocity: vLocal.Length(),
	}
}
