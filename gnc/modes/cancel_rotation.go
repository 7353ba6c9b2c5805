package modes

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

// smoothingAlphaCancelRotation is the rotational command smoothing
// coefficient dedicated to cancel-rotation; the remaining rotational
// modes share a looser 0.4.
const smoothingAlphaCancelRotation = 0.25

// CancelRotation drives body angular momentum to zero.
type CancelRotation struct {
	controller *pid.Controller
	telemetry  gnctypes.Telemetry
}

// NewCancelRotation builds a cancel-rotation mode with its own
// momentum-domain PID.
func NewCancelRotation(kp, ki, kd float64) *CancelRotation {
	return &CancelRotation{controller: pid.New(kp, ki, kd, pid.DomainAngularMomentum)}
}

// ID identifies this mode.
func (m *CancelRotation) ID() gnctypes.ModeID { return gnctypes.ModeCancelRotation }

// Controller exposes the underlying PID, e.g. for the auto-tuner.
func (m *CancelRotation) Controller() *pid.Controller { return m.controller }

// Reset clears PID history, matching a fresh enable.
func (m *CancelRotation) Reset() { m.controller.Reset() }

// Telemetry returns the last tick's observability snapshot.
func (m *CancelRotation) Telemetry() gnctypes.Telemetry { return m.telemetry }

// Step computes local angular momentum, a clamped-and-tapered
// corrective target, and feeds the resulting error through the PID
// into the allocator's torque path.
func (m *CancelRotation) Step(ctx StepContext) {
	wLocal := ctx.Snapshot.Orientation.InverseRotateVector(ctx.Snapshot.AngularVelocity)
	inertia := ctx.Capability.Inertia()
	angularMomentum := vector.NewVector3(
		inertia.X()*wLocal.X(),
		inertia.Y()*wLocal.Y(),
		inertia.Z()*wLocal.Z(),
	)

	lMax := ctx.Limits.MaxAngularMomentum
	target := angularMomentum.Negate()
	target = clampLength(target, lMax)

	lNorm := angularMomentum.Length()
	tinyThreshold := 0.05 * lMax
	if lMax > 0 && lNorm < tinyThreshold {
		scale := 0.0
		if tinyThreshold > 1e-12 {
			scale = math.Sqrt(lNorm / tinyThreshold)
		}
		target = target.Scale(scale)
	}

	cmd := m.controller.Update(target, ctx.Dt)
	ctx.Allocator.ApplyTorque(cmd, smoothingAlphaCancelRotation, *ctx.Thrusters, lMax, ctx.Limits.Epsilon, ctx.Out)

	m.telemetry = gnctypes.Telemetry{
		Mode:              gnctypes.ModeCancelRotation,
		MomentumErrorNorm: lNorm,
	}
}
