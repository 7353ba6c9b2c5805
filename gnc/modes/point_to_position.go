package modes

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

// inertiaCompensation scales the momentum-error PID output for
// point-to-position; empirical, treated as tunable rather than a
// fixed invariant.
const inertiaCompensation = 5.0

var bodyForward = vector.NewVector3(0, 0, 1)

// PointToPosition rotates the craft so its +z axis points at
// targetPos, using a time-optimal bang-bang angular-rate profile.
type PointToPosition struct {
	controller      *pid.Controller
	deadbandEngaged bool
	telemetry       gnctypes.Telemetry
}

// NewPointToPosition builds a point-to-position mode with its own
// angular-momentum-domain PID.
func NewPointToPosition(kp, ki, kd float64) *PointToPosition {
	return &PointToPosition{controller: pid.New(kp, ki, kd, pid.DomainAngularMomentum)}
}

// ID identifies this mode.
func (m *PointToPosition) ID() gnctypes.ModeID { return gnctypes.ModePointToPosition }

// Controller exposes the underlying PID, e.g. for the auto-tuner.
func (m *PointToPosition) Controller() *pid.Controller { return m.controller }

// Reset clears PID history and the deadband latch.
func (m *PointToPosition) Reset() {
	m.controller.Reset()
	m.deadbandEngaged = false
}

// Telemetry returns the last tick's observability snapshot.
func (m *PointToPosition) Telemetry() gnctypes.Telemetry { return m.telemetry }

// Step extracts the minimal angle-axis error between the body +z axis
// and the direction to target, applies a hysteresis deadband, derives
// a time-optimal desired angular rate, and feeds the resulting
// momentum error through the PID into the allocator.
func (m *PointToPosition) Step(ctx StepContext) {
	toTarget := ctx.TargetPos.Sub(ctx.Snapshot.Position)
	if toTarget.Length() < 1e-9 {
		m.telemetry = gnctypes.Telemetry{Mode: gnctypes.ModePointToPosition}
		return
	}
	dirLocal := ctx.Snapshot.Orientation.InverseRotateVector(toTarget.Normalize())

	qErr := quat.ShortestArc(bodyForward, dirLocal)
	angle, axis := qErr.AngleAxis()

	eps := ctx.Limits.Epsilon
	if m.deadbandEngaged {
		if angle > 1.5*eps {
			m.deadbandEngaged = false
		}
	} else if angle < eps {
		m.deadbandEngaged = true
	}

	alphaMax, omegaMax := ctx.Capability.AngularCaps()

	var omegaDes float64
	if !m.deadbandEngaged {
		omegaDes = math.Min(omegaMax, math.Min(math.Sqrt(2*alphaMax*angle), 2*angle))
	}

	wLocal := ctx.Snapshot.Orientation.InverseRotateVector(ctx.Snapshot.AngularVelocity)
	omegaAlong := wLocal.Dot(axis)

	iEff := ctx.Capability.EffectiveInertiaAlong(axis)
	lErr := axis.Scale(iEff * (omegaDes - omegaAlong))
	lErr = clampLength(lErr, ctx.Limits.MaxAngularMomentum)

	pidOut := m.controller.Update(lErr, ctx.Dt)
	cmd := pidOut.Scale(inertiaCompensation)

	ctx.Allocator.ApplyTorque(cmd, smoothingAlphaRotationalDefault, *ctx.Thrusters, ctx.Limits.MaxAngularMomentum, eps, ctx.Out)

	m.telemetry = gnctypes.Telemetry{
		Mode:             gnctypes.ModePointToPosition,
		Angle:            angle,
		AlphaMax:         alphaMax,
		OmegaMax:         omegaMax,
		EffectiveInertia: iEff,
		DesiredOmega:     omegaDes,
		MomentumErrorNorm: lErr.Length(),
		DeadbandEngaged:  m.deadbandEngaged,
	}
}
