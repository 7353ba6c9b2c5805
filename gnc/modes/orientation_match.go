package modes

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

// OrientationMatchAutopilot rotates the craft to match targetQuat
// directly (as opposed to point-to-position, which only aligns the
// forward axis with a direction).
type OrientationMatchAutopilot struct {
	controller      *pid.Controller
	deadbandEngaged bool
	telemetry       gnctypes.Telemetry
}

// NewOrientationMatchAutopilot builds an orientation-match mode with
// its own angular-momentum-domain PID.
func NewOrientationMatchAutopilot(kp, ki, kd float64) *OrientationMatchAutopilot {
	return &OrientationMatchAutopilot{controller: pid.New(kp, ki, kd, pid.DomainAngularMomentum)}
}

// ID identifies this mode.
func (m *OrientationMatchAutopilot) ID() gnctypes.ModeID { return gnctypes.ModeOrientationMatch }

// Controller exposes the underlying PID, e.g. for the auto-tuner.
func (m *OrientationMatchAutopilot) Controller() *pid.Controller { return m.controller }

// Reset clears PID history and the deadband latch.
func (m *OrientationMatchAutopilot) Reset() {
	m.controller.Reset()
	m.deadbandEngaged = false
}

// Telemetry returns the last tick's observability snapshot.
func (m *OrientationMatchAutopilot) Telemetry() gnctypes.Telemetry { return m.telemetry }

// Step computes q_err = q^-1 * q_target, extracts its minimal
// angle-axis, and otherwise follows the same bang-bang rate profile
// as PointToPosition.
func (m *OrientationMatchAutopilot) Step(ctx StepContext) {
	qErr := quat.Mul(ctx.Snapshot.Orientation.Conj(), ctx.TargetQuat)
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
		Mode:              gnctypes.ModeOrientationMatch,
		Angle:             angle,
		AlphaMax:          alphaMax,
		OmegaMax:          omegaMax,
		EffectiveInertia:  iEff,
		DesiredOmega:      omegaDes,
		MomentumErrorNorm: lErr.Length(),
		DeadbandEngaged:   m.deadbandEngaged,
	}
}
