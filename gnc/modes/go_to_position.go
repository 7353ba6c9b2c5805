package modes

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

const (
	nearTargetThreshold  = 0.2  // meters
	approachThreshold    = 0.5  // meters
	brakeEngageMargin    = 0.08 // meters
	brakeDisengageMargin = 0.12 // meters
	alignGateOnDegrees   = 15.0
	alignGateOffDegrees  = 8.0
	tGoMin               = 0.35
	tGoMax               = 60.0
	approachGainBoost    = 1.5
)

// GoToPosition flies the craft to a (possibly moving) target position
// using zero-effort-miss/zero-effort-velocity proportional navigation,
// falling back to a local proportional+damping term very close in.
type GoToPosition struct {
	controller *pid.Controller

	baseKp, baseKi, baseKd float64
	approachPhase          bool

	alignmentGated bool
	braking        bool

	telemetry gnctypes.Telemetry
}

// NewGoToPosition builds a go-to-position mode with its own
// position-domain PID, used for gain bookkeeping and auto-tuning; the
// primary ZEM/ZEV path does not call it.
func NewGoToPosition(kp, ki, kd float64) *GoToPosition {
	return &GoToPosition{
		controller: pid.New(kp, ki, kd, pid.DomainPosition),
		baseKp:     kp, baseKi: ki, baseKd: kd,
	}
}

// ID identifies this mode.
func (m *GoToPosition) ID() gnctypes.ModeID { return gnctypes.ModeGoToPosition }

// Controller exposes the underlying PID, e.g. for the auto-tuner.
func (m *GoToPosition) Controller() *pid.Controller { return m.controller }

// Reset clears PID history, approach-phase gain boost, and the
// alignment/braking hysteresis state.
func (m *GoToPosition) Reset() {
	m.controller.Reset()
	m.controller.SetGain("kp", m.baseKp)
	m.controller.SetGain("ki", m.baseKi)
	m.controller.SetGain("kd", m.baseKd)
	m.approachPhase = false
	m.alignmentGated = false
	m.braking = false
}

// Telemetry returns the last tick's observability snapshot.
func (m *GoToPosition) Telemetry() gnctypes.Telemetry { return m.telemetry }

// Step computes a ZEM/ZEV acceleration command relative to the
// (possibly moving) reference frame, gates it by body-forward
// alignment, brakes with hysteresis near arrival, and switches to a
// local proportional+damping term inside the near-target threshold.
func (m *GoToPosition) Step(ctx StepContext) {
	posErrWorld := ctx.TargetPos.Sub(ctx.Snapshot.Position)
	dist := posErrWorld.Length()

	if dist > approachThreshold && !m.approachPhase {
		m.approachPhase = true
		m.controller.SetGain("kp", m.baseKp*approachGainBoost)
		m.controller.SetGain("kd", m.baseKd*approachGainBoost)
	} else if dist <= approachThreshold && m.approachPhase {
		m.approachPhase = false
		m.controller.SetGain("kp", m.baseKp)
		m.controller.SetGain("kd", m.baseKd)
	}

	vRel := ctx.Snapshot.Velocity.Sub(ctx.RefVelocity)

	var dir vector.Vector3
	if dist > 1e-9 {
		dir = posErrWorld.Scale(1.0 / dist)
	} else {
		dir = vector.NewVector3(0, 0, 1)
	}
	vAlong := vRel.Dot(dir)

	fwdWorld := ctx.Snapshot.Orientation.RotateVector(bodyForward)
	rawAlign := clamp(fwdWorld.Dot(dir), -1, 1)
	angleDeg := math.Acos(rawAlign) * 180 / math.Pi

	if m.alignmentGated {
		if angleDeg <= alignGateOffDegrees {
			m.alignmentGated = false
		}
	} else if angleDeg >= alignGateOnDegrees {
		m.alignmentGated = true
		m.braking = false
	}

	var alignScale float64
	if m.alignmentGated {
		alignScale = 0.3
	} else {
		align := math.Max(0, rawAlign)
		alignScale = math.Max(0.2, align*align)
	}

	dirLocal := ctx.Snapshot.Orientation.InverseRotateVector(dir)
	aMax := ctx.Capability.LinearAccelAlong(dirLocal) * alignScale
	aMaxFloor := math.Max(aMax, 1e-6)

	dStop := (vAlong * vAlong) / (2 * aMaxFloor)
	if !m.alignmentGated {
		if m.braking {
			if dist > dStop+brakeDisengageMargin {
				m.braking = false
			}
		} else if vAlong > 0 && dist <= dStop+brakeEngageMargin {
			m.braking = true
		}
	}

	var aCmdLocal vector.Vector3
	if dist <= nearTargetThreshold {
		posErrLocal := ctx.Snapshot.Orientation.InverseRotateVector(posErrWorld)
		vLocal := ctx.Snapshot.Orientation.InverseRotateVector(vRel)
		kPos := m.controller.GetGain("kp")
		aCmdLocal = posErrLocal.Scale(kPos).Sub(vLocal.Scale(ctx.Limits.DampingFactor))
	} else {
		speed := ctx.Snapshot.Velocity.Length()
		tGo := clamp(0.8*2*math.Sqrt(dist/aMaxFloor)+0.2*speed/aMaxFloor, tGoMin, tGoMax)

		zem := posErrWorld.Sub(vRel.Scale(tGo))
		aCmdWorld := zem.Scale(6 / (tGo * tGo)).Add(vRel.Scale(-4 / tGo))
		aCmdLocal = ctx.Snapshot.Orientation.InverseRotateVector(aCmdWorld)
	}

	linAccel := ctx.Capability.LinAccel()
	axisCap := linAccel.Scale(alignScale)
	if ctx.Limits.MaxLinearAcceleration > 0 {
		axisCap = vector.NewVector3(
			math.Min(axisCap.X(), ctx.Limits.MaxLinearAcceleration),
			math.Min(axisCap.Y(), ctx.Limits.MaxLinearAcceleration),
			math.Min(axisCap.Z(), ctx.Limits.MaxLinearAcceleration),
		)
	}
	aCmdLocal = vector.NewVector3(
		clamp(aCmdLocal.X(), -axisCap.X(), axisCap.X()),
		clamp(aCmdLocal.Y(), -axisCap.Y(), axisCap.Y()),
		clamp(aCmdLocal.Z(), -axisCap.Z(), axisCap.Z()),
	)

	force := aCmdLocal.Scale(ctx.Mass)
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
		Mode:             gnctypes.ModeGoToPosition,
		Distance:         dist,
		AlongVelocity:    vAlong,
		StoppingDistance: dStop,
		Braking:          m.braking,
		AlignmentGated:   m.alignmentGated,
	}
}
