// Package modes implements the five control modes: each reads the
// current kinematic state and a setpoint, runs its own PID, and
// accumulates a thruster contribution through the shared allocator.
package modes

import (
	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/allocator"
	"github.com/alexanderi96/go-gnc-core/gnc/capability"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pid"
)

// Limits bundles the configured bounds every mode reads from.
type Limits struct {
	MaxForce               float64
	Epsilon                float64
	MaxAngularMomentum     float64
	MaxLinearMomentum      float64
	MaxAngularVelocity     float64
	MaxAngularAcceleration float64
	// MaxLinearAcceleration is optional; zero means "no additional cap
	// beyond the plant's own capability". MaxLinearVelocity is carried
	// here but no mode reads it.
	MaxLinearVelocity     float64
	MaxLinearAcceleration float64
	DampingFactor         float64
}

// StepContext is everything a mode needs to produce one tick's
// thruster contribution. It is built fresh by GncCore each step; no
// mode retains it across ticks.
type StepContext struct {
	Snapshot    gnctypes.Snapshot
	TargetPos   vector.Vector3
	TargetQuat  quat.Quaternion
	RefVelocity vector.Vector3
	Mass        float64
	Dt          float64

	Capability *capability.Model
	Allocator  *allocator.Allocator
	Thrusters  *gnctypes.ThrusterConfig
	Limits     Limits

	Out *[gnctypes.ThrusterCount]float64
}

// Mode is one of the five control strategies. Step is not
// allocation-free: it builds its intermediate results as fresh
// vector.Vector3 values, and modes keep no scratch vectors in their
// own fields.
type Mode interface {
	ID() gnctypes.ModeID
	Step(ctx StepContext)
	Reset()
	Telemetry() gnctypes.Telemetry
	// Controller exposes the mode's own PID so GncCore can apply
	// direct gain overrides and the auto-tuner can drive it.
	Controller() *pid.Controller
}

// smoothingAlphaRotationalDefault is the allocator torque-smoothing
// coefficient used by every rotational mode except cancel-rotation,
// which uses its own tighter 0.25.
const smoothingAlphaRotationalDefault = 0.4

func clampLength(v vector.Vector3, max float64) vector.Vector3 {
	if max <= 0 {
		return v
	}
	if n := v.Length(); n > max {
		return v.Scale(max / n)
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
