// Package allocator maps a desired body-frame torque or force command
// onto 24 non-negative thruster magnitudes, respecting per-thruster
// capacity and a configurable exponential smoothing on commands.
package allocator

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/capability"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
)

var (
	xAxis = vector.NewVector3(1, 0, 0)
	yAxis = vector.NewVector3(0, 1, 0)
	zAxis = vector.NewVector3(0, 0, 1)
)

// Allocator is the smoothing + group-mapping layer between a mode's
// desired wrench and the 24-long thruster output buffer.
type Allocator struct {
	lastRotCmd vector.Vector3
	lastLinCmd vector.Vector3
}

// New returns an allocator with zeroed smoothing state.
func New() *Allocator {
	return &Allocator{lastRotCmd: vector.Zero3(), lastLinCmd: vector.Zero3()}
}

// Reset clears both the rotational and the translational smoothing
// state so a later command does not inherit a stale one. GncCore does
// not call it; smoothing state carries over across mode transitions.
func (a *Allocator) Reset() {
	a.lastRotCmd = vector.Zero3()
	a.lastLinCmd = vector.Zero3()
}

// ApplyTorque accumulates the thruster shares implementing cmd (a
// desired body-frame torque) into out. alpha is the mode-specific
// smoothing coefficient; maxAngularMomentum is the configured L_cap
// used to scale the commanded torque into a capacity fraction.
func (a *Allocator) ApplyTorque(cmd vector.Vector3, alpha float64, thrusters gnctypes.ThrusterConfig, maxAngularMomentum, epsilon float64, out *[gnctypes.ThrusterCount]float64) {
	a.lastRotCmd = a.lastRotCmd.Scale(alpha).Add(cmd.Scale(1 - alpha))
	smoothed := a.lastRotCmd
	threshold := epsilon * 2

	// pitch: positive command selects the configured Negative group,
	// negative command selects Positive (inverted rule table).
	if math.Abs(smoothed.X()) > threshold {
		var group []int
		if smoothed.X() > 0 {
			group = thrusters.Groups.PitchNegative
		} else {
			group = thrusters.Groups.PitchPositive
		}
		applyRotationalGroup(smoothed.X(), group, thrusters, maxAngularMomentum, xAxis, out)
	}

	// yaw: positive selects Positive, negative selects Negative.
	if math.Abs(smoothed.Y()) > threshold {
		var group []int
		if smoothed.Y() > 0 {
			group = thrusters.Groups.YawPositive
		} else {
			group = thrusters.Groups.YawNegative
		}
		applyRotationalGroup(smoothed.Y(), group, thrusters, maxAngularMomentum, yAxis, out)
	}

	// roll: positive selects Positive, negative selects Negative.
	if math.Abs(smoothed.Z()) > threshold {
		var group []int
		if smoothed.Z() > 0 {
			group = thrusters.Groups.RollPositive
		} else {
			group = thrusters.Groups.RollNegative
		}
		applyRotationalGroup(smoothed.Z(), group, thrusters, maxAngularMomentum, zAxis, out)
	}
}

func applyRotationalGroup(value float64, group []int, thrusters gnctypes.ThrusterConfig, maxAngularMomentum float64, axis vector.Vector3, out *[gnctypes.ThrusterCount]float64) {
	tauMax := capability.GroupTorque(thrusters.Thrusters, thrusters.Capacities, group, axis)
	if tauMax < 1e-10 || maxAngularMomentum < 1e-10 {
		return
	}
	tauCmd := math.Min(tauMax, (math.Abs(value)/maxAngularMomentum)*tauMax)
	ratio := tauCmd / tauMax
	for _, idx := range group {
		cap := thrusters.Capacities[idx]
		out[idx] += math.Min(cap, ratio*cap)
	}
}

// ApplyForce accumulates the thruster shares implementing cmd (a
// desired body-frame force) into out. alpha is the smoothing
// coefficient for translational commands.
func (a *Allocator) ApplyForce(cmd vector.Vector3, alpha float64, thrusters gnctypes.ThrusterConfig, epsilon float64, out *[gnctypes.ThrusterCount]float64) {
	a.lastLinCmd = a.lastLinCmd.Scale(alpha).Add(cmd.Scale(1 - alpha))
	smoothed := a.lastLinCmd
	threshold := epsilon * 2

	// left uses the inverted convention: group[+] fires when the
	// commanded component is negative.
	if math.Abs(smoothed.X()) > threshold {
		var group []int
		if smoothed.X() < 0 {
			group = thrusters.Groups.LeftPositive
		} else {
			group = thrusters.Groups.LeftNegative
		}
		applyTranslationalGroup(smoothed.X(), group, thrusters, out)
	}

	if math.Abs(smoothed.Y()) > threshold {
		var group []int
		if smoothed.Y() > 0 {
			group = thrusters.Groups.UpPositive
		} else {
			group = thrusters.Groups.UpNegative
		}
		applyTranslationalGroup(smoothed.Y(), group, thrusters, out)
	}

	if math.Abs(smoothed.Z()) > threshold {
		var group []int
		if smoothed.Z() > 0 {
			group = thrusters.Groups.ForwardPositive
		} else {
			group = thrusters.Groups.ForwardNegative
		}
		applyTranslationalGroup(smoothed.Z(), group, thrusters, out)
	}
}

func applyTranslationalGroup(value float64, group []int, thrusters gnctypes.ThrusterConfig, out *[gnctypes.ThrusterCount]float64) {
	sumCap := 0.0
	for _, idx := range group {
		sumCap += thrusters.Capacities[idx]
	}
	if sumCap < 1e-10 {
		return
	}
	total := math.Abs(value)
	if total > sumCap {
		total = sumCap
	}
	for _, idx := range group {
		cap := thrusters.Capacities[idx]
		out[idx] += math.Min(cap, total*cap/sumCap)
	}
}
