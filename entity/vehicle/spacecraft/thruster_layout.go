package spacecraft

import (
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
)

// thrusterTorqueEpsilon is the magnitude below which a candidate
// nozzle's torque about an axis is treated as noise rather than a
// real contribution to that axis's group.
const thrusterTorqueEpsilon = 1e-9

// BuildRCSLayout derives a 24-nozzle reaction-control layout for a box
// hull of the given half-extents: one thruster per axis (x, y, z) at
// each of the 8 corners, each firing inward so that opposite corners
// supply opposing force along every translational axis. Group
// membership is derived from the actual force/torque each candidate
// nozzle produces, not asserted by position alone, so the layout is
// correct regardless of how halfExtents is shaped.
func BuildRCSLayout(halfExtents vector.Vector3, baseThrust float64) ([]gnctypes.ThrusterSpec, []float64, gnctypes.ThrusterGroups) {
	specs := make([]gnctypes.ThrusterSpec, 0, gnctypes.ThrusterCount)
	caps := make([]float64, 0, gnctypes.ThrusterCount)
	var groups gnctypes.ThrusterGroups

	signs := []float64{1, -1}
	for _, sx := range signs {
		for _, sy := range signs {
			for _, sz := range signs {
				pos := vector.NewVector3(sx*halfExtents.X(), sy*halfExtents.Y(), sz*halfExtents.Z())

				// Each corner fires inward along all three axes: the
				// nozzle pointed along local X pushes the hull toward
				// -sx, and so on.
				axisForces := [3]vector.Vector3{
					vector.NewVector3(-sx, 0, 0),
					vector.NewVector3(0, -sy, 0),
					vector.NewVector3(0, 0, -sz),
				}
				for _, force := range axisForces {
					idx := len(specs)
					// direction is the exhaust direction; body force is -cap*direction.
					specs = append(specs, gnctypes.ThrusterSpec{Position: pos, Direction: force.Negate()})
					caps = append(caps, baseThrust)
					classify(idx, pos, force, &groups)
				}
			}
		}
	}

	return specs, caps, groups
}

func classify(idx int, pos, force vector.Vector3, groups *gnctypes.ThrusterGroups) {
	addIf(force.X() > thrusterTorqueEpsilon, &groups.LeftNegative, idx)
	addIf(force.X() < -thrusterTorqueEpsilon, &groups.LeftPositive, idx)
	addIf(force.Y() > thrusterTorqueEpsilon, &groups.UpPositive, idx)
	addIf(force.Y() < -thrusterTorqueEpsilon, &groups.UpNegative, idx)
	addIf(force.Z() > thrusterTorqueEpsilon, &groups.ForwardPositive, idx)
	addIf(force.Z() < -thrusterTorqueEpsilon, &groups.ForwardNegative, idx)

	torque := pos.Cross(force)
	addIf(torque.X() > thrusterTorqueEpsilon, &groups.PitchNegative, idx)
	addIf(torque.X() < -thrusterTorqueEpsilon, &groups.PitchPositive, idx)
	addIf(torque.Y() > thrusterTorqueEpsilon, &groups.YawPositive, idx)
	addIf(torque.Y() < -thrusterTorqueEpsilon, &groups.YawNegative, idx)
	addIf(torque.Z() > thrusterTorqueEpsilon, &groups.RollPositive, idx)
	addIf(torque.Z() < -thrusterTorqueEpsilon, &groups.RollNegative, idx)
}

func addIf(cond bool, group *[]int, idx int) {
	if cond {
		*group = append(*group, idx)
	}
}
