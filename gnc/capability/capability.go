// Package capability derives per-axis force, torque, acceleration,
// and inertia limits from a spacecraft's mass properties and thruster
// geometry, caching the result under a signature of its inputs.
package capability

import (
	"fmt"
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
)

const epsilon = 1e-10

// Model derives and caches per-axis capability figures. Axis
// convention: local x is left/right, local y is up/down, local z is
// forward/back; roll is rotation about z, pitch about x, yaw about y.
type Model struct {
	mass    gnctypes.MassProperties
	thrusters gnctypes.ThrusterConfig

	configAlphaMax float64
	configOmegaMax float64

	signature string
	linForce  vector.Vector3
	linAccel  vector.Vector3
	inertia   vector.Vector3
	angTorque vector.Vector3
	angAccel  vector.Vector3
}

// New builds a capability model. configAlphaMax/configOmegaMax are
// the configured upper bounds angularCaps never exceeds.
func New(configAlphaMax, configOmegaMax float64) *Model {
	return &Model{configAlphaMax: configAlphaMax, configOmegaMax: configOmegaMax}
}

// SetConfiguration replaces the mass properties and thruster geometry
// driving this model, invalidating the cache.
func (m *Model) SetConfiguration(mass gnctypes.MassProperties, thrusters gnctypes.ThrusterConfig) {
	m.mass = mass
	m.thrusters = thrusters
	m.signature = ""
}

// SetAngularLimits updates the configured caps angularCaps respects.
func (m *Model) SetAngularLimits(alphaMax, omegaMax float64) {
	m.configAlphaMax = alphaMax
	m.configOmegaMax = omegaMax
}

func (m *Model) recomputeIfStale() {
	sig := m.buildSignature()
	if sig == m.signature {
		return
	}
	m.signature = sig
	m.inertia = m.mass.Inertia()

	caps := m.thrusters.Capacities
	specs := m.thrusters.Thrusters
	g := m.thrusters.Groups

	leftForce := maxGroupCapacity(caps, g.LeftPositive, g.LeftNegative)
	upForce := maxGroupCapacity(caps, g.UpPositive, g.UpNegative)
	forwardForce := maxGroupCapacity(caps, g.ForwardPositive, g.ForwardNegative)
	m.linForce = vector.NewVector3(leftForce, upForce, forwardForce)

	massFloor := math.Max(m.mass.Mass, epsilon)
	m.linAccel = vector.NewVector3(leftForce/massFloor, upForce/massFloor, forwardForce/massFloor)

	xAxis := vector.NewVector3(1, 0, 0)
	yAxis := vector.NewVector3(0, 1, 0)
	zAxis := vector.NewVector3(0, 0, 1)
	pitchTorque := math.Max(
		groupTorque(specs, caps, g.PitchPositive, xAxis),
		groupTorque(specs, caps, g.PitchNegative, xAxis),
	)
	yawTorque := math.Max(
		groupTorque(specs, caps, g.YawPositive, yAxis),
		groupTorque(specs, caps, g.YawNegative, yAxis),
	)
	rollTorque := math.Max(
		groupTorque(specs, caps, g.RollPositive, zAxis),
		groupTorque(specs, caps, g.RollNegative, zAxis),
	)
	m.angTorque = vector.NewVector3(pitchTorque, yawTorque, rollTorque)

	ix := math.Max(m.inertia.X(), epsilon)
	iy := math.Max(m.inertia.Y(), epsilon)
	iz := math.Max(m.inertia.Z(), epsilon)
	m.angAccel = vector.NewVector3(pitchTorque/ix, yawTorque/iy, rollTorque/iz)
}

func (m *Model) buildSignature() string {
	total := 0.0
	for _, c := range m.thrusters.Capacities {
		total += c
	}
	return fmt.Sprintf("%.3f|%.3f|%.3f|%.3f|%.3f",
		m.mass.Mass, m.mass.Width, m.mass.Height, m.mass.Depth, total)
}

func maxGroupCapacity(caps [gnctypes.ThrusterCount]float64, positive, negative []int) float64 {
	return math.Max(sumCapacity(caps, positive), sumCapacity(caps, negative))
}

func sumCapacity(caps [gnctypes.ThrusterCount]float64, group []int) float64 {
	total := 0.0
	for _, idx := range group {
		total += caps[idx]
	}
	return total
}

// GroupTorque sums |(r_i × (−cap_i·dir_i)) · axis| over the thrusters
// in group; exported so the allocator can derive a single group's
// torque capability without recomputing geometry independently.
func GroupTorque(specs [gnctypes.ThrusterCount]gnctypes.ThrusterSpec, caps [gnctypes.ThrusterCount]float64, group []int, axis vector.Vector3) float64 {
	return groupTorque(specs, caps, group, axis)
}

func groupTorque(specs [gnctypes.ThrusterCount]gnctypes.ThrusterSpec, caps [gnctypes.ThrusterCount]float64, group []int, axis vector.Vector3) float64 {
	total := 0.0
	for _, idx := range group {
		spec := specs[idx]
		force := spec.Direction.Scale(-caps[idx])
		torque := spec.Position.Cross(force)
		total += math.Abs(torque.Dot(axis))
	}
	return total
}

// LinForce returns the maximum summed capacity per axis (left, up, forward).
func (m *Model) LinForce() vector.Vector3 {
	m.recomputeIfStale()
	return m.linForce
}

// LinAccel returns linForce scaled by 1/max(mass, epsilon).
func (m *Model) LinAccel() vector.Vector3 {
	m.recomputeIfStale()
	return m.linAccel
}

// Inertia returns the principal moments of inertia (x, y, z).
func (m *Model) Inertia() vector.Vector3 {
	m.recomputeIfStale()
	return m.inertia
}

// AngTorque returns the maximum per-axis rotational torque (pitch, yaw, roll).
func (m *Model) AngTorque() vector.Vector3 {
	m.recomputeIfStale()
	return m.angTorque
}

// AngAccel returns angTorque scaled by 1/max(inertia, epsilon).
func (m *Model) AngAccel() vector.Vector3 {
	m.recomputeIfStale()
	return m.angAccel
}

// LinearAccelAlong is the conservative L1 projection of linAccel onto
// a local direction: |dir.x|*linAccel.x + |dir.y|*linAccel.y + |dir.z|*linAccel.z.
func (m *Model) LinearAccelAlong(dirLocal vector.Vector3) float64 {
	a := m.LinAccel()
	d := dirLocal.Abs()
	return d.X()*a.X() + d.Y()*a.Y() + d.Z()*a.Z()
}

// AngularCaps returns (alphaMax, omegaMax) bounded by both the
// configured limits and the plant's actual angular acceleration
// capability.
func (m *Model) AngularCaps() (alphaMax, omegaMax float64) {
	a := m.AngAccel()
	minAccel := math.Min(a.X(), math.Min(a.Y(), a.Z()))
	alphaMax = math.Min(m.configAlphaMax, 0.6*minAccel)
	omegaMax = math.Min(m.configOmegaMax, math.Max(0.2, math.Sqrt(2*alphaMax*0.5)))
	return alphaMax, omegaMax
}

// EffectiveInertiaAlong returns Σ I_i·axis_i² for the given (not
// necessarily unit) axis.
func (m *Model) EffectiveInertiaAlong(axis vector.Vector3) float64 {
	i := m.Inertia()
	return i.X()*axis.X()*axis.X() + i.Y()*axis.Y()*axis.Y() + i.Z()*axis.Z()*axis.Z()
}
