package gnctypes

import (
	"fmt"
	"math"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
)

// ThrusterCount is the fixed number of reaction-control nozzles the
// allocator and capability model expect. Geometry with a different
// count is degenerate and rejected at init.
const ThrusterCount = 24

// Snapshot is the immutable kinematic state the caller supplies each
// tick: pose and rates, external frame. The orientation need not be
// unit-length; consumers renormalize on use.
type Snapshot struct {
	Position        vector.Vector3
	Orientation     quat.Quaternion
	Velocity        vector.Vector3
	AngularVelocity vector.Vector3
}

// IsFinite reports whether every numeric field is finite, the
// minimum bar for a snapshot to be accepted by step.
func (s Snapshot) IsFinite() bool {
	if s.Position == nil || s.Velocity == nil || s.AngularVelocity == nil {
		return false
	}
	return finite3(s.Position) && finite3(s.Velocity) && finite3(s.AngularVelocity) && s.Orientation.IsFinite()
}

func finite3(v vector.Vector3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MassProperties bundles scalar mass and box dimensions; principal
// inertias are derived from the box formulas, never stored directly.
type MassProperties struct {
	Mass   float64 // kilograms
	Width  float64 // meters, local x
	Height float64 // meters, local y
	Depth  float64 // meters, local z
}

// Validate rejects non-positive mass or dimensions.
func (m MassProperties) Validate() error {
	if !isFinite(m.Mass) || m.Mass <= 0 {
		return fmt.Errorf("mass properties: mass must be positive and finite: %w", ErrInvalidInput)
	}
	if !isFinite(m.Width) || m.Width <= 0 || !isFinite(m.Height) || m.Height <= 0 || !isFinite(m.Depth) || m.Depth <= 0 {
		return fmt.Errorf("mass properties: box dimensions must be positive and finite: %w", ErrInvalidInput)
	}
	return nil
}

// Inertia returns the principal moments of inertia of a uniform solid
// box: I_x=(1/12)m(h²+d²) and cyclic permutations.
func (m MassProperties) Inertia() vector.Vector3 {
	c := m.Mass / 12.0
	ix := c * (m.Height*m.Height + m.Depth*m.Depth)
	iy := c * (m.Width*m.Width + m.Depth*m.Depth)
	iz := c * (m.Width*m.Width + m.Height*m.Height)
	return vector.NewVector3(ix, iy, iz)
}

// ThrusterSpec is one reaction-control nozzle: a fixed local mounting
// position and a unit exhaust direction, both in the body frame.
type ThrusterSpec struct {
	Position  vector.Vector3
	Direction vector.Vector3
}

// ThrusterGroups maps each signed axis-role to the thruster indices
// that contribute to it. Left is sign-inverted by convention: its
// Positive group fires when the commanded left component is negative.
type ThrusterGroups struct {
	PitchPositive []int
	PitchNegative []int
	YawPositive   []int
	YawNegative   []int
	RollPositive  []int
	RollNegative  []int

	ForwardPositive []int
	ForwardNegative []int
	UpPositive      []int
	UpNegative      []int
	LeftPositive    []int
	LeftNegative    []int
}

func (g ThrusterGroups) all() [][]int {
	return [][]int{
		g.PitchPositive, g.PitchNegative,
		g.YawPositive, g.YawNegative,
		g.RollPositive, g.RollNegative,
		g.ForwardPositive, g.ForwardNegative,
		g.UpPositive, g.UpNegative,
		g.LeftPositive, g.LeftNegative,
	}
}

// ThrusterConfig is the fixed-at-init geometric configuration of the
// 24 nozzles, their groups, and their per-thruster force capacities.
type ThrusterConfig struct {
	Thrusters  [ThrusterCount]ThrusterSpec
	Capacities [ThrusterCount]float64
	Groups     ThrusterGroups
}

// NewThrusterConfig validates and builds a ThrusterConfig. capacities
// may be nil, in which case baseThrust is applied uniformly to all 24
// nozzles.
func NewThrusterConfig(thrusters []ThrusterSpec, capacities []float64, baseThrust float64, groups ThrusterGroups) (*ThrusterConfig, error) {
	if len(thrusters) != ThrusterCount {
		return nil, fmt.Errorf("thruster config: expected %d thrusters, got %d: %w", ThrusterCount, len(thrusters), ErrDegenerateGeometry)
	}
	if capacities != nil && len(capacities) != ThrusterCount {
		return nil, fmt.Errorf("thruster config: expected %d capacities, got %d: %w", ThrusterCount, len(capacities), ErrDegenerateGeometry)
	}

	cfg := &ThrusterConfig{Groups: groups}
	for i, t := range thrusters {
		if t.Position == nil || t.Direction == nil || !finite3(t.Position) || !finite3(t.Direction) {
			return nil, fmt.Errorf("thruster config: thruster %d has non-finite geometry: %w", i, ErrInvalidInput)
		}
		cfg.Thrusters[i] = ThrusterSpec{Position: t.Position, Direction: t.Direction.Normalize()}
		if capacities == nil {
			cfg.Capacities[i] = baseThrust
		} else {
			cfg.Capacities[i] = capacities[i]
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every thruster has finite geometry and a
// non-zero-length direction, every capacity is finite and non-negative, and every
// group is non-empty with in-range indices. NewThrusterConfig calls
// this once it has normalized directions and filled capacities;
// SetThrusterConfig calls it directly on a caller-supplied config.
func (c ThrusterConfig) Validate() error {
	for i, t := range c.Thrusters {
		if t.Position == nil || t.Direction == nil || !finite3(t.Position) || !finite3(t.Direction) {
			return fmt.Errorf("thruster config: thruster %d has non-finite geometry: %w", i, ErrInvalidInput)
		}
		if t.Direction.Length() < 1e-9 {
			return fmt.Errorf("thruster config: thruster %d has zero-length direction: %w", i, ErrInvalidInput)
		}
	}
	for i, capv := range c.Capacities {
		if !isFinite(capv) || capv < 0 {
			return fmt.Errorf("thruster config: capacity %d must be non-negative and finite: %w", i, ErrInvalidInput)
		}
	}
	for _, group := range c.Groups.all() {
		if len(group) == 0 {
			return fmt.Errorf("thruster config: empty group: %w", ErrDegenerateGeometry)
		}
		for _, idx := range group {
			if idx < 0 || idx >= ThrusterCount {
				return fmt.Errorf("thruster config: group index %d out of range: %w", idx, ErrDegenerateGeometry)
			}
		}
	}
	return nil
}

// ModeID names one of the five control modes.
type ModeID int

const (
	ModeOrientationMatch ModeID = iota
	ModeCancelRotation
	ModePointToPosition
	ModeCancelLinearMotion
	ModeGoToPosition
)

func (m ModeID) String() string {
	switch m {
	case ModeOrientationMatch:
		return "orientationMatch"
	case ModeCancelRotation:
		return "cancelRotation"
	case ModePointToPosition:
		return "pointToPosition"
	case ModeCancelLinearMotion:
		return "cancelLinearMotion"
	case ModeGoToPosition:
		return "goToPosition"
	default:
		return "unknown"
	}
}

// Telemetry is the read-only side channel a mode publishes each tick
// it runs; fields not meaningful to a given mode are left at zero.
type Telemetry struct {
	Mode ModeID

	Angle            float64
	AlphaMax         float64
	OmegaMax         float64
	EffectiveInertia float64
	DesiredOmega     float64
	MomentumErrorNorm float64
	DeadbandEngaged  bool

	Distance         float64
	AlongVelocity    float64
	StoppingDistance float64
	Braking          bool
	AlignmentGated   bool
}
