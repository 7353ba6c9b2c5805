package capability

import (
	"testing"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxThrusterConfig builds a minimal layout for the linear-capability
// tests: all 24 thrusters share one mounting position and exhaust
// direction along local x, so every group has the same per-thruster
// capacity and no group produces any torque.
func boxThrusterConfig(t *testing.T, baseThrust float64) gnctypes.ThrusterConfig {
	t.Helper()
	specs := make([]gnctypes.ThrusterSpec, gnctypes.ThrusterCount)
	for i := range specs {
		specs[i] = gnctypes.ThrusterSpec{
			Position:  vector.NewVector3(1, 0, 0),
			Direction: vector.NewVector3(1, 0, 0),
		}
	}
	groups := gnctypes.ThrusterGroups{
		PitchPositive: []int{0}, PitchNegative: []int{1},
		YawPositive: []int{2}, YawNegative: []int{3},
		RollPositive: []int{4}, RollNegative: []int{5},
		ForwardPositive: []int{6}, ForwardNegative: []int{7},
		UpPositive: []int{8}, UpNegative: []int{9},
		LeftPositive: []int{10}, LeftNegative: []int{11},
	}
	// Assign the leftover indices to RollPositive so every nozzle
	// belongs to some group.
	for i := 12; i < gnctypes.ThrusterCount; i++ {
		groups.RollPositive = append(groups.RollPositive, i)
	}
	cfg, err := gnctypes.NewThrusterConfig(specs, nil, baseThrust, groups)
	require.NoError(t, err)
	return *cfg
}

func TestLinForceIsMaxOfSignedGroups(t *testing.T) {
	m := New(10, 10)
	mass := gnctypes.MassProperties{Mass: 100, Width: 2, Height: 2, Depth: 2}
	m.SetConfiguration(mass, boxThrusterConfig(t, 50))

	lf := m.LinForce()
	assert.InDelta(t, 50, lf.X(), 1e-9) // left group: one thruster at 50N
}

func TestLinAccelDividesByMass(t *testing.T) {
	m := New(10, 10)
	mass := gnctypes.MassProperties{Mass: 50, Width: 2, Height: 2, Depth: 2}
	m.SetConfiguration(mass, boxThrusterConfig(t, 100))

	la := m.LinAccel()
	assert.InDelta(t, 2.0, la.X(), 1e-9) // 100N / 50kg
}

func TestCacheInvalidatesOnMassChange(t *testing.T) {
	m := New(10, 10)
	cfg := boxThrusterConfig(t, 100)
	m.SetConfiguration(gnctypes.MassProperties{Mass: 50, Width: 2, Height: 2, Depth: 2}, cfg)
	first := m.LinAccel().X()

	m.SetConfiguration(gnctypes.MassProperties{Mass: 100, Width: 2, Height: 2, Depth: 2}, cfg)
	second := m.LinAccel().X()

	assert.NotEqual(t, first, second)
}

func TestLinearAccelAlongIsL1Projection(t *testing.T) {
	m := New(10, 10)
	mass := gnctypes.MassProperties{Mass: 10, Width: 2, Height: 2, Depth: 2}
	m.SetConfiguration(mass, boxThrusterConfig(t, 100))

	got := m.LinearAccelAlong(vector.NewVector3(1, 0, 0))
	want := m.LinAccel().X()
	assert.InDelta(t, want, got, 1e-9)
}

func TestAngularCapsRespectConfiguredCeiling(t *testing.T) {
	m := New(0.05, 0.3)
	mass := gnctypes.MassProperties{Mass: 10, Width: 2, Height: 2, Depth: 2}
	m.SetConfiguration(mass, boxThrusterConfig(t, 1000))

	alphaMax, omegaMax := m.AngularCaps()
	assert.LessOrEqual(t, alphaMax, 0.05+1e-9)
	assert.LessOrEqual(t, omegaMax, 0.3+1e-9)
}

func TestEffectiveInertiaAlongAxis(t *testing.T) {
	m := New(10, 10)
	mass := gnctypes.MassProperties{Mass: 12, Width: 2, Height: 2, Depth: 2}
	m.SetConfiguration(mass, boxThrusterConfig(t, 100))

	got := m.EffectiveInertiaAlong(vector.NewVector3(1, 0, 0))
	assert.InDelta(t, m.Inertia().X(), got, 1e-9)
}
