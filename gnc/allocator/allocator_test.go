package allocator

import (
	"testing"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleConfig(t *testing.T, cap float64) gnctypes.ThrusterConfig {
	t.Helper()
	specs := make([]gnctypes.ThrusterSpec, gnctypes.ThrusterCount)
	for i := range specs {
		specs[i] = gnctypes.ThrusterSpec{
			Position:  vector.NewVector3(0, 0, 1),
			Direction: vector.NewVector3(0, 0, 1),
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
	for i := 12; i < gnctypes.ThrusterCount; i++ {
		groups.RollPositive = append(groups.RollPositive, i)
	}
	cfg, err := gnctypes.NewThrusterConfig(specs, nil, cap, groups)
	require.NoError(t, err)
	return *cfg
}

func TestApplyForceStaysWithinCapacity(t *testing.T) {
	cfg := simpleConfig(t, 50)
	a := New()
	var out [gnctypes.ThrusterCount]float64

	a.ApplyForce(vector.NewVector3(0, 0, 1000), 0.0, cfg, 1e-6, &out)

	assert.LessOrEqual(t, out[6], 50.0+1e-9)
	assert.Equal(t, 0.0, out[7])
}

func TestApplyForceBelowThresholdContributesNothing(t *testing.T) {
	cfg := simpleConfig(t, 50)
	a := New()
	var out [gnctypes.ThrusterCount]float64

	a.ApplyForce(vector.NewVector3(0, 0, 1e-9), 0.0, cfg, 1e-3, &out)

	for _, v := range out {
		assert.Equal(t, 0.0, v)
	}
}

func TestApplyForceOutputsAreNonNegative(t *testing.T) {
	cfg := simpleConfig(t, 50)
	a := New()
	var out [gnctypes.ThrusterCount]float64

	a.ApplyForce(vector.NewVector3(-10, 5, -3), 0.0, cfg, 1e-6, &out)

	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestApplyTorqueRespectsTorqueCapacity(t *testing.T) {
	cfg := simpleConfig(t, 50)
	a := New()
	var out [gnctypes.ThrusterCount]float64

	a.ApplyTorque(vector.NewVector3(1000, 0, 0), 0.0, cfg, 1.0, 1e-6, &out)

	assert.LessOrEqual(t, out[1], 50.0+1e-9) // positive pitch selects PitchNegative (idx 1)
}

func TestSmoothingIsDeterministicForSameSequence(t *testing.T) {
	cfg := simpleConfig(t, 50)
	a1 := New()
	a2 := New()
	var out1, out2 [gnctypes.ThrusterCount]float64

	cmds := []vector.Vector3{
		vector.NewVector3(0, 0, 10),
		vector.NewVector3(0, 0, 20),
		vector.NewVector3(0, 0, 5),
	}
	for _, c := range cmds {
		a1.ApplyForce(c, 0.4, cfg, 1e-6, &out1)
	}
	for _, c := range cmds {
		a2.ApplyForce(c, 0.4, cfg, 1e-6, &out2)
	}
	assert.Equal(t, out1, out2)
}
