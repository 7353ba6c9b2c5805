package pathplan

import (
	"testing"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanWithNoObstaclesReturnsDirectSegment(t *testing.T) {
	p := New(DefaultMargin)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(10, 0, 0)

	waypoints, err := p.Plan(start, goal, nil)

	require.NoError(t, err)
	assert.Len(t, waypoints, 2)
	assert.Equal(t, goal, waypoints[len(waypoints)-1])
}

func TestPlanWithClearObstacleReturnsDirectSegment(t *testing.T) {
	p := New(1.0)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(10, 0, 0)
	obstacles := []Obstacle{{Center: vector.NewVector3(5, 10, 0), Radius: 1.0}}

	waypoints, err := p.Plan(start, goal, obstacles)

	require.NoError(t, err)
	assert.Len(t, waypoints, 2)
}

func TestPlanWithBlockingObstacleInsertsSideStep(t *testing.T) {
	p := New(0.5)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(10, 0, 0)
	obstacles := []Obstacle{{Center: vector.NewVector3(5, 0, 0), Radius: 1.0}}

	waypoints, err := p.Plan(start, goal, obstacles)

	require.NoError(t, err)
	require.Len(t, waypoints, 3)
	assert.Equal(t, goal, waypoints[2])

	sideStep := waypoints[1]
	assert.Greater(t, sideStep.Distance(obstacles[0].Center), obstacles[0].Radius)
}

func TestPlanSideStepClearsObstacleMargin(t *testing.T) {
	p := New(0.5)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(10, 0, 0)
	obstacles := []Obstacle{{Center: vector.NewVector3(5, 0, 0), Radius: 1.0}}

	waypoints, err := p.Plan(start, goal, obstacles)
	require.NoError(t, err)

	for i := 0; i < len(waypoints)-1; i++ {
		assert.False(t, p.segmentClips(waypoints[i], waypoints[i+1], obstacles[0]))
	}
}

func TestPlanChoosesSideOppositeObstacleOffset(t *testing.T) {
	p := New(0.5)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(10, 0, 0)
	// obstacle offset toward +z of the segment/up plane
	obstacles := []Obstacle{{Center: vector.NewVector3(5, 0, 1), Radius: 1.0}}

	waypoints, err := p.Plan(start, goal, obstacles)
	require.NoError(t, err)
	require.Len(t, waypoints, 3)

	sideStep := waypoints[1]
	// the chosen waypoint must end up farther from the obstacle center
	// than the unperturbed closest point on the original segment would be
	assert.Greater(t, sideStep.Distance(obstacles[0].Center), obstacles[0].Radius+p.margin-1e-9)
}

func TestPlanZeroLengthSegmentWithObstacleAtStartIsDetected(t *testing.T) {
	p := New(0.5)
	start := vector.NewVector3(0, 0, 0)
	goal := vector.NewVector3(0, 0, 0)
	obstacles := []Obstacle{{Center: vector.NewVector3(0, 0, 0), Radius: 1.0}}

	assert.True(t, p.segmentClips(start, goal, obstacles[0]))
}
