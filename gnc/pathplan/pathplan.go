// Package pathplan implements a coarse straight-line-probe planner:
// the segment from start to goal is used directly unless it crosses
// an obstacle, in which case a single perpendicular side-step
// waypoint is inserted and the remaining sub-segments are planned
// recursively, bounded by a maximum waypoint count.
package pathplan

import (
	"fmt"
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
)

// MaxWaypoints bounds recursion so obstacle density cannot make
// planning unbounded.
const MaxWaypoints = 32

// DefaultMargin is the clearance added beyond an obstacle's radius
// both for the straight-line probe and for side-step placement.
const DefaultMargin = 0.5

// Obstacle is a sphere in the world frame.
type Obstacle struct {
	Center vector.Vector3
	Radius float64
}

// Planner holds the safety margin applied around every obstacle.
type Planner struct {
	margin float64
}

// New builds a planner with the given clearance margin.
func New(margin float64) *Planner {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Planner{margin: margin}
}

// Plan returns the waypoint sequence from start to goal, always
// ending in goal itself, side-stepping any obstacle the direct
// segment would clip.
func (p *Planner) Plan(start, goal vector.Vector3, obstacles []Obstacle) ([]vector.Vector3, error) {
	waypoints := []vector.Vector3{start}
	result, err := p.plan(start, goal, obstacles, &waypoints, 0)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Planner) plan(start, goal vector.Vector3, obstacles []Obstacle, acc *[]vector.Vector3, depth int) ([]vector.Vector3, error) {
	if depth >= MaxWaypoints {
		return nil, fmt.Errorf("pathplan: exceeded %d waypoints", MaxWaypoints)
	}

	blocking, hit := p.firstBlockingObstacle(start, goal, obstacles)
	if !hit {
		*acc = append(*acc, goal)
		return *acc, nil
	}

	sideStep := p.sideStepWaypoint(start, goal, blocking)
	*acc = append(*acc, sideStep)
	return p.plan(sideStep, goal, obstacles, acc, depth+1)
}

// firstBlockingObstacle returns the first obstacle (in input order)
// whose clearance sphere the segment start->goal fails to clear by
// the planner's margin.
func (p *Planner) firstBlockingObstacle(start, goal vector.Vector3, obstacles []Obstacle) (Obstacle, bool) {
	for _, obs := range obstacles {
		if p.segmentClips(start, goal, obs) {
			return obs, true
		}
	}
	return Obstacle{}, false
}

func (p *Planner) segmentClips(start, goal vector.Vector3, obs Obstacle) bool {
	seg := goal.Sub(start)
	segLen := seg.Length()
	if segLen < 1e-9 {
		return start.Distance(obs.Center) < obs.Radius+p.margin
	}
	dir := seg.Scale(1.0 / segLen)
	toObs := obs.Center.Sub(start)
	along := clamp(toObs.Dot(dir), 0, segLen)
	closest := start.Add(dir.Scale(along))
	return closest.Distance(obs.Center) < obs.Radius+p.margin
}

// sideStepWaypoint inserts a waypoint offset from the segment's point
// closest to the obstacle along dir × world-up (horizontal, and
// perpendicular to both the segment and world-up), choosing the side
// not already occupied by the obstacle relative to the segment. The
// offset is large enough that both legs, start->waypoint and
// waypoint->goal, clear the obstacle by radius+margin.
func (p *Planner) sideStepWaypoint(start, goal vector.Vector3, obs Obstacle) vector.Vector3 {
	seg := goal.Sub(start)
	segLen := seg.Length()
	if segLen < 1e-9 {
		return start
	}
	dir := seg.Scale(1.0 / segLen)

	worldUp := vector.NewVector3(0, 1, 0)
	perp := dir.Cross(worldUp)
	if perp.Length() < 1e-6 {
		perp = dir.Cross(vector.NewVector3(1, 0, 0))
	}
	perp = perp.Normalize()

	toObs := obs.Center.Sub(start)
	side := toObs.Dot(perp)

	along := clamp(toObs.Dot(dir), 0, segLen)

	// A leg of length L ending offsetDistance off the segment passes a
	// center lying on the segment at L*d/sqrt(L²+d²), so it clears
	// radius R when d >= R*L/sqrt(L²-R²); a 1% slack keeps the legs
	// strictly outside the clearance sphere.
	clearance := obs.Radius + p.margin
	offsetDistance := clearance
	target := clearance * 1.01
	for _, legLen := range [2]float64{along, segLen - along} {
		if legLen > target {
			offsetDistance = math.Max(offsetDistance, target*legLen/math.Sqrt(legLen*legLen-target*target))
		}
	}

	var chosen vector.Vector3
	if side >= 0 {
		// Obstacle sits on the +perp side; step to -perp to clear it.
		chosen = perp.Scale(-offsetDistance)
	} else {
		chosen = perp.Scale(offsetDistance)
	}

	pivot := start.Add(dir.Scale(along))
	return pivot.Add(chosen)
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
