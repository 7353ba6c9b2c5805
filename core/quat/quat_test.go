package quat

import (
	"math"
	"testing"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/stretchr/testify/assert"
)

func TestIdentityRotatesNothing(t *testing.T) {
	v := vector.NewVector3(1, 2, 3)
	got := Identity().RotateVector(v)
	assert.InDelta(t, 1.0, got.X(), 1e-9)
	assert.InDelta(t, 2.0, got.Y(), 1e-9)
	assert.InDelta(t, 3.0, got.Z(), 1e-9)
}

func TestFromAxisAngleRotatesQuarterTurn(t *testing.T) {
	q := FromAxisAngle(vector.NewVector3(0, 1, 0), math.Pi/2)
	got := q.RotateVector(vector.NewVector3(0, 0, 1))
	assert.InDelta(t, 1.0, got.X(), 1e-9)
	assert.InDelta(t, 0.0, got.Y(), 1e-9)
	assert.InDelta(t, 0.0, got.Z(), 1e-9)
}

func TestAngleAxisShortestPath(t *testing.T) {
	// A rotation expressed with an angle > pi should canonicalize to <= pi.
	axis := vector.NewVector3(0, 0, 1)
	q := FromAxisAngle(axis, 3*math.Pi/2) // 270 degrees
	angle, _ := q.AngleAxis()
	assert.LessOrEqual(t, angle, math.Pi+1e-9)
	assert.InDelta(t, math.Pi/2, angle, 1e-9) // shortest path is 90 degrees the other way
}

func TestConjIsInverseForUnitQuaternion(t *testing.T) {
	q := FromAxisAngle(vector.NewVector3(1, 1, 0), 1.234).Normalize()
	composed := Mul(q, q.Conj())
	assert.InDelta(t, 1.0, composed.W(), 1e-9)
	assert.InDelta(t, 0.0, composed.X(), 1e-9)
	assert.InDelta(t, 0.0, composed.Y(), 1e-9)
	assert.InDelta(t, 0.0, composed.Z(), 1e-9)
}

func TestShortestArcRotatesFromOntoTo(t *testing.T) {
	from := vector.NewVector3(0, 0, 1)
	to := vector.NewVector3(1, 0, 0)
	q := ShortestArc(from, to)
	got := q.RotateVector(from)
	assert.InDelta(t, to.X(), got.X(), 1e-9)
	assert.InDelta(t, to.Y(), got.Y(), 1e-9)
	assert.InDelta(t, to.Z(), got.Z(), 1e-9)
}

func TestShortestArcAntiParallel(t *testing.T) {
	from := vector.NewVector3(0, 0, 1)
	to := vector.NewVector3(0, 0, -1)
	q := ShortestArc(from, to)
	got := q.RotateVector(from)
	assert.InDelta(t, to.X(), got.X(), 1e-9)
	assert.InDelta(t, to.Y(), got.Y(), 1e-9)
	assert.InDelta(t, to.Z(), got.Z(), 1e-9)
}

func TestNormalizeDegenerateYieldsIdentity(t *testing.T) {
	q := New(0, 0, 0, 0)
	got := q.Normalize()
	assert.Equal(t, Identity(), got)
}
