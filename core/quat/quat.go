// Package quat provides the unit-quaternion orientation representation
// used across the GNC core: attitude state, error quaternions, and
// angle-axis extraction with shortest-path canonicalization.
//
// The underlying algebra is gonum's quat.Number; this package adds the
// body-frame conventions the controller code depends on (left-to-right
// composition, vector rotation, minimal angle-axis).
package quat

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a unit quaternion q = w + xi + yj + zk.
type Quaternion struct {
	n quat.Number
}

// Identity returns the no-rotation quaternion.
func Identity() Quaternion {
	return Quaternion{n: quat.Number{Real: 1}}
}

// New builds a quaternion from its four components. The result is not
// normalized; callers that need a unit quaternion should call Normalize.
func New(w, x, y, z float64) Quaternion {
	return Quaternion{n: quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}}
}

// FromAxisAngle builds the unit quaternion representing a rotation of
// angle radians about axis (axis need not be normalized; the zero
// vector yields Identity).
func FromAxisAngle(axis vector.Vector3, angle float64) Quaternion {
	a := axis.Normalize()
	if a.Length() < 1e-12 {
		return Identity()
	}
	half := angle * 0.5
	s := math.Sin(half)
	return Quaternion{n: quat.Number{
		Real: math.Cos(half),
		Imag: a.X() * s,
		Jmag: a.Y() * s,
		Kmag: a.Z() * s,
	}}
}

// W, X, Y, Z return the quaternion's components.
func (q Quaternion) W() float64 { return q.n.Real }
func (q Quaternion) X() float64 { return q.n.Imag }
func (q Quaternion) Y() float64 { return q.n.Jmag }
func (q Quaternion) Z() float64 { return q.n.Kmag }

// IsFinite reports whether every component is a finite float.
func (q Quaternion) IsFinite() bool {
	return isFinite(q.n.Real) && isFinite(q.n.Imag) && isFinite(q.n.Jmag) && isFinite(q.n.Kmag)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Norm returns the Euclidean norm of the quaternion's four components.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.n)
}

// Normalize returns the unit quaternion in the same direction. A
// quaternion with near-zero norm (degenerate input) normalizes to
// Identity rather than dividing by ~0.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < 1e-12 {
		return Identity()
	}
	return Quaternion{n: quat.Scale(1/n, q.n)}
}

// Conj returns the conjugate (inverse, for unit quaternions).
func (q Quaternion) Conj() Quaternion {
	return Quaternion{n: quat.Conj(q.n)}
}

// Mul composes two quaternions left-to-right: Mul(a, b) applies b in
// a's frame (qAB = qA * qB), matching the body-frame convention in the
// specification.
func Mul(a, b Quaternion) Quaternion {
	return Quaternion{n: quat.Mul(a.n, b.n)}
}

// RotateVector rotates v (a body- or world-frame vector) by q using
// v' = q * v * q^-1.
func (q Quaternion) RotateVector(v vector.Vector3) vector.Vector3 {
	p := quat.Number{Imag: v.X(), Jmag: v.Y(), Kmag: v.Z()}
	r := quat.Mul(quat.Mul(q.n, p), quat.Conj(q.n))
	return vector.NewVector3(r.Imag, r.Jmag, r.Kmag)
}

// InverseRotateVector rotates v by the inverse (conjugate) of q; used to
// bring a world-frame vector into the body frame: v_local = q^-1 * v.
func (q Quaternion) InverseRotateVector(v vector.Vector3) vector.Vector3 {
	return q.Conj().RotateVector(v)
}

// AngleAxis extracts the minimal rotation angle-axis pair encoded by q,
// canonicalized so angle is always in [0, pi]: if the raw extraction
// would yield an angle beyond pi, it is replaced by 2*pi - angle and
// the axis is negated.
func (q Quaternion) AngleAxis() (angle float64, axis vector.Vector3) {
	u := q.Normalize().n
	w := clamp(u.Real, -1, 1)
	angle = 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		axis = vector.NewVector3(1, 0, 0)
	} else {
		axis = vector.NewVector3(u.Imag/s, u.Jmag/s, u.Kmag/s)
	}
	if angle > math.Pi {
		angle = 2*math.Pi - angle
		axis = axis.Negate()
	}
	return angle, axis
}

// ShortestArc returns the minimal-angle quaternion that rotates unit
// vector from onto unit vector to. Used by PointToPosition to build the
// error quaternion that rotates the body +z axis onto the direction to
// the target.
func ShortestArc(from, to vector.Vector3) Quaternion {
	f := from.Normalize()
	t := to.Normalize()
	d := clamp(f.Dot(t), -1, 1)

	if d > 1-1e-12 {
		return Identity()
	}
	if d < -1+1e-12 {
		// Anti-parallel: rotate pi about any axis orthogonal to f.
		ortho := f.Cross(vector.NewVector3(1, 0, 0))
		if ortho.Length() < 1e-6 {
			ortho = f.Cross(vector.NewVector3(0, 1, 0))
		}
		return FromAxisAngle(ortho, math.Pi)
	}

	axis := f.Cross(t)
	angle := math.Acos(d)
	return FromAxisAngle(axis, angle)
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
