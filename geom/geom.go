// Package geom holds the scalar, vector and matrix primitives shared by
// the geometric kernel. All real-valued geometry is float64; epsilons
// are explicit parameters of every tolerance-based comparison.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Default Cartesian tolerance. Callers that care pass their own.
const Eps = 1e-6

// Default angular tolerance in radians.
const EpsAngular = 0.01 / 180.0 * math.Pi

// Vectors and matrices are mathgl types; the rest of the module imports
// only this package.
type (
	Vec2 = mgl64.Vec2
	Vec3 = mgl64.Vec3
	Mat2 = mgl64.Mat2
	Mat3 = mgl64.Mat3
	Mat4 = mgl64.Mat4
)

func V(x, y float64) Vec2 { return Vec2{x, y} }

// Equal is a tolerance-based scalar comparison. If we don't account for
// float imprecision, raster-aligned geometry sheds absurdly thin slivers.
func Equal(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func VecEqual(a, b Vec2, eps float64) bool {
	return Equal(a[0], b[0], eps) && Equal(a[1], b[1], eps)
}

// Cross is the z component of the 3D cross product of two 2D vectors.
func Cross(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// ModPos reduces x into [0, m), unlike the raw math.Mod which keeps the
// sign of x.
func ModPos(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// LineAngle gives the angle of the direction p1 -> p2 against the x axis.
func LineAngle(p1, p2 Vec2) float64 {
	d := p2.Sub(p1)
	return math.Atan2(d[1], d[0])
}

// TurnAngle is the signed angle between the directions p1->p2 and p3->p4,
// reduced into (-pi, pi].
func TurnAngle(p1, p2, p3, p4 Vec2) float64 {
	angle := LineAngle(p3, p4) - LineAngle(p1, p2)
	angle = ModPos(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

// CircularIndex treats an array of length n as a circular buffer. Unlike
// the raw modulo operator it only gives positive values.
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// RotatePoint rotates v around the origin by angle.
func RotatePoint(v Vec2, angle float64) Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// PoseAt builds the homogeneous 2D transform that rotates by angle about
// pivot and then translates by offset. Used to pose instrument arms.
func PoseAt(pivot Vec2, angle float64, offset Vec2) Mat3 {
	t1 := mgl64.Translate2D(pivot[0]+offset[0], pivot[1]+offset[1])
	r := mgl64.HomogRotate2D(angle)
	t0 := mgl64.Translate2D(-pivot[0], -pivot[1])
	return t1.Mul3(r).Mul3(t0)
}

// TransformVec applies a homogeneous 2D transform to a point.
func TransformVec(m Mat3, v Vec2) Vec2 {
	r := m.Mul3x1(Vec3{v[0], v[1], 1})
	return Vec2{r[0], r[1]}
}

// IsFinite reports whether both components are finite numbers.
func IsFinite(v Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsInf(v[0], 0) &&
		!math.IsNaN(v[1]) && !math.IsInf(v[1], 0)
}
