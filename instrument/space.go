// Package instrument models the instrument space the planner plans in:
// the three spectrometer axes posed kinematically in the horizontal
// plane, and the static walls they must not touch. The planner only
// ever poses the model at an (a2, a4) pair and asks whether it
// collides.
package instrument

import (
	"sync"

	"github.com/tastools/tasplan/geom"
)

// Axis is one rotation stage of the spectrometer.
type Axis struct {
	Name string
	// ArmLength is the distance to the next axis, ArmWidth the width of
	// the swept arm housing.
	ArmLength float64
	ArmWidth  float64
	// Lo and Hi bound the outgoing scattering angle, radians.
	Lo, Hi float64
	// Speed is the angular speed of the drive, radians per second.
	Speed float64
}

// Wall is a static obstacle polygon on the instrument floor.
type Wall struct {
	ID     uint32
	Name   string
	Points geom.Polygon
}

// Space is the full instrument space. Posing it does not mutate it, so
// one Space may be shared by all sampler workers.
type Space struct {
	Mono     Axis
	Sample   Axis
	Analyser Axis
	// Base is the monochromator position on the floor.
	Base geom.Vec2

	mu          sync.Mutex
	walls       []Wall
	subscribers []func()
}

// Walls returns a snapshot of the obstacle list.
func (s *Space) Walls() []Wall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Wall(nil), s.walls...)
}

// AddWall inserts an obstacle and notifies subscribers.
func (s *Space) AddWall(w Wall) {
	s.mu.Lock()
	s.walls = append(s.walls, w)
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, f := range subs {
		f()
	}
}

// UpdateSubscribe registers a callback invoked whenever the wall set
// changes.
func (s *Space) UpdateSubscribe(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, f)
}

// AngularLimits reports the planning window (a2lo, a2hi, a4lo, a4hi).
func (s *Space) AngularLimits() (float64, float64, float64, float64) {
	return s.Mono.Lo, s.Mono.Hi, s.Sample.Lo, s.Sample.Hi
}

// AxisSpeeds reports the angular drive speeds of the three axes.
func (s *Space) AxisSpeeds() (mono, sample, analyser float64) {
	return s.Mono.Speed, s.Sample.Speed, s.Analyser.Speed
}

// InLimits checks the axis ranges.
func (s *Space) InLimits(a2, a4 float64) bool {
	return a2 >= s.Mono.Lo && a2 <= s.Mono.Hi &&
		a4 >= s.Sample.Lo && a4 <= s.Sample.Hi
}

// armRect is the housing of one arm: a rectangle laid out along +x in
// the axis frame and posed by the homogeneous transform rotating it
// about its pivot p.
func armRect(p geom.Vec2, angle, length, width float64) geom.Polygon {
	pose := geom.PoseAt(p, angle, geom.Vec2{})
	half := width / 2
	local := geom.Polygon{
		{0, half}, {length, half}, {length, -half}, {0, -half},
	}
	out := make(geom.Polygon, len(local))
	for i, v := range local {
		out[i] = geom.TransformVec(pose, p.Add(v))
	}
	return out
}

// Pose computes the arm rectangles of the instrument posed at the
// scattering angles (a2, a4).
func (s *Space) Pose(a2, a4 float64) []geom.Polygon {
	monoPose := geom.PoseAt(s.Base, a2, geom.Vec2{})
	monoArm := armRect(s.Base, a2, s.Mono.ArmLength, s.Mono.ArmWidth)
	samplePos := geom.TransformVec(monoPose, s.Base.Add(geom.Vec2{s.Mono.ArmLength, 0}))
	sampleArm := armRect(samplePos, a2+a4, s.Sample.ArmLength, s.Sample.ArmWidth)
	return []geom.Polygon{monoArm, sampleArm}
}

// CheckCollision poses the instrument and tests every arm against every
// wall. It reports the first colliding wall's identifier.
func (s *Space) CheckCollision(a2, a4 float64) (bool, uint32) {
	arms := s.Pose(a2, a4)
	s.mu.Lock()
	walls := s.walls
	s.mu.Unlock()

	for _, wall := range walls {
		for _, arm := range arms {
			if polygonsTouch(arm, wall.Points) {
				return true, wall.ID
			}
		}
	}
	return false, 0
}

// polygonsTouch tests two simple polygons for overlap: crossing edges
// or full containment either way.
func polygonsTouch(a, b geom.Polygon) bool {
	const eps = 1e-9
	for _, sa := range a.Segments() {
		for _, sb := range b.Segments() {
			if _, hit := geom.IntersectLines(sa.A, sa.B, sb.A, sb.B, true, eps); hit {
				return true
			}
		}
	}
	if len(a) > 0 && b.Contains(a[0], eps) {
		return true
	}
	if len(b) > 0 && a.Contains(b[0], eps) {
		return true
	}
	return false
}
