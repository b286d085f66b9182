// Package builder orchestrates the planning pipeline: configuration
// space sampling, wall indexing, contour extraction, convex splitting,
// the Voronoi diagram and the roadmap graph, and answers path queries
// against the result. All artefacts are tagged with the instrument
// space and kf-fixed flag that produced them; changing either
// invalidates everything.
package builder

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/edaniels/golog"
	"github.com/logrusorgru/aurora"

	"github.com/tastools/tasplan/configspace"
	"github.com/tastools/tasplan/contour"
	"github.com/tastools/tasplan/geom"
	"github.com/tastools/tasplan/voronoi"
)

// Space is the instrument-space collaborator the planner poses and
// queries. instrument.Space implements it; tests substitute analytic
// models.
type Space interface {
	InLimits(a2, a4 float64) bool
	CheckCollision(a2, a4 float64) (colliding bool, obstacle uint32)
	AngularLimits() (a2lo, a2hi, a4lo, a4hi float64)
	UpdateSubscribe(func())
	AxisSpeeds() (mono, sample, analyser float64)
}

// Builder owns the pipeline artefacts. One mutex guards them against a
// query racing a recalculation; the geometric stages themselves are
// pure.
type Builder struct {
	log golog.Logger

	mu    sync.Mutex
	space Space

	kfFixed bool
	// scattering senses for mono, sample, analyser; ±1
	senses [3]float64

	eps             float64
	epsAngular      float64
	edgeEps         float64
	simplifyMinDist float64
	maxThreads      int
	verifyPath      bool
	useMotorSpeeds  bool
	subdivLen       float64
	wallPenalty     float64

	stop     atomic.Bool
	progress []configspace.Progress
	onInval  []func()

	// pipeline artefacts, nil until their stage ran
	valid        bool
	bounds       configspace.Bounds
	da2, da4     float64
	raster       *configspace.Raster
	walls        *configspace.WallIndex
	nearWalls    *configspace.NearestWalls
	fullContours []contour.Contour
	contours     []contour.Contour
	lines        []geom.Segment
	groups       [][2]int
	pointsOut    []geom.Vec2
	inverted     []bool
	useRegionFn  bool
	diagram      *voronoi.Diagram
}

// limitObstacle is the pseudo-obstacle identifier for settings outside
// the axis limits.
const limitObstacle uint32 = 0xffffffff

func New(log golog.Logger) *Builder {
	return &Builder{
		log:             log,
		kfFixed:         true,
		senses:          [3]float64{1, 1, 1},
		eps:             geom.Eps,
		epsAngular:      geom.EpsAngular,
		edgeEps:         0.25,
		simplifyMinDist: 3,
		maxThreads:      4,
		verifyPath:      true,
		wallPenalty:     1,
	}
}

// SetInstrumentSpace attaches the instrument; wall updates invalidate
// the pipeline.
func (b *Builder) SetInstrumentSpace(s Space) {
	b.mu.Lock()
	b.space = s
	b.mu.Unlock()
	s.UpdateSubscribe(b.Invalidate)
	b.Invalidate()
}

// SetKfFixed flips between kf-fixed and ki-fixed operation.
func (b *Builder) SetKfFixed(fixed bool) {
	b.mu.Lock()
	changed := b.kfFixed != fixed
	b.kfFixed = fixed
	b.mu.Unlock()
	if changed {
		b.Invalidate()
	}
}

func (b *Builder) SetScatteringSenses(mono, sample, analyser float64) {
	b.senses = [3]float64{mono, sample, analyser}
}

func (b *Builder) SetEps(eps, epsAngular, edgeEps float64) {
	b.eps, b.epsAngular, b.edgeEps = eps, epsAngular, edgeEps
}

func (b *Builder) SetMaxThreads(n int)          { b.maxThreads = n }
func (b *Builder) SetVerifyPath(v bool)         { b.verifyPath = v }
func (b *Builder) SetUseMotorSpeeds(v bool)     { b.useMotorSpeeds = v }
func (b *Builder) SetSubdivideLength(l float64) { b.subdivLen = l }

// RequestStop asks a running calculation to cancel cooperatively.
func (b *Builder) RequestStop() { b.stop.Store(true) }

// Invalidate discards all artefacts; the next query fails until the
// pipeline is recalculated.
func (b *Builder) Invalidate() {
	b.mu.Lock()
	b.valid = false
	subs := make([]func(), len(b.onInval))
	copy(subs, b.onInval)
	b.mu.Unlock()
	for _, f := range subs {
		f()
	}
}

// OnInvalidated registers a callback fired whenever the artefacts are
// dropped.
func (b *Builder) OnInvalidated(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onInval = append(b.onInval, f)
}

// AddProgressSlot registers a progress sink shared by all stages.
func (b *Builder) AddProgressSlot(p configspace.Progress) {
	b.progress = append(b.progress, p)
}

// AddConsoleProgressHandler prints coloured progress lines.
func (b *Builder) AddConsoleProgressHandler() {
	b.AddProgressSlot(func(start, end bool, frac float64, msg string) bool {
		fmt.Printf("%s %s\n",
			aurora.Green(fmt.Sprintf("[%3d%%]", int(frac*100))), msg)
		return true
	})
}

// signalProgress fans a progress event out to all slots; false means a
// slot requested cancellation.
func (b *Builder) signalProgress(start, end bool, frac float64, msg string) bool {
	ok := true
	for _, p := range b.progress {
		if !p(start, end, frac, msg) {
			ok = false
		}
	}
	return ok
}

// PixelToAngle converts raster coordinates to (a4, a2) radians; x runs
// along a4, y along a2. With sense on, the scattering senses are folded
// in.
func (b *Builder) PixelToAngle(pix geom.Vec2, deg, sense bool) geom.Vec2 {
	if b.raster == nil || b.raster.W == 0 || b.raster.H == 0 {
		return geom.Vec2{}
	}
	a4 := geom.Lerp(b.bounds.A4Lo, b.bounds.A4Hi, pix[0]/float64(b.raster.W))
	a2 := geom.Lerp(b.bounds.A2Lo, b.bounds.A2Hi, pix[1]/float64(b.raster.H))
	if deg {
		a4 *= 180 / math.Pi
		a2 *= 180 / math.Pi
	}
	if sense {
		a4 *= b.senses[1]
		a2 *= b.senses[b.monoIdx()]
	}
	return geom.Vec2{a4, a2}
}

// AngleToPixel converts (a4, a2) to raster coordinates.
func (b *Builder) AngleToPixel(a4, a2 float64, deg, sense bool) geom.Vec2 {
	if deg {
		a4 *= math.Pi / 180
		a2 *= math.Pi / 180
	}
	if sense {
		a4 *= b.senses[1]
		a2 *= b.senses[b.monoIdx()]
	}
	if b.raster == nil {
		return geom.Vec2{}
	}
	x := geom.Lerp(0, float64(b.raster.W), (a4-b.bounds.A4Lo)/(b.bounds.A4Hi-b.bounds.A4Lo))
	y := geom.Lerp(0, float64(b.raster.H), (a2-b.bounds.A2Lo)/(b.bounds.A2Hi-b.bounds.A2Lo))
	return geom.Vec2{x, y}
}

// monoIdx selects the moving crystal axis: the monochromator when kf is
// fixed, the analyser otherwise.
func (b *Builder) monoIdx() int {
	if b.kfFixed {
		return 0
	}
	return 2
}

// limitCollider wraps the instrument space so that settings outside the
// axis limits read as collisions with a pseudo-obstacle.
type limitCollider struct {
	space Space
}

func (c limitCollider) CheckCollision(a2, a4 float64) (bool, uint32) {
	if !c.space.InLimits(a2, a4) {
		return true, limitObstacle
	}
	return c.space.CheckCollision(a2, a4)
}

// CalculateConfigSpace samples the angular window. Returns false when
// there is no instrument or the sample was cancelled.
func (b *Builder) CalculateConfigSpace(da2, da4 float64, bounds configspace.Bounds) bool {
	if b.space == nil {
		return false
	}
	b.stop.Store(false)

	// apply the scattering senses at the pipeline entry
	sa2 := b.senses[b.monoIdx()]
	sa4 := b.senses[1]
	sampleBounds := configspace.Bounds{
		A2Lo: bounds.A2Lo * sa2, A2Hi: bounds.A2Hi * sa2,
		A4Lo: bounds.A4Lo * sa4, A4Hi: bounds.A4Hi * sa4,
	}
	if sampleBounds.A2Lo > sampleBounds.A2Hi {
		sampleBounds.A2Lo, sampleBounds.A2Hi = sampleBounds.A2Hi, sampleBounds.A2Lo
	}
	if sampleBounds.A4Lo > sampleBounds.A4Hi {
		sampleBounds.A4Lo, sampleBounds.A4Hi = sampleBounds.A4Hi, sampleBounds.A4Lo
	}

	walls := configspace.NewWallIndex()
	raster, complete := configspace.Sample(
		limitCollider{b.space}, sampleBounds, da2, da4, walls,
		configspace.Options{
			MaxThreads: b.maxThreads,
			Progress:   b.signalProgress,
			Stop:       &b.stop,
		})

	b.mu.Lock()
	defer b.mu.Unlock()
	if !complete {
		b.valid = false
		b.log.Debugw("configuration space sampling cancelled")
		return false
	}
	b.bounds = sampleBounds
	b.da2, b.da4 = da2, da4
	b.raster = raster
	b.walls = walls
	b.nearWalls = nil
	b.contours = nil
	b.lines = nil
	b.diagram = nil
	b.valid = true
	b.log.Debugw("configuration space sampled",
		"w", raster.W, "h", raster.H, "obstacles", walls.Len())
	return true
}

// CalculateWallIndexTree builds the nearest-wall lookup used by the
// wall-penalising path strategy.
func (b *Builder) CalculateWallIndexTree() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raster == nil {
		return false
	}
	b.nearWalls = configspace.BuildNearestWalls(b.raster)
	return true
}

// CalculateWallContours traces and optionally simplifies and
// convex-splits the obstacle boundaries.
func (b *Builder) CalculateWallContours(simplify, convexSplit bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raster == nil {
		return false
	}
	msg := "Calculating obstacle contours"
	b.signalProgress(true, false, 0, msg)

	b.fullContours = contour.Trace(b.raster)
	b.contours = append([]contour.Contour(nil), b.fullContours...)
	b.signalProgress(false, false, 0.33, msg)

	if simplify {
		for i := range b.contours {
			b.contours[i].Points = contour.Simplify(
				b.contours[i].Points, b.simplifyMinDist, b.epsAngular, b.eps)
		}
	}
	b.signalProgress(false, false, 0.66, msg)

	if convexSplit {
		var split []contour.Contour
		for _, c := range b.contours {
			if sub := contour.ConvexSplit(c.Points, b.eps); sub != nil {
				for _, poly := range sub {
					split = append(split, contour.Contour{ID: c.ID, Points: poly})
				}
			} else {
				split = append(split, c)
			}
		}
		b.contours = split
	}

	b.signalProgress(false, true, 1, msg)
	b.log.Debugw("wall contours calculated", "contours", len(b.contours))
	return true
}

// WallContours returns the simplified or the full traced contours.
func (b *Builder) WallContours(full bool) []contour.Contour {
	b.mu.Lock()
	defer b.mu.Unlock()
	if full {
		return b.fullContours
	}
	return b.contours
}

// CalculateLineSegments flattens the contours into the global segment
// array and its obstacle groups. With useRegionFunction the later
// Voronoi stage classifies points by direct raster lookup; without it,
// per-group outside witnesses and inverted-region flags are stored
// here.
func (b *Builder) CalculateLineSegments(useRegionFunction bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.contours == nil {
		return false
	}
	msg := "Calculating obstacle line segments"
	b.signalProgress(true, false, 0, msg)

	b.lines = nil
	b.groups = nil
	b.pointsOut = nil
	b.inverted = nil
	b.useRegionFn = useRegionFunction

	// witness point in free space, for the stored-region classification
	findFree := func() geom.Vec2 {
		for y := 0; y < b.raster.H; y++ {
			for x := 0; x < b.raster.W; x++ {
				if b.raster.At(x, y) == 0 {
					return geom.V(float64(x), float64(y))
				}
			}
		}
		return geom.V(-50, -40)
	}

	for _, c := range b.contours {
		if len(c.Points) < 2 {
			continue
		}
		begin := len(b.lines)
		for i := range c.Points {
			b.lines = append(b.lines, geom.Segment{
				A: c.Points[i],
				B: c.Points[geom.CircularIndex(i+1, len(c.Points))],
			})
		}

		// the out-of-limits frame contributes its segments but is not an
		// obstacle group: its polygon is the whole window and would
		// swallow every roadmap vertex
		if obstacle, ok := b.walls.Obstacle(c.ID); ok && obstacle == limitObstacle {
			continue
		}
		b.groups = append(b.groups, [2]int{begin, len(b.lines)})

		if !useRegionFunction {
			b.pointsOut = append(b.pointsOut, findFree())

			// a contour whose outside is occupied encircles allowed
			// space rather than an obstacle
			min, _ := geom.Bounds(c.Points)
			ox, oy := int(min[0])-1, int(min[1])-1
			inv := b.raster.Inside(ox, oy) && b.raster.At(ox, oy) != 0
			b.inverted = append(b.inverted, inv)
		}
	}

	b.signalProgress(false, true, 1, msg)
	return true
}

// LineSegmentGroup returns the segments of one obstacle group in
// angular coordinates (degrees).
func (b *Builder) LineSegmentGroup(idx int) []geom.Segment {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx < 0 || idx >= len(b.groups) {
		return nil
	}
	var out []geom.Segment
	for i := b.groups[idx][0]; i < b.groups[idx][1]; i++ {
		out = append(out, geom.Segment{
			A: b.PixelToAngle(b.lines[i].A, true, false),
			B: b.PixelToAngle(b.lines[i].B, true, false),
		})
	}
	return out
}

// CalculateVoronoi computes the diagram and the roadmap. The
// use-region-function flag chosen in CalculateLineSegments carries
// over.
func (b *Builder) CalculateVoronoi(group bool, backend voronoi.Backend, discardInterior bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lines == nil {
		return false
	}
	msg := "Calculating Voronoi diagram"
	b.signalProgress(true, false, 0, msg)

	regions := &voronoi.Regions{
		GroupLines:      group,
		Groups:          b.groups,
		RemoveVertices:  discardInterior,
		PointsOutside:   b.pointsOut,
		InvertedRegions: b.inverted,
	}
	if b.useRegionFn {
		raster := b.raster
		regions.RegionFunc = func(v geom.Vec2) bool {
			if v[0] < 0 || v[1] < 0 {
				return true
			}
			return raster.At(int(v[0]), int(v[1])) != 0
		}
	}

	b.diagram = voronoi.Calc(b.lines, b.eps, b.edgeEps, regions, backend)
	b.signalProgress(false, true, 1, msg)
	b.log.Debugw("voronoi diagram calculated",
		"vertices", len(b.diagram.Vertices),
		"linear", len(b.diagram.Linear),
		"parabolic", len(b.diagram.Parabolic))
	return true
}

// Voronoi exposes the current diagram (nil before CalculateVoronoi).
func (b *Builder) Voronoi() *voronoi.Diagram {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.diagram
}

// Raster exposes the sampled configuration space.
func (b *Builder) Raster() *configspace.Raster {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raster
}

// pathLength measures an angular difference, weighting each axis by its
// drive speed when motor speeds are enabled.
func (b *Builder) pathLength(v geom.Vec2) float64 {
	if !b.useMotorSpeeds || b.space == nil {
		return v.Len()
	}
	monoSpeed, a4Speed, anaSpeed := b.space.AxisSpeeds()
	a2Speed := monoSpeed
	if !b.kfFixed {
		a2Speed = anaSpeed
	}
	if a2Speed <= 0 || a4Speed <= 0 {
		return v.Len()
	}
	return geom.Vec2{v[0] / a4Speed, v[1] / a2Speed}.Len()
}
