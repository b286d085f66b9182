package configspace

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastools/tasplan/geom"
)

// discCollider forbids poses inside an angular disc.
type discCollider struct {
	cx, cy, r float64
}

func (d discCollider) CheckCollision(a2, a4 float64) (bool, uint32) {
	dx, dy := a4-d.cx, a2-d.cy
	if math.Sqrt(dx*dx+dy*dy) < d.r {
		return true, 42
	}
	return false, 0
}

func unitBounds() Bounds {
	return Bounds{A2Lo: 0, A2Hi: 1, A4Lo: 0, A4Hi: 1}
}

func TestSampleDisc(t *testing.T) {
	walls := NewWallIndex()
	raster, ok := Sample(discCollider{0.5, 0.5, 0.2}, unitBounds(), 1.0/32, 1.0/32,
		walls, Options{MaxThreads: 2})
	require.True(t, ok)
	assert.Equal(t, 32, raster.W)
	assert.Equal(t, 32, raster.H)

	// centre cell collides, corner cell does not
	assert.NotEqual(t, uint8(0), raster.At(16, 16))
	assert.Equal(t, uint8(0), raster.At(1, 1))

	// one obstacle, stable ID
	assert.Equal(t, 1, walls.Len())
	obstacle, found := walls.Obstacle(raster.At(16, 16))
	require.True(t, found)
	assert.Equal(t, uint32(42), obstacle)
}

func TestSampleProgressAndCancel(t *testing.T) {
	walls := NewWallIndex()
	var stop atomic.Bool
	var calls int

	_, ok := Sample(discCollider{0.5, 0.5, 0.2}, unitBounds(), 1.0/64, 1.0/64,
		walls, Options{
			MaxThreads: 1,
			Stop:       &stop,
			Progress: func(start, end bool, frac float64, msg string) bool {
				calls++
				return frac < 0.3 // cancel once a third through
			},
		})
	assert.False(t, ok, "a cancelled sample must not report success")
	assert.Greater(t, calls, 1)
}

func TestSampleProgressMonotone(t *testing.T) {
	walls := NewWallIndex()
	last := -1.0
	_, ok := Sample(discCollider{0.5, 0.5, 0.1}, unitBounds(), 1.0/16, 1.0/16,
		walls, Options{
			Progress: func(start, end bool, frac float64, msg string) bool {
				assert.GreaterOrEqual(t, frac, last)
				last = frac
				return true
			},
		})
	require.True(t, ok)
	assert.InDelta(t, 1.0, last, 1e-12)
}

func TestWallIndexStability(t *testing.T) {
	w := NewWallIndex()
	id1 := w.Assign(1000)
	id2 := w.Assign(2000)
	assert.Equal(t, uint8(1), id1)
	assert.Equal(t, uint8(2), id2)
	// the same obstacle keeps its ID
	assert.Equal(t, id1, w.Assign(1000))
	assert.Equal(t, id2, w.Assign(2000))

	back, ok := w.Obstacle(id2)
	require.True(t, ok)
	assert.Equal(t, uint32(2000), back)

	_, ok = w.Obstacle(0)
	assert.False(t, ok)
}

func TestNearestWalls(t *testing.T) {
	r := NewRaster(16, 16)
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			r.Set(x, y, 1)
		}
	}
	nw := BuildNearestWalls(r)
	require.NotZero(t, nw.Len())

	p, ok := nw.Query(geom.V(10, 5))
	require.True(t, ok)
	assert.InDelta(t, 6, p[0], 1e-12)
	assert.InDelta(t, 5, p[1], 1e-12)

	// the fully surrounded centre pixel is not a boundary pixel
	assert.Equal(t, 8, nw.Len())

	empty := BuildNearestWalls(NewRaster(4, 4))
	_, ok = empty.Query(geom.V(1, 1))
	assert.False(t, ok)
}

func TestRasterOutOfRangeReadsOccupied(t *testing.T) {
	r := NewRaster(4, 4)
	assert.Equal(t, uint8(0xff), r.At(-1, 0))
	assert.Equal(t, uint8(0xff), r.At(0, 4))
	assert.False(t, r.Free(geom.V(-0.5, 0)))
	assert.True(t, r.Free(geom.V(1.5, 1.5)))
}
