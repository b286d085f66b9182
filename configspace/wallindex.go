package configspace

import (
	"math"
	"sync"

	"github.com/tastools/tasplan/geom"
)

// WallIndex maps the obstacle identifiers reported by the instrument
// space onto the small contiguous IDs stored in raster cells. The
// mapping is stable: as long as the instrument space does not change, an
// obstacle keeps its ID across successive samples.
type WallIndex struct {
	mu     sync.Mutex
	ids    map[uint32]uint8
	idents []uint32
}

func NewWallIndex() *WallIndex {
	return &WallIndex{ids: make(map[uint32]uint8)}
}

// Assign returns the raster ID for an obstacle, allocating the next
// free one on first sight. IDs start at 1; 0 means free.
func (w *WallIndex) Assign(obstacle uint32) uint8 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id, ok := w.ids[obstacle]; ok {
		return id
	}
	if len(w.idents) >= 0xfe {
		// ID space exhausted; fold everything else onto the last slot
		return 0xff
	}
	id := uint8(len(w.idents) + 1)
	w.ids[obstacle] = id
	w.idents = append(w.idents, obstacle)
	return id
}

// Obstacle resolves a raster ID back to the instrument-space identifier.
func (w *WallIndex) Obstacle(id uint8) (uint32, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id == 0 || int(id) > len(w.idents) {
		return 0, false
	}
	return w.idents[id-1], true
}

func (w *WallIndex) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.idents)
}

// NearestWalls answers nearest-wall-pixel queries over a sampled
// raster. Only boundary wall pixels (those with a free neighbour) are
// stored.
type NearestWalls struct {
	pts []geom.Vec2
}

// BuildNearestWalls collects the wall boundary of a raster.
func BuildNearestWalls(r *Raster) *NearestWalls {
	nw := &NearestWalls{}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			if r.At(x, y) == 0 {
				continue
			}
			boundary := false
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if r.Inside(nx, ny) && r.At(nx, ny) == 0 {
					boundary = true
					break
				}
			}
			if boundary {
				nw.pts = append(nw.pts, geom.V(float64(x), float64(y)))
			}
		}
	}
	return nw
}

func (nw *NearestWalls) Len() int { return len(nw.pts) }

// Query returns the wall pixel closest to q; ok is false when the
// raster had no walls.
func (nw *NearestWalls) Query(q geom.Vec2) (geom.Vec2, bool) {
	best := -1
	bestD := math.Inf(1)
	for i, p := range nw.pts {
		if d := q.Sub(p).Len(); d < bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 {
		return geom.Vec2{}, false
	}
	return nw.pts[best], true
}
