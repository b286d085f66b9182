// Package configspace rasterises the angular configuration space of the
// instrument. Each cell of the raster holds the ID of the obstacle the
// instrument collides with at that (a2, a4) setting, or 0 when the
// setting is free.
package configspace

import (
	"math"

	"github.com/tastools/tasplan/geom"
)

// Raster is the sampled configuration space. x runs along a4, y along
// a2.
type Raster struct {
	W, H int
	pix  []uint8
}

func NewRaster(w, h int) *Raster {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Raster{W: w, H: h, pix: make([]uint8, w*h)}
}

// At reads a cell; out-of-range coordinates read as occupied, so that
// everything beyond the sampled window counts as forbidden.
func (r *Raster) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.W || y >= r.H {
		return 0xff
	}
	return r.pix[y*r.W+x]
}

func (r *Raster) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= r.W || y >= r.H {
		return
	}
	r.pix[y*r.W+x] = v
}

func (r *Raster) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.W && y < r.H
}

// Free reports whether the cell at a point is free; fractional
// coordinates round down to their cell.
func (r *Raster) Free(p geom.Vec2) bool {
	x, y := int(math.Floor(p[0])), int(math.Floor(p[1]))
	return r.Inside(x, y) && r.At(x, y) == 0
}

// IDs returns the distinct nonzero cell values present.
func (r *Raster) IDs() []uint8 {
	var seen [256]bool
	var out []uint8
	for _, v := range r.pix {
		if v != 0 && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
