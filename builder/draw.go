package builder

import (
	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"github.com/tastools/tasplan/geom"
)

const drawPadding = 8

// DrawConfigSpace renders the configuration-space raster, the obstacle
// contours, the Voronoi diagram and optionally a planned path into a
// PNG. Scale is pixels per raster cell.
func (b *Builder) DrawConfigSpace(pngPath string, scale float64, pathVerts []geom.Vec2) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raster == nil {
		return errors.New("no configuration space sampled")
	}
	if scale <= 0 {
		scale = 2
	}

	width := int(scale*float64(b.raster.W)) + drawPadding*2
	height := int(scale*float64(b.raster.H)) + drawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(1, 1, 1)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// flip so the angular origin sits bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(drawPadding, drawPadding)
	c.Scale(scale, scale)

	// forbidden cells
	c.SetRGB(0.35, 0.35, 0.4)
	for y := 0; y < b.raster.H; y++ {
		for x := 0; x < b.raster.W; x++ {
			if b.raster.At(x, y) != 0 {
				c.DrawRectangle(float64(x), float64(y), 1, 1)
			}
		}
	}
	c.Fill()

	// contours
	c.SetLineWidth(1.0 / scale)
	c.SetRGB(0.8, 0.3, 0.2)
	for _, ct := range b.contours {
		if len(ct.Points) < 2 {
			continue
		}
		c.MoveTo(ct.Points[0][0], ct.Points[0][1])
		for _, p := range ct.Points[1:] {
			c.LineTo(p[0], p[1])
		}
		c.ClosePath()
	}
	c.Stroke()

	// voronoi diagram
	if b.diagram != nil {
		c.SetRGB(0.1, 0.5, 0.7)
		for _, e := range b.diagram.Linear {
			c.DrawLine(e.Seg.A[0], e.Seg.A[1], e.Seg.B[0], e.Seg.B[1])
		}
		c.Stroke()
		c.SetRGB(0.1, 0.6, 0.4)
		for _, e := range b.diagram.Parabolic {
			if len(e.Polyline) < 2 {
				continue
			}
			c.MoveTo(e.Polyline[0][0], e.Polyline[0][1])
			for _, p := range e.Polyline[1:] {
				c.LineTo(p[0], p[1])
			}
		}
		c.Stroke()
	}

	// path overlay, given in (a2, a4) radians
	if len(pathVerts) > 1 {
		c.SetRGB(0.9, 0.6, 0.1)
		c.SetLineWidth(2.0 / scale)
		first := b.AngleToPixel(pathVerts[0][1], pathVerts[0][0], false, false)
		c.MoveTo(first[0], first[1])
		for _, v := range pathVerts[1:] {
			pix := b.AngleToPixel(v[1], v[0], false, false)
			c.LineTo(pix[0], pix[1])
		}
		c.Stroke()
	}

	return errors.Wrap(c.SavePNG(pngPath), "saving configuration-space image")
}
