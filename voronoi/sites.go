// Package voronoi computes the Voronoi diagram of a set of line
// segments and turns it into the roadmap graph used for path queries.
//
// Segments are decomposed into sub-sites: one point site per distinct
// endpoint and one interior site per segment. Bisectors between point
// sites are straight lines, between a point and a segment interior
// parabolic arcs, and between two interiors straight (angle or mid)
// lines. Every candidate bisector is clipped against all other sites;
// what survives, grouped and filtered by the region rules, is the
// diagram.
package voronoi

import (
	"math"

	"github.com/tastools/tasplan/geom"
)

type siteKind int

const (
	sitePoint siteKind = iota
	siteSegment
)

type site struct {
	kind   siteKind
	point  geom.Vec2    // sitePoint
	seg    geom.Segment // siteSegment
	groups map[int]bool // obstacle groups this site belongs to
}

// dist is the distance from q to the site. A segment interior only
// counts where the perpendicular foot falls inside the segment; outside
// that slab the endpoint sites take over.
func (s *site) dist(q geom.Vec2) float64 {
	if s.kind == sitePoint {
		return q.Sub(s.point).Len()
	}
	d := s.seg.Dir()
	l2 := d.Dot(d)
	if l2 == 0 {
		return q.Sub(s.seg.A).Len()
	}
	t := q.Sub(s.seg.A).Dot(d) / l2
	if t < 0 || t > 1 {
		return math.Inf(1)
	}
	return q.Sub(s.seg.At(t)).Len()
}

func (s *site) sharesGroup(o *site) bool {
	for g := range s.groups {
		if o.groups[g] {
			return true
		}
	}
	return false
}

// buildSites decomposes the input segments. groupOf assigns each
// segment index to its obstacle group.
func buildSites(segs []geom.Segment, groupOf func(int) int, eps float64) []*site {
	var sites []*site
	var points []*site

	addPoint := func(p geom.Vec2, group int) {
		for _, ps := range points {
			if geom.VecEqual(ps.point, p, eps) {
				ps.groups[group] = true
				return
			}
		}
		ps := &site{kind: sitePoint, point: p, groups: map[int]bool{group: true}}
		points = append(points, ps)
		sites = append(sites, ps)
	}

	for i, s := range segs {
		g := groupOf(i)
		sites = append(sites, &site{
			kind:   siteSegment,
			seg:    s,
			groups: map[int]bool{g: true},
		})
		addPoint(s.A, g)
		addPoint(s.B, g)
	}
	return sites
}
