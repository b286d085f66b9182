package instrument

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JoshVarga/svgparser"
	"github.com/pkg/errors"

	"github.com/tastools/tasplan/geom"
)

// ProgramIdent is the identifier an instrument definition file must
// carry to be accepted.
const ProgramIdent = "tasplan"

// Load reads an instrument definition file: an XML tree with the
// program identifier, a timestamp and the instrument-space geometry
// (wall polygons plus the three axes).
func Load(path string) (*Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening instrument file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an instrument definition from a stream.
func Parse(r io.Reader) (*Space, error) {
	root, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing instrument file")
	}
	if ident := root.Attributes["ident"]; ident != ProgramIdent {
		return nil, errors.Errorf("instrument file ident %q does not match %q", ident, ProgramIdent)
	}

	spaces := root.FindAll("instrument_space")
	if len(spaces) == 0 {
		return nil, errors.New("instrument file has no instrument_space")
	}
	spaceEl := spaces[0]

	s := &Space{}
	for _, instr := range spaceEl.FindAll("instrument") {
		s.Base[0] = attrFloat(instr, "x", 0)
		s.Base[1] = attrFloat(instr, "y", 0)
		for _, axisEl := range instr.FindAll("axis") {
			axis := Axis{
				Name:      axisEl.Attributes["name"],
				ArmLength: attrFloat(axisEl, "arm_length", 1),
				ArmWidth:  attrFloat(axisEl, "arm_width", 0.5),
				Lo:        attrFloat(axisEl, "lo", -180) * math.Pi / 180,
				Hi:        attrFloat(axisEl, "hi", 180) * math.Pi / 180,
				Speed:     attrFloat(axisEl, "speed", 1),
			}
			switch axis.Name {
			case "monochromator":
				s.Mono = axis
			case "sample":
				s.Sample = axis
			case "analyser":
				s.Analyser = axis
			default:
				return nil, errors.Errorf("unknown axis %q", axis.Name)
			}
		}
	}

	for _, wallEl := range spaceEl.FindAll("wall") {
		id, err := strconv.ParseUint(wallEl.Attributes["id"], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "wall %q has a bad id", wallEl.Attributes["name"])
		}
		polys := wallEl.FindAll("polygon")
		if len(polys) == 0 {
			return nil, errors.Errorf("wall %q has no polygon", wallEl.Attributes["name"])
		}
		points, err := parsePoints(polys[0].Attributes["points"])
		if err != nil {
			return nil, errors.Wrapf(err, "wall %q", wallEl.Attributes["name"])
		}
		s.walls = append(s.walls, Wall{
			ID:     uint32(id),
			Name:   wallEl.Attributes["name"],
			Points: points,
		})
	}
	return s, nil
}

func attrFloat(el *svgparser.Element, name string, def float64) float64 {
	v, ok := el.Attributes[name]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func parsePoints(raw string) (geom.Polygon, error) {
	var pts geom.Polygon
	for _, field := range strings.Fields(raw) {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			return nil, errors.Errorf("bad point %q", field)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad x in %q", field)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad y in %q", field)
		}
		pts = append(pts, geom.V(x, y))
	}
	return pts, nil
}

// Save writes the instrument definition back out in the same format.
func (s *Space) Save(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s ident=%q timestamp=\"%d\">\n", ProgramIdent, ProgramIdent, time.Now().Unix())
	b.WriteString(" <instrument_space>\n")
	fmt.Fprintf(&b, "  <instrument x=\"%g\" y=\"%g\">\n", s.Base[0], s.Base[1])
	for _, axis := range []Axis{s.Mono, s.Sample, s.Analyser} {
		fmt.Fprintf(&b, "   <axis name=%q arm_length=\"%g\" arm_width=\"%g\" lo=\"%g\" hi=\"%g\" speed=\"%g\"/>\n",
			axis.Name, axis.ArmLength, axis.ArmWidth,
			axis.Lo*180/math.Pi, axis.Hi*180/math.Pi, axis.Speed)
	}
	b.WriteString("  </instrument>\n")
	for _, wall := range s.Walls() {
		fmt.Fprintf(&b, "  <wall id=\"%d\" name=%q>\n   <polygon points=\"", wall.ID, wall.Name)
		for i, p := range wall.Points {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%g,%g", p[0], p[1])
		}
		b.WriteString("\"/>\n  </wall>\n")
	}
	b.WriteString(" </instrument_space>\n")
	fmt.Fprintf(&b, "</%s>\n", ProgramIdent)
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing instrument file")
}
