package builder

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/tastools/tasplan/geom"
	"github.com/tastools/tasplan/instrument"
)

// Exporter turns a path vertex list into an instrument-control format.
// Vertices are (a2, a4) pairs in radians. Implementations are plain
// values; the builder dispatches through this one method.
type Exporter interface {
	Emit(vertices []geom.Vec2, sink io.Writer) error
}

// AcceptExporter runs an exporter on a vertex list and writes the
// result to a file, appending when asked.
func (b *Builder) AcceptExporter(e Exporter, vertices []geom.Vec2, path string, appendFile bool) bool {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendFile {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		b.log.Errorw("opening export file", "path", path, "error", err)
		return false
	}
	defer f.Close()
	if err := e.Emit(vertices, f); err != nil {
		b.log.Errorw("exporting path", "path", path, "error", err)
		return false
	}
	return true
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// SaveLinesTool serialises the obstacle line segments and their group
// index ranges as a lines2d XML document.
func (b *Builder) SaveLinesTool(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lines == nil {
		return errors.New("no line segments calculated")
	}

	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("<lines2d>\n<vertices>\n")
	vert := 0
	groups := make([][2]int, 0, len(b.groups))
	for gi, g := range b.groups {
		p("\t<!-- contour %d -->\n", gi)
		begin := vert
		for i := g[0]; i < g[1]; i++ {
			line := b.lines[i]
			p("\t<%d x=\"%g\" y=\"%g\"/>\n", vert, line.A[0], line.A[1])
			vert++
			p("\t<%d x=\"%g\" y=\"%g\"/>\n\n", vert, line.B[0], line.B[1])
			vert++
		}
		groups = append(groups, [2]int{begin, vert})
	}
	p("</vertices>\n\n<groups>\n")
	for gi, g := range groups {
		p("\t<%d>\n\t\t<begin>%d</begin>\n\t\t<end>%d</end>\n\t</%d>\n", gi, g[0], g[1], gi)
	}
	p("</groups>\n</lines2d>\n")
	return errors.Wrap(err, "writing lines2d document")
}

// RawExporter writes one "a2 a4" pair per line, in degrees with six
// decimal places.
type RawExporter struct{}

func (RawExporter) Emit(vertices []geom.Vec2, sink io.Writer) error {
	for _, v := range vertices {
		if _, err := fmt.Fprintf(sink, "%.6f %.6f\n", deg(v[0]), deg(v[1])); err != nil {
			return errors.Wrap(err, "writing raw path")
		}
	}
	return nil
}

// NomadExporter writes a command script: instrument identification, the
// fixed wavevector, one drive command per vertex, and a run command.
type NomadExporter struct {
	KFix    float64
	KfFixed bool
}

func (e NomadExporter) Emit(vertices []geom.Vec2, sink io.Writer) error {
	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(sink, format, args...)
		}
	}
	p("instrument %s\n", instrument.ProgramIdent)
	if e.KFix > 0 {
		if e.KfFixed {
			p("dr kf %.6f\n", e.KFix)
		} else {
			p("dr ki %.6f\n", e.KFix)
		}
	}
	p("\n")
	for _, v := range vertices {
		p("dr a2 %.6f a4 %.6f\n", deg(v[0]), deg(v[1]))
	}
	p("\nrun\n")
	return errors.Wrap(err, "writing nomad script")
}

// NicosExporter writes a script moving the two scattering axes with
// maw commands.
type NicosExporter struct {
	KFix    float64
	KfFixed bool
}

func (e NicosExporter) Emit(vertices []geom.Vec2, sink io.Writer) error {
	var err error
	p := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(sink, format, args...)
		}
	}
	if e.KFix > 0 {
		if e.KfFixed {
			p("kf(%.6f)\n", e.KFix)
		} else {
			p("ki(%.6f)\n", e.KFix)
		}
	}
	for _, v := range vertices {
		p("maw(a2, %.6f); maw(a4, %.6f)\n", deg(v[0]), deg(v[1]))
	}
	return errors.Wrap(err, "writing nicos script")
}
