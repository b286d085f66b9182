// Command tasplan loads an instrument definition, runs the planning
// pipeline and answers a single path query, optionally exporting the
// path as a control script and rendering the configuration space.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/edaniels/golog"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/tastools/tasplan"
	"github.com/tastools/tasplan/builder"
	"github.com/tastools/tasplan/voronoi"
)

var (
	app       = kingpin.New("tasplan", "Path planning for triple-axis spectrometers.")
	instrFile = app.Flag("instr", "Instrument definition file.").Required().ExistingFile()
	fromA2    = app.Flag("from-a2", "Current a2 angle (degrees).").Required().Float64()
	fromA4    = app.Flag("from-a4", "Current a4 angle (degrees).").Required().Float64()
	toA2      = app.Flag("to-a2", "Target a2 angle (degrees).").Required().Float64()
	toA4      = app.Flag("to-a4", "Target a4 angle (degrees).").Required().Float64()
	cells     = app.Flag("cells", "Raster cells per axis.").Default("256").Int()
	threads   = app.Flag("threads", "Maximum sampler threads.").Default("4").Int()
	strategy  = app.Flag("strategy", "Path strategy.").Default("shortest").Enum("shortest", "walls")
	backend   = app.Flag("backend", "Voronoi backend.").Default("intscaled").Enum("intscaled", "float")
	smooth    = app.Flag("smooth", "Smooth the path by corner cutting.").Bool()
	format    = app.Flag("format", "Export format.").Default("raw").Enum("raw", "nomad", "nicos")
	outFile   = app.Flag("out", "Export the path to this file.").String()
	pngFile   = app.Flag("png", "Render the configuration space to this PNG.").String()
	show      = app.Flag("show", "Display the rendered PNG in the terminal.").Bool()
	kfix      = app.Flag("kfix", "Fixed wavevector (1/A) for scripts.").Default("2.662").Float64()
	verbose   = app.Flag("verbose", "Verbose logging.").Short('v').Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red("error:"), err)
		os.Exit(255)
	}
}

func run() error {
	logger := golog.NewLogger("tasplan")
	if *verbose {
		logger = golog.NewDevelopmentLogger("tasplan")
	}

	space, err := tasplan.LoadInstrument(*instrFile)
	if err != nil {
		return err
	}

	b := tasplan.NewPlanner(space, logger)
	b.SetMaxThreads(*threads)
	b.AddConsoleProgressHandler()

	a2lo, a2hi, a4lo, a4hi := space.AngularLimits()
	da2 := (a2hi - a2lo) / float64(*cells)
	da4 := (a4hi - a4lo) / float64(*cells)
	if err := tasplan.Calculate(b, space, da2, da4); err != nil {
		return err
	}
	if *backend == "float" {
		if !b.CalculateVoronoi(true, voronoi.BackendFloat, true) {
			return fmt.Errorf("voronoi recalculation failed")
		}
	}

	strat := builder.StrategyShortest
	if *strategy == "walls" {
		strat = builder.StrategyPenaliseWalls
	}

	rad := math.Pi / 180
	path := b.FindPath(*fromA2*rad, *fromA4*rad, *toA2*rad, *toA4*rad, strat)
	if !path.Ok {
		return fmt.Errorf("no collision-free path from (%g, %g) to (%g, %g)",
			*fromA2, *fromA4, *toA2, *toA4)
	}
	verts := b.GetPathVertices(path, true, *smooth)
	fmt.Printf("%s %d vertices\n", aurora.Green("path found:"), len(verts))
	for _, v := range verts {
		fmt.Printf("  a2 = %8.3f°  a4 = %8.3f°\n", v[0]/rad, v[1]/rad)
	}

	if *outFile != "" {
		var exp builder.Exporter
		switch *format {
		case "nomad":
			exp = builder.NomadExporter{KFix: *kfix, KfFixed: true}
		case "nicos":
			exp = builder.NicosExporter{KFix: *kfix, KfFixed: true}
		default:
			exp = builder.RawExporter{}
		}
		if !b.AcceptExporter(exp, verts, *outFile, false) {
			return fmt.Errorf("exporting to %s failed", *outFile)
		}
		fmt.Println(aurora.Green("exported:"), *outFile)
	}

	if *pngFile != "" {
		if err := b.DrawConfigSpace(*pngFile, 2, verts); err != nil {
			return err
		}
		if *show {
			imgcat.CatFile(*pngFile, os.Stdout)
		}
	}
	return nil
}
