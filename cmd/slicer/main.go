// slicer converts one or more STL meshes into G-code toolpaths.
//
// Each input mesh is sliced into layers, regions are derived per layer
// (shells, infill, support, raft), paths are ordered for short travel,
// and the result is written next to the input as <name>.gcode.
package main

import (
	"flag"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/gout"
	"github.com/layerworks/slicer/mesh"
	"github.com/layerworks/slicer/pipeline"
	"github.com/layerworks/slicer/stl"
)

var (
	configFile = flag.String("config", "", "JSON job configuration file (defaults apply when empty)")
	outFile    = flag.String("o", "", "Output G-code file (default is the input name with a .gcode suffix)")
	decimate   = flag.Float64("decimate", 0.0, "Reduce the mesh to this fraction of its triangles before slicing (0 disables)")
	saveMesh   = flag.Bool("save-mesh", false, "Also write the mesh as sliced (after decimation) next to the output")
	verbose    = flag.Bool("v", false, "Verbose (debug) logging")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	if flag.NArg() == 0 {
		log.Fatal("at least one STL file must be supplied")
	}

	for _, arg := range flag.Args() {
		if !strings.HasSuffix(strings.ToLower(arg), ".stl") {
			log.Warnf("Skipping non-STL file %q", arg)
			continue
		}

		log.Infof("Processing mesh %q...", arg)
		m, err := mesh.LoadSTL(arg)
		if err != nil {
			log.Fatalf("LoadSTL: %v", err)
		}
		if *decimate > 0 && *decimate < 1 {
			m = m.Decimate(*decimate)
		}

		outName := *outFile
		if outName == "" {
			outName = strings.TrimSuffix(arg, ".stl") + ".gcode"
		}
		if *saveMesh {
			meshName := strings.TrimSuffix(outName, ".gcode") + "-mesh.stl"
			if err := stl.Save(meshName, m); err != nil {
				log.Fatalf("save mesh %q: %v", meshName, err)
			}
			log.Infof("Wrote %q", meshName)
		}
		out, err := gout.New(outName)
		if err != nil {
			log.Fatalf("create %q: %v", outName, err)
		}

		err = pipeline.New(cfg, log).Run(m, out, arg)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Fatalf("%v: %v", arg, err)
		}
		log.Infof("Wrote %q", outName)
	}

	log.Info("Done.")
}
