// Package pipeline chains the slicing stages into a whole-job driver.
package pipeline

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/gcoder"
	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
	"github.com/layerworks/slicer/pather"
	"github.com/layerworks/slicer/regioner"
	"github.com/layerworks/slicer/segmenter"
	"github.com/layerworks/slicer/slicer"
)

// Pipeline runs a complete job: mesh in, G-code text out.
type Pipeline struct {
	cfg *config.Config
	log logrus.FieldLogger
}

// New returns a job driver for the given configuration.
func New(cfg *config.Config, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{cfg: cfg, log: log.WithField("stage", "pipeline")}
}

// Run slices m and writes the job's G-code to w. A layer that fails to
// slice yields empty output and the job continues; configuration and IO
// problems abort it.
func (p *Pipeline) Run(m *mesh.Mesh, w io.Writer, title string) error {
	measure := geom.NewLayerMeasure(geom.Scalar(p.cfg.FirstLayerZ), geom.Scalar(p.cfg.LayerH))
	m.PlaceOnPlatform()

	table := segmenter.New(measure, p.log).Build(m)
	sl := slicer.New(geom.DefaultTolerance, p.log)

	outlines := make([]geom.LoopList, len(table))
	for i := range table {
		z := measure.SliceIndexToHeight(i)
		p.sliceLayer(sl, m, table, outlines, i, z)
	}

	reg := regioner.New(p.cfg, m, p.log)
	regions := reg.BuildRegions(m, table, outlines)
	raft := reg.RaftRegions(m)
	all := append(raft, regions...)

	plan, err := pather.New(p.cfg, p.log).GeneratePaths(all, measure, len(raft))
	if err != nil {
		return fmt.Errorf("order paths: %w", err)
	}
	return gcoder.New(p.cfg, p.log).WriteGcodeFile(w, plan, title)
}

// sliceLayer cuts one layer, trading a panic for an empty layer so one
// degenerate slice cannot kill the job.
func (p *Pipeline) sliceLayer(sl *slicer.Slicer, m *mesh.Mesh, table geom.SliceTable, outlines []geom.LoopList, i int, z geom.Scalar) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(logrus.Fields{
				"slice": i,
				"z":     z,
				"panic": r,
			}).Warn("layer failed, continuing with empty outlines")
			outlines[i] = nil
		}
	}()
	outlines[i] = sl.SliceLayer(m, table, i, z)
}
