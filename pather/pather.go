// Package pather orders a layer's regions into the extrusion sequence the
// G-code writer emits: outlines, inset shells from the inside out, infill
// rasters, and support, each group optimized for short travel.
package pather

import (
	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/regioner"
)

// ExtruderLayer is the ordered path list one extruder prints on a layer.
type ExtruderLayer struct {
	ExtruderID int
	Paths      []LabeledOpenPath
}

// Layer is one horizontal slab of the print.
type Layer struct {
	Index     int
	Z         geom.Scalar
	Thickness geom.Scalar
	Width     geom.Scalar
	Extruders []ExtruderLayer
}

// LayerPaths is the full ordered toolpath plan for a job.
type LayerPaths struct {
	Layers []Layer
}

// Pather converts regions to ordered toolpaths. The infill direction
// alternates per layer and the head position carries across layers so
// travel stays short at layer changes.
type Pather struct {
	cfg *config.Config
	log logrus.FieldLogger

	direction bool
	pos       geom.Point2
}

// New returns a pather starting at the configured home position.
func New(cfg *config.Config, log logrus.FieldLogger) *Pather {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pather{
		cfg: cfg,
		log: log.WithField("stage", "pather"),
		pos: geom.Point2{cfg.StartingX, cfg.StartingY},
	}
}

func (p *Pather) newOptimizer() Optimizer {
	if p.cfg.DoGraphOptimization {
		return NewFastGraphOptimizer(geom.Scalar(p.cfg.DirectionWeight))
	}
	return NewNearestOptimizer()
}

// GeneratePaths orders every region into a layer plan. regions may start
// with raft layers; raftLayers says how many, so raft alignment and layer
// heights are assigned correctly.
func (p *Pather) GeneratePaths(regions []regioner.Region, measure geom.LayerMeasure, raftLayers int) (*LayerPaths, error) {
	plan := &LayerPaths{Layers: make([]Layer, 0, len(regions))}
	for i, reg := range regions {
		if !p.raftAligned(i, raftLayers) {
			p.direction = !p.direction
		}
		paths, err := p.layerPaths(&reg)
		if err != nil {
			return nil, err
		}
		paths = CleanPaths(paths, geom.Scalar(p.cfg.Coarseness), 0.5*geom.Scalar(p.cfg.Coarseness), p.cfg.DropShortPaths)
		paths = SmoothCollection(paths, geom.Scalar(p.cfg.Coarseness), geom.Scalar(p.cfg.DirectionWeight))
		plan.Layers = append(plan.Layers, Layer{
			Index:     i,
			Z:         measure.SliceIndexToHeight(i),
			Thickness: p.layerThickness(i),
			Width:     geom.Scalar(p.cfg.LayerW),
			Extruders: []ExtruderLayer{{
				ExtruderID: p.cfg.DefaultExtruder,
				Paths:      paths,
			}},
		})
	}
	return plan, nil
}

// raftAligned reports whether layer i keeps the previous infill direction.
// Raft surface layers print parallel so the model's first layer beds onto
// a consistent grain.
func (p *Pather) raftAligned(i, raftLayers int) bool {
	return p.cfg.DoRaft && p.cfg.RaftAligned && i >= 2 && i < raftLayers
}

// layerPaths orders one region's groups. Each group is optimized on its
// own; the head position flows from one group into the next.
func (p *Pather) layerPaths(reg *regioner.Region) ([]LabeledOpenPath, error) {
	opt := p.newOptimizer()
	if err := opt.AddBoundaries(reg.Outlines); err != nil {
		return nil, err
	}

	var out []LabeledOpenPath

	if p.cfg.DoOutlines {
		group := loopGroup(reg.Outlines, PathLabel{Type: TypeOutline, Owner: OwnerModel, Shell: NoShell})
		var err error
		out, err = p.runGroup(opt, group, out)
		if err != nil {
			return nil, err
		}
	}

	if p.cfg.DoInsets {
		for k := len(reg.Insets) - 1; k >= 0; k-- {
			group := loopGroup(reg.Insets[k], PathLabel{Type: TypeInset, Owner: OwnerModel, Shell: k})
			for _, spur := range reg.Spurs[k] {
				group = append(group, LabeledOpenPath{
					Label: PathLabel{Type: TypeConnection, Owner: OwnerModel, Shell: k},
					Path:  spur,
				})
			}
			var err error
			out, err = p.runGroup(opt, group, out)
			if err != nil {
				return nil, err
			}
		}
	}

	if p.cfg.DoInfills && reg.Grid != nil && !reg.Infill.Empty() {
		var raster geom.OpenPathList
		reg.Grid.PathsFromRanges(reg.Infill, p.direction, &raster)
		group := rasterGroup(raster, PathLabel{Type: TypeInfill, Owner: OwnerModel, Shell: NoShell})
		var err error
		out, err = p.runGroup(opt, group, out)
		if err != nil {
			return nil, err
		}
	}

	if len(reg.SupportLoops) > 0 {
		group := loopGroup(reg.SupportLoops, PathLabel{Type: TypeOutline, Owner: OwnerSupport, Shell: NoShell})
		if reg.SupportGrid != nil && !reg.Support.Empty() {
			var raster geom.OpenPathList
			reg.SupportGrid.PathsFromRanges(reg.Support, p.direction, &raster)
			group = append(group, rasterGroup(raster, PathLabel{Type: TypeInfill, Owner: OwnerSupport, Shell: NoShell})...)
		}
		var err error
		out, err = p.runGroup(opt, group, out)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// runGroup feeds one path group through the optimizer and appends the
// ordered result, advancing the head position.
func (p *Pather) runGroup(opt Optimizer, group, out []LabeledOpenPath) ([]LabeledOpenPath, error) {
	if len(group) == 0 {
		return out, nil
	}
	if err := opt.ClearPaths(); err != nil {
		return nil, err
	}
	if err := opt.AddPaths(group); err != nil {
		return nil, err
	}
	ordered, end, err := opt.Optimize(p.pos)
	if err != nil {
		return nil, err
	}
	p.pos = end
	return append(out, ordered...), nil
}

func loopGroup(loops geom.LoopList, label PathLabel) []LabeledOpenPath {
	out := make([]LabeledOpenPath, 0, len(loops))
	for _, l := range loops {
		out = append(out, LabeledOpenPath{Label: label, Path: l.ToOpenPath()})
	}
	return out
}

func rasterGroup(paths geom.OpenPathList, label PathLabel) []LabeledOpenPath {
	out := make([]LabeledOpenPath, 0, len(paths))
	for _, p := range paths {
		out = append(out, LabeledOpenPath{Label: label, Path: p})
	}
	return out
}

// layerThickness is the slab height of layer i. The first layer sits at
// the configured first-layer height; every later layer adds one layerH.
func (p *Pather) layerThickness(i int) geom.Scalar {
	if i == 0 {
		return geom.Scalar(p.cfg.FirstLayerZ)
	}
	return geom.Scalar(p.cfg.LayerH)
}
