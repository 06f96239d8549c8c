// Package regioner derives printable regions from outline loops: inset
// shells, the interior infill grid, and support under overhangs.
package regioner

import (
	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

// Region is everything the pather needs for one layer.
type Region struct {
	Outlines geom.LoopList

	// Insets[k] holds the loops of shell k; Spurs[k] the centerlines of
	// regions shell k collapsed.
	Insets []geom.LoopList
	Spurs  []geom.OpenPathList

	// Interior is the innermost offset boundary enclosing the infill.
	Interior geom.LoopList
	Infill   GridRanges
	// Grid is the grid Infill was rasterized on.
	Grid *Grid

	SupportLoops geom.LoopList
	Support      GridRanges
	SupportGrid  *Grid
}

// Regioner turns per-layer outlines into regions.
type Regioner struct {
	cfg *config.Config
	log logrus.FieldLogger

	sparse *Grid
	solid  *Grid
	coarse *Grid
}

// New returns a regioner whose infill grids span the mesh limits, so rays
// line up from layer to layer.
func New(cfg *config.Config, m *mesh.Mesh, log logrus.FieldLogger) *Regioner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	lim := m.Limits
	lim.Tubularize()
	lim.Inflate(cfg.LayerW, cfg.LayerW, 0)

	r := &Regioner{
		cfg: cfg,
		log: log.WithField("stage", "regioner"),
	}
	if cfg.InfillDensity > 0 {
		r.sparse = NewGrid(lim, cfg.LayerW/cfg.InfillDensity)
	}
	r.solid = NewGrid(lim, cfg.LayerW)
	r.coarse = NewGrid(lim, 2*cfg.LayerW)
	return r
}

// BuildRegions computes one Region per outline layer.
func (r *Regioner) BuildRegions(m *mesh.Mesh, table geom.SliceTable, outlines []geom.LoopList) []Region {
	cfg := r.cfg
	w := cfg.LayerW
	minArea := 0.25 * w * w

	var support []geom.LoopList
	if cfg.DoSupport {
		support = buildSupport(m, table, outlines, cfg.SupportAngle, cfg.SupportMargin)
	}

	regions := make([]Region, len(outlines))
	for i, loops := range outlines {
		reg := &regions[i]
		reg.Outlines = loops

		if cfg.DoInsets {
			reg.Insets = make([]geom.LoopList, cfg.NShells)
			reg.Spurs = make([]geom.OpenPathList, cfg.NShells)
			for k := 0; k < cfg.NShells; k++ {
				dist := (geom.Scalar(k) + 0.5) * w
				reg.Insets[k], reg.Spurs[k] = insetLoops(loops, dist, minArea, geom.DefaultTolerance)
			}
		}

		interiorDist := (geom.Scalar(cfg.NShells) + 0.5) * w
		reg.Interior, _ = insetLoops(loops, interiorDist, minArea, geom.DefaultTolerance)

		if cfg.DoInfills && cfg.InfillDensity > 0 {
			grid := r.sparse
			if r.solidLayer(i, len(outlines)) {
				grid = r.solid
			}
			reg.Infill = grid.Ranges(reg.Interior)
			reg.Grid = grid
		}

		if cfg.DoSupport && len(support[i]) > 0 {
			reg.SupportLoops = support[i]
			reg.Support = r.coarse.Ranges(reg.SupportLoops)
			reg.SupportGrid = r.coarse
		}
	}
	return regions
}

// solidLayer reports whether layer i of total gets full-density infill as
// part of the floor or roof.
func (r *Regioner) solidLayer(i, total int) bool {
	return i < r.cfg.FloorLayerCount || i >= total-r.cfg.RoofLayerCount
}

// RaftRegions builds the full-bed raft layers printed under the model: a
// rectangle around the model footprint, outset for adhesion, filled solid.
func (r *Regioner) RaftRegions(m *mesh.Mesh) []Region {
	cfg := r.cfg
	if !cfg.DoRaft || cfg.RaftLayers <= 0 {
		return nil
	}
	lim := m.Limits
	lim.Inflate(cfg.RaftOutset, cfg.RaftOutset, 0)
	rect := geom.Loop{Points: []geom.Point2{
		{lim.XMin, lim.YMin},
		{lim.XMax, lim.YMin},
		{lim.XMax, lim.YMax},
		{lim.XMin, lim.YMax},
	}}
	base := geom.LoopList{rect}

	gridLim := lim
	gridLim.Tubularize()
	raftGrid := NewGrid(gridLim, cfg.LayerW)

	regions := make([]Region, cfg.RaftLayers)
	for i := range regions {
		regions[i].Outlines = base
		regions[i].Interior = base
		regions[i].Infill = raftGrid.Ranges(base)
		regions[i].Grid = raftGrid
	}
	return regions
}
