// Package gcoder turns an ordered layer plan into a G-code text stream.
// It is the only stage that writes output and the only one besides the
// pather that carries state across layers.
package gcoder

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/pather"
)

// MissingProfileError reports an extrusion profile name the configuration
// does not define. The affected group is skipped; the job continues.
type MissingProfileError struct {
	Profile  string
	Extruder int
}

func (e *MissingProfileError) Error() string {
	return fmt.Sprintf("gcoder: extruder %d references unknown extrusion profile %q", e.Extruder, e.Profile)
}

// GCoder writes the G-code for a whole job. Layers must be written in
// order; the gantry carries position and E across them.
type GCoder struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	gantry *Gantry

	progressPercent int
}

// New returns a G-code writer for the given configuration.
func New(cfg *config.Config, log logrus.FieldLogger) *GCoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GCoder{
		cfg:    cfg,
		log:    log.WithField("stage", "gcoder"),
		gantry: NewGantry(),
	}
}

// Gantry exposes the machine state, mostly for tests.
func (g *GCoder) Gantry() *Gantry { return g.gantry }

// WriteGcodeFile writes the complete job: header file, every layer, the
// fan-off trailer, and the footer file.
func (g *GCoder) WriteGcodeFile(w io.Writer, plan *pather.LayerPaths, title string) error {
	if err := g.writeBanner(w, title); err != nil {
		return err
	}
	if err := g.inlineFile(w, "header", g.cfg.Header); err != nil {
		return err
	}
	total := len(plan.Layers)
	for i, layer := range plan.Layers {
		if g.cfg.DoAnchor && i == 0 {
			if err := g.writeAnchor(w, &layer); err != nil {
				return err
			}
		}
		if err := g.writeLayer(w, &layer, i, total); err != nil {
			return err
		}
	}
	if g.cfg.DoFanCommand {
		if _, err := fmt.Fprintf(w, "M127 T%d (Turn off the fan)\n", g.cfg.DefaultExtruder); err != nil {
			return fmt.Errorf("write fan off: %w", err)
		}
	}
	return g.inlineFile(w, "footer", g.cfg.Footer)
}

func (g *GCoder) writeBanner(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, "(This file contains digital fabrication directives in gcode format)\n(%s)\n(%d extruders)\n\n",
		title, len(g.cfg.Extruders))
	if err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	return nil
}

// inlineFile copies a header or footer file verbatim between begin/end
// markers. An unreadable file is fatal; an unset path writes nothing.
func (g *GCoder) inlineFile(w io.Writer, kind, path string) error {
	if path == "" {
		return nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	if _, err := fmt.Fprintf(w, "(%s [%s] begin)\n", kind, path); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if _, err := fmt.Fprintf(w, "(%s [%s] end)\n\n", kind, path); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	return nil
}

// writeAnchor primes the nozzle at the configured home point and drags a
// wide bead to the first path, leaving a blob that anchors the print.
func (g *GCoder) writeAnchor(w io.Writer, layer *pather.Layer) error {
	if len(layer.Extruders) == 0 {
		return nil
	}
	el := &layer.Extruders[0]
	ext, err := g.extruder(el.ExtruderID)
	if err != nil {
		return err
	}
	profile, err := g.resolveProfile(ext, pather.TypeInfill, 0)
	if err != nil {
		g.log.WithError(err).Warn("anchor skipped")
		return nil
	}
	start := geom.Point2{g.cfg.StartingX, g.cfg.StartingY}
	if len(el.Paths) > 0 {
		start = el.Paths[0].Path.Head()
	}
	g.gantry.SetExtruder(ext)
	if err := g.gantry.Snort(w, ext); err != nil {
		return err
	}
	z := layer.Z
	h := layer.Thickness
	anchorW := layer.Width * 2
	if err := g.gantry.g1Motion(w, g.cfg.StartingX, g.cfg.StartingY, z, g.gantry.Extruded(ext.ID), profile.Feedrate, "Anchor Start", true, true, true, false, true); err != nil {
		return err
	}
	if err := g.gantry.Squirt(w, ext); err != nil {
		return err
	}
	return g.gantry.Extrude(w, ext, start.X(), start.Y(), profile.Feedrate, h, anchorW, "Anchor End")
}

func (g *GCoder) writeLayer(w io.Writer, layer *pather.Layer, sequence, total int) error {
	g.writeProgress(w, sequence+1, total)
	if _, err := fmt.Fprintf(w, "(Slice %d, %d %s)\n(Layer Height: %.3f)\n(Layer Width: %.3f)\n",
		sequence, len(layer.Extruders), plural("Extruder", len(layer.Extruders)), layer.Thickness, layer.Width); err != nil {
		return fmt.Errorf("write slice comment: %w", err)
	}
	if g.cfg.DoPrintLayerMessages {
		if _, err := fmt.Fprintf(w, "M70 P20 (Layer: %d)\n", sequence); err != nil {
			return fmt.Errorf("write layer message: %w", err)
		}
	}
	if g.cfg.DoFanCommand && sequence == g.cfg.FanLayer {
		if _, err := fmt.Fprintf(w, "M126 T%d (Turn on the fan)\n", g.cfg.DefaultExtruder); err != nil {
			return fmt.Errorf("write fan on: %w", err)
		}
	}
	z := layer.Z
	for i := range layer.Extruders {
		el := &layer.Extruders[i]
		ext, err := g.extruder(el.ExtruderID)
		if err != nil {
			return err
		}
		g.gantry.SetExtruder(ext)
		zFeedrate := geom.Scalar(g.cfg.ScalingFactor * g.cfg.RapidMoveFeedRateZ)
		if err := g.gantry.MoveZ(w, z, zFeedrate); err != nil {
			return err
		}
		if err := g.writeExtruderPaths(w, ext, el.Paths, layer, sequence); err != nil {
			return err
		}
	}
	return nil
}

// writeExtruderPaths emits one extruder's ordered paths, resolving the
// extrusion profile from each path's type. A missing profile
// skips every path of that type on this layer.
func (g *GCoder) writeExtruderPaths(w io.Writer, ext config.Extruder, paths []pather.LabeledOpenPath, layer *pather.Layer, sequence int) error {
	skipped := map[pather.PathType]bool{}
	for _, p := range paths {
		if len(p.Path.Points) < 2 {
			continue
		}
		if skipped[p.Label.Type] {
			continue
		}
		profile, err := g.resolveProfile(ext, p.Label.Type, sequence)
		if err != nil {
			skipped[p.Label.Type] = true
			g.log.WithFields(logrus.Fields{
				"slice":    sequence,
				"extruder": ext.ID,
				"group":    p.Label.Type.String(),
			}).WithError(err).Warn("group skipped")
			if _, werr := fmt.Fprintf(w, "(ERROR %s)\n", err); werr != nil {
				return fmt.Errorf("write error comment: %w", werr)
			}
			continue
		}
		if err := g.writePath(w, ext, profile, p, layer); err != nil {
			return err
		}
	}
	if err := g.gantry.Snort(w, ext); err != nil {
		return err
	}
	return nil
}

// writePath retracts, travels to the path start, primes, and extrudes
// along the path. Non-volumetric extruders get the start and end extended
// along the first and last edges so pressure ramps outside the bead.
func (g *GCoder) writePath(w io.Writer, ext config.Extruder, profile config.Extrusion, p pather.LabeledOpenPath, layer *pather.Layer) error {
	pts := p.Path.Points
	feedrate := geom.Scalar(profile.Feedrate * g.cfg.ScalingFactor)
	width := geom.Scalar(profile.Width)
	if width <= 0 {
		width = layer.Width
	}

	entry := pts[0]
	if !ext.Volumetric && ext.LeadIn > 0 {
		entry = extendPoint(pts[1], pts[0], geom.Scalar(ext.LeadIn))
	}
	if err := g.gantry.Snort(w, ext); err != nil {
		return err
	}
	if err := g.gantry.Travel(w, entry.X(), entry.Y(), feedrate, "move to "+p.Label.Type.String()); err != nil {
		return err
	}
	if err := g.gantry.Squirt(w, ext); err != nil {
		return err
	}
	if !ext.Volumetric && ext.LeadIn > 0 {
		if err := g.gantry.Extrude(w, ext, pts[0].X(), pts[0].Y(), feedrate, layer.Thickness, width, "lead-in"); err != nil {
			return err
		}
	}
	for _, pt := range pts[1:] {
		if err := g.gantry.Extrude(w, ext, pt.X(), pt.Y(), feedrate, layer.Thickness, width, p.Label.Type.String()); err != nil {
			return err
		}
	}
	if !ext.Volumetric && ext.LeadOut > 0 {
		exit := extendPoint(pts[len(pts)-2], pts[len(pts)-1], geom.Scalar(ext.LeadOut))
		if err := g.gantry.Extrude(w, ext, exit.X(), exit.Y(), feedrate, layer.Thickness, width, "lead-out"); err != nil {
			return err
		}
	}
	return nil
}

// extendPoint continues past b along the a->b direction by dist.
func extendPoint(a, b geom.Point2, dist geom.Scalar) geom.Point2 {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return b
	}
	return b.Add(d.Mul(dist / l))
}

// resolveProfile maps a path type to the extruder's configured profile.
// Layer 0 always uses the first-layer profile.
func (g *GCoder) resolveProfile(ext config.Extruder, t pather.PathType, sequence int) (config.Extrusion, error) {
	name := ext.InfillsProfile
	if sequence == 0 {
		name = ext.FirstLayerProfile
	} else {
		switch t {
		case pather.TypeOutline:
			name = ext.OutlinesProfile
		case pather.TypeInset, pather.TypeConnection:
			name = ext.InsetsProfile
		}
	}
	profile, ok := g.cfg.Profile(name)
	if !ok {
		return config.Extrusion{}, &MissingProfileError{Profile: name, Extruder: ext.ID}
	}
	return profile, nil
}

func (g *GCoder) extruder(id int) (config.Extruder, error) {
	if id < 0 || id >= len(g.cfg.Extruders) {
		return config.Extruder{}, &config.Error{Reason: fmt.Sprintf("unknown extruder index %d", id)}
	}
	return g.cfg.Extruders[id], nil
}

// writeProgress emits an M73 line whenever the integer percentage moves.
func (g *GCoder) writeProgress(w io.Writer, current, total int) {
	if !g.cfg.DoPrintProgress || total == 0 {
		return
	}
	percent := current * 100 / total
	if percent == g.progressPercent {
		return
	}
	g.progressPercent = percent
	fmt.Fprintf(w, "M73 P%d (progress (%d%%): %d/%d)\n", percent, percent, current, total)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
