package gcoder

import (
	"fmt"
	"io"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/geom"
)

// Gantry tracks the machine state across the whole job: head position,
// last feedrate, and the accumulated E value per extruder. Commands are
// written in absolute coordinates; the state lets each move be written
// relative to where the head and filament already are. Every call writes
// a line, and E steps back on a retraction (Snort) and forward on a prime.
type Gantry struct {
	x, y, z geom.Scalar
	feed    geom.Scalar
	code    string

	e         map[int]geom.Scalar
	retracted map[int]bool
}

// NewGantry returns a gantry homed at the origin with no E extruded.
func NewGantry() *Gantry {
	return &Gantry{
		code:      "E",
		e:         make(map[int]geom.Scalar),
		retracted: make(map[int]bool),
	}
}

// SetExtruder makes ext's axis letter the one used for extrusion words.
func (g *Gantry) SetExtruder(ext config.Extruder) {
	g.code = ext.Code
}

// Position returns the current head position in the layer plane.
func (g *Gantry) Position() geom.Point2 {
	return geom.Point2{g.x, g.y}
}

// g1Motion writes one G1 line. The do flags select which words appear;
// state updates regardless so later deltas stay correct.
func (g *Gantry) g1Motion(w io.Writer, x, y, z, e, feed geom.Scalar, comment string, doX, doY, doZ, doE, doFeed bool) error {
	var line []byte
	line = append(line, "G1"...)
	if doX {
		line = appendWord(line, " X", x)
	}
	if doY {
		line = appendWord(line, " Y", y)
	}
	if doZ {
		line = appendWord(line, " Z", z)
	}
	if doFeed {
		line = appendWord(line, " F", feed)
	}
	if doE {
		line = appendWord(line, " "+g.code, e)
	}
	if comment != "" {
		line = append(line, " ("...)
		line = append(line, comment...)
		line = append(line, ')')
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("write motion: %w", err)
	}
	g.x, g.y, g.z, g.feed = x, y, z, feed
	return nil
}

func appendWord(line []byte, word string, v geom.Scalar) []byte {
	line = append(line, word...)
	return append(line, fmt.Sprintf("%.3f", v)...)
}

// MoveZ raises the head to z at the rapid Z feedrate.
func (g *Gantry) MoveZ(w io.Writer, z, zFeedrate geom.Scalar) error {
	return g.g1Motion(w, g.x, g.y, z, 0, zFeedrate, "move Z", false, false, true, false, true)
}

// Travel moves the head to (x, y) without extruding.
func (g *Gantry) Travel(w io.Writer, x, y, feedrate geom.Scalar, comment string) error {
	return g.g1Motion(w, x, y, g.z, 0, feedrate, comment, true, true, false, false, true)
}

// Extrude moves to (x, y) advancing E for the traveled distance. Bead
// cross-section comes from the layer height and width; volumetric
// extruders take the bead volume as E directly, filament extruders
// convert it to feedstock length.
func (g *Gantry) Extrude(w io.Writer, ext config.Extruder, x, y, feedrate, h, width geom.Scalar, comment string) error {
	d := geom.Point2{x, y}.Sub(geom.Point2{g.x, g.y}).Len()
	volume := CrossSectionArea(h, width) * d
	delta := volume
	if !ext.Volumetric {
		delta = volume / FeedCrossSectionArea(geom.Scalar(ext.FeedDiameter))
	}
	g.e[ext.ID] += delta
	return g.g1Motion(w, x, y, g.z, g.e[ext.ID], feedrate, comment, true, true, false, true, true)
}

// Snort retracts filament so travel moves do not ooze. Retracting twice
// in a row is a no-op.
func (g *Gantry) Snort(w io.Writer, ext config.Extruder) error {
	if ext.RetractDistance <= 0 || g.retracted[ext.ID] {
		return nil
	}
	g.e[ext.ID] -= geom.Scalar(ext.RetractDistance)
	g.retracted[ext.ID] = true
	return g.g1Motion(w, g.x, g.y, g.z, g.e[ext.ID], geom.Scalar(ext.RetractRate), "snort", false, false, false, true, true)
}

// Squirt restores the filament retracted by the last Snort.
func (g *Gantry) Squirt(w io.Writer, ext config.Extruder) error {
	if ext.RetractDistance <= 0 || !g.retracted[ext.ID] {
		return nil
	}
	g.e[ext.ID] += geom.Scalar(ext.RetractDistance)
	g.retracted[ext.ID] = false
	return g.g1Motion(w, g.x, g.y, g.z, g.e[ext.ID], geom.Scalar(ext.RetractRate), "squirt", false, false, false, true, true)
}

// Extruded returns the accumulated E value of one extruder.
func (g *Gantry) Extruded(extruderID int) geom.Scalar {
	return g.e[extruderID]
}
