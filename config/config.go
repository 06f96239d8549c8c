// Package config holds the static job configuration consumed by the
// toolpath pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Extrusion is a named bundle of feedrate and cross-section width selected
// per group and per layer.
type Extrusion struct {
	Feedrate float64 `json:"feedrate"`
	Width    float64 `json:"width"`
}

// Extruder is the static description of one filament drive.
type Extruder struct {
	ID           int    `json:"id"`
	Code         string `json:"code"` // G-code axis letter for extrusion, usually "E" or "A"/"B"
	FeedDiameter float64 `json:"feedDiameter"`

	// Volumetric extruders take E verbatim at loop endpoints; filament
	// extruders get lead-in/lead-out ramps.
	Volumetric bool    `json:"volumetric"`
	LeadIn     float64 `json:"leadIn"`
	LeadOut    float64 `json:"leadOut"`

	RetractDistance float64 `json:"retractDistance"`
	RetractRate     float64 `json:"retractRate"`

	FirstLayerProfile string `json:"firstLayerExtrusionProfile"`
	OutlinesProfile   string `json:"outlinesExtrusionProfile"`
	InsetsProfile     string `json:"insetsExtrusionProfile"`
	InfillsProfile    string `json:"infillsExtrusionProfile"`
}

// Config is the full job configuration. Zero values are not usable; start
// from Default().
type Config struct {
	FirstLayerZ float64 `json:"firstLayerZ"`
	LayerH      float64 `json:"layerH"`
	LayerW      float64 `json:"layerW"`

	NShells         int     `json:"nShells"`
	InfillDensity   float64 `json:"infillDensity"`
	RoofLayerCount  int     `json:"roofLayerCount"`
	FloorLayerCount int     `json:"floorLayerCount"`

	DoOutlines bool `json:"doOutlines"`
	DoInsets   bool `json:"doInsets"`
	DoInfills  bool `json:"doInfills"`
	DoSupport  bool `json:"doSupport"`
	DoRaft     bool `json:"doRaft"`

	RaftLayers  int     `json:"raftLayers"`
	RaftAligned bool    `json:"raftAligned"`
	RaftOutset  float64 `json:"raftOutset"`

	SupportAngle  float64 `json:"supportAngle"`  // degrees from vertical
	SupportMargin float64 `json:"supportMargin"` // mm clearance around the model

	Coarseness          float64 `json:"coarseness"`
	DirectionWeight     float64 `json:"directionWeight"`
	DoGraphOptimization bool    `json:"doGraphOptimization"`
	DropShortPaths      bool    `json:"dropShortPaths"`

	DefaultExtruder int        `json:"defaultExtruder"`
	Extruders       []Extruder `json:"extruders"`

	StartingX float64 `json:"startingX"`
	StartingY float64 `json:"startingY"`
	DoAnchor  bool    `json:"doAnchor"`

	FanLayer     int  `json:"fanLayer"`
	DoFanCommand bool `json:"doFanCommand"`

	RapidMoveFeedRateZ float64 `json:"rapidMoveFeedRateZ"`
	ScalingFactor      float64 `json:"scalingFactor"`

	ExtrusionProfiles map[string]Extrusion `json:"extrusionProfiles"`

	Header string `json:"header"`
	Footer string `json:"footer"`

	DoPrintProgress      bool `json:"doPrintProgress"`
	DoPrintLayerMessages bool `json:"doPrintLayerMessages"`
}

// Error is a fatal configuration problem; it terminates the job.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "config: " + e.Reason }

// Default returns a single-extruder PLA-ish configuration.
func Default() *Config {
	return &Config{
		FirstLayerZ:     0.3,
		LayerH:          0.27,
		LayerW:          0.4,
		NShells:         2,
		InfillDensity:   0.1,
		RoofLayerCount:  3,
		FloorLayerCount: 3,
		DoOutlines:      false,
		DoInsets:        true,
		DoInfills:       true,
		RaftOutset:      6,
		SupportAngle:    45,
		SupportMargin:   1,
		Coarseness:      0.05,
		DirectionWeight: 1,
		Extruders: []Extruder{{
			ID:                0,
			Code:              "E",
			FeedDiameter:      1.75,
			LeadIn:            0.25,
			LeadOut:           0.35,
			RetractDistance:   1,
			RetractRate:       1800,
			FirstLayerProfile: "firstlayer",
			OutlinesProfile:   "outlines",
			InsetsProfile:     "insets",
			InfillsProfile:    "infill",
		}},
		FanLayer:           1,
		RapidMoveFeedRateZ: 1400,
		ScalingFactor:      1,
		ExtrusionProfiles: map[string]Extrusion{
			"firstlayer": {Feedrate: 1980, Width: 0.5},
			"outlines":   {Feedrate: 3000, Width: 0.4},
			"insets":     {Feedrate: 3000, Width: 0.4},
			"infill":     {Feedrate: 3600, Width: 0.4},
		},
		DoPrintProgress: true,
	}
}

// Load reads a JSON job file over the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run.
func (c *Config) Validate() error {
	if c.LayerH <= 0 {
		return &Error{Reason: fmt.Sprintf("layer height must be positive, got %v", c.LayerH)}
	}
	if c.LayerW <= 0 {
		return &Error{Reason: fmt.Sprintf("layer width must be positive, got %v", c.LayerW)}
	}
	if c.NShells < 0 {
		return &Error{Reason: fmt.Sprintf("nShells must not be negative, got %v", c.NShells)}
	}
	if c.InfillDensity < 0 || c.InfillDensity > 1 {
		return &Error{Reason: fmt.Sprintf("infillDensity must be in [0,1], got %v", c.InfillDensity)}
	}
	if len(c.Extruders) == 0 {
		return &Error{Reason: "at least one extruder is required"}
	}
	if c.DefaultExtruder < 0 || c.DefaultExtruder >= len(c.Extruders) {
		return &Error{Reason: fmt.Sprintf("unknown extruder index %v", c.DefaultExtruder)}
	}
	if c.ScalingFactor <= 0 {
		return &Error{Reason: fmt.Sprintf("scalingFactor must be positive, got %v", c.ScalingFactor)}
	}
	return nil
}

// Profile looks up a named extrusion profile.
func (c *Config) Profile(name string) (Extrusion, bool) {
	p, ok := c.ExtrusionProfiles[name]
	return p, ok
}
