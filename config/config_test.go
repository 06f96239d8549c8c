package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration is invalid: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero layer height",
			mutate: func(c *Config) { c.LayerH = 0 },
			want:   "layer height",
		},
		{
			name:   "negative layer width",
			mutate: func(c *Config) { c.LayerW = -0.4 },
			want:   "layer width",
		},
		{
			name:   "negative shells",
			mutate: func(c *Config) { c.NShells = -1 },
			want:   "nShells",
		},
		{
			name:   "density above one",
			mutate: func(c *Config) { c.InfillDensity = 1.5 },
			want:   "infillDensity",
		},
		{
			name:   "no extruders",
			mutate: func(c *Config) { c.Extruders = nil },
			want:   "at least one extruder",
		},
		{
			name:   "default extruder out of range",
			mutate: func(c *Config) { c.DefaultExtruder = 3 },
			want:   "unknown extruder index 3",
		},
		{
			name:   "zero scaling factor",
			mutate: func(c *Config) { c.ScalingFactor = 0 },
			want:   "scalingFactor",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("test #%v: %v", i, tt.name), func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("invalid configuration accepted")
			}
			if _, ok := err.(*Error); !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	body := `{
		"layerH": 0.2,
		"nShells": 3,
		"doRaft": true,
		"raftLayers": 2,
		"extrusionProfiles": {
			"firstlayer": {"feedrate": 1000, "width": 0.6},
			"outlines":   {"feedrate": 3000, "width": 0.4},
			"insets":     {"feedrate": 3000, "width": 0.4},
			"infill":     {"feedrate": 3600, "width": 0.4}
		}
	}`
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LayerH != 0.2 {
		t.Errorf("LayerH = %v, want 0.2", cfg.LayerH)
	}
	if cfg.NShells != 3 {
		t.Errorf("NShells = %v, want 3", cfg.NShells)
	}
	if !cfg.DoRaft || cfg.RaftLayers != 2 {
		t.Errorf("raft = (%v, %v), want (true, 2)", cfg.DoRaft, cfg.RaftLayers)
	}
	// Fields absent from the file keep their defaults.
	if cfg.LayerW != Default().LayerW {
		t.Errorf("LayerW = %v, want the default %v", cfg.LayerW, Default().LayerW)
	}
	p, ok := cfg.Profile("firstlayer")
	if !ok {
		t.Fatal("firstlayer profile missing after load")
	}
	if p.Feedrate != 1000 || p.Width != 0.6 {
		t.Errorf("firstlayer profile = %+v, want feedrate 1000 width 0.6", p)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(`{"layerH": -1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("negative layer height accepted")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file did not error")
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed JSON did not error")
	}
}

func TestProfileLookup(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Profile("infill"); !ok {
		t.Error("infill profile missing from defaults")
	}
	if _, ok := cfg.Profile("nonesuch"); ok {
		t.Error("unknown profile reported present")
	}
}
