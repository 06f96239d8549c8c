package pipeline

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/layerworks/slicer/config"
	"github.com/layerworks/slicer/geom"
	"github.com/layerworks/slicer/mesh"
)

func quietLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// cube returns a closed axis-aligned box as 12 triangles.
func cube(side geom.Scalar) *mesh.Mesh {
	v := func(x, y, z geom.Scalar) geom.Point3 { return geom.Point3{x * side, y * side, z * side} }
	quads := [][4]geom.Point3{
		{v(0, 0, 0), v(0, 1, 0), v(1, 1, 0), v(1, 0, 0)}, // bottom
		{v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1)}, // top
		{v(0, 0, 0), v(1, 0, 0), v(1, 0, 1), v(0, 0, 1)}, // front
		{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)}, // right
		{v(1, 1, 0), v(0, 1, 0), v(0, 1, 1), v(1, 1, 1)}, // back
		{v(0, 1, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 1)}, // left
	}
	m := mesh.New()
	for _, q := range quads {
		m.Add(mesh.Triangle{A: q[0], B: q[1], C: q[2]})
		m.Add(mesh.Triangle{A: q[0], B: q[2], C: q[3]})
	}
	return m
}

func jobConfig() *config.Config {
	cfg := config.Default()
	cfg.FirstLayerZ = 0.5
	cfg.LayerH = 0.5
	cfg.LayerW = 0.5
	cfg.InfillDensity = 1
	cfg.DoAnchor = false
	cfg.DoFanCommand = false
	return cfg
}

func TestRunUnitCube(t *testing.T) {
	cfg := jobConfig()
	cfg.DoOutlines = true
	cfg.DoInsets = false
	cfg.DoInfills = false

	var buf bytes.Buffer
	if err := New(cfg, quietLog()).Run(cube(1), &buf, "unit cube"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if got := strings.Count(out, "(Slice "); got != 2 {
		t.Errorf("got %v slices, want 2", got)
	}
	if got := strings.Count(out, "move to outline"); got != 2 {
		t.Errorf("got %v outline groups, want one per layer", got)
	}
}

func TestRunCubeOutlines(t *testing.T) {
	cfg := jobConfig()
	cfg.DoOutlines = true
	cfg.DoInsets = false
	cfg.DoInfills = false

	var buf bytes.Buffer
	if err := New(cfg, quietLog()).Run(cube(2), &buf, "cube"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, slice := range []string{"(Slice 0,", "(Slice 1,", "(Slice 2,"} {
		if !strings.Contains(out, slice) {
			t.Errorf("output missing %q", slice)
		}
	}
	if !strings.Contains(out, "move to outline") {
		t.Error("no outline group in the output")
	}
	if strings.Contains(out, "move to infill") {
		t.Error("infill emitted with infills disabled")
	}
	if !strings.Contains(out, "G1 ") {
		t.Error("no motion commands emitted")
	}
}

func TestRunCubeInfill(t *testing.T) {
	cfg := jobConfig()

	var buf bytes.Buffer
	if err := New(cfg, quietLog()).Run(cube(4), &buf, "cube"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "move to infill") {
		t.Error("no infill in the output")
	}
	if !strings.Contains(out, "move to inset") {
		t.Error("no insets in the output")
	}
}

// Dropping a face leaves an open mesh; the job still finishes and writes a
// complete file.
func TestRunNonManifoldMesh(t *testing.T) {
	holed := cube(2)
	holed.Triangles = holed.Triangles[:len(holed.Triangles)-1]

	cfg := jobConfig()
	var buf bytes.Buffer
	if err := New(cfg, quietLog()).Run(holed, &buf, "holed cube"); err != nil {
		t.Fatalf("open mesh aborted the job: %v", err)
	}
	if !strings.Contains(buf.String(), "(Slice 0,") {
		t.Error("no layers written for the open mesh")
	}
}

// Identical inputs produce byte-identical output.
func TestRunDeterministic(t *testing.T) {
	run := func() []byte {
		cfg := jobConfig()
		var buf bytes.Buffer
		if err := New(cfg, quietLog()).Run(cube(3), &buf, "repeat"); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	first := run()
	second := run()
	if !bytes.Equal(first, second) {
		t.Error("two runs over the same mesh differ")
	}
}

// A mesh floating above the platform is dropped onto it before slicing.
func TestRunPlacesMeshOnPlatform(t *testing.T) {
	floating := cube(2)
	shift := geom.Point3{0, 0, 10}
	for i := range floating.Triangles {
		floating.Triangles[i].A = floating.Triangles[i].A.Add(shift)
		floating.Triangles[i].B = floating.Triangles[i].B.Add(shift)
		floating.Triangles[i].C = floating.Triangles[i].C.Add(shift)
	}
	floating.Limits = geom.NewLimits()
	for _, tr := range floating.Triangles {
		floating.Limits.Grow(tr.A)
		floating.Limits.Grow(tr.B)
		floating.Limits.Grow(tr.C)
	}

	grounded := cube(2)

	cfg := jobConfig()
	var bufA, bufB bytes.Buffer
	if err := New(cfg, quietLog()).Run(floating, &bufA, "same"); err != nil {
		t.Fatal(err)
	}
	if err := New(cfg, quietLog()).Run(grounded, &bufB, "same"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Error("floating mesh sliced differently from the grounded one")
	}
}
