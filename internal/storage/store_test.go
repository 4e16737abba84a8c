package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func testRun() (dynamo.Params, *dynamo.Trajectory) {
	p := dynamo.DefaultParams()
	traj := &dynamo.Trajectory{
		Dt:                p.Dt,
		Planned:           3,
		PrimaryPositions:  []r2.Vec{{X: 20.18e9}, {X: 20.1566e9}},
		ProbePositions:    []r2.Vec{{X: 1e10, Y: 1e9}, {X: 1.00000001e10, Y: 0.99999e9}},
		PrimaryVelocities: []r2.Vec{{X: -13e3}, {X: -13e3}},
		ProbeVelocities:   []r2.Vec{{}, {X: 0.1234567890123, Y: -1e-9}},
		Status:            dynamo.Collided,
		CollisionIndex:    0,
	}
	return p, traj
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, traj := testRun()
	runID, err := st.Save("test", p, traj, map[string]float64{"peak_speed": 1.5})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "test" {
		t.Errorf("expected scenario 'test', got '%s'", meta.Scenario)
	}
	if meta.Status != "collided" || meta.CollisionIndex != 0 {
		t.Errorf("unexpected status %s at %d", meta.Status, meta.CollisionIndex)
	}
	if meta.Samples != 2 || meta.Planned != 3 {
		t.Errorf("expected 2 of 3 samples, got %d of %d", meta.Samples, meta.Planned)
	}
	if meta.Metrics["peak_speed"] != 1.5 {
		t.Errorf("expected peak_speed 1.5, got %f", meta.Metrics["peak_speed"])
	}

	loaded, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, traj) {
		t.Errorf("trajectory did not round trip:\n got %+v\nwant %+v", loaded, traj)
	}
}

func TestStoreDropsNonFiniteMetrics(t *testing.T) {
	st := New(t.TempDir(), nil)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, traj := testRun()
	runID, err := st.Save("test", p, traj, map[string]float64{
		"ok":  2,
		"nan": math.NaN(),
		"inf": math.Inf(1),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(meta.Metrics) != 1 || meta.Metrics["ok"] != 2 {
		t.Errorf("unexpected metrics %v", meta.Metrics)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir, nil)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	p, traj := testRun()
	if _, err := st.Save("test", p, traj, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A directory without metadata is skipped.
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir(), nil)

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	runs, err := New(filepath.Join(t.TempDir(), "absent"), nil).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list for missing dir, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir, nil)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p, traj := testRun()
	runID, err := st.Save("test", p, traj, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trajectory.csv")); os.IsNotExist(err) {
		t.Error("trajectory.csv not created")
	}
}
