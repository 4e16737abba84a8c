package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// ErrRunNotFound is returned when no run with the requested id exists.
var ErrRunNotFound = errors.New("storage: run not found")

var csvHeader = []string{
	"time",
	"primary_x", "primary_y", "probe_x", "probe_y",
	"primary_vx", "primary_vy", "probe_vx", "probe_vy",
	"speed",
}

type Store struct {
	baseDir string
	logger  log.Logger
}

func New(baseDir string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Store{baseDir: baseDir, logger: log.With(logger, "component", "storage")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Timestamp      time.Time          `json:"timestamp"`
	G              float64            `json:"g"`
	PrimaryMass    float64            `json:"primary_mass"`
	ProbeMass      float64            `json:"probe_mass"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Radius         float64            `json:"collision_radius"`
	Planned        int                `json:"planned"`
	Samples        int                `json:"samples"`
	Status         string             `json:"status"`
	CollisionIndex int                `json:"collision_index"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and trajectory.csv into a new run directory.
// Non-finite metric values are dropped since JSON cannot carry them.
func (s *Store) Save(scenario string, p dynamo.Params, traj *dynamo.Trajectory, metrics map[string]float64) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	finite := make(map[string]float64, len(metrics))
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.logger.Log("msg", "dropping non-finite metric", "run", runID, "metric", name, "value", v)
			continue
		}
		finite[name] = v
	}

	meta := RunMetadata{
		ID:             runID,
		Scenario:       scenario,
		Timestamp:      now,
		G:              p.G,
		PrimaryMass:    p.PrimaryMass,
		ProbeMass:      p.ProbeMass,
		Dt:             traj.Dt,
		Duration:       p.Duration,
		Radius:         p.CollisionRadius,
		Planned:        traj.Planned,
		Samples:        traj.Len(),
		Status:         traj.Status.String(),
		CollisionIndex: traj.CollisionIndex,
		Metrics:        finite,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, traj); err != nil {
		return "", fmt.Errorf("write trajectory: %w", err)
	}

	s.logger.Log("msg", "saved run", "run", runID, "samples", traj.Len(), "status", traj.Status)
	return runID, nil
}

// WriteCSV writes one row per sample with the probe speed as last column.
func WriteCSV(out io.Writer, traj *dynamo.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	speeds := traj.Speeds()
	for i := 0; i < traj.Len(); i++ {
		primary, probe := traj.Sample(i)
		row := []string{
			formatFloat(traj.Time(i)),
			formatFloat(primary.Position.X), formatFloat(primary.Position.Y),
			formatFloat(probe.Position.X), formatFloat(probe.Position.Y),
			formatFloat(primary.Velocity.X), formatFloat(primary.Velocity.Y),
			formatFloat(probe.Velocity.X), formatFloat(probe.Velocity.Y),
			formatFloat(speeds[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Log("msg", "skipping run", "run", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads a saved run back into a trajectory.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	status, err := dynamo.ParseStatus(meta.Status)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read trajectory %s: %w", runID, err)
	}

	traj := &dynamo.Trajectory{
		Dt:             meta.Dt,
		Planned:        meta.Planned,
		Status:         status,
		CollisionIndex: meta.CollisionIndex,
	}

	for i := 1; i < len(records); i++ {
		var vals [9]float64
		for j := range vals {
			v, err := strconv.ParseFloat(records[i][j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, csvHeader[j], err)
			}
			vals[j] = v
		}
		traj.PrimaryPositions = append(traj.PrimaryPositions, r2.Vec{X: vals[1], Y: vals[2]})
		traj.ProbePositions = append(traj.ProbePositions, r2.Vec{X: vals[3], Y: vals[4]})
		traj.PrimaryVelocities = append(traj.PrimaryVelocities, r2.Vec{X: vals[5], Y: vals[6]})
		traj.ProbeVelocities = append(traj.ProbeVelocities, r2.Vec{X: vals[7], Y: vals[8]})
	}

	if traj.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", runID, dynamo.ErrNoSamples)
	}
	return traj, nil
}
