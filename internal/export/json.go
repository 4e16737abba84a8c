package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Number is a float64 that encodes NaN and ±Inf as JSON null, which
// decodes back to NaN. A run that ends at zero separation carries them.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("export: invalid number %q: %w", data, err)
	}
	*n = Number(f)
	return nil
}

type Point [2]Number

func point(v r2.Vec) Point { return Point{Number(v.X), Number(v.Y)} }

func numbers(vs []float64) []Number {
	out := make([]Number, len(vs))
	for i, v := range vs {
		out[i] = Number(v)
	}
	return out
}

type ExportData struct {
	ID             string            `json:"id"`
	Scenario       string            `json:"scenario"`
	Dt             float64           `json:"dt"`
	Planned        int               `json:"planned"`
	Steps          int               `json:"steps"`
	Status         string            `json:"status"`
	CollisionIndex int               `json:"collision_index"`
	Times          []Number          `json:"times"`
	Primary        []Point           `json:"primary_positions"`
	Probe          []Point           `json:"probe_positions"`
	PrimaryVel     []Point           `json:"primary_velocities"`
	ProbeVel       []Point           `json:"probe_velocities"`
	Speeds         []Number          `json:"speeds"`
	Metrics        map[string]Number `json:"metrics"`
}

// NewExportData flattens a trajectory into plain arrays.
func NewExportData(id, scenario string, traj *dynamo.Trajectory, metrics map[string]float64) ExportData {
	data := ExportData{
		ID:             id,
		Scenario:       scenario,
		Dt:             traj.Dt,
		Planned:        traj.Planned,
		Steps:          traj.Len(),
		Status:         traj.Status.String(),
		CollisionIndex: traj.CollisionIndex,
		Times:          numbers(traj.Times()),
		Primary:        make([]Point, traj.Len()),
		Probe:          make([]Point, traj.Len()),
		PrimaryVel:     make([]Point, traj.Len()),
		ProbeVel:       make([]Point, traj.Len()),
		Speeds:         numbers(traj.Speeds()),
		Metrics:        make(map[string]Number, len(metrics)),
	}

	for i := 0; i < traj.Len(); i++ {
		primary, probe := traj.Sample(i)
		data.Primary[i] = point(primary.Position)
		data.Probe[i] = point(probe.Position)
		data.PrimaryVel[i] = point(primary.Velocity)
		data.ProbeVel[i] = point(probe.Velocity)
	}
	for name, v := range metrics {
		data.Metrics[name] = Number(v)
	}

	return data
}

func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
