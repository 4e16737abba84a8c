package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/swingby/internal/dynamo"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3366ff"))
	probeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff3333"))

	statusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusCrash = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	statusHalt = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688")).
			Italic(true)
)

// StatusBadge renders a status in its color.
func StatusBadge(s dynamo.Status) string {
	switch s {
	case dynamo.Completed:
		return statusOK.Render(s.String())
	case dynamo.Collided:
		return statusCrash.Render(s.String())
	default:
		return statusHalt.Render(s.String())
	}
}

// metricUnits maps metric names to a display scale and unit.
var metricUnits = map[string]struct {
	scale float64
	unit  string
}{
	"closest_approach":      {1e-6, "10³ km"},
	"closest_approach_time": {1 / dynamo.Day, "days"},
	"peak_speed":            {1e-3, "km/s"},
	"speed_gain":            {1e-3, "km/s"},
	"energy_change":         {1e-6, "MJ/kg"},
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Summary renders the outcome of a run as a bordered panel.
func Summary(title string, traj *dynamo.Trajectory, metrics map[string]float64) string {
	lines := []string{
		titleStyle.Render(title),
		labelStyle.Render("status") + StatusBadge(traj.Status),
		row("samples", fmt.Sprintf("%d / %d", traj.Len(), traj.Planned)),
		row("elapsed", fmt.Sprintf("%.2f days", traj.Time(traj.Len()-1)/dynamo.Day)),
	}
	if traj.Collided() {
		lines = append(lines, row("impact at", fmt.Sprintf("sample %d (%.2f days)",
			traj.CollisionIndex, traj.Time(traj.CollisionIndex)/dynamo.Day)))
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := metrics[name]
		if u, ok := metricUnits[name]; ok {
			lines = append(lines, row(name, fmt.Sprintf("%.3f %s", v*u.scale, u.unit)))
		} else {
			lines = append(lines, row(name, fmt.Sprintf("%.6g", v)))
		}
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}
