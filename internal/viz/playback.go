package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultInterval = 40 * time.Millisecond
	canvasWidth     = 60
	canvasHeight    = 20
)

type tickMsg time.Time

// Playback replays a finished trajectory frame by frame.
type Playback struct {
	title    string
	traj     *dynamo.Trajectory
	view     Viewport
	speeds   []float64
	interval time.Duration
	stride   int

	frame  int
	paused bool
	done   bool

	width, height int
}

// NewPlayback builds a playback model. A non-positive interval or stride
// falls back to the defaults.
func NewPlayback(title string, traj *dynamo.Trajectory, interval time.Duration, stride int) *Playback {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if stride < 1 {
		stride = 1
	}

	speeds := traj.Speeds()
	for i := range speeds {
		speeds[i] /= 1e3
	}

	return &Playback{
		title:    title,
		traj:     traj,
		view:     Fit(traj.PrimaryPositions, traj.ProbePositions),
		speeds:   speeds,
		interval: interval,
		stride:   stride,
		width:    80,
		height:   24,
	}
}

// Frame is the index of the sample currently shown.
func (m *Playback) Frame() int { return m.frame }

func (m *Playback) Paused() bool { return m.paused }

func (m *Playback) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Playback) Init() tea.Cmd { return m.tick() }

func (m *Playback) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			m.advance(m.stride)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Playback) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.done = true
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.frame = 0
	case "left", "h":
		m.advance(-m.stride)
	case "right", "l":
		m.advance(m.stride)
	case "home":
		m.frame = 0
	case "end":
		m.frame = m.last()
	}
	return m, nil
}

func (m *Playback) last() int {
	if m.traj.Len() == 0 {
		return 0
	}
	return m.traj.Len() - 1
}

func (m *Playback) advance(n int) {
	m.frame += n
	if m.frame < 0 {
		m.frame = 0
	}
	if m.frame > m.last() {
		m.frame = m.last()
	}
}

func (m *Playback) View() string {
	if m.traj.Len() == 0 {
		return hintStyle.Render("no samples") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(m.render()))
	b.WriteString("\n")

	primary, probe := m.traj.Sample(m.frame)
	status := "playing"
	if m.paused {
		status = "paused"
	}
	if m.frame == m.last() {
		status = "end " + StatusBadge(m.traj.Status)
	}
	b.WriteString(row("t", fmt.Sprintf("%.2f days  [%d/%d]  %s",
		m.traj.Time(m.frame)/dynamo.Day, m.frame, m.last(), status)))
	b.WriteString("\n")
	b.WriteString(row("separation", fmt.Sprintf("%.0f km",
		dynamo.Separation(primary.Position, probe.Position)/1e3)))
	b.WriteString("\n")
	b.WriteString(row("probe speed", fmt.Sprintf("%.3f km/s", r2.Norm(probe.Velocity)/1e3)))
	b.WriteString("\n\n")

	if m.frame >= 1 {
		b.WriteString(asciigraph.Plot(m.speeds[:m.frame+1],
			asciigraph.Height(5), asciigraph.Width(canvasWidth), asciigraph.Caption("probe speed (km/s)")))
		b.WriteString("\n\n")
	}

	b.WriteString(hintStyle.Render("space pause  ←/→ step  r reset  q quit"))
	b.WriteString("\n")
	return b.String()
}

// render draws both paths up to the current frame, coloring each body.
func (m *Playback) render() string {
	primary := NewCanvas(canvasWidth, canvasHeight)
	probe := NewCanvas(canvasWidth, canvasHeight)

	primary.DrawPath(m.traj.PrimaryPositions[:m.frame+1], m.view)
	primary.DrawDot(m.traj.PrimaryPositions[m.frame], m.view)
	probe.DrawPath(m.traj.ProbePositions[:m.frame+1], m.view)
	probe.DrawDot(m.traj.ProbePositions[m.frame], m.view)

	var b strings.Builder
	for y := 0; y < canvasHeight; y++ {
		for x := 0; x < canvasWidth; x++ {
			switch p, q := primary.Grid[y][x], probe.Grid[y][x]; {
			case q != brailleBlank:
				b.WriteString(probeStyle.Render(string(q | p)))
			case p != brailleBlank:
				b.WriteString(primaryStyle.Render(string(p)))
			default:
				b.WriteRune(brailleBlank)
			}
		}
		if y < canvasHeight-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
