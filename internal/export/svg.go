package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/swingby/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	PrimaryColor = "#3366ff"
	ProbeColor   = "#ff3333"
	SpeedColor   = "#00cc88"
)

// bounds is the padded bounding box of a set of points.
type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(sets ...[]r2.Vec) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, pts := range sets {
		for _, p := range pts {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
		}
	}
	if math.IsInf(b.minX, 1) {
		return bounds{0, 1, 0, 1}
	}

	// Add padding
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(p r2.Vec, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func writePath(sb *strings.Builder, pts []r2.Vec, b bounds, width, height int, stroke string) {
	if len(pts) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))
	for i, p := range pts {
		x, y := b.project(p, width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// TrajectoryToSVG draws the paths of both bodies in the plane with a dot
// at their final positions.
func TrajectoryToSVG(traj *dynamo.Trajectory, width, height int) string {
	if traj.Len() == 0 {
		return ""
	}

	b := boundsOf(traj.PrimaryPositions, traj.ProbePositions)

	var sb strings.Builder
	header(&sb, width, height)
	writePath(&sb, traj.PrimaryPositions, b, width, height, PrimaryColor)
	writePath(&sb, traj.ProbePositions, b, width, height, ProbeColor)

	last := traj.Len() - 1
	for _, dot := range []struct {
		p     r2.Vec
		color string
	}{
		{traj.PrimaryPositions[last], PrimaryColor},
		{traj.ProbePositions[last], ProbeColor},
	} {
		x, y := b.project(dot.p, width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, dot.color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SpeedToSVG plots the probe speed against elapsed time.
func SpeedToSVG(traj *dynamo.Trajectory, width, height int) string {
	if traj.Len() < 2 {
		return ""
	}

	speeds := traj.Speeds()
	pts := make([]r2.Vec, len(speeds))
	for i, v := range speeds {
		pts[i] = r2.Vec{X: traj.Time(i), Y: v}
	}

	var sb strings.Builder
	header(&sb, width, height)
	writePath(&sb, pts, boundsOf(pts), width, height, SpeedColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes svg to w, failing on an empty drawing.
func WriteSVG(w io.Writer, svg string) error {
	if svg == "" {
		return dynamo.ErrNoSamples
	}
	_, err := io.WriteString(w, svg)
	return err
}
