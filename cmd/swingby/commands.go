package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/swingby/internal/config"
	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/export"
	"github.com/san-kum/swingby/internal/integrators"
	"github.com/san-kum/swingby/internal/metrics"
	"github.com/san-kum/swingby/internal/physics"
	"github.com/san-kum/swingby/internal/sim"
	"github.com/san-kum/swingby/internal/storage"
	"github.com/san-kum/swingby/internal/viz"
	"github.com/spf13/cobra"
)

// loadScenario resolves the scenario in order: defaults, preset, file,
// then any explicitly set flag.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Body = body

	if preset != "" {
		p, err := config.Preset(body, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if cmd.Flags().Changed("body") {
			cfg.Body = body
		}
	}

	f := cmd.Flags()
	if f.Changed("days") {
		cfg.DurationDays = days
	}
	if f.Changed("dt") {
		cfg.DtHours = dtHours
	}
	if f.Changed("x") {
		cfg.Probe.XGm = probeX
	}
	if f.Changed("y") {
		cfg.Probe.YGm = probeY
	}
	if f.Changed("speed") {
		cfg.Probe.SpeedKms = speedKms
	}
	if f.Changed("angle") {
		cfg.Probe.AngleDeg = angleDeg
	}
	if f.Changed("radius") {
		cfg.Radius = radius
	}
	if f.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func integrate(cmd *cobra.Command) (*config.Config, dynamo.Params, *dynamo.Trajectory, error) {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return nil, dynamo.Params{}, nil, err
	}
	p, err := cfg.Params()
	if err != nil {
		return nil, dynamo.Params{}, nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	traj, err := integrators.NewEuler().Integrate(ctx, p)
	if err != nil {
		return nil, p, nil, err
	}
	logger.Log("msg", "integrated", "scenario", cfg.Name, "body", cfg.Body,
		"samples", traj.Len(), "status", traj.Status, "elapsed", time.Since(start))
	return cfg, p, traj, nil
}

func runFlyby(cmd *cobra.Command, args []string) error {
	cfg, p, traj, err := integrate(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir(), logger)
	if err := st.Init(); err != nil {
		return err
	}

	result := metrics.Evaluate(traj, metrics.Defaults(p)...)
	runID, err := st.Save(cfg.Name, p, traj, result)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(runID, traj, result))
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	var (
		title string
		traj  *dynamo.Trajectory
	)

	if len(args) == 1 {
		st := storage.New(dataDir(), logger)
		t, err := st.LoadTrajectory(args[0])
		if err != nil {
			return err
		}
		title, traj = args[0], t
	} else {
		cfg, _, t, err := integrate(cmd)
		if err != nil {
			return err
		}
		title, traj = cfg.Name, t
	}

	interval := viz.DefaultInterval
	if fps := viperFPS(); fps > 0 {
		interval = time.Second / time.Duration(fps)
	}

	m := viz.NewPlayback(title, traj, interval, stride)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

func sweepAngles(cmd *cobra.Command, args []string) error {
	if angleStep <= 0 {
		return fmt.Errorf("sweep step must be positive, got %v", angleStep)
	}
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	var (
		angles []float64
		params []dynamo.Params
	)
	for a := angleFrom; a < angleTo; a += angleStep {
		c := *cfg
		c.Probe.AngleDeg = a
		p, err := c.Params()
		if err != nil {
			return err
		}
		angles = append(angles, a)
		params = append(params, p)
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := sim.NewSweep(integrators.NewEuler(), workers, logger).Run(ctx, params)
	if err != nil {
		return err
	}
	logger.Log("msg", "sweep finished", "runs", len(results), "elapsed", time.Since(start))

	var st *storage.Store
	if saveSweep {
		st = storage.New(dataDir(), logger)
		if err := st.Init(); err != nil {
			return err
		}
	}

	evaluated := make([]map[string]float64, len(results))
	for i, traj := range results {
		evaluated[i] = metrics.Evaluate(traj, metrics.Defaults(params[i])...)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tSTATUS\tSAMPLES\tCLOSEST (km)\tGAIN (km/s)\tRUN")
	for i, traj := range results {
		m := evaluated[i]
		runID := "-"
		if st != nil {
			name := fmt.Sprintf("%s_a%03.0f", cfg.Name, angles[i])
			if runID, err = st.Save(name, params[i], traj, m); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%.1f\t%s\t%d\t%.0f\t%.3f\t%s\n",
			angles[i], traj.Status, traj.Len(),
			m["closest_approach"]/1e3, m["speed_gain"]/1e3, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// collided runs are not assists
	best, gain := sim.Best(results, func(i int, traj *dynamo.Trajectory) float64 {
		if traj.Collided() {
			return math.NaN()
		}
		return evaluated[i]["speed_gain"]
	})
	if best >= 0 {
		fmt.Printf("\nbest assist: angle %.1f deg, speed gain %.3f km/s\n", angles[best], gain/1e3)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir(), logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDAYS\tDT (h)\tSAMPLES\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.3f\t%d/%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration/dynamo.Day,
			run.Dt/dynamo.Hour,
			run.Samples,
			run.Planned,
			run.Status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir(), logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if traj.Len() < 2 {
		return fmt.Errorf("run %s: not enough samples to plot", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d (%s)\n\n", traj.Len(), meta.Status)

	speeds := traj.Speeds()
	seps := traj.Separations()
	for i := range speeds {
		speeds[i] /= 1e3
		seps[i] /= 1e9
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{speeds, fmt.Sprintf("probe speed (km/s) over %.1f days", traj.Time(traj.Len()-1)/dynamo.Day)},
		{seps, "separation (10^9 m)"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir(), logger)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir(), logger)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	return export.ExportJSON(os.Stdout, export.NewExportData(meta.ID, meta.Scenario, traj, meta.Metrics))
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir(), logger)
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(traj, width, height)
	if speed, _ := cmd.Flags().GetBool("speed"); speed {
		svg = export.SpeedToSVG(traj, width, height)
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := export.WriteSVG(out, svg); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	if outFile != "" {
		logger.Log("msg", "wrote svg", "run", args[0], "file", outFile)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for body: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func listBodies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tMASS (kg)\tRADIUS (km)")
	for _, name := range physics.ListBodies() {
		b, err := physics.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.0f\n", b.Name, b.Mass, b.Radius/1e3)
	}
	return w.Flush()
}
