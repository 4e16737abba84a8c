package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logger log.Logger

	// scenario flags shared by run, play and sweep
	configFile string
	body       string
	preset     string
	days       float64
	dtHours    float64
	probeX     float64
	probeY     float64
	speedKms   float64
	angleDeg   float64
	radius     float64
	maxSteps   int

	// sweep
	angleFrom float64
	angleTo   float64
	angleStep float64
	workers   int
	saveSweep bool

	// output
	outFile string
	width   int
	height  int
	stride  int
)

// main wires the swingby CLI. Settings for the data directory and the
// playback rate come from flags, SWINGBY_* variables or ~/.swingby.yaml.
func main() {
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	rootCmd := &cobra.Command{
		Use:           "swingby",
		Short:         "gravity assist trajectory simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(cmd)
		},
	}

	rootCmd.PersistentFlags().String("data", ".swingby", "data directory")
	rootCmd.PersistentFlags().Int("fps", 25, "playback frames per second")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress log output")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a flyby and store the run",
		Args:  cobra.NoArgs,
		RunE:  runFlyby,
	}
	addScenarioFlags(runCmd)

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored run, or a fresh scenario, in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playRun,
	}
	addScenarioFlags(playCmd)
	playCmd.Flags().IntVar(&stride, "stride", 4, "samples advanced per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "scan probe launch angles concurrently",
		Args:  cobra.NoArgs,
		RunE:  sweepAngles,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&angleFrom, "from", 0, "first launch angle (deg)")
	sweepCmd.Flags().Float64Var(&angleTo, "to", 360, "last launch angle (deg, exclusive)")
	sweepCmd.Flags().Float64Var(&angleStep, "step", 30, "angle increment (deg)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent integrations (0 = GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&saveSweep, "save", false, "store every run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot probe speed and separation of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&width, "width", 800, "image width")
	svgCmd.Flags().IntVar(&height, "height", 600, "image height")
	svgCmd.Flags().Bool("speed", false, "plot probe speed instead of paths")

	presetsCmd := &cobra.Command{
		Use:   "presets [body]",
		Short: "list available presets for a primary body",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list primary bodies",
		Args:  cobra.NoArgs,
		RunE:  listBodies,
	}

	rootCmd.AddCommand(runCmd, playCmd, sweepCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, bodiesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "scenario file (yaml)")
	f.StringVar(&body, "body", "jupiter", "primary body")
	f.StringVar(&preset, "preset", "", "use a preset scenario of the body")
	f.Float64Var(&days, "days", 0, "duration in days")
	f.Float64Var(&dtHours, "dt", 0, "time step in hours")
	f.Float64Var(&probeX, "x", 0, "probe x position (10^9 m)")
	f.Float64Var(&probeY, "y", 0, "probe y position (10^9 m)")
	f.Float64Var(&speedKms, "speed", 0, "probe launch speed (km/s)")
	f.Float64Var(&angleDeg, "angle", 0, "probe launch angle (deg)")
	f.Float64Var(&radius, "radius", 0, "collision radius override (m)")
	f.IntVar(&maxSteps, "max-steps", 0, "step budget (0 = none)")
}

func initSettings(cmd *cobra.Command) error {
	viper.SetEnvPrefix("swingby")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(".swingby")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	for _, name := range []string{"data", "fps", "quiet"} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}

	if viper.GetBool("quiet") {
		logger = log.NewNopLogger()
	}
	return nil
}

func dataDir() string { return viper.GetString("data") }

func viperFPS() int { return viper.GetInt("fps") }
