package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/vsinha/lineplan/pkg/infrastructure/clock"
	"github.com/vsinha/lineplan/pkg/infrastructure/config"
	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
)

var (
	headerColor = color.New(color.FgBlue, color.Bold)
	errorColor  = color.New(color.FgRed, color.Bold)
)

// app carries what every subcommand needs once flags and config are resolved
type app struct {
	configFile string
	planAt     string

	cfg     *config.Config
	logger  logr.Logger
	metrics *metrics.Recorder
	clock   clock.Clock
}

// now is the planning time: --at when given, the clock otherwise
func (a *app) now() (time.Time, error) {
	if a.planAt == "" {
		return a.clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, a.planAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: expected RFC 3339, e.g. 2025-06-02T06:00:00Z", a.planAt)
	}
	return t.UTC(), nil
}

// NewRootCommand builds the lineplan command tree
func NewRootCommand() *cobra.Command {
	a := &app{clock: clock.RealClock{}}

	root := &cobra.Command{
		Use:   "lineplan",
		Short: "Place punnet packing orders on production lines",
		Long: `lineplan turns "put order O on line L" into a time-boxed schedule item.

It resolves the run rate and changeover for the placement from master and
product specific tables, anchors it after the line's last planned item and
never lets two items on one line overlap.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			a.logger, err = logging.NewLogger(cfg.Verbosity(), cfg.LogDevelopment)
			if err != nil {
				return err
			}
			if cfg.MetricsEnabled {
				a.metrics = metrics.NewRecorder()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.metrics == nil {
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			headerColor.Fprintln(out, "Metrics")
			return a.metrics.WriteText(out)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Optional YAML config file")
	flags.StringVar(&a.planAt, "at", "", "Planning time in RFC 3339 (defaults to now)")
	config.AddFlags(flags)

	root.AddCommand(
		newValidateCommand(a),
		newPreviewCommand(a),
		newPlanCommand(a),
	)
	return root
}

// Execute runs the command tree with the process arguments
func Execute() error {
	return NewRootCommand().Execute()
}

// PrintError prints an error message to stderr in red
func PrintError(err error) {
	errorColor.Fprintf(color.Error, "Error: %v\n", err)
}
