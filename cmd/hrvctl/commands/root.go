package commands

import (
	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/logging"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
)

type rootOptions struct {
	verbose bool
	data    string
	json    bool
	window  int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hrvctl",
		Short: "Offline HRV and habit analysis",
		Long: `hrvctl runs the correlation, recommendation and morning-analysis
pipeline over a snapshot file (YAML or JSON) without a database.`,
		Version:       Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(opts.verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.PersistentFlags().StringVarP(&opts.data, "data", "d", "", "snapshot file with readings, habits and profile")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")
	cmd.PersistentFlags().IntVar(&opts.window, "window", 90, "analysis window in days")
	_ = cmd.MarkPersistentFlagRequired("data")

	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newMorningCmd(opts))

	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
