package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mklimuk/regbus/cmd/dev/cmd"
)

func main() {
	err := rootCmd().Execute()
	if err != nil {
		slog.Error("dev command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:   "dev",
		Short: "build and quality tool for the regbus cli",
		PersistentPreRun: func(*cobra.Command, []string) {
			logger := log.NewWithOptions(os.Stdout, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "dev",
			})
			logger.SetColorProfile(termenv.TrueColor)
			logger.SetLevel(log.InfoLevel)
			if debug {
				logger.SetLevel(log.DebugLevel)
			}
			slog.SetDefault(slog.New(logger))
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	root.AddCommand(cmd.BuildCmd(), cmd.ChangelogCmd(), cmd.TestCmd(), cmd.LintCmd(), cmd.IntegrationTestCmd())
	return root
}
