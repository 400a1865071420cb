package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func TestCmd() *cobra.Command {
	return runner("test", "Run unit tests", test.Test)
}

func LintCmd() *cobra.Command {
	return runner("lint", "Run linters", test.Lint)
}

func IntegrationTestCmd() *cobra.Command {
	return runner("integration-test", "Run tests against attached hardware", test.Integ)
}

func runner(use, short string, fn func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(*cobra.Command, []string) error {
			err := fn()
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			return nil
		},
	}
}
