package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

const chglog = "git-chglog"

type changelogOpts struct {
	next   string
	output string
	tag    string
}

// args builds the git-chglog command line. The query (a tag or range) goes last.
func (o changelogOpts) args() []string {
	var args []string
	if o.next != "" {
		args = append(args, "--next-tag", o.next)
	}
	output := o.output
	if output == "" {
		output = "CHANGELOG.md"
	}
	args = append(args, "--output", output)
	if o.tag != "" {
		args = append(args, o.tag)
	}
	return args
}

func ChangelogCmd() *cobra.Command {
	var opts changelogOpts
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate CHANGELOG.md from conventional commits",
		Long: `Runs git-chglog over the git history. Commits are expected in the
conventional commits form: <type>[scope]: <description>.

  dev changelog --next v0.3.0
  dev changelog --tag v0.2.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := exec.LookPath(chglog)
			if err != nil {
				slog.Error("git-chglog not found in PATH",
					"install", "go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest")
				return fmt.Errorf("%s not installed: %w", chglog, err)
			}
			args := opts.args()
			slog.Info("generating changelog", "args", args)
			run := exec.CommandContext(cmd.Context(), path, args...)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			err = run.Run()
			if err != nil {
				return fmt.Errorf("changelog generation failed: %w", err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.next, "next", "", "tag the unreleased commits as this version")
	f.StringVar(&opts.output, "output", "CHANGELOG.md", "output file")
	f.StringVar(&opts.tag, "tag", "", "limit the changelog to one tag")
	return cmd
}
