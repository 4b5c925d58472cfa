package cmd

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var flagCommitInteractive bool

var commitCmd = &cobra.Command{
	Use:     "commit",
	Aliases: []string{"c"},
	Short:   "Suggest a commit message for staged changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return runCommit(cmd.Context(), d, flagCommitInteractive)
	},
}

func init() {
	commitCmd.Flags().BoolVarP(&flagCommitInteractive, "interactive", "i", false, "offer to apply the generated commit")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(ctx context.Context, d *deps, interactive bool) error {
	d.logger.Git("Repository: %s", d.extractor.RepoName())

	res, err := d.pipe.CommitMessage(ctx)
	if err != nil {
		return err
	}
	if res.Empty {
		d.logger.Success("Working tree is clean. Nothing to commit.")
		return nil
	}

	d.logger.Diff("%d files changed, +%d, -%d",
		len(res.Payload.Files), additions(res), deletions(res))

	d.logger.Step("Suggested commit message:")
	printPanel(res.Commit.String())

	if !interactive {
		return nil
	}
	if res.UsedUncommitted {
		d.logger.Warning("Changes are not staged; stage them before committing.")
		return nil
	}
	if !confirm("Run this commit?") {
		return nil
	}

	if err := d.extractor.Commit(ctx, res.Commit.String()); err != nil {
		return err
	}
	d.logger.Success("Commit created successfully!")
	return nil
}

// confirm asks a y/N question on stdin.
func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	os.Stdout.WriteString(question + " [y/N] ")
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
