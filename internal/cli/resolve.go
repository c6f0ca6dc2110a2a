package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/flowsynth/internal/tui"
)

// AddResolveCommand adds the resolve command to the root command.
func AddResolveCommand(root *cobra.Command, global *GlobalFlags, project *ProjectFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "resolve <file>",
		Short: "Expand the Task(...) calls of one workflow file",
		Long: `Load the project's tasks, expand every Namespace.Task({...}) call in the
given workflow file and print the resulting document.

Examples:
  flowsynth resolve stateMachines/main.sf.yml
  flowsynth resolve flows/nightly.sf.yml --namespace Acme --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd.OutOrStdout(), global, project, args[0])
		},
	})
}

func runResolve(ctx context.Context, w io.Writer, global *GlobalFlags, projectFlags *ProjectFlags, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	p, err := loadProject(ctx, projectFlags)
	if err != nil {
		return err
	}

	agg := p.aggregator(GetLogger())
	reg, err := agg.LoadTasks(ctx)
	if err != nil {
		return err
	}
	content, err := agg.ResolveFile(path, reg)
	if err != nil {
		return err
	}
	return tui.NewOutput(w, global.Output).Document(content)
}
