package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/flowsynth/internal/tui"
)

// AddValidateCommand adds the validate command to the root command.
func AddValidateCommand(root *cobra.Command, global *GlobalFlags, project *ProjectFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check task files and workflow references without emitting output",
		Long: `Validate every task file and resolve every workflow file, reporting all
problems at once. Nothing is written.

Exit code 2 means a task or workflow file is invalid.

Examples:
  flowsynth validate
  flowsynth validate --kind-policy tolerant
  flowsynth validate --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), global, project)
		},
	})
}

func runValidate(ctx context.Context, w io.Writer, global *GlobalFlags, projectFlags *ProjectFlags) error {
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
	machines, err := agg.StateMachines(ctx, reg)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, global.Output)
	rows := make([][]string, 0, reg.Len())
	for _, desc := range reg.List() {
		kind := string(desc.Kind)
		if global.Output != tui.FormatJSON {
			kind = tui.RenderKind(desc.Kind)
		}
		rows = append(rows, []string{desc.Name, kind, relativePath(desc.Source)})
	}
	out.Table([]string{"TASK", "KIND", "SOURCE"}, rows)
	out.Success(fmt.Sprintf("%d tasks and %d state machines are valid", reg.Len(), len(machines)))
	return nil
}

// relativePath shortens path relative to the working directory when possible.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	if wd, err := filepath.Abs("."); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil {
			return rel
		}
	}
	return path
}
