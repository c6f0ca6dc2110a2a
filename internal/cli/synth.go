package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/flowsynth/internal/tui"
)

// synthFlags holds flags specific to the synth command.
type synthFlags struct {
	// Out is the file the result is written to; stdout when empty.
	Out string
}

// AddSynthCommand adds the synth command to the root command.
func AddSynthCommand(root *cobra.Command, global *GlobalFlags, project *ProjectFlags) {
	flags := &synthFlags{}
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize resources, functions and state machines",
		Long: `Load every task file and workflow file of the project and print the
merged result: base resources, per-task resources, function definitions and
resolved state machines.

The result is YAML by default and JSON with --output json. With --out the
format follows the file extension (.json for JSON, anything else YAML).

Examples:
  flowsynth synth
  flowsynth synth --stage prod --out build/flow.yml
  flowsynth synth --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSynth(cmd.Context(), cmd.OutOrStdout(), global, project, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Out, "out", "", "write the result to this file instead of stdout")

	root.AddCommand(cmd)
}

func runSynth(ctx context.Context, w io.Writer, global *GlobalFlags, projectFlags *ProjectFlags, flags *synthFlags) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	p, err := loadProject(ctx, projectFlags)
	if err != nil {
		return err
	}

	result, err := p.aggregator(GetLogger()).Synthesize(ctx)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, global.Output)
	if flags.Out == "" {
		return out.Document(result)
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(flags.Out), ".json") {
		err = tui.EncodeJSON(&buf, result)
	} else {
		err = tui.EncodeYAML(&buf, result)
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(flags.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(flags.Out, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Out, err)
	}

	out.Success(fmt.Sprintf("wrote %d resources, %d functions, %d state machines to %s",
		len(result.Resources), len(result.Functions), len(result.StateMachines), flags.Out))
	return nil
}
