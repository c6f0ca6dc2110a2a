// Package cli provides the command-line interface for flowsynth.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/flowsynth/internal/errors"
	"github.com/mrz1836/flowsynth/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and read via GetLogger.
var (
	globalLogger   = zerolog.Nop() //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex    //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
// Before the root command's PersistentPreRunE has run it returns a logger
// that discards everything. Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the flowsynth CLI.
func newRootCmd(flags *GlobalFlags, project *ProjectFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "flowsynth",
		Short: "flowsynth - serverless workflow resource synthesizer",
		Long: `flowsynth turns task descriptors and workflow definitions into the
infrastructure documents a serverless deployment needs.

Features:
  • Validates container and function task descriptors
  • Generates roles, task definitions, repositories and function definitions
  • Expands Namespace.Task({...}) calls inside workflow definitions
  • Merges everything into one deterministic resource set`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Output = v.GetString("output")

			if !tui.IsValidFormat(flags.Output) {
				return errors.NewExitCode2Error(fmt.Errorf("%w: %q must be one of %v",
					errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats()))
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)
	AddProjectFlags(cmd, project)

	AddSynthCommand(cmd, flags, project)
	AddValidateCommand(cmd, flags, project)
	AddResolveCommand(cmd, flags, project)
	AddImagesCommand(cmd, flags, project)
	AddConfigCommand(cmd, flags, project)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// A failing command's error is reported on stderr in the selected output
// format and then returned for exit-code mapping.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	project := &ProjectFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, project, info)
	err := cmd.ExecuteContext(ctx)
	reportError(cmd.ErrOrStderr(), flags.Output, err)
	CloseLogFile()
	return err
}

// reportError prints err unless it is nil or was already printed as JSON.
func reportError(w io.Writer, format string, err error) {
	if err == nil || stderrors.Is(err, errors.ErrJSONErrorOutput) {
		return
	}
	if !tui.IsValidFormat(format) {
		format = tui.FormatText
	}
	tui.NewOutput(w, format).Error(err)
}
