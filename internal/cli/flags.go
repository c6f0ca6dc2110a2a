package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/flowsynth/internal/config"
	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/errors"
	"github.com/mrz1836/flowsynth/internal/tui"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input: bad flags, or task and
	// workflow files that fail validation.
	ExitInvalidInput = 2
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// ProjectFlags override the layered configuration for one run.
// Empty values leave the configured value in place.
type ProjectFlags struct {
	Stage                  string
	ResourcesPrefix        string
	ResourcesSuffix        string
	TasksDirectory         string
	StateMachinesDirectory string
	FunctionNamespace      string
	UnknownKindPolicy      string
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", tui.FormatText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// AddProjectFlags adds the configuration override flags to a command.
func AddProjectFlags(cmd *cobra.Command, flags *ProjectFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Stage, "stage", "s", "", "deployment stage (default from config, \"dev\")")
	pf.StringVar(&flags.ResourcesPrefix, "prefix", "", "prefix for generated resource names")
	pf.StringVar(&flags.ResourcesSuffix, "suffix", "", "suffix for generated resource names (default \"-<stage>\")")
	pf.StringVar(&flags.TasksDirectory, "tasks-dir", "", "directory scanned for *task.yml files")
	pf.StringVar(&flags.StateMachinesDirectory, "state-machines-dir", "", "directory scanned for *.sf.yml files")
	pf.StringVar(&flags.FunctionNamespace, "namespace", "", "namespace of Task(...) calls in workflow files")
	pf.StringVar(&flags.UnknownKindPolicy, "kind-policy", "", "handling of unsupported task kinds (strict|tolerant)")
}

// overrides converts the flags to a partial Config for config.LoadWithOverrides.
func (f *ProjectFlags) overrides() *config.Config {
	return &config.Config{
		Stage:                  f.Stage,
		ResourcesPrefix:        f.ResourcesPrefix,
		ResourcesSuffix:        f.ResourcesSuffix,
		TasksDirectory:         f.TasksDirectory,
		StateMachinesDirectory: f.StateMachinesDirectory,
		FunctionNamespace:      f.FunctionNamespace,
		UnknownKindPolicy:      strings.ToLower(f.UnknownKindPolicy),
	}
}

// BindGlobalFlags binds global flags to Viper so they can also be set from
// the environment (FLOWSYNTH_OUTPUT, FLOWSYNTH_VERBOSE, FLOWSYNTH_QUIET).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root().PersistentFlags() finds the root flags even from a subcommand.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{tui.FormatText, tui.FormatJSON}
}

// ExitCodeForError returns the appropriate exit code for the given error.
// Returns ExitSuccess (0) for nil errors, ExitInvalidInput (2) for user
// input errors, and ExitError (1) for all other errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.IsExitCode2Error(err) || errors.IsInputError(err) {
		return ExitInvalidInput
	}

	for _, sentinel := range []error{
		errors.ErrInvalidOutputFormat,
		errors.ErrInvalidArgument,
		errors.ErrConfigInvalidNaming,
		errors.ErrConfigInvalidPolicy,
		errors.ErrConfigInvalidDirectory,
	} {
		if stderrors.Is(err, sentinel) {
			return ExitInvalidInput
		}
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts 1 arg",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
