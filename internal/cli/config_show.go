package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/flowsynth/internal/config"
	"github.com/mrz1836/flowsynth/internal/tui"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceFlag indicates the value came from a command-line flag.
	SourceFlag ConfigSource = "flag"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Key    string       `json:"key" yaml:"key"`
	Value  string       `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// flagForKey maps configuration keys to the flag overriding them.
//
//nolint:gochecknoglobals // Immutable lookup table
var flagForKey = map[string]string{
	"resourcesPrefix":        "prefix",
	"resourcesSuffix":        "suffix",
	"stage":                  "stage",
	"stateMachinesDirectory": "state-machines-dir",
	"tasksDirectory":         "tasks-dir",
	"functionNamespace":      "namespace",
	"unknownKindPolicy":      "kind-policy",
}

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags, project *ProjectFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect flowsynth configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration and where each value comes from:
  - flag:    a command-line flag
  - env:     a FLOWSYNTH_* environment variable
  - project: .flowsynth/config.yaml
  - global:  ~/.flowsynth/config.yaml
  - default: the built-in default

Examples:
  flowsynth config show
  flowsynth config show --stage prod --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd, cmd.OutOrStdout(), global, project)
		},
	})

	root.AddCommand(cmd)
}

func runConfigShow(ctx context.Context, cmd *cobra.Command, w io.Writer, global *GlobalFlags, projectFlags *ProjectFlags) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	p, err := loadProject(ctx, projectFlags)
	if err != nil {
		return err
	}

	globalPath, _ := config.GlobalConfigPath()
	sources := configSources{
		flagChanged: func(name string) bool {
			f := cmd.Flag(name)
			return f != nil && f.Changed
		},
		project: loadConfigFile(config.ProjectConfigPath()),
		global:  loadConfigFile(globalPath),
	}
	values := buildAnnotatedConfig(p.cfg, sources)

	if global.Output == tui.FormatJSON {
		return tui.NewOutput(w, global.Output).JSON(values)
	}
	printAnnotatedConfig(w, values)
	_, _ = fmt.Fprintf(w, "\nnaming: prefix=%s suffix=%s\n", p.opts.Naming.Prefix, p.opts.Naming.Suffix)
	return nil
}

// configSources describes the layers a value can come from.
type configSources struct {
	flagChanged func(name string) bool
	project     map[string]any
	global      map[string]any
}

// buildAnnotatedConfig pairs every key of cfg with its source.
func buildAnnotatedConfig(cfg *config.Config, sources configSources) []ConfigValueWithSource {
	keys := config.Keys()
	out := make([]ConfigValueWithSource, 0, len(keys))
	for _, key := range keys {
		out = append(out, ConfigValueWithSource{
			Key:    key,
			Value:  cfg.Value(key),
			Source: determineSource(key, sources),
		})
	}
	return out
}

// determineSource walks the layers from highest to lowest precedence.
func determineSource(key string, sources configSources) ConfigSource {
	if sources.flagChanged != nil && sources.flagChanged(flagForKey[key]) {
		return SourceFlag
	}
	for _, env := range config.EnvVars(key) {
		if _, ok := os.LookupEnv(env); ok {
			return SourceEnv
		}
	}
	if _, ok := sources.project[key]; ok {
		return SourceProject
	}
	if _, ok := sources.global[key]; ok {
		return SourceGlobal
	}
	return SourceDefault
}

// loadConfigFile parses a config file into a map; a missing or unreadable
// file yields nil.
func loadConfigFile(path string) map[string]any {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header  lipgloss.Style
	key     lipgloss.Style
	dim     lipgloss.Style
	sources map[ConfigSource]lipgloss.Style
}

func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(tui.ColorPrimary).MarginBottom(1),
		key:    lipgloss.NewStyle().Foreground(tui.ColorPrimary),
		dim:    lipgloss.NewStyle().Foreground(tui.ColorMuted),
		sources: map[ConfigSource]lipgloss.Style{
			SourceFlag:    lipgloss.NewStyle().Foreground(tui.ColorError).Bold(true),
			SourceEnv:     lipgloss.NewStyle().Foreground(tui.ColorError),
			SourceProject: lipgloss.NewStyle().Foreground(tui.ColorWarning),
			SourceGlobal:  lipgloss.NewStyle().Foreground(tui.ColorSuccess),
			SourceDefault: lipgloss.NewStyle().Foreground(tui.ColorMuted),
		},
	}
}

// printAnnotatedConfig prints the values as YAML-like lines with a source comment.
func printAnnotatedConfig(w io.Writer, values []ConfigValueWithSource) {
	tui.CheckNoColor()
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective flowsynth configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sources[SourceFlag].Render("flag")+" > "+
		styles.sources[SourceEnv].Render("env")+" > "+
		styles.sources[SourceProject].Render("project")+" > "+
		styles.sources[SourceGlobal].Render("global")+" > "+
		styles.sources[SourceDefault].Render("default"))
	_, _ = fmt.Fprintln(w)

	width := 0
	for _, v := range values {
		width = max(width, len(fmt.Sprintf("%s: %q", v.Key, v.Value)))
	}
	for _, v := range values {
		pad := width - len(fmt.Sprintf("%s: %q", v.Key, v.Value)) + 2
		_, _ = fmt.Fprintf(w, "%s: %q%*s%s\n",
			styles.key.Render(v.Key), v.Value, pad, "",
			styles.sources[v.Source].Render("# "+string(v.Source)))
	}
}
