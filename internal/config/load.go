package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/errors"
)

// Configuration keys, matching the mapstructure tags on Config.
const (
	keyResourcesPrefix        = "resourcesPrefix"
	keyResourcesSuffix        = "resourcesSuffix"
	keyStage                  = "stage"
	keyStateMachinesDirectory = "stateMachinesDirectory"
	keyTasksDirectory         = "tasksDirectory"
	keyFunctionNamespace      = "functionNamespace"
	keyUnknownKindPolicy      = "unknownKindPolicy"
)

// envNames maps each key to the environment variables that set it. Both the
// snake form (FLOWSYNTH_RESOURCES_PREFIX) and the flat form viper derives
// on its own (FLOWSYNTH_RESOURCESPREFIX) are accepted.
//
//nolint:gochecknoglobals // Immutable lookup table
var envNames = map[string]string{
	keyResourcesPrefix:        "RESOURCES_PREFIX",
	keyResourcesSuffix:        "RESOURCES_SUFFIX",
	keyStage:                  "STAGE",
	keyStateMachinesDirectory: "STATE_MACHINES_DIRECTORY",
	keyTasksDirectory:         "TASKS_DIRECTORY",
	keyFunctionNamespace:      "FUNCTION_NAMESPACE",
	keyUnknownKindPolicy:      "UNKNOWN_KIND_POLICY",
}

// newViperInstance creates a new Viper instance with the standard flowsynth
// setup: defaults, FLOWSYNTH_ environment prefix and explicit env bindings.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range envNames {
		_ = v.BindEnv(append([]string{key}, EnvVars(key)...)...)
	}
	return v
}

// EnvVars returns the environment variables that set key, in lookup order.
func EnvVars(key string) []string {
	name, ok := envNames[key]
	if !ok {
		return nil
	}
	return []string{
		constants.EnvPrefix + "_" + name,
		constants.EnvPrefix + "_" + strings.ToUpper(key),
	}
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (FLOWSYNTH_* prefix)
//  2. Project config (.flowsynth/config.yaml)
//  3. Global config (~/.flowsynth/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("stage", cfg.Stage).
		Str("resources_prefix", cfg.ResourcesPrefix).
		Str("tasks_dir", cfg.TasksDirectory).
		Str("state_machines_dir", cfg.StateMachinesDirectory).
		Str("unknown_kind_policy", cfg.UnknownKindPolicy).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.flowsynth/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil || !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file (.flowsynth/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides,
// which have the highest precedence. Only non-zero override fields are
// applied, so partial overrides are allowed.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return applyOverrides(cfg, overrides)
}

// applyOverrides merges the non-zero fields of overrides into cfg and
// re-validates the result.
func applyOverrides(cfg, overrides *Config) (*Config, error) {
	if overrides != nil {
		if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
			return nil, errors.Wrap(err, "failed to apply overrides")
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Scalars are weakly typed so a numeric stage such as 2024 still decodes.
func viperDecoderOption() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.TextUnmarshallerHookFunc(),
		)
	}
}
