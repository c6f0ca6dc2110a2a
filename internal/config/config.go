// Package config provides configuration management for flowsynth with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (FLOWSYNTH_* prefix)
//  3. Project config (.flowsynth/config.yaml)
//  4. Global config (~/.flowsynth/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

// Config is the root configuration structure for flowsynth.
type Config struct {
	// ResourcesPrefix prefixes every generated physical resource name.
	// Default: "ServerlessFlow"
	ResourcesPrefix string `yaml:"resourcesPrefix" mapstructure:"resourcesPrefix" json:"resourcesPrefix" validate:"required,max=17,alphanum"`

	// ResourcesSuffix is appended to generated names.
	// Default: empty, which derives "-<stage>".
	ResourcesSuffix string `yaml:"resourcesSuffix" mapstructure:"resourcesSuffix" json:"resourcesSuffix"`

	// Stage is the deployment stage.
	// Default: "dev"
	Stage string `yaml:"stage" mapstructure:"stage" json:"stage" validate:"required"`

	// StateMachinesDirectory is scanned for *.sf.yml workflow files.
	StateMachinesDirectory string `yaml:"stateMachinesDirectory" mapstructure:"stateMachinesDirectory" json:"stateMachinesDirectory" validate:"required"`

	// TasksDirectory is scanned for *task.yml descriptor files.
	TasksDirectory string `yaml:"tasksDirectory" mapstructure:"tasksDirectory" json:"tasksDirectory" validate:"required"`

	// FunctionNamespace is the Namespace in Namespace.Task(...) calls.
	// Default: "ServerlessFlow"
	FunctionNamespace string `yaml:"functionNamespace" mapstructure:"functionNamespace" json:"functionNamespace" validate:"required,alphanum"`

	// UnknownKindPolicy selects what happens to tasks of an unsupported kind.
	// "strict" fails the run, "tolerant" skips them with a warning.
	// Default: "strict"
	UnknownKindPolicy string `yaml:"unknownKindPolicy" mapstructure:"unknownKindPolicy" json:"unknownKindPolicy" validate:"oneof=strict tolerant"`
}

// NamingParams returns the naming keys in the raw map form accepted by the
// descriptor validator.
func (c *Config) NamingParams() map[string]any {
	return map[string]any{
		"resourcesPrefix": c.ResourcesPrefix,
		"resourcesSuffix": c.ResourcesSuffix,
		"stage":           c.Stage,
	}
}

// Keys lists the configuration keys in display order.
func Keys() []string {
	return []string{
		keyResourcesPrefix,
		keyResourcesSuffix,
		keyStage,
		keyStateMachinesDirectory,
		keyTasksDirectory,
		keyFunctionNamespace,
		keyUnknownKindPolicy,
	}
}

// Value returns the value of a configuration key, or "" for an unknown key.
func (c *Config) Value(key string) string {
	switch key {
	case keyResourcesPrefix:
		return c.ResourcesPrefix
	case keyResourcesSuffix:
		return c.ResourcesSuffix
	case keyStage:
		return c.Stage
	case keyStateMachinesDirectory:
		return c.StateMachinesDirectory
	case keyTasksDirectory:
		return c.TasksDirectory
	case keyFunctionNamespace:
		return c.FunctionNamespace
	case keyUnknownKindPolicy:
		return c.UnknownKindPolicy
	default:
		return ""
	}
}
