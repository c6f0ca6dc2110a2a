package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/flowsynth/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
// These defaults are the base layer that config files, environment
// variables, and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		ResourcesPrefix: constants.DefaultResourcesPrefix,

		// Empty so the naming layer derives "-<stage>".
		ResourcesSuffix: "",

		Stage:                  constants.DefaultStage,
		StateMachinesDirectory: constants.DefaultStateMachinesDirectory,
		TasksDirectory:         constants.DefaultTasksDirectory,
		FunctionNamespace:      constants.DefaultFunctionNamespace,
		UnknownKindPolicy:      "strict",
	}
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(keyResourcesPrefix, d.ResourcesPrefix)
	v.SetDefault(keyResourcesSuffix, d.ResourcesSuffix)
	v.SetDefault(keyStage, d.Stage)
	v.SetDefault(keyStateMachinesDirectory, d.StateMachinesDirectory)
	v.SetDefault(keyTasksDirectory, d.TasksDirectory)
	v.SetDefault(keyFunctionNamespace, d.FunctionNamespace)
	v.SetDefault(keyUnknownKindPolicy, d.UnknownKindPolicy)
}
