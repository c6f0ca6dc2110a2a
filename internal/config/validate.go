package config

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrz1836/flowsynth/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - resourcesPrefix is required, alphanumeric, at most 17 characters
//   - stage and functionNamespace are required
//   - tasksDirectory and stateMachinesDirectory must not be empty
//   - unknownKindPolicy must be "strict" or "tolerant"
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	err := newStructValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "validate config")
	}
	fe := fieldErrs[0]
	return errors.Wrapf(sentinelFor(fe.Field()),
		"%s must satisfy %q, got %q", fe.Field(), ruleOf(fe), fe.Value())
}

// newStructValidator reports field names by their configuration key.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// sentinelFor selects the sentinel error for a configuration key.
func sentinelFor(field string) error {
	switch field {
	case keyUnknownKindPolicy:
		return errors.ErrConfigInvalidPolicy
	case keyTasksDirectory, keyStateMachinesDirectory:
		return errors.ErrConfigInvalidDirectory
	default:
		return errors.ErrConfigInvalidNaming
	}
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
