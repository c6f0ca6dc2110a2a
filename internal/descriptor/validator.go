// Package descriptor converts raw key/value maps read from task files into
// typed, defaulted descriptors, rejecting malformed input with a
// ValidationError that names the offending field and rule.
package descriptor

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// legacyTaskKeys maps field names used by older task files onto current names.
// A legacy key is only honored when the current key is absent.
//
//nolint:gochecknoglobals // Immutable lookup table
var legacyTaskKeys = map[string]string{
	"taskName":                   "name",
	"taskType":                   "kind",
	"iamRolePolicyStatements":    "accessPolicyStatements",
	"iamRoleStatements":          "accessPolicyStatements",
	"ecrRepositoryKeepMaxImages": "repositoryKeepMaxImages",
}

type taskFields struct {
	Name string `mapstructure:"name" validate:"required,max=32,alphanum"`
	Kind string `mapstructure:"kind" validate:"required"`
}

type containerFields struct {
	CPU                     int `mapstructure:"cpu" validate:"required,gt=0"`
	Memory                  int `mapstructure:"memory" validate:"required,gt=0"`
	EphemeralStorage        int `mapstructure:"ephemeralStorage" validate:"gte=21,lte=200"`
	RepositoryKeepMaxImages int `mapstructure:"repositoryKeepMaxImages" validate:"gte=1"`
}

type functionFields struct {
	FunctionDefinition map[string]any `mapstructure:"functionDefinition" validate:"required"`
}

type namingFields struct {
	Stage  string `mapstructure:"stage"`
	Prefix string `mapstructure:"resourcesPrefix" validate:"required,max=17,alphanum"`
	Suffix string `mapstructure:"resourcesSuffix"`
}

// Validator turns raw maps into typed descriptors.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator whose errors report fields by their
// file key names (e.g. "cpu") instead of Go field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Task validates a raw task map and returns a defaulted descriptor.
// The first violated rule is reported; raw is not modified.
func (v *Validator) Task(raw map[string]any) (*domain.TaskDescriptor, error) {
	raw = normalizeLegacyKeys(raw)

	var head taskFields
	if err := decodeFields(raw, &head, "name", "kind"); err != nil {
		return nil, err
	}
	if err := v.check(&head); err != nil {
		return nil, err
	}

	kind, err := domain.ParseKind(head.Kind)
	if err != nil {
		return nil, fserrors.NewValidationError("kind", "kind", domain.SupportedKindsString(), head.Kind)
	}

	statements := []map[string]any{}
	if err := decodeField(raw, "accessPolicyStatements", &statements); err != nil {
		return nil, err
	}
	if statements == nil {
		statements = []map[string]any{}
	}

	desc := &domain.TaskDescriptor{
		Name:                   head.Name,
		Kind:                   kind,
		AccessPolicyStatements: statements,
	}

	switch kind {
	case domain.KindContainer:
		spec, err := v.container(raw)
		if err != nil {
			return nil, err
		}
		desc.Container = spec
	case domain.KindFunction:
		spec, err := v.function(raw)
		if err != nil {
			return nil, err
		}
		desc.Function = spec
	}

	return desc, nil
}

func (v *Validator) container(raw map[string]any) (*domain.ContainerSpec, error) {
	fields := containerFields{
		EphemeralStorage:        constants.DefaultEphemeralStorage,
		RepositoryKeepMaxImages: constants.DefaultRepositoryKeepMaxImages,
	}
	if err := decodeFields(raw, &fields, "cpu", "memory", "ephemeralStorage", "repositoryKeepMaxImages"); err != nil {
		return nil, err
	}
	if err := v.check(&fields); err != nil {
		return nil, err
	}
	return &domain.ContainerSpec{
		CPU:                     fields.CPU,
		Memory:                  fields.Memory,
		EphemeralStorage:        fields.EphemeralStorage,
		RepositoryKeepMaxImages: fields.RepositoryKeepMaxImages,
	}, nil
}

func (v *Validator) function(raw map[string]any) (*domain.FunctionSpec, error) {
	var fields functionFields
	if err := decodeFields(raw, &fields, "functionDefinition"); err != nil {
		return nil, err
	}
	if err := v.check(&fields); err != nil {
		return nil, err
	}
	return &domain.FunctionSpec{Definition: fields.FunctionDefinition}, nil
}

// Naming validates raw naming parameters, defaulting the prefix and deriving
// the suffix from the stage when it is unset.
func (v *Validator) Naming(raw map[string]any) (domain.NamingParameters, error) {
	fields := namingFields{Prefix: constants.DefaultResourcesPrefix}
	if err := decodeFields(raw, &fields, "stage", "resourcesPrefix", "resourcesSuffix"); err != nil {
		return domain.NamingParameters{}, err
	}
	if err := v.check(&fields); err != nil {
		return domain.NamingParameters{}, err
	}
	return domain.NamingParameters{
		Stage:  fields.Stage,
		Prefix: fields.Prefix,
		Suffix: fields.Suffix,
	}.Resolve(), nil
}

// check runs struct validation and converts the first failure.
func (v *Validator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fserrors.NewValidationError(fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fserrors.Wrap(err, "validate descriptor")
}

// decodeFields decodes the named keys of raw into the matching fields of out.
// Keys are decoded one at a time so a coercion failure names its field.
// Absent or null keys leave the pre-set default in place.
func decodeFields(raw map[string]any, out any, keys ...string) error {
	rv := reflect.ValueOf(out).Elem()
	rt := rv.Type()
	for _, key := range keys {
		for i := range rt.NumField() {
			name, _, _ := strings.Cut(rt.Field(i).Tag.Get("mapstructure"), ",")
			if name != key {
				continue
			}
			if err := decodeField(raw, key, rv.Field(i).Addr().Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeField weakly decodes raw[key] into out, so "256" becomes 256.
func decodeField(raw map[string]any, key string, out any) error {
	val, ok := raw[key]
	if !ok || val == nil {
		return nil
	}
	if _, isInt := out.(*int); isInt && !integral(val) {
		return fserrors.NewValidationError(key, "type", typeName(out), val)
	}
	if err := mapstructure.WeakDecode(val, out); err != nil {
		return fserrors.NewValidationError(key, "type", typeName(out), val)
	}
	return nil
}

// integral reports whether a float value has no fractional part. Other
// values are left to the decoder.
func integral(val any) bool {
	switch f := val.(type) {
	case float64:
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	case float32:
		return integral(float64(f))
	default:
		return true
	}
}

func typeName(ptr any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", ptr), "*")
}

// normalizeLegacyKeys returns a shallow copy of raw with legacy keys renamed.
func normalizeLegacyKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		out[k] = val
	}
	legacy := make([]string, 0, len(legacyTaskKeys))
	for k := range legacyTaskKeys {
		legacy = append(legacy, k)
	}
	slices.Sort(legacy)
	for _, old := range legacy {
		val, ok := raw[old]
		if !ok {
			continue
		}
		current := legacyTaskKeys[old]
		if _, exists := out[current]; !exists {
			out[current] = val
		}
		delete(out, old)
	}
	return out
}
