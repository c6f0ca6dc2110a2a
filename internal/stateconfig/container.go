package stateconfig

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// containerStep runs the task's definition synchronously on the shared cluster.
func containerStep(name string, env, network any) (domain.Document, error) {
	environment, err := environmentPairs(env)
	if err != nil {
		return nil, err
	}
	awsvpc, err := networkConfiguration(network)
	if err != nil {
		return nil, err
	}

	return domain.Document{
		"Type":     constants.StepTypeTask,
		"Resource": constants.RunTaskSyncResource,
		"Parameters": map[string]any{
			"Cluster":        document.Ref(constants.ClusterLogicalID),
			"TaskDefinition": document.Ref(name + constants.TaskDefinitionSuffix),
			"LaunchType":     constants.LaunchTypeFargate,
			"Overrides": map[string]any{
				"ContainerOverrides": []any{
					map[string]any{
						"Name":        constants.ContainerName,
						"Environment": environment,
					},
				},
			},
			"NetworkConfiguration": map[string]any{
				"AwsvpcConfiguration": awsvpc,
			},
		},
	}, nil
}

// environmentPairs projects the Environment map into a Name/Value list,
// sorted by variable name. Names are upper-cased; a value that reads from
// workflow input marks its name with the dynamic key suffix.
func environmentPairs(env any) ([]any, error) {
	if env == nil {
		return []any{}, nil
	}
	vars, ok := document.AsMap(env)
	if !ok {
		return nil, fserrors.NewValidationError(constants.OverrideKeyEnvironment, "map", "", env)
	}

	upper := cases.Upper(language.Und)
	pairs := make([]any, 0, len(vars))
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		value, err := environmentValue(key, vars[key])
		if err != nil {
			return nil, err
		}
		envName := upper.String(key)
		if strings.Contains(value, constants.DynamicReferenceMarker) {
			envName += constants.DynamicKeySuffix
		}
		pairs = append(pairs, map[string]any{
			"Name":  envName,
			"Value": value,
		})
	}
	return pairs, nil
}

// environmentValue renders one scalar variable as a string. Null becomes the
// empty string; maps and sequences are rejected.
func environmentValue(key string, value any) (string, error) {
	field := constants.OverrideKeyEnvironment + "." + key
	switch value.(type) {
	case map[string]any, map[any]any, []any:
		return "", fserrors.NewValidationError(field, "scalar", "", value)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fserrors.NewValidationError(field, "scalar", "", value)
	}
	return s, nil
}

// networkConfiguration builds the awsvpc block from the Network map.
func networkConfiguration(network any) (map[string]any, error) {
	cfg := map[string]any{}
	if network != nil {
		m, ok := document.AsMap(network)
		if !ok {
			return nil, fserrors.NewValidationError(constants.OverrideKeyNetwork, "map", "", network)
		}
		cfg = m
	}

	publicIP := constants.PublicIPDisabled
	if truthy(cfg["PublicIp"]) {
		publicIP = constants.PublicIPEnabled
	}

	return map[string]any{
		"AssignPublicIp": publicIP,
		"Subnets":        listOrEmpty(cfg["Subnets"]),
		"SecurityGroups": listOrEmpty(cfg["SecurityGroups"]),
	}, nil
}

func listOrEmpty(v any) any {
	if v == nil {
		return []any{}
	}
	return document.CloneValue(v)
}

// truthy reads the PublicIp flag. Booleans count as themselves and numbers
// when non-zero. Strings count when strconv.ParseBool accepts them as true
// or when they read "yes", "y" or "on" in any case. Anything else is false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "y", "on":
			return true
		}
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		f, err := cast.ToFloat64E(v)
		return err == nil && f != 0
	}
}
