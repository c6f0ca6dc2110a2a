package resources

import (
	"fmt"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// Task returns the resource bundle for one task, dispatched by kind.
//
// An unsupported kind fails with ErrUnsupportedKind under KindPolicyStrict
// and yields an empty bundle under KindPolicyTolerant.
//
// Resource names are derived from the task name alone, so two descriptors
// sharing a name produce colliding bundles. That is not checked here; the
// registry rejects duplicate names before generation.
func Task(naming domain.NamingParameters, desc *domain.TaskDescriptor, policy domain.KindPolicy) (domain.Bundle, error) {
	if desc == nil {
		return nil, fserrors.ErrTaskNil
	}

	switch desc.Kind {
	case domain.KindContainer:
		return containerResources(naming, desc)
	case domain.KindFunction:
		return functionResources(naming, desc), nil
	default:
		if policy == domain.KindPolicyTolerant {
			return domain.Bundle{}, nil
		}
		return nil, fmt.Errorf("%w: %q for task %s, must be one of: %s",
			fserrors.ErrUnsupportedKind, desc.Kind, desc.Name, domain.SupportedKindsString())
	}
}

// taskRole builds the per-task role trusted by principals. The inline policy
// is omitted (empty list) when there are no statements.
func taskRole(naming domain.NamingParameters, name string, statements []any, principals ...string) domain.Document {
	policies := []any{}
	if len(statements) > 0 {
		policies = append(policies, inlinePolicy(naming.Physical(name, "TaskPolicy"), statements))
	}

	return domain.Document{
		"Type": constants.TypeIAMRole,
		"Properties": map[string]any{
			"RoleName":                 naming.Physical(name, constants.TaskRoleSuffix),
			"AssumeRolePolicyDocument": trustPolicy(principals...),
			"Policies":                 policies,
		},
	}
}

// statementsOf copies the descriptor's statements, preserving order.
func statementsOf(desc *domain.TaskDescriptor) []any {
	out := make([]any, 0, len(desc.AccessPolicyStatements))
	for _, s := range desc.AccessPolicyStatements {
		out = append(out, document.CloneMap(s))
	}
	return out
}
