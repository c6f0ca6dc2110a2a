// Package stateconfig resolves one workflow step for a registered task by
// deep-merging a kind-specific skeleton with the author's override map.
package stateconfig

import (
	"fmt"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// ResolveStep returns the workflow step document for desc with override
// merged on top. The override is not modified; its reserved Name key is
// dropped, and for container tasks its Environment and Network keys are
// projected into the skeleton instead of being merged verbatim.
func ResolveStep(desc *domain.TaskDescriptor, override map[string]any) (domain.Document, error) {
	if desc == nil {
		return nil, fserrors.ErrTaskNil
	}

	rest := make(map[string]any, len(override))
	for k, v := range override {
		rest[k] = v
	}
	delete(rest, constants.OverrideKeyName)

	var skeleton domain.Document
	switch desc.Kind {
	case domain.KindContainer:
		env := rest[constants.OverrideKeyEnvironment]
		network := rest[constants.OverrideKeyNetwork]
		delete(rest, constants.OverrideKeyEnvironment)
		delete(rest, constants.OverrideKeyNetwork)

		var err error
		skeleton, err = containerStep(desc.Name, env, network)
		if err != nil {
			return nil, fserrors.Wrapf(err, "task %s", desc.Name)
		}
	case domain.KindFunction:
		skeleton = functionStep(desc.Name)
	default:
		return nil, fmt.Errorf("%w: %q for task %s, must be one of: %s",
			fserrors.ErrUnsupportedKind, desc.Kind, desc.Name, domain.SupportedKindsString())
	}

	return document.Merge(skeleton, rest), nil
}

// functionStep invokes the function declared for the task.
func functionStep(name string) domain.Document {
	return domain.Document{
		"Type":     constants.StepTypeTask,
		"Resource": document.GetAtt(name+constants.LambdaFunctionSuffix, "Arn"),
	}
}
