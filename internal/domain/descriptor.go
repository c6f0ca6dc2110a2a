package domain

import "github.com/mohae/deepcopy"

// TaskDescriptor is the validated, defaulted form of one task file.
// Exactly one of Container or Function is set, matching Kind.
type TaskDescriptor struct {
	// Name is alphanumeric and at most 32 characters; it is spliced unmodified
	// into logical resource IDs.
	Name string `json:"name" yaml:"name"`

	// Kind selects the generator.
	Kind Kind `json:"kind" yaml:"kind"`

	// AccessPolicyStatements are appended, in order, to the task role's policy.
	AccessPolicyStatements []map[string]any `json:"accessPolicyStatements" yaml:"accessPolicyStatements"`

	// Container holds container sizing when Kind is KindContainer.
	Container *ContainerSpec `json:"container,omitempty" yaml:"container,omitempty"`

	// Function holds the embedded function definition when Kind is KindFunction.
	Function *FunctionSpec `json:"function,omitempty" yaml:"function,omitempty"`

	// Source is the file the descriptor was read from, empty for in-memory descriptors.
	Source string `json:"-" yaml:"-"`
}

// ContainerSpec carries container-task sizing.
type ContainerSpec struct {
	CPU                     int `json:"cpu" yaml:"cpu"`
	Memory                  int `json:"memory" yaml:"memory"`
	EphemeralStorage        int `json:"ephemeralStorage" yaml:"ephemeralStorage"`
	RepositoryKeepMaxImages int `json:"repositoryKeepMaxImages" yaml:"repositoryKeepMaxImages"`
}

// FunctionSpec carries the author's function definition document.
type FunctionSpec struct {
	Definition map[string]any `json:"definition" yaml:"definition"`
}

// Clone returns a deep copy so callers can never mutate a registered descriptor.
func (t *TaskDescriptor) Clone() *TaskDescriptor {
	if t == nil {
		return nil
	}
	out := &TaskDescriptor{
		Name:   t.Name,
		Kind:   t.Kind,
		Source: t.Source,
	}
	if t.AccessPolicyStatements != nil {
		out.AccessPolicyStatements = make([]map[string]any, len(t.AccessPolicyStatements))
		for i, s := range t.AccessPolicyStatements {
			out.AccessPolicyStatements[i] = deepcopy.Copy(s).(map[string]any) //nolint:errcheck,forcetypeassert // Copy preserves type
		}
	}
	if t.Container != nil {
		c := *t.Container
		out.Container = &c
	}
	if t.Function != nil {
		out.Function = &FunctionSpec{}
		if t.Function.Definition != nil {
			out.Function.Definition = deepcopy.Copy(t.Function.Definition).(map[string]any) //nolint:errcheck,forcetypeassert // Copy preserves type
		}
	}
	return out
}
