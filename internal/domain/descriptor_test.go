package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskDescriptor_Clone_Nil(t *testing.T) {
	var d *TaskDescriptor
	assert.Nil(t, d.Clone())
}

func TestTaskDescriptor_Clone_IsDeep(t *testing.T) {
	orig := &TaskDescriptor{
		Name: "Worker",
		Kind: KindFunction,
		AccessPolicyStatements: []map[string]any{
			{"Effect": "Allow", "Action": []any{"s3:GetObject"}},
		},
		Function: &FunctionSpec{Definition: map[string]any{
			"handler": "src/handler.main",
			"environment": map[string]any{
				"TABLE": "jobs",
			},
		}},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.AccessPolicyStatements[0]["Effect"] = "Deny"
	clone.Function.Definition["environment"].(map[string]any)["TABLE"] = "other"

	assert.Equal(t, "Allow", orig.AccessPolicyStatements[0]["Effect"])
	assert.Equal(t, "jobs", orig.Function.Definition["environment"].(map[string]any)["TABLE"])
}

func TestTaskDescriptor_Clone_Container(t *testing.T) {
	orig := &TaskDescriptor{
		Name:      "Worker",
		Kind:      KindContainer,
		Container: &ContainerSpec{CPU: 256, Memory: 512},
	}

	clone := orig.Clone()
	clone.Container.CPU = 1024

	assert.Equal(t, 256, orig.Container.CPU)
	assert.Nil(t, clone.Function)
}
