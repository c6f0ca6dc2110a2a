package descriptor

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// Loader reads task files from a filesystem and validates them.
type Loader struct {
	fs        afero.Fs
	validator *Validator
}

// NewLoader creates a Loader over fs. A nil validator gets a fresh one.
func NewLoader(fs afero.Fs, v *Validator) *Loader {
	if v == nil {
		v = NewValidator()
	}
	return &Loader{fs: fs, validator: v}
}

// LoadFile reads, parses and validates the task file at path.
// The returned descriptor records path as its Source.
func (l *Loader) LoadFile(path string) (*domain.TaskDescriptor, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fserrors.Wrapf(err, "read task file %s", path)
	}

	raw, err := Parse(data)
	if err != nil {
		return nil, fserrors.Wrapf(err, "task file %s", path)
	}

	desc, err := l.validator.Task(raw)
	if err != nil {
		return nil, fserrors.Wrapf(err, "task file %s", path)
	}
	desc.Source = path
	return desc, nil
}

// Parse decodes YAML task text into a raw map. Empty text yields an empty map.
func Parse(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &fserrors.SyntaxError{Snippet: snippet(data), Err: fmt.Errorf("parse task YAML: %w", err)}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func snippet(data []byte) string {
	const maxSnippet = 40
	if len(data) > maxSnippet {
		return string(data[:maxSnippet])
	}
	return string(data)
}
