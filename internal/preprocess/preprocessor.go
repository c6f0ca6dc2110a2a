// Package preprocess resolves "<Namespace>.Task({...})" calls embedded in
// workflow YAML text against the task registry, replacing each call with
// the inline JSON of the resolved workflow step before the text is parsed.
package preprocess

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
	"github.com/mrz1836/flowsynth/internal/stateconfig"
)

var (
	errUnterminatedCall = errors.New("call is missing its closing parenthesis")
	errArgumentNotMap   = errors.New("call argument must be a mapping")
)

// TaskLookup finds registered tasks by name.
// Implementations return a ReferenceError for unknown names.
type TaskLookup interface {
	Get(name string) (*domain.TaskDescriptor, error)
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithNamespace sets the identifier before ".Task(" (default "ServerlessFlow").
func WithNamespace(namespace string) Option {
	return func(p *Preprocessor) {
		if namespace != "" {
			p.namespace = namespace
		}
	}
}

// Preprocessor owns one workflow file's text. Resolve builds the resolved
// text from the original; the original is never modified.
type Preprocessor struct {
	raw       string
	namespace string
	tasks     TaskLookup

	resolved   string
	references []string
	done       bool
}

// New creates a Preprocessor for text, resolving calls against tasks.
func New(text string, tasks TaskLookup, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		raw:       text,
		namespace: constants.DefaultFunctionNamespace,
		tasks:     tasks,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve escapes bare placeholders and replaces every call with its
// resolved step. Scanning continues after each replacement, so text inside
// an inserted step is never rescanned. On error no resolved text is kept.
func (p *Preprocessor) Resolve() error {
	p.done = false
	p.resolved = ""
	p.references = nil

	text := EscapePlaceholders(p.raw)
	var refs []string

	pos := 0
	for {
		call, found, err := findCall(text, pos, p.namespace)
		if err != nil {
			return err
		}
		if !found {
			break
		}

		name, encoded, err := p.resolveCall(call)
		if err != nil {
			return err
		}
		refs = append(refs, name)

		text = text[:call.Start] + encoded + text[call.End:]
		pos = call.Start + len(encoded)
	}

	p.resolved = text
	p.references = refs
	p.done = true
	return nil
}

// resolveCall turns one call into inline step JSON, returning the task name.
func (p *Preprocessor) resolveCall(call callSpan) (string, string, error) {
	var arg any
	if err := yaml.Unmarshal([]byte(call.Arg), &arg); err != nil {
		return "", "", &fserrors.SyntaxError{Offset: call.Start, Snippet: call.Arg, Err: err}
	}
	override, ok := document.AsMap(arg)
	if !ok {
		return "", "", &fserrors.SyntaxError{Offset: call.Start, Snippet: call.Arg, Err: errArgumentNotMap}
	}

	name := taskName(override[constants.OverrideKeyName])
	if name == "" {
		return "", "", &fserrors.ReferenceError{Err: fserrors.ErrTaskNameMissing}
	}

	desc, err := p.tasks.Get(name)
	if err != nil {
		return "", "", err
	}

	step, err := stateconfig.ResolveStep(desc, override)
	if err != nil {
		return "", "", err
	}

	encoded, err := document.EncodeInline(step)
	if err != nil {
		return "", "", fmt.Errorf("encode step for task %s: %w", name, err)
	}
	return name, encoded, nil
}

// RawText returns the original, unescaped text.
func (p *Preprocessor) RawText() string {
	return p.raw
}

// Text returns the resolved text, or ErrNotResolved before a successful Resolve.
func (p *Preprocessor) Text() (string, error) {
	if !p.done {
		return "", fserrors.ErrNotResolved
	}
	return p.resolved, nil
}

// References returns the task names resolved, in call order.
func (p *Preprocessor) References() []string {
	return append([]string(nil), p.references...)
}

// Content parses the resolved text. Empty text yields an empty map.
func (p *Preprocessor) Content() (map[string]any, error) {
	if !p.done {
		return nil, fserrors.ErrNotResolved
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(p.resolved), &out); err != nil {
		return nil, &fserrors.SyntaxError{Snippet: excerpt(p.resolved, 0), Err: err}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func taskName(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	default:
		return fmt.Sprint(n)
	}
}
