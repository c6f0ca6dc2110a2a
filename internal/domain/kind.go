// Package domain provides shared domain types for flowsynth: task descriptors,
// naming parameters and the opaque resource documents produced from them.
package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// Kind is the closed set of task kinds the engine knows how to synthesize.
type Kind string

const (
	// KindContainer is a task run as a Fargate container.
	KindContainer Kind = "CONTAINER"

	// KindFunction is a task run as a serverless function.
	KindFunction Kind = "FUNCTION"
)

// kindAliases maps legacy kind names onto their canonical kind.
//
//nolint:gochecknoglobals // Immutable lookup table
var kindAliases = map[string]Kind{
	"ECS":    KindContainer,
	"LAMBDA": KindFunction,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// SupportedKinds returns the supported kinds in a stable order.
func SupportedKinds() []Kind {
	return []Kind{KindContainer, KindFunction}
}

// IsSupported reports whether k is one of SupportedKinds.
func (k Kind) IsSupported() bool {
	for _, s := range SupportedKinds() {
		if k == s {
			return true
		}
	}
	return false
}

// SupportedKindsString returns a comma-separated list of supported kinds.
func SupportedKindsString() string {
	kinds := SupportedKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// ParseKind upper-cases s and matches it against the supported kinds and
// their legacy aliases.
func ParseKind(s string) (Kind, error) {
	normalized := cases.Upper(language.Und).String(strings.TrimSpace(s))
	if alias, ok := kindAliases[normalized]; ok {
		return alias, nil
	}
	k := Kind(normalized)
	if !k.IsSupported() {
		return "", fmt.Errorf("%w: %q, must be one of: %s", fserrors.ErrUnsupportedKind, s, SupportedKindsString())
	}
	return k, nil
}

// KindPolicy selects what a generator does when handed a kind it cannot build.
type KindPolicy string

const (
	// KindPolicyStrict fails with ErrUnsupportedKind.
	KindPolicyStrict KindPolicy = "strict"

	// KindPolicyTolerant returns an empty result.
	KindPolicyTolerant KindPolicy = "tolerant"
)

// ParseKindPolicy converts a configuration string to a KindPolicy (case-insensitive).
func ParseKindPolicy(s string) (KindPolicy, error) {
	switch p := KindPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case KindPolicyStrict, KindPolicyTolerant:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q must be one of: strict, tolerant", fserrors.ErrConfigInvalidPolicy, s)
	}
}
