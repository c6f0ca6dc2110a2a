package domain

import "strings"

// NamingParameters shape every generated physical resource name.
// It is an immutable value object; Resolve returns a copy.
type NamingParameters struct {
	// Stage is the deployment stage (e.g. "dev").
	Stage string `json:"stage" yaml:"stage"`

	// Prefix is alphanumeric and at most 17 characters.
	Prefix string `json:"resourcesPrefix" yaml:"resourcesPrefix"`

	// Suffix is free text appended to names; empty means "-<stage>".
	Suffix string `json:"resourcesSuffix" yaml:"resourcesSuffix"`
}

// Resolve fills the stage-derived suffix when Suffix is unset.
func (n NamingParameters) Resolve() NamingParameters {
	if n.Suffix == "" && n.Stage != "" {
		n.Suffix = "-" + n.Stage
	}
	return n
}

// Physical joins the prefix, middle parts and suffix: Prefix + parts... + Suffix.
func (n NamingParameters) Physical(parts ...string) string {
	var b strings.Builder
	b.WriteString(n.Prefix)
	for _, p := range parts {
		b.WriteString(p)
	}
	b.WriteString(n.Suffix)
	return b.String()
}

// RepositoryName derives the container repository name for a task:
// lower-cased "<prefix>_<task>_<suffix>" with the first dash removed, so the
// conventional "-<stage>" suffix becomes "_<stage>".
func (n NamingParameters) RepositoryName(taskName string) string {
	name := strings.ToLower(n.Prefix + "_" + taskName + "_" + n.Suffix)
	return strings.Replace(name, "-", "", 1)
}
