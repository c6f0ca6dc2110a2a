package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingParameters_Resolve_DefaultsSuffixFromStage(t *testing.T) {
	n := NamingParameters{Stage: "prod", Prefix: "Pfx"}.Resolve()
	assert.Equal(t, "-prod", n.Suffix)
}

func TestNamingParameters_Resolve_KeepsExplicitSuffix(t *testing.T) {
	n := NamingParameters{Stage: "prod", Prefix: "Pfx", Suffix: "Blue"}.Resolve()
	assert.Equal(t, "Blue", n.Suffix)
}

func TestNamingParameters_Resolve_NoStage(t *testing.T) {
	n := NamingParameters{Prefix: "Pfx"}.Resolve()
	assert.Empty(t, n.Suffix)
}

func TestNamingParameters_Physical(t *testing.T) {
	n := NamingParameters{Prefix: "Pfx", Suffix: "-dev"}
	assert.Equal(t, "PfxFooTaskRole-dev", n.Physical("Foo", "TaskRole"))
	assert.Equal(t, "Pfx-dev", n.Physical())
}

func TestNamingParameters_RepositoryName(t *testing.T) {
	n := NamingParameters{Prefix: "Pfx", Suffix: "-dev"}
	assert.Equal(t, "pfx_foo_dev", n.RepositoryName("Foo"))
}

func TestNamingParameters_RepositoryName_OnlyFirstDashRemoved(t *testing.T) {
	n := NamingParameters{Prefix: "Pfx", Suffix: "-eu-west"}
	assert.Equal(t, "pfx_foo_eu-west", n.RepositoryName("Foo"))
}
