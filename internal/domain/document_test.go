package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundle_Names_Sorted(t *testing.T) {
	b := Bundle{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, b.Names())
}

func TestMergeBundles_LastWriteWins(t *testing.T) {
	first := Bundle{"FooTaskRole": {"Type": "first"}, "FooTaskDefinition": {"Type": "def"}}
	second := Bundle{"FooTaskRole": {"Type": "second"}}

	merged := MergeBundles(nil, first)
	merged = MergeBundles(merged, second)

	assert.Len(t, merged, 2)
	assert.Equal(t, "second", merged["FooTaskRole"]["Type"])
	assert.Equal(t, "def", merged["FooTaskDefinition"]["Type"])
}
