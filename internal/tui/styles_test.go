package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/flowsynth/internal/domain"
)

func TestHasColorSupport(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport(), "NO_COLOR disables color even when empty")
}

func TestHasColorSupport_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestKindIcon(t *testing.T) {
	assert.Equal(t, "▣", KindIcon(domain.KindContainer))
	assert.Equal(t, "λ", KindIcon(domain.KindFunction))
	assert.Equal(t, "?", KindIcon(domain.Kind("BATCH")))
}

func TestKindColor(t *testing.T) {
	assert.Equal(t, ColorPrimary, KindColor(domain.KindContainer))
	assert.Equal(t, ColorSuccess, KindColor(domain.KindFunction))
	assert.Equal(t, ColorMuted, KindColor(domain.Kind("")))
}

func TestRenderKind(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()
	assert.Contains(t, RenderKind(domain.KindFunction), "λ FUNCTION")
}
