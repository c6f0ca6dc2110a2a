package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, FormatJSON))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, FormatText))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, ""))
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, IsValidFormat("text"))
	assert.True(t, IsValidFormat("json"))
	assert.False(t, IsValidFormat("yaml"))
	assert.False(t, IsValidFormat(""))
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("done")
	out.Warning("careful")
	out.Info("note")

	text := buf.String()
	assert.Contains(t, text, "✓ done")
	assert.Contains(t, text, "⚠ careful")
	assert.Contains(t, text, "ℹ note")
}

func TestTTYOutput_ErrorWithAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Error(fmt.Errorf("state machine file a.sf.yml: %w", &fserrors.ReferenceError{TaskName: "Ghost", Err: fserrors.ErrTaskNotFound}))

	text := buf.String()
	assert.Contains(t, text, "✗ state machine file a.sf.yml")
	assert.Contains(t, text, "▸ Try: Check the task name spelling")
}

func TestTTYOutput_ErrorUnknown(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Error(fmt.Errorf("disk on fire"))
	assert.Contains(t, buf.String(), "✗ disk on fire")
	assert.NotContains(t, buf.String(), "Try:")
}

func TestTTYOutput_Table(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Table([]string{"NAME", "KIND"}, [][]string{
		{"Worker", "CONTAINER"},
		{"Notify"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME    KIND", lines[0])
	assert.Equal(t, "Worker  CONTAINER", lines[1])
	assert.Equal(t, "Notify", lines[2])
}

func TestTTYOutput_TableTruncatesToWidth(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.width = 12

	out.Table([]string{"A", "B"}, [][]string{{"x", "abcdefghijklmnop"}})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "x  abcdefgh…", lines[1])
}

func TestTTYOutput_Document(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	require.NoError(t, out.Document(map[string]any{
		"b": []any{1, 2},
		"a": map[string]any{"Ref": "X"},
	}))
	assert.Equal(t, "a:\n  Ref: X\nb:\n  - 1\n  - 2\n", buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("ok")
	out.Warning("hmm")
	out.Info("fyi")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &msg))
	assert.Equal(t, map[string]string{"type": "warning", "message": "hmm"}, msg)
}

func TestJSONOutput_Error(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Error(fmt.Errorf("task file x: %w", fserrors.ErrTaskDuplicate))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got["type"])
	assert.Equal(t, "task file x: task already registered", got["message"])
	assert.Equal(t, "Two task files declare the same task name.", got["details"])
	assert.NotEmpty(t, got["suggestion"])
}

func TestJSONOutput_ErrorUnknown(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Error(fmt.Errorf("plain"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{"type": "error", "message": "plain"}, got)
}

func TestJSONOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"NAME", "KIND"}, [][]string{{"Worker", "CONTAINER"}, {"Notify"}})

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{
		{"NAME": "Worker", "KIND": "CONTAINER"},
		{"NAME": "Notify", "KIND": ""},
	}, got)
}

func TestJSONOutput_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput(&buf).Document(map[string]any{"a": 1}))
	assert.JSONEq(t, `{"a": 1}`, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "…", truncate("abcdef", 1))
	assert.Equal(t, "abc", truncate("abc", 0))
}
