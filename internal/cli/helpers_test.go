package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testWorkerTask = `name: Worker
kind: CONTAINER
cpu: 256
memory: 512
`
	testNotifyTask = `name: Notify
kind: FUNCTION
functionDefinition:
  handler: src/notify.handler
`
	testMainFlow = `MainFlow:
  definition:
    StartAt: Run
    States:
      Run: ServerlessFlow.Task({Name: Worker, Next: Tell})
      Tell: ServerlessFlow.Task({Name: Notify, End: true})
`
)

// setupProject creates a project in a temp dir, makes it the working
// directory and points HOME at an empty temp dir.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLOWSYNTH_HOME", "")
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	t.Chdir(dir)
	return dir
}

func defaultProjectFiles() map[string]string {
	return map[string]string{
		"tasks/worker/worker.task.yml":   testWorkerTask,
		"tasks/worker/Dockerfile":        "FROM alpine\n",
		"tasks/notify/notify.task.yml":   testNotifyTask,
		"stateMachines/main.sf.yml":      testMainFlow,
		"stateMachines/README.md":        "ignored",
		"unrelated/other.task.yml":       "name: Other\nkind: BATCH\n",
		"unrelated/nested/plain.sf.yaml": "Plain: {}\n",
	}
}

// runCLI executes the root command with args and returns stdout, stderr
// and the command error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(CloseLogFile)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, &ProjectFlags{}, BuildInfo{Version: "test"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
