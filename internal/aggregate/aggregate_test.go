package aggregate

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

const (
	workerTask = `name: Worker
kind: CONTAINER
cpu: 256
memory: 512
`
	notifyTask = `name: Notify
kind: FUNCTION
functionDefinition:
  handler: src/notify.handler
`
	mainFlow = `MainFlow:
  definition:
    StartAt: Run
    States:
      Run: ServerlessFlow.Task({Name: Worker, Next: Tell, Environment: {stage: ${sls:stage}}})
      Tell: ServerlessFlow.Task({Name: Notify, End: true})
`
	otherFlow = "OtherFlow:\n  definition:\n    StartAt: A\n"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func testOptions() Options {
	return Options{
		Naming:                 domain.NamingParameters{Stage: "dev", Prefix: "Pfx", Suffix: "-dev"},
		TasksDirectory:         "/proj/tasks",
		StateMachinesDirectory: "/proj/stateMachines",
	}
}

func projectFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/proj/tasks/worker/worker.task.yml":       workerTask,
		"/proj/tasks/worker/Dockerfile":            "FROM alpine\n",
		"/proj/tasks/notify/notify.task.yaml":      notifyTask,
		"/proj/tasks/README.md":                    "not a task",
		"/proj/stateMachines/main.sf.yml":          mainFlow,
		"/proj/stateMachines/nested/other.sf.yaml": otherFlow,
		"/proj/stateMachines/nested/ignored.yml":   "Ignored: {}\n",
	})
	return fs
}

func TestAggregator_Synthesize(t *testing.T) {
	result, err := New(projectFs(t), testOptions()).Synthesize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"NotifyTaskRole",
		"ServerlessFlowEcsCluster",
		"ServerlessFlowEcsExecutionRole",
		"ServerlessFlowStateMachineRole",
		"WorkerTaskDefinition",
		"WorkerTaskEcrRepository",
		"WorkerTaskRole",
	}, result.Resources.Names())

	require.Contains(t, result.Functions, "Notify")
	assert.Equal(t, "src/notify.handler", result.Functions["Notify"]["handler"])
	assert.Equal(t, "NotifyTaskRole", result.Functions["Notify"]["role"])

	assert.Contains(t, result.StateMachines, "MainFlow")
	assert.Contains(t, result.StateMachines, "OtherFlow")
	assert.NotContains(t, result.StateMachines, "Ignored")

	states := result.StateMachines["MainFlow"].(map[string]any)["definition"].(map[string]any)["States"].(map[string]any)
	run := states["Run"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "WorkerTaskDefinition"}, run["Parameters"].(map[string]any)["TaskDefinition"])
	tell := states["Tell"].(map[string]any)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"NotifyLambdaFunction", "Arn"}}, tell["Resource"])
}

func TestAggregator_MissingDirectories(t *testing.T) {
	result, err := New(afero.NewMemMapFs(), testOptions()).Synthesize(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Resources, 3)
	assert.Empty(t, result.Functions)
	assert.Empty(t, result.StateMachines)
}

func TestAggregator_LoadTasks_Duplicate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/proj/tasks/a/worker.task.yml": workerTask,
		"/proj/tasks/b/worker.task.yml": workerTask,
	})

	_, err := New(fs, testOptions()).LoadTasks(context.Background())
	require.ErrorIs(t, err, fserrors.ErrTaskDuplicate)
}

func TestAggregator_LoadTasks_JoinsEveryFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/proj/tasks/a.task.yml":    "name: bad name!\nkind: CONTAINER\n",
		"/proj/tasks/b.task.yml":    "name: NoCpu\nkind: CONTAINER\nmemory: 512\n",
		"/proj/tasks/good.task.yml": workerTask,
	})

	_, err := New(fs, testOptions()).LoadTasks(context.Background())
	require.ErrorIs(t, err, fserrors.ErrValidation)
	assert.Contains(t, err.Error(), "/proj/tasks/a.task.yml")
	assert.Contains(t, err.Error(), "/proj/tasks/b.task.yml")
	assert.NotContains(t, err.Error(), "good.task.yml")
}

func TestAggregator_LoadTasks_KindPolicy(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/proj/tasks/batch.task.yml":  "name: Batch\nkind: BATCH\n",
		"/proj/tasks/worker.task.yml": workerTask,
	})

	_, err := New(fs, testOptions()).LoadTasks(context.Background())
	require.ErrorIs(t, err, fserrors.ErrUnsupportedKind)

	opts := testOptions()
	opts.KindPolicy = domain.KindPolicyTolerant
	reg, err := New(fs, opts).LoadTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Worker"}, reg.Names())
}

func TestAggregator_StateMachines_UnknownReference(t *testing.T) {
	fs := projectFs(t)
	writeFiles(t, fs, map[string]string{
		"/proj/stateMachines/broken.sf.yml": "Broken: ServerlessFlow.Task({Name: Ghost})\n",
	})

	result, err := New(fs, testOptions()).Synthesize(context.Background())
	require.ErrorIs(t, err, fserrors.ErrTaskNotFound)
	assert.Contains(t, err.Error(), "/proj/stateMachines/broken.sf.yml")
	assert.Contains(t, err.Error(), "Ghost")
	assert.Nil(t, result)
}

func TestAggregator_StateMachines_LaterFileWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/proj/stateMachines/a.sf.yml": "Flow: {version: 1}\n",
		"/proj/stateMachines/b.sf.yml": "Flow: {version: 2}\n",
	})
	a := New(fs, testOptions())
	reg, err := a.LoadTasks(context.Background())
	require.NoError(t, err)

	machines, err := a.StateMachines(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"version": 2}, machines["Flow"])
}

func TestAggregator_CustomNamespace(t *testing.T) {
	fs := projectFs(t)
	writeFiles(t, fs, map[string]string{
		"/proj/stateMachines/main.sf.yml": "Flow: Acme.Task({Name: Notify})\n",
	})
	opts := testOptions()
	opts.FunctionNamespace = "Acme"

	result, err := New(fs, opts).Synthesize(context.Background())
	require.NoError(t, err)
	flow := result.StateMachines["Flow"].(map[string]any)
	assert.Equal(t, "Task", flow["Type"])
}

func TestAggregator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(projectFs(t), testOptions()).Synthesize(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAggregator_Images(t *testing.T) {
	targets, err := New(projectFs(t), testOptions()).Images(context.Background(), "123456789012", "us-east-1")
	require.NoError(t, err)

	require.Len(t, targets, 1)
	assert.Equal(t, ImageTarget{
		Task:          "Worker",
		Repository:    "pfx_worker_dev",
		URI:           "123456789012.dkr.ecr.us-east-1.amazonaws.com/pfx_worker_dev:latest",
		BuildContext:  "/proj/tasks/worker",
		HasDockerfile: true,
	}, targets[0])
}

func TestAggregator_Images_NoDockerfileNoURI(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/proj/tasks/worker.task.yml": workerTask})

	targets, err := New(fs, testOptions()).Images(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.False(t, targets[0].HasDockerfile)
	assert.Empty(t, targets[0].URI)
}
