package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

func TestSynth_YAML(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "synth")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	resources := doc["resources"].(map[string]any)
	assert.Contains(t, resources, "ServerlessFlowEcsCluster")
	assert.Contains(t, resources, "WorkerTaskDefinition")
	assert.Contains(t, resources, "NotifyTaskRole")
	assert.Contains(t, doc["functions"], "Notify")
	assert.Contains(t, doc["stateMachines"], "MainFlow")
}

func TestSynth_JSONWithStage(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "synth", "--output", "json", "--stage", "prod")
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	repo := doc["resources"]["WorkerTaskEcrRepository"].(map[string]any)
	props := repo["Properties"].(map[string]any)
	assert.Equal(t, "serverlessflow_worker_prod", props["RepositoryName"])
}

func TestSynth_OutFile(t *testing.T) {
	dir := setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "synth", "--out", "build/flow.json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 7 resources, 1 functions, 1 state machines to build/flow.json")

	data, err := os.ReadFile(filepath.Join(dir, "build", "flow.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "stateMachines")
}

func TestSynth_ProjectConfig(t *testing.T) {
	files := defaultProjectFiles()
	files[".flowsynth/config.yaml"] = "resourcesPrefix: Acme\ntasksDirectory: ./unrelated\nunknownKindPolicy: tolerant\nstateMachinesDirectory: ./none\n"
	setupProject(t, files)

	stdout, _, err := runCLI(t, "synth", "--output", "json")
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	// the BATCH task is skipped and only the base resources remain
	assert.Len(t, doc["resources"], 3)
	assert.Empty(t, doc["stateMachines"])
}

func TestSynth_UnknownReference(t *testing.T) {
	files := defaultProjectFiles()
	files["stateMachines/broken.sf.yml"] = "Broken: ServerlessFlow.Task({Name: Ghost})\n"
	setupProject(t, files)

	_, _, err := runCLI(t, "synth")
	require.ErrorIs(t, err, fserrors.ErrTaskNotFound)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestSynth_InvalidPrefixFlag(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	_, _, err := runCLI(t, "synth", "--prefix", "not-valid")
	require.ErrorIs(t, err, fserrors.ErrConfigInvalidNaming)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestValidate_Success(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "TASK")
	assert.Contains(t, stdout, "Worker")
	assert.Contains(t, stdout, "λ FUNCTION")
	assert.Contains(t, stdout, filepath.Join("tasks", "notify", "notify.task.yml"))
	assert.Contains(t, stdout, "2 tasks and 1 state machines are valid")
}

func TestValidate_JSON(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "validate", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"KIND":"CONTAINER"`)
	assert.Contains(t, stdout, `"type":"success"`)
}

func TestValidate_InvalidTask(t *testing.T) {
	files := defaultProjectFiles()
	files["tasks/bad.task.yml"] = "name: Bad\nkind: CONTAINER\ncpu: 256\n"
	setupProject(t, files)

	_, _, err := runCLI(t, "validate")
	require.ErrorIs(t, err, fserrors.ErrValidation)
	assert.Contains(t, err.Error(), "memory")
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestValidate_KindPolicyFlag(t *testing.T) {
	files := defaultProjectFiles()
	files["tasks/batch.task.yml"] = "name: Batch\nkind: BATCH\n"
	setupProject(t, files)

	_, _, err := runCLI(t, "validate")
	require.ErrorIs(t, err, fserrors.ErrUnsupportedKind)

	stdout, _, err := runCLI(t, "validate", "--kind-policy", "TOLERANT")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 tasks")
}

func TestResolve(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "resolve", "stateMachines/main.sf.yml", "-o", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	states := doc["MainFlow"].(map[string]any)["definition"].(map[string]any)["States"].(map[string]any)
	run := states["Run"].(map[string]any)
	assert.Equal(t, "Tell", run["Next"])
	assert.Equal(t, "Task", run["Type"])
}

func TestResolve_RequiresOneArg(t *testing.T) {
	setupProject(t, nil)

	_, _, err := runCLI(t, "resolve")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestResolve_MissingFile(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	_, _, err := runCLI(t, "resolve", "nope.sf.yml")
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

func TestImages_Table(t *testing.T) {
	setupProject(t, defaultProjectFiles())

	stdout, _, err := runCLI(t, "images", "--account", "123456789012", "--region", "eu-west-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "serverlessflow_worker_dev")
	assert.Contains(t, stdout, "123456789012.dkr.ecr.eu-west-1.amazonaws.com/serverlessflow_worker_dev:latest")
	assert.NotContains(t, stdout, "pass --account")
}

func TestImages_NoContainerTasks(t *testing.T) {
	setupProject(t, map[string]string{"tasks/notify.task.yml": testNotifyTask})

	stdout, _, err := runCLI(t, "images")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no container tasks found")
}

func TestConfigShow(t *testing.T) {
	setupProject(t, map[string]string{".flowsynth/config.yaml": "stage: qa\n"})
	t.Setenv("FLOWSYNTH_FUNCTION_NAMESPACE", "Acme")

	stdout, _, err := runCLI(t, "config", "show", "--prefix", "Flag", "-o", "json")
	require.NoError(t, err)

	var values []ConfigValueWithSource
	require.NoError(t, json.Unmarshal([]byte(stdout), &values))
	got := make(map[string]ConfigValueWithSource, len(values))
	for _, v := range values {
		got[v.Key] = v
	}
	assert.Equal(t, ConfigValueWithSource{Key: "resourcesPrefix", Value: "Flag", Source: SourceFlag}, got["resourcesPrefix"])
	assert.Equal(t, ConfigValueWithSource{Key: "functionNamespace", Value: "Acme", Source: SourceEnv}, got["functionNamespace"])
	assert.Equal(t, ConfigValueWithSource{Key: "stage", Value: "qa", Source: SourceProject}, got["stage"])
	assert.Equal(t, SourceDefault, got["tasksDirectory"].Source)
}

func TestConfigShow_Text(t *testing.T) {
	setupProject(t, nil)

	stdout, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Effective flowsynth configuration")
	assert.Contains(t, stdout, `resourcesPrefix: "ServerlessFlow"`)
	assert.Contains(t, stdout, "# default")
	assert.Contains(t, stdout, "naming: prefix=ServerlessFlow suffix=-dev")
}
