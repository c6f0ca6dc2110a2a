package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

func task(name string) *domain.TaskDescriptor {
	return &domain.TaskDescriptor{
		Name:                   name,
		Kind:                   domain.KindContainer,
		AccessPolicyStatements: []map[string]any{{"Effect": "Allow"}},
		Container:              &domain.ContainerSpec{CPU: 256, Memory: 512},
	}
}

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Names())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(task("Worker")))

	got, err := r.Get("Worker")
	require.NoError(t, err)
	assert.Equal(t, "Worker", got.Name)
	assert.Equal(t, 256, got.Container.CPU)
}

func TestRegistry_Register_Nil(t *testing.T) {
	err := New().Register(nil)
	assert.ErrorIs(t, err, fserrors.ErrTaskNil)
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	err := New().Register(task("  "))
	assert.ErrorIs(t, err, fserrors.ErrValidation)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := New()
	first := task("Worker")
	first.Source = "tasks/a/worker.task.yml"
	second := task("Worker")
	second.Source = "tasks/b/worker.task.yml"

	require.NoError(t, r.Register(first))
	err := r.Register(second)
	require.ErrorIs(t, err, fserrors.ErrTaskDuplicate)
	assert.Contains(t, err.Error(), "tasks/a/worker.task.yml")
	assert.Contains(t, err.Error(), "tasks/b/worker.task.yml")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	_, err := New().Get("Missing")
	require.ErrorIs(t, err, fserrors.ErrTaskNotFound)
	require.ErrorIs(t, err, fserrors.ErrReference)

	var re *fserrors.ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Missing", re.TaskName)
}

func TestRegistry_Get_EmptyName(t *testing.T) {
	_, err := New().Get("")
	assert.ErrorIs(t, err, fserrors.ErrTaskNameMissing)
}

func TestRegistry_Isolation(t *testing.T) {
	r := New()
	desc := task("Worker")
	require.NoError(t, r.Register(desc))

	desc.Container.CPU = 4096
	desc.AccessPolicyStatements[0]["Effect"] = "Deny"

	got, err := r.Get("Worker")
	require.NoError(t, err)
	assert.Equal(t, 256, got.Container.CPU)
	assert.Equal(t, "Allow", got.AccessPolicyStatements[0]["Effect"])

	got.Container.CPU = 1
	again, err := r.Get("Worker")
	require.NoError(t, err)
	assert.Equal(t, 256, again.Container.CPU)
}

func TestRegistry_NamesAndListSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"Charlie", "Alpha", "Bravo"} {
		require.NoError(t, r.Register(task(name)))
	}

	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, r.Names())
	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Charlie", list[2].Name)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("Task%d", i)
			assert.NoError(t, r.Register(task(name)))
			_, err := r.Get(name)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, r.Len())
}
