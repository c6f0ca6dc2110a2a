// Package aggregate walks the task and workflow directories of a project,
// builds the task registry and merges every generated document into one
// synthesis result.
package aggregate

import (
	"context"
	"errors"
	"maps"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/descriptor"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
	"github.com/mrz1836/flowsynth/internal/preprocess"
	"github.com/mrz1836/flowsynth/internal/registry"
	"github.com/mrz1836/flowsynth/internal/resources"
)

// Options selects what to load and how to name it.
type Options struct {
	Naming                 domain.NamingParameters
	TasksDirectory         string
	StateMachinesDirectory string
	FunctionNamespace      string
	KindPolicy             domain.KindPolicy
}

// Result is everything synthesized for one project.
type Result struct {
	// Resources holds the base resources and every task's infrastructure.
	Resources domain.Bundle `json:"resources" yaml:"resources"`
	// Functions holds function definitions keyed by task name.
	Functions map[string]domain.Document `json:"functions" yaml:"functions"`
	// StateMachines holds the resolved workflow definitions keyed by name.
	StateMachines map[string]any `json:"stateMachines" yaml:"stateMachines"`
}

// Aggregator reads project files through an afero filesystem.
type Aggregator struct {
	fs        afero.Fs
	opts      Options
	validator *descriptor.Validator
	logger    zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger (default: nop).
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger.With().Str("component", "aggregate").Logger()
	}
}

// New creates an Aggregator over fs.
func New(fs afero.Fs, opts Options, options ...Option) *Aggregator {
	if opts.TasksDirectory == "" {
		opts.TasksDirectory = constants.DefaultTasksDirectory
	}
	if opts.StateMachinesDirectory == "" {
		opts.StateMachinesDirectory = constants.DefaultStateMachinesDirectory
	}
	if opts.FunctionNamespace == "" {
		opts.FunctionNamespace = constants.DefaultFunctionNamespace
	}
	if opts.KindPolicy == "" {
		opts.KindPolicy = domain.KindPolicyStrict
	}
	a := &Aggregator{
		fs:        fs,
		opts:      opts,
		validator: descriptor.NewValidator(),
		logger:    zerolog.Nop(),
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// LoadTasks reads every task file concurrently and registers the
// descriptors in path order. Every file is tried; the failures are joined.
// Under the tolerant kind policy, files rejected only for their kind are
// skipped with a warning.
func (a *Aggregator) LoadTasks(ctx context.Context) (*registry.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := a.findFiles(a.opts.TasksDirectory, constants.TaskFileSuffixes)
	if err != nil {
		return nil, fserrors.Wrapf(err, "scan tasks directory %s", a.opts.TasksDirectory)
	}

	loader := descriptor.NewLoader(a.fs, a.validator)
	descs := make([]*domain.TaskDescriptor, len(files))
	loadErrs := make([]error, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			descs[i], loadErrs[i] = loader.LoadFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg := registry.New()
	var errs []error
	for i, path := range files {
		if err := loadErrs[i]; err != nil {
			if a.opts.KindPolicy == domain.KindPolicyTolerant && errors.Is(err, fserrors.ErrUnsupportedKind) {
				a.logger.Warn().Str("file", path).Err(err).Msg("skipping task with unsupported kind")
				continue
			}
			errs = append(errs, err)
			continue
		}
		if err := reg.Register(descs[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	a.logger.Debug().Int("tasks", reg.Len()).Int("files", len(files)).Msg("tasks loaded")
	return reg, nil
}

// Resources generates the base resources plus every task's bundle.
// Function definitions are returned separately, keyed by task name.
func (a *Aggregator) Resources(reg *registry.Registry) (domain.Bundle, map[string]domain.Document, error) {
	out := resources.Base(a.opts.Naming)
	functions := make(map[string]domain.Document)

	for _, desc := range reg.List() {
		bundle, err := resources.Task(a.opts.Naming, desc, a.opts.KindPolicy)
		if err != nil {
			return nil, nil, fserrors.Wrapf(err, "task %s", desc.Name)
		}
		fnKey := desc.Name + constants.FunctionDefinitionSuffix
		if fn, ok := bundle[fnKey]; ok {
			functions[desc.Name] = fn
			delete(bundle, fnKey)
		}
		out = domain.MergeBundles(out, bundle)
	}
	return out, functions, nil
}

// StateMachines resolves every workflow file against reg and merges their
// top-level keys, later files (in path order) winning. Every file is tried;
// the failures are joined and no partial result is returned.
func (a *Aggregator) StateMachines(ctx context.Context, reg *registry.Registry) (map[string]any, error) {
	files, err := a.findFiles(a.opts.StateMachinesDirectory, constants.StateMachineFileSuffixes)
	if err != nil {
		return nil, fserrors.Wrapf(err, "scan state machines directory %s", a.opts.StateMachinesDirectory)
	}

	out := make(map[string]any)
	var errs []error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := a.ResolveFile(path, reg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for name := range content {
			if _, dup := out[name]; dup {
				a.logger.Debug().Str("file", path).Str("state_machine", name).Msg("state machine redefined, later file wins")
			}
		}
		maps.Copy(out, content)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	a.logger.Debug().Int("state_machines", len(out)).Int("files", len(files)).Msg("state machines resolved")
	return out, nil
}

// ResolveFile preprocesses one workflow file and returns its parsed content.
func (a *Aggregator) ResolveFile(path string, reg *registry.Registry) (map[string]any, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fserrors.Wrapf(err, "read state machine file %s", path)
	}

	p := preprocess.New(string(data), reg, preprocess.WithNamespace(a.opts.FunctionNamespace))
	if err := p.Resolve(); err != nil {
		return nil, fserrors.Wrapf(err, "state machine file %s", path)
	}
	content, err := p.Content()
	if err != nil {
		return nil, fserrors.Wrapf(err, "state machine file %s", path)
	}

	a.logger.Debug().Str("file", path).Strs("tasks", p.References()).Msg("state machine file resolved")
	return content, nil
}

// Synthesize loads the project and produces the full result.
func (a *Aggregator) Synthesize(ctx context.Context) (*Result, error) {
	reg, err := a.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}

	res, functions, err := a.Resources(reg)
	if err != nil {
		return nil, err
	}

	machines, err := a.StateMachines(ctx, reg)
	if err != nil {
		return nil, err
	}

	a.logger.Info().
		Int("resources", len(res)).
		Int("functions", len(functions)).
		Int("state_machines", len(machines)).
		Msg("synthesis complete")

	return &Result{
		Resources:     res,
		Functions:     functions,
		StateMachines: machines,
	}, nil
}
