package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/flowsynth/internal/aggregate"
	"github.com/mrz1836/flowsynth/internal/config"
	"github.com/mrz1836/flowsynth/internal/descriptor"
	"github.com/mrz1836/flowsynth/internal/domain"
)

// project is the resolved configuration a command runs against.
type project struct {
	cfg  *config.Config
	opts aggregate.Options
}

// loadProject loads the layered configuration, applies the flag overrides
// and resolves naming and kind policy.
func loadProject(ctx context.Context, flags *ProjectFlags) (*project, error) {
	cfg, err := config.LoadWithOverrides(ctx, flags.overrides())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newProject(cfg)
}

// newProject derives aggregator options from a validated Config.
func newProject(cfg *config.Config) (*project, error) {
	naming, err := descriptor.NewValidator().Naming(cfg.NamingParams())
	if err != nil {
		return nil, fmt.Errorf("invalid naming configuration: %w", err)
	}
	policy, err := domain.ParseKindPolicy(cfg.UnknownKindPolicy)
	if err != nil {
		return nil, err
	}

	return &project{
		cfg: cfg,
		opts: aggregate.Options{
			Naming:                 naming,
			TasksDirectory:         cfg.TasksDirectory,
			StateMachinesDirectory: cfg.StateMachinesDirectory,
			FunctionNamespace:      cfg.FunctionNamespace,
			KindPolicy:             policy,
		},
	}, nil
}

// aggregator creates an Aggregator reading the local filesystem.
func (p *project) aggregator(logger zerolog.Logger) *aggregate.Aggregator {
	return aggregate.New(afero.NewOsFs(), p.opts, aggregate.WithLogger(logger))
}

// checkContext returns ctx's error if it is already done.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
