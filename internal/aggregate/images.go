package aggregate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/domain"
	fserrors "github.com/mrz1836/flowsynth/internal/errors"
)

// ImageTarget describes where one container task's image is pushed.
type ImageTarget struct {
	Task          string `json:"task"`
	Repository    string `json:"repository"`
	URI           string `json:"uri,omitempty"`
	BuildContext  string `json:"buildContext"`
	HasDockerfile bool   `json:"hasDockerfile"`
}

// Images lists the image push plan for every container task, sorted by
// task name. URI is only set when both account and region are given.
func (a *Aggregator) Images(ctx context.Context, account, region string) ([]ImageTarget, error) {
	reg, err := a.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}

	var targets []ImageTarget
	for _, desc := range reg.List() {
		if desc.Kind != domain.KindContainer {
			continue
		}
		buildContext := filepath.Dir(desc.Source)
		hasDockerfile, err := afero.Exists(a.fs, filepath.Join(buildContext, constants.DockerfileName))
		if err != nil {
			return nil, fserrors.Wrapf(err, "check Dockerfile for task %s", desc.Name)
		}

		repo := a.opts.Naming.RepositoryName(desc.Name)
		target := ImageTarget{
			Task:          desc.Name,
			Repository:    repo,
			BuildContext:  buildContext,
			HasDockerfile: hasDockerfile,
		}
		if account != "" && region != "" {
			target.URI = fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com/%s:%s", account, region, repo, constants.ImageTag)
		}
		if !hasDockerfile {
			a.logger.Warn().Str("task", desc.Name).Str("dir", buildContext).Msg("container task has no Dockerfile")
		}
		targets = append(targets, target)
	}
	return targets, nil
}
