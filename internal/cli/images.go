package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/flowsynth/internal/tui"
)

// imagesFlags holds flags specific to the images command.
type imagesFlags struct {
	Account string
	Region  string
}

// AddImagesCommand adds the images command to the root command.
func AddImagesCommand(root *cobra.Command, global *GlobalFlags, project *ProjectFlags) {
	flags := &imagesFlags{}
	cmd := &cobra.Command{
		Use:   "images",
		Short: "List the image build and push plan for container tasks",
		Long: `List every container task with its repository, build context and, when
--account and --region are given, the full image URI to push to.

Building and pushing is left to docker; this command only prints the plan.

Examples:
  flowsynth images
  flowsynth images --account 123456789012 --region us-east-1 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImages(cmd.Context(), cmd.OutOrStdout(), global, project, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Account, "account", "", "AWS account ID used in image URIs")
	cmd.Flags().StringVar(&flags.Region, "region", "", "AWS region used in image URIs")

	root.AddCommand(cmd)
}

func runImages(ctx context.Context, w io.Writer, global *GlobalFlags, projectFlags *ProjectFlags, flags *imagesFlags) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	p, err := loadProject(ctx, projectFlags)
	if err != nil {
		return err
	}

	targets, err := p.aggregator(GetLogger()).Images(ctx, flags.Account, flags.Region)
	if err != nil {
		return err
	}

	out := tui.NewOutput(w, global.Output)
	if global.Output == tui.FormatJSON {
		return out.JSON(targets)
	}

	if len(targets) == 0 {
		out.Info("no container tasks found")
		return nil
	}

	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		dockerfile := "yes"
		if !t.HasDockerfile {
			dockerfile = "missing"
		}
		rows = append(rows, []string{t.Task, t.Repository, relativePath(t.BuildContext), dockerfile, t.URI})
	}
	out.Table([]string{"TASK", "REPOSITORY", "CONTEXT", "DOCKERFILE", "URI"}, rows)
	if flags.Account == "" || flags.Region == "" {
		out.Info(fmt.Sprintf("pass --account and --region to print image URIs (%d tasks)", len(targets)))
	}
	return nil
}
