package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/api"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compositor over HTTP",
		Long: `Serve the compositor over HTTP.

POST an image to /v1/composite; query parameters override the configured
defaults (block_size, max_shift, padding, blend, direction, split, seed,
format, quality, refresh). Use --redis to share cached results between
instances.

Example:
  curl --data-binary @frame.png 'localhost:8080/v1/composite?seed=7' -o out.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	flags.registerConfig(cmd)
	flags.registerServe(cmd)
	flags.registerArtifact(cmd)
	flags.registerCache(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg fileConfig) error {
	opts, err := cfg.pipelineOptions()
	if err != nil {
		return err
	}
	if cfg.Serve.MaxBodyMB <= 0 {
		return fmt.Errorf("--max-body-mb must be positive")
	}

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := api.NewServer(runner, c.Logger, api.Config{
		Defaults:     opts,
		MaxBodyBytes: int64(cfg.Serve.MaxBodyMB) << 20,
	})
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}
