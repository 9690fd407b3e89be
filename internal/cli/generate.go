package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/labels"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/observability"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/pipeline"
)

// generateCommand creates the generate command for directory batches.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output       string
		showProgress bool
	)
	flags := newConfigFlags()

	cmd := &cobra.Command{
		Use:   "generate <input-dir>",
		Short: "Apply the checkerboard artifact to every frame in a directory",
		Long: `Apply the checkerboard artifact to every frame in a directory.

Frames are matched by extension (case-insensitive, non-recursive) and written
to the output directory under the same name. Each frame gets its own seed
derived from --seed and its file name, so reruns reproduce the same output
regardless of --workers.

Every frame is checked against the options before any work starts: an
option that cannot fit a frame aborts the run. Frames too small for one
block are skipped and reported.

Examples:
  macroblock generate frames -o tampered
  macroblock generate frames -o tampered --split vertical --direction down --max-shift 8
  macroblock generate frames -o tampered --labels --labels-svg --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			return c.runGenerate(cmd.Context(), args[0], output, cfg, showProgress)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "show an interactive progress view")
	flags.registerConfig(cmd)
	flags.registerArtifact(cmd)
	flags.registerBatch(cmd)
	flags.registerCache(cmd)

	return cmd
}

// runGenerate opens the label stores, runs the batch and prints a summary.
func (c *CLI) runGenerate(ctx context.Context, input, output string, cfg fileConfig, showProgress bool) error {
	opts, err := cfg.pipelineOptions()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.openLabels(ctx, cfg.Labels, output)
	if err != nil {
		return err
	}

	batch := pipeline.BatchOptions{
		Options:    opts,
		InputDir:   input,
		OutputDir:  output,
		Workers:    cfg.Batch.Workers,
		Extensions: cfg.Batch.Extensions,
		Overwrite:  cfg.Batch.Overwrite,
		Labels:     store,
		LabelsSVG:  cfg.Labels.SVG,
	}

	timer := startTimer(c.Logger)
	var res *pipeline.BatchResult
	if showProgress {
		res, err = c.runWithProgressView(ctx, runner, batch)
	} else {
		res, err = runner.Batch(ctx, batch)
	}
	if cerr := store.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close labels: %w", cerr)
	}
	if res != nil {
		printBatchSummary(res, output)
		timer.finish("run finished", "run", res.RunID)
	}
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d frames failed", len(res.Failed), res.Total)
	}
	return nil
}

// openLabels builds the label store described by cfg. The JSONL file lives in
// the output directory unless a path is configured.
func (c *CLI) openLabels(ctx context.Context, cfg labelsConfig, output string) (labels.Store, error) {
	var stores []labels.Store
	closeAll := func() {
		for _, s := range stores {
			s.Close()
		}
	}

	if cfg.JSONL {
		path := cfg.Path
		if path == "" {
			if err := ensureDir(output); err != nil {
				return nil, err
			}
			path = filepath.Join(output, labels.DefaultFilename)
		}
		s, err := labels.NewJSONLStore(path)
		if err != nil {
			return nil, err
		}
		loggerFromContext(ctx).Debug("writing labels", "path", path)
		stores = append(stores, s)
	}

	if cfg.MongoURI != "" {
		s, err := labels.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		loggerFromContext(ctx).Debug("storing labels in mongodb", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		stores = append(stores, s)
	}

	return labels.Tee(stores...), nil
}

// runWithProgressView runs the batch while a bubbletea view consumes batch
// hooks. Quitting the view cancels the run.
func (c *CLI) runWithProgressView(ctx context.Context, runner *pipeline.Runner, batch pipeline.BatchOptions) (*pipeline.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := newProgressView(cancel)
	prev := observability.Batch()
	observability.SetBatchHooks(view)
	defer observability.SetBatchHooks(prev)

	// The view owns the terminal; only warnings and errors are logged while it runs.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(max(level, LogWarn))
	defer c.Logger.SetLevel(level)

	done := view.Start()
	res, err := runner.Batch(ctx, batch)
	view.Finish()
	<-done
	return res, err
}
