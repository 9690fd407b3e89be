package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/labels"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/observability"
)

// LabelsDir is the subdirectory of the output directory that receives SVG
// masks.
const LabelsDir = "labels"

// BatchOptions configures a directory run.
type BatchOptions struct {
	Options

	// InputDir is scanned non-recursively for frames.
	InputDir string `json:"input_dir" validate:"required"`

	// OutputDir receives composited frames under their input file names.
	// It is created if missing and must differ from InputDir.
	OutputDir string `json:"output_dir" validate:"required"`

	// Workers bounds parallelism; zero means DefaultWorkers().
	Workers int `json:"workers" validate:"gte=0"`

	// Extensions filters input files, case-insensitively. Empty means
	// DefaultExtension.
	Extensions []string `json:"extensions"`

	// Overwrite replaces existing outputs instead of skipping them.
	Overwrite bool `json:"overwrite"`

	// Labels receives one record per composited frame. Nil discards them.
	Labels labels.Store `json:"-"`

	// LabelsSVG writes an SVG mask per frame into OutputDir/labels.
	LabelsSVG bool `json:"labels_svg"`

	// RunID identifies the run in labels and hooks. Empty generates one.
	RunID string `json:"run_id"`
}

// FrameError records why one frame was not written.
type FrameError struct {
	Name string
	Err  error
}

func (e FrameError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e FrameError) Unwrap() error { return e.Err }

// BatchResult summarises a directory run.
type BatchResult struct {
	RunID string

	// Total is the number of matching input files.
	Total int

	// Processed counts frames written this run, Cached the subset served
	// from the cache.
	Processed int
	Cached    int

	// Existing counts frames left alone because the output already existed.
	Existing int

	// Skipped lists degenerate frames; Failed lists decode, encode and
	// write failures.
	Skipped []FrameError
	Failed  []FrameError

	Duration time.Duration
}

// OK reports whether every frame was written or already present.
func (r *BatchResult) OK() bool {
	return len(r.Skipped) == 0 && len(r.Failed) == 0
}

// ListFrames returns the sorted names of regular files in dir whose
// extension matches one of exts, ignoring case. Empty exts means
// DefaultExtension.
func ListFrames(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{DefaultExtension}
	}
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		if err := errs.ValidateExtension(e, io.SupportedExtensions()); err != nil {
			return nil, err
		}
		want[errs.NormalizeExtension(e)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "input directory %s", dir)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if want[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// job is a frame that passed the preflight phase.
type job struct {
	name   string
	input  string
	output string
	seed   uint64
}

// Batch composites every matching frame in opts.InputDir into
// opts.OutputDir.
//
// Frames are checked before any pixels are processed: a configuration error
// for any frame aborts the run and nothing is written. Degenerate frames are
// skipped and frames that fail to decode or write are reported in the
// result; neither stops the run. Cancelling ctx stops scheduling new frames
// and Batch returns the partial result with ctx's error.
func (r *Runner) Batch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	start := time.Now()
	opts.SetDefaults()
	if err := artifact.ValidateStruct(opts); err != nil {
		return nil, err
	}
	if err := sameDir(opts.InputDir, opts.OutputDir); err != nil {
		return nil, err
	}
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Labels == nil {
		opts.Labels = labels.NullStore{}
	}

	names, err := ListFrames(opts.InputDir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	res := &BatchResult{RunID: opts.RunID, Total: len(names)}
	logger := r.Logger.With("run", opts.RunID)

	jobs, err := r.preflight(names, opts, res)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", opts.OutputDir)
	}
	if opts.LabelsSVG {
		if err := os.MkdirAll(filepath.Join(opts.OutputDir, LabelsDir), 0o755); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create labels directory")
		}
	}

	hooks := observability.Batch()
	hooks.OnBatchStart(ctx, opts.RunID, len(jobs))
	logger.Info("starting batch", "frames", len(jobs), "workers", opts.Workers)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(opts.Workers)

	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			hooks.OnFrameStart(ctx, opts.RunID, j.name)
			t := time.Now()
			fr, err := r.processJob(ctx, j, opts)

			cells := 0
			if fr != nil {
				cells = len(fr.Cells)
			}
			hooks.OnFrameComplete(ctx, opts.RunID, j.name, cells, time.Since(t), err)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				res.Processed++
				if fr.CacheHit {
					res.Cached++
				}
			case errs.Is(err, errs.ErrCodeDegenerateFrame):
				res.Skipped = append(res.Skipped, FrameError{Name: j.name, Err: err})
				logger.Warn("skipped frame", "frame", j.name, "error", err)
			case ctx.Err() != nil:
				// Cancelled mid-frame; not a frame failure.
			default:
				res.Failed = append(res.Failed, FrameError{Name: j.name, Err: err})
				logger.Error("frame failed", "frame", j.name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	sortFrameErrors(res.Skipped)
	sortFrameErrors(res.Failed)
	res.Duration = time.Since(start)
	hooks.OnBatchComplete(ctx, opts.RunID, res.Processed, len(res.Skipped), len(res.Failed), res.Duration)
	logger.Info("batch complete",
		"processed", res.Processed,
		"cached", res.Cached,
		"existing", res.Existing,
		"skipped", len(res.Skipped),
		"failed", len(res.Failed),
		"duration", res.Duration)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// preflight reads every frame header and plans its partition. It returns the
// frames left to process, recording skipped, failed and existing frames in
// res. Configuration errors are returned immediately.
func (r *Runner) preflight(names []string, opts BatchOptions, res *BatchResult) ([]job, error) {
	jobs := make([]job, 0, len(names))
	for _, name := range names {
		input := filepath.Join(opts.InputDir, name)
		w, h, format, err := io.StatFrame(input)
		if err != nil {
			res.Failed = append(res.Failed, FrameError{Name: name, Err: err})
			continue
		}
		outFormat, err := io.OutputFormat(format, opts.Format)
		if err != nil {
			return nil, err
		}
		if _, err := artifact.Plan(w, h, opts.Artifact); err != nil {
			if errs.IsConfig(err) {
				return nil, errs.Wrap(errs.GetCode(err), err, "%s (%dx%d)", name, w, h)
			}
			res.Skipped = append(res.Skipped, FrameError{Name: name, Err: err})
			continue
		}

		output := filepath.Join(opts.OutputDir, io.OutputName(name, outFormat))
		if !opts.Overwrite {
			if _, err := os.Stat(output); err == nil {
				res.Existing++
				continue
			}
		}
		jobs = append(jobs, job{
			name:   name,
			input:  input,
			output: output,
			seed:   FrameSeed(opts.Seed, name),
		})
	}
	return jobs, nil
}

func (r *Runner) processJob(ctx context.Context, j job, opts BatchOptions) (*FrameResult, error) {
	f, err := io.ImportFrame(j.input)
	if err != nil {
		return nil, err
	}
	fr, err := r.ProcessFrame(ctx, j.name, f, j.seed, opts.Options)
	if err != nil {
		return nil, err
	}
	if err := io.ExportFrame(fr.Frame, j.output, opts.WriteOptions()); err != nil {
		return fr, err
	}

	rec := labels.NewRecord(opts.RunID, j.name, f.Width, f.Height, j.seed, opts.Artifact, fr.Halves, fr.Cells)
	rec.Output = filepath.Base(j.output)
	if err := opts.Labels.Put(ctx, rec); err != nil {
		return fr, fmt.Errorf("record labels: %w", err)
	}
	if opts.LabelsSVG {
		if err := writeMask(opts.OutputDir, rec); err != nil {
			return fr, err
		}
	}
	return fr, nil
}

func writeMask(outDir string, rec labels.Record) error {
	var b strings.Builder
	if err := labels.WriteSVG(&b, rec); err != nil {
		return err
	}
	name := strings.TrimSuffix(rec.Frame, filepath.Ext(rec.Frame)) + ".svg"
	return io.WriteFileAtomic(filepath.Join(outDir, LabelsDir, name), []byte(b.String()))
}

func sameDir(in, out string) error {
	a, err := filepath.Abs(in)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", in)
	}
	b, err := filepath.Abs(out)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve %s", out)
	}
	if a == b {
		return errs.New(errs.ErrCodeInvalidPath, "output directory must differ from input directory")
	}
	return nil
}

func sortFrameErrors(fe []FrameError) {
	slices.SortFunc(fe, func(a, b FrameError) int { return strings.Compare(a.Name, b.Name) })
}
