package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/api"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/labels"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/pipeline"
)

// envConfig names a config file used when --config is not given.
const envConfig = "MACROBLOCK_CONFIG"

// =============================================================================
// Config File
// =============================================================================

// fileConfig mirrors the TOML config file. Every section is optional;
// command-line flags that are explicitly set take precedence.
//
//	[artifact]
//	block_size = 24
//	direction = "left"
//
//	[batch]
//	seed = 42
//	extensions = [".png", ".jpg"]
//
//	[labels]
//	jsonl = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
type fileConfig struct {
	Artifact artifact.Options `toml:"artifact"`
	Batch    batchConfig      `toml:"batch"`
	Labels   labelsConfig     `toml:"labels"`
	Cache    cacheConfig      `toml:"cache"`
	Serve    serveConfig      `toml:"serve"`
}

type batchConfig struct {
	Seed       uint64   `toml:"seed"`
	Workers    int      `toml:"workers"`
	Extensions []string `toml:"extensions"`
	Format     string   `toml:"format"`
	Quality    int      `toml:"quality"`
	Overwrite  bool     `toml:"overwrite"`
}

type labelsConfig struct {
	// JSONL appends records to Path, or to labels.jsonl in the output
	// directory when Path is empty.
	JSONL bool   `toml:"jsonl"`
	Path  string `toml:"path"`
	SVG   bool   `toml:"svg"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type cacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	// Prefix namespaces keys so several deployments can share one Redis.
	Prefix string `toml:"prefix"`
}

type serveConfig struct {
	Addr      string `toml:"addr"`
	MaxBodyMB int    `toml:"max_body_mb"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		Artifact: artifact.DefaultOptions(),
		Batch: batchConfig{
			Seed:       pipeline.DefaultSeed,
			Extensions: []string{pipeline.DefaultExtension},
		},
		Labels: labelsConfig{
			MongoDatabase:   labels.DefaultMongoDatabase,
			MongoCollection: labels.DefaultMongoCollection,
		},
		Cache: cacheConfig{Backend: cacheFile},
		Serve: serveConfig{Addr: ":8080", MaxBodyMB: api.DefaultMaxBodyBytes >> 20},
	}
}

// loadConfig decodes path over the defaults. An empty path falls back to
// $MACROBLOCK_CONFIG and then to the defaults alone. Unknown keys are errors.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// pipelineOptions converts the artifact and batch sections.
func (c fileConfig) pipelineOptions() (pipeline.Options, error) {
	format, err := io.ParseFormat(c.Batch.Format)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Artifact: c.Artifact,
		Seed:     c.Batch.Seed,
		Format:   format,
		Quality:  c.Batch.Quality,
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// =============================================================================
// Flags
// =============================================================================

// configFlags binds command-line flags to a fileConfig. Only flags the user
// actually set override the config file.
type configFlags struct {
	path      string
	vals      fileConfig
	direction string
	split     string
	noCache   bool
}

func newConfigFlags() *configFlags {
	d := defaultConfig()
	return &configFlags{
		vals:      d,
		direction: string(d.Artifact.Direction),
		split:     string(d.Artifact.Split),
	}
}

func (f *configFlags) registerConfig(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "config", "c", "", "TOML config file (default $"+envConfig+")")
}

func (f *configFlags) registerArtifact(cmd *cobra.Command) {
	a := &f.vals.Artifact
	fl := cmd.Flags()
	fl.IntVar(&a.BlockSize, "block-size", a.BlockSize, "checkerboard cell size in pixels")
	fl.IntVar(&a.MaxShift, "max-shift", a.MaxShift, "maximum displacement in pixels")
	fl.IntVar(&a.Padding, "padding", a.Padding, "margin excluded when sampling source blocks")
	fl.Float64Var(&a.Blend, "blend", a.Blend, "weight of the displaced block (0-1)")
	fl.StringVar(&f.direction, "direction", f.direction, "side sampled from on vertical splits: up, down, left, right")
	fl.StringVar(&f.split, "split", f.split, "frame split: horizontal (top/bottom), vertical (left/right)")
	fl.Uint64Var(&f.vals.Batch.Seed, "seed", f.vals.Batch.Seed, "random seed")
	fl.StringVarP(&f.vals.Batch.Format, "format", "f", "", "output format: png, jpeg, gif, tiff, bmp (default: same as input)")
	fl.IntVar(&f.vals.Batch.Quality, "quality", 0, "JPEG quality 1-100 (default 95)")
}

func (f *configFlags) registerCache(cmd *cobra.Command) {
	c := &f.vals.Cache
	fl := cmd.Flags()
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.StringVar(&c.Backend, "cache", c.Backend, "cache backend: file, redis, none")
	fl.StringVar(&c.Dir, "cache-dir", "", "file cache directory (default ~/.cache/"+appName+")")
	fl.StringVar(&c.RedisAddr, "redis", "", "redis address or URL (implies --cache redis)")
	fl.StringVar(&c.Prefix, "cache-prefix", "", "namespace for cache keys")
}

func (f *configFlags) registerBatch(cmd *cobra.Command) {
	b := &f.vals.Batch
	l := &f.vals.Labels
	fl := cmd.Flags()
	fl.IntVarP(&b.Workers, "workers", "w", 0, "parallel frames (default: number of CPUs)")
	fl.StringSliceVar(&b.Extensions, "ext", b.Extensions, "input extensions to include")
	fl.BoolVar(&b.Overwrite, "overwrite", false, "replace existing outputs")
	fl.BoolVar(&l.JSONL, "labels", false, "append label records to labels.jsonl in the output directory")
	fl.StringVar(&l.Path, "labels-path", "", "label file path (implies --labels)")
	fl.BoolVar(&l.SVG, "labels-svg", false, "write an SVG mask per frame")
	fl.StringVar(&l.MongoURI, "mongo-uri", "", "also store labels in MongoDB")
}

func (f *configFlags) registerServe(cmd *cobra.Command) {
	s := &f.vals.Serve
	cmd.Flags().StringVar(&s.Addr, "addr", s.Addr, "listen address")
	cmd.Flags().IntVar(&s.MaxBodyMB, "max-body-mb", s.MaxBodyMB, "maximum upload size in MiB")
}

// resolve loads the config file and applies explicitly set flags.
func (f *configFlags) resolve(cmd *cobra.Command) (fileConfig, error) {
	cfg, err := loadConfig(f.path)
	if err != nil {
		return cfg, err
	}
	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}
	v := f.vals

	set("block-size", func() { cfg.Artifact.BlockSize = v.Artifact.BlockSize })
	set("max-shift", func() { cfg.Artifact.MaxShift = v.Artifact.MaxShift })
	set("padding", func() { cfg.Artifact.Padding = v.Artifact.Padding })
	set("blend", func() { cfg.Artifact.Blend = v.Artifact.Blend })
	set("seed", func() { cfg.Batch.Seed = v.Batch.Seed })
	set("format", func() { cfg.Batch.Format = v.Batch.Format })
	set("quality", func() { cfg.Batch.Quality = v.Batch.Quality })
	set("workers", func() { cfg.Batch.Workers = v.Batch.Workers })
	set("ext", func() { cfg.Batch.Extensions = slices.Clone(v.Batch.Extensions) })
	set("overwrite", func() { cfg.Batch.Overwrite = v.Batch.Overwrite })
	set("labels", func() { cfg.Labels.JSONL = v.Labels.JSONL })
	set("labels-path", func() { cfg.Labels.Path, cfg.Labels.JSONL = v.Labels.Path, true })
	set("labels-svg", func() { cfg.Labels.SVG = v.Labels.SVG })
	set("mongo-uri", func() { cfg.Labels.MongoURI = v.Labels.MongoURI })
	set("cache", func() { cfg.Cache.Backend = v.Cache.Backend })
	set("cache-dir", func() { cfg.Cache.Dir = v.Cache.Dir })
	set("cache-prefix", func() { cfg.Cache.Prefix = v.Cache.Prefix })
	set("redis", func() { cfg.Cache.Backend, cfg.Cache.RedisAddr = cacheRedis, v.Cache.RedisAddr })
	set("addr", func() { cfg.Serve.Addr = v.Serve.Addr })
	set("max-body-mb", func() { cfg.Serve.MaxBodyMB = v.Serve.MaxBodyMB })

	if fl.Changed("direction") {
		d, err := artifact.ParseDirection(f.direction)
		if err != nil {
			return cfg, err
		}
		cfg.Artifact.Direction = d
	}
	if fl.Changed("split") {
		s, err := artifact.ParseSplit(f.split)
		if err != nil {
			return cfg, err
		}
		cfg.Artifact.Split = s
	}
	if f.noCache {
		cfg.Cache.Backend = cacheNone
	}
	return cfg, nil
}
