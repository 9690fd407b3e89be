package api

import (
	"net/url"
	"strconv"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/pipeline"
)

// parseOptions applies query overrides to defaults and validates the result.
func parseOptions(q url.Values, defaults pipeline.Options) (pipeline.Options, error) {
	opts := defaults
	a := &opts.Artifact

	ints := []struct {
		key string
		dst *int
	}{
		{"block_size", &a.BlockSize},
		{"max_shift", &a.MaxShift},
		{"padding", &a.Padding},
		{"quality", &opts.Quality},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errs.New(errs.ErrCodeInvalidConfig, "%s must be an integer, got %q", p.key, v)
			}
			*p.dst = n
		}
	}

	if v := q.Get("blend"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidConfig, "blend must be a number, got %q", v)
		}
		a.Blend = f
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidConfig, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = n
	}
	if v := q.Get("direction"); v != "" {
		d, err := artifact.ParseDirection(v)
		if err != nil {
			return opts, err
		}
		a.Direction = d
	}
	if v := q.Get("split"); v != "" {
		sp, err := artifact.ParseSplit(v)
		if err != nil {
			return opts, err
		}
		a.Split = sp
	}
	if v := q.Get("format"); v != "" {
		f, err := io.ParseFormat(v)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidConfig, "refresh must be a boolean, got %q", v)
		}
		opts.Refresh = b
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
