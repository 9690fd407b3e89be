package artifact

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
)

// Split selects how a frame is partitioned into source and destination halves.
type Split string

const (
	// SplitHorizontal samples from the top half and tampers with the bottom half.
	// Displacement inside each block is isotropic-random.
	SplitHorizontal Split = "horizontal"

	// SplitVertical samples from the left half and tampers with the right half.
	// Displacement inside each block is directional.
	SplitVertical Split = "vertical"
)

// Direction names the side a directional displacement samples from: with
// DirectionUp every pixel takes the value shift rows above it.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Default option values shared by the CLI, the batch driver and the HTTP API.
const (
	DefaultBlockSize = 24
	DefaultMaxShift  = 4
	DefaultPadding   = 16
	DefaultBlend     = 0.4
	DefaultDirection = DirectionLeft
	DefaultSplit     = SplitHorizontal
)

// Options configures one checkerboard composite.
//
// MaxShift is the per-pixel bound for random displacement (horizontal split)
// and the fixed magnitude for directional displacement (vertical split).
type Options struct {
	BlockSize int       `json:"block_size" toml:"block_size" validate:"gt=0"`
	MaxShift  int       `json:"max_shift" toml:"max_shift" validate:"gte=0"`
	Padding   int       `json:"padding" toml:"padding" validate:"gte=0"`
	Blend     float64   `json:"blend" toml:"blend" validate:"gte=0,lte=1"`
	Direction Direction `json:"direction" toml:"direction" validate:"oneof=up down left right"`
	Split     Split     `json:"split" toml:"split" validate:"oneof=horizontal vertical"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		BlockSize: DefaultBlockSize,
		MaxShift:  DefaultMaxShift,
		Padding:   DefaultPadding,
		Blend:     DefaultBlend,
		Direction: DefaultDirection,
		Split:     DefaultSplit,
	}
}

// SetDefaults fills the enumerated fields when they are empty.
// Numeric fields are left alone: zero is a meaningful value for all of them
// except BlockSize, which Validate rejects.
func (o *Options) SetDefaults() {
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Split == "" {
		o.Split = DefaultSplit
	}
}

// Horizontal reports whether the frame is split into top and bottom halves.
func (o Options) Horizontal() bool {
	return o.Split == SplitHorizontal
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the options independently of any frame.
// All failures are INVALID_CONFIG errors.
func (o Options) Validate() error {
	return ValidateStruct(o)
}

// ValidateStruct runs struct-tag validation on v and converts the first
// failure into an INVALID_CONFIG error with a readable message.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid options")
	}
	for _, fe := range fieldErrors {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return errs.New(errs.ErrCodeInvalidConfig, "missing required field: %s", field)
		case "gt":
			return errs.New(errs.ErrCodeInvalidConfig, "%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
		case "gte", "min":
			return errs.New(errs.ErrCodeInvalidConfig, "%s must be at least %s, got %v", field, fe.Param(), fe.Value())
		case "lte", "max":
			return errs.New(errs.ErrCodeInvalidConfig, "%s must be at most %s, got %v", field, fe.Param(), fe.Value())
		case "oneof":
			return errs.New(errs.ErrCodeInvalidConfig, "invalid %s %q (must be one of: %s)", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			return errs.New(errs.ErrCodeInvalidConfig, "validation error for field %s: %s", field, fe.Tag())
		}
	}
	return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid options")
}

// ParseDirection converts a direction token into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return d, nil
	}
	return "", errs.New(errs.ErrCodeInvalidConfig, "invalid direction %q (must be one of: up, down, left, right)", s)
}

// ParseSplit converts a split token into a Split. "h"/"v" are accepted as
// shorthands.
func ParseSplit(s string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return SplitHorizontal, nil
	case "vertical", "v":
		return SplitVertical, nil
	}
	return "", errs.New(errs.ErrCodeInvalidConfig, "invalid split %q (must be horizontal or vertical)", s)
}
