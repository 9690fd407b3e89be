// Package video splits a video file into numbered still frames with ffmpeg,
// producing the directory layout the batch driver consumes.
//
// ffmpeg and ffprobe must be on PATH.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
)

// DefaultPattern names extracted frames. The sequence starts at 1.
const DefaultPattern = "frame_%06d.png"

// Options controls extraction.
type Options struct {
	// FPS resamples the stream to this rate; zero keeps every frame.
	FPS float64

	// Width scales frames to this width keeping the aspect ratio;
	// zero keeps the source size.
	Width int

	// Pattern is the printf-style output file name; empty means
	// DefaultPattern.
	Pattern string
}

// Info describes the first video stream of a file.
type Info struct {
	Width     int
	Height    int
	Frames    int
	FrameRate float64
}

type streamsOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Inspect runs ffprobe on path. Frames is estimated from the duration when
// the container does not record a frame count.
func Inspect(path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "video %s", path)
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeDecode, err, "ffprobe %s", path)
	}
	return parseStreams(out)
}

func parseStreams(out string) (Info, error) {
	var p streamsOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeDecode, err, "parse ffprobe output")
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := Info{Width: s.Width, Height: s.Height, FrameRate: parseRate(s.AvgFrameRate)}
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.Frames = n
		} else if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil {
			info.Frames = int(d*info.FrameRate + 0.5)
		}
		return info, nil
	}
	return Info{}, errs.New(errs.ErrCodeInvalidFormat, "no video stream")
}

// parseRate converts an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func (o Options) pattern() string {
	if o.Pattern == "" {
		return DefaultPattern
	}
	return o.Pattern
}

func (o Options) validate() error {
	if o.FPS < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "fps must be at least 0, got %v", o.FPS)
	}
	if o.Width < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "width must be at least 0, got %d", o.Width)
	}
	p := o.pattern()
	if err := errs.ValidateFilename(p); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "pattern %q", p)
	}
	if strings.Count(p, "%") != 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "pattern %q must contain one %%d verb", p)
	}
	return nil
}

// stream builds the ffmpeg invocation without running it.
func stream(path, outDir string, opts Options) *ffmpeg.Stream {
	kw := ffmpeg.KwArgs{}
	var filters []string
	if opts.FPS > 0 {
		filters = append(filters, "fps="+strconv.FormatFloat(opts.FPS, 'f', -1, 64))
	}
	if opts.Width > 0 {
		// -2 keeps the height even, which some encoders require.
		filters = append(filters, fmt.Sprintf("scale=%d:-2", opts.Width))
	}
	if len(filters) > 0 {
		kw["vf"] = strings.Join(filters, ",")
	}
	return ffmpeg.Input(path).
		Output(filepath.Join(outDir, opts.pattern()), kw).
		OverWriteOutput()
}

// Extract writes the frames of the video at path into outDir and returns
// how many files the pattern now matches there. Cancelling ctx kills ffmpeg.
func Extract(ctx context.Context, path, outDir string, opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if _, err := os.Stat(path); err != nil {
		return 0, errs.Wrap(errs.ErrCodeFileNotFound, err, "video %s", path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", outDir)
	}

	var stderr bytes.Buffer
	cmd := stream(path, outDir, opts).WithErrorOutput(&stderr)
	cmd.Context = ctx
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, errs.Wrap(errs.ErrCodeDecode, err, "ffmpeg %s: %s", path, lastLine(stderr.String()))
	}

	matches, err := filepath.Glob(filepath.Join(outDir, globPattern(opts.pattern())))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// globPattern turns "frame_%06d.png" into "frame_*.png".
func globPattern(p string) string {
	i := strings.Index(p, "%")
	if i < 0 {
		return p
	}
	j := strings.IndexByte(p[i:], 'd')
	if j < 0 {
		return p
	}
	return p[:i] + "*" + p[i+j+1:]
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
