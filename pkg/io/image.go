package io

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// DefaultJPEGQuality is used when WriteOptions.Quality is zero.
const DefaultJPEGQuality = 95

// WriteOptions tunes encoding.
type WriteOptions struct {
	// Quality is the JPEG quality (1-100). Zero means DefaultJPEGQuality.
	Quality int
}

// ReadFrame decodes an image from r.
// EXIF orientation is applied; alpha is composited over black.
func ReadFrame(r io.Reader) (*frame.Frame, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "decode image")
	}
	return frame.FromImage(img), nil
}

// ImportFrame reads the image file at path.
func ImportFrame(path string) (*frame.Frame, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "decode %s", path)
	}
	return frame.FromImage(img), nil
}

// WriteFrame encodes f to w in the given format.
func WriteFrame(w io.Writer, f *frame.Frame, format Format, opts WriteOptions) error {
	enc, ok := encoders[format]
	if !ok {
		return errs.New(errs.ErrCodeUnsupported, "cannot encode %s images", format)
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	err := imaging.Encode(w, f.ToNRGBA(), enc,
		imaging.JPEGQuality(quality),
		imaging.PNGCompressionLevel(png.BestSpeed))
	if err != nil {
		return errs.Wrap(errs.ErrCodeEncode, err, "encode %s", format)
	}
	return nil
}

// EncodeFrame returns f encoded in the given format.
func EncodeFrame(f *frame.Frame, format Format, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFrame writes f to path, choosing the format from the extension.
func ExportFrame(f *frame.Frame, path string, opts WriteOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := EncodeFrame(f, format, opts)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temporary file in path's directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// StatFrame reads only the header of the image at path and returns its
// dimensions and format. EXIF orientation is not applied.
func StatFrame(path string) (width, height int, format Format, err error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return 0, 0, "", errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return 0, 0, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, name, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, "", errs.Wrap(errs.ErrCodeDecode, err, "decode header of %s", path)
	}
	format, ferr := FormatFromExtension(name)
	if ferr != nil {
		format = Format(name)
	}
	return cfg.Width, cfg.Height, format, nil
}
