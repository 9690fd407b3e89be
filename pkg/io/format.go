package io

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
)

// Format names an image container.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatWebP Format = "webp"
)

var extFormats = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
	".webp": FormatWebP,
}

var encoders = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case "":
		return ""
	}
	return "." + string(f)
}

// Encodable reports whether frames can be written in this format.
func (f Format) Encodable() bool {
	_, ok := encoders[f]
	return ok
}

// ContentType returns the MIME type used by the HTTP service.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// SupportedExtensions lists every readable extension in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extFormats))
	for ext := range extFormats {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// FormatFromExtension maps ".png", "PNG", "jpg" and the like to a Format.
func FormatFromExtension(ext string) (Format, error) {
	norm := errs.NormalizeExtension(ext)
	if f, ok := extFormats[norm]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported image extension %q (supported: %s)",
		ext, strings.Join(SupportedExtensions(), ", "))
}

// FormatFromPath returns the format implied by a file name.
func FormatFromPath(path string) (Format, error) {
	return FormatFromExtension(filepath.Ext(path))
}

// ParseFormat accepts a format name ("png", "jpeg", "jpg", ...).
// The empty string is returned unchanged and means "same as input".
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return "", nil
	}
	return FormatFromExtension(s)
}

// OutputFormat chooses the format to write: want when set, otherwise the
// input format, falling back to PNG for read-only formats.
func OutputFormat(input, want Format) (Format, error) {
	if want != "" {
		if !want.Encodable() {
			return "", errs.New(errs.ErrCodeUnsupported, "cannot encode %s images", want)
		}
		return want, nil
	}
	if input.Encodable() {
		return input, nil
	}
	return FormatPNG, nil
}

// OutputName rewrites name's extension for format, keeping it when it
// already denotes that format (so "a.JPG" stays "a.JPG").
func OutputName(name string, format Format) string {
	ext := filepath.Ext(name)
	if f, err := FormatFromExtension(ext); err == nil && f == format {
		return name
	}
	return strings.TrimSuffix(name, ext) + format.Extension()
}
