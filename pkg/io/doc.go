// Package io reads and writes image files as [frame.Frame] values.
//
// # Formats
//
// Decoding goes through github.com/disintegration/imaging, which covers
// PNG, JPEG, GIF, TIFF and BMP, plus WebP via golang.org/x/image/webp. JPEG
// input is rotated according to its EXIF orientation tag so frames pulled
// from phone footage come out upright.
//
// Encoding supports every format above except WebP. [OutputFormat] picks
// PNG when the input format cannot be written back.
//
// # Import
//
//	f, err := io.ImportFrame("frames/frame_000001.png")
//
// # Export
//
//	err := io.ExportFrame(f, "out/frame_000001.png", io.WriteOptions{})
//
// [ExportFrame] writes to a temporary file next to the target and renames it
// into place, so a batch that is interrupted never leaves a truncated image
// behind.
//
// # Errors
//
// Failures carry codes from the errors package: FILE_NOT_FOUND for missing
// inputs, DECODE_FAILED for unreadable ones, INVALID_FORMAT for unknown
// extensions, UNSUPPORTED for formats that can only be read, and
// ENCODE_FAILED when writing fails.
package io
