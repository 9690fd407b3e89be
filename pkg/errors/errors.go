// Package errors carries the coded errors macroblock reports.
//
// Every failure that reaches a user names a Code. The batch driver uses it
// to decide between aborting a run and skipping one frame, the HTTP API maps
// it to a status, and the CLI prints the message without the code prefix.
//
// # Run-fatal and frame-local errors
//
// INVALID_CONFIG and INVALID_FORMAT describe options, not frames: they are
// raised while validating compositor options, the output format or the
// extension filter, so a batch stops before it reads its first frame
// ([IsConfig]). Everything else is frame-local. A frame that fails to decode,
// or is too small for the block size and padding, is counted as failed and
// the batch moves on.
//
// # Usage
//
//	if opts.BlockSize <= 0 {
//	    return errors.New(errors.ErrCodeInvalidConfig, "block size must be positive, got %d", opts.BlockSize)
//	}
//
//	img, err := png.Decode(r)
//	if err != nil {
//	    return errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable part of an Error. The API returns it verbatim
// in the "code" field of error bodies.
type Code string

const (
	// ErrCodeInvalidConfig: compositor options rejected by artifact.Options
	// validation, or a padding that leaves no room for one block.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	// ErrCodeInvalidInput: a request or argument that is not a frame problem,
	// such as a frame pair with mismatched sizes or an oversized upload.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeInvalidFormat: an output format or file extension macroblock
	// cannot write.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	// ErrCodeInvalidPath: input and output directories overlap, or a frame
	// name pattern is unusable.
	ErrCodeInvalidPath Code = "INVALID_PATH"

	// ErrCodeDegenerateFrame: the frame half along the split is narrower than
	// one block plus padding.
	ErrCodeDegenerateFrame Code = "DEGENERATE_FRAME"

	ErrCodeDecode Code = "DECODE_FAILED"
	ErrCodeEncode Code = "ENCODE_FAILED"

	// ErrCodeFileNotFound: a frame, directory or video that does not exist.
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Remote backends. The API answers NETWORK_ERROR with 500 and TIMEOUT
	// with 504.
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with the message shown to users. Cause, when set, is
// the decoder, filesystem or backend error underneath.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error whose message is formatted from format and args.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns what the CLI and API show for err: the message of the
// first *Error in the chain, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConfig reports whether err should abort a whole batch rather than fail a
// single frame.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidFormat:
		return true
	}
	return false
}
