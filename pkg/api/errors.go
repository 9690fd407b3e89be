package api

import (
	"errors"
	"net/http"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status and code.
func statusFor(err error) (int, errs.Code) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errs.ErrCodeInvalidInput
	}

	code := errs.GetCode(err)
	switch code {
	case errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeDecode:
		return http.StatusBadRequest, code
	case errs.ErrCodeDegenerateFrame:
		return http.StatusUnprocessableEntity, code
	case errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType, code
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case "":
		return http.StatusInternalServerError, errs.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	id := RequestIDFromContext(r.Context())
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", id, "error", err)
		msg = "internal error"
	}
	if status == http.StatusRequestEntityTooLarge {
		msg = "request body too large"
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: msg, RequestID: id})
}
