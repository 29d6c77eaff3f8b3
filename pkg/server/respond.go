package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/carousel/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSize, errors.ErrCodeInvalidPivot,
		errors.ErrCodeInvalidAlignment, errors.ErrCodeInvalidStrategy, errors.ErrCodeInvalidPreset,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeEmptyLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodePresetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context(), log.Default()).Error("request failed", "code", code, "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

// decodeJSON reads a single JSON document of at most limit bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeInvalidFormat, "request body is empty")
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "decode request body: %v", err)
		}
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidFormat, "request body must contain a single JSON document")
	}
	return nil
}

func notFoundRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Code:      errors.ErrCodeUnsupported,
		Message:   "method " + r.Method + " not allowed on " + r.URL.Path,
		RequestID: RequestID(r.Context()),
	})
}
