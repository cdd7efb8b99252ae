package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of an error response.
type ErrorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status, body := ErrorResponse(err)
	_ = WriteJSON(w, status, body)
	return status
}

// ErrorResponse maps err to a status and response body.
func ErrorResponse(err error) (int, ErrorBody) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorBody{Code: errs.ErrCodeTimeout, Message: "request timed out"}
	case errs.GetCode(err) == "":
		return http.StatusInternalServerError, ErrorBody{Code: errs.ErrCodeInternal, Message: "internal error"}
	}
	return errs.HTTPStatus(err), ErrorBody{Code: errs.GetCode(err), Message: errs.UserMessage(err)}
}

// DecodeJSON decodes a request body into v. Unknown fields, trailing data
// and bodies over MaxBodyBytes are rejected as INVALID_INPUT. An empty body
// leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return errs.New(errs.ErrCodeInvalidInput, "request body has trailing data")
	}
	if dec.InputOffset() > MaxBodyBytes {
		return errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
	}
	return nil
}
