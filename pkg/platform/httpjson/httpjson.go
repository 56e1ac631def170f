// Package httpjson centralizes JSON response writing, including the single
// error boundary that turns application errors into their wire shape.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"questify/pkg/apperrors"
)

// ErrorBody is the envelope every error response uses.
type ErrorBody struct {
	Errors []apperrors.Detail `json:"errors"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates any error into {errors: [{message}]} with the
// status fixed by its code. Unrecognized errors collapse to a generic 500
// so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.New(apperrors.CodeInternal, "Something went wrong")
	}
	Write(w, apperrors.HTTPStatus(appErr.Code), ErrorBody{Errors: appErr.Serialize()})
}
