// Package respond holds the JSON plumbing shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/invite"
	"github.com/MrJamesThe3rd/tally/internal/profile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into v. Failures come back as validation errors
// on the "body" field.
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return validation.New("body", "is required")
	}

	return validation.New("body", "invalid JSON: "+err.Error())
}

// Status maps a service error to the HTTP status it is reported with.
func Status(err error) int {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrSplitNotFound),
		errors.Is(err, transaction.ErrGroupNotFound),
		errors.Is(err, group.ErrNotFound),
		errors.Is(err, group.ErrMemberNotFound),
		errors.Is(err, invite.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrNameTaken),
		errors.Is(err, profile.ErrExists),
		errors.Is(err, invite.ErrExpired),
		errors.Is(err, invite.ErrExhausted),
		errors.Is(err, invite.ErrCodeTaken),
		errors.Is(err, group.ErrDuplicateMember):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Error writes err with the status Status picks. Unexpected errors are logged
// with the request id and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	body := errorResponse{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)

		body.Error = http.StatusText(status)
	}

	JSON(w, status, body)
}
