package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sorei9240/be-nc-news/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies

// Client-facing messages for the generic error classes. Domain errors that
// carry their own message pass it through unchanged.
const (
	msgInvalidRequest = "Invalid Request"
	msgMissingFields  = "Missing required fields"
	msgServerError    = "Server error"
	msgRateLimited    = "Too many requests"
)

// validate performs struct-tag validation on request bodies.
var validate = validator.New(validator.WithRequiredStructEnabled())

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response in the {"msg": ...} envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorEnvelope{Msg: message})
}

// writeDomainError translates a domain error into an HTTP response.
// Errors carrying a client-facing message pass it through verbatim;
// anything unrecognized becomes a 500 with a generic message, logged by
// the caller's request logger via the returned flag.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var nfErr *domain.NotFoundError
	var refErr *domain.ReferenceError
	var vErr *domain.ValidationError

	switch {
	case errors.As(err, &nfErr):
		writeError(w, http.StatusNotFound, nfErr.Msg)
	case errors.As(err, &refErr):
		writeError(w, http.StatusNotFound, refErr.Msg)
	case errors.Is(err, domain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, msgMissingFields)
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
	default:
		s.logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, msgServerError)
	}
}

// intURLParam extracts a URL parameter expected to be an integer.
// A non-numeric value is invalid input, not a missing row.
func intURLParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// intQueryParam extracts an optional integer query parameter. Absence
// returns 0 so the caller's defaults apply.
func intQueryParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return v, nil
}

// decodeBody reads and unmarshals a size-limited JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		return domain.ErrInvalidInput
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}
