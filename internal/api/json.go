package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the uniform failure shape. The message never reveals
// ownership details; "not found" covers both missing and not-owned.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Success: false, Error: msg})
}

// decodeJSON strictly decodes a single JSON value, rejecting unknown fields.
// Used on the auth endpoints.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	return decode(w, r, maxBytes, dst, true)
}

// decodeJSONLenient tolerates unknown fields. Used on record creation, where
// client-supplied server-owned fields are ignored rather than rejected.
func decodeJSONLenient(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	return decode(w, r, maxBytes, dst, false)
}

func decode(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any, strict bool) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there is no extra data after the first JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
