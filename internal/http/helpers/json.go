// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/labauth/internal/http/errors"
)

// MaxBodyBytes es el límite por defecto del body JSON.
const MaxBodyBytes int64 = 1 << 20

// ReadJSON decodifica el body de forma estricta: campos desconocidos,
// basura al final o body vacío son error. Si falla ya escribió la respuesta
// y devuelve false.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, false)
}

// ReadOptionalJSON es como ReadJSON pero acepta body vacío.
func ReadOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	if r.Body == nil || r.Body == http.NoBody {
		if allowEmpty {
			return true
		}
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail("body required"))
		return false
	}
	if ct := strings.ToLower(r.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "application/json") {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("Content-Type must be application/json"))
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return true
		case errors.As(err, &maxErr):
			httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail(strings.TrimPrefix(err.Error(), "json: ")))
		default:
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("invalid type for field "+typeErr.Field))
				return false
			}
			httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		}
		return false
	}
	if dec.More() {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithDetail("trailing data after JSON object"))
		return false
	}
	return true
}

// WriteJSON escribe una respuesta JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Envelope es la forma {success, data} usada por la API administrativa.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteData escribe {success: true, data: v}.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Envelope{Success: true, Data: v})
}
