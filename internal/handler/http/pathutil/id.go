package pathutil

import (
	"errors"
	"net/http"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// maxIDLength bounds path IDs before they reach the service layer.
const maxIDLength = 64

// ExtractID returns the path wildcard named key from a request routed by
// http.ServeMux (e.g. "GET /articles/{id}").
//
// Returns ErrInvalidID if the segment is empty, too long, or contains
// characters other than ASCII letters, digits and '-'.
//
// Example:
//
//	mux.HandleFunc("GET /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    id, err := pathutil.ExtractID(r, "id")
//	})
func ExtractID(r *http.Request, key string) (string, error) {
	id := strings.TrimSpace(r.PathValue(key))
	if id == "" || len(id) > maxIDLength {
		return "", ErrInvalidID
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-':
		default:
			return "", ErrInvalidID
		}
	}
	return id, nil
}
