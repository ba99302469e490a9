package article

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"article-store/internal/handler/http/respond"
)

// decodeJSON decodes the request body into v and writes the error response on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.JSON(w, http.StatusRequestEntityTooLarge,
				map[string]string{"error": fmt.Sprintf("request body must be at most %d bytes", maxErr.Limit)})
			return false
		}
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}
