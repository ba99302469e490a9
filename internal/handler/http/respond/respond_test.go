package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-store/internal/domain/entity"
	"article-store/internal/repository"
)

/* ───────── 1. JSON ───────── */

func TestJSON(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		code     int
		data     any
		wantBody string
	}{
		{
			name: "article payload",
			code: http.StatusCreated,
			data: struct {
				ID      string    `json:"id"`
				Title   string    `json:"title"`
				Created time.Time `json:"created"`
			}{ID: "01JABCDEFGHJKMNPQRSTVWXYZ0", Title: "T", Created: created},
			wantBody: `{"id":"01JABCDEFGHJKMNPQRSTVWXYZ0","title":"T","created":"2026-10-16T09:30:00Z"}`,
		},
		{
			name:     "empty comment list",
			code:     http.StatusOK,
			data:     []string{},
			wantBody: `[]`,
		},
		{
			name: "nil writes headers only",
			code: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.wantBody == "" {
				assert.Zero(t, w.Body.Len())
				return
			}
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"created": make(chan int)})

	// ヘッダー送信後なのでステータスは変えられない
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

/* ───────── 2. SafeError ───────── */

func TestSafeError(t *testing.T) {
	storageErr := &repository.StorageError{
		Op:    "Insert",
		Table: repository.CommentTable,
		Err:   errors.New("dial tcp: postgres://app:secret123@db:5432/articles: connection refused"),
	}

	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{
			name:    "title required",
			code:    http.StatusBadRequest,
			err:     fmt.Errorf("validate title: %w", &entity.ValidationError{Field: "title", Message: "title is required"}),
			wantMsg: "validate title: validation error on field 'title': title is required",
		},
		{
			name:    "url scheme",
			code:    http.StatusBadRequest,
			err:     &entity.ValidationError{Field: "url", Message: "URL must use http or https scheme"},
			wantMsg: "validation error on field 'url': URL must use http or https scheme",
		},
		{
			name:    "invalid article id",
			code:    http.StatusBadRequest,
			err:     errors.New("invalid article ID"),
			wantMsg: "invalid article ID",
		},
		{
			name:    "article not found",
			code:    http.StatusNotFound,
			err:     errors.New("article not found"),
			wantMsg: "article not found",
		},
		{
			name:    "comment text too long",
			code:    http.StatusBadRequest,
			err:     errors.New("comment text too long"),
			wantMsg: "comment text too long",
		},
		{
			name:    "storage error hides the DSN",
			code:    http.StatusInternalServerError,
			err:     fmt.Errorf("add comment: %w", storageErr),
			wantMsg: "internal server error",
		},
		{
			name:    "5xx is never echoed even with a safe keyword",
			code:    http.StatusServiceUnavailable,
			err:     errors.New("circuit breaker is open: article not found"),
			wantMsg: "internal server error",
		},
		{
			name:    "unknown 4xx message is masked",
			code:    http.StatusConflict,
			err:     context.Canceled,
			wantMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.NotContains(t, body["error"], "secret123")
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)

	assert.Zero(t, w.Body.Len(), "nil error must not write a body")
}
