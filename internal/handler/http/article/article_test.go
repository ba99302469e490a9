package article_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-store/internal/domain/entity"
	"article-store/internal/handler/http/article"
	"article-store/internal/infra/adapter/persistence/memory"
	"article-store/internal/pkg/idgen"
	"article-store/internal/repository"
	artUC "article-store/internal/usecase/article"
)

/* ───────── ヘルパー ───────── */

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	engine := memory.New()
	ids := idgen.NewULID()
	svc := artUC.Service{
		Articles: repository.NewArticleRepo(engine, ids),
		Comments: repository.NewCommentRepo(engine, ids),
	}
	mux := http.NewServeMux()
	article.Register(mux, svc)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

// 常にエラーを返すリポジトリ
type failingArticles struct{ err error }

func (f failingArticles) Create(context.Context, string, string) (*entity.Article, error) {
	return nil, f.err
}
func (f failingArticles) Get(context.Context, string) (*entity.Article, error) { return nil, f.err }
func (f failingArticles) List(context.Context) ([]*entity.Article, error)      { return nil, f.err }

/* ───────── 1. 記事 ───────── */

func TestCreateHandler_Success(t *testing.T) {
	mux := newMux(t)

	rr := do(t, mux, http.MethodPost, "/articles", `{"title": "T", "url": "https://example.com/u"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	got := decode[article.DTO](t, rr)
	assert.Len(t, got.ID, 26)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "https://example.com/u", got.URL)
	assert.False(t, got.Created.IsZero())
	assert.Equal(t, "/articles/"+got.ID, rr.Header().Get("Location"))
}

func TestCreateHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"url": "https://example.com"}`},
		{name: "missing url", body: `{"title": "Test"}`},
		{name: "invalid url", body: `{"title": "Test", "url": "javascript:alert(1)"}`},
		{name: "malformed json", body: `{"title": `},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			newMux(t).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			body := decode[map[string]string](t, rr)
			assert.NotEqual(t, "internal server error", body["error"])
		})
	}
}

func TestCreateHandler_BodyTooLarge(t *testing.T) {
	mux := newMux(t)
	req := httptest.NewRequest(http.MethodPost, "/articles",
		strings.NewReader(`{"title": "`+strings.Repeat("a", 256)+`", "url": "https://example.com"}`))
	rr := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rr, req.Body, 64)

	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestGetHandler(t *testing.T) {
	mux := newMux(t)
	created := decode[article.DTO](t, do(t, mux, http.MethodPost, "/articles", `{"title": "T", "url": "https://example.com/u"}`))

	rr := do(t, mux, http.MethodGet, "/articles/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[article.DTO](t, rr)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, created.Created.Equal(got.Created))

	rr = do(t, mux, http.MethodGet, "/articles/01JZZZZZZZZZZZZZZZZZZZZZZZ", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, mux, http.MethodGet, "/articles/42", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListHandler_NewestFirst(t *testing.T) {
	engine := memory.New(memory.WithClock(steppingClock()))
	ids := idgen.NewULID()
	mux := http.NewServeMux()
	article.Register(mux, artUC.Service{
		Articles: repository.NewArticleRepo(engine, ids),
		Comments: repository.NewCommentRepo(engine, ids),
	})

	rr := do(t, mux, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	for _, title := range []string{"first", "second", "third"} {
		do(t, mux, http.MethodPost, "/articles", `{"title": "`+title+`", "url": "https://example.com/`+title+`"}`)
	}

	list := decode[[]article.DTO](t, do(t, mux, http.MethodGet, "/articles", ""))
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "second", list[1].Title)
	assert.Equal(t, "first", list[2].Title)
}

func TestListHandler_StoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "store failure", err: errors.New("connection refused"), want: http.StatusInternalServerError},
		{name: "circuit open", err: gobreaker.ErrOpenState, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := article.ListHandler{Svc: artUC.Service{Articles: failingArticles{err: tt.err}}}
			rr := do(t, h, http.MethodGet, "/articles", "")

			assert.Equal(t, tt.want, rr.Code)
			body := decode[map[string]string](t, rr)
			assert.Equal(t, "internal server error", body["error"])
		})
	}
}

func TestGetHandler_StoreReportsNotFound(t *testing.T) {
	h := article.GetHandler{Svc: artUC.Service{
		Articles: failingArticles{err: fmt.Errorf("lookup: %w", entity.ErrNotFound)},
	}}
	req := httptest.NewRequest(http.MethodGet, "/articles/01JZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	req.SetPathValue("id", "01JZZZZZZZZZZZZZZZZZZZZZZZ")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.True(t, errors.Is(artUC.ErrArticleNotFound, entity.ErrNotFound))
}

/* ───────── 2. コメント ───────── */

func TestCommentHandlers_Scenario(t *testing.T) {
	mux := newMux(t)
	a := decode[article.DTO](t, do(t, mux, http.MethodPost, "/articles", `{"title": "T", "url": "https://example.com/u"}`))
	b := decode[article.DTO](t, do(t, mux, http.MethodPost, "/articles", `{"title": "Other", "url": "https://example.com/o"}`))

	for _, text := range []string{"hello", "world"} {
		rr := do(t, mux, http.MethodPost, "/articles/"+a.ID+"/comments", `{"text": "`+text+`"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		c := decode[article.CommentDTO](t, rr)
		assert.Equal(t, a.ID, c.ArticleID)
		assert.Equal(t, text, c.Text)
	}

	list := decode[[]article.CommentDTO](t, do(t, mux, http.MethodGet, "/articles/"+a.ID+"/comments", ""))
	require.Len(t, list, 2)
	assert.Equal(t, "hello", list[0].Text)
	assert.Equal(t, "world", list[1].Text)

	rr := do(t, mux, http.MethodGet, "/articles/"+b.ID+"/comments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	// 存在しない記事のコメント一覧も空配列 (記事の存在確認はしない)
	rr = do(t, mux, http.MethodGet, "/articles/01JZZZZZZZZZZZZZZZZZZZZZZZ/comments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestAddCommentHandler_Errors(t *testing.T) {
	mux := newMux(t)
	a := decode[article.DTO](t, do(t, mux, http.MethodPost, "/articles", `{"title": "T", "url": "https://example.com/u"}`))

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{name: "unknown article", path: "/articles/01JZZZZZZZZZZZZZZZZZZZZZZZ/comments", body: `{"text": "orphan"}`, want: http.StatusNotFound},
		{name: "invalid article id", path: "/articles/not-an-id/comments", body: `{"text": "x"}`, want: http.StatusBadRequest},
		{name: "empty text", path: "/articles/" + a.ID + "/comments", body: `{"text": ""}`, want: http.StatusBadRequest},
		{name: "malformed json", path: "/articles/" + a.ID + "/comments", body: `[`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

// steppingClock は呼ばれるたびに 1 秒進む時計を返す
func steppingClock() func() time.Time {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}
