package article

import (
	"net/http"

	artUC "article-store/internal/usecase/article"
)

// Register registers all article-related HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc artUC.Service) {
	mux.Handle("GET  /articles", ListHandler{svc})
	mux.Handle("POST /articles", CreateHandler{svc})
	mux.Handle("GET  /articles/{id}", GetHandler{svc})

	mux.Handle("GET  /articles/{id}/comments", ListCommentsHandler{svc})
	mux.Handle("POST /articles/{id}/comments", AddCommentHandler{svc})
}
