package article

import (
	"net/http"

	"article-store/internal/handler/http/pathutil"
	"article-store/internal/handler/http/respond"
	artUC "article-store/internal/usecase/article"
)

type AddCommentHandler struct{ Svc artUC.Service }

// ServeHTTP コメント投稿
// @Summary      コメント投稿
// @Description  指定された記事にコメントを追加します
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id      path string         true "記事ID (ULID / UUID)"
// @Param        comment body CommentRequest true "コメント"
// @Success      201 {object} CommentDTO "作成されたコメント"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - article not found"
// @Failure      413 {string} string "Request body too large"
// @Failure      503 {string} string "Store unavailable"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles/{id}/comments [post]
func (h AddCommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Svc.AddComment(r.Context(), id, req.Text)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, toCommentDTO(comment))
}

type ListCommentsHandler struct{ Svc artUC.Service }

// ServeHTTP コメント一覧取得
// @Summary      コメント一覧取得
// @Description  指定された記事のコメントを投稿順に取得します
// @Tags         comments
// @Produce      json
// @Param        id path string true "記事ID (ULID / UUID)"
// @Success      200 {array} CommentDTO "コメント一覧"
// @Failure      400 {string} string "Bad request - invalid article ID"
// @Failure      503 {string} string "Store unavailable"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles/{id}/comments [get]
func (h ListCommentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	comments, err := h.Svc.ListComments(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}
