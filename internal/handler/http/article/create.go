package article

import (
	"net/http"

	"article-store/internal/handler/http/respond"
	artUC "article-store/internal/usecase/article"
)

type CreateHandler struct{ Svc artUC.Service }

// ServeHTTP 記事作成
// @Summary      記事作成
// @Description  新しい記事を作成します。ID と作成日時はサーバー側で付与されます
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        article body CreateRequest true "記事情報"
// @Success      201 {object} DTO "作成された記事"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      413 {string} string "Request body too large"
// @Failure      503 {string} string "Store unavailable"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.Svc.Create(r.Context(), artUC.CreateInput{
		Title: req.Title,
		URL:   req.URL,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Location", "/articles/"+created.ID)
	respond.JSON(w, http.StatusCreated, toDTO(created))
}
