package article

import (
	"log/slog"
	"net/http"
	"time"

	"article-store/internal/handler/http/respond"
	"article-store/internal/observability/logging"
	artUC "article-store/internal/usecase/article"
)

type ListHandler struct{ Svc artUC.Service }

// ServeHTTP 記事一覧取得
// @Summary      記事一覧取得
// @Description  登録されている記事を作成日時の新しい順に取得します
// @Tags         articles
// @Produce      json
// @Success      200 {array} DTO "記事一覧"
// @Failure      503 {string} string "Store unavailable"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.FromContext(ctx)

	articles, err := h.Svc.List(ctx)
	if err != nil {
		logger.Error("Failed to list articles", slog.Any("error", err))
		respond.SafeError(w, statusFor(err), err)
		return
	}

	out := make([]DTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}

	logger.Debug("Article list response",
		slog.Int("returned_count", len(out)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	respond.JSON(w, http.StatusOK, out)
}
