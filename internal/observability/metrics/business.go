package metrics

import (
	"context"
	"errors"
	"time"

	"article-store/internal/repository"
)

// Engine operation statuses.
const (
	StatusSuccess    = "success"
	StatusConstraint = "constraint"
	StatusCanceled   = "canceled"
	StatusError      = "error"
)

// RecordArticleCreated records one article stored through the service.
func RecordArticleCreated() {
	ArticlesCreatedTotal.Inc()
}

// RecordCommentAdded records one comment attached to an article.
func RecordCommentAdded() {
	CommentsAddedTotal.Inc()
}

// RecordEngineOperation records the outcome and latency of one engine call.
func RecordEngineOperation(table repository.Table, operation string, duration time.Duration, err error) {
	EngineOperationsTotal.WithLabelValues(string(table), operation, engineStatus(err)).Inc()
	EngineOperationDuration.WithLabelValues(string(table), operation).Observe(duration.Seconds())
}

// engineStatus classifies an engine error into a low-cardinality label.
func engineStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, repository.ErrConstraint):
		return StatusConstraint
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
