// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"go.uber.org/zap"
)

// EventQuerier is the read side of audit.Store.
type EventQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Store    EventQuerier
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	PageSize int
}

// NewHandler constructs an Audit Log feature handler reading from store.
func NewHandler(store EventQuerier, errLog *uierrors.ErrorLogger, logger *zap.Logger, pageSize int) *Handler {
	return &Handler{
		Store:    store,
		ErrLog:   errLog,
		Log:      logger,
		PageSize: pageSize,
	}
}
