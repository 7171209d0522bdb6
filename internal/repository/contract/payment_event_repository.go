package contract

import (
	"context"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/specification"
)

// PaymentEventRepository is an append-only audit log. Rows are never updated
// or deleted; the unique external event id backs the idempotency guard.
type PaymentEventRepository interface {
	Create(ctx context.Context, event *entity.PaymentEvent) error
	ExistsByExternalId(ctx context.Context, externalEventId string) (bool, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
