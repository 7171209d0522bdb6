package contract

import (
	"context"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/specification"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *entity.WaitlistEntry) error
	Update(ctx context.Context, entry *entity.WaitlistEntry) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WaitlistEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WaitlistEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
