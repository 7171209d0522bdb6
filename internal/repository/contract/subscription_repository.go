package contract

import (
	"context"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/specification"
)

type SubscriptionRepository interface {
	// Plans (immutable reference data)
	CreatePlan(ctx context.Context, plan *entity.Plan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, subscription *entity.Subscription) error
	UpdateSubscription(ctx context.Context, subscription *entity.Subscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)

	// CountActivePaid counts subscriptions holding a capacity slot:
	// status=active, plan is non-free and the owning user is not an admin.
	CountActivePaid(ctx context.Context) (int, error)

	// AcquireCapacityLock takes a transaction-scoped advisory lock that
	// serializes concurrent admissions. Must be called inside an open
	// transaction; the lock releases on commit or rollback.
	AcquireCapacityLock(ctx context.Context) error
}
