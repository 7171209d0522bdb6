package unitofwork

import (
	"context"

	"creative-flow-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Between
// Begin and Commit/Rollback every repository it hands out shares the same
// database transaction; outside a transaction they run on the pooled
// connection. The checkout admission path relies on this to make its
// capacity count and subscription upsert one atomic unit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	PaymentEventRepository() contract.PaymentEventRepository
	WaitlistRepository() contract.WaitlistRepository
}
