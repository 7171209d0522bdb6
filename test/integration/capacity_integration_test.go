package integration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"creative-flow-be/internal/config"
	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/model"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"
	"creative-flow-be/internal/service"
	"creative-flow-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.PaymentEvent{},
		&model.WaitlistEntry{},
	))

	// Each run starts from a clean slate.
	require.NoError(t, db.Exec(
		`TRUNCATE waitlist_entries, payment_events, subscriptions, plans, users CASCADE`,
	).Error)

	return db
}

func newBillingStack(db *gorm.DB, maxPaid int) (service.IBillingService, service.IWaitlistService, unitofwork.RepositoryFactory) {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	capacity := service.NewCapacityService(uowFactory, nil, maxPaid)
	waitlist := service.NewWaitlistService(uowFactory, nil, testLogger{})
	billing := service.NewBillingService(
		uowFactory,
		capacity,
		waitlist,
		nil,
		nil,
		config.BillingConfig{MaxPaidUsers: maxPaid},
		testLogger{},
	)
	return billing, waitlist, uowFactory
}

func seedUserAndPlan(t *testing.T, uowFactory unitofwork.RepositoryFactory, emails []string) (*entity.Plan, []*entity.User) {
	t.Helper()
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	plan := &entity.Plan{
		Id:            uuid.New(),
		Name:          "Pro",
		Slug:          "pro",
		Price:         19.99,
		BillingPeriod: entity.BillingPeriodMonthly,
		IsActive:      true,
	}
	require.NoError(t, uow.SubscriptionRepository().CreatePlan(ctx, plan))

	var users []*entity.User
	for _, email := range emails {
		user := &entity.User{
			Id:        uuid.New(),
			Email:     email,
			FullName:  "Integration User",
			Role:      entity.UserRoleUser,
			Status:    entity.UserStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		users = append(users, user)
	}
	return plan, users
}

// TestConcurrentAdmissions races more checkouts than there are slots and
// verifies the advisory lock keeps the paid count at the ceiling.
func TestConcurrentAdmissions(t *testing.T) {
	db := setupDB(t)

	const maxPaid = 2
	const contenders = 5

	var emails []string
	for i := 0; i < contenders; i++ {
		emails = append(emails, fmt.Sprintf("racer-%d@example.com", i))
	}

	billing, _, uowFactory := newBillingStack(db, maxPaid)
	_, users := seedUserAndPlan(t, uowFactory, emails)

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i, user := range users {
		wg.Add(1)
		go func(i int, userId uuid.UUID) {
			defer wg.Done()
			results[i] = billing.HandleCheckoutCompleted(context.Background(), &dto.CheckoutCompletedEvent{
				EventId:        fmt.Sprintf("evt-race-%d", i),
				SessionId:      fmt.Sprintf("sess-%d", i),
				SubscriptionId: fmt.Sprintf("sub-race-%d", i),
				UserId:         userId,
				PlanSlug:       "pro",
				Amount:         19.99,
			})
		}(i, user.Id)
	}
	wg.Wait()

	admitted, rejected := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, service.ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, maxPaid, admitted)
	assert.Equal(t, contenders-maxPaid, rejected)

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	count, err := uow.SubscriptionRepository().CountActivePaid(ctx)
	require.NoError(t, err)
	assert.Equal(t, maxPaid, count)

	// Every loser is waitlisted and their rejection audited.
	waitlisted, err := uow.WaitlistRepository().Count(ctx,
		specification.ByStatus{Status: string(entity.WaitlistStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, int64(contenders-maxPaid), waitlisted)

	rejections, err := uow.PaymentEventRepository().Count(ctx,
		specification.Filter{Column: "status", Value: entity.PaymentEventStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, int64(contenders-maxPaid), rejections)
}

// TestConcurrentDuplicateDelivery races two deliveries of the same event and
// verifies exactly one admission and one audit row survive.
func TestConcurrentDuplicateDelivery(t *testing.T) {
	db := setupDB(t)

	billing, _, uowFactory := newBillingStack(db, 10)
	_, users := seedUserAndPlan(t, uowFactory, []string{"dup@example.com"})

	evt := &dto.CheckoutCompletedEvent{
		EventId:        "evt-dup-race",
		SubscriptionId: "sub-dup-race",
		UserId:         users[0].Id,
		PlanSlug:       "pro",
		Amount:         19.99,
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := billing.HandleCheckoutCompleted(context.Background(), evt)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: users[0].Id})
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	audits, err := uow.PaymentEventRepository().Count(ctx,
		specification.Filter{Column: "external_event_id", Value: "evt-dup-race"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), audits)
}

// TestWaitlistRoundTrip walks an entry through join, notify-ready expiry
// sweep and conversion against the real database.
func TestWaitlistRoundTrip(t *testing.T) {
	db := setupDB(t)

	_, waitlist, uowFactory := newBillingStack(db, 10)
	ctx := context.Background()

	res, err := waitlist.Add(ctx, &dto.WaitlistJoinRequest{Email: "trip@example.com", Name: "Trip"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Position)

	// Duplicate join trips the unique index path.
	_, err = waitlist.Add(ctx, &dto.WaitlistJoinRequest{Email: "trip@example.com"})
	assert.ErrorIs(t, err, service.ErrAlreadyOnWaitlist)

	require.NoError(t, waitlist.MarkConverted(ctx, "trip@example.com"))

	uow := uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.WaitlistRepository().FindOne(ctx, specification.ByEmail{Email: "trip@example.com"})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, entity.WaitlistStatusConverted, entry.Status)
}
