package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"

	"creative-flow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifierFixture struct {
	store    *fixtureStore
	queue    *fakeInviteQueue
	bus      *fakeEventBus
	notifier INotifierService
}

func newNotifierFixture(maxPaid int) *notifierFixture {
	store := newFixtureStore(maxPaid)
	factory := &fakeFactory{store: store}
	queue := &fakeInviteQueue{}
	bus := &fakeEventBus{}

	capacity := NewCapacityService(factory, nil, maxPaid)
	notifier := NewNotifierService(factory, capacity, queue, bus, nopLogger{})

	return &notifierFixture{store: store, queue: queue, bus: bus, notifier: notifier}
}

func (f *notifierFixture) seedPending(email string, age time.Duration) {
	f.store.waitlist = append(f.store.waitlist, &entity.WaitlistEntry{
		Id:        uuid.New(),
		Email:     email,
		Status:    entity.WaitlistStatusPending,
		CreatedAt: time.Now().Add(-age),
	})
}

func (f *notifierFixture) occupySlots(n int) {
	plan := &entity.Plan{Id: uuid.New(), Name: "Pro", Slug: "pro", IsActive: true}
	f.store.plans = append(f.store.plans, plan)
	for i := 0; i < n; i++ {
		user := &entity.User{Id: uuid.New(), Email: uuid.NewString() + "@example.com", Role: entity.UserRoleUser}
		f.store.users = append(f.store.users, user)
		f.store.subs = append(f.store.subs, &entity.Subscription{
			Id:     uuid.New(),
			UserId: user.Id,
			PlanId: plan.Id,
			Status: entity.SubscriptionStatusActive,
		})
	}
}

func TestNotifyNext_PromotesOldestFirst(t *testing.T) {
	f := newNotifierFixture(10)
	f.seedPending("oldest@example.com", 3*time.Hour)
	f.seedPending("middle@example.com", 2*time.Hour)
	f.seedPending("newest@example.com", time.Hour)

	notified, err := f.notifier.NotifyNext(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, notified)

	assert.Equal(t, entity.WaitlistStatusNotified, f.store.waitlist[0].Status)
	assert.NotNil(t, f.store.waitlist[0].NotifiedAt)
	assert.Equal(t, entity.WaitlistStatusNotified, f.store.waitlist[1].Status)
	assert.Equal(t, entity.WaitlistStatusPending, f.store.waitlist[2].Status)

	require.Len(t, f.queue.payloads, 2)
	var msg dto.WaitlistInviteMessage
	require.NoError(t, json.Unmarshal(f.queue.payloads[0], &msg))
	assert.Equal(t, "oldest@example.com", msg.Email)

	assert.Equal(t, []string{events.TypeWaitlistNotified, events.TypeWaitlistNotified}, f.bus.typesPublished())
}

func TestNotifyNext_CappedByFreeSlots(t *testing.T) {
	f := newNotifierFixture(3)
	f.occupySlots(2) // one slot left
	f.seedPending("a@example.com", 2*time.Hour)
	f.seedPending("b@example.com", time.Hour)

	notified, err := f.notifier.NotifyNext(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	assert.Len(t, f.queue.payloads, 1)
}

func TestNotifyNext_NoFreeSlots(t *testing.T) {
	f := newNotifierFixture(2)
	f.occupySlots(2)
	f.seedPending("a@example.com", time.Hour)

	notified, err := f.notifier.NotifyNext(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, notified)
	assert.Empty(t, f.queue.payloads)
	assert.Equal(t, entity.WaitlistStatusPending, f.store.waitlist[0].Status)
}

func TestNotifyNext_EmptyWaitlist(t *testing.T) {
	f := newNotifierFixture(10)

	notified, err := f.notifier.NotifyNext(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, notified)
}
