package service

import (
	"context"
	"testing"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWaitlistFixture() (*fixtureStore, IWaitlistService, *fakeEventBus) {
	store := newFixtureStore(100)
	factory := &fakeFactory{store: store}
	bus := &fakeEventBus{}
	return store, NewWaitlistService(factory, bus, nopLogger{}), bus
}

func join(t *testing.T, svc IWaitlistService, email string) *dto.WaitlistJoinResponse {
	t.Helper()
	res, err := svc.Add(context.Background(), &dto.WaitlistJoinRequest{Email: email})
	require.NoError(t, err)
	return res
}

func TestWaitlistAdd_AssignsPositionsInJoinOrder(t *testing.T) {
	store, svc, bus := newWaitlistFixture()

	// Joins get spaced timestamps through the store directly to keep the
	// ordering deterministic.
	first := join(t, svc, "first@example.com")
	store.waitlist[0].CreatedAt = time.Now().Add(-2 * time.Minute)
	second := join(t, svc, "second@example.com")
	store.waitlist[1].CreatedAt = time.Now().Add(-1 * time.Minute)
	third := join(t, svc, "third@example.com")

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)
	assert.Len(t, bus.published, 3)
}

func TestWaitlistAdd_NormalizesEmail(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "  MiXeD@Example.COM ")
	require.Len(t, store.waitlist, 1)
	assert.Equal(t, "mixed@example.com", store.waitlist[0].Email)

	_, err := svc.Add(context.Background(), &dto.WaitlistJoinRequest{Email: "mixed@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyOnWaitlist)
}

func TestWaitlistAdd_DuplicatePendingRejected(t *testing.T) {
	_, svc, _ := newWaitlistFixture()

	join(t, svc, "dup@example.com")
	_, err := svc.Add(context.Background(), &dto.WaitlistJoinRequest{Email: "dup@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyOnWaitlist)
}

func TestWaitlistAdd_ConvertedNeverRejoins(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "done@example.com")
	store.waitlist[0].Status = entity.WaitlistStatusConverted

	_, err := svc.Add(context.Background(), &dto.WaitlistJoinRequest{Email: "done@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyOnWaitlist)
}

func TestWaitlistAdd_ReactivatesCancelledAtBackOfQueue(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "quitter@example.com")
	store.waitlist[0].CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, svc.Cancel(context.Background(), "quitter@example.com"))

	join(t, svc, "patient@example.com")
	store.waitlist[1].CreatedAt = time.Now().Add(-30 * time.Minute)

	res, err := svc.Add(context.Background(), &dto.WaitlistJoinRequest{Email: "quitter@example.com"})
	require.NoError(t, err)

	// Reactivated in place, not re-inserted, and behind the entry that
	// never left.
	assert.Len(t, store.waitlist, 2)
	assert.Equal(t, 2, res.Position)
	assert.Equal(t, entity.WaitlistStatusPending, store.waitlist[0].Status)
	assert.Nil(t, store.waitlist[0].NotifiedAt)
}

func TestWaitlistGetPosition(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "a@example.com")
	store.waitlist[0].CreatedAt = time.Now().Add(-time.Minute)
	join(t, svc, "b@example.com")

	res, err := svc.GetPosition(context.Background(), "b@example.com")
	require.NoError(t, err)
	require.NotNil(t, res.Position)
	assert.Equal(t, 2, *res.Position)

	_, err = svc.GetPosition(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrWaitlistNotFound)
}

func TestWaitlistCancel(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "leaver@example.com")
	require.NoError(t, svc.Cancel(context.Background(), "leaver@example.com"))
	assert.Equal(t, entity.WaitlistStatusCancelled, store.waitlist[0].Status)

	// Cancelling again is a no-op, not an error.
	assert.NoError(t, svc.Cancel(context.Background(), "leaver@example.com"))

	assert.ErrorIs(t, svc.Cancel(context.Background(), "ghost@example.com"), ErrWaitlistNotFound)
}

func TestWaitlistMarkConverted(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "buyer@example.com")
	require.NoError(t, svc.MarkConverted(context.Background(), "buyer@example.com"))
	assert.Equal(t, entity.WaitlistStatusConverted, store.waitlist[0].Status)

	// Subscribers who never waitlisted convert silently.
	assert.NoError(t, svc.MarkConverted(context.Background(), "direct@example.com"))
}

func TestWaitlistExpireStale(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	old := time.Now().AddDate(0, 0, -10)
	fresh := time.Now().AddDate(0, 0, -2)
	store.waitlist = []*entity.WaitlistEntry{
		{Id: uuid.New(), Email: "stale@example.com", Status: entity.WaitlistStatusNotified, NotifiedAt: &old},
		{Id: uuid.New(), Email: "fresh@example.com", Status: entity.WaitlistStatusNotified, NotifiedAt: &fresh},
		{Id: uuid.New(), Email: "waiting@example.com", Status: entity.WaitlistStatusPending},
	}

	expired, err := svc.ExpireStale(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, entity.WaitlistStatusExpired, store.waitlist[0].Status)
	assert.Equal(t, entity.WaitlistStatusNotified, store.waitlist[1].Status)
	assert.Equal(t, entity.WaitlistStatusPending, store.waitlist[2].Status)
}

func TestWaitlistList_FiltersAndPositions(t *testing.T) {
	store, svc, _ := newWaitlistFixture()

	join(t, svc, "one@example.com")
	store.waitlist[0].CreatedAt = time.Now().Add(-2 * time.Minute)
	join(t, svc, "two@example.com")
	store.waitlist[1].CreatedAt = time.Now().Add(-time.Minute)
	join(t, svc, "three@example.com")
	require.NoError(t, svc.Cancel(context.Background(), "two@example.com"))

	res, err := svc.List(context.Background(), string(entity.WaitlistStatusPending), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Entries, 2)

	require.NotNil(t, res.Entries[0].Position)
	assert.Equal(t, 1, *res.Entries[0].Position)
	assert.Equal(t, "one@example.com", res.Entries[0].Email)
}
