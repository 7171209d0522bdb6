package service

import (
	"context"
	"sort"
	"sync"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/contract"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"

	"creative-flow-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The fakes below back every service test: an in-memory store per table,
// with just enough specification interpretation for the queries the
// services actually issue.

type fixtureStore struct {
	users    []*entity.User
	plans    []*entity.Plan
	subs     []*entity.Subscription
	payments []*entity.PaymentEvent
	waitlist []*entity.WaitlistEntry

	maxPaidUsers int

	// Injection points shared across every unit of work the factory hands
	// out.
	lockCalls      int
	countOverride  func() (int, error)
	createSubError error
}

func newFixtureStore(maxPaidUsers int) *fixtureStore {
	return &fixtureStore{maxPaidUsers: maxPaidUsers}
}

// --- User repository ---

type fakeUserRepo struct{ store *fixtureStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	for i, u := range r.store.users {
		if u.Id == user.Id {
			r.store.users[i] = user
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	var kept []*entity.User
	for _, u := range r.store.users {
		if u.Id != id {
			kept = append(kept, u)
		}
	}
	r.store.users = kept
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var res []*entity.User
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r *fakeUserRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(context.Background(), specs...)
	return int64(len(all)), nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != sp.Email {
				return false
			}
		}
	}
	return true
}

// --- Subscription repository ---

type fakeSubscriptionRepo struct {
	store *fixtureStore
}

func (r *fakeSubscriptionRepo) CreatePlan(_ context.Context, plan *entity.Plan) error {
	r.store.plans = append(r.store.plans, plan)
	return nil
}

func (r *fakeSubscriptionRepo) FindOnePlan(_ context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	for _, p := range r.store.plans {
		if planMatches(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAllPlans(_ context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	var res []*entity.Plan
	for _, p := range r.store.plans {
		if planMatches(p, specs) {
			res = append(res, p)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].SortOrder < res[j].SortOrder })
	return res, nil
}

func planMatches(p *entity.Plan, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if p.Id != sp.ID {
				return false
			}
		case specification.ByPlanSlug:
			if p.Slug != sp.Slug {
				return false
			}
		case specification.Filter:
			if sp.Column == "is_active" && p.IsActive != sp.Value.(bool) {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) CreateSubscription(_ context.Context, sub *entity.Subscription) error {
	if r.store.createSubError != nil {
		return r.store.createSubError
	}
	r.store.subs = append(r.store.subs, sub)
	return nil
}

func (r *fakeSubscriptionRepo) UpdateSubscription(_ context.Context, sub *entity.Subscription) error {
	for i, s := range r.store.subs {
		if s.Id == sub.Id {
			r.store.subs[i] = sub
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) FindOneSubscription(_ context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	for _, s := range r.store.subs {
		if subMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAllSubscriptions(_ context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var res []*entity.Subscription
	for _, s := range r.store.subs {
		if subMatches(s, specs) {
			res = append(res, s)
		}
	}
	return res, nil
}

func subMatches(s *entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if s.UserId != sp.UserID {
				return false
			}
		case specification.ByExternalSubscriptionID:
			if s.ExternalSubscriptionId == nil || *s.ExternalSubscriptionId != sp.ExternalID {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) CountActivePaid(_ context.Context) (int, error) {
	if r.store.countOverride != nil {
		return r.store.countOverride()
	}
	count := 0
	for _, s := range r.store.subs {
		if s.Status != entity.SubscriptionStatusActive {
			continue
		}
		plan, _ := r.FindOnePlan(context.Background(), specification.ByID{ID: s.PlanId})
		if plan == nil || !plan.IsPaid() {
			continue
		}
		owner := findUser(r.store, s.UserId)
		if owner != nil && owner.Role == entity.UserRoleAdmin {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) AcquireCapacityLock(_ context.Context) error {
	r.store.lockCalls++
	return nil
}

func findUser(store *fixtureStore, id uuid.UUID) *entity.User {
	for _, u := range store.users {
		if u.Id == id {
			return u
		}
	}
	return nil
}

// --- Payment event repository ---

type fakePaymentEventRepo struct{ store *fixtureStore }

func (r *fakePaymentEventRepo) Create(_ context.Context, event *entity.PaymentEvent) error {
	for _, e := range r.store.payments {
		if e.ExternalEventId == event.ExternalEventId {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.payments = append(r.store.payments, event)
	return nil
}

func (r *fakePaymentEventRepo) ExistsByExternalId(_ context.Context, externalEventId string) (bool, error) {
	for _, e := range r.store.payments {
		if e.ExternalEventId == externalEventId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentEventRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error) {
	var res []*entity.PaymentEvent
	for _, e := range r.store.payments {
		if paymentMatches(e, specs) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (r *fakePaymentEventRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(context.Background(), specs...)
	return int64(len(all)), nil
}

func paymentMatches(e *entity.PaymentEvent, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.Filter:
			if sp.Column == "event_type" && e.EventType != sp.Value.(string) {
				return false
			}
		case specification.CreatedAfter:
			if !e.CreatedAt.After(sp.Time) {
				return false
			}
		}
	}
	return true
}

// --- Waitlist repository ---

type fakeWaitlistRepo struct{ store *fixtureStore }

func (r *fakeWaitlistRepo) Create(_ context.Context, entry *entity.WaitlistEntry) error {
	for _, e := range r.store.waitlist {
		if e.Email == entry.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.waitlist = append(r.store.waitlist, entry)
	return nil
}

func (r *fakeWaitlistRepo) Update(_ context.Context, entry *entity.WaitlistEntry) error {
	for i, e := range r.store.waitlist {
		if e.Id == entry.Id {
			r.store.waitlist[i] = entry
		}
	}
	return nil
}

func (r *fakeWaitlistRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.WaitlistEntry, error) {
	for _, e := range r.store.waitlist {
		if waitlistMatches(e, specs) {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeWaitlistRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.WaitlistEntry, error) {
	var res []*entity.WaitlistEntry
	limit, offset := 0, 0
	for _, s := range specs {
		if p, ok := s.(specification.Paginate); ok {
			limit, offset = p.Limit, p.Offset
		}
	}
	for _, e := range r.store.waitlist {
		if waitlistMatches(e, specs) {
			res = append(res, e)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(res) {
			return nil, nil
		}
		res = res[offset:]
	}
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakeWaitlistRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	count := int64(0)
	for _, e := range r.store.waitlist {
		if waitlistMatches(e, specs) {
			count++
		}
	}
	return count, nil
}

func waitlistMatches(e *entity.WaitlistEntry, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByEmail:
			if e.Email != sp.Email {
				return false
			}
		case specification.ByStatus:
			if string(e.Status) != sp.Status {
				return false
			}
		case specification.NotifiedBefore:
			if e.NotifiedAt == nil || !e.NotifiedAt.Before(sp.Time) {
				return false
			}
		}
	}
	return true
}

// --- Unit of work ---

type fakeUnitOfWork struct {
	store *fixtureStore

	subRepo *fakeSubscriptionRepo

	begins    int
	commits   int
	rollbacks int
	inTx      bool
}

func newFakeUnitOfWork(store *fixtureStore) *fakeUnitOfWork {
	return &fakeUnitOfWork{
		store:   store,
		subRepo: &fakeSubscriptionRepo{store: store},
	}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	u.begins++
	u.inTx = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.commits++
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.inTx {
		u.rollbacks++
		u.inTx = false
	}
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return u.subRepo
}

func (u *fakeUnitOfWork) PaymentEventRepository() contract.PaymentEventRepository {
	return &fakePaymentEventRepo{store: u.store}
}

func (u *fakeUnitOfWork) WaitlistRepository() contract.WaitlistRepository {
	return &fakeWaitlistRepo{store: u.store}
}

type fakeFactory struct {
	store *fixtureStore
	last  *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	f.last = newFakeUnitOfWork(f.store)
	return f.last
}

// --- Collaborator fakes ---

type fakeEventBus struct{ published []events.Event }

func (b *fakeEventBus) Publish(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) typesPublished() []string {
	var types []string
	for _, e := range b.published {
		types = append(types, e.EventType())
	}
	return types
}

type fakeInviteQueue struct{ payloads [][]byte }

func (q *fakeInviteQueue) Publish(_ context.Context, payload []byte) error {
	q.payloads = append(q.payloads, payload)
	return nil
}

// fakeMailer is mutex-guarded: the consumer test reads it from the test
// goroutine while the worker writes from its own.
type fakeMailer struct {
	mu      sync.Mutex
	invites []string
	failed  []string
}

func (m *fakeMailer) SendWaitlistInvite(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, toEmail)
	return nil
}

func (m *fakeMailer) SendPaymentFailed(toEmail string, _ float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, toEmail)
	return nil
}

func (m *fakeMailer) sentInvites() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invites...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
