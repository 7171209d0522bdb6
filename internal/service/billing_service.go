package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creative-flow-be/internal/config"
	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/pkg/logger"
	"creative-flow-be/internal/pkg/mailer"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"

	"creative-flow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

var (
	ErrCapacityExceeded       = errors.New("paid capacity is exhausted")
	ErrPlanNotFound           = errors.New("plan not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrFreePlanNotPurchasable = errors.New("the free plan cannot be purchased")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
)

const planCacheKey = "plans:active"

type IBillingService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	CreateCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)

	// Provider lifecycle events, delivered at-least-once and out of order.
	HandleCheckoutCompleted(ctx context.Context, evt *dto.CheckoutCompletedEvent) error
	HandleInvoicePaid(ctx context.Context, evt *dto.InvoicePaidEvent) error
	HandleInvoicePaymentFailed(ctx context.Context, evt *dto.InvoicePaymentFailedEvent) error
	HandleSubscriptionUpdated(ctx context.Context, evt *dto.SubscriptionUpdatedEvent) error
	HandleSubscriptionDeleted(ctx context.Context, evt *dto.SubscriptionDeletedEvent) error
}

type billingService struct {
	uowFactory      unitofwork.RepositoryFactory
	capacityService ICapacityService
	waitlistService IWaitlistService
	emailService    mailer.IEmailService
	eventPublisher  EventPublisher
	planCache       *gocache.Cache
	cfg             config.BillingConfig
	logger          logger.ILogger
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	capacityService ICapacityService,
	waitlistService IWaitlistService,
	emailService mailer.IEmailService,
	eventPublisher EventPublisher,
	cfg config.BillingConfig,
	log logger.ILogger,
) IBillingService {
	return &billingService{
		uowFactory:      uowFactory,
		capacityService: capacityService,
		waitlistService: waitlistService,
		emailService:    emailService,
		eventPublisher:  eventPublisher,
		planCache:       gocache.New(5*time.Minute, 10*time.Minute),
		cfg:             cfg,
		logger:          log,
	}
}

func (s *billingService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	if cached, found := s.planCache.Get(planCacheKey); found {
		return cached.([]*dto.PlanResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter{Column: "is_active", Value: true},
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	var res []*dto.PlanResponse
	for _, p := range plans {
		features := []string{"Creative Editor"}
		if p.ImageGenerationEnabled {
			features = append(features, "AI Image Generation")
		}
		if p.VideoGenerationEnabled {
			features = append(features, "AI Video Generation")
		}
		if p.ProModeEnabled {
			features = append(features, "Pro Mode")
		}

		res = append(res, &dto.PlanResponse{
			Id:          p.Id,
			Name:        p.Name,
			Slug:        p.Slug,
			Price:       p.Price,
			Description: p.Description,
			Features:    features,
		})
	}

	s.planCache.Set(planCacheKey, res, gocache.DefaultExpiration)
	return res, nil
}

// CreateCheckout opens a hosted payment session for the requested plan. The
// capacity check here is advisory only, to fail fast before the user pays;
// the authoritative check runs under the admission lock when the provider
// confirms the checkout.
func (s *billingService) CreateCheckout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByPlanSlug{Slug: req.PlanSlug})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if !plan.IsPaid() {
		return nil, ErrFreePlanNotPurchasable
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	newAdmission, err := s.isNewAdmission(ctx, uow, user, sub)
	if err != nil {
		return nil, err
	}
	if newAdmission {
		count, err := s.capacityService.CountActivePaid(ctx, uow)
		if err != nil {
			return nil, err
		}
		if count >= s.capacityService.MaxPaidUsers() {
			return nil, ErrCapacityExceeded
		}
	}

	now := time.Now()
	if sub == nil {
		sub = &entity.Subscription{
			Id:                 uuid.New(),
			UserId:             userId,
			PlanId:             plan.Id,
			Status:             entity.SubscriptionStatusInactive,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
			return nil, err
		}
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.cfg.IsProduction {
		env = midtrans.Production
	}
	sClient.New(s.cfg.ServerKey, env)

	finalAmount := int64(plan.Price + (plan.Price * plan.TaxRate))

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.Id.String(),
			GrossAmt: finalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: finalAmount,
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("payment provider error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		SubscriptionId:  sub.Id,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *billingService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.SubscriptionStatusResponse{
			PlanName: "Free",
			PlanSlug: entity.PlanSlugFree,
			Status:   string(entity.SubscriptionStatusInactive),
			IsActive: false,
		}, nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	isActive := sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(time.Now())

	return &dto.SubscriptionStatusResponse{
		SubscriptionId:   sub.Id,
		PlanName:         plan.Name,
		PlanSlug:         plan.Slug,
		Status:           string(sub.Status),
		IsActive:         isActive,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		CancelAtEnd:      sub.CancelAtPeriodEnd,
	}, nil
}

// HandleCheckoutCompleted is the admission path. The capacity count, the
// subscription upsert and the audit row commit as one transaction under the
// admission lock, so two concurrent checkouts can never both take the last
// slot.
func (s *billingService) HandleCheckoutCompleted(ctx context.Context, evt *dto.CheckoutCompletedEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seen, err := uow.PaymentEventRepository().ExistsByExternalId(ctx, evt.EventId)
	if err != nil {
		return err
	}
	if seen {
		s.logger.Info("billing", "duplicate checkout event skipped", map[string]interface{}{"event_id": evt.EventId})
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().AcquireCapacityLock(ctx); err != nil {
		return err
	}

	// Re-check under the lock: a concurrent delivery of the same event may
	// have committed between the fast-path check and here.
	seen, err = uow.PaymentEventRepository().ExistsByExternalId(ctx, evt.EventId)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByPlanSlug{Slug: evt.PlanSlug})
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: evt.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.UserOwnedBy{UserID: evt.UserId})
	if err != nil {
		return err
	}

	newAdmission := plan.IsPaid()
	if newAdmission {
		na, err := s.isNewAdmission(ctx, uow, user, sub)
		if err != nil {
			return err
		}
		newAdmission = na
	}

	if newAdmission {
		count, err := s.capacityService.CountActivePaid(ctx, uow)
		if err != nil {
			return err
		}
		if count >= s.capacityService.MaxPaidUsers() {
			uow.Rollback()
			return s.rejectForCapacity(ctx, evt, user, count)
		}
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		periodEnd = now.AddDate(1, 0, 0)
	}

	isNew := sub == nil
	if isNew {
		sub = &entity.Subscription{
			Id:        uuid.New(),
			UserId:    evt.UserId,
			CreatedAt: now,
		}
	}
	sub.PlanId = plan.Id
	sub.Status = entity.SubscriptionStatusActive
	sub.CurrentPeriodStart = now
	sub.CurrentPeriodEnd = periodEnd
	sub.CancelAtPeriodEnd = false
	if evt.CustomerId != "" {
		sub.ExternalCustomerId = &evt.CustomerId
	}
	if evt.SubscriptionId != "" {
		sub.ExternalSubscriptionId = &evt.SubscriptionId
	}
	sub.UpdatedAt = now

	var persistErr error
	if isNew {
		persistErr = uow.SubscriptionRepository().CreateSubscription(ctx, sub)
	} else {
		persistErr = uow.SubscriptionRepository().UpdateSubscription(ctx, sub)
	}
	if persistErr != nil {
		return persistErr
	}

	audit := &entity.PaymentEvent{
		Id:              uuid.New(),
		SubscriptionId:  &sub.Id,
		ExternalEventId: evt.EventId,
		EventType:       entity.PaymentEventCheckoutCompleted,
		Amount:          evt.Amount,
		Status:          entity.PaymentEventStatusProcessed,
		Metadata: map[string]interface{}{
			"session_id": evt.SessionId,
			"plan_slug":  evt.PlanSlug,
		},
		CreatedAt: now,
	}
	if err := uow.PaymentEventRepository().Create(ctx, audit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent delivery won the race; its commit carries the
			// same state transition.
			return nil
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("billing", "subscription activated", map[string]interface{}{
		"user_id":   evt.UserId.String(),
		"plan_slug": evt.PlanSlug,
		"event_id":  evt.EventId,
	})

	// Post-commit side effects are best effort; the subscription is already
	// durable.
	if err := s.waitlistService.MarkConverted(ctx, user.Email); err != nil {
		s.logger.Warn("billing", "failed to mark waitlist entry converted", map[string]interface{}{
			"email": user.Email,
			"error": err.Error(),
		})
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSubscriptionActivated(evt.UserId.String(), evt.PlanSlug, evt.Amount)); err != nil {
			s.logger.Warn("billing", "failed to publish SUBSCRIPTION_ACTIVATED", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// rejectForCapacity records the refused admission and puts the payer on the
// waitlist. Runs outside the admission transaction: the rejection must
// survive even though the admission rolled back.
func (s *billingService) rejectForCapacity(ctx context.Context, evt *dto.CheckoutCompletedEvent, user *entity.User, count int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	audit := &entity.PaymentEvent{
		Id:              uuid.New(),
		ExternalEventId: evt.EventId,
		EventType:       entity.PaymentEventCapacityExceeded,
		Amount:          evt.Amount,
		Status:          entity.PaymentEventStatusRejected,
		Metadata: map[string]interface{}{
			"user_id":         evt.UserId.String(),
			"plan_slug":       evt.PlanSlug,
			"session_id":      evt.SessionId,
			"paid_user_count": count,
			// The charge already settled; support reconciles these rows
			// against the provider's refund queue.
			"refund_required": true,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.PaymentEventRepository().Create(ctx, audit); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	if _, err := s.waitlistService.Add(ctx, &dto.WaitlistJoinRequest{Email: user.Email, Name: user.FullName}); err != nil && !errors.Is(err, ErrAlreadyOnWaitlist) {
		s.logger.Error("billing", "failed to waitlist rejected checkout", map[string]interface{}{
			"email": user.Email,
			"error": err.Error(),
		})
	}

	s.logger.Warn("billing", "checkout rejected: capacity exhausted", map[string]interface{}{
		"user_id":  evt.UserId.String(),
		"event_id": evt.EventId,
		"count":    count,
	})

	return ErrCapacityExceeded
}

func (s *billingService) HandleInvoicePaid(ctx context.Context, evt *dto.InvoicePaidEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seen, err := uow.PaymentEventRepository().ExistsByExternalId(ctx, evt.EventId)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByExternalSubscriptionID{ExternalID: evt.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		// Invoices only arrive after a checkout admitted the subscription, so
		// a miss here means we have not seen the checkout yet. Fail so the
		// provider redelivers once it has.
		s.logger.Error("billing", "invoice.paid for unknown subscription", map[string]interface{}{
			"external_subscription_id": evt.SubscriptionId,
			"event_id":                 evt.EventId,
		})
		return ErrSubscriptionNotFound
	}

	sub.Status = entity.SubscriptionStatusActive
	if !evt.PeriodStart.IsZero() {
		sub.CurrentPeriodStart = evt.PeriodStart
	}
	if !evt.PeriodEnd.IsZero() {
		sub.CurrentPeriodEnd = evt.PeriodEnd
	}
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	audit := &entity.PaymentEvent{
		Id:              uuid.New(),
		SubscriptionId:  &sub.Id,
		ExternalEventId: evt.EventId,
		EventType:       entity.PaymentEventInvoicePaid,
		Amount:          evt.Amount,
		Status:          entity.PaymentEventStatusProcessed,
		Metadata: map[string]interface{}{
			"invoice_id": evt.InvoiceId,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.PaymentEventRepository().Create(ctx, audit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	return uow.Commit()
}

func (s *billingService) HandleInvoicePaymentFailed(ctx context.Context, evt *dto.InvoicePaymentFailedEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seen, err := uow.PaymentEventRepository().ExistsByExternalId(ctx, evt.EventId)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByExternalSubscriptionID{ExternalID: evt.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		s.logger.Error("billing", "invoice.payment_failed for unknown subscription", map[string]interface{}{
			"external_subscription_id": evt.SubscriptionId,
			"event_id":                 evt.EventId,
		})
		return ErrSubscriptionNotFound
	}

	// A failed renewal parks the subscription in past_due; the slot stays
	// occupied until the provider gives up and ends the subscription.
	sub.Status = entity.SubscriptionStatusPastDue
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	audit := &entity.PaymentEvent{
		Id:              uuid.New(),
		SubscriptionId:  &sub.Id,
		ExternalEventId: evt.EventId,
		EventType:       entity.PaymentEventInvoiceFailed,
		Amount:          evt.AmountDue,
		Status:          entity.PaymentEventStatusProcessed,
		Metadata: map[string]interface{}{
			"invoice_id":    evt.InvoiceId,
			"attempt_count": evt.AttemptCount,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.PaymentEventRepository().Create(ctx, audit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err == nil && user != nil && s.emailService != nil {
		if err := s.emailService.SendPaymentFailed(user.Email, evt.AmountDue); err != nil {
			s.logger.Warn("billing", "failed to send payment-failed notice", map[string]interface{}{
				"email": user.Email,
				"error": err.Error(),
			})
		}
	}
	if s.eventPublisher != nil {
		evtOut := events.BaseEvent{
			Type: events.TypeSubscriptionPastDue,
			Data: map[string]interface{}{
				"user_id":    sub.UserId.String(),
				"amount_due": evt.AmountDue,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evtOut); err != nil {
			s.logger.Warn("billing", "failed to publish SUBSCRIPTION_PAST_DUE", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// HandleSubscriptionUpdated mirrors the provider's current view of the
// subscription. Updates carry full state, so the newest delivery always
// wins and deduplication is deliberately skipped; no audit row is written
// because redeliveries would collide on the event id.
func (s *billingService) HandleSubscriptionUpdated(ctx context.Context, evt *dto.SubscriptionUpdatedEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByExternalSubscriptionID{ExternalID: evt.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		s.logger.Warn("billing", "subscription.updated for unknown subscription", map[string]interface{}{
			"external_subscription_id": evt.SubscriptionId,
		})
		return nil
	}

	sub.Status = MapProviderStatus(evt.ProviderStatus)
	if !evt.PeriodStart.IsZero() {
		sub.CurrentPeriodStart = evt.PeriodStart
	}
	if !evt.PeriodEnd.IsZero() {
		sub.CurrentPeriodEnd = evt.PeriodEnd
	}
	sub.CancelAtPeriodEnd = evt.CancelAtEnd
	sub.UpdatedAt = time.Now()

	return uow.SubscriptionRepository().UpdateSubscription(ctx, sub)
}

func (s *billingService) HandleSubscriptionDeleted(ctx context.Context, evt *dto.SubscriptionDeletedEvent) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seen, err := uow.PaymentEventRepository().ExistsByExternalId(ctx, evt.EventId)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByExternalSubscriptionID{ExternalID: evt.SubscriptionId})
	if err != nil {
		return err
	}
	if sub == nil {
		s.logger.Error("billing", "subscription.deleted for unknown subscription", map[string]interface{}{
			"external_subscription_id": evt.SubscriptionId,
			"event_id":                 evt.EventId,
		})
		return ErrSubscriptionNotFound
	}

	sub.Status = entity.SubscriptionStatusCanceled
	sub.CancelAtPeriodEnd = false
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	audit := &entity.PaymentEvent{
		Id:              uuid.New(),
		SubscriptionId:  &sub.Id,
		ExternalEventId: evt.EventId,
		EventType:       entity.PaymentEventSubscriptionEnded,
		Status:          entity.PaymentEventStatusProcessed,
		CreatedAt:       time.Now(),
	}
	if err := uow.PaymentEventRepository().Create(ctx, audit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("billing", "subscription ended, slot released", map[string]interface{}{
		"user_id": sub.UserId.String(),
	})

	if s.eventPublisher != nil {
		evtOut := events.BaseEvent{
			Type: events.TypeSubscriptionCanceled,
			Data: map[string]interface{}{
				"user_id": sub.UserId.String(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evtOut); err != nil {
			s.logger.Warn("billing", "failed to publish SUBSCRIPTION_CANCELED", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// isNewAdmission reports whether activating a paid plan for this user would
// consume a capacity slot. Admins and users whose current subscription is an
// active paid one (plan changes, renewals) already hold or never need a slot.
func (s *billingService) isNewAdmission(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, sub *entity.Subscription) (bool, error) {
	if user.Role == entity.UserRoleAdmin {
		return false, nil
	}
	if sub == nil || sub.Status != entity.SubscriptionStatusActive {
		return true, nil
	}
	currentPlan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return false, err
	}
	if currentPlan != nil && currentPlan.IsPaid() {
		return false, nil
	}
	return true, nil
}

// MapProviderStatus translates the provider's subscription status vocabulary
// onto the local one. Unknown statuses map to inactive rather than erroring,
// since updates are last-write-wins snapshots.
func MapProviderStatus(providerStatus string) entity.SubscriptionStatus {
	switch providerStatus {
	case "active":
		return entity.SubscriptionStatusActive
	case "trialing":
		return entity.SubscriptionStatusTrialing
	case "past_due":
		return entity.SubscriptionStatusPastDue
	case "canceled", "cancelled":
		return entity.SubscriptionStatusCanceled
	case "unpaid":
		return entity.SubscriptionStatusUnpaid
	default:
		return entity.SubscriptionStatusInactive
	}
}
