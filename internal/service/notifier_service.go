package service

import (
	"context"
	"encoding/json"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/pkg/logger"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"

	"creative-flow-be/pkg/events"
)

// INotifierService drains the waitlist when capacity frees up: it promotes
// the oldest pending entries to notified and queues one invite mail per
// entry.
type INotifierService interface {
	NotifyNext(ctx context.Context, count int) (int, error)
}

type notifierService struct {
	uowFactory       unitofwork.RepositoryFactory
	capacityService  ICapacityService
	publisherService IPublisherService
	eventPublisher   EventPublisher
	logger           logger.ILogger
}

func NewNotifierService(
	uowFactory unitofwork.RepositoryFactory,
	capacityService ICapacityService,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		uowFactory:       uowFactory,
		capacityService:  capacityService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// NotifyNext invites up to count entries, never more than there are free
// slots. The status flip commits before the mail is queued, so a crashed
// mailer costs a resend, not a double slot.
func (s *notifierService) NotifyNext(ctx context.Context, count int) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	paidCount, err := s.capacityService.CountActivePaid(ctx, uow)
	if err != nil {
		return 0, err
	}

	available := s.capacityService.MaxPaidUsers() - paidCount
	if available <= 0 {
		s.logger.Info("notifier", "no free slots, nothing to dispatch", map[string]interface{}{
			"paid_count": paidCount,
		})
		return 0, nil
	}
	if count > available {
		count = available
	}

	pending, err := uow.WaitlistRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.WaitlistStatusPending)},
		specification.OrderBy{Field: "created_at"},
		specification.Paginate{Limit: count},
	)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, entry := range pending {
		now := time.Now()
		entry.Status = entity.WaitlistStatusNotified
		entry.NotifiedAt = &now
		entry.UpdatedAt = now

		if err := uow.WaitlistRepository().Update(ctx, entry); err != nil {
			s.logger.Error("notifier", "failed to mark entry notified", map[string]interface{}{
				"email": entry.Email,
				"error": err.Error(),
			})
			continue
		}
		notified++

		payload, err := json.Marshal(dto.WaitlistInviteMessage{Email: entry.Email, Name: entry.Name})
		if err != nil {
			s.logger.Error("notifier", "failed to marshal invite message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Error("notifier", "failed to queue invite mail", map[string]interface{}{
				"email": entry.Email,
				"error": err.Error(),
			})
		}

		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewWaitlistNotified(entry.Email, entry.Name)); err != nil {
				s.logger.Warn("notifier", "failed to publish WAITLIST_NOTIFIED", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	s.logger.Info("notifier", "waitlist batch dispatched", map[string]interface{}{
		"requested": count,
		"notified":  notified,
	})
	return notified, nil
}
