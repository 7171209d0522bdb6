package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/pkg/logger"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"

	"creative-flow-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyOnWaitlist = errors.New("email is already on the waitlist")
	ErrWaitlistNotFound  = errors.New("waitlist entry not found")
)

type IWaitlistService interface {
	Add(ctx context.Context, req *dto.WaitlistJoinRequest) (*dto.WaitlistJoinResponse, error)
	GetPosition(ctx context.Context, email string) (*dto.WaitlistEntryResponse, error)
	List(ctx context.Context, status string, limit, offset int) (*dto.WaitlistListResponse, error)
	Cancel(ctx context.Context, email string) error
	MarkConverted(ctx context.Context, email string) error
	ExpireStale(ctx context.Context, windowDays int) (int, error)
}

type waitlistService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher EventPublisher
	logger         logger.ILogger
}

func NewWaitlistService(uowFactory unitofwork.RepositoryFactory, eventPublisher EventPublisher, log logger.ILogger) IWaitlistService {
	return &waitlistService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Add enrolls an email on the waitlist. Cancelled and expired entries are
// reactivated in place rather than inserted again; reactivation moves the
// entry to the back of the queue.
func (s *waitlistService) Add(ctx context.Context, req *dto.WaitlistJoinRequest) (*dto.WaitlistJoinResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.WaitlistRepository()

	existing, err := repo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}

	now := time.Now()

	switch {
	case existing == nil:
		entry := &entity.WaitlistEntry{
			Id:        uuid.New(),
			Email:     email,
			Name:      strings.TrimSpace(req.Name),
			Status:    entity.WaitlistStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, entry); err != nil {
			// Two concurrent joins for the same email race past the
			// FindOne above; the unique index breaks the tie.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAlreadyOnWaitlist
			}
			return nil, err
		}

	case existing.Status == entity.WaitlistStatusCancelled || existing.Status == entity.WaitlistStatusExpired:
		existing.Status = entity.WaitlistStatusPending
		existing.NotifiedAt = nil
		existing.CreatedAt = now
		existing.UpdatedAt = now
		if req.Name != "" {
			existing.Name = strings.TrimSpace(req.Name)
		}
		if err := repo.Update(ctx, existing); err != nil {
			return nil, err
		}

	default:
		// pending, notified or converted
		return nil, ErrAlreadyOnWaitlist
	}

	position, err := s.pendingPosition(ctx, uow, email)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewWaitlistJoined(email, position)); err != nil {
			s.logger.Warn("waitlist", "failed to publish WAITLIST_JOINED", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("waitlist", "email joined waitlist", map[string]interface{}{
		"email":    email,
		"position": position,
	})

	return &dto.WaitlistJoinResponse{Position: position}, nil
}

func (s *waitlistService) GetPosition(ctx context.Context, email string) (*dto.WaitlistEntryResponse, error) {
	email = normalizeEmail(email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.WaitlistRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrWaitlistNotFound
	}

	res := toWaitlistEntryResponse(entry)

	if entry.Status == entity.WaitlistStatusPending {
		position, err := s.pendingPosition(ctx, uow, email)
		if err != nil {
			return nil, err
		}
		res.Position = &position
	}

	return res, nil
}

func (s *waitlistService) List(ctx context.Context, status string, limit, offset int) (*dto.WaitlistListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.WaitlistRepository()

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at"},
		specification.Paginate{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
		countSpecs = append(countSpecs, specification.ByStatus{Status: status})
	}

	entries, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	// Positions for the pending entries come from one ordered scan instead
	// of a query per row.
	positions, err := s.pendingPositions(ctx, uow)
	if err != nil {
		return nil, err
	}

	res := &dto.WaitlistListResponse{Total: total}
	for _, entry := range entries {
		item := toWaitlistEntryResponse(entry)
		if entry.Status == entity.WaitlistStatusPending {
			if pos, ok := positions[entry.Email]; ok {
				item.Position = &pos
			}
		}
		res.Entries = append(res.Entries, item)
	}
	return res, nil
}

func (s *waitlistService) Cancel(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.WaitlistRepository()

	entry, err := repo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrWaitlistNotFound
	}
	if entry.Status.IsTerminal() {
		// Cancelling a finished entry is a no-op.
		return nil
	}

	entry.Status = entity.WaitlistStatusCancelled
	entry.UpdatedAt = time.Now()
	return repo.Update(ctx, entry)
}

// MarkConverted closes the waitlist entry once its owner completes checkout.
// Missing or already-terminal entries are skipped silently: most subscribers
// were never waitlisted at all.
func (s *waitlistService) MarkConverted(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.WaitlistRepository()

	entry, err := repo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if entry == nil || entry.Status.IsTerminal() {
		return nil
	}

	entry.Status = entity.WaitlistStatusConverted
	entry.UpdatedAt = time.Now()
	return repo.Update(ctx, entry)
}

// ExpireStale sweeps notified entries whose invite window lapsed without a
// conversion, so the dispatcher can offer their slots to the next in line.
func (s *waitlistService) ExpireStale(ctx context.Context, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.WaitlistRepository()

	stale, err := repo.FindAll(ctx,
		specification.ByStatus{Status: string(entity.WaitlistStatusNotified)},
		specification.NotifiedBefore{Time: cutoff},
	)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, entry := range stale {
		entry.Status = entity.WaitlistStatusExpired
		entry.UpdatedAt = time.Now()
		if err := repo.Update(ctx, entry); err != nil {
			s.logger.Error("waitlist", "failed to expire entry", map[string]interface{}{
				"email": entry.Email,
				"error": err.Error(),
			})
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("waitlist", fmt.Sprintf("expired %d stale invites", expired), map[string]interface{}{
			"window_days": windowDays,
		})
	}
	return expired, nil
}

// pendingPosition returns the 1-based queue position for the given email.
func (s *waitlistService) pendingPosition(ctx context.Context, uow unitofwork.UnitOfWork, email string) (int, error) {
	positions, err := s.pendingPositions(ctx, uow)
	if err != nil {
		return 0, err
	}
	pos, ok := positions[email]
	if !ok {
		return 0, ErrWaitlistNotFound
	}
	return pos, nil
}

func (s *waitlistService) pendingPositions(ctx context.Context, uow unitofwork.UnitOfWork) (map[string]int, error) {
	pending, err := uow.WaitlistRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.WaitlistStatusPending)},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int, len(pending))
	for i, entry := range pending {
		positions[entry.Email] = i + 1
	}
	return positions, nil
}

func toWaitlistEntryResponse(entry *entity.WaitlistEntry) *dto.WaitlistEntryResponse {
	return &dto.WaitlistEntryResponse{
		Id:         entry.Id,
		Email:      entry.Email,
		Name:       entry.Name,
		Status:     string(entry.Status),
		NotifiedAt: entry.NotifiedAt,
		CreatedAt:  entry.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
