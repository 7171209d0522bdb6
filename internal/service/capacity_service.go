package service

import (
	"context"
	"encoding/json"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

const (
	capacityStatsCacheKey = "capacity:stats"
	capacityStatsCacheTTL = 30 * time.Second
)

// ICapacityService is the read side of the paid-capacity ledger.
type ICapacityService interface {
	// CountActivePaid runs against the caller's unit of work so the
	// admission path can count inside its own transaction.
	CountActivePaid(ctx context.Context, uow unitofwork.UnitOfWork) (int, error)
	MaxPaidUsers() int
	GetStats(ctx context.Context) (*dto.CapacityStatsResponse, error)
}

type capacityService struct {
	uowFactory   unitofwork.RepositoryFactory
	redisClient  *redis.Client
	maxPaidUsers int
}

func NewCapacityService(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client, maxPaidUsers int) ICapacityService {
	return &capacityService{
		uowFactory:   uowFactory,
		redisClient:  redisClient,
		maxPaidUsers: maxPaidUsers,
	}
}

func (s *capacityService) CountActivePaid(ctx context.Context, uow unitofwork.UnitOfWork) (int, error) {
	return uow.SubscriptionRepository().CountActivePaid(ctx)
}

func (s *capacityService) MaxPaidUsers() int {
	return s.maxPaidUsers
}

func (s *capacityService) GetStats(ctx context.Context) (*dto.CapacityStatsResponse, error) {
	// The stats endpoint is public; a short cache keeps the aggregate
	// count query off the hot path. Staleness up to the TTL is fine here,
	// admission decisions never read this.
	if s.redisClient != nil {
		if raw, err := s.redisClient.Get(ctx, capacityStatsCacheKey).Result(); err == nil {
			var cached dto.CapacityStatsResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	paidCount, err := uow.SubscriptionRepository().CountActivePaid(ctx)
	if err != nil {
		return nil, err
	}

	waitlistCount, err := uow.WaitlistRepository().Count(ctx,
		specification.ByStatus{Status: string(entity.WaitlistStatusPending)},
	)
	if err != nil {
		return nil, err
	}

	available := s.maxPaidUsers - paidCount
	if available < 0 {
		available = 0
	}

	stats := &dto.CapacityStatsResponse{
		PaidUsersCount:    paidCount,
		MaxPaidUsers:      s.maxPaidUsers,
		AvailableSlots:    available,
		WaitlistCount:     waitlistCount,
		IsCapacityReached: paidCount >= s.maxPaidUsers,
	}

	if s.redisClient != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.redisClient.Set(ctx, capacityStatsCacheKey, raw, capacityStatsCacheTTL)
		}
	}

	return stats, nil
}
