package service

import (
	"context"
	"time"

	"creative-flow-be/internal/dto"
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/repository/specification"
	"creative-flow-be/internal/repository/unitofwork"
)

type IAdminService interface {
	GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

type adminService struct {
	uowFactory      unitofwork.RepositoryFactory
	capacityService ICapacityService
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, capacityService ICapacityService) IAdminService {
	return &adminService{
		uowFactory:      uowFactory,
		capacityService: capacityService,
	}
}

func (s *adminService) GetDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	capacity, err := s.capacityService.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	byStatus := make(map[string]int64)
	for _, status := range []entity.WaitlistStatus{
		entity.WaitlistStatusPending,
		entity.WaitlistStatusNotified,
		entity.WaitlistStatusConverted,
		entity.WaitlistStatusExpired,
		entity.WaitlistStatusCancelled,
	} {
		count, err := uow.WaitlistRepository().Count(ctx, specification.ByStatus{Status: string(status)})
		if err != nil {
			return nil, err
		}
		byStatus[string(status)] = count
	}

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	totalEvents, err := uow.PaymentEventRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	recentRejected, err := uow.PaymentEventRepository().Count(ctx,
		specification.Filter{Column: "event_type", Value: entity.PaymentEventCapacityExceeded},
		specification.CreatedAfter{Time: weekAgo},
	)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		Capacity:       capacity,
		WaitlistBySt:   byStatus,
		TotalUsers:     totalUsers,
		PaymentEvents:  totalEvents,
		RecentRejected: recentRejected,
	}, nil
}
