package mapper

import (
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:                     p.Id,
		Name:                   p.Name,
		Slug:                   p.Slug,
		Description:            p.Description,
		Price:                  p.Price,
		TaxRate:                p.TaxRate,
		BillingPeriod:          entity.BillingPeriod(p.BillingPeriod),
		ImageGenerationEnabled: p.ImageGenerationEnabled,
		VideoGenerationEnabled: p.VideoGenerationEnabled,
		ProModeEnabled:         p.ProModeEnabled,
		MaxRequestsPerMonth:    p.MaxRequestsPerMonth,
		MaxFileSizeMB:          p.MaxFileSizeMB,
		IsActive:               p.IsActive,
		SortOrder:              p.SortOrder,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:                     p.Id,
		Name:                   p.Name,
		Slug:                   p.Slug,
		Description:            p.Description,
		Price:                  p.Price,
		TaxRate:                p.TaxRate,
		BillingPeriod:          string(p.BillingPeriod),
		ImageGenerationEnabled: p.ImageGenerationEnabled,
		VideoGenerationEnabled: p.VideoGenerationEnabled,
		ProModeEnabled:         p.ProModeEnabled,
		MaxRequestsPerMonth:    p.MaxRequestsPerMonth,
		MaxFileSizeMB:          p.MaxFileSizeMB,
		IsActive:               p.IsActive,
		SortOrder:              p.SortOrder,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		PlanId:                 s.PlanId,
		Status:                 entity.SubscriptionStatus(s.Status),
		ExternalCustomerId:     s.ExternalCustomerId,
		ExternalSubscriptionId: s.ExternalSubscriptionId,
		CurrentPeriodStart:     s.CurrentPeriodStart,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		CancelAtPeriodEnd:      s.CancelAtPeriodEnd,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                     s.Id,
		UserId:                 s.UserId,
		PlanId:                 s.PlanId,
		Status:                 string(s.Status),
		ExternalCustomerId:     s.ExternalCustomerId,
		ExternalSubscriptionId: s.ExternalSubscriptionId,
		CurrentPeriodStart:     s.CurrentPeriodStart,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		CancelAtPeriodEnd:      s.CancelAtPeriodEnd,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
