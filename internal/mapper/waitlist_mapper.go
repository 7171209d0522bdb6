package mapper

import (
	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/model"
)

type WaitlistMapper struct{}

func NewWaitlistMapper() *WaitlistMapper {
	return &WaitlistMapper{}
}

func (m *WaitlistMapper) ToEntity(e *model.WaitlistEntry) *entity.WaitlistEntry {
	if e == nil {
		return nil
	}
	return &entity.WaitlistEntry{
		Id:         e.Id,
		Email:      e.Email,
		Name:       e.Name,
		Status:     entity.WaitlistStatus(e.Status),
		NotifiedAt: e.NotifiedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m *WaitlistMapper) ToModel(e *entity.WaitlistEntry) *model.WaitlistEntry {
	if e == nil {
		return nil
	}
	return &model.WaitlistEntry{
		Id:         e.Id,
		Email:      e.Email,
		Name:       e.Name,
		Status:     string(e.Status),
		NotifiedAt: e.NotifiedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
