package mapper

import (
	"encoding/json"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/model"

	"gorm.io/datatypes"
)

type PaymentEventMapper struct{}

func NewPaymentEventMapper() *PaymentEventMapper {
	return &PaymentEventMapper{}
}

func (m *PaymentEventMapper) ToEntity(e *model.PaymentEvent) *entity.PaymentEvent {
	if e == nil {
		return nil
	}
	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Ignore malformed rows rather than failing the read path.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}
	return &entity.PaymentEvent{
		Id:              e.Id,
		SubscriptionId:  e.SubscriptionId,
		ExternalEventId: e.ExternalEventId,
		EventType:       e.EventType,
		Amount:          e.Amount,
		Status:          e.Status,
		Metadata:        metadata,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *PaymentEventMapper) ToModel(e *entity.PaymentEvent) *model.PaymentEvent {
	if e == nil {
		return nil
	}
	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}
	return &model.PaymentEvent{
		Id:              e.Id,
		SubscriptionId:  e.SubscriptionId,
		ExternalEventId: e.ExternalEventId,
		EventType:       e.EventType,
		Amount:          e.Amount,
		Status:          e.Status,
		Metadata:        metadata,
		CreatedAt:       e.CreatedAt,
	}
}
