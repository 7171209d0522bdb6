package implementation

import (
	"context"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/mapper"
	"creative-flow-be/internal/model"
	"creative-flow-be/internal/repository/contract"
	"creative-flow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PaymentEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentEventMapper
}

func NewPaymentEventRepository(db *gorm.DB) contract.PaymentEventRepository {
	return &PaymentEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentEventMapper(),
	}
}

func (r *PaymentEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentEventRepositoryImpl) Create(ctx context.Context, event *entity.PaymentEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentEventRepositoryImpl) ExistsByExternalId(ctx context.Context, externalEventId string) (bool, error) {
	var count int64
	query := specification.ByExternalEventID{ExternalID: externalEventId}.
		Apply(r.db.WithContext(ctx).Model(&model.PaymentEvent{}))
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *PaymentEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentEvent, error) {
	var models []*model.PaymentEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PaymentEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PaymentEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PaymentEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
