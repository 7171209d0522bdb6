package implementation

import (
	"context"
	"errors"

	"creative-flow-be/internal/entity"
	"creative-flow-be/internal/mapper"
	"creative-flow-be/internal/model"
	"creative-flow-be/internal/repository/contract"
	"creative-flow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type WaitlistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WaitlistMapper
}

func NewWaitlistRepository(db *gorm.DB) contract.WaitlistRepository {
	return &WaitlistRepositoryImpl{
		db:     db,
		mapper: mapper.NewWaitlistMapper(),
	}
}

func (r *WaitlistRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WaitlistRepositoryImpl) Create(ctx context.Context, entry *entity.WaitlistEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *WaitlistRepositoryImpl) Update(ctx context.Context, entry *entity.WaitlistEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *WaitlistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WaitlistEntry, error) {
	var m model.WaitlistEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WaitlistRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WaitlistEntry, error) {
	var models []*model.WaitlistEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.WaitlistEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *WaitlistRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WaitlistEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
