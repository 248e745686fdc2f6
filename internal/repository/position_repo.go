package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PositionRepository defines the interface for data access of Position entities
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Position, error)
	GetBySlug(ctx context.Context, slug string) (*model.Position, error)
	List(ctx context.Context, search string, page, perPage int) ([]model.Position, int64, error)
	ListAll(ctx context.Context) ([]model.Position, error)
	Update(ctx context.Context, position *model.Position) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position) error {
	return GetDB(ctx, r.db).Create(position).Error
}

func (r *positionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Position, error) {
	var position model.Position
	if err := GetDB(ctx, r.db).
		Preload("Unit").
		Preload("Superior").
		First(&position, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) GetBySlug(ctx context.Context, slug string) (*model.Position, error) {
	var position model.Position
	if err := GetDB(ctx, r.db).First(&position, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) List(ctx context.Context, search string, page, perPage int) ([]model.Position, int64, error) {
	var positions []model.Position
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Position{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("Unit").Preload("Superior").
		Order("name ASC").
		Offset(offset).Limit(perPage).
		Find(&positions).Error; err != nil {
		return nil, 0, err
	}

	return positions, total, nil
}

func (r *positionRepository) ListAll(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := GetDB(ctx, r.db).Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) Update(ctx context.Context, position *model.Position) error {
	return GetDB(ctx, r.db).Save(position).Error
}

func (r *positionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Position{}).Error
}
