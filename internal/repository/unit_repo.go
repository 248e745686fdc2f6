package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitRepository defines the interface for data access of Unit entities
type UnitRepository interface {
	Create(ctx context.Context, unit *model.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	GetByCode(ctx context.Context, code string) (*model.Unit, error)
	List(ctx context.Context, search string, page, perPage int) ([]model.Unit, int64, error)
	ListAll(ctx context.Context) ([]model.Unit, error)
	Update(ctx context.Context, unit *model.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type unitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return GetDB(ctx, r.db).Create(unit).Error
}

func (r *unitRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var unit model.Unit
	if err := GetDB(ctx, r.db).
		Preload("Parent").
		Preload("Children").
		Preload("Head").
		First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) GetByCode(ctx context.Context, code string) (*model.Unit, error) {
	var unit model.Unit
	if err := GetDB(ctx, r.db).First(&unit, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) List(ctx context.Context, search string, page, perPage int) ([]model.Unit, int64, error) {
	var units []model.Unit
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Unit{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("Parent").Preload("Head").
		Order("code ASC").
		Offset(offset).Limit(perPage).
		Find(&units).Error; err != nil {
		return nil, 0, err
	}

	return units, total, nil
}

// ListAll loads the whole unit table; the hierarchy resolver builds its
// adjacency map from this snapshot.
func (r *unitRepository) ListAll(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	if err := GetDB(ctx, r.db).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return GetDB(ctx, r.db).Save(unit).Error
}

func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Unit{}).Error
}
