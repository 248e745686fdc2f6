package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PanjarFilter narrows panjar request listings
type PanjarFilter struct {
	UnitID    *uuid.UUID
	CreatedBy *uuid.UUID
	Status    model.Status
	Search    string
	Page      int
	PerPage   int
}

// PanjarRepository defines the interface for data access of PanjarRequest entities
type PanjarRepository interface {
	Create(ctx context.Context, req *model.PanjarRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarRequest, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.PanjarRequest, error)
	List(ctx context.Context, filter PanjarFilter) ([]model.PanjarRequest, int64, error)
	Update(ctx context.Context, req *model.PanjarRequest) error
	ReplaceItems(ctx context.Context, req *model.PanjarRequest, items []model.PanjarItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type panjarRepository struct {
	db *gorm.DB
}

func NewPanjarRepository(db *gorm.DB) PanjarRepository {
	return &panjarRepository{db: db}
}

func (r *panjarRepository) Create(ctx context.Context, req *model.PanjarRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *panjarRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarRequest, error) {
	var req model.PanjarRequest
	if err := GetDB(ctx, r.db).Preload("Items").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *panjarRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.PanjarRequest, error) {
	var req model.PanjarRequest
	if err := GetDB(ctx, r.db).
		Preload("Unit").
		Preload("BudgetItem.Budget.BudgetYear").
		Preload("Creator.Roles").
		Preload("Verifier").
		Preload("Approver").
		Preload("Items").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *panjarRepository) List(ctx context.Context, filter PanjarFilter) ([]model.PanjarRequest, int64, error) {
	var requests []model.PanjarRequest
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PanjarRequest{})
	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("note ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	if err := query.
		Preload("Unit").
		Preload("BudgetItem").
		Preload("Creator").
		Preload("Verifier").
		Preload("Approver").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.PerPage).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *panjarRepository) Update(ctx context.Context, req *model.PanjarRequest) error {
	return GetDB(ctx, r.db).Omit("Items").Save(req).Error
}

// ReplaceItems swaps the request's line items wholesale (used on edit and on
// revision resubmission).
func (r *panjarRepository) ReplaceItems(ctx context.Context, req *model.PanjarRequest, items []model.PanjarItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("panjar_request_id = ?", req.ID).Delete(&model.PanjarItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PanjarRequestID = req.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	req.Items = items
	return nil
}

func (r *panjarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PanjarRequest{}).Error
}

// PanjarItemRepository defines the interface for data access of PanjarItem
// entities and their append-only histories
type PanjarItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarItem, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.PanjarItem, error)
	Update(ctx context.Context, item *model.PanjarItem) error
	AppendHistory(ctx context.Context, history *model.PanjarItemHistory) error
	ListHistory(ctx context.Context, itemID uuid.UUID) ([]model.PanjarItemHistory, error)
}

type panjarItemRepository struct {
	db *gorm.DB
}

func NewPanjarItemRepository(db *gorm.DB) PanjarItemRepository {
	return &panjarItemRepository{db: db}
}

func (r *panjarItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarItem, error) {
	var item model.PanjarItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *panjarItemRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.PanjarItem, error) {
	var items []model.PanjarItem
	if err := GetDB(ctx, r.db).
		Where("panjar_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *panjarItemRepository) Update(ctx context.Context, item *model.PanjarItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *panjarItemRepository) AppendHistory(ctx context.Context, history *model.PanjarItemHistory) error {
	return GetDB(ctx, r.db).Create(history).Error
}

func (r *panjarItemRepository) ListHistory(ctx context.Context, itemID uuid.UUID) ([]model.PanjarItemHistory, error) {
	var histories []model.PanjarItemHistory
	if err := GetDB(ctx, r.db).
		Preload("Reviewer").
		Where("panjar_item_id = ?", itemID).
		Order("created_at ASC").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// RealizationRepository defines the interface for data access of
// PanjarRealizationItem entities
type RealizationRepository interface {
	Create(ctx context.Context, item *model.PanjarRealizationItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarRealizationItem, error)
	List(ctx context.Context, requestID *uuid.UUID, search string, page, perPage int) ([]model.PanjarRealizationItem, int64, error)
	Update(ctx context.Context, item *model.PanjarRealizationItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type realizationRepository struct {
	db *gorm.DB
}

func NewRealizationRepository(db *gorm.DB) RealizationRepository {
	return &realizationRepository{db: db}
}

func (r *realizationRepository) Create(ctx context.Context, item *model.PanjarRealizationItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *realizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PanjarRealizationItem, error) {
	var item model.PanjarRealizationItem
	if err := GetDB(ctx, r.db).Preload("PanjarRequest").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *realizationRepository) List(ctx context.Context, requestID *uuid.UUID, search string, page, perPage int) ([]model.PanjarRealizationItem, int64, error) {
	var items []model.PanjarRealizationItem
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.PanjarRealizationItem{})
	if requestID != nil {
		query = query.Where("panjar_request_id = ?", *requestID)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.
		Order("created_at ASC").
		Offset(offset).Limit(perPage).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *realizationRepository) Update(ctx context.Context, item *model.PanjarRealizationItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *realizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PanjarRealizationItem{}).Error
}
