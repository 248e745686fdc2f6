package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetYearRepository defines the interface for data access of BudgetYear entities
type BudgetYearRepository interface {
	Create(ctx context.Context, year *model.BudgetYear) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BudgetYear, error)
	GetByYear(ctx context.Context, year int) (*model.BudgetYear, error)
	GetActive(ctx context.Context) (*model.BudgetYear, error)
	List(ctx context.Context, page, perPage int) ([]model.BudgetYear, int64, error)
	Update(ctx context.Context, year *model.BudgetYear) error
	DeactivateAll(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetYearRepository struct {
	db *gorm.DB
}

func NewBudgetYearRepository(db *gorm.DB) BudgetYearRepository {
	return &budgetYearRepository{db: db}
}

func (r *budgetYearRepository) Create(ctx context.Context, year *model.BudgetYear) error {
	return GetDB(ctx, r.db).Create(year).Error
}

func (r *budgetYearRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BudgetYear, error) {
	var year model.BudgetYear
	if err := GetDB(ctx, r.db).First(&year, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *budgetYearRepository) GetByYear(ctx context.Context, y int) (*model.BudgetYear, error) {
	var year model.BudgetYear
	if err := GetDB(ctx, r.db).First(&year, "year = ?", y).Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *budgetYearRepository) GetActive(ctx context.Context) (*model.BudgetYear, error) {
	var year model.BudgetYear
	if err := GetDB(ctx, r.db).First(&year, "is_active = true").Error; err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *budgetYearRepository) List(ctx context.Context, page, perPage int) ([]model.BudgetYear, int64, error) {
	var years []model.BudgetYear
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.BudgetYear{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := db.Order("year DESC").Offset(offset).Limit(perPage).Find(&years).Error; err != nil {
		return nil, 0, err
	}

	return years, total, nil
}

func (r *budgetYearRepository) Update(ctx context.Context, year *model.BudgetYear) error {
	return GetDB(ctx, r.db).Save(year).Error
}

func (r *budgetYearRepository) DeactivateAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Model(&model.BudgetYear{}).
		Where("is_active = true").
		Update("is_active", false).Error
}

func (r *budgetYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BudgetYear{}).Error
}

// BudgetRepository defines the interface for data access of Budget entities
type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	GetByUnitYearQuarter(ctx context.Context, unitID, yearID uuid.UUID, quarter int) (*model.Budget, error)
	List(ctx context.Context, unitID *uuid.UUID, page, perPage int) ([]model.Budget, int64, error)
	Update(ctx context.Context, budget *model.Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := GetDB(ctx, r.db).
		Preload("Unit").
		Preload("BudgetYear").
		Preload("Items").
		First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) GetByUnitYearQuarter(ctx context.Context, unitID, yearID uuid.UUID, quarter int) (*model.Budget, error) {
	var budget model.Budget
	if err := GetDB(ctx, r.db).
		First(&budget, "unit_id = ? AND budget_year_id = ? AND quarter = ?", unitID, yearID, quarter).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) List(ctx context.Context, unitID *uuid.UUID, page, perPage int) ([]model.Budget, int64, error) {
	var budgets []model.Budget
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Budget{})
	if unitID != nil {
		query = query.Where("unit_id = ?", *unitID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("Unit").Preload("BudgetYear").Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(perPage).
		Find(&budgets).Error; err != nil {
		return nil, 0, err
	}

	return budgets, total, nil
}

func (r *budgetRepository) Update(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Save(budget).Error
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Budget{}).Error
}

// BudgetItemRepository defines the interface for data access of BudgetItem entities
type BudgetItemRepository interface {
	Create(ctx context.Context, item *model.BudgetItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error)
	List(ctx context.Context, budgetID *uuid.UUID, search string, page, perPage int) ([]model.BudgetItem, int64, error)
	Update(ctx context.Context, item *model.BudgetItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetItemRepository struct {
	db *gorm.DB
}

func NewBudgetItemRepository(db *gorm.DB) BudgetItemRepository {
	return &budgetItemRepository{db: db}
}

func (r *budgetItemRepository) Create(ctx context.Context, item *model.BudgetItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *budgetItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	var item model.BudgetItem
	if err := GetDB(ctx, r.db).
		Preload("Budget.Unit").
		Preload("Budget.BudgetYear").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDForUpdate row-locks the budget item so concurrent approvals cannot
// both pass the remaining-amount check.
func (r *budgetItemRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	var item model.BudgetItem
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *budgetItemRepository) List(ctx context.Context, budgetID *uuid.UUID, search string, page, perPage int) ([]model.BudgetItem, int64, error) {
	var items []model.BudgetItem
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BudgetItem{})
	if budgetID != nil {
		query = query.Where("budget_id = ?", *budgetID)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("Budget").
		Order("name ASC").
		Offset(offset).Limit(perPage).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *budgetItemRepository) Update(ctx context.Context, item *model.BudgetItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *budgetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BudgetItem{}).Error
}
