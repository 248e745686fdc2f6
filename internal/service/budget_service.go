package service

import (
	"context"
	"errors"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBudgetYearRequest struct {
	Year int `json:"year" binding:"required,min=2000,max=2100"`
}

type CreateBudgetRequest struct {
	UnitID       string `json:"unit_id" binding:"required"`
	BudgetYearID string `json:"budget_year_id" binding:"required"`
	Quarter      int    `json:"quarter" binding:"required,min=1,max=4"`
}

type UpdateBudgetRequest struct {
	Quarter int `json:"quarter" binding:"required,min=1,max=4"`
}

type CreateBudgetItemRequest struct {
	BudgetID         string `json:"budget_id" binding:"required"`
	Name             string `json:"name" binding:"required"`
	AmountAllocation string `json:"amount_allocation" binding:"required"`
}

type UpdateBudgetItemRequest struct {
	Name             string `json:"name" binding:"required"`
	AmountAllocation string `json:"amount_allocation" binding:"required"`
}

// --- Interface ---

type BudgetService interface {
	CreateBudgetYear(ctx context.Context, req CreateBudgetYearRequest) (*model.BudgetYear, error)
	ListBudgetYears(ctx context.Context, page, perPage int) ([]model.BudgetYear, int64, error)
	ActivateBudgetYear(ctx context.Context, id string) (*model.BudgetYear, error)
	GetActiveBudgetYear(ctx context.Context) (*model.BudgetYear, error)
	DeleteBudgetYear(ctx context.Context, id string) error

	CreateBudget(ctx context.Context, req CreateBudgetRequest) (*model.Budget, error)
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	ListBudgets(ctx context.Context, unitID string, page, perPage int) ([]model.Budget, int64, error)
	UpdateBudget(ctx context.Context, id string, req UpdateBudgetRequest) (*model.Budget, error)
	DeleteBudget(ctx context.Context, id string) error

	CreateBudgetItem(ctx context.Context, req CreateBudgetItemRequest) (*model.BudgetItem, error)
	GetBudgetItem(ctx context.Context, id string) (*model.BudgetItem, error)
	ListBudgetItems(ctx context.Context, budgetID, search string, page, perPage int) ([]model.BudgetItem, int64, error)
	UpdateBudgetItem(ctx context.Context, id string, req UpdateBudgetItemRequest) (*model.BudgetItem, error)
	DeleteBudgetItem(ctx context.Context, id string) error
}

type budgetService struct {
	yearRepo   repository.BudgetYearRepository
	budgetRepo repository.BudgetRepository
	itemRepo   repository.BudgetItemRepository
	unitRepo   repository.UnitRepository
	txManager  repository.TransactionManager
}

func NewBudgetService(
	yearRepo repository.BudgetYearRepository,
	budgetRepo repository.BudgetRepository,
	itemRepo repository.BudgetItemRepository,
	unitRepo repository.UnitRepository,
	txManager repository.TransactionManager,
) BudgetService {
	return &budgetService{
		yearRepo:   yearRepo,
		budgetRepo: budgetRepo,
		itemRepo:   itemRepo,
		unitRepo:   unitRepo,
		txManager:  txManager,
	}
}

// --- Budget years ---

func (s *budgetService) CreateBudgetYear(ctx context.Context, req CreateBudgetYearRequest) (*model.BudgetYear, error) {
	if _, err := s.yearRepo.GetByYear(ctx, req.Year); err == nil {
		return nil, apperror.Conflict("budget year %d already exists", req.Year)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	year := model.BudgetYear{Year: req.Year}
	if err := s.yearRepo.Create(ctx, &year); err != nil {
		return nil, err
	}
	return &year, nil
}

func (s *budgetService) ListBudgetYears(ctx context.Context, page, perPage int) ([]model.BudgetYear, int64, error) {
	return s.yearRepo.List(ctx, page, perPage)
}

// ActivateBudgetYear makes the given year the single active one; all other
// years are deactivated in the same transaction.
func (s *budgetService) ActivateBudgetYear(ctx context.Context, id string) (*model.BudgetYear, error) {
	yearID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget year id")
	}

	var year *model.BudgetYear
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		year, txErr = s.yearRepo.GetByID(txCtx, yearID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("budget year not found")
			}
			return txErr
		}

		if txErr := s.yearRepo.DeactivateAll(txCtx); txErr != nil {
			return txErr
		}

		year.IsActive = true
		return s.yearRepo.Update(txCtx, year)
	})
	if err != nil {
		return nil, err
	}
	return year, nil
}

func (s *budgetService) GetActiveBudgetYear(ctx context.Context) (*model.BudgetYear, error) {
	year, err := s.yearRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no active budget year")
		}
		return nil, err
	}
	return year, nil
}

func (s *budgetService) DeleteBudgetYear(ctx context.Context, id string) error {
	yearID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Unprocessable("invalid budget year id")
	}

	year, err := s.yearRepo.GetByID(ctx, yearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("budget year not found")
		}
		return err
	}
	if year.IsActive {
		return apperror.Conflict("cannot delete the active budget year")
	}
	return s.yearRepo.Delete(ctx, year.ID)
}

// --- Budgets ---

func (s *budgetService) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*model.Budget, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid unit_id")
	}
	yearID, err := uuid.Parse(req.BudgetYearID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget_year_id")
	}

	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("unit not found")
		}
		return nil, err
	}
	if _, err := s.yearRepo.GetByID(ctx, yearID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("budget year not found")
		}
		return nil, err
	}

	if _, err := s.budgetRepo.GetByUnitYearQuarter(ctx, unitID, yearID, req.Quarter); err == nil {
		return nil, apperror.Conflict("budget already exists for this unit, year and quarter")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	budget := model.Budget{
		UnitID:       unitID,
		BudgetYearID: yearID,
		Quarter:      req.Quarter,
	}
	if err := s.budgetRepo.Create(ctx, &budget); err != nil {
		return nil, err
	}
	return s.budgetRepo.GetByID(ctx, budget.ID)
}

func (s *budgetService) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	budgetID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget id")
	}

	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("budget not found")
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, unitID string, page, perPage int) ([]model.Budget, int64, error) {
	var filter *uuid.UUID
	if unitID != "" {
		parsed, err := uuid.Parse(unitID)
		if err != nil {
			return nil, 0, apperror.Unprocessable("invalid unit_id")
		}
		filter = &parsed
	}
	return s.budgetRepo.List(ctx, filter, page, perPage)
}

// UpdateBudget moves the budget to another quarter; the (unit, year, quarter)
// uniqueness still applies.
func (s *budgetService) UpdateBudget(ctx context.Context, id string, req UpdateBudgetRequest) (*model.Budget, error) {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Quarter != budget.Quarter {
		if _, err := s.budgetRepo.GetByUnitYearQuarter(ctx, budget.UnitID, budget.BudgetYearID, req.Quarter); err == nil {
			return nil, apperror.Conflict("budget already exists for this unit, year and quarter")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		budget.Quarter = req.Quarter
		budget.Unit = nil
		budget.BudgetYear = nil
		budget.Items = nil
		if err := s.budgetRepo.Update(ctx, budget); err != nil {
			return nil, err
		}
	}

	return s.budgetRepo.GetByID(ctx, budget.ID)
}

func (s *budgetService) DeleteBudget(ctx context.Context, id string) error {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	for _, item := range budget.Items {
		if !item.AmountRealization.IsZero() {
			return apperror.Conflict("budget has realized items and cannot be deleted")
		}
	}
	return s.budgetRepo.Delete(ctx, budget.ID)
}

// --- Budget items ---

func (s *budgetService) CreateBudgetItem(ctx context.Context, req CreateBudgetItemRequest) (*model.BudgetItem, error) {
	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget_id")
	}

	if _, err := s.budgetRepo.GetByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("budget not found")
		}
		return nil, err
	}

	allocation, err := decimal.NewFromString(req.AmountAllocation)
	if err != nil || allocation.IsNegative() {
		return nil, apperror.Unprocessable("invalid amount_allocation")
	}

	item := model.BudgetItem{
		BudgetID:         budgetID,
		Name:             req.Name,
		AmountAllocation: allocation,
		RemainingAmount:  allocation,
	}
	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, item.ID)
}

func (s *budgetService) GetBudgetItem(ctx context.Context, id string) (*model.BudgetItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget item id")
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("budget item not found")
		}
		return nil, err
	}
	return item, nil
}

func (s *budgetService) ListBudgetItems(ctx context.Context, budgetID, search string, page, perPage int) ([]model.BudgetItem, int64, error) {
	var filter *uuid.UUID
	if budgetID != "" {
		parsed, err := uuid.Parse(budgetID)
		if err != nil {
			return nil, 0, apperror.Unprocessable("invalid budget_id")
		}
		filter = &parsed
	}
	return s.itemRepo.List(ctx, filter, search, page, perPage)
}

// UpdateBudgetItem changes the name and allocation; the remaining amount is
// recomputed against the realization already booked.
func (s *budgetService) UpdateBudgetItem(ctx context.Context, id string, req UpdateBudgetItemRequest) (*model.BudgetItem, error) {
	item, err := s.GetBudgetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	allocation, err := decimal.NewFromString(req.AmountAllocation)
	if err != nil || allocation.IsNegative() {
		return nil, apperror.Unprocessable("invalid amount_allocation")
	}
	if allocation.LessThan(item.AmountRealization) {
		return nil, apperror.Conflict("allocation cannot drop below the realized amount")
	}

	item.Name = req.Name
	item.AmountAllocation = allocation
	item.RemainingAmount = allocation.Sub(item.AmountRealization)
	item.Budget = nil

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, item.ID)
}

func (s *budgetService) DeleteBudgetItem(ctx context.Context, id string) error {
	item, err := s.GetBudgetItem(ctx, id)
	if err != nil {
		return err
	}
	if !item.AmountRealization.IsZero() {
		return apperror.Conflict("budget item has realized amount and cannot be deleted")
	}
	return s.itemRepo.Delete(ctx, item.ID)
}
