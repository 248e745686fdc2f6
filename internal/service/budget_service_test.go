package service

import (
	"context"
	"testing"

	"panjarku-backend/internal/model"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBudgetYearRepo struct {
	years map[uuid.UUID]*model.BudgetYear
}

func newFakeBudgetYearRepo(years ...*model.BudgetYear) *fakeBudgetYearRepo {
	r := &fakeBudgetYearRepo{years: make(map[uuid.UUID]*model.BudgetYear)}
	for _, y := range years {
		r.years[y.ID] = y
	}
	return r
}

func (r *fakeBudgetYearRepo) Create(_ context.Context, year *model.BudgetYear) error {
	year.ID = uuid.New()
	copied := *year
	r.years[year.ID] = &copied
	return nil
}

func (r *fakeBudgetYearRepo) GetByID(_ context.Context, id uuid.UUID) (*model.BudgetYear, error) {
	year, ok := r.years[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *year
	return &copied, nil
}

func (r *fakeBudgetYearRepo) GetByYear(_ context.Context, year int) (*model.BudgetYear, error) {
	for _, y := range r.years {
		if y.Year == year {
			copied := *y
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBudgetYearRepo) GetActive(_ context.Context) (*model.BudgetYear, error) {
	for _, y := range r.years {
		if y.IsActive {
			copied := *y
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBudgetYearRepo) List(_ context.Context, _, _ int) ([]model.BudgetYear, int64, error) {
	var result []model.BudgetYear
	for _, y := range r.years {
		result = append(result, *y)
	}
	return result, int64(len(result)), nil
}

func (r *fakeBudgetYearRepo) Update(_ context.Context, year *model.BudgetYear) error {
	copied := *year
	r.years[year.ID] = &copied
	return nil
}

func (r *fakeBudgetYearRepo) DeactivateAll(_ context.Context) error {
	for _, y := range r.years {
		y.IsActive = false
	}
	return nil
}

func (r *fakeBudgetYearRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.years, id)
	return nil
}

type fakeBudgetRepo struct {
	budgets map[uuid.UUID]*model.Budget
}

func newFakeBudgetRepo(budgets ...*model.Budget) *fakeBudgetRepo {
	r := &fakeBudgetRepo{budgets: make(map[uuid.UUID]*model.Budget)}
	for _, b := range budgets {
		r.budgets[b.ID] = b
	}
	return r
}

func (r *fakeBudgetRepo) Create(_ context.Context, budget *model.Budget) error {
	budget.ID = uuid.New()
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Budget, error) {
	budget, ok := r.budgets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *budget
	return &copied, nil
}

func (r *fakeBudgetRepo) GetByUnitYearQuarter(_ context.Context, unitID, yearID uuid.UUID, quarter int) (*model.Budget, error) {
	for _, b := range r.budgets {
		if b.UnitID == unitID && b.BudgetYearID == yearID && b.Quarter == quarter {
			copied := *b
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBudgetRepo) List(_ context.Context, _ *uuid.UUID, _, _ int) ([]model.Budget, int64, error) {
	return nil, 0, nil
}

func (r *fakeBudgetRepo) Update(_ context.Context, budget *model.Budget) error {
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.budgets, id)
	return nil
}

type fakeUnitRepo struct {
	units map[uuid.UUID]*model.Unit
}

func newFakeUnitRepo(units ...*model.Unit) *fakeUnitRepo {
	r := &fakeUnitRepo{units: make(map[uuid.UUID]*model.Unit)}
	for _, u := range units {
		r.units[u.ID] = u
	}
	return r
}

func (r *fakeUnitRepo) Create(_ context.Context, unit *model.Unit) error {
	unit.ID = uuid.New()
	copied := *unit
	r.units[unit.ID] = &copied
	return nil
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	unit, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *unit
	return &copied, nil
}

func (r *fakeUnitRepo) GetByCode(_ context.Context, code string) (*model.Unit, error) {
	for _, u := range r.units {
		if u.Code == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUnitRepo) List(_ context.Context, _ string, _, _ int) ([]model.Unit, int64, error) {
	return nil, 0, nil
}

func (r *fakeUnitRepo) ListAll(_ context.Context) ([]model.Unit, error) {
	var result []model.Unit
	for _, u := range r.units {
		result = append(result, *u)
	}
	return result, nil
}

func (r *fakeUnitRepo) Update(_ context.Context, unit *model.Unit) error {
	copied := *unit
	r.units[unit.ID] = &copied
	return nil
}

func (r *fakeUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.units, id)
	return nil
}

func newBudgetFixture(yearRepo *fakeBudgetYearRepo, budgetRepo *fakeBudgetRepo, itemRepo *fakeBudgetItemRepo, unitRepo *fakeUnitRepo) BudgetService {
	return NewBudgetService(yearRepo, budgetRepo, itemRepo, unitRepo, passthroughTxManager{})
}

func TestActivateBudgetYearDeactivatesOthers(t *testing.T) {
	oldYear := &model.BudgetYear{ID: uuid.New(), Year: 2025, IsActive: true}
	newYear := &model.BudgetYear{ID: uuid.New(), Year: 2026}
	yearRepo := newFakeBudgetYearRepo(oldYear, newYear)
	svc := newBudgetFixture(yearRepo, newFakeBudgetRepo(), newFakeBudgetItemRepo(), newFakeUnitRepo())

	activated, err := svc.ActivateBudgetYear(context.Background(), newYear.ID.String())
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.False(t, yearRepo.years[oldYear.ID].IsActive)
	assert.True(t, yearRepo.years[newYear.ID].IsActive)
}

func TestDeleteActiveBudgetYearRefused(t *testing.T) {
	active := &model.BudgetYear{ID: uuid.New(), Year: 2026, IsActive: true}
	yearRepo := newFakeBudgetYearRepo(active)
	svc := newBudgetFixture(yearRepo, newFakeBudgetRepo(), newFakeBudgetItemRepo(), newFakeUnitRepo())

	err := svc.DeleteBudgetYear(context.Background(), active.ID.String())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	assert.Contains(t, yearRepo.years, active.ID)
}

func TestCreateBudgetDuplicateQuarter(t *testing.T) {
	unit := &model.Unit{ID: uuid.New(), Name: "SMP", Code: "smp"}
	year := &model.BudgetYear{ID: uuid.New(), Year: 2026, IsActive: true}
	existing := &model.Budget{ID: uuid.New(), UnitID: unit.ID, BudgetYearID: year.ID, Quarter: 1}
	svc := newBudgetFixture(newFakeBudgetYearRepo(year), newFakeBudgetRepo(existing), newFakeBudgetItemRepo(), newFakeUnitRepo(unit))

	_, err := svc.CreateBudget(context.Background(), CreateBudgetRequest{
		UnitID:       unit.ID.String(),
		BudgetYearID: year.ID.String(),
		Quarter:      1,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
}

func TestUpdateBudgetQuarterConflict(t *testing.T) {
	unit := &model.Unit{ID: uuid.New(), Name: "SMP", Code: "smp"}
	year := &model.BudgetYear{ID: uuid.New(), Year: 2026}
	q1 := &model.Budget{ID: uuid.New(), UnitID: unit.ID, BudgetYearID: year.ID, Quarter: 1}
	q2 := &model.Budget{ID: uuid.New(), UnitID: unit.ID, BudgetYearID: year.ID, Quarter: 2}
	budgetRepo := newFakeBudgetRepo(q1, q2)
	svc := newBudgetFixture(newFakeBudgetYearRepo(year), budgetRepo, newFakeBudgetItemRepo(), newFakeUnitRepo(unit))

	_, err := svc.UpdateBudget(context.Background(), q1.ID.String(), UpdateBudgetRequest{Quarter: 2})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))

	moved, err := svc.UpdateBudget(context.Background(), q1.ID.String(), UpdateBudgetRequest{Quarter: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Quarter)
}

func TestUpdateBudgetItemBelowRealization(t *testing.T) {
	item := budgetItemWith("1000000", "600000")
	itemRepo := newFakeBudgetItemRepo(item)
	svc := newBudgetFixture(newFakeBudgetYearRepo(), newFakeBudgetRepo(), itemRepo, newFakeUnitRepo())

	_, err := svc.UpdateBudgetItem(context.Background(), item.ID.String(), UpdateBudgetItemRequest{
		Name:             item.Name,
		AmountAllocation: "500000",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))

	updated, err := svc.UpdateBudgetItem(context.Background(), item.ID.String(), UpdateBudgetItemRequest{
		Name:             item.Name,
		AmountAllocation: "800000",
	})
	require.NoError(t, err)
	assert.True(t, updated.RemainingAmount.Equal(decimal.RequireFromString("200000")))
}
