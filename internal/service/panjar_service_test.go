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

func TestBuildPanjarItems(t *testing.T) {
	items, total, err := BuildPanjarItems([]PanjarItemInput{
		{Name: "kertas A4", Price: "100000", Quantity: 2},
		{Name: "tinta printer", Spec: "hitam", Price: "250000.50", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "kertas A4", items[0].Name)
	assert.True(t, items[0].TotalPrice.Equal(decimal.RequireFromString("200000")))
	assert.Equal(t, model.StatusPending, items[0].Status)

	assert.True(t, items[1].TotalPrice.Equal(decimal.RequireFromString("250000.50")))
	assert.True(t, total.Equal(decimal.RequireFromString("450000.50")))
}

func TestBuildPanjarItemsBadPrice(t *testing.T) {
	_, _, err := BuildPanjarItems([]PanjarItemInput{
		{Name: "kertas", Price: "seratus ribu", Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.StatusOf(err))
}

func TestBuildPanjarItemsNegativePrice(t *testing.T) {
	_, _, err := BuildPanjarItems([]PanjarItemInput{
		{Name: "kertas", Price: "-5000", Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.StatusOf(err))
}

func TestApprovedTotalExcludesRejected(t *testing.T) {
	items := []model.PanjarItem{
		{Status: model.StatusApproved, TotalPrice: decimal.RequireFromString("100000")},
		{Status: model.StatusRejected, TotalPrice: decimal.RequireFromString("999999")},
		{Status: model.StatusVerified, TotalPrice: decimal.RequireFromString("50000")},
	}
	assert.True(t, ApprovedTotal(items).Equal(decimal.RequireFromString("150000")))
}

func TestApprovedTotalEmpty(t *testing.T) {
	assert.True(t, ApprovedTotal(nil).IsZero())
}

// --- budget realization ---

type fakeBudgetItemRepo struct {
	items map[uuid.UUID]*model.BudgetItem
}

func newFakeBudgetItemRepo(items ...*model.BudgetItem) *fakeBudgetItemRepo {
	r := &fakeBudgetItemRepo{items: make(map[uuid.UUID]*model.BudgetItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeBudgetItemRepo) Create(_ context.Context, item *model.BudgetItem) error {
	item.ID = uuid.New()
	r.items[item.ID] = item
	return nil
}

func (r *fakeBudgetItemRepo) GetByID(_ context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeBudgetItemRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BudgetItem, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBudgetItemRepo) List(_ context.Context, _ *uuid.UUID, _ string, _, _ int) ([]model.BudgetItem, int64, error) {
	return nil, 0, nil
}

func (r *fakeBudgetItemRepo) Update(_ context.Context, item *model.BudgetItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeBudgetItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func budgetItemWith(allocation, realization string) *model.BudgetItem {
	alloc := decimal.RequireFromString(allocation)
	real := decimal.RequireFromString(realization)
	return &model.BudgetItem{
		ID:                uuid.New(),
		BudgetID:          uuid.New(),
		Name:              "ATK",
		AmountAllocation:  alloc,
		AmountRealization: real,
		RemainingAmount:   alloc.Sub(real),
	}
}

func TestRealizeBudgetDrawsApprovedTotal(t *testing.T) {
	budgetItem := budgetItemWith("1000000", "200000")
	repo := newFakeBudgetItemRepo(budgetItem)
	svc := &panjarService{budgetItemRepo: repo}

	request := &model.PanjarRequest{
		BudgetItemID: budgetItem.ID,
		Items: []model.PanjarItem{
			{Status: model.StatusVerified, TotalPrice: decimal.RequireFromString("300000")},
			{Status: model.StatusRejected, TotalPrice: decimal.RequireFromString("900000")},
		},
	}

	require.NoError(t, svc.realizeBudget(context.Background(), request))

	stored := repo.items[budgetItem.ID]
	assert.True(t, stored.AmountRealization.Equal(decimal.RequireFromString("500000")))
	assert.True(t, stored.RemainingAmount.Equal(decimal.RequireFromString("500000")))
}

func TestRealizeBudgetOverdraw(t *testing.T) {
	budgetItem := budgetItemWith("1000000", "900000")
	repo := newFakeBudgetItemRepo(budgetItem)
	svc := &panjarService{budgetItemRepo: repo}

	request := &model.PanjarRequest{
		BudgetItemID: budgetItem.ID,
		Items: []model.PanjarItem{
			{Status: model.StatusVerified, TotalPrice: decimal.RequireFromString("200000")},
		},
	}

	err := svc.realizeBudget(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))

	stored := repo.items[budgetItem.ID]
	assert.True(t, stored.AmountRealization.Equal(decimal.RequireFromString("900000")), "overdraw must not move the realization")
}

func TestRealizeBudgetExactRemaining(t *testing.T) {
	budgetItem := budgetItemWith("1000000", "700000")
	repo := newFakeBudgetItemRepo(budgetItem)
	svc := &panjarService{budgetItemRepo: repo}

	request := &model.PanjarRequest{
		BudgetItemID: budgetItem.ID,
		Items: []model.PanjarItem{
			{Status: model.StatusVerified, TotalPrice: decimal.RequireFromString("300000")},
		},
	}

	require.NoError(t, svc.realizeBudget(context.Background(), request))
	assert.True(t, repo.items[budgetItem.ID].RemainingAmount.IsZero())
}
