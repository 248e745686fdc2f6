package service

import (
	"context"
	"testing"

	"panjarku-backend/internal/model"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeItemRepo struct {
	items     map[uuid.UUID]*model.PanjarItem
	histories []model.PanjarItemHistory
}

func newFakeItemRepo(items ...*model.PanjarItem) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[uuid.UUID]*model.PanjarItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) GetByID(_ context.Context, id uuid.UUID) (*model.PanjarItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) ListByRequest(_ context.Context, requestID uuid.UUID) ([]model.PanjarItem, error) {
	var result []model.PanjarItem
	for _, item := range r.items {
		if item.PanjarRequestID == requestID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *model.PanjarItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) AppendHistory(_ context.Context, history *model.PanjarItemHistory) error {
	history.ID = uuid.New()
	r.histories = append(r.histories, *history)
	return nil
}

func (r *fakeItemRepo) ListHistory(_ context.Context, itemID uuid.UUID) ([]model.PanjarItemHistory, error) {
	var result []model.PanjarItemHistory
	for _, h := range r.histories {
		if h.PanjarItemID == itemID {
			result = append(result, h)
		}
	}
	return result, nil
}

// passthroughTxManager runs the callback on the original context; good enough
// for fakes that hold state in memory.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func pendingItem() *model.PanjarItem {
	return &model.PanjarItem{
		ID:              uuid.New(),
		PanjarRequestID: uuid.New(),
		Name:            "kertas A4",
		Quantity:        10,
		Status:          model.StatusPending,
	}
}

func TestUpdateItemStatusAppendsHistory(t *testing.T) {
	item := pendingItem()
	repo := newFakeItemRepo(item)
	svc := NewWorkflowService(repo, passthroughTxManager{})

	reviewer := Reviewer{UserID: uuid.New(), Name: "Bu Wakil", Role: model.RoleWakilKepalaSekolah}
	updated, err := svc.UpdateItemStatus(context.Background(), item.ID.String(), UpdateItemStatusRequest{
		Status: "verified",
		Note:   "lengkap",
	}, reviewer)
	require.NoError(t, err)
	assert.Equal(t, model.StatusVerified, updated.Status)
	assert.Equal(t, model.StatusVerified, repo.items[item.ID].Status)

	require.Len(t, repo.histories, 1)
	h := repo.histories[0]
	assert.Equal(t, item.ID, h.PanjarItemID)
	assert.Equal(t, model.StatusVerified, h.Status)
	assert.Equal(t, "lengkap", h.Note)
	require.NotNil(t, h.ReviewerID)
	assert.Equal(t, reviewer.UserID, *h.ReviewerID)
	assert.Equal(t, model.RoleWakilKepalaSekolah, h.ReviewerRole)
}

func TestUpdateItemStatusIllegalTransition(t *testing.T) {
	item := pendingItem()
	repo := newFakeItemRepo(item)
	svc := NewWorkflowService(repo, passthroughTxManager{})

	_, err := svc.UpdateItemStatus(context.Background(), item.ID.String(), UpdateItemStatusRequest{
		Status: "approved", // pending must be verified first
	}, Reviewer{UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	assert.Equal(t, model.StatusPending, repo.items[item.ID].Status)
	assert.Empty(t, repo.histories, "failed transition must not log history")
}

func TestUpdateItemStatusUnknownItem(t *testing.T) {
	svc := NewWorkflowService(newFakeItemRepo(), passthroughTxManager{})

	_, err := svc.UpdateItemStatus(context.Background(), uuid.NewString(), UpdateItemStatusRequest{
		Status: "verified",
	}, Reviewer{UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusOf(err))
}

func TestUpdateItemStatusBadID(t *testing.T) {
	svc := NewWorkflowService(newFakeItemRepo(), passthroughTxManager{})

	_, err := svc.UpdateItemStatus(context.Background(), "not-a-uuid", UpdateItemStatusRequest{
		Status: "verified",
	}, Reviewer{UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.StatusOf(err))
}

func TestBulkUpdateItemStatusBestEffort(t *testing.T) {
	good := pendingItem()
	stuck := pendingItem()
	stuck.Status = model.StatusApproved // terminal

	repo := newFakeItemRepo(good, stuck)
	svc := NewWorkflowService(repo, passthroughTxManager{})

	results := svc.BulkUpdateItemStatus(context.Background(), BulkUpdateItemStatusRequest{
		Items: []BulkItemStatusEntry{
			{ItemID: good.ID.String(), Status: "verified"},
			{ItemID: stuck.ID.String(), Status: "rejected"},
			{ItemID: "not-a-uuid", Status: "verified"},
		},
	}, Reviewer{UserID: uuid.New()})

	require.Len(t, results, 3)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "verified", results[0].Status)
	assert.NotEmpty(t, results[1].Error)
	assert.NotEmpty(t, results[2].Error)

	// The failing entries must not block the good one
	assert.Equal(t, model.StatusVerified, repo.items[good.ID].Status)
	assert.Equal(t, model.StatusApproved, repo.items[stuck.ID].Status)
	require.Len(t, repo.histories, 1)
}

func TestItemHistory(t *testing.T) {
	item := pendingItem()
	repo := newFakeItemRepo(item)
	svc := NewWorkflowService(repo, passthroughTxManager{})

	reviewer := Reviewer{UserID: uuid.New(), Role: model.RoleWakilKepalaSekolah}
	_, err := svc.UpdateItemStatus(context.Background(), item.ID.String(), UpdateItemStatusRequest{Status: "verified"}, reviewer)
	require.NoError(t, err)
	_, err = svc.UpdateItemStatus(context.Background(), item.ID.String(), UpdateItemStatusRequest{Status: "approved", Note: "ok"}, reviewer)
	require.NoError(t, err)

	history, err := svc.ItemHistory(context.Background(), item.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "verified", history[0].Status)
	assert.Equal(t, "approved", history[1].Status)
	assert.Equal(t, "ok", history[1].Note)
	assert.Equal(t, reviewer.UserID.String(), history[1].ReviewerID)
}

func TestItemHistoryUnknownItem(t *testing.T) {
	svc := NewWorkflowService(newFakeItemRepo(), passthroughTxManager{})

	_, err := svc.ItemHistory(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.StatusOf(err))
}
