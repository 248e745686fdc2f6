package service

import (
	"context"
	"testing"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRealizationRepo struct {
	items map[uuid.UUID]*model.PanjarRealizationItem
}

func newFakeRealizationRepo(items ...*model.PanjarRealizationItem) *fakeRealizationRepo {
	r := &fakeRealizationRepo{items: make(map[uuid.UUID]*model.PanjarRealizationItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeRealizationRepo) Create(_ context.Context, item *model.PanjarRealizationItem) error {
	item.ID = uuid.New()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeRealizationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.PanjarRealizationItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeRealizationRepo) List(_ context.Context, requestID *uuid.UUID, _ string, _, _ int) ([]model.PanjarRealizationItem, int64, error) {
	var result []model.PanjarRealizationItem
	for _, item := range r.items {
		if requestID == nil || item.PanjarRequestID == *requestID {
			result = append(result, *item)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeRealizationRepo) Update(_ context.Context, item *model.PanjarRealizationItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeRealizationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

type fakePanjarRepo struct {
	requests map[uuid.UUID]*model.PanjarRequest
}

func newFakePanjarRepo(requests ...*model.PanjarRequest) *fakePanjarRepo {
	r := &fakePanjarRepo{requests: make(map[uuid.UUID]*model.PanjarRequest)}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakePanjarRepo) Create(_ context.Context, req *model.PanjarRequest) error {
	req.ID = uuid.New()
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakePanjarRepo) GetByID(_ context.Context, id uuid.UUID) (*model.PanjarRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *fakePanjarRepo) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.PanjarRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePanjarRepo) List(_ context.Context, _ repository.PanjarFilter) ([]model.PanjarRequest, int64, error) {
	return nil, 0, nil
}

func (r *fakePanjarRepo) Update(_ context.Context, req *model.PanjarRequest) error {
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakePanjarRepo) ReplaceItems(_ context.Context, req *model.PanjarRequest, items []model.PanjarItem) error {
	req.Items = items
	return nil
}

func (r *fakePanjarRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.requests, id)
	return nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ string, _, _ int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func approvedRequest() *model.PanjarRequest {
	return &model.PanjarRequest{
		ID:           uuid.New(),
		UnitID:       uuid.New(),
		BudgetItemID: uuid.New(),
		Status:       model.StatusApproved,
		ReportStatus: model.ReportNotReported,
		CreatedBy:    uuid.New(),
	}
}

func newRealizationFixture(requests ...*model.PanjarRequest) (RealizationService, *fakeRealizationRepo, *fakePanjarRepo, *fakeAuditRepo) {
	realizationRepo := newFakeRealizationRepo()
	panjarRepo := newFakePanjarRepo(requests...)
	auditRepo := &fakeAuditRepo{}
	svc := NewRealizationService(realizationRepo, panjarRepo, auditRepo, passthroughTxManager{}, nil)
	return svc, realizationRepo, panjarRepo, auditRepo
}

func TestCreateRealizationMarksRequestReported(t *testing.T) {
	request := approvedRequest()
	svc, _, panjarRepo, auditRepo := newRealizationFixture(request)

	item, err := svc.Create(context.Background(), CreateRealizationInput{
		PanjarRequestID: request.ID.String(),
		Name:            "kertas A4",
		Price:           "100000",
		Quantity:        2,
		ReceiptFile:     "receipts/abc.pdf",
	}, uuid.New())
	require.NoError(t, err)

	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("200000")))
	assert.Equal(t, model.ReportNotReported, item.ReportStatus)
	assert.Equal(t, model.ReportReported, panjarRepo.requests[request.ID].ReportStatus)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionCreateRealizationItem, auditRepo.entries[0].Action)
}

func TestCreateRealizationRequiresApprovedRequest(t *testing.T) {
	request := approvedRequest()
	request.Status = model.StatusPending
	svc, realizationRepo, _, _ := newRealizationFixture(request)

	_, err := svc.Create(context.Background(), CreateRealizationInput{
		PanjarRequestID: request.ID.String(),
		Name:            "kertas",
		Price:           "100000",
		Quantity:        1,
	}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	assert.Empty(t, realizationRepo.items)
}

func TestCreateRealizationBadInput(t *testing.T) {
	svc, _, _, _ := newRealizationFixture()

	_, err := svc.Create(context.Background(), CreateRealizationInput{
		PanjarRequestID: uuid.NewString(),
		Price:           "-100",
		Quantity:        1,
	}, uuid.New())
	assert.Equal(t, 422, apperror.StatusOf(err))

	_, err = svc.Create(context.Background(), CreateRealizationInput{
		PanjarRequestID: uuid.NewString(),
		Price:           "100",
		Quantity:        0,
	}, uuid.New())
	assert.Equal(t, 422, apperror.StatusOf(err))
}

func TestUpdateReportStatusMirrorsRequest(t *testing.T) {
	request := approvedRequest()
	request.ReportStatus = model.ReportReported
	svc, realizationRepo, panjarRepo, _ := newRealizationFixture(request)

	item := &model.PanjarRealizationItem{
		ID:              uuid.New(),
		PanjarRequestID: request.ID,
		Name:            "kertas",
		ReportStatus:    model.ReportReported,
	}
	realizationRepo.items[item.ID] = item

	updated, err := svc.UpdateReportStatus(context.Background(), item.ID.String(), UpdateReportStatusRequest{
		ReportStatus: "tax_verified",
		Note:         "pajak sesuai",
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.ReportTaxVerified, updated.ReportStatus)
	assert.Equal(t, "pajak sesuai", updated.Note)
	assert.Equal(t, model.ReportTaxVerified, panjarRepo.requests[request.ID].ReportStatus)
}

func TestUpdateReportStatusIllegalTransition(t *testing.T) {
	request := approvedRequest()
	svc, realizationRepo, _, auditRepo := newRealizationFixture(request)

	item := &model.PanjarRealizationItem{
		ID:              uuid.New(),
		PanjarRequestID: request.ID,
		ReportStatus:    model.ReportNotReported,
	}
	realizationRepo.items[item.ID] = item

	_, err := svc.UpdateReportStatus(context.Background(), item.ID.String(), UpdateReportStatusRequest{
		ReportStatus: "submitted",
	}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	assert.Equal(t, model.ReportNotReported, realizationRepo.items[item.ID].ReportStatus)
	assert.Empty(t, auditRepo.entries)
}

func TestUpdateReportStatusUnknownStatus(t *testing.T) {
	svc, _, _, _ := newRealizationFixture()

	_, err := svc.UpdateReportStatus(context.Background(), uuid.NewString(), UpdateReportStatusRequest{
		ReportStatus: "done",
	}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 422, apperror.StatusOf(err))
}

func TestUpdateRealizationRecomputesTotal(t *testing.T) {
	svc, realizationRepo, _, auditRepo := newRealizationFixture()

	item := &model.PanjarRealizationItem{
		ID:           uuid.New(),
		Name:         "kertas",
		Price:        decimal.RequireFromString("100000"),
		Quantity:     1,
		TotalPrice:   decimal.RequireFromString("100000"),
		ReceiptFile:  "receipts/old.pdf",
		ReportStatus: model.ReportReported,
	}
	realizationRepo.items[item.ID] = item

	updated, err := svc.Update(context.Background(), item.ID.String(), UpdateRealizationInput{
		Name:     "kertas A4",
		Price:    "120000",
		Quantity: 3,
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "kertas A4", updated.Name)
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("360000")))
	assert.Equal(t, "receipts/old.pdf", updated.ReceiptFile, "omitted file keeps the stored upload")
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionUpdateRealizationItem, auditRepo.entries[0].Action)
}

func TestUpdateRealizationFrozenWhenTaxVerified(t *testing.T) {
	svc, realizationRepo, _, _ := newRealizationFixture()

	item := &model.PanjarRealizationItem{
		ID:           uuid.New(),
		Name:         "kertas",
		ReportStatus: model.ReportTaxVerified,
	}
	realizationRepo.items[item.ID] = item

	_, err := svc.Update(context.Background(), item.ID.String(), UpdateRealizationInput{
		Name:     "kertas A4",
		Price:    "120000",
		Quantity: 1,
	}, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
}

func TestDeleteSubmittedRealizationRefused(t *testing.T) {
	svc, realizationRepo, _, _ := newRealizationFixture()

	item := &model.PanjarRealizationItem{
		ID:           uuid.New(),
		ReportStatus: model.ReportSubmitted,
	}
	realizationRepo.items[item.ID] = item

	err := svc.Delete(context.Background(), item.ID.String())
	require.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	assert.Contains(t, realizationRepo.items, item.ID)
}
