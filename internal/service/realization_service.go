package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/internal/websocket"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// CreateRealizationInput carries the multipart form fields; the handler saves
// the uploaded files first and passes their relative paths here.
type CreateRealizationInput struct {
	PanjarRequestID string
	Name            string
	Price           string
	Quantity        int
	Note            string
	ReceiptFile     string
	ItemPhoto       string
}

// UpdateRealizationInput mirrors CreateRealizationInput for edits; empty file
// paths keep the stored uploads.
type UpdateRealizationInput struct {
	Name        string
	Price       string
	Quantity    int
	Note        string
	ReceiptFile string
	ItemPhoto   string
}

type UpdateReportStatusRequest struct {
	ReportStatus string `json:"report_status" binding:"required"`
	Note         string `json:"note"`
}

// --- Interface ---

// RealizationService owns the post-approval reporting: realization records
// with receipt uploads and the report status workflow mirrored onto the
// parent request.
type RealizationService interface {
	Create(ctx context.Context, input CreateRealizationInput, actorID uuid.UUID) (*model.PanjarRealizationItem, error)
	GetByID(ctx context.Context, id string) (*model.PanjarRealizationItem, error)
	List(ctx context.Context, requestID, search string, page, perPage int) ([]model.PanjarRealizationItem, int64, error)
	Update(ctx context.Context, id string, input UpdateRealizationInput, actorID uuid.UUID) (*model.PanjarRealizationItem, error)
	Delete(ctx context.Context, id string) error
	UpdateReportStatus(ctx context.Context, id string, req UpdateReportStatusRequest, actorID uuid.UUID) (*model.PanjarRealizationItem, error)
}

type realizationService struct {
	realizationRepo repository.RealizationRepository
	panjarRepo      repository.PanjarRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *websocket.Hub
}

func NewRealizationService(
	realizationRepo repository.RealizationRepository,
	panjarRepo repository.PanjarRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) RealizationService {
	return &realizationService{
		realizationRepo: realizationRepo,
		panjarRepo:      panjarRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// --- Implementation ---

// Create records a realization line against an approved request. The first
// report moves the request from not_reported to reported.
func (s *realizationService) Create(ctx context.Context, input CreateRealizationInput, actorID uuid.UUID) (*model.PanjarRealizationItem, error) {
	requestID, err := uuid.Parse(input.PanjarRequestID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid panjar_request_id")
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		return nil, apperror.Unprocessable("invalid price '%s'", input.Price)
	}
	if input.Quantity < 1 {
		return nil, apperror.Unprocessable("quantity must be at least 1")
	}

	item := model.PanjarRealizationItem{
		PanjarRequestID: requestID,
		Name:            input.Name,
		Price:           price,
		Quantity:        input.Quantity,
		TotalPrice:      price.Mul(decimal.NewFromInt(int64(input.Quantity))),
		ReceiptFile:     input.ReceiptFile,
		ItemPhoto:       input.ItemPhoto,
		ReportStatus:    model.ReportNotReported,
		Note:            input.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.panjarRepo.GetByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("panjar request not found")
			}
			return fmt.Errorf("failed to load panjar request: %w", findErr)
		}

		if request.Status != model.StatusApproved {
			return apperror.Conflict("realization reports require an approved request (status is '%s')", request.Status)
		}

		if createErr := s.realizationRepo.Create(txCtx, &item); createErr != nil {
			return fmt.Errorf("failed to create realization item: %w", createErr)
		}

		if model.CanTransitionReport(request.ReportStatus, model.ReportReported) {
			request.ReportStatus = model.ReportReported
			if saveErr := s.panjarRepo.Update(txCtx, request); saveErr != nil {
				return fmt.Errorf("failed to update request report status: %w", saveErr)
			}
		}

		return s.writeAudit(txCtx, &actorID, model.ActionCreateRealizationItem, item.ID.String(), map[string]interface{}{
			"panjar_request_id": requestID.String(),
			"total_price":       item.TotalPrice.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.realizationRepo.GetByID(ctx, item.ID)
}

func (s *realizationService) GetByID(ctx context.Context, id string) (*model.PanjarRealizationItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid realization item id")
	}

	item, err := s.realizationRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("realization item not found")
		}
		return nil, fmt.Errorf("failed to load realization item: %w", err)
	}
	return item, nil
}

func (s *realizationService) List(ctx context.Context, requestID, search string, page, perPage int) ([]model.PanjarRealizationItem, int64, error) {
	var filter *uuid.UUID
	if requestID != "" {
		parsed, err := uuid.Parse(requestID)
		if err != nil {
			return nil, 0, apperror.Unprocessable("invalid panjar_request_id filter")
		}
		filter = &parsed
	}
	return s.realizationRepo.List(ctx, filter, search, page, perPage)
}

// Update edits a realization line while it is still being reported; verified
// or submitted lines are frozen.
func (s *realizationService) Update(ctx context.Context, id string, input UpdateRealizationInput, actorID uuid.UUID) (*model.PanjarRealizationItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid realization item id")
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		return nil, apperror.Unprocessable("invalid price '%s'", input.Price)
	}
	if input.Quantity < 1 {
		return nil, apperror.Unprocessable("quantity must be at least 1")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.realizationRepo.GetByID(txCtx, itemID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("realization item not found")
			}
			return fmt.Errorf("failed to load realization item: %w", findErr)
		}

		if item.ReportStatus == model.ReportTaxVerified || item.ReportStatus == model.ReportSubmitted {
			return apperror.Conflict("cannot edit a realization item in status '%s'", item.ReportStatus)
		}

		item.Name = input.Name
		item.Price = price
		item.Quantity = input.Quantity
		item.TotalPrice = price.Mul(decimal.NewFromInt(int64(input.Quantity)))
		item.Note = input.Note
		if input.ReceiptFile != "" {
			item.ReceiptFile = input.ReceiptFile
		}
		if input.ItemPhoto != "" {
			item.ItemPhoto = input.ItemPhoto
		}
		item.PanjarRequest = nil
		if saveErr := s.realizationRepo.Update(txCtx, item); saveErr != nil {
			return fmt.Errorf("failed to update realization item: %w", saveErr)
		}

		return s.writeAudit(txCtx, &actorID, model.ActionUpdateRealizationItem, item.ID.String(), map[string]interface{}{
			"total_price": item.TotalPrice.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.realizationRepo.GetByID(ctx, itemID)
}

func (s *realizationService) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.ReportStatus == model.ReportSubmitted {
		return apperror.Conflict("submitted realization items cannot be deleted")
	}
	return s.realizationRepo.Delete(ctx, item.ID)
}

// UpdateReportStatus moves a realization item through the reporting workflow
// and mirrors the new status onto the parent request when its own table
// allows the same move.
func (s *realizationService) UpdateReportStatus(ctx context.Context, id string, req UpdateReportStatusRequest, actorID uuid.UUID) (*model.PanjarRealizationItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid realization item id")
	}

	target := model.ReportStatus(req.ReportStatus)
	if !model.ValidReportStatus(target) {
		return nil, apperror.Unprocessable("unknown report status '%s'", req.ReportStatus)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, findErr := s.realizationRepo.GetByID(txCtx, itemID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("realization item not found")
			}
			return fmt.Errorf("failed to load realization item: %w", findErr)
		}

		if !model.CanTransitionReport(item.ReportStatus, target) {
			return apperror.Conflict("cannot move report from '%s' to '%s'", item.ReportStatus, target)
		}

		item.ReportStatus = target
		if req.Note != "" {
			item.Note = req.Note
		}
		item.PanjarRequest = nil
		if saveErr := s.realizationRepo.Update(txCtx, item); saveErr != nil {
			return fmt.Errorf("failed to update realization item: %w", saveErr)
		}

		request, reqErr := s.panjarRepo.GetByID(txCtx, item.PanjarRequestID)
		if reqErr != nil {
			return fmt.Errorf("failed to load panjar request: %w", reqErr)
		}
		if model.CanTransitionReport(request.ReportStatus, target) {
			request.ReportStatus = target
			if saveErr := s.panjarRepo.Update(txCtx, request); saveErr != nil {
				return fmt.Errorf("failed to update request report status: %w", saveErr)
			}
		}

		return s.writeAudit(txCtx, &actorID, model.ActionUpdateReportStatus, item.ID.String(), map[string]interface{}{
			"report_status": string(target),
			"note":          req.Note,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.NotifyEvent("panjar_report."+string(target), itemID.String(), string(target), actorID.String())
	}

	return s.realizationRepo.GetByID(ctx, itemID)
}

func (s *realizationService) writeAudit(ctx context.Context, userID *uuid.UUID, action, entityID string, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := model.AuditLog{
		UserID:   userID,
		Action:   action,
		EntityID: entityID,
		Details:  string(payload),
	}
	if err := s.auditRepo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
