package service

import (
	"context"
	"fmt"
	"time"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending verified approved rejected revision"`
	Note   string `json:"note"`
}

type BulkItemStatusEntry struct {
	ItemID string `json:"item_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=pending verified approved rejected revision"`
	Note   string `json:"note"`
}

type BulkUpdateItemStatusRequest struct {
	Items []BulkItemStatusEntry `json:"items" binding:"required,min=1,dive"`
}

// BulkItemStatusResult reports the per-item outcome of a bulk update; the
// batch is best-effort, not atomic.
type BulkItemStatusResult struct {
	ItemID string `json:"item_id"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ItemHistoryResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Note         string `json:"note"`
	ReviewerID   string `json:"reviewer_id,omitempty"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	ReviewerRole string `json:"reviewer_role,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// Reviewer identifies who performs a workflow transition
type Reviewer struct {
	UserID uuid.UUID
	Name   string
	Role   string
}

// --- Interface ---

// WorkflowService holds and transitions the status of panjar items, appending
// one history row per transition inside the same transaction.
type WorkflowService interface {
	UpdateItemStatus(ctx context.Context, itemID string, req UpdateItemStatusRequest, reviewer Reviewer) (*model.PanjarItem, error)
	BulkUpdateItemStatus(ctx context.Context, req BulkUpdateItemStatusRequest, reviewer Reviewer) []BulkItemStatusResult
	ItemHistory(ctx context.Context, itemID string) ([]ItemHistoryResponse, error)
}

type workflowService struct {
	itemRepo  repository.PanjarItemRepository
	txManager repository.TransactionManager
}

func NewWorkflowService(itemRepo repository.PanjarItemRepository, txManager repository.TransactionManager) WorkflowService {
	return &workflowService{itemRepo: itemRepo, txManager: txManager}
}

// --- Implementation ---

func (s *workflowService) UpdateItemStatus(ctx context.Context, itemID string, req UpdateItemStatusRequest, reviewer Reviewer) (*model.PanjarItem, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid item id: %s", itemID)
	}

	newStatus := model.Status(req.Status)
	if !model.ValidStatus(newStatus) {
		return nil, apperror.Unprocessable("unknown status '%s'", req.Status)
	}

	var item *model.PanjarItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, findErr := s.itemRepo.GetByID(txCtx, id)
		if findErr != nil {
			if findErr == gorm.ErrRecordNotFound {
				return apperror.NotFound("panjar item not found")
			}
			return fmt.Errorf("failed to load panjar item: %w", findErr)
		}

		if !model.CanTransition(found.Status, newStatus) {
			return apperror.Conflict("cannot move item from '%s' to '%s'", found.Status, newStatus)
		}

		found.Status = newStatus
		if saveErr := s.itemRepo.Update(txCtx, found); saveErr != nil {
			return fmt.Errorf("failed to update item status: %w", saveErr)
		}

		reviewerID := reviewer.UserID
		history := model.PanjarItemHistory{
			PanjarItemID: found.ID,
			Status:       newStatus,
			Note:         req.Note,
			ReviewerID:   &reviewerID,
			ReviewerRole: reviewer.Role,
			CreatedAt:    time.Now(),
		}
		if histErr := s.itemRepo.AppendHistory(txCtx, &history); histErr != nil {
			return fmt.Errorf("failed to append item history: %w", histErr)
		}

		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// BulkUpdateItemStatus applies UpdateItemStatus per entry, collecting errors
// instead of aborting the batch.
func (s *workflowService) BulkUpdateItemStatus(ctx context.Context, req BulkUpdateItemStatusRequest, reviewer Reviewer) []BulkItemStatusResult {
	results := make([]BulkItemStatusResult, 0, len(req.Items))
	for _, entry := range req.Items {
		result := BulkItemStatusResult{ItemID: entry.ItemID}
		_, err := s.UpdateItemStatus(ctx, entry.ItemID, UpdateItemStatusRequest{
			Status: entry.Status,
			Note:   entry.Note,
		}, reviewer)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Status = entry.Status
		}
		results = append(results, result)
	}
	return results
}

func (s *workflowService) ItemHistory(ctx context.Context, itemID string) ([]ItemHistoryResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid item id: %s", itemID)
	}

	if _, err := s.itemRepo.GetByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("panjar item not found")
		}
		return nil, fmt.Errorf("failed to load panjar item: %w", err)
	}

	histories, err := s.itemRepo.ListHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item history: %w", err)
	}

	responses := make([]ItemHistoryResponse, 0, len(histories))
	for _, h := range histories {
		resp := ItemHistoryResponse{
			ID:           h.ID.String(),
			Status:       string(h.Status),
			Note:         h.Note,
			ReviewerRole: h.ReviewerRole,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		}
		if h.ReviewerID != nil {
			resp.ReviewerID = h.ReviewerID.String()
		}
		if h.Reviewer != nil {
			resp.ReviewerName = h.Reviewer.Name
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
