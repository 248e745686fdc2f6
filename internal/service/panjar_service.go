package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/internal/websocket"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type PanjarItemInput struct {
	Name     string `json:"name" binding:"required"`
	Spec     string `json:"spec"`
	Price    string `json:"price" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type CreatePanjarRequest struct {
	BudgetItemID string            `json:"budget_item_id" binding:"required"`
	Note         string            `json:"note"`
	Items        []PanjarItemInput `json:"items" binding:"required,min=1,dive"`
}

type UpdatePanjarRequest struct {
	Note  string            `json:"note"`
	Items []PanjarItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

type ReviewNote struct {
	Note string `json:"note"`
}

type PanjarListFilter struct {
	UnitID    string
	CreatedBy string
	Status    string
	Search    string
	Page      int
	PerPage   int
}

// --- Interface ---

// PanjarService owns the panjar request lifecycle: creation with computed
// totals, the verify/approve/reject/revision workflow, and the budget
// realization bound to request-level approval.
type PanjarService interface {
	Create(ctx context.Context, req CreatePanjarRequest, creatorID uuid.UUID) (*model.PanjarRequest, error)
	GetByID(ctx context.Context, id string) (*model.PanjarRequest, error)
	List(ctx context.Context, filter PanjarListFilter) ([]model.PanjarRequest, int64, error)
	Update(ctx context.Context, id string, req UpdatePanjarRequest, actorID uuid.UUID) (*model.PanjarRequest, error)
	Delete(ctx context.Context, id string, actorID uuid.UUID) error
	Verify(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error)
	Approve(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error)
	Reject(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error)
	RequestRevision(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error)
}

type panjarService struct {
	panjarRepo     repository.PanjarRepository
	budgetItemRepo repository.BudgetItemRepository
	userRepo       repository.UserRepository
	employeeRepo   repository.EmployeeRepository
	auditRepo      repository.AuditRepository
	approval       ApprovalService
	txManager      repository.TransactionManager
	hub            *websocket.Hub
}

func NewPanjarService(
	panjarRepo repository.PanjarRepository,
	budgetItemRepo repository.BudgetItemRepository,
	userRepo repository.UserRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	approval ApprovalService,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) PanjarService {
	return &panjarService{
		panjarRepo:     panjarRepo,
		budgetItemRepo: budgetItemRepo,
		userRepo:       userRepo,
		employeeRepo:   employeeRepo,
		auditRepo:      auditRepo,
		approval:       approval,
		txManager:      txManager,
		hub:            hub,
	}
}

// --- Pure helpers ---

// BuildPanjarItems converts the item inputs into models with computed
// total_price = price * quantity, returning the request total alongside.
func BuildPanjarItems(inputs []PanjarItemInput) ([]model.PanjarItem, decimal.Decimal, error) {
	items := make([]model.PanjarItem, 0, len(inputs))
	total := decimal.Zero

	for _, in := range inputs {
		price, err := decimal.NewFromString(in.Price)
		if err != nil {
			return nil, decimal.Zero, apperror.Unprocessable("invalid price '%s' for item '%s'", in.Price, in.Name)
		}
		if price.IsNegative() {
			return nil, decimal.Zero, apperror.Unprocessable("price for item '%s' must not be negative", in.Name)
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, model.PanjarItem{
			Name:       in.Name,
			Spec:       in.Spec,
			Price:      price,
			Quantity:   in.Quantity,
			TotalPrice: lineTotal,
			Status:     model.StatusPending,
		})
		total = total.Add(lineTotal)
	}

	return items, total, nil
}

// ApprovedTotal sums the line totals of all items not rejected at approval
// time; rejected lines do not draw on the budget.
func ApprovedTotal(items []model.PanjarItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Status != model.StatusRejected {
			total = total.Add(item.TotalPrice)
		}
	}
	return total
}

// --- Implementation ---

func (s *panjarService) Create(ctx context.Context, req CreatePanjarRequest, creatorID uuid.UUID) (*model.PanjarRequest, error) {
	budgetItemID, err := uuid.Parse(req.BudgetItemID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid budget_item_id")
	}

	items, total, err := BuildPanjarItems(req.Items)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByUserID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Forbidden("only employees may raise panjar requests")
		}
		return nil, fmt.Errorf("failed to resolve creator's unit: %w", err)
	}

	if _, err := s.budgetItemRepo.GetByID(ctx, budgetItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("budget item not found")
		}
		return nil, fmt.Errorf("failed to load budget item: %w", err)
	}

	request := model.PanjarRequest{
		UnitID:       employee.UnitID,
		BudgetItemID: budgetItemID,
		Status:       model.StatusPending,
		ReportStatus: model.ReportNotReported,
		TotalAmount:  total,
		Note:         req.Note,
		CreatedBy:    creatorID,
		Items:        items,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.panjarRepo.Create(txCtx, &request); createErr != nil {
			return fmt.Errorf("failed to create panjar request: %w", createErr)
		}
		return s.writeAudit(txCtx, &creatorID, model.ActionCreatePanjarRequest, request.ID.String(), map[string]interface{}{
			"budget_item_id": budgetItemID.String(),
			"total_amount":   total.StringFixed(2),
			"item_count":     len(items),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.panjarRepo.GetByIDWithRelations(ctx, request.ID)
}

func (s *panjarService) GetByID(ctx context.Context, id string) (*model.PanjarRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid panjar request id")
	}

	request, err := s.panjarRepo.GetByIDWithRelations(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("panjar request not found")
		}
		return nil, fmt.Errorf("failed to load panjar request: %w", err)
	}
	return request, nil
}

func (s *panjarService) List(ctx context.Context, filter PanjarListFilter) ([]model.PanjarRequest, int64, error) {
	repoFilter := repository.PanjarFilter{
		Search:  filter.Search,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}
	if filter.UnitID != "" {
		unitID, err := uuid.Parse(filter.UnitID)
		if err != nil {
			return nil, 0, apperror.Unprocessable("invalid unit_id filter")
		}
		repoFilter.UnitID = &unitID
	}
	if filter.CreatedBy != "" {
		createdBy, err := uuid.Parse(filter.CreatedBy)
		if err != nil {
			return nil, 0, apperror.Unprocessable("invalid created_by filter")
		}
		repoFilter.CreatedBy = &createdBy
	}
	if filter.Status != "" {
		status := model.Status(filter.Status)
		if !model.ValidStatus(status) {
			return nil, 0, apperror.Unprocessable("unknown status '%s'", filter.Status)
		}
		repoFilter.Status = status
	}

	return s.panjarRepo.List(ctx, repoFilter)
}

// Update replaces note/items while the request is editable (pending) or
// resubmits it after a requested revision (revision → pending).
func (s *panjarService) Update(ctx context.Context, id string, req UpdatePanjarRequest, actorID uuid.UUID) (*model.PanjarRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid panjar request id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.panjarRepo.GetByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("panjar request not found")
			}
			return fmt.Errorf("failed to load panjar request: %w", findErr)
		}

		if request.CreatedBy != actorID {
			return apperror.Forbidden("only the creator may edit a panjar request")
		}
		if request.Status != model.StatusPending && request.Status != model.StatusRevision {
			return apperror.Conflict("cannot edit a panjar request in status '%s'", request.Status)
		}

		resubmitted := request.Status == model.StatusRevision
		if resubmitted {
			request.Status = model.StatusPending
		}

		request.Note = req.Note
		if len(req.Items) > 0 {
			items, total, buildErr := BuildPanjarItems(req.Items)
			if buildErr != nil {
				return buildErr
			}
			if replaceErr := s.panjarRepo.ReplaceItems(txCtx, request, items); replaceErr != nil {
				return fmt.Errorf("failed to replace panjar items: %w", replaceErr)
			}
			request.TotalAmount = total
		}

		if saveErr := s.panjarRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update panjar request: %w", saveErr)
		}

		return s.writeAudit(txCtx, &actorID, model.ActionUpdatePanjarRequest, request.ID.String(), map[string]interface{}{
			"total_amount": request.TotalAmount.StringFixed(2),
			"resubmitted":  resubmitted,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.panjarRepo.GetByIDWithRelations(ctx, requestID)
}

func (s *panjarService) Delete(ctx context.Context, id string, actorID uuid.UUID) error {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Unprocessable("invalid panjar request id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.panjarRepo.GetByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("panjar request not found")
			}
			return fmt.Errorf("failed to load panjar request: %w", findErr)
		}

		if request.CreatedBy != actorID {
			return apperror.Forbidden("only the creator may delete a panjar request")
		}
		if request.Status != model.StatusPending {
			return apperror.Conflict("cannot delete a panjar request in status '%s'", request.Status)
		}

		if delErr := s.panjarRepo.Delete(txCtx, requestID); delErr != nil {
			return fmt.Errorf("failed to delete panjar request: %w", delErr)
		}

		return s.writeAudit(txCtx, &actorID, model.ActionDeletePanjarRequest, requestID.String(), nil)
	})
}

func (s *panjarService) Verify(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error) {
	return s.review(ctx, id, note, reviewerID, model.StatusVerified)
}

func (s *panjarService) Approve(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error) {
	return s.review(ctx, id, note, reviewerID, model.StatusApproved)
}

func (s *panjarService) Reject(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error) {
	return s.review(ctx, id, note, reviewerID, model.StatusRejected)
}

func (s *panjarService) RequestRevision(ctx context.Context, id string, note string, reviewerID uuid.UUID) (*model.PanjarRequest, error) {
	return s.review(ctx, id, note, reviewerID, model.StatusRevision)
}

// review performs one workflow transition on the request: transition check,
// reviewer-authority check against the approval hierarchy, stamps, audit,
// plus the budget realization on approval, all in one transaction.
func (s *panjarService) review(ctx context.Context, id string, note string, reviewerID uuid.UUID, target model.Status) (*model.PanjarRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid panjar request id")
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, apperror.Forbidden("reviewer not found")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, findErr := s.panjarRepo.GetByID(txCtx, requestID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("panjar request not found")
			}
			return fmt.Errorf("failed to load panjar request: %w", findErr)
		}

		if !model.CanTransition(request.Status, target) {
			return apperror.Conflict("cannot move request from '%s' to '%s'", request.Status, target)
		}

		creator, creatorErr := s.userRepo.GetByID(txCtx, request.CreatedBy)
		if creatorErr != nil {
			return fmt.Errorf("failed to load request creator: %w", creatorErr)
		}

		if authErr := s.checkAuthority(txCtx, reviewer, creator, request.UnitID, target); authErr != nil {
			return authErr
		}

		now := time.Now()
		switch target {
		case model.StatusVerified:
			request.VerifiedBy = &reviewerID
			request.VerifiedAt = &now
		case model.StatusApproved:
			request.ApprovedBy = &reviewerID
			request.ApprovedAt = &now
			if realizeErr := s.realizeBudget(txCtx, request); realizeErr != nil {
				return realizeErr
			}
		}
		request.Status = target

		if saveErr := s.panjarRepo.Update(txCtx, request); saveErr != nil {
			return fmt.Errorf("failed to update panjar request: %w", saveErr)
		}

		return s.writeAudit(txCtx, &reviewerID, auditActionFor(target), request.ID.String(), map[string]interface{}{
			"status": string(target),
			"note":   note,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.NotifyEvent("panjar_request."+string(target), requestID.String(), string(target), reviewer.Name)
	}

	return s.panjarRepo.GetByIDWithRelations(ctx, requestID)
}

// checkAuthority validates the reviewer against the approval hierarchy of the
// request creator. Verification requires membership among the verifiers,
// approval among the approvers; reject/revision is open to either group.
func (s *panjarService) checkAuthority(ctx context.Context, reviewer, creator *model.User, unitID uuid.UUID, target model.Status) error {
	switch target {
	case model.StatusVerified:
		ok, err := s.approval.CanVerify(ctx, reviewer, creator, unitID)
		if err != nil {
			return fmt.Errorf("failed to resolve approval hierarchy: %w", err)
		}
		if !ok {
			return apperror.Forbidden("user is not a verifier for this request")
		}
	case model.StatusApproved:
		ok, err := s.approval.CanApprove(ctx, reviewer, creator, unitID)
		if err != nil {
			return fmt.Errorf("failed to resolve approval hierarchy: %w", err)
		}
		if !ok {
			return apperror.Forbidden("user is not an approver for this request")
		}
	case model.StatusRejected, model.StatusRevision:
		canVerify, err := s.approval.CanVerify(ctx, reviewer, creator, unitID)
		if err != nil {
			return fmt.Errorf("failed to resolve approval hierarchy: %w", err)
		}
		canApprove, err := s.approval.CanApprove(ctx, reviewer, creator, unitID)
		if err != nil {
			return fmt.Errorf("failed to resolve approval hierarchy: %w", err)
		}
		if !canVerify && !canApprove {
			return apperror.Forbidden("user is not a reviewer for this request")
		}
	}
	return nil
}

// realizeBudget draws the request total from its budget item under a row
// lock: amount_realization grows, remaining_amount is recomputed, and the
// approval fails when the item would be overdrawn.
func (s *panjarService) realizeBudget(ctx context.Context, request *model.PanjarRequest) error {
	budgetItem, err := s.budgetItemRepo.GetByIDForUpdate(ctx, request.BudgetItemID)
	if err != nil {
		return fmt.Errorf("failed to lock budget item: %w", err)
	}

	amount := ApprovedTotal(request.Items)
	newRealization := budgetItem.AmountRealization.Add(amount)
	newRemaining := budgetItem.AmountAllocation.Sub(newRealization)
	if newRemaining.IsNegative() {
		return apperror.Conflict(
			"budget item '%s' has %s remaining, cannot realize %s",
			budgetItem.Name, budgetItem.RemainingAmount.StringFixed(2), amount.StringFixed(2),
		)
	}

	budgetItem.AmountRealization = newRealization
	budgetItem.RemainingAmount = newRemaining
	if err := s.budgetItemRepo.Update(ctx, budgetItem); err != nil {
		return fmt.Errorf("failed to update budget item realization: %w", err)
	}
	return nil
}

func (s *panjarService) writeAudit(ctx context.Context, userID *uuid.UUID, action, entityID string, details map[string]interface{}) error {
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

func auditActionFor(target model.Status) string {
	switch target {
	case model.StatusVerified:
		return model.ActionVerifyPanjarRequest
	case model.StatusApproved:
		return model.ActionApprovePanjarRequest
	case model.StatusRejected:
		return model.ActionRejectPanjarRequest
	default:
		return model.ActionRevisePanjarRequest
	}
}
