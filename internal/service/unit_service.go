package service

import (
	"context"
	"errors"

	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUnitRequest struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	ParentID string `json:"parent_id"`
	HeadID   string `json:"head_id"`
}

type UpdateUnitRequest struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	ParentID string `json:"parent_id"`
	HeadID   string `json:"head_id"`
}

type CreatePositionRequest struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	UnitID     string `json:"unit_id"`
	SuperiorID string `json:"superior_id"`
}

type UpdatePositionRequest struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	UnitID     string `json:"unit_id"`
	SuperiorID string `json:"superior_id"`
}

// --- Interface ---

type UnitService interface {
	CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.Unit, error)
	GetUnit(ctx context.Context, id string) (*model.Unit, error)
	ListUnits(ctx context.Context, search string, page, perPage int) ([]model.Unit, int64, error)
	UpdateUnit(ctx context.Context, id string, req UpdateUnitRequest) (*model.Unit, error)
	DeleteUnit(ctx context.Context, id string) error
	UnitChildren(ctx context.Context, id string) ([]model.Unit, error)
	UnitAncestors(ctx context.Context, id string) ([]model.Unit, error)

	CreatePosition(ctx context.Context, req CreatePositionRequest) (*model.Position, error)
	GetPosition(ctx context.Context, id string) (*model.Position, error)
	ListPositions(ctx context.Context, search string, page, perPage int) ([]model.Position, int64, error)
	UpdatePosition(ctx context.Context, id string, req UpdatePositionRequest) (*model.Position, error)
	DeletePosition(ctx context.Context, id string) error
}

type unitService struct {
	unitRepo     repository.UnitRepository
	positionRepo repository.PositionRepository
	hierarchy    HierarchyService
}

func NewUnitService(
	unitRepo repository.UnitRepository,
	positionRepo repository.PositionRepository,
	hierarchy HierarchyService,
) UnitService {
	return &unitService{
		unitRepo:     unitRepo,
		positionRepo: positionRepo,
		hierarchy:    hierarchy,
	}
}

// --- Units ---

func (s *unitService) CreateUnit(ctx context.Context, req CreateUnitRequest) (*model.Unit, error) {
	if _, err := s.unitRepo.GetByCode(ctx, req.Code); err == nil {
		return nil, apperror.Conflict("unit code '%s' already exists", req.Code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit := model.Unit{Name: req.Name, Code: req.Code}

	parentID, err := parseOptionalUUID(req.ParentID, "parent_id")
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.unitRepo.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Unprocessable("parent unit not found")
			}
			return nil, err
		}
	}
	unit.ParentID = parentID

	headID, err := parseOptionalUUID(req.HeadID, "head_id")
	if err != nil {
		return nil, err
	}
	unit.HeadID = headID

	if err := s.unitRepo.Create(ctx, &unit); err != nil {
		return nil, err
	}
	return s.unitRepo.GetByID(ctx, unit.ID)
}

func (s *unitService) GetUnit(ctx context.Context, id string) (*model.Unit, error) {
	unitID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid unit id")
	}

	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("unit not found")
		}
		return nil, err
	}
	return unit, nil
}

func (s *unitService) ListUnits(ctx context.Context, search string, page, perPage int) ([]model.Unit, int64, error) {
	return s.unitRepo.List(ctx, search, page, perPage)
}

func (s *unitService) UpdateUnit(ctx context.Context, id string, req UpdateUnitRequest) (*model.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != unit.Code {
		if _, err := s.unitRepo.GetByCode(ctx, req.Code); err == nil {
			return nil, apperror.Conflict("unit code '%s' already exists", req.Code)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	parentID, err := parseOptionalUUID(req.ParentID, "parent_id")
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if *parentID == unit.ID {
			return nil, apperror.Unprocessable("unit cannot be its own parent")
		}
		// Reject a parent that sits below this unit; that link would close a cycle
		descendants, derr := s.hierarchy.UnitDescendants(ctx, unit.ID)
		if derr != nil {
			return nil, derr
		}
		for _, d := range descendants {
			if d.ID == *parentID {
				return nil, apperror.Unprocessable("unit cannot be moved under its own descendant")
			}
		}
	}

	headID, err := parseOptionalUUID(req.HeadID, "head_id")
	if err != nil {
		return nil, err
	}

	unit.Name = req.Name
	unit.Code = req.Code
	unit.ParentID = parentID
	unit.HeadID = headID
	unit.Parent = nil
	unit.Children = nil
	unit.Head = nil

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return s.unitRepo.GetByID(ctx, unit.ID)
}

func (s *unitService) DeleteUnit(ctx context.Context, id string) error {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return err
	}
	if len(unit.Children) > 0 {
		return apperror.Conflict("unit still has child units")
	}
	return s.unitRepo.Delete(ctx, unit.ID)
}

func (s *unitService) UnitChildren(ctx context.Context, id string) ([]model.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hierarchy.UnitDescendants(ctx, unit.ID)
}

func (s *unitService) UnitAncestors(ctx context.Context, id string) ([]model.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hierarchy.UnitAncestors(ctx, unit.ID)
}

// --- Positions ---

func (s *unitService) CreatePosition(ctx context.Context, req CreatePositionRequest) (*model.Position, error) {
	if _, err := s.positionRepo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, apperror.Conflict("position slug '%s' already exists", req.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	position := model.Position{Name: req.Name, Slug: req.Slug}

	unitID, err := parseOptionalUUID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	position.UnitID = unitID

	superiorID, err := parseOptionalUUID(req.SuperiorID, "superior_id")
	if err != nil {
		return nil, err
	}
	position.SuperiorID = superiorID

	if err := s.positionRepo.Create(ctx, &position); err != nil {
		return nil, err
	}
	return s.positionRepo.GetByID(ctx, position.ID)
}

func (s *unitService) GetPosition(ctx context.Context, id string) (*model.Position, error) {
	positionID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid position id")
	}

	position, err := s.positionRepo.GetByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("position not found")
		}
		return nil, err
	}
	return position, nil
}

func (s *unitService) ListPositions(ctx context.Context, search string, page, perPage int) ([]model.Position, int64, error) {
	return s.positionRepo.List(ctx, search, page, perPage)
}

func (s *unitService) UpdatePosition(ctx context.Context, id string, req UpdatePositionRequest) (*model.Position, error) {
	position, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != position.Slug {
		if _, err := s.positionRepo.GetBySlug(ctx, req.Slug); err == nil {
			return nil, apperror.Conflict("position slug '%s' already exists", req.Slug)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	unitID, err := parseOptionalUUID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}

	superiorID, err := parseOptionalUUID(req.SuperiorID, "superior_id")
	if err != nil {
		return nil, err
	}
	if superiorID != nil && *superiorID == position.ID {
		return nil, apperror.Unprocessable("position cannot be its own superior")
	}

	position.Name = req.Name
	position.Slug = req.Slug
	position.UnitID = unitID
	position.SuperiorID = superiorID
	position.Unit = nil
	position.Superior = nil

	if err := s.positionRepo.Update(ctx, position); err != nil {
		return nil, err
	}
	return s.positionRepo.GetByID(ctx, position.ID)
}

func (s *unitService) DeletePosition(ctx context.Context, id string) error {
	position, err := s.GetPosition(ctx, id)
	if err != nil {
		return err
	}
	return s.positionRepo.Delete(ctx, position.ID)
}

// parseOptionalUUID parses an optional UUID field, treating "" as nil
func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Unprocessable("invalid %s", field)
	}
	return &id, nil
}
