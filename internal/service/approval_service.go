package service

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
)

// ApprovalDirectory is the lookup surface the approval hierarchy resolver
// needs; EmployeeRepository satisfies it.
type ApprovalDirectory interface {
	FindUsersByRoleAndUnit(ctx context.Context, roleName string, unitID uuid.UUID) ([]model.User, error)
	FindUsersByRole(ctx context.Context, roleName string) ([]model.User, error)
	FindFirstUserByPositionSlug(ctx context.Context, slug string) (*model.User, error)
}

// ApprovalHierarchy lists who may verify and who may approve a panjar request
// raised by a given user. Consumed by the frontend to drive action buttons
// and by the backend to validate reviewers.
type ApprovalHierarchy struct {
	Verifiers []model.User `json:"verifiers"`
	Approvers []model.User `json:"approvers"`
}

// FinanceHierarchy is one of the fixed single-person hierarchies resolved by
// position slug, independent of the caller's role.
type FinanceHierarchy struct {
	Verifier    *model.User `json:"verifier,omitempty"`
	TaxVerifier *model.User `json:"tax_verifier,omitempty"`
	Approver    *model.User `json:"approver,omitempty"`
}

// ApprovalService resolves the verifier/approver structure applicable to a
// user. Pure function of (caller's roles, caller's unit, directory state);
// recomputed on every call, no caching. Missing people yield empty slices or
// nils rather than errors.
type ApprovalService interface {
	HierarchyFor(ctx context.Context, user *model.User, unitID uuid.UUID) (*ApprovalHierarchy, error)
	FinanceHierarchies(ctx context.Context) (*FinanceHierarchy, error)
	CanVerify(ctx context.Context, reviewer *model.User, creator *model.User, unitID uuid.UUID) (bool, error)
	CanApprove(ctx context.Context, reviewer *model.User, creator *model.User, unitID uuid.UUID) (bool, error)
}

type approvalService struct {
	directory ApprovalDirectory
}

func NewApprovalService(directory ApprovalDirectory) ApprovalService {
	return &approvalService{directory: directory}
}

// HierarchyFor evaluates the role rule table first-match against the user's
// role set:
//
//	kepala-urusan       → wakil of the same unit / the global kepala-sekolah
//	wakil-kepala-sekolah → self / the global kepala-sekolah
//	kepala-sekolah      → all wakil across units / self
//	kepala-administrasi → all wakil across units / the global kepala-sekolah
//	anything else       → empty / empty
func (s *approvalService) HierarchyFor(ctx context.Context, user *model.User, unitID uuid.UUID) (*ApprovalHierarchy, error) {
	hierarchy := &ApprovalHierarchy{
		Verifiers: []model.User{},
		Approvers: []model.User{},
	}
	if user == nil {
		return hierarchy, nil
	}

	switch {
	case user.HasRole(model.RoleKepalaUrusan):
		verifiers, err := s.directory.FindUsersByRoleAndUnit(ctx, model.RoleWakilKepalaSekolah, unitID)
		if err != nil {
			return nil, err
		}
		approvers, err := s.directory.FindUsersByRole(ctx, model.RoleKepalaSekolah)
		if err != nil {
			return nil, err
		}
		hierarchy.Verifiers = verifiers
		hierarchy.Approvers = approvers

	case user.HasRole(model.RoleWakilKepalaSekolah):
		approvers, err := s.directory.FindUsersByRole(ctx, model.RoleKepalaSekolah)
		if err != nil {
			return nil, err
		}
		hierarchy.Verifiers = []model.User{*user}
		hierarchy.Approvers = approvers

	case user.HasRole(model.RoleKepalaSekolah):
		verifiers, err := s.directory.FindUsersByRole(ctx, model.RoleWakilKepalaSekolah)
		if err != nil {
			return nil, err
		}
		hierarchy.Verifiers = verifiers
		hierarchy.Approvers = []model.User{*user}

	case user.HasRole(model.RoleKepalaAdministrasi):
		verifiers, err := s.directory.FindUsersByRole(ctx, model.RoleWakilKepalaSekolah)
		if err != nil {
			return nil, err
		}
		approvers, err := s.directory.FindUsersByRole(ctx, model.RoleKepalaSekolah)
		if err != nil {
			return nil, err
		}
		hierarchy.Verifiers = verifiers
		hierarchy.Approvers = approvers
	}

	if hierarchy.Verifiers == nil {
		hierarchy.Verifiers = []model.User{}
	}
	if hierarchy.Approvers == nil {
		hierarchy.Approvers = []model.User{}
	}
	return hierarchy, nil
}

// FinanceHierarchies resolves the three fixed single-person hierarchies by
// position slug. The finance verifier and the tax verifier both resolve
// through the human-capital slug.
func (s *approvalService) FinanceHierarchies(ctx context.Context) (*FinanceHierarchy, error) {
	verifier, err := s.directory.FindFirstUserByPositionSlug(ctx, model.PositionSlugKepalaUrusanHumanCapital)
	if err != nil {
		return nil, err
	}
	taxVerifier, err := s.directory.FindFirstUserByPositionSlug(ctx, model.PositionSlugKepalaUrusanHumanCapital)
	if err != nil {
		return nil, err
	}
	approver, err := s.directory.FindFirstUserByPositionSlug(ctx, model.PositionSlugKepalaAdministrasi)
	if err != nil {
		return nil, err
	}

	return &FinanceHierarchy{
		Verifier:    verifier,
		TaxVerifier: taxVerifier,
		Approver:    approver,
	}, nil
}

// CanVerify reports whether reviewer appears among the verifiers applicable
// to a request raised by creator in the given unit.
func (s *approvalService) CanVerify(ctx context.Context, reviewer *model.User, creator *model.User, unitID uuid.UUID) (bool, error) {
	hierarchy, err := s.HierarchyFor(ctx, creator, unitID)
	if err != nil {
		return false, err
	}
	return containsUser(hierarchy.Verifiers, reviewer), nil
}

// CanApprove reports whether reviewer appears among the approvers applicable
// to a request raised by creator in the given unit.
func (s *approvalService) CanApprove(ctx context.Context, reviewer *model.User, creator *model.User, unitID uuid.UUID) (bool, error) {
	hierarchy, err := s.HierarchyFor(ctx, creator, unitID)
	if err != nil {
		return false, err
	}
	return containsUser(hierarchy.Approvers, reviewer), nil
}

func containsUser(users []model.User, target *model.User) bool {
	if target == nil {
		return false
	}
	for _, u := range users {
		if u.ID == target.ID {
			return true
		}
	}
	return false
}
