package service

import (
	"context"
	"errors"
	"fmt"

	"panjarku-backend/internal/model"
	"panjarku-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // Permission UUIDs
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required"`
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) RoleService {
	return &roleService{db: db}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	var roles []model.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid role id")
	}

	var role model.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("role not found")
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	var existing model.Role
	if err := s.db.WithContext(ctx).First(&existing, "name = ?", req.Name).Error; err == nil {
		return nil, apperror.Conflict("role '%s' already exists", req.Name)
	}

	role := model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsSystem:    false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		if len(req.Permissions) > 0 {
			var perms []model.Permission
			permIDs := make([]uuid.UUID, 0, len(req.Permissions))
			for _, pid := range req.Permissions {
				parsed, parseErr := uuid.Parse(pid)
				if parseErr != nil {
					return apperror.Unprocessable("invalid permission id '%s'", pid)
				}
				permIDs = append(permIDs, parsed)
			}
			if err := tx.Where("id IN ?", permIDs).Find(&perms).Error; err != nil {
				return fmt.Errorf("failed to fetch permissions: %w", err)
			}
			if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("failed to assign permissions: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid role id")
	}

	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("role not found")
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.db.WithContext(ctx).Save(&role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Unprocessable("invalid role id")
	}

	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("role not found")
		}
		return fmt.Errorf("failed to load role: %w", err)
	}

	if role.IsSystem {
		return apperror.Forbidden("cannot delete system role '%s'", role.Name)
	}

	// Clear associations before deleting
	if err := s.db.WithContext(ctx).Model(&role).Association("Permissions").Clear(); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&role).Error; err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	var perms []model.Permission
	if err := s.db.WithContext(ctx).Order("\"group\" ASC, code ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	id, err := uuid.Parse(roleID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid role id")
	}

	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("role not found")
		}
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	var perms []model.Permission
	if len(req.PermissionIDs) > 0 {
		permIDs := make([]uuid.UUID, 0, len(req.PermissionIDs))
		for _, pid := range req.PermissionIDs {
			parsed, parseErr := uuid.Parse(pid)
			if parseErr != nil {
				return nil, apperror.Unprocessable("invalid permission id '%s'", pid)
			}
			permIDs = append(permIDs, parsed)
		}
		if err := s.db.WithContext(ctx).Where("id IN ?", permIDs).Find(&perms).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch permissions: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Model(&role).Association("Permissions").Replace(perms); err != nil {
		return nil, fmt.Errorf("failed to update permissions: %w", err)
	}

	return s.GetRole(ctx, roleID)
}

// SeedDefaultRolesAndPermissions creates the default permissions and roles if not already present
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	defaultPermissions := []model.Permission{
		{Code: "view panjar-requests", Name: "Lihat Pengajuan Panjar", Group: "panjar"},
		{Code: "create panjar-requests", Name: "Buat Pengajuan Panjar", Group: "panjar"},
		{Code: "update panjar-requests", Name: "Ubah Pengajuan Panjar", Group: "panjar"},
		{Code: "delete panjar-requests", Name: "Hapus Pengajuan Panjar", Group: "panjar"},
		{Code: "review panjar-requests", Name: "Verifikasi/Setujui Pengajuan Panjar", Group: "panjar"},
		{Code: "view panjar-items", Name: "Lihat Rincian Panjar", Group: "panjar"},
		{Code: "update panjar-items", Name: "Ubah Status Rincian Panjar", Group: "panjar"},
		{Code: "view panjar-realization-items", Name: "Lihat Realisasi Panjar", Group: "realization"},
		{Code: "manage panjar-realization-items", Name: "Kelola Realisasi Panjar", Group: "realization"},
		{Code: "view budgets", Name: "Lihat Anggaran", Group: "budgets"},
		{Code: "manage budgets", Name: "Kelola Anggaran", Group: "budgets"},
		{Code: "view units", Name: "Lihat Unit", Group: "organization"},
		{Code: "manage units", Name: "Kelola Unit", Group: "organization"},
		{Code: "view employees", Name: "Lihat Pegawai", Group: "organization"},
		{Code: "manage employees", Name: "Kelola Pegawai", Group: "organization"},
		{Code: "view students", Name: "Lihat Siswa", Group: "organization"},
		{Code: "manage students", Name: "Kelola Siswa", Group: "organization"},
		{Code: "view users", Name: "Lihat Pengguna", Group: "users"},
		{Code: "manage users", Name: "Kelola Pengguna", Group: "users"},
		{Code: "view roles", Name: "Lihat Peran", Group: "users"},
		{Code: "manage roles", Name: "Kelola Peran", Group: "users"},
		{Code: "view audit-logs", Name: "Lihat Riwayat Aktivitas", Group: "audit"},
	}

	allCodes := make([]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		allCodes = append(allCodes, p.Code)
	}

	viewAndCreate := []string{
		"view panjar-requests", "create panjar-requests", "update panjar-requests",
		"delete panjar-requests", "view panjar-items", "view panjar-realization-items",
		"manage panjar-realization-items", "view budgets", "view units",
	}
	reviewerCodes := []string{
		"view panjar-requests", "review panjar-requests", "view panjar-items",
		"update panjar-items", "view panjar-realization-items", "view budgets",
		"view units", "view employees",
	}

	defaultRoles := []struct {
		Name        string
		Description string
		Codes       []string
	}{
		{"admin", "Administrator sistem", allCodes},
		{model.RoleKepalaUrusan, "Kepala urusan unit, pengaju panjar", viewAndCreate},
		{model.RoleWakilKepalaSekolah, "Wakil kepala sekolah, verifikator panjar unit", reviewerCodes},
		{model.RoleKepalaSekolah, "Kepala sekolah, penyetuju akhir panjar", reviewerCodes},
		{model.RoleKepalaAdministrasi, "Kepala administrasi, verifikator keuangan", reviewerCodes},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permsByCode := make(map[string]model.Permission, len(defaultPermissions))
		for _, p := range defaultPermissions {
			perm := p
			if err := tx.Where("code = ?", perm.Code).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("failed to seed permission '%s': %w", perm.Code, err)
			}
			permsByCode[perm.Code] = perm
		}

		for _, def := range defaultRoles {
			role := model.Role{Name: def.Name, Description: def.Description, IsSystem: true}
			if err := tx.Where("name = ?", def.Name).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role '%s': %w", def.Name, err)
			}

			perms := make([]model.Permission, 0, len(def.Codes))
			for _, code := range def.Codes {
				perms = append(perms, permsByCode[code])
			}
			if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
				return fmt.Errorf("failed to seed role permissions for '%s': %w", def.Name, err)
			}
		}

		return nil
	})
}

// --- Helpers ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:    p.ID.String(),
		Code:  p.Code,
		Name:  p.Name,
		Group: p.Group,
	}
}
