package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for data access of Employee
// entities; it also backs the approval-hierarchy directory lookups.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error)
	GetByNIP(ctx context.Context, nip string) (*model.Employee, error)
	GetByPositionID(ctx context.Context, positionID uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, search string, page, perPage int) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindUsersByRoleAndUnit(ctx context.Context, roleName string, unitID uuid.UUID) ([]model.User, error)
	FindUsersByRole(ctx context.Context, roleName string) ([]model.User, error)
	FindFirstUserByPositionSlug(ctx context.Context, slug string) (*model.User, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Unit").
		Preload("Position.Superior").
		First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("Unit").
		Preload("Position.Superior").
		First(&employee, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) GetByNIP(ctx context.Context, nip string) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "nip = ?", nip).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByPositionID returns the employee occupying a position, if any.
func (r *employeeRepository) GetByPositionID(ctx context.Context, positionID uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Position").
		First(&employee, "position_id = ?", positionID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, search string, page, perPage int) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Employee{}).
		Joins("LEFT JOIN users ON users.id = employees.user_id")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("employees.nip ILIKE ? OR users.name ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("User").Preload("Unit").Preload("Position").
		Order("employees.nip ASC").
		Offset(offset).Limit(perPage).
		Find(&employees).Error; err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

// FindUsersByRoleAndUnit returns users holding the role whose employee record
// sits in the given unit.
func (r *employeeRepository) FindUsersByRoleAndUnit(ctx context.Context, roleName string, unitID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).
		Joins("INNER JOIN user_roles ur ON ur.user_id = users.id").
		Joins("INNER JOIN roles r ON r.id = ur.role_id").
		Joins("INNER JOIN employees e ON e.user_id = users.id").
		Where("r.name = ? AND e.unit_id = ?", roleName, unitID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindUsersByRole returns all users holding the role, across all units.
func (r *employeeRepository) FindUsersByRole(ctx context.Context, roleName string) ([]model.User, error) {
	var users []model.User
	err := GetDB(ctx, r.db).
		Joins("INNER JOIN user_roles ur ON ur.user_id = users.id").
		Joins("INNER JOIN roles r ON r.id = ur.role_id").
		Where("r.name = ?", roleName).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindFirstUserByPositionSlug returns the first user whose employee position
// carries the slug, or nil when no one holds it.
func (r *employeeRepository) FindFirstUserByPositionSlug(ctx context.Context, slug string) (*model.User, error) {
	var user model.User
	err := GetDB(ctx, r.db).
		Joins("INNER JOIN employees e ON e.user_id = users.id").
		Joins("INNER JOIN positions p ON p.id = e.position_id").
		Where("p.slug = ?", slug).
		Order("users.created_at ASC").
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
