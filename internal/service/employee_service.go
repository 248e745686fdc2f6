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

type CreateEmployeeRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	UnitID     string `json:"unit_id" binding:"required"`
	PositionID string `json:"position_id" binding:"required"`
	NIP        string `json:"nip" binding:"required"`
}

type UpdateEmployeeRequest struct {
	UnitID     string `json:"unit_id" binding:"required"`
	PositionID string `json:"position_id" binding:"required"`
	NIP        string `json:"nip" binding:"required"`
}

type CreateStudentRequest struct {
	NISN          string `json:"nisn" binding:"required"`
	Name          string `json:"name" binding:"required"`
	UnitID        string `json:"unit_id"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
}

type UpdateStudentRequest struct {
	NISN          string `json:"nisn" binding:"required"`
	Name          string `json:"name" binding:"required"`
	UnitID        string `json:"unit_id"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
}

// --- Interface ---

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context, search string, page, perPage int) ([]model.Employee, int64, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	EmployeeSuperior(ctx context.Context, id string) (*model.Employee, error)

	CreateStudent(ctx context.Context, req CreateStudentRequest) (*model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)
	ListStudents(ctx context.Context, search string, page, perPage int) ([]model.Student, int64, error)
	UpdateStudent(ctx context.Context, id string, req UpdateStudentRequest) (*model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	studentRepo  repository.StudentRepository
	userRepo     repository.UserRepository
	unitRepo     repository.UnitRepository
	positionRepo repository.PositionRepository
	hierarchy    HierarchyService
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	studentRepo repository.StudentRepository,
	userRepo repository.UserRepository,
	unitRepo repository.UnitRepository,
	positionRepo repository.PositionRepository,
	hierarchy HierarchyService,
) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		studentRepo:  studentRepo,
		userRepo:     userRepo,
		unitRepo:     unitRepo,
		positionRepo: positionRepo,
		hierarchy:    hierarchy,
	}
}

// --- Employees ---

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid user_id")
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid unit_id")
	}
	positionID, err := uuid.Parse(req.PositionID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid position_id")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("user not found")
		}
		return nil, err
	}
	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("unit not found")
		}
		return nil, err
	}
	if _, err := s.positionRepo.GetByID(ctx, positionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("position not found")
		}
		return nil, err
	}

	// One employee record per user
	if _, err := s.employeeRepo.GetByUserID(ctx, userID); err == nil {
		return nil, apperror.Conflict("user already has an employee record")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.employeeRepo.GetByNIP(ctx, req.NIP); err == nil {
		return nil, apperror.Conflict("NIP '%s' already exists", req.NIP)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	employee := model.Employee{
		UserID:     userID,
		UnitID:     unitID,
		PositionID: positionID,
		NIP:        req.NIP,
	}
	if err := s.employeeRepo.Create(ctx, &employee); err != nil {
		return nil, err
	}
	return s.employeeRepo.GetByID(ctx, employee.ID)
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid employee id")
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("employee not found")
		}
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, search string, page, perPage int) ([]model.Employee, int64, error) {
	return s.employeeRepo.List(ctx, search, page, perPage)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid unit_id")
	}
	positionID, err := uuid.Parse(req.PositionID)
	if err != nil {
		return nil, apperror.Unprocessable("invalid position_id")
	}

	if req.NIP != employee.NIP {
		if _, err := s.employeeRepo.GetByNIP(ctx, req.NIP); err == nil {
			return nil, apperror.Conflict("NIP '%s' already exists", req.NIP)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if _, err := s.unitRepo.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("unit not found")
		}
		return nil, err
	}
	if _, err := s.positionRepo.GetByID(ctx, positionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unprocessable("position not found")
		}
		return nil, err
	}

	employee.UnitID = unitID
	employee.PositionID = positionID
	employee.NIP = req.NIP
	employee.User = nil
	employee.Unit = nil
	employee.Position = nil

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return s.employeeRepo.GetByID(ctx, employee.ID)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, employee.ID)
}

// EmployeeSuperior resolves the employee holding the superior position, or
// nil when there is none.
func (s *employeeService) EmployeeSuperior(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hierarchy.DirectSuperior(ctx, employee.ID)
}

// --- Students ---

func (s *employeeService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*model.Student, error) {
	if _, err := s.studentRepo.GetByNISN(ctx, req.NISN); err == nil {
		return nil, apperror.Conflict("NISN '%s' already exists", req.NISN)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unitID, err := parseOptionalUUID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}
	if unitID != nil {
		if _, err := s.unitRepo.GetByID(ctx, *unitID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Unprocessable("unit not found")
			}
			return nil, err
		}
	}

	student := model.Student{
		NISN:          req.NISN,
		Name:          req.Name,
		UnitID:        unitID,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
	}
	if err := s.studentRepo.Create(ctx, &student); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, student.ID)
}

func (s *employeeService) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	studentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid student id")
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("student not found")
		}
		return nil, err
	}
	return student, nil
}

func (s *employeeService) ListStudents(ctx context.Context, search string, page, perPage int) ([]model.Student, int64, error) {
	return s.studentRepo.List(ctx, search, page, perPage)
}

func (s *employeeService) UpdateStudent(ctx context.Context, id string, req UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NISN != student.NISN {
		if _, err := s.studentRepo.GetByNISN(ctx, req.NISN); err == nil {
			return nil, apperror.Conflict("NISN '%s' already exists", req.NISN)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	unitID, err := parseOptionalUUID(req.UnitID, "unit_id")
	if err != nil {
		return nil, err
	}

	student.NISN = req.NISN
	student.Name = req.Name
	student.UnitID = unitID
	student.GuardianName = req.GuardianName
	student.GuardianPhone = req.GuardianPhone
	student.Unit = nil

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, student.ID)
}

func (s *employeeService) DeleteStudent(ctx context.Context, id string) error {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, student.ID)
}
