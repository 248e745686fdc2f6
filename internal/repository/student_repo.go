package repository

import (
	"context"

	"panjarku-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentRepository defines the interface for data access of Student entities
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByNISN(ctx context.Context, nisn string) (*model.Student, error)
	List(ctx context.Context, search string, page, perPage int) ([]model.Student, int64, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return GetDB(ctx, r.db).Create(student).Error
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := GetDB(ctx, r.db).Preload("Unit").First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetByNISN(ctx context.Context, nisn string) (*model.Student, error) {
	var student model.Student
	if err := GetDB(ctx, r.db).First(&student, "nisn = ?", nisn).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, search string, page, perPage int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Student{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR nisn ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	if err := query.Preload("Unit").
		Order("name ASC").
		Offset(offset).Limit(perPage).
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return GetDB(ctx, r.db).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Student{}).Error
}
