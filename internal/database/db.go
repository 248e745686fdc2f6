package database

import (
	"log"

	"panjarku-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Role{},
		&model.Permission{},
		&model.Unit{},
		&model.Position{},
		&model.Employee{},
		&model.Student{},
		&model.BudgetYear{},
		&model.Budget{},
		&model.BudgetItem{},
		&model.PanjarRequest{},
		&model.PanjarItem{},
		&model.PanjarItemHistory{},
		&model.PanjarRealizationItem{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
