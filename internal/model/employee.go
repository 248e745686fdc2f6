package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee links a User to a Unit and a Position (one-to-one with User)
type Employee struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UnitID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"unit_id"`
	Unit       *Unit          `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	PositionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"position_id"`
	Position   *Position      `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	NIP        string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"nip"` // employee identity number
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Student belongs to a unit of the organizational hierarchy
type Student struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NISN          string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"nisn"` // national student number
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	UnitID        *uuid.UUID     `gorm:"type:uuid;index" json:"unit_id"`
	Unit          *Unit          `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	GuardianName  string         `gorm:"type:varchar(255)" json:"guardian_name"`
	GuardianPhone string         `gorm:"type:varchar(30)" json:"guardian_phone"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
