package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit represents an organizational department/division arranged in a tree
// via the self-referential ParentID link.
type Unit struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Code      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id"`
	Parent    *Unit          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Unit         `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	HeadID    *uuid.UUID     `gorm:"type:uuid" json:"head_id"`
	Head      *User          `gorm:"foreignKey:HeadID" json:"head,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Position represents a job title, arranged in a superior/subordinate tree
// independent of the unit tree.
type Position struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Slug       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // e.g. "kepala-administrasi"
	UnitID     *uuid.UUID `gorm:"type:uuid;index" json:"unit_id"`
	Unit       *Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	SuperiorID *uuid.UUID `gorm:"type:uuid;index" json:"superior_id"`
	Superior   *Position  `gorm:"foreignKey:SuperiorID" json:"superior,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Position slugs used by the fixed finance hierarchies
const (
	PositionSlugKepalaUrusanHumanCapital = "kepala-urusan-human-capital"
	PositionSlugKepalaAdministrasi       = "kepala-administrasi"
)
