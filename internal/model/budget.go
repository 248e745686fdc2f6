package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetYear represents a fiscal year; at most one year is active at a time
// (enforced at service level, not by schema).
type BudgetYear struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Year      int       `gorm:"uniqueIndex;not null" json:"year"`
	IsActive  bool      `gorm:"default:false;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Budget is a unit's budget for one quarter of a fiscal year.
// Unique per (unit, year, quarter).
type Budget struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey;" json:"id"`
	UnitID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_budget_unit_year_quarter" json:"unit_id"`
	Unit         *Unit        `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	BudgetYearID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_budget_unit_year_quarter" json:"budget_year_id"`
	BudgetYear   *BudgetYear  `gorm:"foreignKey:BudgetYearID" json:"budget_year,omitempty"`
	Quarter      int          `gorm:"not null;uniqueIndex:idx_budget_unit_year_quarter" json:"quarter"` // 1-4
	Items        []BudgetItem `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// BudgetItem is a line within a unit's quarterly budget against which panjar
// requests are drawn. RemainingAmount = AmountAllocation - AmountRealization,
// maintained by application code on request-level approval.
type BudgetItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BudgetID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"budget_id"`
	Budget            *Budget         `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	AmountAllocation  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_allocation"`
	AmountRealization decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_realization"`
	RemainingAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"remaining_amount"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
