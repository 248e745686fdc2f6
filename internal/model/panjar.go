package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PanjarRequest is a cash-advance request drawn by a unit against a budget
// item. Status moves through the verification/approval workflow; report
// status tracks the parallel post-approval realization reporting.
type PanjarRequest struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UnitID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"unit_id"`
	Unit         *Unit           `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	BudgetItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"budget_item_id"`
	BudgetItem   *BudgetItem     `gorm:"foreignKey:BudgetItemID" json:"budget_item,omitempty"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReportStatus ReportStatus    `gorm:"type:varchar(20);not null;default:'not_reported';index" json:"report_status"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_amount"`
	Note         string          `gorm:"type:text" json:"note"`

	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator    *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid" json:"verified_by"`
	Verifier   *User      `gorm:"foreignKey:VerifiedBy" json:"verifier,omitempty"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Approver   *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	VerifiedAt *time.Time `json:"verified_at"`
	ApprovedAt *time.Time `json:"approved_at"`

	Items []PanjarItem `gorm:"foreignKey:PanjarRequestID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PanjarItem is a line item of a PanjarRequest with its own workflow status
// and an append-only review history.
type PanjarItem struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PanjarRequestID uuid.UUID           `gorm:"type:uuid;not null;index" json:"panjar_request_id"`
	Name            string              `gorm:"type:varchar(255);not null" json:"name"`
	Spec            string              `gorm:"type:text" json:"spec"`
	Price           decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"price"`
	Quantity        int                 `gorm:"not null" json:"quantity"`
	TotalPrice      decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"total_price"`
	Status          Status              `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Histories       []PanjarItemHistory `gorm:"foreignKey:PanjarItemID;constraint:OnDelete:CASCADE" json:"histories,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// PanjarItemHistory is one append-only log entry per status change on a
// PanjarItem. Never mutated or deleted except via cascade.
type PanjarItemHistory struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PanjarItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"panjar_item_id"`
	Status       Status     `gorm:"type:varchar(20);not null" json:"status"`
	Note         string     `gorm:"type:text" json:"note"`
	ReviewerID   *uuid.UUID `gorm:"type:uuid" json:"reviewer_id"`
	Reviewer     *User      `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReviewerRole string     `gorm:"type:varchar(50)" json:"reviewer_role"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// PanjarRealizationItem is a post-approval realization record carrying
// uploaded receipt/photo file references and its own reporting status.
type PanjarRealizationItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PanjarRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"panjar_request_id"`
	PanjarRequest   *PanjarRequest  `gorm:"foreignKey:PanjarRequestID" json:"panjar_request,omitempty"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	ReceiptFile     string          `gorm:"type:varchar(512)" json:"receipt_file"` // public relative path
	ItemPhoto       string          `gorm:"type:varchar(512)" json:"item_photo"`   // public relative path
	ReportStatus    ReportStatus    `gorm:"type:varchar(20);not null;default:'not_reported';index" json:"report_status"`
	Note            string          `gorm:"type:text" json:"note"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
