package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePanjarRequest   = "CREATE_PANJAR_REQUEST"
	ActionUpdatePanjarRequest   = "UPDATE_PANJAR_REQUEST"
	ActionDeletePanjarRequest   = "DELETE_PANJAR_REQUEST"
	ActionVerifyPanjarRequest   = "VERIFY_PANJAR_REQUEST"
	ActionApprovePanjarRequest  = "APPROVE_PANJAR_REQUEST"
	ActionRejectPanjarRequest   = "REJECT_PANJAR_REQUEST"
	ActionRevisePanjarRequest   = "REVISE_PANJAR_REQUEST"
	ActionUpdateItemStatus      = "UPDATE_PANJAR_ITEM_STATUS"
	ActionUpdateReportStatus    = "UPDATE_REPORT_STATUS"
	ActionCreateRealizationItem = "CREATE_REALIZATION_ITEM"
	ActionUpdateRealizationItem = "UPDATE_REALIZATION_ITEM"
	ActionCreateUser            = "CREATE_USER"
	ActionUpdateUser            = "UPDATE_USER"
	ActionDeleteUser            = "DELETE_USER"
	ActionActivateBudgetYear    = "ACTIVATE_BUDGET_YEAR"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
