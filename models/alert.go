package models

import "time"

// Alert severities
const (
	AlertSeverityInfo    = "info"
	AlertSeverityWarning = "warning"
)

// Alert is an advisory attached to an order by the review engine after every
// structural save. Alerts never block a save and are not user-editable; the
// engine owns the full set and replaces it wholesale.
type Alert struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderID  uint   `gorm:"not null;index" json:"order_id"`
	Severity string `gorm:"not null;default:'warning'" json:"severity"`
	Message  string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the Alert model
func (Alert) TableName() string {
	return "alerts"
}
