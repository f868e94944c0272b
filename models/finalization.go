package models

import "time"

// FinalizationRecord locks an order or an order line for production. It is
// created by finalize and deleted by unfinalize; nothing else touches it. The
// unique owner index makes a concurrent double-finalize lose the race at
// commit time instead of producing two locks.
type FinalizationRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerID   uint   `gorm:"not null;uniqueIndex:uq_finalization_owner" json:"owner_id"`
	OwnerType string `gorm:"not null;uniqueIndex:uq_finalization_owner" json:"owner_type"`

	// Snapshots of who finalized and where the unit was routed
	UserID    string `json:"user_id"`
	StationID *uint  `json:"station_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the FinalizationRecord model
func (FinalizationRecord) TableName() string {
	return "finalization_records"
}
