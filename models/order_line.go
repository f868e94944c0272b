package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderLine is one manufactured unit (a shade or panel set) within an order.
// Dimensional inputs are raw customer measurements in inches; everything
// derived from them (panel counts, cut lengths, manufacturing dimensions) is
// computed fresh by the manufacturing spec deriver and never stored.
type OrderLine struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;index" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID" json:"-"`

	HardwareID     *uint         `json:"hardware_id"`
	Hardware       *Hardware     `gorm:"foreignKey:HardwareID" json:"hardware,omitempty"`
	CordPositionID *uint         `json:"cord_position_id"`
	CordPosition   *CordPosition `gorm:"foreignKey:CordPositionID" json:"cord_position,omitempty"`
	PullTypeID     *uint         `json:"pull_type_id"`
	PullType       *PullType     `gorm:"foreignKey:PullTypeID" json:"pull_type,omitempty"`
	MountID        *uint         `json:"mount_id"`
	Mount          *Mount        `gorm:"foreignKey:MountID" json:"mount,omitempty"`
	ValanceTypeID  *uint         `json:"valance_type_id"`
	ValanceType    *ValanceType  `gorm:"foreignKey:ValanceTypeID" json:"valance_type,omitempty"`

	// Raw dimensional inputs, in inches. Fullness is the fabric-to-finished
	// width ratio, e.g. 2.0 for double fullness.
	Width            float64 `gorm:"not null" json:"width"`
	Drop             float64 `gorm:"not null" json:"drop"`
	Fullness         float64 `gorm:"not null;default:1" json:"fullness"`
	HeightAdjustment float64 `json:"height_adjustment"`

	Headerboard           bool  `gorm:"not null;default:false" json:"headerboard"`
	EmbellishmentOptionID *uint `json:"embellishment_option_id"`

	// CurrentStationID is non-null only while the line is finalized
	CurrentStationID *uint    `json:"current_station_id"`
	CurrentStation   *Station `gorm:"foreignKey:CurrentStationID" json:"current_station,omitempty"`

	AssemblerNotes   string `gorm:"type:text" json:"assembler_notes"`
	EmbellisherNotes string `gorm:"type:text" json:"embellisher_notes"`
	SeamstressNotes  string `gorm:"type:text" json:"seamstress_notes"`

	Options   []OrderOption       `gorm:"polymorphic:Owner;polymorphicValue:order_lines" json:"options"`
	Finalized *FinalizationRecord `gorm:"polymorphic:Owner;polymorphicValue:order_lines" json:"finalized,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// IsFinalized reports whether the line carries a finalization record
func (l *OrderLine) IsFinalized() bool {
	return l.Finalized != nil
}
