package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Owner type discriminator values for polymorphic option and finalization
// record ownership.
const (
	OwnerOrder     = "orders"
	OwnerOrderLine = "order_lines"
	OwnerFabric    = "order_fabrics"
)

// OrderOption is a configured option instance attached to an order, an order
// line or an order fabric. The (OwnerType, OwnerID) pair identifies its single
// owner; OrderID always points at the owning order so the whole option set of
// an order can be scanned in one query.
type OrderOption struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerID   uint   `gorm:"not null;index:idx_order_options_owner" json:"owner_id"`
	OwnerType string `gorm:"not null;index:idx_order_options_owner" json:"owner_type"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`

	OptionTypeID uint        `gorm:"not null" json:"option_type_id"`
	OptionType   OptionType  `gorm:"foreignKey:OptionTypeID" json:"option_type"`
	SubOptionID  *uint       `json:"sub_option_id"`
	SubOption    *OptionType `gorm:"foreignKey:SubOptionID" json:"sub_option,omitempty"`

	Data *OptionData `gorm:"foreignKey:OrderOptionID;constraint:OnDelete:CASCADE" json:"data,omitempty"`

	// FinalPrice is the snapshot taken by finalize; nil while the owner is
	// open. Once set it is immutable until unfinalize clears it.
	FinalPrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"final_price"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderOption model
func (OrderOption) TableName() string {
	return "order_options"
}

// OptionData is the structured payload carried by options whose type requires
// one (quantities, free-form measurements, placement notes).
type OptionData struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OrderOptionID uint   `gorm:"not null;uniqueIndex" json:"order_option_id"`
	Value         string `gorm:"type:text" json:"value"`
	Quantity      int    `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OptionData model
func (OptionData) TableName() string {
	return "order_option_data"
}
