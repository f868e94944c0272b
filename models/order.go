package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a custom window-treatment order. An order owns its line
// items, its assigned fabrics, its top-level options and its alerts; deleting
// an order removes the whole graph.
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CompanyID        uint            `gorm:"not null;index" json:"company_id"`
	Company          Company         `gorm:"foreignKey:CompanyID" json:"company"`
	ContactID        *uint           `gorm:"index" json:"contact_id"`
	Contact          *Contact        `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	Product          Product         `gorm:"foreignKey:ProductID" json:"product"`
	RingTypeID       uint            `gorm:"not null" json:"ring_type_id"`
	RingType         RingType        `gorm:"foreignKey:RingTypeID" json:"ring_type"`
	ShippingMethodID *uint           `json:"shipping_method_id"`
	ShippingMethod   *ShippingMethod `gorm:"foreignKey:ShippingMethodID" json:"shipping_method,omitempty"`
	DateDue          *time.Time      `json:"date_due"`
	DateReceived     *time.Time      `json:"date_received"`

	// CurrentStationID is non-null only while the order is finalized
	CurrentStationID *uint    `json:"current_station_id"`
	CurrentStation   *Station `gorm:"foreignKey:CurrentStationID" json:"current_station,omitempty"`

	// Totals are recomputed from the pricing calculator on every save;
	// they are never an input
	ShadeTotal  decimal.Decimal `gorm:"type:decimal(12,2)" json:"shade_total"`
	FabricTotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"fabric_total"`
	OptionTotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"option_total"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(12,2)" json:"grand_total"`

	SwatchS3Key *string `json:"swatch_s3_key"`
	SwatchURL   *string `gorm:"-" json:"swatch_url,omitempty"` // computed field, presigned URL

	OrderLines []OrderLine   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_lines"`
	Fabrics    []OrderFabric `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"fabrics"`
	Options    []OrderOption `gorm:"polymorphic:Owner;polymorphicValue:orders" json:"options"`
	Alerts     []Alert       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"alerts"`

	// Finalized is the lock record; its existence is the sole source of
	// truth for "this order is finalized"
	Finalized *FinalizationRecord `gorm:"polymorphic:Owner;polymorphicValue:orders" json:"finalized,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsFinalized reports whether the order carries a finalization record
func (o *Order) IsFinalized() bool {
	return o.Finalized != nil
}
