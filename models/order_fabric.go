package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderFabric assigns a fabric to an order. Fabric-level options (including
// every embellishment option) hang off this record, not off the order or its
// lines.
type OrderFabric struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      uint       `gorm:"not null;index" json:"order_id"`
	FabricTypeID uint       `gorm:"not null" json:"fabric_type_id"`
	FabricType   FabricType `gorm:"foreignKey:FabricTypeID" json:"type"`
	FabricID     uint       `gorm:"not null" json:"fabric_id"`
	Fabric       Fabric     `gorm:"foreignKey:FabricID" json:"fabric"`

	Options []OrderOption `gorm:"polymorphic:Owner;polymorphicValue:order_fabrics" json:"options"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderFabric model
func (OrderFabric) TableName() string {
	return "order_fabrics"
}
