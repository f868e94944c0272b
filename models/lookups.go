package models

import "github.com/shopspring/decimal"

// Lookup tables referenced by order configurations. Their management (CRUD,
// listing for select boxes) lives outside this service; the models exist so
// foreign keys resolve and preloads work.

// Company is the customer account an order is placed for
type Company struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (Company) TableName() string { return "companies" }

// Contact is a person at a company
type Contact struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CompanyID uint   `gorm:"not null;index" json:"company_id"`
	FullName  string `gorm:"not null" json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
}

func (Contact) TableName() string { return "contacts" }

// Product is a manufactured product family (roman shade, drapery panel, ...)
type Product struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	RingTypeID uint   `json:"ring_type_id"`
}

func (Product) TableName() string { return "products" }

// RingType describes the ring hardware family a product runs on
type RingType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
}

func (RingType) TableName() string { return "ring_types" }

// ShippingMethod is a carrier/service selection
type ShippingMethod struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (ShippingMethod) TableName() string { return "shipping_methods" }

// Station is a manufacturing station; finalized orders are routed through
// stations in Sequence order
type Station struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Sequence int    `gorm:"not null;index" json:"sequence"`
}

func (Station) TableName() string { return "stations" }

// Hardware is a head-rail/track hardware selection for a line
type Hardware struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Description     string `gorm:"not null" json:"description"`
	RelatedOptionID *uint  `json:"related_option_id"`
}

func (Hardware) TableName() string { return "hardware" }

// CordPosition is the lift-cord exit position on a line
type CordPosition struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
}

func (CordPosition) TableName() string { return "cord_positions" }

// PullType is the pull/lift mechanism for a line
type PullType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"not null" json:"description"`
	HardwareID  *uint     `json:"hardware_id"`
	Hardware    *Hardware `gorm:"foreignKey:HardwareID" json:"hardware,omitempty"`
}

func (PullType) TableName() string { return "pull_types" }

// Mount is the mounting style (inside, outside, ceiling)
type Mount struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Description string `gorm:"not null" json:"description"`
}

func (Mount) TableName() string { return "mounts" }

// ValanceType is a decorative valance selection
type ValanceType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Type string `json:"type"`
}

func (ValanceType) TableName() string { return "valance_types" }

// FabricType categorizes a fabric assignment (face, lining, trim, ...)
type FabricType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (FabricType) TableName() string { return "fabric_types" }

// Fabric is a catalog fabric. VerticalRepeat and FabricWidth drive cut-length
// math; PricePerYard drives fabric pricing.
type Fabric struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	VerticalRepeat float64         `json:"vertical_repeat"`
	FabricWidth    float64         `gorm:"not null;default:54" json:"fabric_width"`
	PricePerYard   decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_per_yard"`
}

func (Fabric) TableName() string { return "fabrics" }

// OptionType is a configurable option definition. Sub-options are OptionType
// rows whose ParentID points at their family; an option instance may only
// reference a sub-option from its own family.
type OptionType struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	ParentID        *uint           `gorm:"index" json:"parent_id"`
	IsEmbellishment bool            `gorm:"not null;default:false" json:"is_embellishment"`
	RequiresData    bool            `gorm:"not null;default:false" json:"requires_data"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	SortOrder       int             `gorm:"not null;default:0" json:"sort_order"`
	IsDefault       bool            `gorm:"not null;default:false" json:"is_default"`
}

func (OptionType) TableName() string { return "option_types" }

// IsSubOptionOf reports whether t is a valid sub-option of parent
func (t *OptionType) IsSubOptionOf(parent *OptionType) bool {
	return t.ParentID != nil && parent != nil && *t.ParentID == parent.ID
}
