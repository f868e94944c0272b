package services

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Company{},
		&models.Contact{},
		&models.Product{},
		&models.RingType{},
		&models.ShippingMethod{},
		&models.Station{},
		&models.Hardware{},
		&models.CordPosition{},
		&models.PullType{},
		&models.Mount{},
		&models.ValanceType{},
		&models.FabricType{},
		&models.Fabric{},
		&models.OptionType{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderFabric{},
		&models.OrderOption{},
		&models.OptionData{},
		&models.FinalizationRecord{},
		&models.Alert{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// catalog is the lookup data most service tests share
type catalog struct {
	Company  models.Company
	Contact  models.Contact
	Product  models.Product
	RingType models.RingType
	Shipping models.ShippingMethod
	Stations []models.Station

	FaceType   models.FabricType
	LiningType models.FabricType
	// PlainFabric has no vertical repeat; PatternedFabric repeats every 13"
	PlainFabric     models.Fabric
	PatternedFabric models.Fabric

	// Trim is an option family with TrimColor as its sub-option
	Trim      models.OptionType
	TrimColor models.OptionType
	// Beading is an embellishment option
	Beading models.OptionType
	// Monogram requires a data payload
	Monogram models.OptionType
	// Valance is a free-standing option with no family
	Valance models.OptionType
}

func seedCatalog(t *testing.T, db *gorm.DB) catalog {
	t.Helper()

	c := catalog{
		Company:  models.Company{Name: "Harborview Interiors"},
		Product:  models.Product{Name: "Roman Shade"},
		RingType: models.RingType{Description: "Standard brass ring"},
		Shipping: models.ShippingMethod{Name: "Ground"},
	}
	mustCreate(t, db, &c.Company)
	c.Contact = models.Contact{CompanyID: c.Company.ID, FullName: "Dana Reyes", Email: "dana@harborview.example"}
	mustCreate(t, db, &c.Contact)
	mustCreate(t, db, &c.Product)
	mustCreate(t, db, &c.RingType)
	mustCreate(t, db, &c.Shipping)

	c.Stations = []models.Station{
		{Name: "Cutting", Sequence: 1},
		{Name: "Sewing", Sequence: 2},
		{Name: "Assembly", Sequence: 3},
	}
	for i := range c.Stations {
		mustCreate(t, db, &c.Stations[i])
	}

	c.FaceType = models.FabricType{Name: "Face"}
	c.LiningType = models.FabricType{Name: "Lining"}
	mustCreate(t, db, &c.FaceType)
	mustCreate(t, db, &c.LiningType)

	c.PlainFabric = models.Fabric{Name: "Linen Natural", FabricWidth: 54, PricePerYard: decimal.RequireFromString("30.00")}
	c.PatternedFabric = models.Fabric{Name: "Toile Blue", VerticalRepeat: 13, FabricWidth: 54, PricePerYard: decimal.RequireFromString("42.00")}
	mustCreate(t, db, &c.PlainFabric)
	mustCreate(t, db, &c.PatternedFabric)

	c.Trim = models.OptionType{Name: "Trim", Price: decimal.RequireFromString("12.50"), SortOrder: 2}
	mustCreate(t, db, &c.Trim)
	c.TrimColor = models.OptionType{Name: "Trim Color Navy", ParentID: &c.Trim.ID, Price: decimal.RequireFromString("3.25")}
	mustCreate(t, db, &c.TrimColor)
	c.Beading = models.OptionType{Name: "Beading", IsEmbellishment: true, Price: decimal.RequireFromString("18.00")}
	mustCreate(t, db, &c.Beading)
	c.Monogram = models.OptionType{Name: "Monogram", RequiresData: true, Price: decimal.RequireFromString("9.99")}
	mustCreate(t, db, &c.Monogram)
	c.Valance = models.OptionType{Name: "Valance Board", Price: decimal.RequireFromString("45.00"), SortOrder: 1}
	mustCreate(t, db, &c.Valance)

	return c
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("Failed to seed %T: %v", value, err)
	}
}

func mustJSON(t *testing.T, payload map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return raw
}

// step1Payload is the minimal valid initial submission: header plus one plain
// face fabric
func step1Payload(c catalog) map[string]any {
	return map[string]any{
		"company_id":   c.Company.ID,
		"contact_id":   c.Contact.ID,
		"product_id":   c.Product.ID,
		"ring_type_id": c.RingType.ID,
		"fabrics": []any{
			map[string]any{
				"fabric_type_id": c.FaceType.ID,
				"fabric_id":      c.PlainFabric.ID,
			},
		},
	}
}

func linePayload(width, drop float64) map[string]any {
	return map[string]any{
		"width": width,
		"drop":  drop,
	}
}

// createConfiguredOrder saves a step-1 order and one 36x60 line through the
// real save pipeline
func createConfiguredOrder(t *testing.T, db *gorm.DB, c catalog) *models.Order {
	t.Helper()

	order, err := SaveOrderStep1(db, testLogger(), mustJSON(t, step1Payload(c)))
	if err != nil {
		t.Fatalf("Failed to save step-1 order: %v", err)
	}

	order, err = SaveOrderConfiguration(db, testLogger(), order.ID, mustJSON(t, map[string]any{
		"order_lines": []any{linePayload(36, 60)},
	}))
	if err != nil {
		t.Fatalf("Failed to save order configuration: %v", err)
	}
	return order
}
