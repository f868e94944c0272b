package services

import (
	"errors"
	"sort"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrEmbellishmentOutsideFabric is the hard save-time constraint: an
// embellishment option may only be attached through a fabric
var ErrEmbellishmentOutsideFabric = &utils.InvalidConfigurationError{
	Reason: "embellishment options must be added to fabrics",
}

// DBOptionTypeResolver returns a resolver that looks option types up in the
// database, caching rows for the lifetime of one parse
func DBOptionTypeResolver(db *gorm.DB) models.OptionTypeResolver {
	cache := make(map[uint]*models.OptionType)
	return func(id uint) (*models.OptionType, bool) {
		if cached, ok := cache[id]; ok {
			return cached, cached != nil
		}
		var optType models.OptionType
		if err := db.First(&optType, id).Error; err != nil {
			cache[id] = nil
			return nil, false
		}
		cache[id] = &optType
		return &optType, true
	}
}

// LoadOrderGraph fetches an order with its full configuration graph
func LoadOrderGraph(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Company").
		Preload("Contact").
		Preload("Product").
		Preload("RingType").
		Preload("ShippingMethod").
		Preload("CurrentStation").
		Preload("Alerts").
		Preload("Finalized").
		Preload("Options.OptionType").
		Preload("Options.SubOption").
		Preload("Options.Data").
		Preload("Fabrics.FabricType").
		Preload("Fabrics.Fabric").
		Preload("Fabrics.Options.OptionType").
		Preload("Fabrics.Options.SubOption").
		Preload("Fabrics.Options.Data").
		Preload("OrderLines.Hardware").
		Preload("OrderLines.CordPosition").
		Preload("OrderLines.PullType").
		Preload("OrderLines.Mount").
		Preload("OrderLines.ValanceType").
		Preload("OrderLines.CurrentStation").
		Preload("OrderLines.Finalized").
		Preload("OrderLines.Options.OptionType").
		Preload("OrderLines.Options.SubOption").
		Preload("OrderLines.Options.Data").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, err
	}
	return &order, nil
}

// SaveOrderStep1 persists the initial order submission: the order header, its
// fabrics with their options and data, and its top-level options. The whole
// graph is written inside one transaction; the embellishment hard rule aborts
// it with nothing persisted.
func SaveOrderStep1(db *gorm.DB, logger *logrus.Logger, raw []byte) (*models.Order, error) {
	order, err := models.OrderFromConfigStep1(raw, DBOptionTypeResolver(db))
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := createOrderGraphStep1(tx, order); err != nil {
			return err
		}
		if err := ReviewOrderForAlerts(tx, order); err != nil {
			return err
		}
		calculator := DefaultPricingCalculator()
		if err := calculator.CalculateTotals(order); err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
			"shade_total":  order.ShadeTotal,
			"fabric_total": order.FabricTotal,
			"option_total": order.OptionTotal,
			"grand_total":  order.GrandTotal,
		}).Error
	})
	if err != nil {
		config.LogError(logger, "orders.go", "SaveOrderStep1", "transaction", nil, err)
		return nil, err
	}

	return LoadOrderGraph(db, order.ID)
}

func createOrderGraphStep1(tx *gorm.DB, order *models.Order) error {
	fabrics := order.Fabrics
	options := order.Options
	order.Fabrics = nil
	order.Options = nil

	if err := tx.Create(order).Error; err != nil {
		return err
	}

	// Children are created in dependency order so generated IDs resolve the
	// foreign keys of the next level down
	for i := range fabrics {
		fabric := &fabrics[i]
		fabric.OrderID = order.ID
		fabricOptions := fabric.Options
		fabric.Options = nil
		if err := tx.Create(fabric).Error; err != nil {
			return err
		}
		for j := range fabricOptions {
			if err := createOption(tx, &fabricOptions[j], models.OwnerFabric, fabric.ID, order.ID); err != nil {
				return err
			}
		}
		fabric.Options = fabricOptions
	}

	for i := range options {
		option := &options[i]
		if isEmbellishment(option) {
			return ErrEmbellishmentOutsideFabric
		}
		if err := createOption(tx, option, models.OwnerOrder, order.ID, order.ID); err != nil {
			return err
		}
	}

	order.Fabrics = fabrics
	order.Options = options
	return nil
}

// SaveOrderConfiguration persists a full line-item configuration for an
// existing order: replaces the order's lines (with their options and data),
// reruns the review engine and recomputes stored totals as one atomic unit.
func SaveOrderConfiguration(db *gorm.DB, logger *logrus.Logger, orderID uint, raw []byte) (*models.Order, error) {
	existing, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return nil, err
	}
	if existing.IsFinalized() {
		return nil, &utils.InvalidStateError{Reason: "finalized orders cannot be edited until they are unfinalized"}
	}

	lines, err := models.OrderLinesFromOrderData(raw, DBOptionTypeResolver(db))
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := replaceOrderLines(tx, orderID, lines); err != nil {
			return err
		}

		order, err := LoadOrderGraph(tx, orderID)
		if err != nil {
			return err
		}
		if err := ReviewOrderForAlerts(tx, order); err != nil {
			return err
		}
		calculator := DefaultPricingCalculator()
		if err := calculator.CalculateTotals(order); err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]any{
			"shade_total":  order.ShadeTotal,
			"fabric_total": order.FabricTotal,
			"option_total": order.OptionTotal,
			"grand_total":  order.GrandTotal,
		}).Error
	})
	if err != nil {
		config.LogError(logger, "orders.go", "SaveOrderConfiguration", "transaction", orderID, err)
		return nil, err
	}

	return LoadOrderGraph(db, orderID)
}

func replaceOrderLines(tx *gorm.DB, orderID uint, lines []models.OrderLine) error {
	// The submission carries the full configuration, so the previous lines
	// (and everything hanging off them) go first
	var existing []models.OrderLine
	if err := tx.Where("order_id = ?", orderID).Find(&existing).Error; err != nil {
		return err
	}
	for i := range existing {
		if err := deleteLineGraph(tx, &existing[i]); err != nil {
			return err
		}
	}

	for i := range lines {
		line := &lines[i]
		line.OrderID = orderID
		lineOptions := line.Options
		line.Options = nil

		if err := tx.Create(line).Error; err != nil {
			return err
		}
		for j := range lineOptions {
			option := &lineOptions[j]
			if isEmbellishment(option) {
				return ErrEmbellishmentOutsideFabric
			}
			if err := createOption(tx, option, models.OwnerOrderLine, line.ID, orderID); err != nil {
				return err
			}
		}
		line.Options = lineOptions
	}
	return nil
}

func deleteLineGraph(tx *gorm.DB, line *models.OrderLine) error {
	var options []models.OrderOption
	if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrderLine, line.ID).Find(&options).Error; err != nil {
		return err
	}
	for i := range options {
		if err := tx.Where("order_option_id = ?", options[i].ID).Delete(&models.OptionData{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrderLine, line.ID).Delete(&models.OrderOption{}).Error; err != nil {
		return err
	}
	if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrderLine, line.ID).Delete(&models.FinalizationRecord{}).Error; err != nil {
		return err
	}
	return tx.Delete(line).Error
}

func createOption(tx *gorm.DB, option *models.OrderOption, ownerType string, ownerID, orderID uint) error {
	option.OwnerType = ownerType
	option.OwnerID = ownerID
	option.OrderID = orderID

	data := option.Data
	option.Data = nil
	if err := tx.Create(option).Error; err != nil {
		return err
	}
	if data != nil {
		data.OrderOptionID = option.ID
		if err := tx.Create(data).Error; err != nil {
			return err
		}
	}
	option.Data = data
	return nil
}

// DeleteOrder removes an order and its whole graph
func DeleteOrder(db *gorm.DB, orderID uint) error {
	order, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return err
	}
	if order.IsFinalized() {
		return &utils.InvalidStateError{Reason: "finalized orders cannot be deleted until they are unfinalized"}
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range order.OrderLines {
			if err := deleteLineGraph(tx, &order.OrderLines[i]); err != nil {
				return err
			}
		}
		var options []models.OrderOption
		if err := tx.Where("order_id = ?", orderID).Find(&options).Error; err != nil {
			return err
		}
		for i := range options {
			if err := tx.Where("order_option_id = ?", options[i].ID).Delete(&models.OptionData{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderFabric{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrder, orderID).Delete(&models.FinalizationRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
}

// DefaultOptionEntry is one row of the default-options listing
type DefaultOptionEntry struct {
	Option    models.OptionType `json:"option"`
	SubOption models.OptionType `json:"subOption"`
}

// DefaultOptions lists the order's top-level options as (option, sub-option)
// pairs, ordered by option sort order. Entries without a sub-option are
// skipped, matching how the front end consumes the list.
func DefaultOptions(db *gorm.DB, orderID uint) ([]DefaultOptionEntry, error) {
	order, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return nil, err
	}

	entries := make([]DefaultOptionEntry, 0, len(order.Options))
	for i := range order.Options {
		option := &order.Options[i]
		if option.SubOption == nil {
			continue
		}
		entries = append(entries, DefaultOptionEntry{
			Option:    option.OptionType,
			SubOption: *option.SubOption,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Option.SortOrder < entries[j].Option.SortOrder
	})
	return entries, nil
}
