package services

import (
	"errors"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FinalizeOrder locks an order and its lines for production: one
// FinalizationRecord per unit, a final-price snapshot on every line option
// that lacks one, and routing to the first manufacturing station. The whole
// mutation is one transaction; a failure anywhere leaves no lock state behind.
//
// Finalizing an already-finalized order is a no-op for units that already
// carry a record: their station assignment and price snapshots stay as they
// are, so routing progress survives a repeat call. A
// concurrent double-finalize is resolved by the unique owner index on
// finalization_records: the losing transaction rolls back.
func FinalizeOrder(db *gorm.DB, logger *logrus.Logger, orderID uint, userID string) (*models.Order, error) {
	order, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.OrderLines) == 0 {
		return nil, &utils.InvalidStateError{Reason: "you cannot finalize an order with no items"}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return finalizeOrderTx(tx, order, userID)
	})
	if err != nil {
		config.LogError(logger, "finalize.go", "FinalizeOrder", "transaction", orderID, err)
		return nil, err
	}

	return LoadOrderGraph(db, orderID)
}

func finalizeOrderTx(tx *gorm.DB, order *models.Order, userID string) error {
	station, err := firstStation(tx)
	if err != nil {
		return err
	}
	var stationID *uint
	if station != nil {
		stationID = &station.ID
	}

	if order.Finalized == nil {
		record := models.FinalizationRecord{
			OwnerID:   order.ID,
			OwnerType: models.OwnerOrder,
			UserID:    userID,
			StationID: stationID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("current_station_id", stationID).Error; err != nil {
			return err
		}
	}

	calculator := DefaultPricingCalculator()
	for i := range order.OrderLines {
		if err := finalizeLineTx(tx, &order.OrderLines[i], userID, stationID, calculator); err != nil {
			return err
		}
	}
	return nil
}

func finalizeLineTx(tx *gorm.DB, line *models.OrderLine, userID string, stationID *uint, calculator *PricingCalculator) error {
	if line.Finalized == nil {
		record := models.FinalizationRecord{
			OwnerID:   line.ID,
			OwnerType: models.OwnerOrderLine,
			UserID:    userID,
			StationID: stationID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OrderLine{}).Where("id = ?", line.ID).
			Update("current_station_id", stationID).Error; err != nil {
			return err
		}
	}

	for i := range line.Options {
		option := &line.Options[i]
		if option.FinalPrice != nil {
			// price snapshots are immutable once set
			continue
		}
		price, err := calculator.OptionUnitPrice(option)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.OrderOption{}).Where("id = ?", option.ID).
			Update("final_price", price).Error; err != nil {
			return err
		}
	}
	return nil
}

// UnfinalizeOrder is the exact inverse of FinalizeOrder: it deletes the lock
// records, clears station routing on the order and every line, and clears
// every option price snapshot under the order's lines. Nothing but finalize
// writes final_price, so clearing every non-nil snapshot is safe.
// Unfinalizing an open order is a no-op, not an error.
func UnfinalizeOrder(db *gorm.DB, logger *logrus.Logger, orderID uint) (*models.Order, error) {
	order, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrder, order.ID).
			Delete(&models.FinalizationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("current_station_id", nil).Error; err != nil {
			return err
		}

		for i := range order.OrderLines {
			line := &order.OrderLines[i]
			if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerOrderLine, line.ID).
				Delete(&models.FinalizationRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.OrderLine{}).Where("id = ?", line.ID).
				Update("current_station_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.OrderOption{}).
				Where("owner_type = ? AND owner_id = ? AND final_price IS NOT NULL", models.OwnerOrderLine, line.ID).
				Update("final_price", nil).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(logger, "finalize.go", "UnfinalizeOrder", "transaction", orderID, err)
		return nil, err
	}

	return LoadOrderGraph(db, orderID)
}

// AdvanceOrderStation routes a finalized order to the next manufacturing
// station in sequence. The order and its lines move together. At the last
// station the call is a no-op.
func AdvanceOrderStation(db *gorm.DB, logger *logrus.Logger, orderID uint) (*models.Order, error) {
	order, err := LoadOrderGraph(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.Finalized == nil || order.CurrentStationID == nil {
		return nil, &utils.InvalidStateError{Reason: "only finalized orders can move between stations"}
	}

	var current models.Station
	if err := db.First(&current, *order.CurrentStationID).Error; err != nil {
		return nil, err
	}

	var next models.Station
	err = db.Where("sequence > ?", current.Sequence).Order("sequence asc").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, nil
	}
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("current_station_id", next.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.OrderLine{}).
			Where("order_id = ? AND current_station_id IS NOT NULL", order.ID).
			Update("current_station_id", next.ID).Error
	})
	if err != nil {
		config.LogError(logger, "finalize.go", "AdvanceOrderStation", "transaction", orderID, err)
		return nil, err
	}

	return LoadOrderGraph(db, orderID)
}

func firstStation(tx *gorm.DB) (*models.Station, error) {
	var station models.Station
	err := tx.Order("sequence asc").First(&station).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}
