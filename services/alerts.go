package services

import (
	"fmt"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"gorm.io/gorm"
)

// ReviewOrderForAlerts scans the order graph for exception conditions and
// replaces the order's alert set with the current findings. Alerts are
// advisory; this never rejects a save. Runs inside the save transaction so a
// failed save keeps the previous alert set.
func ReviewOrderForAlerts(tx *gorm.DB, order *models.Order) error {
	alerts := collectAlerts(order)

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.Alert{}).Error; err != nil {
		return err
	}
	for i := range alerts {
		alerts[i].OrderID = order.ID
		if err := tx.Create(&alerts[i]).Error; err != nil {
			return err
		}
	}
	order.Alerts = alerts
	return nil
}

func collectAlerts(order *models.Order) []models.Alert {
	var alerts []models.Alert

	add := func(severity, message string) {
		alerts = append(alerts, models.Alert{Severity: severity, Message: message})
	}

	// embellishments are only legal on fabrics, so the placement check is
	// skipped when reviewing a fabric's own option set
	checkOptions := func(owner string, options []models.OrderOption, embellishmentsAllowed bool) {
		seen := make(map[uint]bool)
		for i := range options {
			option := &options[i]

			if !embellishmentsAllowed && isEmbellishment(option) {
				add(models.AlertSeverityWarning,
					fmt.Sprintf("Embellishment option %q is attached directly to %s; it belongs on a fabric", option.OptionType.Name, owner))
			}
			if option.OptionType.RequiresData && option.Data == nil {
				add(models.AlertSeverityWarning,
					fmt.Sprintf("Option %q on %s requires data that has not been entered", option.OptionType.Name, owner))
			}
			if seen[option.OptionTypeID] {
				add(models.AlertSeverityWarning,
					fmt.Sprintf("Option %q appears more than once on %s", option.OptionType.Name, owner))
			}
			seen[option.OptionTypeID] = true
		}
	}

	checkOptions("the order", order.Options, false)
	for i := range order.Fabrics {
		owner := fmt.Sprintf("fabric %d", i+1)
		checkOptions(owner, order.Fabrics[i].Options, true)
	}
	for i := range order.OrderLines {
		line := &order.OrderLines[i]
		owner := fmt.Sprintf("line %d", i+1)
		checkOptions(owner, line.Options, false)

		if line.ValanceTypeID != nil && line.Headerboard {
			alerts = append(alerts, models.Alert{
				Severity: models.AlertSeverityInfo,
				Message:  fmt.Sprintf("Line %d has both a valance and a headerboard; confirm which finish the customer wants", i+1),
			})
		}
	}

	if order.IsFinalized() && len(order.Fabrics) == 0 {
		add(models.AlertSeverityWarning, "Order is finalized but has no fabric assigned")
	}

	return alerts
}

// isEmbellishment reports whether an option instance resolves to an
// embellishment option through its type or its sub-option
func isEmbellishment(option *models.OrderOption) bool {
	if option.OptionType.IsEmbellishment {
		return true
	}
	return option.SubOption != nil && option.SubOption.IsEmbellishment
}
