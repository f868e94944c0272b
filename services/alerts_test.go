package services

import (
	"testing"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alertMessages(alerts []models.Alert) []string {
	messages := make([]string, len(alerts))
	for i, alert := range alerts {
		messages[i] = alert.Message
	}
	return messages
}

func TestCollectAlertsCleanOrder(t *testing.T) {
	trim := models.OptionType{ID: 1, Name: "Trim", Price: decimal.RequireFromString("12.50")}
	order := models.Order{
		Fabrics: []models.OrderFabric{{FabricID: 1}},
		OrderLines: []models.OrderLine{
			{
				Width: 36, Drop: 60, Fullness: 1,
				Options: []models.OrderOption{{OptionTypeID: trim.ID, OptionType: trim}},
			},
		},
	}

	assert.Empty(t, collectAlerts(&order))
}

func TestCollectAlertsEmbellishmentPlacement(t *testing.T) {
	beading := models.OptionType{ID: 2, Name: "Beading", IsEmbellishment: true}

	t.Run("on the order", func(t *testing.T) {
		order := models.Order{
			Options: []models.OrderOption{{OptionTypeID: beading.ID, OptionType: beading}},
		}
		alerts := collectAlerts(&order)
		require.Len(t, alerts, 1)
		assert.Equal(t, models.AlertSeverityWarning, alerts[0].Severity)
		assert.Contains(t, alerts[0].Message, "belongs on a fabric")
	})

	t.Run("on a line", func(t *testing.T) {
		order := models.Order{
			OrderLines: []models.OrderLine{
				{
					Width: 36, Drop: 60, Fullness: 1,
					Options: []models.OrderOption{{OptionTypeID: beading.ID, OptionType: beading}},
				},
			},
		}
		alerts := collectAlerts(&order)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "line 1")
	})

	t.Run("through a sub-option", func(t *testing.T) {
		plainID := uint(3)
		plain := models.OptionType{ID: plainID, Name: "Edge Finish"}
		embellishedSub := models.OptionType{ID: 4, Name: "Beaded Edge", ParentID: &plainID, IsEmbellishment: true}
		order := models.Order{
			Options: []models.OrderOption{
				{OptionTypeID: plain.ID, OptionType: plain, SubOptionID: &embellishedSub.ID, SubOption: &embellishedSub},
			},
		}
		alerts := collectAlerts(&order)
		require.Len(t, alerts, 1)
	})
}

func TestCollectAlertsMissingRequiredData(t *testing.T) {
	monogram := models.OptionType{ID: 5, Name: "Monogram", RequiresData: true}

	order := models.Order{
		OrderLines: []models.OrderLine{
			{
				Width: 36, Drop: 60, Fullness: 1,
				Options: []models.OrderOption{{OptionTypeID: monogram.ID, OptionType: monogram}},
			},
		},
	}
	alerts := collectAlerts(&order)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "requires data")

	// with the payload present the alert goes away
	order.OrderLines[0].Options[0].Data = &models.OptionData{Value: "DR", Quantity: 1}
	assert.Empty(t, collectAlerts(&order))
}

func TestCollectAlertsFabricOptions(t *testing.T) {
	monogram := models.OptionType{ID: 9, Name: "Monogram", RequiresData: true}
	beading := models.OptionType{ID: 10, Name: "Beading", IsEmbellishment: true}

	t.Run("missing required data", func(t *testing.T) {
		order := models.Order{
			Fabrics: []models.OrderFabric{
				{
					FabricID: 1,
					Options:  []models.OrderOption{{OptionTypeID: monogram.ID, OptionType: monogram}},
				},
			},
		}
		alerts := collectAlerts(&order)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "requires data")
		assert.Contains(t, alerts[0].Message, "fabric 1")

		order.Fabrics[0].Options[0].Data = &models.OptionData{Value: "DR", Quantity: 1}
		assert.Empty(t, collectAlerts(&order))
	})

	t.Run("duplicate option type", func(t *testing.T) {
		trim := models.OptionType{ID: 11, Name: "Trim"}
		order := models.Order{
			Fabrics: []models.OrderFabric{
				{
					FabricID: 1,
					Options: []models.OrderOption{
						{OptionTypeID: trim.ID, OptionType: trim},
						{OptionTypeID: trim.ID, OptionType: trim},
					},
				},
			},
		}
		alerts := collectAlerts(&order)
		require.Len(t, alerts, 1)
		assert.Contains(t, alerts[0].Message, "more than once")
	})

	t.Run("embellishment is the sanctioned placement", func(t *testing.T) {
		order := models.Order{
			Fabrics: []models.OrderFabric{
				{
					FabricID: 1,
					Options:  []models.OrderOption{{OptionTypeID: beading.ID, OptionType: beading}},
				},
			},
		}
		assert.Empty(t, collectAlerts(&order))
	})
}

func TestFabricOptionAwaitingDataDrawsAlertOnSave(t *testing.T) {
	db := setupServiceTestDB(t)
	c := seedCatalog(t, db)

	payload := step1Payload(c)
	payload["fabrics"] = []any{
		map[string]any{
			"fabric_type_id": c.FaceType.ID,
			"fabric_id":      c.PlainFabric.ID,
			"options": []any{
				map[string]any{"option_type_id": c.Monogram.ID},
			},
		},
	}
	order, err := SaveOrderStep1(db, testLogger(), mustJSON(t, payload))
	require.NoError(t, err, "the save tolerates the missing payload")
	require.Len(t, order.Alerts, 1)
	assert.Equal(t, models.AlertSeverityWarning, order.Alerts[0].Severity)
	assert.Contains(t, order.Alerts[0].Message, "requires data")
}

func TestCollectAlertsDuplicateOptionType(t *testing.T) {
	trim := models.OptionType{ID: 6, Name: "Trim"}
	order := models.Order{
		Options: []models.OrderOption{
			{OptionTypeID: trim.ID, OptionType: trim},
			{OptionTypeID: trim.ID, OptionType: trim},
		},
	}
	alerts := collectAlerts(&order)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "more than once")
}

func TestCollectAlertsValanceWithHeaderboard(t *testing.T) {
	valanceID := uint(7)
	order := models.Order{
		OrderLines: []models.OrderLine{
			{Width: 36, Drop: 60, Fullness: 1, ValanceTypeID: &valanceID, Headerboard: true},
		},
	}
	alerts := collectAlerts(&order)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertSeverityInfo, alerts[0].Severity)
}

func TestCollectAlertsFinalizedWithoutFabric(t *testing.T) {
	order := models.Order{
		Finalized: &models.FinalizationRecord{ID: 1},
		OrderLines: []models.OrderLine{
			{Width: 36, Drop: 60, Fullness: 1},
		},
	}
	alerts := collectAlerts(&order)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "no fabric")
}

func TestReviewOrderReplacesAlertSet(t *testing.T) {
	db := setupServiceTestDB(t)
	c := seedCatalog(t, db)

	// a fabric-level embellishment is the sanctioned placement: no alert
	payload := step1Payload(c)
	payload["fabrics"] = []any{
		map[string]any{
			"fabric_type_id": c.FaceType.ID,
			"fabric_id":      c.PlainFabric.ID,
			"options": []any{
				map[string]any{"option_type_id": c.Beading.ID},
			},
		},
	}
	order, err := SaveOrderStep1(db, testLogger(), mustJSON(t, payload))
	require.NoError(t, err)
	assert.Empty(t, order.Alerts)

	// a line option missing its data draws a warning on the next save
	line := linePayload(36, 60)
	line["options"] = []any{
		map[string]any{"option_type_id": c.Monogram.ID},
	}
	order, err = SaveOrderConfiguration(db, testLogger(), order.ID, mustJSON(t, map[string]any{
		"order_lines": []any{line},
	}))
	require.NoError(t, err)
	require.Len(t, order.Alerts, 1)
	assert.Contains(t, alertMessages(order.Alerts)[0], "requires data")

	// fixing the configuration clears the alert on the following save
	line["options"] = []any{
		map[string]any{
			"option_type_id": c.Monogram.ID,
			"data":           map[string]any{"value": "DR", "quantity": 1},
		},
	}
	order, err = SaveOrderConfiguration(db, testLogger(), order.ID, mustJSON(t, map[string]any{
		"order_lines": []any{line},
	}))
	require.NoError(t, err)
	assert.Empty(t, order.Alerts)
}
