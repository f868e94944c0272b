package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/services"
	"github.com/gin-gonic/gin"
)

// orderIDParam parses the :id route parameter
func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be a number",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// GetOrder handles GET /api/v1/orders/:id - returns the full order graph
func GetOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		config.LogError(config.GetLogger(), "order_controller.go", "GetOrder", "LoadOrderGraph", orderID, err)
		respondError(c, err)
		return
	}

	attachSwatchURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetAllOpenOrders handles GET /api/v1/orders - lists every order that is not
// finalized, newest first
func GetAllOpenOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	err := db.
		Preload("Company").
		Preload("Contact").
		Preload("Product").
		Preload("ShippingMethod").
		Preload("Alerts").
		Preload("Finalized").
		Preload("OrderLines").
		Preload("Fabrics.FabricType").
		Preload("Fabrics.Fabric").
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		respondError(c, err)
		return
	}

	open := make([]models.Order, 0, len(orders))
	for i := range orders {
		if orders[i].Finalized == nil {
			open = append(open, orders[i])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    open,
	})
}

// CreateOrder handles POST /api/v1/orders - the step-1 save: order header,
// fabrics with their options, and top-level options, persisted as one
// transaction
func CreateOrder(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body is required",
			},
		})
		return
	}

	db := config.GetDB()
	order, err := services.SaveOrderStep1(db, config.GetLogger(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - the full configuration save:
// replaces the order's line items (with nested options and data), reruns the
// review engine and recomputes totals, atomically
func UpdateOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Request body is required",
			},
		})
		return
	}

	db := config.GetDB()
	order, err := services.SaveOrderConfiguration(db, config.GetLogger(), orderID, raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes the order and its
// whole graph
func DeleteOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := services.DeleteOrder(db, orderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order #" + strconv.FormatUint(uint64(orderID), 10) + " was deleted",
	})
}

// PreviewPrice handles GET /api/v1/orders/:id/calculate - prices a submitted
// line configuration without persisting anything. The same calculator runs
// here and in the save pipeline, so the preview matches the stored totals.
func PreviewPrice(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	raw := c.Query("data")
	if raw == "" {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BAD_INPUT",
				"message": "Bad input",
			},
		})
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	input, err := decodePreviewPayload(raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MALFORMED_INPUT",
				"message": "Malformed input",
			},
		})
		return
	}

	line, err := models.OrderLineFromConfig(input, services.DBOptionTypeResolver(db))
	if err != nil {
		respondError(c, err)
		return
	}

	calculator := services.DefaultPricingCalculator()
	shade, err := calculator.ShadePrice(line)
	if err != nil {
		respondError(c, err)
		return
	}
	fabric, err := calculator.FabricPrice(line, order.Fabrics)
	if err != nil {
		respondError(c, err)
		return
	}
	options, err := calculator.OptionPrice(line)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shade":   shade.StringFixed(2),
		"fabric":  fabric.StringFixed(2),
		"options": options.StringFixed(2),
	})
}

// GetDefaultOptions handles GET /api/v1/orders/:id/default-options
func GetDefaultOptions(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	entries, err := services.DefaultOptions(db, orderID)
	if err != nil {
		config.LogError(config.GetLogger(), "order_controller.go", "GetDefaultOptions", "DefaultOptions", orderID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

// decodePreviewPayload decodes the raw `data` query payload for the pricing
// preview
func decodePreviewPayload(raw string) (map[string]any, error) {
	var input map[string]any
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, err
	}
	return input, nil
}

// attachSwatchURL fills the computed presigned swatch URL when the order has
// an uploaded swatch and the service is configured
func attachSwatchURL(order *models.Order) {
	if order.SwatchS3Key == nil {
		return
	}
	swatchService := services.GetSwatchService()
	if swatchService == nil {
		return
	}
	if url, err := swatchService.GetSwatchURL(*order.SwatchS3Key); err == nil && url != "" {
		order.SwatchURL = &url
	}
}
