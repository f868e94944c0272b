package controllers

import (
	"errors"
	"net/http"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/services"
	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/gin-gonic/gin"
)

// UploadSwatch handles POST /api/v1/orders/:id/swatch - attaches a fabric
// swatch image to an order. Replacing an existing swatch deletes the old
// object from storage.
func UploadSwatch(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("swatch")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_FILE",
				"message": "No swatch file provided",
			},
		})
		return
	}

	swatchService := services.GetSwatchService()
	if swatchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	key, err := swatchService.UploadSwatch(orderID, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		config.LogError(config.GetLogger(), "upload_controller.go", "UploadSwatch", "UploadSwatch", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to upload swatch",
			},
		})
		return
	}

	oldKey := order.SwatchS3Key
	if err := db.Model(order).Update("swatch_s3_key", key).Error; err != nil {
		config.LogError(config.GetLogger(), "upload_controller.go", "UploadSwatch", "update order", orderID, err)
		// best effort: the new object is orphaned if we cannot record it
		_ = swatchService.DeleteSwatch(key)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to record swatch",
			},
		})
		return
	}

	if oldKey != nil && *oldKey != key {
		if err := swatchService.DeleteSwatch(*oldKey); err != nil {
			config.LogError(config.GetLogger(), "upload_controller.go", "UploadSwatch", "delete old swatch", *oldKey, err)
		}
	}

	order.SwatchS3Key = &key
	attachSwatchURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"swatch_s3_key": key,
			"swatch_url":    order.SwatchURL,
		},
	})
}

// GetSwatch handles GET /api/v1/orders/:id/swatch - returns a short-lived
// presigned URL for the order's swatch image
func GetSwatch(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if order.SwatchS3Key == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order has no swatch",
			},
		})
		return
	}

	swatchService := services.GetSwatchService()
	if swatchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return
	}

	url, err := swatchService.GetSwatchURL(*order.SwatchS3Key)
	if err != nil {
		config.LogError(config.GetLogger(), "upload_controller.go", "GetSwatch", "GetSwatchURL", *order.SwatchS3Key, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRESIGN_FAILED",
				"message": "Failed to generate swatch URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"swatch_url": url,
		},
	})
}

// DeleteSwatch handles DELETE /api/v1/orders/:id/swatch
func DeleteSwatch(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if order.SwatchS3Key == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"message": "Order has no swatch"},
		})
		return
	}

	if swatchService := services.GetSwatchService(); swatchService != nil {
		if err := swatchService.DeleteSwatch(*order.SwatchS3Key); err != nil {
			config.LogError(config.GetLogger(), "upload_controller.go", "DeleteSwatch", "DeleteSwatch", *order.SwatchS3Key, err)
		}
	}

	if err := db.Model(order).Update("swatch_s3_key", nil).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": "Swatch removed"},
	})
}
