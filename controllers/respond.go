package controllers

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps a domain error onto the JSON envelope and status code the
// API uses everywhere: 404 for missing records, 422 for validation, bad
// configurations and workflow violations, and 422 with trace detail for
// anything unexpected so an operator can diagnose it.
func respondError(c *gin.Context, err error) {
	var validation *utils.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validation.Error(),
				"fields":  validation.Fields,
			},
		})
		return
	}

	var notFound *utils.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFound.Error(),
			},
		})
		return
	}

	var invalidConfig *utils.InvalidConfigurationError
	if errors.As(err, &invalidConfig) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONFIGURATION",
				"message": invalidConfig.Error(),
			},
		})
		return
	}

	var invalidState *utils.InvalidStateError
	if errors.As(err, &invalidState) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": invalidState.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
			"trace":   string(debug.Stack()),
		},
	})
}
