package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFinalizeRouter(t *testing.T) (*gin.Engine, testCatalog) {
	db := setupControllerTestDB(t)
	c := seedControllerCatalog(t, db)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware("auth0|planner1", "orders:write"), CreateOrder)
	router.PUT("/orders/:id", mockAuthMiddleware("auth0|planner1", "orders:write"), UpdateOrder)
	router.GET("/orders/:id/manufacturing", GetManufacturingSpec)
	router.POST("/orders/:id/finalize", mockAuthMiddleware("auth0|planner1", "orders:finalize"), FinalizeOrder)
	router.POST("/orders/:id/unfinalize", mockAuthMiddleware("auth0|planner1", "orders:finalize"), UnfinalizeOrder)
	router.POST("/orders/:id/advance-station", mockAuthMiddleware("auth0|planner1", "orders:finalize"), AdvanceStation)
	return router, c
}

func TestFinalizeEndpoint(t *testing.T) {
	router, c := newFinalizeRouter(t)
	orderID := createOrderViaAPI(t, router, c, map[string]any{"width": 36, "drop": 60})

	w, response := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := response["data"].(map[string]any)
	finalized := data["finalized"].(map[string]any)
	assert.Equal(t, "auth0|planner1", finalized["user_id"])
	assert.Equal(t, float64(c.Station.ID), data["current_station_id"])

	lines := data["order_lines"].([]any)
	require.Len(t, lines, 1)
	assert.NotNil(t, lines[0].(map[string]any)["finalized"])
}

func TestFinalizeEndpointWithoutLines(t *testing.T) {
	router, c := newFinalizeRouter(t)
	orderID := createOrderViaAPI(t, router, c)

	w, response := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/finalize", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE", errorCode(response))
}

func TestFinalizeEndpointNotFound(t *testing.T) {
	router, _ := newFinalizeRouter(t)

	w, response := performJSON(t, router, http.MethodPost, "/orders/9999/finalize", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(response))
}

func TestUnfinalizeEndpoint(t *testing.T) {
	router, c := newFinalizeRouter(t)
	orderID := createOrderViaAPI(t, router, c, map[string]any{"width": 36, "drop": 60})

	w, _ := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/unfinalize", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]any)
	assert.Nil(t, data["finalized"])
	assert.Nil(t, data["current_station_id"])
}

func TestAdvanceStationEndpoint(t *testing.T) {
	router, c := newFinalizeRouter(t)
	orderID := createOrderViaAPI(t, router, c, map[string]any{"width": 36, "drop": 60})

	t.Run("open order cannot advance", func(t *testing.T) {
		w, response := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/advance-station", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_STATE", errorCode(response))
	})

	t.Run("finalized order moves to the next station", func(t *testing.T) {
		w, _ := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/finalize", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, response := performJSON(t, router, http.MethodPost, "/orders/"+formatID(orderID)+"/advance-station", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := response["data"].(map[string]any)
		assert.Equal(t, float64(c.NextStop.ID), data["current_station_id"])
	})
}

func TestManufacturingSpecEndpoint(t *testing.T) {
	router, c := newFinalizeRouter(t)
	orderID := createOrderViaAPI(t, router, c,
		map[string]any{"width": 36, "drop": 60, "headerboard": true},
		map[string]any{"width": 120, "drop": 84, "fullness": 2},
	)

	w, response := performJSON(t, router, http.MethodGet, "/orders/"+formatID(orderID)+"/manufacturing", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := response["data"].(map[string]any)
	assert.Equal(t, "2024.1", data["rules_version"])
	assert.Equal(t, float64(42), data["headerboard_cover_cut_length_total"])

	lines := data["lines"].([]any)
	require.Len(t, lines, 2)

	first := lines[0].(map[string]any)
	assert.Equal(t, float64(1), first["total_panels"])
	assert.Equal(t, float64(67), first["panel_height"])
	assert.Equal(t, float64(7), first["total_ring_columns"])
	assert.Equal(t, float64(39), first["manufacturing_width"])
	assert.Equal(t, float64(42), first["headerboard_cover_cut_length"])
	rod := first["rod_dimensions"].(map[string]any)
	assert.Equal(t, float64(35.75), rod["length"])

	fabrics := first["fabrics"].([]any)
	require.Len(t, fabrics, 1)
	cuts := fabrics[0].(map[string]any)["cuts"].([]any)
	require.Len(t, cuts, 1)
	assert.Equal(t, float64(69), cuts[0])
	assert.Equal(t, float64(69), fabrics[0].(map[string]any)["cut_length"])

	second := lines[1].(map[string]any)
	assert.Equal(t, float64(5), second["total_panels"], "240 inches of goods over 54 inch widths")
	secondFabrics := second["fabrics"].([]any)
	require.Len(t, secondFabrics, 1)
	assert.Len(t, secondFabrics[0].(map[string]any)["cuts"].([]any), 5)
}

func TestManufacturingSpecNotFound(t *testing.T) {
	router, _ := newFinalizeRouter(t)

	w, response := performJSON(t, router, http.MethodGet, "/orders/404/manufacturing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(response))
}
