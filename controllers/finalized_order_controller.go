package controllers

import (
	"net/http"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/middleware"
	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/services"
	"github.com/gin-gonic/gin"
)

// fabricCutsView is the per-fabric cut breakdown for one line
type fabricCutsView struct {
	Fabric    models.OrderFabric `json:"fabric"`
	Cuts      []float64          `json:"cuts"`
	CutLength float64            `json:"cut_length"`
}

// lineSpecView is one line of the manufacturing specification: the raw
// configuration plus every derived quantity, computed fresh for this response
type lineSpecView struct {
	Line                      models.OrderLine       `json:"line"`
	TotalPanels               int                    `json:"total_panels"`
	PanelHeight               float64                `json:"panel_height"`
	SkirtHeight               float64                `json:"skirt_height"`
	RingSpacing               float64                `json:"ring_spacing"`
	TotalRingColumns          int                    `json:"total_ring_columns"`
	ManufacturingWidth        float64                `json:"manufacturing_width"`
	ManufacturingLength       float64                `json:"manufacturing_length"`
	RodDimensions             services.RodDimensions `json:"rod_dimensions"`
	HeaderboardDimensions     services.Dimensions    `json:"headerboard_dimensions"`
	HeaderboardCoverCutLength float64                `json:"headerboard_cover_cut_length"`
	Fabrics                   []fabricCutsView       `json:"fabrics"`
}

// GetManufacturingSpec handles GET /api/v1/orders/:id/manufacturing - the
// production view of an order: every derived manufacturing quantity for every
// line, plus order-level aggregates
func GetManufacturingSpec(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.LoadOrderGraph(db, orderID)
	if err != nil {
		config.LogError(config.GetLogger(), "finalized_order_controller.go", "GetManufacturingSpec", "LoadOrderGraph", orderID, err)
		respondError(c, err)
		return
	}

	deriver := services.DefaultSpecDeriver()

	lines := make([]lineSpecView, 0, len(order.OrderLines))
	for i := range order.OrderLines {
		view, err := buildLineSpecView(deriver, &order.OrderLines[i], order.Fabrics)
		if err != nil {
			respondError(c, err)
			return
		}
		lines = append(lines, view)
	}

	coverTotal, err := deriver.HeaderboardCoverCutLengthTotal(order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":                              order,
			"lines":                              lines,
			"headerboard_cover_cut_length_total": coverTotal,
			"rules_version":                      deriver.RulesVersion(),
		},
	})
}

func buildLineSpecView(deriver *services.SpecDeriver, line *models.OrderLine, fabrics []models.OrderFabric) (lineSpecView, error) {
	view := lineSpecView{Line: *line}

	var err error
	if view.TotalPanels, err = deriver.TotalPanels(line); err != nil {
		return view, err
	}
	if view.PanelHeight, err = deriver.PanelHeight(line); err != nil {
		return view, err
	}
	if view.SkirtHeight, err = deriver.SkirtHeight(line); err != nil {
		return view, err
	}
	if view.RingSpacing, err = deriver.RingSpacing(line); err != nil {
		return view, err
	}
	if view.TotalRingColumns, err = deriver.TotalRingColumns(line); err != nil {
		return view, err
	}
	if view.ManufacturingWidth, err = deriver.ManufacturingWidth(line); err != nil {
		return view, err
	}
	if view.ManufacturingLength, err = deriver.ManufacturingLength(line); err != nil {
		return view, err
	}
	if view.RodDimensions, err = deriver.RodDimensions(line); err != nil {
		return view, err
	}
	if view.HeaderboardDimensions, err = deriver.HeaderboardDimensions(line); err != nil {
		return view, err
	}
	if view.HeaderboardCoverCutLength, err = deriver.HeaderboardCoverCutLength(line); err != nil {
		return view, err
	}

	view.Fabrics = make([]fabricCutsView, 0, len(fabrics))
	for i := range fabrics {
		cuts, err := deriver.FabricCuts(line, &fabrics[i].Fabric)
		if err != nil {
			return view, err
		}
		cutLength, err := deriver.FabricCutLength(line, &fabrics[i].Fabric)
		if err != nil {
			return view, err
		}
		view.Fabrics = append(view.Fabrics, fabricCutsView{
			Fabric:    fabrics[i],
			Cuts:      cuts,
			CutLength: cutLength,
		})
	}

	return view, nil
}

// FinalizeOrder handles POST /api/v1/orders/:id/finalize - locks the order
// and its lines for production
func FinalizeOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	order, err := services.FinalizeOrder(db, config.GetLogger(), orderID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UnfinalizeOrder handles POST /api/v1/orders/:id/unfinalize - releases the
// production lock; calling it on an open order is a harmless no-op
func UnfinalizeOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.UnfinalizeOrder(db, config.GetLogger(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AdvanceStation handles POST /api/v1/orders/:id/advance-station - routes a
// finalized order to the next manufacturing station
func AdvanceStation(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.AdvanceOrderStation(db, config.GetLogger(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
