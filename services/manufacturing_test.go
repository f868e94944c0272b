package services

import (
	"math"
	"testing"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRulesVersion(t *testing.T) {
	deriver := DefaultSpecDeriver()
	assert.Equal(t, "2024.1", deriver.RulesVersion())
}

func TestTotalPanels(t *testing.T) {
	deriver := DefaultSpecDeriver()

	tests := []struct {
		name     string
		width    float64
		fullness float64
		expected int
	}{
		{"narrow single panel", 36, 1, 1},
		{"exactly one goods width", 54, 1, 1},
		{"just over one goods width", 54.5, 1, 2},
		{"double fullness doubles consumption", 36, 2, 2},
		{"wide bank", 200, 1, 4},
		{"wide bank at double fullness", 200, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := &models.OrderLine{Width: tt.width, Drop: 60, Fullness: tt.fullness}
			panels, err := deriver.TotalPanels(line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, panels)
		})
	}
}

func TestDerivedQuantitiesForStandardLine(t *testing.T) {
	deriver := DefaultSpecDeriver()
	line := &models.OrderLine{Width: 36, Drop: 60, Fullness: 1}

	panels, err := deriver.TotalPanels(line)
	require.NoError(t, err)
	assert.Equal(t, 1, panels)

	panelHeight, err := deriver.PanelHeight(line)
	require.NoError(t, err)
	assert.InDelta(t, 67.0, panelHeight, 1e-9, "drop + bottom hem + header")

	spacing, err := deriver.RingSpacing(line)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, spacing, 1e-9, "60 inch drop divides into 8 rows")

	skirt, err := deriver.SkirtHeight(line)
	require.NoError(t, err)
	assert.InDelta(t, 4.75, skirt, 1e-9)

	columns, err := deriver.TotalRingColumns(line)
	require.NoError(t, err)
	assert.Equal(t, 7, columns)

	width, err := deriver.ManufacturingWidth(line)
	require.NoError(t, err)
	assert.InDelta(t, 39.0, width, 1e-9)

	length, err := deriver.ManufacturingLength(line)
	require.NoError(t, err)
	assert.InDelta(t, 71.75, length, 1e-9, "panel height plus skirt")

	rod, err := deriver.RodDimensions(line)
	require.NoError(t, err)
	assert.InDelta(t, 35.75, rod.Length, 1e-9)
	assert.InDelta(t, 0.375, rod.Diameter, 1e-9)
}

func TestRingSpacingShortDropMinimumRows(t *testing.T) {
	deriver := DefaultSpecDeriver()
	line := &models.OrderLine{Width: 24, Drop: 10, Fullness: 1}

	spacing, err := deriver.RingSpacing(line)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, spacing, 1e-9, "a short drop still gets two ring rows")
}

func TestHeaderboardDimensions(t *testing.T) {
	deriver := DefaultSpecDeriver()

	t.Run("without headerboard", func(t *testing.T) {
		line := &models.OrderLine{Width: 36, Drop: 60, Fullness: 1}
		dims, err := deriver.HeaderboardDimensions(line)
		require.NoError(t, err)
		assert.Equal(t, Dimensions{}, dims)

		cover, err := deriver.HeaderboardCoverCutLength(line)
		require.NoError(t, err)
		assert.Zero(t, cover)
	})

	t.Run("with headerboard", func(t *testing.T) {
		line := &models.OrderLine{Width: 36, Drop: 60, Fullness: 1, Headerboard: true}
		dims, err := deriver.HeaderboardDimensions(line)
		require.NoError(t, err)
		assert.InDelta(t, 36.0, dims.Width, 1e-9)
		assert.InDelta(t, 3.5, dims.Height, 1e-9)
		assert.InDelta(t, 0.75, dims.Depth, 1e-9)

		cover, err := deriver.HeaderboardCoverCutLength(line)
		require.NoError(t, err)
		assert.InDelta(t, 42.0, cover, 1e-9, "width plus wrap allowance")
	})
}

func TestHeaderboardCoverCutLengthTotal(t *testing.T) {
	deriver := DefaultSpecDeriver()
	order := &models.Order{
		OrderLines: []models.OrderLine{
			{Width: 36, Drop: 60, Fullness: 1, Headerboard: true},
			{Width: 48, Drop: 72, Fullness: 1},
			{Width: 24, Drop: 40, Fullness: 1, Headerboard: true},
		},
	}

	total, err := deriver.HeaderboardCoverCutLengthTotal(order)
	require.NoError(t, err)
	assert.InDelta(t, 42.0+30.0, total, 1e-9, "only headerboard lines contribute")
}

func TestFabricCutRepeatRounding(t *testing.T) {
	deriver := DefaultSpecDeriver()
	line := &models.OrderLine{Width: 36, Drop: 60, Fullness: 1}

	tests := []struct {
		name     string
		fabric   models.Fabric
		expected float64
	}{
		{"plain fabric gets raw cut", models.Fabric{ID: 1}, 69},
		{"patterned cut rounds up to whole repeats", models.Fabric{ID: 2, VerticalRepeat: 13}, 78},
		{"repeat already aligned", models.Fabric{ID: 3, VerticalRepeat: 23}, 69},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuts, err := deriver.FabricCuts(line, &tt.fabric)
			require.NoError(t, err)
			require.Len(t, cuts, 1)
			assert.InDelta(t, tt.expected, cuts[0], 1e-9)
		})
	}
}

func TestFabricCutLengthIsSumOfCuts(t *testing.T) {
	deriver := DefaultSpecDeriver()
	fabric := &models.Fabric{ID: 1, VerticalRepeat: 13}

	lines := []models.OrderLine{
		{Width: 36, Drop: 60, Fullness: 1},
		{Width: 120, Drop: 84, Fullness: 2},
		{Width: 54, Drop: 48.5, Fullness: 1.5, HeightAdjustment: 1.25},
	}

	for i := range lines {
		cuts, err := deriver.FabricCuts(&lines[i], fabric)
		require.NoError(t, err)

		var sum float64
		for _, cut := range cuts {
			sum += cut
		}
		total, err := deriver.FabricCutLength(&lines[i], fabric)
		require.NoError(t, err)
		assert.InDelta(t, sum, total, 1e-9)
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	deriver := DefaultSpecDeriver()
	line := &models.OrderLine{Width: 87.25, Drop: 63.5, Fullness: 1.75, HeightAdjustment: 0.5, Headerboard: true}
	fabric := &models.Fabric{ID: 9, VerticalRepeat: 17}

	first, err := deriver.FabricCutLength(line, fabric)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, derr := deriver.FabricCutLength(line, fabric)
		require.NoError(t, derr)
		assert.Equal(t, first, again)
	}
}

func TestInvalidDimensionsRejected(t *testing.T) {
	deriver := DefaultSpecDeriver()

	tests := []struct {
		name string
		line models.OrderLine
	}{
		{"zero width", models.OrderLine{Width: 0, Drop: 60, Fullness: 1}},
		{"negative drop", models.OrderLine{Width: 36, Drop: -5, Fullness: 1}},
		{"zero fullness", models.OrderLine{Width: 36, Drop: 60, Fullness: 0}},
		{"NaN width", models.OrderLine{Width: math.NaN(), Drop: 60, Fullness: 1}},
		{"infinite drop", models.OrderLine{Width: 36, Drop: math.Inf(1), Fullness: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deriver.TotalPanels(&tt.line)
			var confErr *utils.InvalidConfigurationError
			assert.ErrorAs(t, err, &confErr)
		})
	}
}

func TestFabricCutInvalidFabric(t *testing.T) {
	deriver := DefaultSpecDeriver()
	line := &models.OrderLine{Width: 36, Drop: 60, Fullness: 1}

	_, err := deriver.FabricCuts(line, nil)
	var confErr *utils.InvalidConfigurationError
	assert.ErrorAs(t, err, &confErr)

	_, err = deriver.FabricCuts(line, &models.Fabric{ID: 4, VerticalRepeat: -2})
	assert.ErrorAs(t, err, &confErr)
}
