package services

import (
	"fmt"
	"math"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/utils"
)

// Dimensions describes a rectangular manufactured part, in inches
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// RodDimensions describes the cut rod for a line
type RodDimensions struct {
	Length   float64 `json:"length"`
	Diameter float64 `json:"diameter"`
}

// ManufacturingRules is the versionable business-rule module behind the spec
// deriver. Implementations must be pure: same configuration in, same numbers
// out, no I/O. Shop-floor formula changes ship as a new implementation
// with a new Version, never as edits to stored rows.
type ManufacturingRules interface {
	Version() string
	TotalPanels(line *models.OrderLine) (int, error)
	PanelHeight(line *models.OrderLine) (float64, error)
	SkirtHeight(line *models.OrderLine) (float64, error)
	RingSpacing(line *models.OrderLine) (float64, error)
	TotalRingColumns(line *models.OrderLine) (int, error)
	ManufacturingWidth(line *models.OrderLine) (float64, error)
	ManufacturingLength(line *models.OrderLine) (float64, error)
	RodDimensions(line *models.OrderLine) (RodDimensions, error)
	HeaderboardDimensions(line *models.OrderLine) (Dimensions, error)
	FabricCut(line *models.OrderLine, fabric *models.Fabric) (float64, error)
	HeaderboardCoverCutLength(line *models.OrderLine) (float64, error)
}

// SpecDeriver computes manufacturing quantities from a line configuration.
// Everything is derived fresh on every call; no derived value is ever read
// back from storage, so upstream edits are reflected immediately.
type SpecDeriver struct {
	rules ManufacturingRules
}

// NewSpecDeriver returns a deriver backed by the given rule module
func NewSpecDeriver(rules ManufacturingRules) *SpecDeriver {
	return &SpecDeriver{rules: rules}
}

// DefaultSpecDeriver returns a deriver running the standard rules
func DefaultSpecDeriver() *SpecDeriver {
	return NewSpecDeriver(StandardRules{})
}

// RulesVersion reports the version of the active rule module
func (d *SpecDeriver) RulesVersion() string {
	return d.rules.Version()
}

func (d *SpecDeriver) TotalPanels(line *models.OrderLine) (int, error) {
	return d.rules.TotalPanels(line)
}

func (d *SpecDeriver) PanelHeight(line *models.OrderLine) (float64, error) {
	return d.rules.PanelHeight(line)
}

func (d *SpecDeriver) SkirtHeight(line *models.OrderLine) (float64, error) {
	return d.rules.SkirtHeight(line)
}

func (d *SpecDeriver) RingSpacing(line *models.OrderLine) (float64, error) {
	return d.rules.RingSpacing(line)
}

func (d *SpecDeriver) TotalRingColumns(line *models.OrderLine) (int, error) {
	return d.rules.TotalRingColumns(line)
}

func (d *SpecDeriver) ManufacturingWidth(line *models.OrderLine) (float64, error) {
	return d.rules.ManufacturingWidth(line)
}

func (d *SpecDeriver) ManufacturingLength(line *models.OrderLine) (float64, error) {
	return d.rules.ManufacturingLength(line)
}

func (d *SpecDeriver) RodDimensions(line *models.OrderLine) (RodDimensions, error) {
	return d.rules.RodDimensions(line)
}

func (d *SpecDeriver) HeaderboardDimensions(line *models.OrderLine) (Dimensions, error) {
	return d.rules.HeaderboardDimensions(line)
}

// FabricCuts returns the ordered cut lengths for a fabric on a line, one
// entry per panel
func (d *SpecDeriver) FabricCuts(line *models.OrderLine, fabric *models.Fabric) ([]float64, error) {
	panels, err := d.rules.TotalPanels(line)
	if err != nil {
		return nil, err
	}
	cut, err := d.rules.FabricCut(line, fabric)
	if err != nil {
		return nil, err
	}

	cuts := make([]float64, panels)
	for i := range cuts {
		cuts[i] = cut
	}
	return cuts, nil
}

// FabricCutLength is the aggregate linear length of fabric the line consumes,
// in inches. It is the sum of FabricCuts by construction.
func (d *SpecDeriver) FabricCutLength(line *models.OrderLine, fabric *models.Fabric) (float64, error) {
	cuts, err := d.FabricCuts(line, fabric)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, cut := range cuts {
		total += cut
	}
	return total, nil
}

func (d *SpecDeriver) HeaderboardCoverCutLength(line *models.OrderLine) (float64, error) {
	return d.rules.HeaderboardCoverCutLength(line)
}

// HeaderboardCoverCutLengthTotal aggregates the headerboard cover cut length
// over every line of an order
func (d *SpecDeriver) HeaderboardCoverCutLengthTotal(order *models.Order) (float64, error) {
	var total float64
	for i := range order.OrderLines {
		length, err := d.rules.HeaderboardCoverCutLength(&order.OrderLines[i])
		if err != nil {
			return 0, err
		}
		total += length
	}
	return total, nil
}

// StandardRules is the production rule set. Allowances and spacing targets
// below are the shop's standing values; a revision bumps Version.
type StandardRules struct{}

const (
	standardRulesVersion = "2024.1"

	// nominal goods width used for panel counts, inches
	nominalFabricWidth = 54.0

	sideHemAllowance   = 1.5
	bottomHemAllowance = 4.0
	headerAllowance    = 3.0
	cutTrimAllowance   = 2.0

	// vertical ring spacing target, inches
	ringSpacingTarget = 8.0
	// horizontal distance between ring columns, inches
	ringColumnSpacing = 6.0

	headerboardHeight    = 3.5
	headerboardDepth     = 0.75
	headerboardCoverWrap = 6.0

	rodEndDeduction = 0.25
	rodDiameter     = 0.375
)

func (StandardRules) Version() string {
	return standardRulesVersion
}

// validateLine rejects configurations no formula can work with
func validateLine(line *models.OrderLine) error {
	if line.Width <= 0 || math.IsNaN(line.Width) || math.IsInf(line.Width, 0) {
		return &utils.InvalidConfigurationError{Reason: fmt.Sprintf("width must be a positive finite number, got %v", line.Width)}
	}
	if line.Drop <= 0 || math.IsNaN(line.Drop) || math.IsInf(line.Drop, 0) {
		return &utils.InvalidConfigurationError{Reason: fmt.Sprintf("drop must be a positive finite number, got %v", line.Drop)}
	}
	if line.Fullness <= 0 || math.IsNaN(line.Fullness) || math.IsInf(line.Fullness, 0) {
		return &utils.InvalidConfigurationError{Reason: fmt.Sprintf("fullness must be a positive finite number, got %v", line.Fullness)}
	}
	return nil
}

func (StandardRules) TotalPanels(line *models.OrderLine) (int, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	panels := int(math.Ceil(line.Width * line.Fullness / nominalFabricWidth))
	if panels < 1 {
		panels = 1
	}
	return panels, nil
}

func (StandardRules) PanelHeight(line *models.OrderLine) (float64, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	return line.Drop + line.HeightAdjustment + bottomHemAllowance + headerAllowance, nil
}

func (r StandardRules) SkirtHeight(line *models.OrderLine) (float64, error) {
	spacing, err := r.RingSpacing(line)
	if err != nil {
		return 0, err
	}
	// skirt hangs half a ring interval below the last ring row
	return spacing/2 + 1, nil
}

func (StandardRules) RingSpacing(line *models.OrderLine) (float64, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	rows := math.Round(line.Drop / ringSpacingTarget)
	if rows < 2 {
		rows = 2
	}
	return line.Drop / rows, nil
}

func (StandardRules) TotalRingColumns(line *models.OrderLine) (int, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	columns := int(math.Ceil(line.Width/ringColumnSpacing)) + 1
	if columns < 2 {
		columns = 2
	}
	return columns, nil
}

func (StandardRules) ManufacturingWidth(line *models.OrderLine) (float64, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	return line.Width*line.Fullness + 2*sideHemAllowance, nil
}

func (r StandardRules) ManufacturingLength(line *models.OrderLine) (float64, error) {
	panelHeight, err := r.PanelHeight(line)
	if err != nil {
		return 0, err
	}
	skirt, err := r.SkirtHeight(line)
	if err != nil {
		return 0, err
	}
	return panelHeight + skirt, nil
}

func (StandardRules) RodDimensions(line *models.OrderLine) (RodDimensions, error) {
	if err := validateLine(line); err != nil {
		return RodDimensions{}, err
	}
	length := line.Width - rodEndDeduction
	if length < 0 {
		length = 0
	}
	return RodDimensions{Length: length, Diameter: rodDiameter}, nil
}

func (StandardRules) HeaderboardDimensions(line *models.OrderLine) (Dimensions, error) {
	if err := validateLine(line); err != nil {
		return Dimensions{}, err
	}
	if !line.Headerboard {
		return Dimensions{}, nil
	}
	return Dimensions{Width: line.Width, Height: headerboardHeight, Depth: headerboardDepth}, nil
}

// FabricCut is the length of one panel cut for the given fabric. Patterned
// fabric rounds the cut up to a whole number of vertical repeats so panels
// match at the seams.
func (r StandardRules) FabricCut(line *models.OrderLine, fabric *models.Fabric) (float64, error) {
	panelHeight, err := r.PanelHeight(line)
	if err != nil {
		return 0, err
	}
	if fabric == nil {
		return 0, &utils.InvalidConfigurationError{Reason: "no fabric assigned to the line"}
	}
	if fabric.VerticalRepeat < 0 || math.IsNaN(fabric.VerticalRepeat) || math.IsInf(fabric.VerticalRepeat, 0) {
		return 0, &utils.InvalidConfigurationError{Reason: fmt.Sprintf("fabric %d has an invalid vertical repeat %v", fabric.ID, fabric.VerticalRepeat)}
	}

	cut := panelHeight + cutTrimAllowance
	if fabric.VerticalRepeat > 0 {
		cut = math.Ceil(cut/fabric.VerticalRepeat) * fabric.VerticalRepeat
	}
	return cut, nil
}

func (StandardRules) HeaderboardCoverCutLength(line *models.OrderLine) (float64, error) {
	if err := validateLine(line); err != nil {
		return 0, err
	}
	if !line.Headerboard {
		return 0, nil
	}
	return line.Width + headerboardCoverWrap, nil
}
