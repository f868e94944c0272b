package services

import (
	"fmt"

	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/utils"
	"github.com/shopspring/decimal"
)

// PriceBook is the versionable rate module behind the pricing calculator.
// Implementations must be pure. Rate changes ship as a new implementation,
// the same way ManufacturingRules versions do.
type PriceBook interface {
	Version() string
	// ShadeBase is the flat charge for one manufactured line
	ShadeBase() decimal.Decimal
	// ShadeRatePerSquareFoot prices the finished face area
	ShadeRatePerSquareFoot() decimal.Decimal
	// HeaderboardCharge is added when the line carries a headerboard
	HeaderboardCharge() decimal.Decimal
}

// StandardPriceBook holds the current rate card
type StandardPriceBook struct{}

func (StandardPriceBook) Version() string { return "2024.1" }

func (StandardPriceBook) ShadeBase() decimal.Decimal {
	return decimal.NewFromInt(85)
}

func (StandardPriceBook) ShadeRatePerSquareFoot() decimal.Decimal {
	return decimal.RequireFromString("2.25")
}

func (StandardPriceBook) HeaderboardCharge() decimal.Decimal {
	return decimal.RequireFromString("22.50")
}

// PricingCalculator computes shade, fabric and option prices for a line-item
// graph. It is stateless: the same configuration prices identically whether
// it arrives as an unsaved preview or as a persisted order graph.
type PricingCalculator struct {
	book    PriceBook
	deriver *SpecDeriver
}

// NewPricingCalculator wires a rate card to a spec deriver
func NewPricingCalculator(book PriceBook, deriver *SpecDeriver) *PricingCalculator {
	return &PricingCalculator{book: book, deriver: deriver}
}

// DefaultPricingCalculator returns a calculator on the standard rate card and
// standard manufacturing rules
func DefaultPricingCalculator() *PricingCalculator {
	return NewPricingCalculator(StandardPriceBook{}, DefaultSpecDeriver())
}

// ShadePrice prices the manufactured shade itself: base charge plus face area
// at the square-foot rate, plus the headerboard charge when present. Rounded
// to two decimal places, half away from zero.
func (p *PricingCalculator) ShadePrice(line *models.OrderLine) (decimal.Decimal, error) {
	if err := validateLine(line); err != nil {
		return decimal.Zero, err
	}

	squareFeet := decimal.NewFromFloat(line.Width * line.Drop / 144)
	price := p.book.ShadeBase().Add(squareFeet.Mul(p.book.ShadeRatePerSquareFoot()))
	if line.Headerboard {
		price = price.Add(p.book.HeaderboardCharge())
	}
	return price.Round(2), nil
}

// FabricPrice prices the fabric consumed by the line across every fabric
// assigned to it: cut yardage times the catalog price per yard.
func (p *PricingCalculator) FabricPrice(line *models.OrderLine, fabrics []models.OrderFabric) (decimal.Decimal, error) {
	if err := validateLine(line); err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for i := range fabrics {
		fabric := &fabrics[i].Fabric
		cutLength, err := p.deriver.FabricCutLength(line, fabric)
		if err != nil {
			return decimal.Zero, err
		}
		yards := decimal.NewFromFloat(cutLength / 36)
		total = total.Add(yards.Mul(fabric.PricePerYard))
	}
	return total.Round(2), nil
}

// OptionPrice prices the line's options plus any options inherited from the
// order's top level or its fabrics. Every referenced option type must be
// resolved and data-requiring options must carry their payload.
func (p *PricingCalculator) OptionPrice(line *models.OrderLine, inherited ...[]models.OrderOption) (decimal.Decimal, error) {
	total := decimal.Zero

	optionSets := append([][]models.OrderOption{line.Options}, inherited...)
	for _, options := range optionSets {
		for i := range options {
			price, err := p.OptionUnitPrice(&options[i])
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(price)
		}
	}
	return total.Round(2), nil
}

// OptionUnitPrice prices one option instance: type price plus sub-option
// price, multiplied by the data quantity when a payload is present
func (p *PricingCalculator) OptionUnitPrice(option *models.OrderOption) (decimal.Decimal, error) {
	if option.OptionType.ID == 0 {
		return decimal.Zero, &utils.InvalidConfigurationError{
			Reason: fmt.Sprintf("option %d references unresolved option type %d", option.ID, option.OptionTypeID),
		}
	}
	if option.SubOptionID != nil && (option.SubOption == nil || option.SubOption.ID == 0) {
		return decimal.Zero, &utils.InvalidConfigurationError{
			Reason: fmt.Sprintf("option %d references unresolved sub-option %d", option.ID, *option.SubOptionID),
		}
	}
	if option.OptionType.RequiresData && option.Data == nil {
		return decimal.Zero, &utils.InvalidConfigurationError{
			Reason: fmt.Sprintf("option type %q requires a data payload", option.OptionType.Name),
		}
	}

	price := option.OptionType.Price
	if option.SubOption != nil {
		price = price.Add(option.SubOption.Price)
	}
	if option.Data != nil && option.Data.Quantity > 1 {
		price = price.Mul(decimal.NewFromInt(int64(option.Data.Quantity)))
	}
	return price.Round(2), nil
}

// totalsUnitPrice prices one option for the stored totals. An option still
// waiting on its required data payload contributes zero; the review engine
// flags it instead of the save failing.
func (p *PricingCalculator) totalsUnitPrice(option *models.OrderOption) (decimal.Decimal, error) {
	if option.OptionType.ID != 0 && option.OptionType.RequiresData && option.Data == nil {
		return decimal.Zero, nil
	}
	return p.OptionUnitPrice(option)
}

// CalculateTotals recomputes and sets the order's stored totals from the
// current graph. Order-level and fabric-level options are counted once;
// line options are counted per line.
func (p *PricingCalculator) CalculateTotals(order *models.Order) error {
	shadeTotal := decimal.Zero
	fabricTotal := decimal.Zero
	optionTotal := decimal.Zero

	for i := range order.OrderLines {
		line := &order.OrderLines[i]

		shade, err := p.ShadePrice(line)
		if err != nil {
			return err
		}
		shadeTotal = shadeTotal.Add(shade)

		fabric, err := p.FabricPrice(line, order.Fabrics)
		if err != nil {
			return err
		}
		fabricTotal = fabricTotal.Add(fabric)

		for j := range line.Options {
			price, err := p.totalsUnitPrice(&line.Options[j])
			if err != nil {
				return err
			}
			optionTotal = optionTotal.Add(price)
		}
	}

	for i := range order.Options {
		price, err := p.totalsUnitPrice(&order.Options[i])
		if err != nil {
			return err
		}
		optionTotal = optionTotal.Add(price)
	}
	for i := range order.Fabrics {
		for j := range order.Fabrics[i].Options {
			price, err := p.totalsUnitPrice(&order.Fabrics[i].Options[j])
			if err != nil {
				return err
			}
			optionTotal = optionTotal.Add(price)
		}
	}

	order.ShadeTotal = shadeTotal.Round(2)
	order.FabricTotal = fabricTotal.Round(2)
	order.OptionTotal = optionTotal.Round(2)
	order.GrandTotal = shadeTotal.Add(fabricTotal).Add(optionTotal).Round(2)
	return nil
}
