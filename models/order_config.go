package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bestline-mfg/bestline-orders-api/utils"
)

// OptionTypeResolver looks up an option type definition by ID. The save
// pipeline provides a database-backed resolver; tests use a map.
type OptionTypeResolver func(id uint) (*OptionType, bool)

const configDateFormat = "2006-01-02"

// OrderFromConfigStep1 parses the initial order submission: the order header
// plus its fabrics (each with fabric-level options) and its top-level options.
// The returned graph is fully populated but unsaved. Every violated field is
// reported, not just the first.
func OrderFromConfigStep1(raw []byte, resolve OptionTypeResolver) (*Order, error) {
	input, err := decodeConfig(raw)
	if err != nil {
		return nil, err
	}

	ve := utils.NewValidationError()
	order := &Order{
		CompanyID:        requireUintField(input, "company_id", ve),
		ProductID:        requireUintField(input, "product_id", ve),
		RingTypeID:       requireUintField(input, "ring_type_id", ve),
		ContactID:        optionalUintField(input, "contact_id", ve),
		ShippingMethodID: optionalUintField(input, "shipping_method_id", ve),
		DateDue:          optionalDateField(input, "date_due", ve),
		DateReceived:     optionalDateField(input, "date_received", ve),
	}

	if rawFabrics, ok := input["fabrics"]; ok {
		list, ok := rawFabrics.([]any)
		if !ok {
			ve.Add("fabrics", "must be a list")
		} else {
			for i, rawFabric := range list {
				fabric, err := FabricFromConfig(rawFabric, resolve)
				if err != nil {
					mergeChildError(ve, fmt.Sprintf("fabrics[%d]", i), err)
					continue
				}
				order.Fabrics = append(order.Fabrics, *fabric)
			}
		}
	}

	parseOptionList(input, "options", resolve, ve, func(opt OrderOption) {
		order.Options = append(order.Options, opt)
	})

	if ve.HasErrors() {
		return nil, ve
	}
	return order, nil
}

// OrderLinesFromOrderData parses the full-configuration submission for an
// existing order: the replacement set of order lines, each with its options
// and option data.
func OrderLinesFromOrderData(raw []byte, resolve OptionTypeResolver) ([]OrderLine, error) {
	input, err := decodeConfig(raw)
	if err != nil {
		return nil, err
	}

	ve := utils.NewValidationError()
	var lines []OrderLine

	rawLines, ok := input["order_lines"]
	if !ok {
		ve.Add("order_lines", "is required")
		return nil, ve
	}
	list, ok := rawLines.([]any)
	if !ok {
		ve.Add("order_lines", "must be a list")
		return nil, ve
	}

	for i, rawLine := range list {
		lineInput, ok := rawLine.(map[string]any)
		if !ok {
			ve.Add(fmt.Sprintf("order_lines[%d]", i), "must be an object")
			continue
		}
		line, err := OrderLineFromConfig(lineInput, resolve)
		if err != nil {
			mergeChildError(ve, fmt.Sprintf("order_lines[%d]", i), err)
			continue
		}
		lines = append(lines, *line)
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return lines, nil
}

// OrderLineFromConfig parses a single line-item configuration (hardware and
// dimension selections plus nested options) into an unsaved OrderLine.
func OrderLineFromConfig(input map[string]any, resolve OptionTypeResolver) (*OrderLine, error) {
	ve := utils.NewValidationError()

	line := &OrderLine{
		HardwareID:            optionalUintField(input, "hardware_id", ve),
		CordPositionID:        optionalUintField(input, "cord_position_id", ve),
		PullTypeID:            optionalUintField(input, "pull_type_id", ve),
		MountID:               optionalUintField(input, "mount_id", ve),
		ValanceTypeID:         optionalUintField(input, "valance_type_id", ve),
		Width:                 requireFloatField(input, "width", ve),
		Drop:                  requireFloatField(input, "drop", ve),
		Fullness:              optionalFloatFieldDefault(input, "fullness", 1, ve),
		HeightAdjustment:      optionalFloatFieldDefault(input, "height_adjustment", 0, ve),
		Headerboard:           optionalBoolField(input, "headerboard", ve),
		EmbellishmentOptionID: optionalUintField(input, "embellishment_option_id", ve),
		AssemblerNotes:        optionalStringField(input, "assembler_notes", ve),
		EmbellisherNotes:      optionalStringField(input, "embellisher_notes", ve),
		SeamstressNotes:       optionalStringField(input, "seamstress_notes", ve),
	}

	parseOptionList(input, "options", resolve, ve, func(opt OrderOption) {
		line.Options = append(line.Options, opt)
	})

	if ve.HasErrors() {
		return nil, ve
	}
	return line, nil
}

// OptionFromConfig parses one option instance. The sub-option, when present,
// must belong to the option's family or the payload is rejected.
func OptionFromConfig(input map[string]any, resolve OptionTypeResolver) (*OrderOption, error) {
	ve := utils.NewValidationError()

	opt := &OrderOption{
		OptionTypeID: requireUintField(input, "option_type_id", ve),
		SubOptionID:  optionalUintField(input, "sub_option_id", ve),
	}

	if rawData, ok := input["data"]; ok && rawData != nil {
		dataInput, ok := rawData.(map[string]any)
		if !ok {
			ve.Add("data", "must be an object")
		} else {
			data := &OptionData{
				Value:    optionalStringField(dataInput, "value", ve),
				Quantity: int(optionalFloatFieldDefault(dataInput, "quantity", 1, ve)),
			}
			opt.Data = data
		}
	}

	if !ve.HasErrors() && resolve != nil {
		optType, found := resolve(opt.OptionTypeID)
		if !found {
			ve.Add("option_type_id", fmt.Sprintf("unknown option type %d", opt.OptionTypeID))
		} else {
			opt.OptionType = *optType
			if opt.SubOptionID != nil {
				sub, found := resolve(*opt.SubOptionID)
				switch {
				case !found:
					ve.Add("sub_option_id", fmt.Sprintf("unknown sub-option %d", *opt.SubOptionID))
				case !sub.IsSubOptionOf(optType):
					ve.Add("sub_option_id", fmt.Sprintf("sub-option %d does not belong to option type %d", *opt.SubOptionID, opt.OptionTypeID))
				default:
					opt.SubOption = sub
				}
			}
		}
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return opt, nil
}

// FabricFromConfig parses one fabric assignment with its nested options
func FabricFromConfig(raw any, resolve OptionTypeResolver) (*OrderFabric, error) {
	input, ok := raw.(map[string]any)
	if !ok {
		ve := utils.NewValidationError()
		ve.Add("fabric", "must be an object")
		return nil, ve
	}

	ve := utils.NewValidationError()
	fabric := &OrderFabric{
		FabricTypeID: requireUintField(input, "fabric_type_id", ve),
		FabricID:     requireUintField(input, "fabric_id", ve),
	}

	parseOptionList(input, "options", resolve, ve, func(opt OrderOption) {
		fabric.Options = append(fabric.Options, opt)
	})

	if ve.HasErrors() {
		return nil, ve
	}
	return fabric, nil
}

func decodeConfig(raw []byte) (map[string]any, error) {
	var input map[string]any
	if err := json.Unmarshal(raw, &input); err != nil {
		ve := utils.NewValidationError()
		ve.Add("data", "malformed JSON")
		return nil, ve
	}
	return input, nil
}

func parseOptionList(input map[string]any, key string, resolve OptionTypeResolver, ve *utils.ValidationError, add func(OrderOption)) {
	rawOptions, ok := input[key]
	if !ok || rawOptions == nil {
		return
	}
	list, ok := rawOptions.([]any)
	if !ok {
		ve.Add(key, "must be a list")
		return
	}
	for i, rawOption := range list {
		optionInput, ok := rawOption.(map[string]any)
		if !ok {
			ve.Add(fmt.Sprintf("%s[%d]", key, i), "must be an object")
			continue
		}
		opt, err := OptionFromConfig(optionInput, resolve)
		if err != nil {
			mergeChildError(ve, fmt.Sprintf("%s[%d]", key, i), err)
			continue
		}
		add(*opt)
	}
}

// mergeChildError folds a nested ValidationError into the parent under a
// prefixed field path
func mergeChildError(ve *utils.ValidationError, prefix string, err error) {
	if child, ok := err.(*utils.ValidationError); ok {
		for field, message := range child.Fields {
			ve.Add(prefix+"."+field, message)
		}
		return
	}
	ve.Add(prefix, err.Error())
}

// JSON numbers decode as float64; every numeric helper funnels through this
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func requireUintField(input map[string]any, key string, ve *utils.ValidationError) uint {
	value, ok := input[key]
	if !ok || value == nil {
		ve.Add(key, "is required")
		return 0
	}
	num, ok := numericValue(value)
	if !ok || num < 0 || num != math.Trunc(num) {
		ve.Add(key, "must be a non-negative whole number")
		return 0
	}
	return uint(num)
}

func optionalUintField(input map[string]any, key string, ve *utils.ValidationError) *uint {
	value, ok := input[key]
	if !ok || value == nil {
		return nil
	}
	num, ok := numericValue(value)
	if !ok || num < 0 || num != math.Trunc(num) {
		ve.Add(key, "must be a non-negative whole number")
		return nil
	}
	id := uint(num)
	return &id
}

func requireFloatField(input map[string]any, key string, ve *utils.ValidationError) float64 {
	value, ok := input[key]
	if !ok || value == nil {
		ve.Add(key, "is required")
		return 0
	}
	num, ok := numericValue(value)
	if !ok {
		ve.Add(key, "must be a number")
		return 0
	}
	return num
}

func optionalFloatFieldDefault(input map[string]any, key string, fallback float64, ve *utils.ValidationError) float64 {
	value, ok := input[key]
	if !ok || value == nil {
		return fallback
	}
	num, ok := numericValue(value)
	if !ok {
		ve.Add(key, "must be a number")
		return fallback
	}
	return num
}

func optionalBoolField(input map[string]any, key string, ve *utils.ValidationError) bool {
	value, ok := input[key]
	if !ok || value == nil {
		return false
	}
	b, ok := value.(bool)
	if !ok {
		ve.Add(key, "must be a boolean")
		return false
	}
	return b
}

func optionalStringField(input map[string]any, key string, ve *utils.ValidationError) string {
	value, ok := input[key]
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		ve.Add(key, "must be a string")
		return ""
	}
	return s
}

func optionalDateField(input map[string]any, key string, ve *utils.ValidationError) *time.Time {
	value, ok := input[key]
	if !ok || value == nil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		ve.Add(key, "must be a date string (YYYY-MM-DD)")
		return nil
	}
	parsed, err := time.Parse(configDateFormat, s)
	if err != nil {
		ve.Add(key, "must be a date string (YYYY-MM-DD)")
		return nil
	}
	return &parsed
}
