package epw

import (
	"math"
	"strconv"
	"strings"
)

// maxStandardEPWField is the highest field number of the documented EPW
// layout; columns past it never warrant a diagnostic.
const maxStandardEPWField = 34

// FieldSpec describes one semantic field: its name, its 0-based raw column
// position, and its 1-based field number in the EPW documentation.
type FieldSpec struct {
	Name     string `json:"name"`
	Column   int    `json:"column"`
	EPWField int    `json:"epw_field"`

	assign func(*FieldValues, *float64)
}

var timeFields = []FieldSpec{
	{Name: "year", Column: 0, EPWField: 1},
	{Name: "month", Column: 1, EPWField: 2},
	{Name: "day", Column: 2, EPWField: 3},
	{Name: "hour", Column: 3, EPWField: 4},
	{Name: "minute", Column: 4, EPWField: 5},
}

// dataFields is the EPW field table: raw column positions of the named
// readings per the standard layout. Columns 5, 10-11, 19, and 23+ carry
// fields this pipeline does not extract (source flags, sky radiation
// estimates, zenith luminance, weather codes).
var dataFields = []FieldSpec{
	{Name: "dry_bulb_temperature", Column: 6, EPWField: 7,
		assign: func(v *FieldValues, x *float64) { v.DryBulbTemperature = x }},
	{Name: "dew_point_temperature", Column: 7, EPWField: 8,
		assign: func(v *FieldValues, x *float64) { v.DewPointTemperature = x }},
	{Name: "relative_humidity", Column: 8, EPWField: 9,
		assign: func(v *FieldValues, x *float64) { v.RelativeHumidity = x }},
	{Name: "atmospheric_pressure", Column: 9, EPWField: 10,
		assign: func(v *FieldValues, x *float64) { v.AtmosphericPressure = x }},
	{Name: "horizontal_infrared_radiation", Column: 12, EPWField: 13,
		assign: func(v *FieldValues, x *float64) { v.HorizontalInfraredRadiation = x }},
	{Name: "global_horizontal_radiation", Column: 13, EPWField: 14,
		assign: func(v *FieldValues, x *float64) { v.GlobalHorizontalRadiation = x }},
	{Name: "direct_normal_radiation", Column: 14, EPWField: 15,
		assign: func(v *FieldValues, x *float64) { v.DirectNormalRadiation = x }},
	{Name: "diffuse_horizontal_radiation", Column: 15, EPWField: 16,
		assign: func(v *FieldValues, x *float64) { v.DiffuseHorizontalRadiation = x }},
	{Name: "global_horizontal_illuminance", Column: 16, EPWField: 17,
		assign: func(v *FieldValues, x *float64) { v.GlobalHorizontalIlluminance = x }},
	{Name: "direct_normal_illuminance", Column: 17, EPWField: 18,
		assign: func(v *FieldValues, x *float64) { v.DirectNormalIlluminance = x }},
	{Name: "diffuse_horizontal_illuminance", Column: 18, EPWField: 19,
		assign: func(v *FieldValues, x *float64) { v.DiffuseHorizontalIlluminance = x }},
	{Name: "wind_direction", Column: 20, EPWField: 21,
		assign: func(v *FieldValues, x *float64) { v.WindDirection = x }},
	{Name: "wind_speed", Column: 21, EPWField: 22,
		assign: func(v *FieldValues, x *float64) { v.WindSpeed = x }},
	{Name: "total_sky_cover", Column: 22, EPWField: 23,
		assign: func(v *FieldValues, x *float64) { v.TotalSkyCover = x }},
}

// TimeFields returns the time component specs of the EPW field table.
func TimeFields() []FieldSpec { return append([]FieldSpec(nil), timeFields...) }

// DataFields returns the named reading specs of the EPW field table.
func DataFields() []FieldSpec { return append([]FieldSpec(nil), dataFields...) }

// MapFields maps the positional raw table onto named numeric fields. Each
// field follows the same policy: an entirely absent column warns and stays
// all-missing, a column with no numeric data logs an info message and stays
// all-missing, and individual unparseable cells simply go missing; no field
// failure ever aborts the mapping of another. Time components are mandatory:
// rows missing any of them are dropped at the end with a single info message.
// Returns ErrNoValidTimeRows when no rows survive.
func MapFields(raw *RawTable, diags *Diagnostics) ([]MappedRow, error) {
	timeCols := make([][]*float64, len(timeFields))
	for i, spec := range timeFields {
		timeCols[i] = coerceColumn(raw, spec, diags)
	}
	dataCols := make([][]*float64, len(dataFields))
	for i, spec := range dataFields {
		dataCols[i] = coerceColumn(raw, spec, diags)
	}

	rows := make([]MappedRow, 0, len(raw.Rows))
	dropped := 0
	for r := range raw.Rows {
		year, month, day := timeCols[0][r], timeCols[1][r], timeCols[2][r]
		hour, minute := timeCols[3][r], timeCols[4][r]
		if year == nil || month == nil || day == nil || hour == nil || minute == nil {
			dropped++
			continue
		}
		row := MappedRow{
			Year:   truncInt(*year),
			Month:  truncInt(*month),
			Day:    truncInt(*day),
			Hour:   truncInt(*hour),
			Minute: truncInt(*minute),
		}
		for i, spec := range dataFields {
			if v := dataCols[i][r]; v != nil {
				spec.assign(&row.Values, v)
			}
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		diags.Infof("Removed %d rows with missing time information.", dropped)
	}
	if len(rows) == 0 {
		diags.Errorf("No valid data rows remaining after cleaning time information.")
		return nil, ErrNoValidTimeRows
	}
	return rows, nil
}

// coerceColumn converts one raw column to numeric values, applying the
// per-field degradation policy and emitting at most one diagnostic.
func coerceColumn(raw *RawTable, spec FieldSpec, diags *Diagnostics) []*float64 {
	values := make([]*float64, len(raw.Rows))
	if spec.Column >= raw.Width {
		if spec.EPWField <= maxStandardEPWField {
			diags.Warningf("Raw column %d (for %s, EPW field %d) not found.",
				spec.Column, spec.Name, spec.EPWField)
		}
		return values
	}

	valid := 0
	for i := range raw.Rows {
		cell := strings.TrimSpace(raw.Cell(i, spec.Column))
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		values[i] = &v
		valid++
	}
	if valid == 0 && spec.EPWField <= maxStandardEPWField {
		diags.Infof("Column '%s' (EPW field %d) contains no valid numeric data.",
			spec.Name, spec.EPWField)
	}
	return values
}

// truncInt truncates toward zero, matching integer coercion of values such
// as "2000.0" in the time columns.
func truncInt(v float64) int { return int(math.Trunc(v)) }
