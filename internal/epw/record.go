package epw

import "time"

// FieldValues holds the named numeric readings of one row. A nil pointer
// means the value is missing, never zero.
type FieldValues struct {
	DryBulbTemperature           *float64 `json:"dry_bulb_temperature,omitempty"`
	DewPointTemperature          *float64 `json:"dew_point_temperature,omitempty"`
	RelativeHumidity             *float64 `json:"relative_humidity,omitempty"`
	AtmosphericPressure          *float64 `json:"atmospheric_pressure,omitempty"`
	HorizontalInfraredRadiation  *float64 `json:"horizontal_infrared_radiation,omitempty"`
	GlobalHorizontalRadiation    *float64 `json:"global_horizontal_radiation,omitempty"`
	DirectNormalRadiation        *float64 `json:"direct_normal_radiation,omitempty"`
	DiffuseHorizontalRadiation   *float64 `json:"diffuse_horizontal_radiation,omitempty"`
	GlobalHorizontalIlluminance  *float64 `json:"global_horizontal_illuminance,omitempty"`
	DirectNormalIlluminance      *float64 `json:"direct_normal_illuminance,omitempty"`
	DiffuseHorizontalIlluminance *float64 `json:"diffuse_horizontal_illuminance,omitempty"`
	WindDirection                *float64 `json:"wind_direction,omitempty"`
	WindSpeed                    *float64 `json:"wind_speed,omitempty"`
	TotalSkyCover                *float64 `json:"total_sky_cover,omitempty"`
}

// MappedRow is one data row after field mapping: integer time components
// straight from the file (still in EPW's 1-24 hour convention) plus the
// named readings. Produced by [MapFields], consumed by [NormalizeTimes].
type MappedRow struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Values FieldValues
}

// Record is one semantic reading with a normalized calendar timestamp.
type Record struct {
	Timestamp time.Time   `json:"timestamp"`
	Values    FieldValues `json:"values"`
}

// Dataset is the ordered collection of records produced by one parse, with
// every timestamp rewritten to UnifiedYear. Records keep the file's row
// order; duplicate timestamps are permitted since the source data determines
// uniqueness. Immutable once built. ParsedAt is a wall-clock ingestion stamp
// from the package clock, not derived from the input bytes; all other fields
// are a pure function of the input.
type Dataset struct {
	Records     []Record  `json:"records"`
	UnifiedYear int       `json:"unified_year"`
	ParsedAt    time.Time `json:"parsed_at"`
}

// NewDataset assembles a Dataset, stamping it with the package clock.
func NewDataset(records []Record, unifiedYear int) *Dataset {
	return &Dataset{
		Records:     records,
		UnifiedYear: unifiedYear,
		ParsedAt:    clock.Now(),
	}
}
