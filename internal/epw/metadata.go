package epw

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// StationMetadata is the structured form of the EPW LOCATION header line.
// Populated once per parse and never mutated afterward. Numeric fields are
// nil when absent or unparseable; string fields fall back to their defaults.
type StationMetadata struct {
	City          string   `json:"city"`
	StateProvince string   `json:"state_province"`
	Country       string   `json:"country"`
	DataType      string   `json:"data_type"`
	WMO           string   `json:"wmo"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	TimeZone      *float64 `json:"timezone,omitempty"` // hours relative to GMT, west negative; informational only
	Altitude      *float64 `json:"altitude,omitempty"` // metres
	SourceYear    *int     `json:"source_year,omitempty"`
}

// DefaultStationMetadata returns the metadata used when the header cannot be
// parsed at all.
func DefaultStationMetadata() StationMetadata {
	return StationMetadata{
		City:          "Unknown",
		StateProvince: "N/A",
		Country:       "N/A",
		DataType:      "N/A",
		WMO:           "N/A",
	}
}

// ExtractStationMetadata parses the LOCATION line out of the first 8 lines of
// an EPW byte stream. It reads from the start of the buffer independently of
// ReadRawTable. Every numeric field is parsed in isolation: one bad field
// emits one warning and stays absent without affecting the others. A missing
// or short LOCATION line degrades to defaults with a single warning. This
// function never fails; all problems surface as diagnostics.
func ExtractStationMetadata(content []byte, diags *Diagnostics) StationMetadata {
	md := DefaultStationMetadata()

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var location string
	for i := 0; i < headerLineCount && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "LOCATION") {
			location = line
			break
		}
	}
	if location == "" {
		diags.Warningf("Could not find LOCATION line in EPW header.")
		return md
	}

	parts := strings.Split(location, ",")
	if len(parts) < 10 {
		diags.Warningf("LOCATION line has fewer than 10 fields.")
		return md
	}

	md.City = stringField(parts, 1, md.City)
	md.StateProvince = stringField(parts, 2, md.StateProvince)
	md.Country = stringField(parts, 3, md.Country)
	md.DataType = stringField(parts, 4, md.DataType)
	md.WMO = stringField(parts, 5, md.WMO)
	md.Latitude = floatField(parts, 6, "Latitude", diags)
	md.Longitude = floatField(parts, 7, "Longitude", diags)
	md.TimeZone = floatField(parts, 8, "Time Zone (TZ)", diags)
	md.Altitude = floatField(parts, 9, "Altitude", diags)

	return md
}

func stringField(parts []string, idx int, fallback string) string {
	if s := strings.TrimSpace(parts[idx]); s != "" {
		return s
	}
	return fallback
}

// floatField parses one positional numeric header field. An empty field is
// silently absent; an unparseable one emits a warning and stays absent.
func floatField(parts []string, idx int, label string, diags *Diagnostics) *float64 {
	s := strings.TrimSpace(parts[idx])
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		diags.Warningf("Could not parse %s: '%s'", label, s)
		return nil
	}
	return &v
}
