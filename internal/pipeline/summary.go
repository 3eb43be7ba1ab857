package pipeline

import (
	"time"

	"github.com/niprotogeros/epw-visualizer/internal/epw"
)

// Summary is the compact parse outcome published to downstream catalogs so
// they can track ingested weather files without re-parsing them.
type Summary struct {
	DatasetID   string    `json:"dataset_id"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	WMO         string    `json:"wmo"`
	Rows        int       `json:"rows"`
	UnifiedYear int       `json:"unified_year,omitempty"`
	Fatal       bool      `json:"fatal"`
	Warnings    int       `json:"warnings"`
	Errors      int       `json:"errors"`
	ParsedAt    time.Time `json:"parsed_at,omitzero"`
}

// NewSummary condenses a Result into a Summary. Fatal results produce a
// summary too, with zero rows and a zero ParsedAt.
func NewSummary(result Result) Summary {
	s := Summary{
		DatasetID: result.DatasetID,
		City:      result.Metadata.City,
		Country:   result.Metadata.Country,
		WMO:       result.Metadata.WMO,
		Fatal:     result.Dataset == nil,
	}
	for _, d := range result.Diagnostics {
		switch d.Level {
		case epw.LevelWarning:
			s.Warnings++
		case epw.LevelError:
			s.Errors++
		}
	}
	if result.Dataset != nil {
		s.Rows = len(result.Dataset.Records)
		s.UnifiedYear = result.Dataset.UnifiedYear
		s.ParsedAt = result.Dataset.ParsedAt
	}
	return s
}
