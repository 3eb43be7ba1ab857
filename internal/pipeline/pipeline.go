package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/niprotogeros/epw-visualizer/internal/epw"
	"github.com/niprotogeros/epw-visualizer/internal/observability"
)

// Outcome labels for the files_parsed_total metric.
const (
	outcomeSuccess  = "success"
	outcomeDegraded = "degraded"
	outcomeFatal    = "fatal"
)

// Drop reason labels for the rows_dropped_total metric.
const (
	reasonMissingTime     = "missing_time"
	reasonInvalidCalendar = "invalid_calendar"
	reasonUnifiedYear     = "unified_year"
)

// Result is everything one parse invocation returns. The caller always
// receives all three payloads: Dataset is nil only on fatal failure,
// Metadata is populated with defaults on header failure, and Diagnostics
// lists every status message in emission order.
type Result struct {
	DatasetID   string              `json:"dataset_id"`
	Dataset     *epw.Dataset        `json:"dataset,omitempty"`
	Metadata    epw.StationMetadata `json:"metadata"`
	Diagnostics []epw.Diagnostic    `json:"diagnostics"`
}

// Archiver persists a successfully parsed dataset.
type Archiver interface {
	SaveDataset(ctx context.Context, result Result) error
}

// SummaryPublisher emits a parse summary event to an external sink.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary Summary) error
}

// Pipeline runs the EPW parsing stages in order (metadata extraction, raw
// decode, field mapping, time normalization, year unification) and threads
// one diagnostics collector through all of them.
type Pipeline struct {
	logger      *slog.Logger
	metrics     *observability.Metrics
	unifiedYear int
	archiver    Archiver
	publisher   SummaryPublisher
}

// New creates a Pipeline. archiver and publisher may be nil to disable the
// corresponding sink.
func New(logger *slog.Logger, metrics *observability.Metrics, unifiedYear int, archiver Archiver, publisher SummaryPublisher) *Pipeline {
	return &Pipeline{
		logger:      logger,
		metrics:     metrics,
		unifiedYear: unifiedYear,
		archiver:    archiver,
		publisher:   publisher,
	}
}

// DatasetID produces a deterministic content-addressed identifier for an
// input byte payload. Identical bytes always map to the same ID, which makes
// it a safe cache and idempotent-archive key.
func DatasetID(content []byte) string {
	hash := sha256.Sum256(content)
	return "epw-" + hex.EncodeToString(hash[:8])
}

// Parse runs the full parsing pipeline over one file's bytes. It is pure
// with respect to its input and never raises for malformed input: fatal
// conditions return a nil Dataset with an error-level diagnostic, and an
// unexpected panic is recovered into a generic fatal diagnostic.
func (p *Pipeline) Parse(content []byte) (result Result) {
	start := time.Now()
	diags := &epw.Diagnostics{}
	result = Result{DatasetID: DatasetID(content), Metadata: epw.DefaultStationMetadata()}

	defer func() {
		result.Diagnostics = diags.Messages()
		p.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("parse panicked", "dataset_id", result.DatasetID, "panic", r)
			diags.Errorf("Fatal error reading EPW data: %v", r)
			result.Dataset = nil
			p.metrics.FilesParsed.WithLabelValues(outcomeFatal).Inc()
		}
	}()

	result.Metadata = epw.ExtractStationMetadata(content, diags)

	raw, err := epw.ReadRawTable(content, diags)
	if err != nil {
		return p.fatal(result, err)
	}

	rows, err := epw.MapFields(raw, diags)
	if err != nil {
		return p.fatal(result, err)
	}
	p.metrics.RowsDropped.WithLabelValues(reasonMissingTime).Add(float64(len(raw.Rows) - len(rows)))

	// The header carries no nominal year; take it from the first data row.
	if result.Metadata.SourceYear == nil {
		year := rows[0].Year
		result.Metadata.SourceYear = &year
	}

	records, err := epw.NormalizeTimes(rows, diags)
	if err != nil {
		return p.fatal(result, err)
	}
	p.metrics.RowsDropped.WithLabelValues(reasonInvalidCalendar).Add(float64(len(rows) - len(records)))

	unified, err := epw.UnifyYear(records, p.unifiedYear, diags)
	if err != nil {
		return p.fatal(result, err)
	}
	p.metrics.RowsDropped.WithLabelValues(reasonUnifiedYear).Add(float64(len(records) - len(unified)))

	diags.Successf("Successfully parsed EPW data: %d rows.", len(unified))
	result.Dataset = epw.NewDataset(unified, p.unifiedYear)

	outcome := outcomeSuccess
	if diags.Count(epw.LevelWarning) > 0 || diags.HasErrors() {
		outcome = outcomeDegraded
	}
	p.metrics.FilesParsed.WithLabelValues(outcome).Inc()
	p.metrics.RowsParsed.Add(float64(len(unified)))
	p.metrics.RowsPerFile.Observe(float64(len(unified)))

	p.logger.Info("parsed EPW file",
		"dataset_id", result.DatasetID,
		"city", result.Metadata.City,
		"rows", len(unified),
		"outcome", outcome,
	)
	return result
}

// Process parses the content and feeds the configured sinks. Sink failures
// are logged and counted but never alter the parse result.
func (p *Pipeline) Process(ctx context.Context, content []byte) Result {
	result := p.Parse(content)

	if p.publisher != nil {
		if err := p.publisher.PublishSummary(ctx, NewSummary(result)); err != nil {
			p.logger.Warn("publish parse summary failed", "dataset_id", result.DatasetID, "error", err)
			p.metrics.PublishErrors.Inc()
		}
	}
	if p.archiver != nil && result.Dataset != nil {
		if err := p.archiver.SaveDataset(ctx, result); err != nil {
			p.logger.Warn("archive dataset failed", "dataset_id", result.DatasetID, "error", err)
			p.metrics.ArchiveErrors.Inc()
		}
	}
	return result
}

func (p *Pipeline) fatal(result Result, err error) Result {
	p.logger.Warn("parse failed", "dataset_id", result.DatasetID, "error", err)
	p.metrics.FilesParsed.WithLabelValues(outcomeFatal).Inc()
	result.Dataset = nil
	return result
}
