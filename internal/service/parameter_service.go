// Package service implements the application operations on top of the
// store: ingestion with duplicate detection, dashboard queries, and
// user account management.
package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/labtrack/backend/internal/extraction"
	"github.com/labtrack/backend/internal/metrics"
	"github.com/labtrack/backend/internal/store"
)

// ParameterService owns lab parameter persistence and the dashboard
// read paths.
type ParameterService struct {
	store  store.Store
	logger zerolog.Logger
}

// NewParameterService creates a parameter service.
func NewParameterService(s store.Store, logger zerolog.Logger) *ParameterService {
	return &ParameterService{store: s, logger: logger}
}

// IngestResult summarizes one ingestion batch. Every record lands in
// exactly one bucket.
type IngestResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// canonicalStatus maps a reported status onto the stored Low/Normal/
// High vocabulary, returning "" for anything else.
func canonicalStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "low":
		return "Low"
	case "normal":
		return "Normal"
	case "high":
		return "High"
	}
	return ""
}

// Ingest persists a batch of extracted parameters for one user.
// Records are processed in order and independently: an invalid or
// failing record counts toward Errors and never aborts the batch.
// Duplicates of already-persisted data count toward Skipped.
//
// A record is a duplicate when an existing record matches on
// (parameterName, value, testDate, unit), or on
// (parameterName, sourceFile, testDate) within the same source report.
func (s *ParameterService) Ingest(ctx context.Context, userID string, params []extraction.Parameter) (IngestResult, []*store.LabParameter) {
	var result IngestResult
	inserted := make([]*store.LabParameter, 0, len(params))

	for _, p := range params {
		p.Status = canonicalStatus(p.Status)
		if err := validateParameter(p); err != nil {
			result.Errors++
			metrics.IngestedParameters.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Str("parameter", p.ParameterName).Msg("rejecting invalid parameter")
			continue
		}

		sourceFile := p.SourceFile
		if sourceFile == "" {
			sourceFile = "Unknown"
		}

		dup, err := s.isDuplicate(ctx, userID, p, sourceFile)
		if err != nil {
			result.Errors++
			metrics.IngestedParameters.WithLabelValues("error").Inc()
			s.logger.Error().Err(err).Str("parameter", p.ParameterName).Msg("duplicate check failed")
			continue
		}
		if dup {
			result.Skipped++
			metrics.IngestedParameters.WithLabelValues("skipped").Inc()
			continue
		}

		record := &store.LabParameter{
			UserID:        userID,
			ParameterName: p.ParameterName,
			Value:         p.Value,
			Unit:          p.Unit,
			NormalRange:   p.NormalRange,
			Status:        p.Status,
			TestDate:      p.TestDate,
			SourceFile:    sourceFile,
			ExtractedAt:   time.Now(),
		}

		switch err := s.store.CreateLabParameter(ctx, record); {
		case err == nil:
			result.Added++
			metrics.IngestedParameters.WithLabelValues("added").Inc()
			inserted = append(inserted, record)
		case errors.Is(err, store.ErrDuplicate):
			// A concurrent insert won the race; same outcome as the
			// pre-insert check catching it.
			result.Skipped++
			metrics.IngestedParameters.WithLabelValues("skipped").Inc()
		default:
			result.Errors++
			metrics.IngestedParameters.WithLabelValues("error").Inc()
			s.logger.Error().Err(err).Str("parameter", p.ParameterName).Msg("insert failed")
		}
	}

	s.logger.Info().Str("userId", userID).
		Int("added", result.Added).Int("skipped", result.Skipped).Int("errors", result.Errors).
		Msg("ingestion batch complete")
	return result, inserted
}

func (s *ParameterService) isDuplicate(ctx context.Context, userID string, p extraction.Parameter, sourceFile string) (bool, error) {
	_, err := s.store.FindLabParameterByData(ctx, userID, p.ParameterName, p.Value, p.TestDate, p.Unit)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	_, err = s.store.FindLabParameterBySource(ctx, userID, p.ParameterName, sourceFile, p.TestDate)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func validateParameter(p extraction.Parameter) error {
	switch {
	case strings.TrimSpace(p.ParameterName) == "":
		return errors.New("parameterName is required")
	case strings.TrimSpace(p.Value) == "":
		return errors.New("value is required")
	case strings.TrimSpace(p.Unit) == "":
		return errors.New("unit is required")
	case strings.TrimSpace(p.NormalRange) == "":
		return errors.New("normalRange is required")
	case strings.TrimSpace(p.TestDate) == "":
		return errors.New("testDate is required")
	case p.Status == "":
		return errors.New("status must be Low, Normal or High")
	}
	return nil
}

// List returns all parameters for the user, newest test date first.
func (s *ParameterService) List(ctx context.Context, userID string) ([]*store.LabParameter, error) {
	return s.store.ListLabParameters(ctx, userID)
}

// Delete removes a single parameter owned by the user.
func (s *ParameterService) Delete(ctx context.Context, userID, paramID string) error {
	return s.store.DeleteLabParameter(ctx, userID, paramID)
}

// DeleteAll removes every parameter for the user and reports how many
// were removed.
func (s *ParameterService) DeleteAll(ctx context.Context, userID string) (int, error) {
	return s.store.DeleteAllLabParameters(ctx, userID)
}

// Stats is the dashboard summary for one user.
type Stats struct {
	TotalParameters int    `json:"totalParameters"`
	TotalReports    int    `json:"totalReports"`
	AbnormalCount   int    `json:"abnormalCount"`
	LastUpdated     string `json:"lastUpdated,omitempty"`
}

// GetStats computes the dashboard summary from the user's stored
// parameters. TotalReports counts distinct source files.
func (s *ParameterService) GetStats(ctx context.Context, userID string) (*Stats, error) {
	params, err := s.store.ListLabParameters(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalParameters: len(params)}
	sources := make(map[string]bool)
	var lastUpdated time.Time
	for _, p := range params {
		sources[p.SourceFile] = true
		if p.Status != "Normal" {
			stats.AbnormalCount++
		}
		if p.ExtractedAt.After(lastUpdated) {
			lastUpdated = p.ExtractedAt
		}
	}
	stats.TotalReports = len(sources)
	if !lastUpdated.IsZero() {
		stats.LastUpdated = lastUpdated.Format(time.RFC3339)
	}
	return stats, nil
}

// TrendPoint is one charted measurement.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trend is the time series for one parameter.
type Trend struct {
	ParameterName string       `json:"parameterName"`
	Unit          string       `json:"unit"`
	NormalRange   string       `json:"normalRange"`
	Points        []TrendPoint `json:"points"`
}

// GetTrends groups the user's parameters by name into chartable time
// series, oldest point first. Values that do not parse as numbers are
// left out of the series.
func (s *ParameterService) GetTrends(ctx context.Context, userID string) ([]*Trend, error) {
	params, err := s.store.ListLabParameters(ctx, userID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Trend)
	for _, p := range params {
		value, ok := parseNumericValue(p.Value)
		if !ok {
			continue
		}
		trend, exists := byName[p.ParameterName]
		if !exists {
			trend = &Trend{
				ParameterName: p.ParameterName,
				Unit:          p.Unit,
				NormalRange:   p.NormalRange,
			}
			byName[p.ParameterName] = trend
		}
		trend.Points = append(trend.Points, TrendPoint{Date: p.TestDate, Value: value})
	}

	trends := make([]*Trend, 0, len(byName))
	for _, trend := range byName {
		sort.Slice(trend.Points, func(i, j int) bool {
			return trend.Points[i].Date < trend.Points[j].Date
		})
		trends = append(trends, trend)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].ParameterName < trends[j].ParameterName
	})
	return trends, nil
}

// parseNumericValue extracts a float from a reported value, tolerating
// thousands separators and comparison prefixes like "<0.01".
func parseNumericValue(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimLeft(cleaned, "<>=~ ")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
