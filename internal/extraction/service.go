package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/labtrack/backend/internal/metrics"
)

// VisionInvoker is the capability the pipeline needs from a vision
// model client. *GeminiClient satisfies it.
type VisionInvoker interface {
	ExtractDocument(ctx context.Context, data []byte, mimeType, prompt string) (*VisionResult, error)
}

// Service runs the extraction pipeline for one uploaded document:
// validate, invoke with fallback, parse, normalize names, stamp
// source metadata.
type Service struct {
	invoker VisionInvoker
	logger  zerolog.Logger
}

// Report is the pipeline output for one document. Parameters carry
// canonical names and are ready for ingestion.
type Report struct {
	Parameters   []Parameter `json:"parameters"`
	DocumentType string      `json:"documentType"`
	LabName      string      `json:"labName"`
	FileName     string      `json:"fileName"`
	ModelUsed    string      `json:"modelUsed"`
	ExtractedAt  time.Time   `json:"extractedAt"`
}

// NewService creates an extraction service.
func NewService(invoker VisionInvoker, logger zerolog.Logger) *Service {
	return &Service{invoker: invoker, logger: logger}
}

// ExtractReport processes one uploaded lab report. Model and parse
// failures abort this document only; callers processing multi-file
// uploads handle each file independently.
func (s *Service) ExtractReport(ctx context.Context, data []byte, filename string) (*Report, error) {
	if err := ValidateDocument(data); err != nil {
		metrics.ExtractionsTotal.WithLabelValues("document_rejected").Inc()
		return nil, err
	}

	mimeType := DetectMimeType(data)

	result, err := s.invoker.ExtractDocument(ctx, data, mimeType, extractionPrompt)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("model_failed").Inc()
		return nil, err
	}

	payload, err := ParseExtraction(result.Text)
	if err != nil {
		metrics.ExtractionsTotal.WithLabelValues("parse_failed").Inc()
		var malformed *MalformedExtractionError
		if errors.As(err, &malformed) {
			s.logger.Error().Str("model", result.ModelUsed).
				Str("raw", malformed.RawText).Msg("unparseable model response")
		}
		return nil, err
	}

	now := time.Now()
	parameters := make([]Parameter, 0, len(payload.Parameters))
	for _, p := range payload.Parameters {
		p.ParameterName = Normalize(p.ParameterName)
		if p.ParameterName == "" {
			// Nothing to chart or deduplicate against without a name.
			s.logger.Warn().Str("file", filename).Msg("dropping parameter with empty name")
			continue
		}
		p.SourceFile = filename
		p.ExtractedAt = now
		parameters = append(parameters, p)
	}

	metrics.ExtractionsTotal.WithLabelValues("ok").Inc()
	metrics.ModelInvocations.WithLabelValues(result.ModelUsed).Inc()
	s.logger.Info().Str("file", filename).Str("model", result.ModelUsed).
		Int("parameters", len(parameters)).Msg("extraction complete")

	return &Report{
		Parameters:   parameters,
		DocumentType: orUnknown(payload.DocumentType),
		LabName:      orUnknown(payload.LabName),
		FileName:     filename,
		ModelUsed:    result.ModelUsed,
		ExtractedAt:  now,
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
