package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeInvoker struct {
	text string
	err  error
}

func (f *fakeInvoker) ExtractDocument(ctx context.Context, data []byte, mimeType, prompt string) (*VisionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &VisionResult{Text: f.text, ModelUsed: "fake-model"}, nil
}

func TestExtractReport(t *testing.T) {
	invoker := &fakeInvoker{text: `{
		"parameters": [
			{"parameterName": "HB", "value": "13.5", "unit": "g/dL", "normalRange": "12-16", "status": "Normal", "testDate": "2024-01-15"},
			{"parameterName": "TLC", "value": "8000", "unit": "cells/mcL", "normalRange": "4000-11000", "status": "Normal", "testDate": "2024-01-15"}
		],
		"documentType": "CBC",
		"labName": "City Lab"
	}`}
	svc := NewService(invoker, zerolog.Nop())

	report, err := svc.ExtractReport(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "report.jpg")
	if err != nil {
		t.Fatalf("ExtractReport() error = %v", err)
	}

	if len(report.Parameters) != 2 {
		t.Fatalf("got %d parameters, want 2", len(report.Parameters))
	}
	if report.Parameters[0].ParameterName != "Hemoglobin" {
		t.Errorf("first parameter = %q, want normalized Hemoglobin", report.Parameters[0].ParameterName)
	}
	if report.Parameters[1].ParameterName != "White Blood Cell Count" {
		t.Errorf("second parameter = %q, want normalized White Blood Cell Count", report.Parameters[1].ParameterName)
	}
	for _, p := range report.Parameters {
		if p.SourceFile != "report.jpg" {
			t.Errorf("SourceFile = %q, want report.jpg", p.SourceFile)
		}
		if p.ExtractedAt.IsZero() {
			t.Error("ExtractedAt not stamped")
		}
	}
	if report.ModelUsed != "fake-model" {
		t.Errorf("ModelUsed = %q", report.ModelUsed)
	}
	if report.DocumentType != "CBC" || report.LabName != "City Lab" {
		t.Errorf("metadata = %q/%q", report.DocumentType, report.LabName)
	}
}

func TestExtractReportDropsUnnamedParameters(t *testing.T) {
	invoker := &fakeInvoker{text: `{"parameters":[
		{"parameterName": "", "value": "1", "status": "Normal", "testDate": "2024-01-15"},
		{"parameterName": "Hemoglobin", "value": "13.5", "status": "Normal", "testDate": "2024-01-15"}
	]}`}
	svc := NewService(invoker, zerolog.Nop())

	report, err := svc.ExtractReport(context.Background(), []byte{0xFF, 0xD8}, "r.jpg")
	if err != nil {
		t.Fatalf("ExtractReport() error = %v", err)
	}
	if len(report.Parameters) != 1 {
		t.Fatalf("got %d parameters, want 1", len(report.Parameters))
	}
}

func TestExtractReportMetadataDefaults(t *testing.T) {
	invoker := &fakeInvoker{text: `{"parameters":[]}`}
	svc := NewService(invoker, zerolog.Nop())

	report, err := svc.ExtractReport(context.Background(), []byte{0xFF, 0xD8}, "r.jpg")
	if err != nil {
		t.Fatalf("ExtractReport() error = %v", err)
	}
	if report.DocumentType != "Unknown" || report.LabName != "Unknown" {
		t.Errorf("metadata defaults = %q/%q, want Unknown/Unknown", report.DocumentType, report.LabName)
	}
}

func TestExtractReportInvokerFailure(t *testing.T) {
	wantErr := &AllModelsFailedError{Attempts: 4, LastErr: errors.New("quota")}
	svc := NewService(&fakeInvoker{err: wantErr}, zerolog.Nop())

	_, err := svc.ExtractReport(context.Background(), []byte{0xFF, 0xD8}, "r.jpg")
	var allFailed *AllModelsFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected AllModelsFailedError, got %v", err)
	}
}

func TestExtractReportMalformedResponse(t *testing.T) {
	svc := NewService(&fakeInvoker{text: "sorry, cannot help"}, zerolog.Nop())

	_, err := svc.ExtractReport(context.Background(), []byte{0xFF, 0xD8}, "r.jpg")
	var malformed *MalformedExtractionError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedExtractionError, got %v", err)
	}
}

func TestExtractReportRejectsEmptyDocument(t *testing.T) {
	svc := NewService(&fakeInvoker{text: "{}"}, zerolog.Nop())

	_, err := svc.ExtractReport(context.Background(), nil, "empty.jpg")
	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected DocumentError, got %v", err)
	}
}
