package extraction

import (
	"strings"
	"testing"
)

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"pdf", []byte("%PDF-1.4 rest of file"), "application/pdf"},
		{"png", []byte("\x89PNG\r\n\x1a\n more"), "image/png"},
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"unknown defaults to jpeg", []byte("something else"), "image/jpeg"},
		{"short input", []byte("%P"), "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.data); got != tt.expected {
				t.Errorf("DetectMimeType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidateDocumentEmpty(t *testing.T) {
	err := ValidateDocument(nil)
	if err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, ok := err.(*DocumentError); !ok {
		t.Fatalf("expected DocumentError, got %T", err)
	}
}

func TestValidateDocumentImagePasses(t *testing.T) {
	if err := ValidateDocument([]byte{0xFF, 0xD8, 0xFF, 0xE0}); err != nil {
		t.Errorf("ValidateDocument() error = %v", err)
	}
}

func TestValidateDocumentLargePDFRejected(t *testing.T) {
	// Not a parseable PDF, so the page count comes from the marker scan.
	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")
	for i := 0; i < 25; i++ {
		sb.WriteString("<< /Type /Page >>\n")
	}
	err := ValidateDocument([]byte(sb.String()))
	if err == nil {
		t.Fatal("expected error for oversized PDF")
	}
	if _, ok := err.(*DocumentError); !ok {
		t.Fatalf("expected DocumentError, got %T", err)
	}
}

func TestCountPDFPagesHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{"three pages", "%PDF <</Type /Page>> <</Type /Page>> <</Type /Page>>", 3},
		{"pages node not counted", "%PDF <</Type /Pages>> <</Type /Page>>", 1},
		{"no markers counts as one", "%PDF-1.4 garbage", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countPDFPagesHeuristic([]byte(tt.content)); got != tt.expected {
				t.Errorf("countPDFPagesHeuristic() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCountPDFPagesMalformedNeverPanics(t *testing.T) {
	inputs := [][]byte{
		[]byte("%PDF-1.4 truncated"),
		[]byte("not a pdf at all"),
		{},
	}
	for _, data := range inputs {
		if got := CountPDFPages(data); got < 1 {
			t.Errorf("CountPDFPages(%q) = %d, want >= 1", data, got)
		}
	}
}
