package extraction

import (
	"encoding/json"
	"strings"
	"time"
)

// Parameter is one lab result as it moves through the pipeline. Before
// ingestion the name has been normalized and SourceFile/ExtractedAt
// stamped; persistence assigns the ID.
type Parameter struct {
	ParameterName string    `json:"parameterName"`
	Value         string    `json:"value"`
	Unit          string    `json:"unit"`
	NormalRange   string    `json:"normalRange"`
	Status        string    `json:"status"`
	TestDate      string    `json:"testDate"`
	SourceFile    string    `json:"sourceFile,omitempty"`
	ExtractedAt   time.Time `json:"extractedAt,omitempty"`
}

// ExtractionPayload is the structured form of a model response.
type ExtractionPayload struct {
	Parameters   []Parameter `json:"parameters"`
	DocumentType string      `json:"documentType,omitempty"`
	LabName      string      `json:"labName,omitempty"`
	PatientInfo  string      `json:"patientInfo,omitempty"`
}

// ParseExtraction turns raw model text into an ExtractionPayload,
// tolerating markdown code fences around the JSON. It returns
// MalformedExtractionError when the text is not valid JSON or lacks a
// parameters array. Individual parameter fields are not validated here;
// ingestion rejects malformed records one by one.
func ParseExtraction(rawText string) (*ExtractionPayload, error) {
	cleaned := stripCodeFence(rawText)

	var payload ExtractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &MalformedExtractionError{RawText: rawText, Cause: err}
	}

	// An empty parameters array is a valid (if useless) extraction;
	// an absent one means the model ignored the schema.
	if payload.Parameters == nil {
		return nil, &MalformedExtractionError{RawText: rawText}
	}

	return &payload, nil
}

// stripCodeFence removes a leading ```json or ``` marker and a trailing
// ``` marker, if present.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}
