package extraction

import "testing"

func TestNormalizeSynonyms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"abbreviation", "HB", "Hemoglobin"},
		{"variant with digit", "Hb1", "Hemoglobin"},
		{"percent variant", "HB%", "Hemoglobin"},
		{"british spelling", "Haemoglobin", "Hemoglobin"},
		{"already canonical", "Hemoglobin", "Hemoglobin"},
		{"rbc", "RBC", "Red Blood Cell Count"},
		{"tlc maps to wbc", "TLC", "White Blood Cell Count"},
		{"platelets", "PLT", "Platelet Count"},
		{"pcv", "PCV", "Hematocrit"},
		{"liver enzyme", "SGPT", "Alanine Aminotransferase (ALT)"},
		{"creatinine variant", "S.Creatinine", "Serum Creatinine"},
		{"thyroid", "TSH", "Thyroid Stimulating Hormone (TSH)"},
		{"hba1c", "HbA1c", "Glycated Hemoglobin (HbA1c)"},
		{"embedded synonym", "Serum TSH Level", "Thyroid Stimulating Hormone (TSH)"},
		{"surrounding whitespace", "  esr  ", "Erythrocyte Sedimentation Rate"},
		{"mixed case", "hAeMoGlObIn", "Hemoglobin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeUnknownNames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unlisted marker title cased", "some unlisted marker", "Some Unlisted Marker"},
		{"shouty unlisted marker", "SOME UNLISTED MARKER", "Some Unlisted Marker"},
		{"single word", "lipase", "Lipase"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Single-letter table keys must not substring-match inside unrelated
// words; "Marker" contains "k" but is not Potassium.
func TestNormalizeSingleLetterKeys(t *testing.T) {
	if got := Normalize("K"); got != "Potassium" {
		t.Errorf("Normalize(%q) = %q, want %q", "K", got, "Potassium")
	}
	if got := Normalize("Some Unlisted Marker"); got != "Some Unlisted Marker" {
		t.Errorf("Normalize(%q) = %q, want %q", "Some Unlisted Marker", got, "Some Unlisted Marker")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	inputs := []string{"HB", "tlc", "Serum TSH Level", "some unlisted marker"}
	for _, input := range inputs {
		first := Normalize(input)
		for i := 0; i < 10; i++ {
			if got := Normalize(input); got != first {
				t.Fatalf("Normalize(%q) not deterministic: %q then %q", input, first, got)
			}
		}
	}
}
