// Package extraction implements the lab-report extraction pipeline:
// vision-model invocation with fallback, response parsing, and
// parameter name normalization.
package extraction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type synonym struct {
	key       string
	canonical string
}

// parameterSynonyms maps lowercase name variants reported by different
// lab vendors to one canonical medical name.
//
// Order matters: when no exact match exists, Normalize scans this slice
// front to back and returns the first key contained in the input, so a
// variant listed earlier shadows any later key it overlaps with. Keep
// new entries grouped with their parameter and do not reorder.
var parameterSynonyms = []synonym{
	// Hemoglobin
	{"hb", "Hemoglobin"},
	{"hb%", "Hemoglobin"},
	{"hgb", "Hemoglobin"},
	{"hb1", "Hemoglobin"},
	{"haemoglobin", "Hemoglobin"},
	{"hemoglobin", "Hemoglobin"},

	// Red blood cells
	{"rbc", "Red Blood Cell Count"},
	{"rbc count", "Red Blood Cell Count"},
	{"red blood cells", "Red Blood Cell Count"},
	{"erythrocytes", "Red Blood Cell Count"},

	// White blood cells
	{"wbc", "White Blood Cell Count"},
	{"wbc count", "White Blood Cell Count"},
	{"white blood cells", "White Blood Cell Count"},
	{"leucocytes", "White Blood Cell Count"},
	{"leukocytes", "White Blood Cell Count"},
	{"tlc", "White Blood Cell Count"},
	{"total leucocyte count", "White Blood Cell Count"},

	// Platelets
	{"plt", "Platelet Count"},
	{"platelets", "Platelet Count"},
	{"platelet count", "Platelet Count"},
	{"thrombocytes", "Platelet Count"},

	// Hematocrit
	{"hct", "Hematocrit"},
	{"pcv", "Hematocrit"},
	{"packed cell volume", "Hematocrit"},
	{"hematocrit", "Hematocrit"},
	{"haematocrit", "Hematocrit"},

	// Red cell indices
	{"mcv", "Mean Corpuscular Volume"},
	{"mean corpuscular volume", "Mean Corpuscular Volume"},
	{"mch", "Mean Corpuscular Hemoglobin"},
	{"mean corpuscular hemoglobin", "Mean Corpuscular Hemoglobin"},
	{"mchc", "Mean Corpuscular Hemoglobin Concentration"},
	{"mean corpuscular hemoglobin concentration", "Mean Corpuscular Hemoglobin Concentration"},
	{"rdw", "Red Cell Distribution Width"},
	{"rdw-cv", "Red Cell Distribution Width"},
	{"red cell distribution width", "Red Cell Distribution Width"},

	// ESR
	{"esr", "Erythrocyte Sedimentation Rate"},
	{"erythrocyte sedimentation rate", "Erythrocyte Sedimentation Rate"},

	// Blood sugar
	{"fbs", "Fasting Blood Sugar"},
	{"fasting glucose", "Fasting Blood Sugar"},
	{"fasting blood sugar", "Fasting Blood Sugar"},
	{"fasting blood glucose", "Fasting Blood Sugar"},
	{"ppbs", "Post Prandial Blood Sugar"},
	{"pp glucose", "Post Prandial Blood Sugar"},
	{"post prandial blood sugar", "Post Prandial Blood Sugar"},
	{"rbs", "Random Blood Sugar"},
	{"random glucose", "Random Blood Sugar"},
	{"random blood sugar", "Random Blood Sugar"},
	{"blood glucose", "Blood Glucose"},
	{"glucose", "Blood Glucose"},

	// HbA1c
	{"hba1c", "Glycated Hemoglobin (HbA1c)"},
	{"a1c", "Glycated Hemoglobin (HbA1c)"},
	{"glycated hemoglobin", "Glycated Hemoglobin (HbA1c)"},
	{"glycosylated hemoglobin", "Glycated Hemoglobin (HbA1c)"},

	// Lipid profile
	{"tc", "Total Cholesterol"},
	{"total cholesterol", "Total Cholesterol"},
	{"cholesterol", "Total Cholesterol"},
	{"hdl", "HDL Cholesterol"},
	{"hdl-c", "HDL Cholesterol"},
	{"hdl cholesterol", "HDL Cholesterol"},
	{"ldl", "LDL Cholesterol"},
	{"ldl-c", "LDL Cholesterol"},
	{"ldl cholesterol", "LDL Cholesterol"},
	{"vldl", "VLDL Cholesterol"},
	{"vldl-c", "VLDL Cholesterol"},
	{"tg", "Triglycerides"},
	{"triglycerides", "Triglycerides"},

	// Liver function
	{"sgpt", "Alanine Aminotransferase (ALT)"},
	{"alt", "Alanine Aminotransferase (ALT)"},
	{"sgot", "Aspartate Aminotransferase (AST)"},
	{"ast", "Aspartate Aminotransferase (AST)"},
	{"alp", "Alkaline Phosphatase"},
	{"alkaline phosphatase", "Alkaline Phosphatase"},
	{"ggt", "Gamma-Glutamyl Transferase (GGT)"},
	{"gamma gt", "Gamma-Glutamyl Transferase (GGT)"},
	{"bilirubin", "Total Bilirubin"},
	{"total bilirubin", "Total Bilirubin"},
	{"direct bilirubin", "Direct Bilirubin"},
	{"indirect bilirubin", "Indirect Bilirubin"},
	{"albumin", "Albumin"},
	{"globulin", "Globulin"},
	{"total protein", "Total Protein"},
	{"a/g ratio", "Albumin/Globulin Ratio"},
	{"ag ratio", "Albumin/Globulin Ratio"},

	// Kidney function
	{"bun", "Blood Urea Nitrogen"},
	{"blood urea nitrogen", "Blood Urea Nitrogen"},
	{"urea", "Blood Urea"},
	{"blood urea", "Blood Urea"},
	{"creatinine", "Serum Creatinine"},
	{"serum creatinine", "Serum Creatinine"},
	{"sr. creatinine", "Serum Creatinine"},
	{"s. creatinine", "Serum Creatinine"},
	{"uric acid", "Uric Acid"},
	{"egfr", "Estimated GFR"},
	{"gfr", "Estimated GFR"},

	// Electrolytes
	{"na", "Sodium"},
	{"sodium", "Sodium"},
	{"k", "Potassium"},
	{"potassium", "Potassium"},
	{"cl", "Chloride"},
	{"chloride", "Chloride"},
	{"ca", "Calcium"},
	{"calcium", "Calcium"},
	{"mg", "Magnesium"},
	{"magnesium", "Magnesium"},
	{"phosphorus", "Phosphorus"},
	{"phosphate", "Phosphorus"},

	// Thyroid function
	{"tsh", "Thyroid Stimulating Hormone (TSH)"},
	{"thyroid stimulating hormone", "Thyroid Stimulating Hormone (TSH)"},
	{"t3", "Triiodothyronine (T3)"},
	{"total t3", "Triiodothyronine (T3)"},
	{"t4", "Thyroxine (T4)"},
	{"total t4", "Thyroxine (T4)"},
	{"ft3", "Free T3"},
	{"free t3", "Free T3"},
	{"ft4", "Free T4"},
	{"free t4", "Free T4"},

	// Vitamins
	{"vit d", "Vitamin D"},
	{"vitamin d", "Vitamin D"},
	{"25-oh vitamin d", "Vitamin D"},
	{"vit b12", "Vitamin B12"},
	{"vitamin b12", "Vitamin B12"},
	{"b12", "Vitamin B12"},
	{"folate", "Folate"},
	{"folic acid", "Folate"},

	// Iron studies
	{"iron", "Serum Iron"},
	{"serum iron", "Serum Iron"},
	{"tibc", "Total Iron Binding Capacity"},
	{"ferritin", "Ferritin"},
	{"serum ferritin", "Ferritin"},

	// Differential count
	{"neutrophils", "Neutrophils"},
	{"lymphocytes", "Lymphocytes"},
	{"monocytes", "Monocytes"},
	{"eosinophils", "Eosinophils"},
	{"basophils", "Basophils"},

	// Others
	{"crp", "C-Reactive Protein"},
	{"c-reactive protein", "C-Reactive Protein"},
	{"hs-crp", "High-Sensitivity CRP"},
	{"psa", "Prostate Specific Antigen"},
}

// exactNames is the O(1) lookup derived from parameterSynonyms.
var exactNames = func() map[string]string {
	m := make(map[string]string, len(parameterSynonyms))
	for _, s := range parameterSynonyms {
		if _, ok := m[s.key]; !ok {
			m[s.key] = s.canonical
		}
	}
	return m
}()

// Normalize converts a raw parameter name into its canonical medical
// name so the same test reported under different vendor abbreviations
// collapses to a single series.
//
// Lookup order: exact match against the synonym table, then a
// first-match substring scan in table order, then a generic title-case
// fallback. Pure and deterministic; never fails, though an input that
// is empty after trimming yields an empty string.
func Normalize(rawName string) string {
	lower := strings.ToLower(strings.TrimSpace(rawName))

	if canonical, ok := exactNames[lower]; ok {
		return canonical
	}

	for _, s := range parameterSynonyms {
		if lower == s.key {
			return s.canonical
		}
		// Single-letter keys ("k") match exactly only; as substrings
		// they would hit inside unrelated words like "Marker".
		if len(s.key) > 1 && strings.Contains(lower, s.key) {
			return s.canonical
		}
	}

	return titleCase(lower)
}

// titleCase uppercases the first letter of each whitespace-separated
// word and lowercases the rest, rejoining with single spaces.
func titleCase(s string) string {
	caser := cases.Title(language.English)
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = caser.String(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}
