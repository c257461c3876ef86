package extraction

// extractionPrompt asks the vision model for every lab parameter in a
// report, using full canonical medical names and a strict JSON shape.
// The normalizer still runs over each returned name; the guidelines
// here just raise the hit rate for names already in canonical form.
const extractionPrompt = `You are a medical document analyzer specializing in laboratory reports. Analyze this medical lab report and extract ALL lab parameters.

CRITICAL: Use FULL STANDARD MEDICAL NAMES for all parameters. DO NOT use abbreviations or shortcuts.

Parameter Name Guidelines - ALWAYS use these EXACT full names:
- Use "Hemoglobin" (NOT Hb, HB%, HGB, Hb1)
- Use "Red Blood Cell Count" (NOT RBC)
- Use "White Blood Cell Count" (NOT WBC, TLC)
- Use "Platelet Count" (NOT PLT)
- Use "Hematocrit" (NOT HCT, PCV)
- Use "Mean Corpuscular Volume" (NOT MCV)
- Use "Mean Corpuscular Hemoglobin" (NOT MCH)
- Use "Mean Corpuscular Hemoglobin Concentration" (NOT MCHC)
- Use "Erythrocyte Sedimentation Rate" (NOT ESR)
- Use "Fasting Blood Sugar" (NOT FBS)
- Use "Total Cholesterol" (NOT TC)
- Use "HDL Cholesterol" (NOT HDL, HDL-C)
- Use "LDL Cholesterol" (NOT LDL, LDL-C)
- Use "Triglycerides" (NOT TG)
- Use "Alanine Aminotransferase (ALT)" (NOT SGPT, ALT)
- Use "Aspartate Aminotransferase (AST)" (NOT SGOT, AST)
- Use "Serum Creatinine" (NOT Creatinine, S.Creatinine)
- Use "Blood Urea Nitrogen" (NOT BUN)
- Use "Thyroid Stimulating Hormone (TSH)" (NOT TSH)
- Use "Glycated Hemoglobin (HbA1c)" (NOT HbA1c, A1C)

For EACH parameter found, extract:
- parameterName: The FULL STANDARD MEDICAL NAME (as per guidelines above)
- value: The numeric or text value
- unit: The unit of measurement (g/dL, mg/dL, cells/mcL, etc.)
- normalRange: The reference/normal range from the report
- status: "Low", "Normal", or "High" based on the reference range
- testDate: Date in YYYY-MM-DD format (use today if not visible)

Return ONLY valid JSON (no markdown):
{
  "parameters": [
    {
      "parameterName": "string (FULL MEDICAL NAME)",
      "value": "string",
      "unit": "string",
      "normalRange": "string",
      "status": "Low" | "Normal" | "High",
      "testDate": "YYYY-MM-DD"
    }
  ],
  "documentType": "string",
  "labName": "string (if visible)",
  "patientInfo": "string (if visible)"
}`
