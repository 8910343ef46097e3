package medtext

import "testing"

func TestExtractLabResults(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		test  string
		value string
		unit  string
	}{
		// The test name is the first token of the raw match, so a colon
		// directly after the test word is kept.
		{"glucose with colon", "Glucose: 120 mg/dl", "glucose:", "120", "mg/dl"},
		{"glucose bare", "glucose 98", "glucose", "98", "unknown"},
		{"blood sugar", "blood sugar 140 mmol/l", "blood", "140", "mmol/l"},
		{"cholesterol", "Cholesterol 210 mg/dl", "cholesterol", "210", "mg/dl"},
		{"hemoglobin", "Hemoglobin 14.2 g/dl", "hemoglobin", "14.2", "g/dl"},
		{"wbc", "WBC 7.5 k/ul", "wbc", "7.5", "k/ul"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			labs := ExtractLabResults(tc.text)
			if len(labs) != 1 {
				t.Fatalf("expected 1 lab result, got %d", len(labs))
			}
			l := labs[0]
			if l.Test != tc.test || l.Value != tc.value || l.Unit != tc.unit {
				t.Errorf("expected %s=%s %s, got %s=%s %s",
					tc.test, tc.value, tc.unit, l.Test, l.Value, l.Unit)
			}
			if l.Confidence != 0.8 {
				t.Errorf("expected confidence 0.8, got %v", l.Confidence)
			}
		})
	}
}

func TestExtractLabResultsMultiple(t *testing.T) {
	text := "Labs: glucose 110 mg/dl, cholesterol 195 mg/dl, hemoglobin 13.8 g/dl"
	labs := ExtractLabResults(text)
	if len(labs) != 3 {
		t.Fatalf("expected 3 lab results, got %d", len(labs))
	}
	// Results group by pattern order: glucose, cholesterol, hemoglobin, wbc.
	if labs[0].Test != "glucose" || labs[1].Test != "cholesterol" || labs[2].Test != "hemoglobin" {
		t.Fatalf("unexpected order: %s, %s, %s", labs[0].Test, labs[1].Test, labs[2].Test)
	}
}

func TestExtractLabResultsNone(t *testing.T) {
	labs := ExtractLabResults("no laboratory values mentioned")
	if labs == nil || len(labs) != 0 {
		t.Fatalf("expected empty slice, got %v", labs)
	}
}
