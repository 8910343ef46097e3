package medtext

import "testing"

func TestExtractMedicationsTriggerPattern(t *testing.T) {
	meds := ExtractMedications("prescribed Lisinopril 10 mg daily")
	if len(meds) != 2 {
		t.Fatalf("expected 2 medications, got %d", len(meds))
	}
	// The trigger pattern matches first, the bare name+dose pattern
	// independently re-matches the same span with a wider name.
	if meds[0].Name != "Lisinopril" {
		t.Errorf("expected Lisinopril, got %q", meds[0].Name)
	}
	if meds[0].Dosage != "10" || meds[0].Unit != "mg" {
		t.Errorf("expected 10 mg, got %s %s", meds[0].Dosage, meds[0].Unit)
	}
	if meds[1].Name != "prescribed Lisinopril" {
		t.Errorf("expected duplicate match with name %q, got %q", "prescribed Lisinopril", meds[1].Name)
	}
	for _, m := range meds {
		if m.Confidence != 0.75 {
			t.Errorf("expected confidence 0.75, got %v", m.Confidence)
		}
	}
}

func TestExtractMedicationsBareNamePattern(t *testing.T) {
	meds := ExtractMedications("Metformin 500 mg twice daily")
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(meds))
	}
	m := meds[0]
	if m.Name != "Metformin" || m.Dosage != "500" || m.Unit != "mg" {
		t.Fatalf("expected Metformin 500 mg, got %s %s %s", m.Name, m.Dosage, m.Unit)
	}
}

func TestExtractMedicationsUnits(t *testing.T) {
	cases := []struct {
		text string
		unit string
	}{
		{"Amoxicillin 250 mg", "mg"},
		{"Insulin 10 ml", "ml"},
		{"Levothyroxine 75 mcg", "mcg"},
	}
	for _, tc := range cases {
		meds := ExtractMedications(tc.text)
		if len(meds) != 1 {
			t.Fatalf("%q: expected 1 medication, got %d", tc.text, len(meds))
		}
		if meds[0].Unit != tc.unit {
			t.Errorf("%q: expected unit %s, got %s", tc.text, tc.unit, meds[0].Unit)
		}
	}
}

func TestExtractMedicationsDecimalDosage(t *testing.T) {
	meds := ExtractMedications("Warfarin 2.5 mg")
	if len(meds) != 1 {
		t.Fatalf("expected 1 medication, got %d", len(meds))
	}
	if meds[0].Dosage != "2.5" {
		t.Fatalf("expected dosage 2.5, got %s", meds[0].Dosage)
	}
}

func TestExtractMedicationsNoDose(t *testing.T) {
	meds := ExtractMedications("taking Aspirin as needed")
	if len(meds) != 0 {
		t.Fatalf("expected no medications without a dose, got %d", len(meds))
	}
}
