package medtext

import (
	"fmt"

	"github.com/mediscan/ai-service/internal/core/domain"
)

// RecognizeFunc supplies the optional generic-entity pass. A nil func
// leaves the general category empty.
type RecognizeFunc func(text string) ([]domain.GenericEntity, error)

// Aggregate runs every extractor over the same text and merges the
// results into one EntityBag. Categories fail open: a failing extractor
// contributes an empty slice plus an error marker on the bag while the
// remaining categories still populate.
func Aggregate(text string, recognize RecognizeFunc) domain.EntityBag {
	bag := domain.NewEntityBag()

	scans := []struct {
		category string
		run      func()
	}{
		{"vitals", func() { bag.Vitals = ExtractVitals(text) }},
		{"medications", func() { bag.Medications = ExtractMedications(text) }},
		{"labResults", func() { bag.LabResults = ExtractLabResults(text) }},
		{"diagnoses", func() { bag.Diagnoses = ExtractDiagnoses(text) }},
		{"procedures", func() { bag.Procedures = ExtractProcedures(text) }},
	}
	for _, s := range scans {
		if marker := safeScan(s.category, s.run); marker != "" {
			bag.Errors = append(bag.Errors, marker)
		}
	}

	if recognize != nil {
		entities, err := recognize(text)
		switch {
		case err != nil:
			bag.Errors = append(bag.Errors, fmt.Sprintf("generalEntities: %v", err))
		case entities != nil:
			bag.GeneralEntities = entities
		}
	}

	return bag
}

// safeScan confines a panicking extractor to its own category.
func safeScan(category string, run func()) (marker string) {
	defer func() {
		if r := recover(); r != nil {
			marker = fmt.Sprintf("%s: %v", category, r)
		}
	}()
	run()
	return ""
}
