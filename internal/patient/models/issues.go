package models

import "math/rand/v2"

// Issues is the fixed vocabulary used to backfill records that arrive
// without a medical issue.
var Issues = [10]string{
	"headache", "fever", "cough", "nausea", "fatigue", "dizziness",
	"back pain", "chest pain", "shortness of breath", "anxiety",
}

// IntN picks a uniform index in [0, n).
type IntN func(n int) int

// BackfillIssues returns a copy of records where every missing medical issue
// is replaced by an independent uniform pick from Issues. A nil pick uses
// math/rand/v2.
func BackfillIssues(records []Patient, pick IntN) []Patient {
	if pick == nil {
		pick = rand.IntN
	}
	out := make([]Patient, len(records))
	for i, r := range records {
		if r.MedicalIssue == "" {
			r.MedicalIssue = Issues[pick(len(Issues))]
		}
		out[i] = r
	}
	return out
}
