package query

import (
	"slices"
	"strings"

	"patientdir/internal/patient/models"
	pstrings "patientdir/pkg/platform/strings"
)

// OptionSet lists the values a filter control can offer.
type OptionSet struct {
	Issues    []string `json:"issues"`
	Locations []string `json:"locations"`
	AgeRanges []string `json:"age_ranges"`
}

// Options projects the record set onto its distinct non-empty issues and
// locations. Values are sorted case-insensitively so output is stable.
func Options(records []models.Patient) OptionSet {
	issues := make([]string, 0, len(records))
	locations := make([]string, 0, len(records))
	for _, r := range records {
		issues = append(issues, r.MedicalIssue)
		locations = append(locations, r.Location())
	}

	labels := make([]string, len(AgeRanges))
	for i, r := range AgeRanges {
		labels[i] = r.Label
	}

	return OptionSet{
		Issues:    sortFolded(pstrings.DedupeNonEmpty(issues)),
		Locations: sortFolded(pstrings.DedupeNonEmpty(locations)),
		AgeRanges: labels,
	}
}

func sortFolded(values []string) []string {
	slices.SortStableFunc(values, func(a, b string) int {
		if c := strings.Compare(fold(a), fold(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return values
}
