package query

import (
	"strconv"
	"strings"

	"patientdir/internal/patient/models"
)

// Criteria is the search and filter input of a query. Empty sets are
// inactive; a record must pass every active category and may match any
// member within one.
type Criteria struct {
	Search    string
	Issues    []string
	Locations []string
	AgeRanges []string
}

// Predicate decides whether a record is visible.
type Predicate func(models.Patient) bool

// NewPredicate composes the criteria into a single predicate. Unknown age
// bucket labels are kept but can never match.
func NewPredicate(c Criteria) Predicate {
	needle := fold(c.Search)
	issues := toSet(c.Issues)
	locations := toSet(c.Locations)
	ranges := make([]AgeRange, 0, len(c.AgeRanges))
	for _, label := range c.AgeRanges {
		if r, ok := LookupAgeRange(label); ok {
			ranges = append(ranges, r)
		}
	}
	ageActive := len(c.AgeRanges) > 0

	return func(p models.Patient) bool {
		if needle != "" && !strings.Contains(fold(searchText(p)), needle) {
			return false
		}
		if len(issues) > 0 {
			if _, ok := issues[p.MedicalIssue]; !ok {
				return false
			}
		}
		if ageActive && !anyContains(ranges, p.AgeOrZero()) {
			return false
		}
		if len(locations) > 0 {
			if _, ok := locations[p.Location()]; !ok {
				return false
			}
		}
		return true
	}
}

// searchText is what free-text search runs against: name, first email, id.
func searchText(p models.Patient) string {
	return p.Name + " " + p.Email() + " " + strconv.Itoa(p.ID)
}

func anyContains(ranges []AgeRange, age int) bool {
	for _, r := range ranges {
		if r.Contains(age) {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
