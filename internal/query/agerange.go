package query

// AgeRange is a named closed age interval. Max < 0 means unbounded above.
type AgeRange struct {
	Label string
	Min   int
	Max   int
}

// Contains reports whether age falls in the closed interval.
func (r AgeRange) Contains(age int) bool {
	if age < r.Min {
		return false
	}
	return r.Max < 0 || age <= r.Max
}

// AgeRanges lists the buckets offered for age filtering, in display order.
var AgeRanges = []AgeRange{
	{Label: "0-17", Min: 0, Max: 17},
	{Label: "18-30", Min: 18, Max: 30},
	{Label: "31-50", Min: 31, Max: 50},
	{Label: "51-70", Min: 51, Max: 70},
	{Label: "71+", Min: 71, Max: -1},
}

// LookupAgeRange finds a bucket by label. Unknown labels report false.
func LookupAgeRange(label string) (AgeRange, bool) {
	for _, r := range AgeRanges {
		if r.Label == label {
			return r, true
		}
	}
	return AgeRange{}, false
}
