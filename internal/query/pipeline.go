package query

import (
	"slices"

	"patientdir/internal/patient/models"
)

// Page is one slice of the filtered, sorted record sequence.
type Page struct {
	Items      []models.Patient
	Number     int
	Size       int
	Total      int
	TotalPages int
	// Start is the offset of Items[0] in the full sequence.
	Start int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Filter keeps the records that match, preserving their relative order.
// A nil predicate keeps everything.
func Filter(records []models.Patient, match Predicate) []models.Patient {
	out := make([]models.Patient, 0, len(records))
	for _, r := range records {
		if match == nil || match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy. A nil comparator returns a plain copy.
func Sort(records []models.Patient, compare Comparator) []models.Patient {
	out := slices.Clone(records)
	if compare != nil {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// TotalPages is ceil(count / size); zero when there is nothing to show.
func TotalPages(count, size int) int {
	if count <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// ClampPage moves page into [1, totalPages]. With zero pages the answer is
// page 1 ("page 1 of 0").
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// VisiblePage runs filter, stable sort, page clamping and slicing in that
// order. A non-positive pageSize puts every match on a single page.
func VisiblePage(records []models.Patient, match Predicate, compare Comparator, pageSize, pageNumber int) Page {
	sorted := Sort(Filter(records, match), compare)
	total := len(sorted)
	if pageSize <= 0 {
		pageSize = max(total, 1)
	}
	pages := TotalPages(total, pageSize)
	number := ClampPage(pageNumber, pages)

	start := min((number-1)*pageSize, total)
	end := min(start+pageSize, total)

	return Page{
		Items:      sorted[start:end],
		Number:     number,
		Size:       pageSize,
		Total:      total,
		TotalPages: pages,
		Start:      start,
	}
}
