package query

import (
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"

	dErrors "patientdir/pkg/domain-errors"
)

// View selects the page layout.
type View string

const (
	ViewTable View = "table"
	ViewCard  View = "card"
)

const (
	DefaultColumns = 2
	MaxColumns     = 4
	MaxPageSize    = 100
)

// PageSizes are the sizes each view offers in its page-size control.
var PageSizes = map[View][]int{
	ViewTable: {10, 20, 50},
	ViewCard:  {6, 12, 24},
}

// DefaultPageSize is applied when a view is entered with a size it does not
// offer.
var DefaultPageSize = map[View]int{
	ViewTable: 20,
	ViewCard:  12,
}

// State is the whole of the directory's UI state. It is a value: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	Search    string
	Issues    []string
	Locations []string
	AgeRanges []string
	Sort      SortKeys
	Page      int
	PageSize  int
	View      View
	Columns   int
}

// DefaultState is the state of a fresh session.
func DefaultState() State {
	return State{
		Page:     1,
		PageSize: DefaultPageSize[ViewTable],
		View:     ViewTable,
		Columns:  DefaultColumns,
	}
}

// Criteria extracts the filter part of the state.
func (s State) Criteria() Criteria {
	return Criteria{
		Search:    s.Search,
		Issues:    s.Issues,
		Locations: s.Locations,
		AgeRanges: s.AgeRanges,
	}
}

// ActiveFilters counts selected issues, locations and age ranges.
func (s State) ActiveFilters() int {
	return len(s.Issues) + len(s.Locations) + len(s.AgeRanges)
}

func (s State) firstPage() State {
	s.Page = 1
	return s
}

// WithSearch replaces the search text.
func (s State) WithSearch(text string) State {
	s.Search = text
	return s.firstPage()
}

// ToggleIssue selects or deselects an issue.
func (s State) ToggleIssue(issue string) State {
	s.Issues = toggle(s.Issues, issue)
	return s.firstPage()
}

// ToggleLocation selects or deselects a location.
func (s State) ToggleLocation(location string) State {
	s.Locations = toggle(s.Locations, location)
	return s.firstPage()
}

// ToggleAgeRange selects or deselects an age bucket.
func (s State) ToggleAgeRange(label string) State {
	s.AgeRanges = toggle(s.AgeRanges, label)
	return s.firstPage()
}

// ClearFilters drops every categorical filter; search text stays.
func (s State) ClearFilters() State {
	s.Issues, s.Locations, s.AgeRanges = nil, nil, nil
	return s.firstPage()
}

// AddSort appends a sort key; duplicates are rejected.
func (s State) AddSort(f Field, d Direction) (State, error) {
	keys, err := s.Sort.Add(f, d)
	if err != nil {
		return s, err
	}
	s.Sort = keys
	return s.firstPage(), nil
}

// RemoveSort drops a sort key.
func (s State) RemoveSort(f Field) State {
	s.Sort = s.Sort.Remove(f)
	return s.firstPage()
}

// ToggleSortDirection flips one key's direction.
func (s State) ToggleSortDirection(f Field) State {
	s.Sort = s.Sort.Toggle(f)
	return s.firstPage()
}

// WithPageSize changes the page size.
func (s State) WithPageSize(size int) State {
	s.PageSize = size
	return s.firstPage()
}

// WithView switches layout. A page size the new view does not offer is
// replaced by that view's default.
func (s State) WithView(v View) State {
	s.View = v
	if !slices.Contains(PageSizes[v], s.PageSize) {
		s.PageSize = DefaultPageSize[v]
	}
	return s.firstPage()
}

// WithPage moves to a page. Clamping happens in the pipeline.
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

// WithColumns sets the card grid column count for small screens.
func (s State) WithColumns(n int) State {
	s.Columns = n
	return s
}

func toggle(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}

// Query string keys.
const (
	ParamSearch   = "search"
	ParamIssue    = "issue"
	ParamLocation = "location"
	ParamAge      = "age"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamView     = "view"
	ParamColumns  = "cols"
)

// ParseState builds a State from query values, starting from DefaultState.
// Invalid values produce a validation error; age labels are not checked
// because unknown buckets simply never match.
func ParseState(v url.Values) (State, error) {
	s := DefaultState()
	s.Search = v.Get(ParamSearch)
	s.Issues = nonEmpty(v[ParamIssue])
	s.Locations = nonEmpty(v[ParamLocation])
	s.AgeRanges = nonEmpty(v[ParamAge])

	if raw := strings.Join(v[ParamSort], ","); raw != "" {
		keys, err := ParseSortKeys(raw)
		if err != nil {
			return s, dErrors.Wrap(err, dErrors.CodeValidation, "invalid sort")
		}
		s.Sort = keys
	}

	if raw := v.Get(ParamView); raw != "" {
		view := View(raw)
		if _, ok := PageSizes[view]; !ok {
			return s, dErrors.New(dErrors.CodeValidation, "view must be table or card")
		}
		s.View = view
		s.PageSize = DefaultPageSize[view]
	}

	var err error
	if s.Page, err = positiveInt(v, ParamPage, s.Page, 0); err != nil {
		return s, err
	}
	if s.PageSize, err = positiveInt(v, ParamPageSize, s.PageSize, MaxPageSize); err != nil {
		return s, err
	}
	if s.Columns, err = positiveInt(v, ParamColumns, s.Columns, MaxColumns); err != nil {
		return s, err
	}
	return s, nil
}

var errNotPositive = errors.New("must be a positive integer")

func positiveInt(v url.Values, key string, fallback, limit int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, dErrors.Wrap(errNotPositive, dErrors.CodeValidation, key)
	}
	if limit > 0 && n > limit {
		return 0, dErrors.New(dErrors.CodeValidation, key+" must be at most "+strconv.Itoa(limit))
	}
	return n, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Values encodes the state, leaving out anything equal to its default.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	for _, i := range s.Issues {
		v.Add(ParamIssue, i)
	}
	for _, l := range s.Locations {
		v.Add(ParamLocation, l)
	}
	for _, a := range s.AgeRanges {
		v.Add(ParamAge, a)
	}
	if len(s.Sort) > 0 {
		v.Set(ParamSort, s.Sort.String())
	}
	if s.View != "" && s.View != ViewTable {
		v.Set(ParamView, string(s.View))
	}
	if s.PageSize != DefaultPageSize[s.View] {
		v.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.Columns != DefaultColumns && s.Columns > 0 {
		v.Set(ParamColumns, strconv.Itoa(s.Columns))
	}
	return v
}

// Encode is Values().Encode().
func (s State) Encode() string {
	return s.Values().Encode()
}
