package view

import (
	"html/template"
	"maps"
	"slices"
	"strconv"

	"patientdir/internal/patient/models"
	"patientdir/internal/patient/service"
	"patientdir/internal/query"
)

// Value is one displayed scalar. Missing values render as the N/A marker.
type Value struct {
	Text    string
	Missing bool
}

func value(s string) Value {
	return Value{Text: s, Missing: s == ""}
}

// Photo is either an allowed image with its avatar fallback, or the avatar
// alone.
type Photo struct {
	URL      string
	ShowImg  bool
	Alt      string
	Initials string
	Style    template.CSS
}

// Record is one patient prepared for display.
type Record struct {
	ID      Value
	Name    Value
	Age     Value
	Issue   Value
	Address Value
	Phone   Value
	Email   Value
	Photo   Photo
}

// Hidden is a form field carrying state that a form does not edit.
type Hidden struct {
	Name  string
	Value string
}

// Link is a navigational control.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Chip is an active filter with a link that removes it.
type Chip struct {
	Kind       string
	Label      string
	RemoveHref string
}

// Choice is one checkbox in a filter group.
type Choice struct {
	Value   string
	Checked bool
}

// Group is a set of filter checkboxes sharing a query parameter.
type Group struct {
	Title   string
	Param   string
	Choices []Choice
}

// SortControl is an active sort key.
type SortControl struct {
	Label      string
	Direction  string
	ToggleHref string
	RemoveHref string
}

// SizeOption is an entry of a page-size or column select.
type SizeOption struct {
	Value    int
	Selected bool
}

// Directory is everything the directory template renders.
type Directory struct {
	Found   int
	Search  string
	Records []Record
	View    string
	Card    bool
	Columns int
	Grid    template.CSS
	Tabs    []Link

	SearchHidden []Hidden
	FilterHidden []Hidden
	SizeHidden   []Hidden
	ColsHidden   []Hidden

	Groups        []Group
	ActiveFilters int
	Chips         []Chip
	ClearHref     string

	Sorts    []SortControl
	AddSorts []Link

	PageSizes  []SizeOption
	ColOptions []SizeOption

	Page       int
	TotalPages int
	PrevHref   string
	NextHref   string
}

var fieldLabels = map[query.Field]string{
	query.FieldAge:          "Age",
	query.FieldName:         "Name",
	query.FieldMedicalIssue: "Medical Issue",
}

// NewDirectory turns a query result into the directory view model.
func NewDirectory(res *service.Result, images ImagePolicy) Directory {
	st := res.State
	page := res.Page

	d := Directory{
		Found:         page.Total,
		Search:        st.Search,
		View:          string(st.View),
		Card:          st.View == query.ViewCard,
		Columns:       st.Columns,
		Grid:          template.CSS("grid-template-columns: repeat(" + strconv.Itoa(st.Columns) + ", minmax(0, 1fr))"),
		ActiveFilters: st.ActiveFilters(),
		ClearHref:     href(st.ClearFilters()),
		Page:          page.Number,
		TotalPages:    page.TotalPages,

		SearchHidden: hidden(st, query.ParamSearch, query.ParamPage),
		FilterHidden: hidden(st, query.ParamIssue, query.ParamLocation, query.ParamAge, query.ParamPage),
		SizeHidden:   hidden(st, query.ParamPageSize, query.ParamPage),
		ColsHidden:   hidden(st, query.ParamColumns),
	}

	for _, v := range []query.View{query.ViewTable, query.ViewCard} {
		label := "Table"
		if v == query.ViewCard {
			label = "Cards"
		}
		d.Tabs = append(d.Tabs, Link{Label: label, Href: href(st.WithView(v)), Active: st.View == v})
	}

	for i, p := range page.Items {
		d.Records = append(d.Records, NewRecord(p, page.Start, i, images))
	}

	d.Groups = []Group{
		group("Medical Issue", query.ParamIssue, res.Options.Issues, st.Issues),
		group("Location", query.ParamLocation, res.Options.Locations, st.Locations),
		group("Age", query.ParamAge, res.Options.AgeRanges, st.AgeRanges),
	}
	for _, v := range st.Issues {
		d.Chips = append(d.Chips, Chip{Kind: "Medical", Label: v, RemoveHref: href(st.ToggleIssue(v))})
	}
	for _, v := range st.Locations {
		d.Chips = append(d.Chips, Chip{Kind: "Location", Label: v, RemoveHref: href(st.ToggleLocation(v))})
	}
	for _, v := range st.AgeRanges {
		d.Chips = append(d.Chips, Chip{Kind: "Age", Label: v, RemoveHref: href(st.ToggleAgeRange(v))})
	}

	for _, k := range st.Sort {
		d.Sorts = append(d.Sorts, SortControl{
			Label:      fieldLabels[k.Field],
			Direction:  directionLabel(k.Direction),
			ToggleHref: href(st.ToggleSortDirection(k.Field)),
			RemoveHref: href(st.RemoveSort(k.Field)),
		})
	}
	for _, f := range query.Fields {
		if st.Sort.Has(f) {
			continue
		}
		next, err := st.AddSort(f, query.Asc)
		if err != nil {
			continue
		}
		d.AddSorts = append(d.AddSorts, Link{Label: "Sort by " + fieldLabels[f], Href: href(next)})
	}

	sizes := query.PageSizes[st.View]
	if !slices.Contains(sizes, st.PageSize) {
		sizes = append(slices.Clone(sizes), st.PageSize)
		slices.Sort(sizes)
	}
	for _, n := range sizes {
		d.PageSizes = append(d.PageSizes, SizeOption{Value: n, Selected: n == st.PageSize})
	}
	for n := 1; n <= query.MaxColumns; n++ {
		d.ColOptions = append(d.ColOptions, SizeOption{Value: n, Selected: n == st.Columns})
	}

	if page.HasPrev() {
		d.PrevHref = href(st.WithPage(page.Number - 1))
	}
	if page.HasNext() {
		d.NextHref = href(st.WithPage(page.Number + 1))
	}
	return d
}

// NewRecord prepares one patient. start and index feed the placeholder id.
func NewRecord(p models.Patient, start, index int, images ImagePolicy) Record {
	c, _ := p.FirstContact()

	age := ""
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}

	alt := p.Name
	if alt == "" {
		alt = FallbackName
	}
	photo := Photo{
		Alt:      alt,
		Initials: Initials(alt),
		Style:    template.CSS("background-color: " + AvatarColor(alt)),
	}
	if p.HasPhoto() && images.Allowed(p.PhotoURL) {
		photo.URL = p.PhotoURL
		photo.ShowImg = true
	}

	return Record{
		ID:      value(p.DisplayID(start, index)),
		Name:    value(p.Name),
		Age:     value(age),
		Issue:   value(p.MedicalIssue),
		Address: value(c.Address),
		Phone:   value(c.Number),
		Email:   value(c.Email),
		Photo:   photo,
	}
}

func group(title, param string, options, selected []string) Group {
	g := Group{Title: title, Param: param}
	for _, o := range options {
		g.Choices = append(g.Choices, Choice{Value: o, Checked: slices.Contains(selected, o)})
	}
	// Selections that no longer exist in the data stay visible so they can be
	// unchecked.
	for _, s := range selected {
		if !slices.Contains(options, s) {
			g.Choices = append(g.Choices, Choice{Value: s, Checked: true})
		}
	}
	return g
}

func directionLabel(d query.Direction) string {
	if d == query.Desc {
		return "↓ Desc"
	}
	return "↑ Asc"
}

func href(st query.State) string {
	return "?" + st.Encode()
}

func hidden(st query.State, drop ...string) []Hidden {
	v := st.Values()
	for _, k := range drop {
		v.Del(k)
	}
	var out []Hidden
	for _, k := range slices.Sorted(maps.Keys(v)) {
		for _, val := range v[k] {
			out = append(out, Hidden{Name: k, Value: val})
		}
	}
	return out
}
