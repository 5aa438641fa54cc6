package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "patientdir/pkg/domain-errors"
)

func TestTransitionsResetPage(t *testing.T) {
	base := DefaultState().WithPage(7)
	require.Equal(t, 7, base.Page)

	transitions := map[string]func(State) State{
		"search":          func(s State) State { return s.WithSearch("ann") },
		"issue":           func(s State) State { return s.ToggleIssue("fever") },
		"location":        func(s State) State { return s.ToggleLocation("Ohio") },
		"age":             func(s State) State { return s.ToggleAgeRange("71+") },
		"clear filters":   func(s State) State { return s.ClearFilters() },
		"remove sort":     func(s State) State { return s.RemoveSort(FieldAge) },
		"toggle sort dir": func(s State) State { return s.ToggleSortDirection(FieldAge) },
		"page size":       func(s State) State { return s.WithPageSize(50) },
		"view":            func(s State) State { return s.WithView(ViewCard) },
		"add sort": func(s State) State {
			next, err := s.AddSort(FieldName, Asc)
			require.NoError(t, err)
			return next
		},
	}
	for name, fn := range transitions {
		t.Run(name, func(t *testing.T) {
			next := fn(base)
			assert.Equal(t, 1, next.Page)
			assert.Equal(t, 7, base.Page, "receiver untouched")
		})
	}
}

func TestToggleIsImmutable(t *testing.T) {
	a := DefaultState().ToggleIssue("fever")
	b := a.ToggleIssue("cough")
	c := b.ToggleIssue("fever")

	assert.Equal(t, []string{"fever"}, a.Issues)
	assert.Equal(t, []string{"fever", "cough"}, b.Issues)
	assert.Equal(t, []string{"cough"}, c.Issues)
	assert.Equal(t, 2, b.ActiveFilters())
}

func TestAddSortRejectsDuplicate(t *testing.T) {
	s, err := DefaultState().AddSort(FieldAge, Asc)
	require.NoError(t, err)
	_, err = s.WithPage(3).AddSort(FieldAge, Desc)
	assert.ErrorIs(t, err, ErrDuplicateSortKey)
}

func TestWithViewPageSizes(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, 20, s.PageSize)

	card := s.WithView(ViewCard)
	assert.Equal(t, 12, card.PageSize, "20 is not a card size")

	card = card.WithPageSize(24).WithView(ViewCard)
	assert.Equal(t, 24, card.PageSize, "offered size is kept")

	table := card.WithView(ViewTable)
	assert.Equal(t, 20, table.PageSize)

	table = DefaultState().WithPageSize(50).WithView(ViewTable)
	assert.Equal(t, 50, table.PageSize)
}

func TestParseStateDefaults(t *testing.T) {
	s, err := ParseState(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), s)
	assert.Empty(t, s.Encode())
}

func TestParseStateRoundTrip(t *testing.T) {
	in := DefaultState().
		WithSearch("an").
		ToggleIssue("fever").
		ToggleIssue("back pain").
		ToggleLocation("New York").
		ToggleAgeRange("71+").
		WithView(ViewCard).
		WithPageSize(6).
		WithColumns(3)
	in, err := in.AddSort(FieldAge, Desc)
	require.NoError(t, err)
	in, err = in.AddSort(FieldName, Asc)
	require.NoError(t, err)
	in = in.WithPage(4)

	out, err := ParseState(in.Values())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseStateCardDefaultSize(t *testing.T) {
	s, err := ParseState(url.Values{ParamView: {"card"}})
	require.NoError(t, err)
	assert.Equal(t, 12, s.PageSize)
}

func TestParseStateRejects(t *testing.T) {
	tests := map[string]url.Values{
		"zero page":       {ParamPage: {"0"}},
		"text page":       {ParamPage: {"two"}},
		"negative size":   {ParamPageSize: {"-1"}},
		"huge size":       {ParamPageSize: {"1000"}},
		"bad view":        {ParamView: {"grid"}},
		"too many cols":   {ParamColumns: {"9"}},
		"duplicate sort":  {ParamSort: {"age:asc", "age:desc"}},
		"unknown sort by": {ParamSort: {"height"}},
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseState(v)
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
		})
	}
}

func TestParseStateKeepsUnknownAgeLabels(t *testing.T) {
	s, err := ParseState(url.Values{ParamAge: {"200-300", "71+", "71+"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"200-300", "71+"}, s.AgeRanges)
}
