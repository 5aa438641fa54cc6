package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patientdir/internal/patient/metrics"
	"patientdir/internal/patient/models"
	"patientdir/internal/query"
	dErrors "patientdir/pkg/domain-errors"
	"patientdir/pkg/platform/sentinel"
)

type stubStore struct {
	records []models.Patient
	err     error
}

func (s stubStore) Snapshot() ([]models.Patient, error) { return s.records, s.err }

func patient(id int, name string, age int, issue, address string) models.Patient {
	return models.Patient{
		ID:           id,
		Name:         name,
		Age:          &age,
		MedicalIssue: issue,
		Contacts:     []models.Contact{{Address: address}},
	}
}

func fixture() []models.Patient {
	return []models.Patient{
		patient(1, "Bob", 40, "fever", "1 Elm St, Austin"),
		patient(2, "Ann", 40, "cough", "2 Oak St, Boston"),
		patient(3, "Cid", 10, "fever", "3 Pine St, Austin"),
		patient(4, "Dan", 75, "anxiety", "4 Ash St, Denver"),
	}
}

func ids(items []models.Patient) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	svc, err := New(stubStore{})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestQuery(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc, err := New(stubStore{records: fixture()}, WithMetrics(m))
	require.NoError(t, err)

	t.Run("filters then sorts by age and name", func(t *testing.T) {
		st := query.DefaultState().ToggleLocation("Austin").ToggleLocation("Boston")
		st, err := st.AddSort(query.FieldAge, query.Asc)
		require.NoError(t, err)
		st, err = st.AddSort(query.FieldName, query.Asc)
		require.NoError(t, err)

		res, err := svc.Query(context.Background(), st)
		require.NoError(t, err)

		if diff := cmp.Diff([]int{3, 2, 1}, ids(res.Page.Items)); diff != "" {
			t.Errorf("page items mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, res.Page.Total)
		assert.Equal(t, 4, res.TotalRecords)
		assert.Equal(t, []string{"anxiety", "cough", "fever"}, res.Options.Issues)
	})

	t.Run("clamps the page past the end", func(t *testing.T) {
		st := query.DefaultState().WithPageSize(10).WithPage(9)

		res, err := svc.Query(context.Background(), st)
		require.NoError(t, err)

		assert.Equal(t, 1, res.Page.Number)
		assert.Equal(t, 1, res.State.Page)
		assert.Len(t, res.Page.Items, 4)
	})

	t.Run("no matches is an empty first page", func(t *testing.T) {
		res, err := svc.Query(context.Background(), query.DefaultState().WithSearch("zzz"))
		require.NoError(t, err)

		assert.Empty(t, res.Page.Items)
		assert.Equal(t, 0, res.Page.TotalPages)
		assert.Equal(t, 1, res.Page.Number)
	})

	t.Run("every query is observed", func(t *testing.T) {
		assert.Equal(t, 1, promtest.CollectAndCount(m.QueryMatches, "patientdir_query_matches"))
		assert.Equal(t, 1, promtest.CollectAndCount(m.QueryLatency, "patientdir_query_duration_seconds"))

		families, err := reg.Gather()
		require.NoError(t, err)
		counts := map[string]uint64{}
		sums := map[string]float64{}
		for _, f := range families {
			h := f.GetMetric()[0].GetHistogram()
			counts[f.GetName()] = h.GetSampleCount()
			sums[f.GetName()] = h.GetSampleSum()
		}
		assert.Equal(t, uint64(3), counts["patientdir_query_matches"])
		assert.Equal(t, uint64(3), counts["patientdir_query_duration_seconds"])
		// 3 matches, 4 matches, 0 matches
		assert.Equal(t, 7.0, sums["patientdir_query_matches"])
	})
}

func TestQueryStoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		loadError string
	}{
		{name: "still loading", err: sentinel.ErrNotLoaded, loadError: ""},
		{name: "load failed", err: errors.New("fetch from file: not found"), loadError: "fetch from file: not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(stubStore{err: tt.err})
			require.NoError(t, err)

			_, err = svc.Query(context.Background(), query.DefaultState())
			require.Error(t, err)
			assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.loadError, LoadError(err))

			_, err = svc.Options(context.Background())
			assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
		})
	}
}

func TestOptions(t *testing.T) {
	svc, err := New(stubStore{records: fixture()})
	require.NoError(t, err)

	opts, err := svc.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Austin", "Boston", "Denver"}, opts.Locations)
	assert.Equal(t, []string{"0-17", "18-30", "31-50", "51-70", "71+"}, opts.AgeRanges)
}
