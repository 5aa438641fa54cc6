package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"patientdir/internal/patient/service"
	"patientdir/internal/patient/store"
	"patientdir/internal/patient/view"
	"patientdir/internal/query"
	"patientdir/pkg/platform/sentinel"
	"patientdir/pkg/testutil"
)

const document = `[
  {"patient_id": 1, "patient_name": "Ann Lee", "age": 34, "photo_url": "https://randomuser.me/a.jpg",
   "contact": [{"address": "1 Main St, Austin", "number": "555-1234", "email": "ann@example.com"}],
   "medical_issue": "fever"},
  {"patient_id": 2, "patient_name": "Bob Ray", "age": 71,
   "contact": [{"address": "2 Oak St, Boston", "number": "555-9876", "email": "bob@example.com"}],
   "medical_issue": "cough"},
  {"patient_id": 3, "patient_name": "Dan Fox", "age": 12, "contact": null, "medical_issue": "fever"}
]`

type stubSource struct {
	data []byte
	err  error
}

func (s stubSource) Fetch(context.Context) ([]byte, error) { return s.data, s.err }
func (s stubSource) Name() string                          { return "stub" }

// HandlerSuite runs the handler against a real store, service and renderer.
type HandlerSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// router builds the routes over src; load controls whether the store has
// finished loading before requests arrive.
func (s *HandlerSuite) router(src stubSource, load bool) http.Handler {
	st := store.New(store.WithIntN(func(int) int { return 0 }))
	if load {
		_ = st.Load(context.Background(), src)
	}
	svc, err := service.New(st)
	s.Require().NoError(err)
	renderer, err := view.New(nil)
	s.Require().NoError(err)

	r := chi.NewRouter()
	New(svc, src, renderer, s.logger).Register(r)
	return r
}

func (s *HandlerSuite) TestDataEndpoint() {
	s.Run("passes the document through", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, false), "/api/data-endpoint")

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertContentType(s.T(), rr, "application/json")
		s.Equal(document, rr.Body.String())
	})

	s.Run("missing document is a 404 with a fixed body", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{err: sentinel.ErrNotFound}, false), "/api/data-endpoint")

		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		s.JSONEq(`{"error":"File not found"}`, rr.Body.String())
	})

	s.Run("other failures are internal errors", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{err: errors.New("disk on fire")}, false), "/api/data-endpoint")

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}

func (s *HandlerSuite) TestQuery() {
	router := s.router(stubSource{data: []byte(document)}, true)

	s.Run("filters and sorts", func() {
		rr := testutil.Get(s.T(), router, "/api/patients?issue=fever&sort=age:asc")
		testutil.AssertStatusOK(s.T(), rr)

		resp := testutil.UnmarshalResponse[PageResponse](s.T(), rr)
		s.Require().Len(resp.Items, 2)
		s.Equal("Dan Fox", resp.Items[0].Name)
		s.Equal("Ann Lee", resp.Items[1].Name)
		s.Equal(2, resp.Total)
		s.Equal(1, resp.TotalPages)
	})

	s.Run("age bucket 71+", func() {
		rr := testutil.Get(s.T(), router, "/api/patients?age=71%2B")
		resp := testutil.UnmarshalResponse[PageResponse](s.T(), rr)
		s.Require().Len(resp.Items, 1)
		s.Equal(2, resp.Items[0].ID)
	})

	s.Run("page past the end clamps", func() {
		rr := testutil.Get(s.T(), router, "/api/patients?page=50&page_size=2")
		resp := testutil.UnmarshalResponse[PageResponse](s.T(), rr)
		s.Equal(2, resp.Page)
		s.Equal(2, resp.Start)
		s.Len(resp.Items, 1)
	})

	s.Run("no matches is an empty list", func() {
		rr := testutil.Get(s.T(), router, "/api/patients?search=zzz")
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), `"items":[]`)
	})

	s.Run("invalid state is a 400", func() {
		rr := testutil.Get(s.T(), router, "/api/patients?sort=height:asc")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")

		rr = testutil.Get(s.T(), router, "/api/patients?page=0")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestQueryUnavailable() {
	s.Run("not loaded yet", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, false), "/api/patients")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "service_unavailable")
	})

	s.Run("load failed", func() {
		router := s.router(stubSource{err: sentinel.ErrNotFound}, true)

		rr := testutil.Get(s.T(), router, "/api/patients")
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)

		rr = testutil.Get(s.T(), router, "/api/patients/options")
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	})
}

func (s *HandlerSuite) TestOptions() {
	rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, true), "/api/patients/options")
	testutil.AssertStatusOK(s.T(), rr)

	opts := testutil.UnmarshalResponse[query.OptionSet](s.T(), rr)
	s.Equal([]string{"cough", "fever"}, opts.Issues)
	s.Equal([]string{"Austin", "Boston"}, opts.Locations)
	s.Len(opts.AgeRanges, 5)
}

func (s *HandlerSuite) TestPage() {
	s.Run("loading", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, false), "/")
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertContentType(s.T(), rr, "text/html")
		s.Contains(rr.Body.String(), "Loading...")
	})

	s.Run("failed load replaces the view", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{err: errors.New("boom")}, true), "/")
		body := rr.Body.String()
		s.Contains(body, "Error: fetch from stub: boom")
		s.NotContains(body, "<table>")
	})

	s.Run("renders the directory", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, true), "/?location=Austin")
		body := rr.Body.String()
		s.Contains(body, "1 Patient Found")
		s.Contains(body, "Ann Lee")
		s.NotContains(body, "Bob Ray")
		s.Contains(body, "Location: Austin")
	})

	s.Run("invalid state falls back to defaults", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(document)}, true), "/?page_size=abc")
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), "3 Patient Found")
	})

	s.Run("empty document", func() {
		rr := testutil.Get(s.T(), s.router(stubSource{data: []byte(`[]`)}, true), "/")
		testutil.AssertStatusOK(s.T(), rr)
		body := rr.Body.String()
		s.Contains(body, "No data")
		s.NotContains(body, "Patient Found")
		s.NotContains(body, "Clear All")
	})
}

func TestPageResponseShape(t *testing.T) {
	rr := testutil.Get(t, func() http.Handler {
		st := store.New()
		require.NoError(t, st.Load(context.Background(), stubSource{data: []byte(document)}))
		svc, err := service.New(st)
		require.NoError(t, err)
		renderer, err := view.New(nil)
		require.NoError(t, err)
		r := chi.NewRouter()
		New(svc, stubSource{}, renderer, slog.Default()).Register(r)
		return r
	}(), "/api/patients?page_size=1")

	for _, key := range []string{"items", "page", "page_size", "total", "total_pages", "start"} {
		assert.Contains(t, rr.Body.String(), `"`+key+`"`)
	}
}
