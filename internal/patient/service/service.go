// Package service answers directory queries against the loaded record set.
// Every call recomputes from the store snapshot; nothing is memoized.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"patientdir/internal/patient/metrics"
	"patientdir/internal/patient/models"
	"patientdir/internal/query"
	dErrors "patientdir/pkg/domain-errors"
	"patientdir/pkg/platform/sentinel"
)

var tracer = otel.Tracer("patientdir/internal/patient/service")

// LoadingMessage is shown while the initial load is in flight.
const LoadingMessage = "Loading..."

// Store is the read side of the record store.
type Store interface {
	Snapshot() ([]models.Patient, error)
}

// Service runs the query pipeline.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New builds a Service over store.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result is one rendered query: the visible page plus everything the view
// needs around it.
type Result struct {
	Page query.Page
	// State is the request state with its page clamped into range.
	State        query.State
	Options      query.OptionSet
	TotalRecords int
}

// Query filters, sorts and paginates the record set for st.
func (s *Service) Query(ctx context.Context, st query.State) (*Result, error) {
	ctx, span := tracer.Start(ctx, "service.Query")
	defer span.End()

	records, err := s.snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	start := time.Now()
	page := query.VisiblePage(
		records,
		query.NewPredicate(st.Criteria()),
		st.Sort.Comparator(),
		st.PageSize,
		st.Page,
	)
	s.metrics.ObserveQuery(time.Since(start), page.Total)

	st.Page = page.Number
	span.SetAttributes(
		attribute.Int("query.matches", page.Total),
		attribute.Int("query.page", page.Number),
		attribute.String("query.sort", st.Sort.String()),
	)

	return &Result{
		Page:         page,
		State:        st,
		Options:      query.Options(records),
		TotalRecords: len(records),
	}, nil
}

// Options returns the filter options for the whole record set.
func (s *Service) Options(ctx context.Context) (query.OptionSet, error) {
	records, err := s.snapshot(ctx)
	if err != nil {
		return query.OptionSet{}, err
	}
	return query.Options(records), nil
}

func (s *Service) snapshot(ctx context.Context) ([]models.Patient, error) {
	records, err := s.store.Snapshot()
	switch {
	case err == nil:
		return records, nil
	case errors.Is(err, sentinel.ErrNotLoaded):
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, LoadingMessage)
	default:
		s.logger.WarnContext(ctx, "query against failed record store", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "patient records unavailable")
	}
}

// LoadError returns the message to show for a failed store, or "" when err
// is not a load failure.
func LoadError(err error) string {
	if err == nil || errors.Is(err, sentinel.ErrNotLoaded) {
		return ""
	}
	var de *dErrors.Error
	if errors.As(err, &de) && de.Err != nil {
		return de.Err.Error()
	}
	return err.Error()
}
