// Package store holds the patient records in memory after a one-time load.
//
// The store has three states. It starts loading, then either publishes the
// decoded records or records a terminal error. Neither outcome is ever
// replaced: there is no reload and no retry.
package store

//go:generate mockgen -source=store.go -destination=mocks/source_mock.go -package=mocks Source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"patientdir/internal/patient/metrics"
	"patientdir/internal/patient/models"
	"patientdir/pkg/platform/sentinel"
)

var tracer = otel.Tracer("patientdir/internal/patient/store")

// Source fetches the raw directory document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}

// Status is the load state of a Store.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Store is written once by Load and read concurrently by Snapshot.
type Store struct {
	mu      sync.RWMutex
	started bool
	status  Status
	records []models.Patient
	err     error
	ready   chan struct{}

	logger  *slog.Logger
	metrics *metrics.Metrics
	pick    models.IntN
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithIntN replaces the random index generator used to backfill issues.
func WithIntN(pick models.IntN) Option {
	return func(s *Store) {
		s.pick = pick
	}
}

// New creates an empty store in the loading state.
func New(opts ...Option) *Store {
	s := &Store{
		status: StatusLoading,
		ready:  make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the document from src, decodes it and publishes the records.
// Any failure is terminal. Calling Load a second time returns
// sentinel.ErrAlreadyLoaded without touching the store.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return sentinel.ErrAlreadyLoaded
	}
	s.started = true
	s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "store.Load")
	defer span.End()
	span.SetAttributes(attribute.String("source", src.Name()))

	records, backfilled, err := s.fetch(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.fail(ctx, src.Name(), err)
		return err
	}

	s.mu.Lock()
	s.records = records
	s.status = StatusReady
	close(s.ready)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("records", len(records)))
	s.metrics.IncrementLoad(src.Name(), "ok")
	s.metrics.SetRecords(len(records))
	s.metrics.AddBackfilled(backfilled)
	s.logger.InfoContext(ctx, "patient records loaded",
		"source", src.Name(),
		"records", len(records),
		"backfilled", backfilled,
	)
	return nil
}

func (s *Store) fetch(ctx context.Context, src Source) ([]models.Patient, int, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}

	var raw []models.Patient
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode patient records: %w", err)
	}

	missing := 0
	for _, r := range raw {
		if r.MedicalIssue == "" {
			missing++
		}
	}
	return models.BackfillIssues(raw, s.pick), missing, nil
}

func (s *Store) fail(ctx context.Context, source string, err error) {
	s.mu.Lock()
	s.err = err
	s.status = StatusFailed
	close(s.ready)
	s.mu.Unlock()

	outcome := "error"
	if errors.Is(err, sentinel.ErrNotFound) {
		outcome = "not_found"
	}
	s.metrics.IncrementLoad(source, outcome)
	s.logger.ErrorContext(ctx, "failed to load patient records",
		"source", source,
		"error", err,
	)
}

// Snapshot returns the loaded records. Before the load finishes it returns
// sentinel.ErrNotLoaded; after a failed load it returns the load error.
// The returned slice is shared and must not be modified.
func (s *Store) Snapshot() ([]models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.status {
	case StatusReady:
		return s.records, nil
	case StatusFailed:
		return nil, s.err
	default:
		return nil, sentinel.ErrNotLoaded
	}
}

// Status reports the current load state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Ready is closed once Load has either published records or failed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}
