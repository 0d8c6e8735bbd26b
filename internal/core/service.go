// Package core hosts the cross calculation service: it validates requests,
// memoises results through the configured cache and reports each operation
// to the logging, metrics and tracing hooks.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"morphcore/internal/cache"
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
	"morphcore/pkg/genetics"
	"morphcore/pkg/probability"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid cross request")

// Operation names reported to metrics and tracing.
const (
	OpCross         = "cross"
	OpListLoci      = "list_loci"
	OpParseGenotype = "parse_genotype"
)

// Cross outcomes reported to CrossObserver.ObserveCross.
const (
	CrossComputed = "computed"
	CrossCached   = "cached"
	CrossRejected = "rejected"
)

// CrossRequest names the species and both parents' genotypes.
type CrossRequest struct {
	Species domain.Species     `json:"species"`
	Father  []domain.GeneEntry `json:"father"`
	Mother  []domain.GeneEntry `json:"mother"`
}

// CrossRow is one formatted phenotype row.
type CrossRow struct {
	Phenotype   string             `json:"phenotype"`
	Probability float64            `json:"probability"`
	Percent     string             `json:"percent"`
	Fraction    string             `json:"fraction"`
	Genotype    []domain.GeneEntry `json:"genotype"`
}

// CrossReport is the service-level answer to a cross.
type CrossReport struct {
	Species      domain.Species     `json:"species"`
	Father       []domain.GeneEntry `json:"father"`
	Mother       []domain.GeneEntry `json:"mother"`
	Rows         []CrossRow         `json:"rows"`
	ActiveLoci   int                `json:"active_loci"`
	States       int                `json:"states"`
	Combinations uint64             `json:"combinations"`
	Cached       bool               `json:"cached"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// Results returns the unformatted rows.
func (r CrossReport) Results() []domain.CrossResult {
	out := make([]domain.CrossResult, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = domain.CrossResult{Phenotype: row.Phenotype, Genotype: row.Genotype, Probability: row.Probability}
	}
	return out
}

// Service runs crosses against a fixed catalog.
type Service struct {
	catalog *catalog.Catalog
	engine  *genetics.Engine
	cache   cache.Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
}

type serviceOptions struct {
	cache     cache.Store
	logger    Logger
	metrics   MetricsRecorder
	tracer    Tracer
	clock     Clock
	maxActive int
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

// WithCache memoises crosses in store. Without it every cross is computed.
func WithCache(store cache.Store) ServiceOption {
	return func(o *serviceOptions) {
		if store != nil {
			o.cache = store
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics sink. Recorders that also implement
// CrossObserver receive per-species and cache observations.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for report timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMaxActiveLoci overrides genetics.DefaultMaxActiveLoci.
func WithMaxActiveLoci(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.maxActive = n
	}
}

// NewService constructs a service over cat.
func NewService(cat *catalog.Catalog, opts ...ServiceOption) *Service {
	o := serviceOptions{
		cache:   cache.Disabled{},
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		catalog: cat,
		engine:  genetics.NewEngine(cat, genetics.WithMaxActiveLoci(o.maxActive)),
		cache:   o.cache,
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  o.tracer,
		clock:   o.clock,
	}
}

// Catalog returns the catalog the service resolves loci against.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Engine returns the underlying genetics engine.
func (s *Service) Engine() *genetics.Engine { return s.engine }

// Species lists registered species.
func (s *Service) Species() []catalog.SpeciesInfo {
	return s.catalog.Species()
}

// Loci returns the ordered loci of a registered species.
func (s *Service) Loci(ctx context.Context, species domain.Species) (loci []domain.Locus, err error) {
	_, done := s.start(ctx, OpListLoci)
	defer func() { done(err) }()
	if !s.catalog.HasSpecies(species) {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownSpecies, species)
	}
	return s.catalog.LocusesForSpecies(species), nil
}

// ParseGenotype resolves keeper shorthand against the species catalog.
func (s *Service) ParseGenotype(ctx context.Context, species domain.Species, text string) (entries []domain.GeneEntry, err error) {
	_, done := s.start(ctx, OpParseGenotype)
	defer func() { done(err) }()
	entries, err = genetics.ParseGenotype(s.catalog, species, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return entries, nil
}

// Cross computes, or loads from cache, the offspring distribution for req.
// The active-locus limit is enforced before the cache is consulted. Cache
// failures are logged and never fail the cross.
func (s *Service) Cross(ctx context.Context, req CrossRequest) (report CrossReport, err error) {
	ctx, done := s.start(ctx, OpCross)
	defer func() { done(err) }()

	father, err := validateParent("father", req.Father)
	if err != nil {
		s.observeCross(ctx, req.Species, CrossRejected)
		return CrossReport{}, err
	}
	mother, err := validateParent("mother", req.Mother)
	if err != nil {
		s.observeCross(ctx, req.Species, CrossRejected)
		return CrossReport{}, err
	}

	if active := len(s.engine.ActiveLoci(father, mother, req.Species)); active > s.engine.MaxActiveLoci() {
		s.observeCross(ctx, req.Species, CrossRejected)
		s.logger.Warn("cross rejected", "species", req.Species, "active_loci", active, "max_active_loci", s.engine.MaxActiveLoci())
		return CrossReport{}, fmt.Errorf("%w: %d active, limit %d", genetics.ErrTooManyActiveLoci, active, s.engine.MaxActiveLoci())
	}

	key := s.engine.Key(father, mother, req.Species)
	entry, hit := s.lookup(ctx, key)
	if !hit {
		ev, evalErr := s.engine.Evaluate(father, mother, req.Species)
		if evalErr != nil {
			s.observeCross(ctx, req.Species, CrossRejected)
			s.logger.Warn("cross rejected", "species", req.Species, "active_loci", len(ev.Active), "error", evalErr)
			return CrossReport{}, evalErr
		}
		entry = cache.Entry{
			Results:      ev.Results,
			ActiveLoci:   len(ev.Active),
			States:       ev.States,
			Combinations: ev.Combinations,
			CreatedAt:    s.clock.Now(),
		}
		if putErr := s.cache.Put(ctx, key, entry); putErr != nil {
			s.logger.Warn("cross cache write failed", "driver", s.cache.Driver(), "error", putErr)
		}
		s.observeCross(ctx, req.Species, CrossComputed)
	} else {
		s.observeCross(ctx, req.Species, CrossCached)
	}

	report = CrossReport{
		Species:      req.Species,
		Father:       father,
		Mother:       mother,
		Rows:         formatRows(entry.Results),
		ActiveLoci:   entry.ActiveLoci,
		States:       entry.States,
		Combinations: entry.Combinations,
		Cached:       hit,
		GeneratedAt:  s.clock.Now(),
	}
	s.logger.Debug("cross complete", "species", req.Species, "rows", len(report.Rows), "cached", hit)
	return report, nil
}

func (s *Service) lookup(ctx context.Context, key string) (cache.Entry, bool) {
	entry, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("cross cache read failed", "driver", s.cache.Driver(), "error", err)
		s.observeCache(ctx, CacheError)
		return cache.Entry{}, false
	case !found:
		s.observeCache(ctx, CacheMiss)
		return cache.Entry{}, false
	default:
		s.observeCache(ctx, CacheHit)
		return entry.Clone(), true
	}
}

func validateParent(role string, entries []domain.GeneEntry) ([]domain.GeneEntry, error) {
	out := make([]domain.GeneEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Locus) == "" {
			continue
		}
		valid, err := domain.NewGeneEntry(e.Locus, e.Copies)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, role, err)
		}
		out = append(out, valid)
	}
	return out, nil
}

func formatRows(results []domain.CrossResult) []CrossRow {
	rows := make([]CrossRow, len(results))
	for i, r := range results {
		rows[i] = CrossRow{
			Phenotype:   r.Phenotype,
			Probability: r.Probability,
			Percent:     probability.Percent(r.Probability),
			Fraction:    probability.Fraction(r.Probability),
			Genotype:    r.Genotype,
		}
	}
	return rows
}

func (s *Service) start(ctx context.Context, op string) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	return ctx, func(err error) {
		s.metrics.Observe(ctx, op, err == nil, time.Since(started))
		span.End(err)
		if err != nil {
			s.logger.Debug("operation failed", "operation", op, "error", err)
		}
	}
}

func (s *Service) observeCross(ctx context.Context, species domain.Species, status string) {
	if obs, ok := s.metrics.(CrossObserver); ok {
		obs.ObserveCross(ctx, species, status)
	}
}

func (s *Service) observeCache(ctx context.Context, result string) {
	if obs, ok := s.metrics.(CrossObserver); ok {
		obs.ObserveCache(ctx, result)
	}
}
