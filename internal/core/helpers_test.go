package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"morphcore/internal/cache"
	"morphcore/pkg/catalog"
	"morphcore/pkg/domain"
)

const testSpecies domain.Species = "test_python"

func testCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	if err := b.RegisterSpecies(testSpecies, "Test Python"); err != nil {
		t.Fatalf("register species: %v", err)
	}
	err := b.RegisterLoci(testSpecies,
		domain.Locus{Name: "Albino", Mode: domain.Recessive},
		domain.Locus{Name: "Clown", Mode: domain.Recessive},
		domain.Locus{Name: "Pastel", Mode: domain.CoDominant},
		domain.Locus{Name: "Mojave", Mode: domain.CoDominant, SuperName: "Blue Eyed Leucistic"},
		domain.Locus{Name: "Pinstripe", Mode: domain.Dominant},
	)
	if err != nil {
		t.Fatalf("register loci: %v", err)
	}
	return b.Build()
}

func gene(locus string, copies int) domain.GeneEntry {
	return domain.GeneEntry{Locus: locus, Copies: copies}
}

func fixedClock() Clock {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return ClockFunc(func() time.Time { return at })
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls   []metricsCall
	crosses map[string]int
	cache   map[string]int
}

func newCaptureMetrics() *captureMetricsRecorder {
	return &captureMetricsRecorder{crosses: map[string]int{}, cache: map[string]int{}}
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) ObserveCross(_ context.Context, species domain.Species, status string) {
	c.crosses[string(species)+"/"+status]++
}

func (c *captureMetricsRecorder) ObserveCache(_ context.Context, result string) {
	c.cache[result]++
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

type captureLogger struct {
	warnings []string
}

func (*captureLogger) Debug(string, ...any) {}
func (*captureLogger) Info(string, ...any)  {}
func (l *captureLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}
func (*captureLogger) Error(string, ...any) {}

var errBrokenCache = errors.New("cache offline")

type brokenCache struct {
	puts int
}

func (*brokenCache) Get(context.Context, string) (cache.Entry, bool, error) {
	return cache.Entry{}, false, errBrokenCache
}

func (b *brokenCache) Put(context.Context, string, cache.Entry) error {
	b.puts++
	return errBrokenCache
}

func (*brokenCache) Driver() cache.Driver { return "broken" }
func (*brokenCache) Close() error         { return nil }
