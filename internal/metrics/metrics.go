// Package metrics records compile outcomes as OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	metricCompileTotal    = "nlc.compile.total"
	metricCompileDuration = "nlc.compile.duration.seconds"
	metricWarningsTotal   = "nlc.compile.warnings.total"
	metricIdiomHitsTotal  = "nlc.idiom.hits.total"

	attrIntent  = "intent"
	attrOutcome = "outcome"
	attrIdiom   = "idiom"

	// OutcomeOK is the outcome of a compile that returned code.
	OutcomeOK = "ok"
)

// upper bounds for compile latency; a compile is pure and usually well
// under a millisecond
var durationBuckets = []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1}

// Compile holds the compile instruments.
type Compile struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	warnings metric.Int64Counter
	idioms   metric.Int64Counter
}

// Outcome describes one finished compile. Outcome is OutcomeOK or the
// failing stage.
type Outcome struct {
	Intent   string
	Outcome  string
	Idiom    string
	Warnings int
	Duration time.Duration
}

// New creates the compile instruments from mt.
func New(mt metric.Meter) (*Compile, error) {
	b := newBuilder(mt)
	c := &Compile{
		total:    b.counter(metricCompileTotal, "Compiled instructions by intent and outcome", "{instruction}"),
		duration: b.histogram(metricCompileDuration, "Compile duration in seconds", "s", durationBuckets...),
		warnings: b.counter(metricWarningsTotal, "Code generation warnings", "{warning}"),
		idioms:   b.counter(metricIdiomHitsTotal, "Instructions resolved to an idiom", "{hit}"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return c, nil
}

// Noop returns instruments that record nothing.
func Noop() *Compile {
	c, _ := New(noop.NewMeterProvider().Meter("nlc"))
	return c
}

// Record adds one compile. Safe to call on a nil receiver.
func (c *Compile) Record(ctx context.Context, o Outcome) {
	if c == nil {
		return
	}
	intent := attribute.String(attrIntent, o.Intent)
	c.total.Add(ctx, 1, metric.WithAttributes(intent, attribute.String(attrOutcome, o.Outcome)))
	c.duration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(intent))
	if o.Warnings > 0 {
		c.warnings.Add(ctx, int64(o.Warnings), metric.WithAttributes(intent))
	}
	if o.Idiom != "" {
		c.idioms.Add(ctx, 1, metric.WithAttributes(attribute.String(attrIdiom, o.Idiom)))
	}
}

// builder keeps the first instrument creation error so instruments can be
// created in one block.
type builder struct {
	meter metric.Meter
	err   error
}

func newBuilder(mt metric.Meter) *builder {
	return &builder{meter: mt}
}

func (b *builder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)
	return c
}

func (b *builder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}
	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)
	return h
}

func (b *builder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}
