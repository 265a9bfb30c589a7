package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/police-blotter-etl/internal/domain"
	"github.com/couchcryptid/police-blotter-etl/internal/observability"
)

// Source supplies the flattened input lines of one or more reports.
type Source interface {
	Lines() iter.Seq[domain.Line]
	// Err reports the read error that ended Lines early, if any.
	Err() error
}

// Sink receives parsed accident records in input order.
type Sink interface {
	Name() string
	Load(ctx context.Context, rec domain.AccidentRecord) error
	Flush(ctx context.Context) error
}

// Summary describes a finished run.
type Summary struct {
	LinesRead     int
	AccidentLines int
	Records       int
	Skipped       int
	Duration      time.Duration
}

// Pipeline streams lines from a source through the section extractor and
// line parser into the sinks.
type Pipeline struct {
	source  Source
	sinks   []Sink
	policy  domain.FailurePolicy
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	flushTimeout time.Duration
}

// defaultFlushTimeout bounds the final sink flush when none is configured.
const defaultFlushTimeout = 10 * time.Second

// New creates a Pipeline with the given stages and observability.
func New(src Source, sinks []Sink, policy domain.FailurePolicy, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  src,
		sinks:   sinks,
		policy:  policy,
		logger:  logger,
		metrics: metrics,

		flushTimeout: defaultFlushTimeout,
	}
}

// WithFlushTimeout bounds the final sink flush. The flush ignores cancellation
// of the run context, so records read before a cancel are still delivered.
func (p *Pipeline) WithFlushTimeout(d time.Duration) *Pipeline {
	if d > 0 {
		p.flushTimeout = d
	}
	return p
}

// CheckReadiness returns nil once the pipeline has read input,
// or an error describing why it is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not read any input yet")
	}
	return nil
}

// Run processes the whole source once. Under the fail-fast policy the first
// bad line ends the run with an error wrapping a *domain.MalformedLineError or
// *domain.EncodingError. Sinks are flushed before Run returns, including on
// error, so rows written before a failure are kept.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := domain.Now()
	p.logger.Info("pipeline started", "failure_policy", p.policy, "sinks", len(p.sinks))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var sum Summary
	runErr := p.process(ctx, &sum)
	if runErr == nil {
		if err := p.source.Err(); err != nil {
			runErr = fmt.Errorf("read input: %w", err)
		}
	}

	if err := p.flush(ctx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	sum.Duration = domain.Since(start)
	p.metrics.RunDuration.Observe(sum.Duration.Seconds())
	return sum, runErr
}

// process reads until the source is exhausted, the context is cancelled,
// or a fatal error occurs.
func (p *Pipeline) process(ctx context.Context, sum *Summary) error {
	var cancelErr error
	for line := range domain.AccidentLines(p.count(ctx, p.source.Lines(), sum, &cancelErr)) {
		sum.AccidentLines++
		p.metrics.AccidentLines.Inc()

		rec, err := domain.ParseAccident(line)
		if err != nil {
			p.metrics.MalformedLines.Inc()
			if p.policy == domain.FailFast {
				p.logger.Error("unparseable accident line",
					"source", line.Source,
					"line_number", line.Number,
					"line", line.Text,
				)
				return fmt.Errorf("parse accident line: %w", err)
			}
			sum.Skipped++
			p.logger.Warn("skipping unparseable accident line",
				"source", line.Source,
				"line_number", line.Number,
				"line", line.Text,
				"error", err,
			)
			continue
		}

		if err := p.load(ctx, rec); err != nil {
			return err
		}
		sum.Records++
		p.metrics.RecordsWritten.Inc()
	}
	if cancelErr != nil {
		return fmt.Errorf("run cancelled: %w", cancelErr)
	}
	return nil
}

// count tallies raw input lines as they pass, and marks the pipeline ready
// on the first one. It stops at the first line read after ctx is done,
// storing the context error in cancelErr.
func (p *Pipeline) count(ctx context.Context, lines iter.Seq[domain.Line], sum *Summary, cancelErr *error) iter.Seq[domain.Line] {
	return func(yield func(domain.Line) bool) {
		for line := range lines {
			if err := ctx.Err(); err != nil {
				*cancelErr = err
				return
			}
			sum.LinesRead++
			p.metrics.LinesRead.Inc()
			p.ready.Store(true)
			if !yield(line) {
				return
			}
		}
	}
}

func (p *Pipeline) load(ctx context.Context, rec domain.AccidentRecord) error {
	for _, s := range p.sinks {
		if err := s.Load(ctx, rec); err != nil {
			return fmt.Errorf("load into %s: %w", s.Name(), err)
		}
	}
	return nil
}

// flush flushes every sink, collecting all failures.
func (p *Pipeline) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.flushTimeout)
	defer cancel()

	var errs []error
	for _, s := range p.sinks {
		start := domain.Now()
		if err := s.Flush(ctx); err != nil {
			p.logger.Error("sink flush failed", "sink", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("flush %s: %w", s.Name(), err))
			continue
		}
		p.metrics.SinkFlushDuration.WithLabelValues(s.Name()).Observe(domain.Since(start).Seconds())
	}
	return errors.Join(errs...)
}
