// Package graph accumulates extracted facts and hands them to sinks.
//
// A Logger is created per run with its sinks, collects triples through
// AddTriple, guards at-most-once extraction through Follow, and writes
// pending triples on Flush. Close performs a final flush and releases the
// sinks.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/codeontology/metrics"
)

// DefaultFlushThreshold is the number of pending triples that triggers an
// automatic flush.
const DefaultFlushThreshold = 10000

// DefaultSource is recorded as the Source of every triple.
const DefaultSource = "codeontology.extract"

// ErrClosed is returned when a closed Logger is flushed again.
var ErrClosed = errors.New("graph logger closed")

// Resource is a triple object that names another entity by relative URI.
type Resource string

// IRI is a triple object that names an ontology term by absolute IRI.
type IRI string

// Subject is anything that has a URI in the graph.
type Subject interface {
	URI() string
}

// Extractable is a Subject that emits its own facts into the Logger it is
// handed.
type Extractable interface {
	Subject
	Extract(l *Logger)
}

// Sink persists batches of triples. Write receives triples in emission
// order and may be called many times per run.
type Sink interface {
	Write(ctx context.Context, triples []message.Triple) error
	Close() error
}

type tripleKey struct {
	subject   string
	predicate string
	object    any
}

// Logger is the fact accumulator of one extraction run.
type Logger struct {
	sink      Sink
	threshold int
	source    string
	started   time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	pending  []message.Triple
	seen     map[tripleKey]struct{}
	visited  map[string]struct{}
	total    int
	flushErr error
	closed   bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithFlushThreshold sets the automatic flush threshold. Zero or less
// disables automatic flushing.
func WithFlushThreshold(n int) Option {
	return func(l *Logger) { l.threshold = n }
}

// WithSource sets the Source recorded on triples.
func WithSource(source string) Option {
	return func(l *Logger) { l.source = source }
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) { l.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Logger) { l.metrics = m }
}

// New creates a Logger that writes to sink.
func New(sink Sink, opts ...Option) *Logger {
	l := &Logger{
		sink:      sink,
		threshold: DefaultFlushThreshold,
		source:    DefaultSource,
		started:   time.Now(),
		logger:    slog.Default(),
		seen:      make(map[tripleKey]struct{}),
		visited:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddTriple records one fact. object is a literal (string, integer, bool),
// an IRI, a Resource, or a Subject whose URI is embedded. A fact already
// recorded in this run is dropped.
func (l *Logger) AddTriple(subject Subject, predicate string, object any) {
	obj := normalizeObject(object)
	key := tripleKey{subject: subject.URI(), predicate: predicate, object: obj}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.seen[key]; dup {
		l.metrics.TripleDuplicate()
		return
	}
	l.seen[key] = struct{}{}
	l.total++
	l.metrics.TripleEmitted()
	l.pending = append(l.pending, message.Triple{
		Subject:    key.subject,
		Predicate:  predicate,
		Object:     obj,
		Source:     l.source,
		Timestamp:  l.started,
		Confidence: 1.0,
	})

	if l.threshold > 0 && len(l.pending) >= l.threshold && !l.closed && l.flushErr == nil {
		_ = l.flushLocked(context.Background()) // kept in flushErr
	}
}

func normalizeObject(object any) any {
	switch v := object.(type) {
	case Resource, IRI, string, bool, int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint16:
		return int64(v)
	case Subject:
		return Resource(v.URI())
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Follow extracts e unless it was already visited in this run. The
// check-then-mark is atomic; extraction itself runs outside the lock so it
// may follow further entities. It reports whether extraction ran.
func (l *Logger) Follow(e Extractable) bool {
	uri := e.URI()

	l.mu.Lock()
	if _, ok := l.visited[uri]; ok {
		l.mu.Unlock()
		return false
	}
	l.visited[uri] = struct{}{}
	l.mu.Unlock()

	e.Extract(l)
	return true
}

// Visited reports whether the entity with uri has been followed.
func (l *Logger) Visited(uri string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.visited[uri]
	return ok
}

// Len returns the number of distinct triples recorded so far.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Flush writes pending triples to the sink. Each triple is written once; a
// later flush appends only what was recorded since. A failed write is
// sticky: no further write is attempted and every Flush returns it.
func (l *Logger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	return l.flushLocked(ctx)
}

func (l *Logger) flushLocked(ctx context.Context) error {
	if l.flushErr != nil {
		return l.flushErr
	}
	if len(l.pending) == 0 {
		return nil
	}
	batch := l.pending
	if err := l.sink.Write(ctx, batch); err != nil {
		l.flushErr = fmt.Errorf("flush %d triples: %w", len(batch), err)
		return l.flushErr
	}
	l.pending = nil
	l.metrics.Flushed()
	l.logger.Debug("Flushed triples", slog.Int("count", len(batch)), slog.Int("total", l.total))
	return nil
}

// Close flushes what is pending and closes the sink.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	err := l.flushLocked(ctx)
	if cerr := l.sink.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close sink: %w", cerr))
	}
	return err
}

// MultiSink writes every batch to each of its sinks in order.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, triples []message.Triple) error {
	for _, s := range m {
		if err := s.Write(ctx, triples); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Sink.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
