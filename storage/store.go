// Package storage keeps extracted triples in a sqlite database so that a
// graph can be queried after the run without loading an RDF file.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/c360studio/codeontology/graph"
)

//go:embed schema.sql
var schemaSQL string

// Object kinds as stored in the object_kind column.
const (
	KindIRI      = "iri"
	KindResource = "resource"
	KindString   = "string"
	KindInt      = "int"
	KindBool     = "bool"
)

// Config configures the database connection.
type Config struct {
	Path         string
	MaxOpenConns int
	BusyTimeout  time.Duration
	Logger       *slog.Logger
}

// Option is a functional option for configuring Config.
type Option func(*Config)

// WithMaxOpenConns sets the maximum number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) { c.MaxOpenConns = n }
}

// WithBusyTimeout sets how long a writer waits for a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Config) { c.BusyTimeout = d }
}

// WithLogger sets the slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store config: path is required")
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("store config: MaxOpenConns must be at least 1, got %d", c.MaxOpenConns)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("store config: BusyTimeout must not be negative")
	}
	return nil
}

// Run describes one extraction run recorded in the store.
type Run struct {
	ID         string
	Project    string
	StartedAt  time.Time
	FinishedAt time.Time
	Triples    int64
}

// Pattern selects triples. Empty fields match anything.
type Pattern struct {
	Subject   string
	Predicate string
	Object    string
	Limit     int
}

// Store is a triple sink backed by sqlite. Triples are unique on
// (subject, predicate, object); writing a known triple is a no-op.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	runID    string
	inserted int64
	closed   bool
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := Config{Path: path, MaxOpenConns: 1, BusyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_synchronous=normal&_busy_timeout=%d",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database at %s: %w", cfg.Path, err)
	}

	s := &Store{db: db, path: cfg.Path, logger: cfg.Logger}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema. It is idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema on %s: %w", s.path, err)
	}
	return nil
}

// BeginRun records a new run; triples written afterwards are attributed
// to it. It returns the run ID.
func (s *Store) BeginRun(ctx context.Context, project string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, project, started_at) VALUES (?, ?, ?)`,
		id, project, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	s.runID = id
	s.inserted = 0
	s.logger.Debug("Started store run", slog.String("run", id), slog.String("project", project))
	return id, nil
}

// Write inserts a batch in one transaction.
func (s *Store) Write(ctx context.Context, triples []message.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO triples
		(subject, predicate, object, object_kind, source, confidence, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	run := sql.NullString{String: s.runID, Valid: s.runID != ""}
	var inserted int64
	for _, t := range triples {
		object, kind := EncodeObject(t.Object)
		res, err := stmt.ExecContext(ctx, t.Subject, t.Predicate, object, kind, t.Source, t.Confidence, run)
		if err != nil {
			return fmt.Errorf("insert triple %s %s: %w", t.Subject, t.Predicate, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %d triples: %w", len(triples), err)
	}
	s.inserted += inserted
	return nil
}

// Query returns the triples matching p in insertion order.
func (s *Store) Query(ctx context.Context, p Pattern) ([]message.Triple, error) {
	var (
		where []string
		args  []any
	)
	if p.Subject != "" {
		where = append(where, "subject = ?")
		args = append(args, p.Subject)
	}
	if p.Predicate != "" {
		where = append(where, "predicate = ?")
		args = append(args, p.Predicate)
	}
	if p.Object != "" {
		where = append(where, "object = ?")
		args = append(args, p.Object)
	}
	query := "SELECT subject, predicate, object, object_kind, source, confidence FROM triples"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if p.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(p.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query triples: %w", err)
	}
	defer rows.Close()

	var out []message.Triple
	for rows.Next() {
		var (
			t            message.Triple
			object, kind string
		)
		if err := rows.Scan(&t.Subject, &t.Predicate, &object, &kind, &t.Source, &t.Confidence); err != nil {
			return nil, fmt.Errorf("scan triple: %w", err)
		}
		if t.Object, err = DecodeObject(object, kind); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Subject returns every triple about subject, or ErrNotFound.
func (s *Store) Subject(ctx context.Context, subject string) ([]message.Triple, error) {
	triples, err := s.Query(ctx, Pattern{Subject: subject})
	if err != nil {
		return nil, err
	}
	if len(triples) == 0 {
		return nil, fmt.Errorf("subject %s: %w", subject, ErrNotFound)
	}
	return triples, nil
}

// Count returns the number of stored triples.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM triples").Scan(&n); err != nil {
		return 0, fmt.Errorf("count triples: %w", err)
	}
	return n, nil
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, started_at, finished_at, triples FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Project, &r.StartedAt, &finished, &r.Triples); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.FinishedAt = finished.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close finishes the current run and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.runID != "" {
		_, err = s.db.Exec(`UPDATE runs SET finished_at = ?, triples = ? WHERE id = ?`,
			time.Now().UTC(), s.inserted, s.runID)
		if err != nil {
			err = fmt.Errorf("finish run %s: %w", s.runID, err)
		}
		s.logger.Debug("Finished store run", slog.String("run", s.runID), slog.Int64("inserted", s.inserted))
	}
	if cerr := s.db.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// EncodeObject flattens a triple object into its stored text and kind.
func EncodeObject(obj any) (string, string) {
	switch v := obj.(type) {
	case graph.IRI:
		return string(v), KindIRI
	case graph.Resource:
		return string(v), KindResource
	case string:
		return v, KindString
	case int64:
		return strconv.FormatInt(v, 10), KindInt
	case int:
		return strconv.Itoa(v), KindInt
	case bool:
		return strconv.FormatBool(v), KindBool
	default:
		return fmt.Sprint(v), KindString
	}
}

// DecodeObject restores a stored object.
func DecodeObject(object, kind string) (any, error) {
	switch kind {
	case KindIRI:
		return graph.IRI(object), nil
	case KindResource:
		return graph.Resource(object), nil
	case KindString:
		return object, nil
	case KindInt:
		n, err := strconv.ParseInt(object, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode int object %q: %w", object, err)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(object)
		if err != nil {
			return nil, fmt.Errorf("decode bool object %q: %w", object, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownObjectKind, kind)
}
