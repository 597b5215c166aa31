// Package pipeline wires configuration, classpath, sinks and the
// extraction engine into one run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/config"
	"github.com/c360studio/codeontology/export"
	"github.com/c360studio/codeontology/extraction"
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/metrics"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/storage"
)

// ErrNoModel is returned when no program model path is configured.
var ErrNoModel = errors.New("no program model configured")

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Project  string
	Entities int
	Triples  int
	Explored int
	Archives []string
	Duration time.Duration
}

// Runner performs extraction runs for one configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a runner. cfg must already be validated.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run loads the program model, extracts it into the configured sinks, and
// writes the metrics file. The member pass, the exploration pass and the
// structural pass are each flushed before the next begins.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	cfg := r.cfg

	if cfg.Project.Model == "" {
		return nil, ErrNoModel
	}
	program, err := model.Load(cfg.Project.Model)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	archives, err := classpath.Expand(cfg.Classpath.Archives)
	if err != nil {
		return nil, err
	}
	loader, err := classpath.Open(archives,
		classpath.WithLogger(r.logger),
		classpath.WithCacheSize(cfg.Classpath.CacheSize),
		classpath.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	res = &Result{Archives: archives, Project: projectName(cfg, program)}
	sink, err := r.openSinks(ctx, res)
	if err != nil {
		return nil, err
	}

	log := graph.New(sink,
		graph.WithFlushThreshold(cfg.Output.FlushThreshold),
		graph.WithLogger(r.logger),
		graph.WithMetrics(m))
	// Close is idempotent; this releases the sinks on early returns.
	defer func() {
		if cerr := log.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if err != nil {
			res = nil
		}
	}()

	opts := []extraction.Option{
		extraction.WithDeclarationFacts(config.Enabled(cfg.Extraction.DeclarationFacts, true)),
		extraction.WithArchiveExploration(cfg.Extraction.Explore),
		extraction.WithLogger(r.logger),
		extraction.WithMetrics(m),
	}
	if len(archives) > 0 {
		opts = append(opts, extraction.WithIntrospector(loader))
	}
	x := extraction.New(log, program, opts...)

	if err := x.Extract(ctx); err != nil {
		return nil, fmt.Errorf("extract program: %w", err)
	}
	if err := log.Flush(ctx); err != nil {
		return nil, err
	}

	if cfg.Extraction.Explore && len(archives) > 0 {
		names, err := loader.Classes()
		if err != nil {
			return nil, err
		}
		names = NewClassFilter(cfg.Extraction.Include, cfg.Extraction.Exclude).Apply(names)
		before := len(x.Factory().Entities())
		if err := x.Explore(ctx, names); err != nil {
			return nil, fmt.Errorf("explore classpath: %w", err)
		}
		res.Explored = len(x.Factory().Entities()) - before
		if err := log.Flush(ctx); err != nil {
			return nil, err
		}
	}

	if config.Enabled(cfg.Extraction.Structure, true) {
		if err := x.ExtractStructure(ctx, cfg.Project.Name, loader.Archives()); err != nil {
			return nil, fmt.Errorf("extract structure: %w", err)
		}
		if err := log.Flush(ctx); err != nil {
			return nil, err
		}
	}

	res.Entities = len(x.Factory().Entities())
	res.Triples = log.Len()
	if err := log.Close(ctx); err != nil {
		return nil, err
	}

	if cfg.Metrics.File != "" {
		if err := metrics.WriteFile(cfg.Metrics.File, reg); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	r.logger.Info("Run complete",
		slog.String("project", res.Project),
		slog.Int("entities", res.Entities),
		slog.Int("triples", res.Triples),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// openSinks opens every configured destination. A failure closes what was
// already opened.
func (r *Runner) openSinks(ctx context.Context, res *Result) (graph.Sink, error) {
	cfg := r.cfg
	var sinks graph.MultiSink
	fail := func(err error) (graph.Sink, error) {
		return nil, errors.Join(err, sinks.Close())
	}

	if cfg.Output.Path != "" {
		ser := export.NewSerializer(cfg.Format(), cfg.Output.BaseIRI)
		f, err := export.OpenFile(cfg.Output.Path, ser)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, f)
		r.logger.Debug("Writing RDF", slog.String("path", cfg.Output.Path), slog.String("format", string(ser.Format())))
	}

	if cfg.Output.SQLite != "" {
		store, err := storage.Open(cfg.Output.SQLite, storage.WithLogger(r.logger))
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, store)
		id, err := store.BeginRun(ctx, res.Project)
		if err != nil {
			return fail(err)
		}
		res.RunID = id
	}

	if cfg.NATS.URL != "" {
		pub, err := graph.Connect(cfg.NATS.URL, cfg.NATS.Subject, r.logger)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, pub)
	}

	if len(sinks) == 0 {
		return nil, errors.New("no output configured")
	}
	return sinks, nil
}

func projectName(cfg *config.Config, program *model.Program) string {
	if cfg.Project.Name != "" {
		return cfg.Project.Name
	}
	if program.Project != nil && program.Project.Name != "" {
		return program.Project.Name
	}
	return extraction.DefaultProjectName
}
