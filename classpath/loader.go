// Package classpath reads compiled Java classes from jar archives and class
// directories. It stands in for runtime reflection: given a binary name it
// returns the parsed class, or an error wrapping ErrNotFound or ErrMalformed.
package classpath

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/c360studio/codeontology/metrics"
)

// DefaultCacheSize bounds the number of parsed classes kept in memory.
const DefaultCacheSize = 4096

type lookupResult struct {
	class *Class
	err   error
}

// Loader resolves binary class names against an ordered list of entries.
// The first entry holding a class wins. Loader is safe for concurrent use.
type Loader struct {
	entries   []entry
	cache     *lru.Cache[string, lookupResult]
	cacheSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu sync.Mutex
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithCacheSize sets the number of lookups kept in the LRU cache.
func WithCacheSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.cacheSize = n
		}
	}
}

// WithMetrics records cache hits and misses.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// Open opens every path as a jar archive or class directory.
func Open(paths []string, opts ...Option) (*Loader, error) {
	l := &Loader{cacheSize: DefaultCacheSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}

	cache, err := lru.New[string, lookupResult](l.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create class cache: %w", err)
	}
	l.cache = cache

	for _, p := range paths {
		e, err := openEntry(p)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.entries = append(l.entries, e)
		l.logger.Debug("Opened classpath entry", slog.String("path", p))
	}
	return l, nil
}

// Expand resolves doublestar patterns (lib/**/*.jar) into a sorted,
// de-duplicated list of existing paths. Patterns without meta characters
// are kept as given.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand classpath pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// Lookup returns the class with the given dotted binary name.
func (l *Loader) Lookup(name string) (*Class, error) {
	if r, ok := l.cache.Get(name); ok {
		l.metrics.ClassLookup(true)
		return r.class, r.err
	}
	l.metrics.ClassLookup(false)

	c, err := l.load(name)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrMalformed) {
		// I/O failures may be transient and are not cached.
		return nil, err
	}
	l.cache.Add(name, lookupResult{class: c, err: err})
	return c, err
}

func (l *Loader) load(name string) (*Class, error) {
	rel := strings.ReplaceAll(name, ".", "/") + ".class"

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		data, err := e.read(rel)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", rel, e.path(), err)
		}
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s from %s: %w", rel, e.path(), err)
		}
		if c.Name != name {
			// A versioned or misplaced copy of another class.
			continue
		}
		c.Origin = e.path()
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Classes enumerates the binary names of every class on the classpath in
// sorted order, skipping module and package descriptors and everything under
// META-INF, which includes the versioned copies of multi-release jars.
func (l *Loader) Classes() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, e := range l.entries {
		names, err := e.list()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", e.path(), err)
		}
		for _, rel := range names {
			if !strings.HasSuffix(rel, ".class") || strings.HasPrefix(rel, "META-INF/") {
				continue
			}
			base := filepath.Base(rel)
			if base == "module-info.class" || base == "package-info.class" {
				continue
			}
			name := strings.ReplaceAll(strings.TrimSuffix(rel, ".class"), "/", ".")
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Archives returns the jar archives on the classpath, in classpath order.
func (l *Loader) Archives() []string {
	var out []string
	for _, e := range l.entries {
		if _, ok := e.(*archiveEntry); ok {
			out = append(out, e.path())
		}
	}
	return out
}

// Close releases open archives.
func (l *Loader) Close() error {
	var errs []error
	for _, e := range l.entries {
		if err := e.close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.entries = nil
	return errors.Join(errs...)
}

type entry interface {
	path() string
	read(rel string) ([]byte, error)
	list() ([]string, error)
	close() error
}

func openEntry(p string) (entry, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("classpath entry: %w", err)
	}
	if info.IsDir() {
		return &dirEntry{root: p}, nil
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", p, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &archiveEntry{file: p, zr: zr, files: files}, nil
}

type archiveEntry struct {
	file  string
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

func (a *archiveEntry) path() string { return a.file }

func (a *archiveEntry) read(rel string) ([]byte, error) {
	f, ok := a.files[rel]
	if !ok {
		return nil, fs.ErrNotExist
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *archiveEntry) list() ([]string, error) {
	out := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		out = append(out, f.Name)
	}
	return out, nil
}

func (a *archiveEntry) close() error { return a.zr.Close() }

type dirEntry struct {
	root string
}

func (d *dirEntry) path() string { return d.root }

func (d *dirEntry) read(rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.root, filepath.FromSlash(rel)))
}

func (d *dirEntry) list() ([]string, error) {
	var out []string
	err := filepath.WalkDir(d.root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func (d *dirEntry) close() error { return nil }
