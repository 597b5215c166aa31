package extraction

import (
	"context"
	"log/slog"
	"slices"

	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
)

// DefaultProjectName names the project entity when neither the model nor
// the caller provides one.
const DefaultProjectName = "project"

// Extractor drives one run: it owns the identity cache and feeds roots to
// the graph logger.
type Extractor struct {
	log     *graph.Logger
	factory *Factory
	program *model.Program
	logger  *slog.Logger
}

// New creates an extractor writing into log.
func New(log *graph.Logger, program *model.Program, opts ...Option) *Extractor {
	f := NewFactory(program, opts...)
	return &Extractor{
		log:     log,
		factory: f,
		program: f.program,
		logger:  f.logger,
	}
}

// Factory returns the identity cache of the run.
func (x *Extractor) Factory() *Factory { return x.factory }

// Extract follows every declared package and type, then every member
// reference the front-end recorded. It stops early only when ctx is done.
func (x *Extractor) Extract(ctx context.Context) error {
	f := x.factory
	for _, pkg := range x.program.Packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p := f.WrapPackage(pkg); p != nil {
			x.log.Follow(p)
			continue
		}
		for _, d := range pkg.Types {
			x.log.Follow(f.WrapDeclaration(d))
		}
	}

	refs := 0
	for _, ref := range x.program.References {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := f.WrapMemberRef(ref)
		if e == nil {
			x.logger.Debug("Skipping unusable member reference", slog.Any("reference", ref))
			continue
		}
		x.log.Follow(e)
		refs++
	}

	x.logger.Info("Extracted program",
		slog.Int("packages", len(x.program.Packages)),
		slog.Int("references", refs),
		slog.Int("entities", len(f.Entities())),
		slog.Int("triples", x.log.Len()))
	return nil
}

// Explore follows binary-only types by name, as discovered in classpath
// archives. Types the program declares, and anonymous, local or synthetic
// classes, are skipped.
func (x *Extractor) Explore(ctx context.Context, names []string) error {
	f := x.factory
	explored := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, declared := x.program.Lookup(name); declared {
			continue
		}
		t := f.WrapTypeName(name)
		if c := t.class; c == nil || c.Local() || c.Synthetic() {
			continue
		}
		if x.log.Follow(t) {
			explored++
		}
	}
	x.logger.Info("Explored classpath",
		slog.Int("classes", len(names)),
		slog.Int("explored", explored),
		slog.Int("triples", x.log.Len()))
	return nil
}

// ExtractStructure runs the structural pass: the project entity and the
// archives it depends on. name overrides the model's project name.
func (x *Extractor) ExtractStructure(ctx context.Context, name string, archives []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var deps []string
	if p := x.program.Project; p != nil {
		if name == "" {
			name = p.Name
		}
		deps = append(deps, p.Dependencies...)
	}
	if name == "" {
		name = DefaultProjectName
	}
	for _, a := range archives {
		if !slices.Contains(deps, a) {
			deps = append(deps, a)
		}
	}
	x.log.Follow(x.factory.WrapProject(name, deps))
	x.logger.Info("Extracted project structure",
		slog.String("project", name),
		slog.Int("dependencies", len(deps)))
	return nil
}
