package extraction

import (
	"context"
	"fmt"
	"testing"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
)

// fakeClasses serves parsed classes by binary name.
type fakeClasses map[string]*classpath.Class

func (c fakeClasses) Lookup(name string) (*classpath.Class, error) {
	if cl, ok := c[name]; ok {
		return cl, nil
	}
	return nil, fmt.Errorf("class %s: %w", name, classpath.ErrNotFound)
}

type collectSink struct {
	triples []message.Triple
}

func (s *collectSink) Write(_ context.Context, triples []message.Triple) error {
	s.triples = append(s.triples, triples...)
	return nil
}

func (s *collectSink) Close() error { return nil }

// run extracts program and returns every emitted triple.
func run(t *testing.T, program *model.Program, opts ...Option) []message.Triple {
	t.Helper()
	sink := &collectSink{}
	log := graph.New(sink)
	x := New(log, program, opts...)
	require.NoError(t, x.Extract(context.Background()))
	require.NoError(t, log.Close(context.Background()))
	return sink.triples
}

// facts groups the objects of one subject by predicate.
func facts(triples []message.Triple, subject string) map[string][]any {
	out := make(map[string][]any)
	for _, tr := range triples {
		if tr.Subject == subject {
			out[tr.Predicate] = append(out[tr.Predicate], tr.Object)
		}
	}
	return out
}

func iri(s string) graph.IRI           { return graph.IRI(s) }
func resource(s string) graph.Resource { return graph.Resource(s) }

func newProgram(pkgs ...*model.Package) *model.Program {
	p := &model.Program{Packages: pkgs}
	p.Index()
	return p
}

func newPackage(name string, types ...*model.TypeDecl) *model.Package {
	return &model.Package{Name: name, Types: types}
}
