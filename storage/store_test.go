package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTriples() []message.Triple {
	return []message.Triple{
		{Subject: "demo.Box", Predicate: woc.TypeOf, Object: graph.IRI(woc.ClassClass), Source: "test", Confidence: 1},
		{Subject: "demo.Box", Predicate: woc.Name, Object: "Box", Source: "test", Confidence: 1},
		{Subject: "demo.Box/value", Predicate: woc.HasType, Object: graph.Resource("int"), Source: "test", Confidence: 1},
		{Subject: "demo.Box/set(int)/parameter/0", Predicate: woc.Position, Object: int64(0), Source: "test", Confidence: 1},
		{Subject: "demo.Box/set(int)", Predicate: woc.VarArgs, Object: true, Source: "test", Confidence: 1},
	}
}

func TestWriteAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Write(ctx, sampleTriples()))

	all, err := s.Query(ctx, Pattern{})
	require.NoError(t, err)
	assert.Equal(t, sampleTriples(), all)

	tests := []struct {
		name    string
		pattern Pattern
		want    int
	}{
		{"by subject", Pattern{Subject: "demo.Box"}, 2},
		{"by predicate", Pattern{Predicate: woc.HasType}, 1},
		{"by object", Pattern{Object: "int"}, 1},
		{"subject and predicate", Pattern{Subject: "demo.Box", Predicate: woc.Name}, 1},
		{"limit", Pattern{Limit: 3}, 3},
		{"no match", Pattern{Subject: "missing"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(ctx, tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestWriteIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Write(ctx, sampleTriples()))
	require.NoError(t, s.Write(ctx, sampleTriples()))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(sampleTriples()), n)

	// Same text, different kind, is a different fact.
	require.NoError(t, s.Write(ctx, []message.Triple{
		{Subject: "demo.Box/value", Predicate: woc.HasType, Object: "int"},
	}))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(sampleTriples())+1, n)
}

func TestSubjectNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Subject(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Write(context.Background(), sampleTriples()))
	got, err := s.Subject(context.Background(), "demo.Box")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRunsAreRecorded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.BeginRun(ctx, "demo")
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, sampleTriples()))
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(ctx, sampleTriples()), ErrClosed)

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "demo", runs[0].Project)
	assert.EqualValues(t, len(sampleTriples()), runs[0].Triples)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestStoreAsLoggerSink(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")
	s, err := Open(path)
	require.NoError(t, err)

	l := graph.New(s, graph.WithFlushThreshold(2))
	box := graph.Resource("demo.Box")
	l.AddTriple(subject("demo.Box"), woc.Name, "Box")
	l.AddTriple(subject("demo.Box"), woc.Label, "box")
	l.AddTriple(subject("demo.Box/value"), woc.DeclaredBy, box)
	require.NoError(t, l.Close(ctx))

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestObjectCodec(t *testing.T) {
	tests := []struct {
		name string
		obj  any
		kind string
		want any
	}{
		{"iri", graph.IRI(woc.ModifierPublic), KindIRI, graph.IRI(woc.ModifierPublic)},
		{"resource", graph.Resource("java.lang.String"), KindResource, graph.Resource("java.lang.String")},
		{"string", "Box", KindString, "Box"},
		{"int", 3, KindInt, int64(3)},
		{"int64", int64(-1), KindInt, int64(-1)},
		{"bool", false, KindBool, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, kind := EncodeObject(tt.obj)
			assert.Equal(t, tt.kind, kind)
			got, err := DecodeObject(text, kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DecodeObject("x", "blob")
	assert.ErrorIs(t, err, ErrUnknownObjectKind)
	_, err = DecodeObject("yes?", KindBool)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
	_, err = Open(filepath.Join(t.TempDir(), "x.db"), WithMaxOpenConns(0))
	assert.Error(t, err)
}

type subject string

func (s subject) URI() string { return string(s) }
