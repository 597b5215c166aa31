package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	batches [][]message.Triple
	err     error
	closed  int
}

func (s *recordingSink) Write(_ context.Context, triples []message.Triple) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, append([]message.Triple(nil), triples...))
	return nil
}

func (s *recordingSink) Close() error {
	s.closed++
	return nil
}

func (s *recordingSink) all() []message.Triple {
	var out []message.Triple
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

// countingSink fails its first writes, then accepts everything.
type countingSink struct {
	failures int
	err      error
	writes   int
}

func (s *countingSink) Write(context.Context, []message.Triple) error {
	s.writes++
	if s.writes <= s.failures {
		return s.err
	}
	return nil
}

func (s *countingSink) Close() error { return nil }

type node struct {
	uri   string
	next  []*node
	calls int
}

func (n *node) URI() string { return n.uri }

func (n *node) Extract(l *Logger) {
	n.calls++
	for _, m := range n.next {
		l.AddTriple(n, "test.link.next", m)
		l.Follow(m)
	}
}

func TestAddTripleDropsDuplicates(t *testing.T) {
	sink := &recordingSink{}
	l := New(sink)
	subj := &node{uri: "a.B"}

	l.AddTriple(subj, "test.entity.name", "B")
	l.AddTriple(subj, "test.entity.name", "B")
	l.AddTriple(subj, "test.type.dimensions", 2)
	l.AddTriple(subj, "test.type.dimensions", int64(2))
	l.AddTriple(subj, "test.entity.type", IRI("http://example.org/Class"))
	l.AddTriple(subj, "test.entity.ref", &node{uri: "a.C"})

	require.NoError(t, l.Flush(context.Background()))
	got := sink.all()
	require.Len(t, got, 4)
	assert.Equal(t, "B", got[0].Object)
	assert.Equal(t, int64(2), got[1].Object)
	assert.Equal(t, IRI("http://example.org/Class"), got[2].Object)
	assert.Equal(t, Resource("a.C"), got[3].Object)
	assert.Equal(t, DefaultSource, got[0].Source)
	assert.Equal(t, 4, l.Len())
}

func TestFollowExtractsOnceAndTerminatesCycles(t *testing.T) {
	l := New(&recordingSink{})
	a := &node{uri: "a"}
	b := &node{uri: "b"}
	c := &node{uri: "c"}
	a.next = []*node{b, c}
	b.next = []*node{c, a}
	c.next = []*node{c}

	assert.True(t, l.Follow(a))
	assert.False(t, l.Follow(a))
	assert.False(t, l.Follow(c))

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
	assert.True(t, l.Visited("c"))
	assert.False(t, l.Visited("d"))
}

func TestFlushAppendsOnlyNewTriples(t *testing.T) {
	sink := &recordingSink{}
	l := New(sink)
	subj := &node{uri: "s"}
	ctx := context.Background()

	l.AddTriple(subj, "p.a.b", "1")
	require.NoError(t, l.Flush(ctx))
	require.NoError(t, l.Flush(ctx))
	l.AddTriple(subj, "p.a.b", "1")
	l.AddTriple(subj, "p.a.b", "2")
	require.NoError(t, l.Flush(ctx))

	require.Len(t, sink.batches, 2)
	assert.Len(t, sink.batches[0], 1)
	assert.Len(t, sink.batches[1], 1)
	assert.Equal(t, "2", sink.batches[1][0].Object)
}

func TestAutoFlushThreshold(t *testing.T) {
	sink := &recordingSink{}
	l := New(sink, WithFlushThreshold(2))
	subj := &node{uri: "s"}

	l.AddTriple(subj, "p.a.b", "1")
	assert.Empty(t, sink.batches)
	l.AddTriple(subj, "p.a.b", "2")
	assert.Len(t, sink.batches, 1)
	l.AddTriple(subj, "p.a.b", "3")

	require.NoError(t, l.Close(context.Background()))
	assert.Len(t, sink.batches, 2)
	assert.Equal(t, 1, sink.closed)
}

func TestAutoFlushErrorSurfacesOnFlush(t *testing.T) {
	boom := errors.New("disk full")
	sink := &recordingSink{err: boom}
	l := New(sink, WithFlushThreshold(1))

	l.AddTriple(&node{uri: "s"}, "p.a.b", "1")
	err := l.Flush(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFailedFlushIsNotRetried(t *testing.T) {
	boom := errors.New("disk full")
	sink := &countingSink{failures: 1, err: boom}
	l := New(sink, WithFlushThreshold(1))
	subj := &node{uri: "s"}

	l.AddTriple(subj, "p.a.b", "1")
	l.AddTriple(subj, "p.a.b", "2")
	l.AddTriple(subj, "p.a.b", "3")
	assert.Equal(t, 1, sink.writes)

	assert.ErrorIs(t, l.Flush(context.Background()), boom)
	assert.ErrorIs(t, l.Flush(context.Background()), boom)
	assert.ErrorIs(t, l.Close(context.Background()), boom)
	assert.Equal(t, 1, sink.writes)
	assert.Equal(t, 3, l.Len())
}

func TestCloseLifecycle(t *testing.T) {
	sink := &recordingSink{}
	l := New(sink)
	ctx := context.Background()

	l.AddTriple(&node{uri: "s"}, "p.a.b", "1")
	require.NoError(t, l.Close(ctx))
	require.NoError(t, l.Close(ctx))
	assert.Equal(t, 1, sink.closed)
	assert.Len(t, sink.all(), 1)
	assert.ErrorIs(t, l.Flush(ctx), ErrClosed)
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	l := New(MultiSink{a, b})
	l.AddTriple(&node{uri: "s"}, "p.a.b", true)
	require.NoError(t, l.Close(context.Background()))

	assert.Equal(t, a.all(), b.all())
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)

	failing := MultiSink{&recordingSink{err: errors.New("nope")}, b}
	assert.Error(t, failing.Write(context.Background(), nil))
}

func TestGroupBySubject(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	triples := []message.Triple{
		{Subject: "b", Predicate: "p.a.b", Object: "1"},
		{Subject: "a", Predicate: "p.a.b", Object: "2"},
		{Subject: "b", Predicate: "p.a.c", Object: "3"},
	}

	payloads := GroupBySubject(triples, at)
	require.Len(t, payloads, 2)
	assert.Equal(t, "b", payloads[0].EntityID())
	assert.Len(t, payloads[0].Triples(), 2)
	assert.Equal(t, "a", payloads[1].EntityID())
	assert.Equal(t, at, payloads[1].UpdatedAt)
	assert.NoError(t, payloads[0].Validate())
	assert.Equal(t, EntityMessageType, payloads[0].Schema())

	assert.Error(t, (&EntityPayload{}).Validate())
	mixed := &EntityPayload{Subject: "a", Facts: triples}
	assert.Error(t, mixed.Validate())

	data, err := json.Marshal(payloads[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"a"`)
	var back EntityPayload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "a", back.Subject)
	assert.Len(t, back.Facts, 1)
	assert.True(t, at.Equal(back.UpdatedAt))
}

func TestPublisherWithoutConnectionSkips(t *testing.T) {
	p := NewPublisher(nil, "", nil)
	assert.Equal(t, GraphIngestSubject, p.subject)
	assert.NoError(t, p.Write(context.Background(), []message.Triple{{Subject: "s"}}))
	assert.NoError(t, p.Close())
}

func TestRegisterPayloads(t *testing.T) {
	reg := payloadregistry.New()
	require.NoError(t, RegisterPayloads(reg))
	assert.Error(t, RegisterPayloads(reg), "duplicate registration")

	t.Run("registry creates entity payloads", func(t *testing.T) {
		created := reg.Create(EntityMessageType.Domain, EntityMessageType.Category, EntityMessageType.Version)
		assert.IsType(t, &EntityPayload{}, created)
	})

	t.Run("publisher decodes its wire form", func(t *testing.T) {
		p := NewPublisher(nil, "", nil)
		payload := GroupBySubject([]message.Triple{{Subject: "a", Predicate: "p.a.b", Object: "x"}}, time.Now())[0]
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		back, err := p.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "a", back.EntityID())
		assert.Len(t, back.Triples(), 1)

		_, err = p.Decode([]byte(`{"id":"","triples":[]}`))
		assert.Error(t, err)
	})
}
