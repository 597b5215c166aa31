// Package metrics holds the Prometheus instruments of an extraction run.
//
// All methods are safe on a nil *Metrics so components can run without
// instrumentation.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "codeontology"

// Metrics groups the counters updated during extraction.
type Metrics struct {
	entities      *prometheus.CounterVec
	triples       prometheus.Counter
	duplicates    prometheus.Counter
	flushes       prometheus.Counter
	introspection *prometheus.CounterVec
	classCache    *prometheus.CounterVec
}

// New creates the instruments and registers them on reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_extracted_total",
			Help:      "Entities whose facts were extracted, by kind and provenance.",
		}, []string{"kind", "provenance"}),
		triples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_emitted_total",
			Help:      "Distinct triples accepted by the graph logger.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_duplicate_total",
			Help:      "Triples dropped because the same fact was already emitted.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Non-empty flushes of pending triples to the sinks.",
		}),
		introspection: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "introspection_failures_total",
			Help:      "Attributes of reference-only entities that degraded to a default.",
		}, []string{"attribute"}),
		classCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "class_cache_lookups_total",
			Help:      "Class lookups served by the loader, by cache result.",
		}, []string{"result"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.entities, m.triples, m.duplicates, m.flushes, m.introspection, m.classCache} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// EntityExtracted counts one extracted entity.
func (m *Metrics) EntityExtracted(kind, provenance string) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(kind, provenance).Inc()
}

// TripleEmitted counts one accepted triple.
func (m *Metrics) TripleEmitted() {
	if m == nil {
		return
	}
	m.triples.Inc()
}

// TripleDuplicate counts one dropped duplicate.
func (m *Metrics) TripleDuplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

// Flushed counts one flush.
func (m *Metrics) Flushed() {
	if m == nil {
		return
	}
	m.flushes.Inc()
}

// IntrospectionFailed counts an attribute that fell back to its default.
func (m *Metrics) IntrospectionFailed(attribute string) {
	if m == nil {
		return
	}
	m.introspection.WithLabelValues(attribute).Inc()
}

// ClassLookup counts a loader lookup.
func (m *Metrics) ClassLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.classCache.WithLabelValues(result).Inc()
}

// WriteFile writes the gathered metrics in the text exposition format.
func WriteFile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
