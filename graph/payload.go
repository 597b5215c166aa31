package graph

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
)

// EntityMessageType identifies code entity payloads on the wire.
var EntityMessageType = message.Type{Domain: "codeontology", Category: "entity", Version: "v1"}

// RegisterPayloads registers the entity payload with reg so consumers can
// decode it by message type.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	err := reg.Register(&payloadregistry.Registration{
		Domain:      EntityMessageType.Domain,
		Category:    EntityMessageType.Category,
		Version:     EntityMessageType.Version,
		Description: "Code entity with its woc triples for graph ingestion",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", EntityMessageType, err)
	}
	return nil
}

// EntityPayload carries every triple of one subject from one flush. The
// wire form uses the "id", "triples" and "updated_at" keys the graph
// ingester reads.
type EntityPayload struct {
	Subject   string
	Facts     []message.Triple
	UpdatedAt time.Time
}

type entityWire struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// EntityID returns the relative URI of the subject.
func (p *EntityPayload) EntityID() string { return p.Subject }

// Triples returns the facts about the subject.
func (p *EntityPayload) Triples() []message.Triple { return p.Facts }

// Schema returns the message type.
func (p *EntityPayload) Schema() message.Type { return EntityMessageType }

// Validate checks that the payload is about a single, named subject.
func (p *EntityPayload) Validate() error {
	if p.Subject == "" {
		return fmt.Errorf("entity payload: subject is required")
	}
	if len(p.Facts) == 0 {
		return fmt.Errorf("entity payload %s: no triples", p.Subject)
	}
	for _, t := range p.Facts {
		if t.Subject != p.Subject {
			return fmt.Errorf("entity payload %s: triple about %s", p.Subject, t.Subject)
		}
	}
	return nil
}

// MarshalJSON writes the wire form.
func (p *EntityPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(entityWire{ID: p.Subject, Triples: p.Facts, UpdatedAt: p.UpdatedAt})
}

// UnmarshalJSON reads the wire form.
func (p *EntityPayload) UnmarshalJSON(data []byte) error {
	var w entityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Subject, p.Facts, p.UpdatedAt = w.ID, w.Triples, w.UpdatedAt
	return nil
}

// GroupBySubject splits a batch into one payload per subject, in order of
// first appearance.
func GroupBySubject(triples []message.Triple, at time.Time) []*EntityPayload {
	index := make(map[string]int)
	var out []*EntityPayload
	for _, t := range triples {
		i, ok := index[t.Subject]
		if !ok {
			i = len(out)
			index[t.Subject] = i
			out = append(out, &EntityPayload{Subject: t.Subject, UpdatedAt: at})
		}
		out[i].Facts = append(out[i].Facts, t)
	}
	return out
}
