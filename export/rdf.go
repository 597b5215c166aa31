// Package export serializes extracted triples as RDF.
//
// Relative entity URIs are resolved against a base IRI, dotted predicates
// are translated to their woc IRIs, and literals carry XML Schema
// datatypes. N-Triples and Turtle are supported; both can be appended to
// batch by batch.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// DefaultBaseIRI prefixes relative entity URIs.
const DefaultBaseIRI = "http://rdf.webofcode.org/entity/"

// prefixes are declared at the top of Turtle output, longest namespace
// first so that compaction picks the most specific one.
var prefixes = []struct{ name, iri string }{
	{"woc", woc.Namespace},
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"xsd", woc.XSD},
}

// Serializer turns triples into RDF text.
type Serializer struct {
	format Format
	base   string
}

// NewSerializer creates a serializer. An empty base selects DefaultBaseIRI.
func NewSerializer(format Format, base string) *Serializer {
	if base == "" {
		base = DefaultBaseIRI
	}
	if format == "" {
		format = FormatNTriples
	}
	return &Serializer{format: format, base: base}
}

// Format returns the output format.
func (s *Serializer) Format() Format { return s.format }

// WriteHeader writes the document preamble: prefix declarations for Turtle,
// nothing for N-Triples.
func (s *Serializer) WriteHeader(w io.Writer) error {
	if s.format != FormatTurtle {
		return nil
	}
	var sb strings.Builder
	for _, p := range prefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p.name, p.iri)
	}
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// Write serializes one batch.
func (s *Serializer) Write(w io.Writer, triples []message.Triple) error {
	var out string
	switch s.format {
	case FormatTurtle:
		out = s.toTurtle(triples)
	case FormatNTriples:
		out = s.toNTriples(triples)
	default:
		return fmt.Errorf("unsupported format: %s", s.format)
	}
	_, err := io.WriteString(w, out)
	return err
}

// String serializes a complete document.
func (s *Serializer) String(triples []message.Triple) (string, error) {
	var sb strings.Builder
	if err := s.WriteHeader(&sb); err != nil {
		return "", err
	}
	if err := s.Write(&sb, triples); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (s *Serializer) toNTriples(triples []message.Triple) string {
	var sb strings.Builder
	for _, t := range triples {
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n",
			s.EntityIRI(t.Subject), woc.PredicateIRI(t.Predicate), s.formatObjectNTriples(t.Object))
	}
	return sb.String()
}

// toTurtle groups consecutive triples of the same subject into one block.
func (s *Serializer) toTurtle(triples []message.Triple) string {
	var sb strings.Builder
	for i, t := range triples {
		if i == 0 || triples[i-1].Subject != t.Subject {
			fmt.Fprintf(&sb, "<%s>\n", s.EntityIRI(t.Subject))
		}
		predicate := woc.PredicateIRI(t.Predicate)
		if predicate == woc.RdfType {
			predicate = "a"
		} else {
			predicate = compact(predicate)
		}
		terminator := " ;"
		if i == len(triples)-1 || triples[i+1].Subject != t.Subject {
			terminator = " .\n"
		}
		fmt.Fprintf(&sb, "    %s %s%s\n", predicate, s.formatObject(t.Object), terminator)
	}
	return sb.String()
}

// EntityIRI resolves a relative entity URI against the base IRI.
func (s *Serializer) EntityIRI(uri string) string {
	return escapeIRI(s.base + uri)
}

// formatObject formats an object value for Turtle output.
func (s *Serializer) formatObject(obj any) string {
	switch v := obj.(type) {
	case graph.IRI:
		return compact(string(v))
	case graph.Resource:
		return fmt.Sprintf("<%s>", s.EntityIRI(string(v)))
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int64:
		return fmt.Sprintf("\"%d\"^^xsd:int", v)
	case int:
		return fmt.Sprintf("\"%d\"^^xsd:int", v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// formatObjectNTriples formats an object value for N-Triples output.
func (s *Serializer) formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case graph.IRI:
		return fmt.Sprintf("<%s>", escapeIRI(string(v)))
	case graph.Resource:
		return fmt.Sprintf("<%s>", s.EntityIRI(string(v)))
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int64:
		return fmt.Sprintf("\"%d\"^^<%sint>", v, woc.XSD)
	case int:
		return fmt.Sprintf("\"%d\"^^<%sint>", v, woc.XSD)
	case bool:
		return fmt.Sprintf("\"%t\"^^<%sboolean>", v, woc.XSD)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// compact abbreviates iri with a declared prefix when the local part is a
// plain name, and otherwise writes it in angle brackets.
func compact(iri string) string {
	for _, p := range prefixes {
		local, ok := strings.CutPrefix(iri, p.iri)
		if ok && isPlainLocal(local) {
			return p.name + ":" + local
		}
	}
	return fmt.Sprintf("<%s>", escapeIRI(iri))
}

func isPlainLocal(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// escapeIRI percent-encodes the characters an IRI reference may not hold.
// Entity URIs contain angle brackets for type arguments and may contain
// spaces in archive names.
func escapeIRI(s string) string {
	if !strings.ContainsFunc(s, needsIRIEscape) {
		return s
	}
	var sb strings.Builder
	for _, b := range []byte(s) {
		if b <= 0x20 || strings.IndexByte("<>\"{}|^`\\", b) >= 0 {
			fmt.Fprintf(&sb, "%%%02X", b)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func needsIRIEscape(r rune) bool {
	return r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r)
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
