package extraction

import (
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// The tag operations below each emit one group of facts. Extract methods
// compose them; tags that need a source declaration check provenance
// themselves so reference-only entities skip them uniformly.

func (f *Factory) tagType(l *graph.Logger, e Entity, class string) {
	f.metrics.EntityExtracted(e.Kind().String(), e.Provenance().String())
	l.AddTriple(e, woc.TypeOf, graph.IRI(class))
}

func (f *Factory) tagName(l *graph.Logger, e Named) {
	name := e.Name()
	if name == "" {
		return
	}
	l.AddTriple(e, woc.Name, name)
	l.AddTriple(e, woc.Label, label(name))
}

func (f *Factory) tagModifiers(l *graph.Logger, e Modifiable) {
	for _, m := range e.Modifiers() {
		l.AddTriple(e, woc.HasModifier, graph.IRI(woc.ModifierIRI(m)))
	}
}

func (f *Factory) tagDeclaringElement(l *graph.Logger, e Member) {
	if owner := e.DeclaringType(); owner != nil {
		f.link(l, e, woc.DeclaredBy, owner)
	}
}

func (f *Factory) tagAnnotations(l *graph.Logger, e Annotated) {
	if e.Provenance() != DeclarationBacked {
		return
	}
	for _, a := range e.Annotations() {
		f.link(l, e, woc.HasAnnotation, a)
	}
}

// sourceFacts reports whether comment, position and source facts apply.
func (f *Factory) sourceFacts(e Entity) bool {
	return f.declarationFacts && e.Provenance() == DeclarationBacked
}

func (f *Factory) tagComment(l *graph.Logger, e Commented) {
	if !f.sourceFacts(e) {
		return
	}
	if c := e.Comment(); c != "" {
		l.AddTriple(e, woc.Comment, c)
	}
}

func (f *Factory) tagPosition(l *graph.Logger, e Entity, pos *model.Position) {
	if pos == nil || !f.sourceFacts(e) {
		return
	}
	if pos.Line > 0 {
		l.AddTriple(e, woc.Line, pos.Line)
	}
	if pos.EndLine > 0 {
		l.AddTriple(e, woc.EndLine, pos.EndLine)
	}
}

func (f *Factory) tagSource(l *graph.Logger, e Entity, source string) {
	if source == "" || !f.sourceFacts(e) {
		return
	}
	l.AddTriple(e, woc.SourceCode, source)
}

// link records subject-predicate-object and follows object.
func (f *Factory) link(l *graph.Logger, subject Entity, predicate string, object Entity) {
	if object == nil {
		return
	}
	l.AddTriple(subject, predicate, object)
	l.Follow(object)
}
