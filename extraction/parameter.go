package extraction

import (
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// Parameter is a formal parameter of an executable. Class files carry no
// parameter names, so reference-only parameters are identified by index
// alone.
type Parameter struct {
	base
	exec  *Executable
	index int
	decl  *model.Parameter
}

func (p *Parameter) Kind() Kind { return KindParameter }

func (p *Parameter) Provenance() Provenance {
	if p.decl != nil {
		return DeclarationBacked
	}
	return ReferenceOnly
}

// Index returns the zero-based position.
func (p *Parameter) Index() int { return p.index }

// Executable returns the method or constructor the parameter belongs to.
func (p *Parameter) Executable() *Executable { return p.exec }

func (p *Parameter) Name() string {
	if p.decl == nil {
		return ""
	}
	return p.decl.Name
}

func (p *Parameter) Modifiers() []model.Modifier {
	if p.decl == nil {
		return nil
	}
	return model.DecodeModifiers(p.decl.Modifiers, model.TargetParameter)
}

func (p *Parameter) Type() Entity {
	params := p.exec.signature().params
	if p.index >= len(params) {
		return nil
	}
	return p.f.WrapType(params[p.index], p)
}

func (p *Parameter) Annotations() []Entity {
	if p.decl == nil {
		return nil
	}
	return p.f.wrapAnnotations(p.decl.Annotations, p)
}

// Comment returns the @param text of the executable's doc comment.
func (p *Parameter) Comment() string {
	if p.decl == nil || p.exec.decl == nil {
		return ""
	}
	return parseDoc(p.exec.decl.Comment).params[p.decl.Name]
}

func (p *Parameter) Extract(l *graph.Logger) {
	f := p.f
	f.tagType(l, p, woc.ClassParameter)
	f.link(l, p, woc.HasType, p.Type())
	l.AddTriple(p, woc.Position, p.index)

	if p.decl == nil {
		return
	}
	f.tagName(l, p)
	f.tagModifiers(l, p)
	f.tagAnnotations(l, p)
	f.tagComment(l, p)
	f.tagPosition(l, p, p.decl.Position)
}
