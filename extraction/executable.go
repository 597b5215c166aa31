package extraction

import (
	"sync"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// Executable is a method or constructor.
type Executable struct {
	base
	owner       *DeclaredType
	name        string
	constructor bool
	decl        *model.Method

	member    *classpath.Member
	memberErr error
	ref       *model.MemberRef
	// erased holds the erased parameter types the URI was built from.
	erased []*model.TypeRef

	shapeOnce sync.Once
	sig       shape
}

// shape is the signature of an executable as far as it could be recovered.
type shape struct {
	typeParams []*model.TypeParameter
	params     []*model.TypeRef
	result     *model.TypeRef
	throws     []*model.TypeRef
	varArgs    bool
}

func (e *Executable) Kind() Kind {
	if e.constructor {
		return KindConstructor
	}
	return KindMethod
}

func (e *Executable) Provenance() Provenance {
	if e.decl != nil {
		return DeclarationBacked
	}
	return ReferenceOnly
}

// Name returns the method name, or the simple type name for constructors.
func (e *Executable) Name() string { return e.name }

func (e *Executable) DeclaringType() *DeclaredType { return e.owner }

func (e *Executable) Modifiers() []model.Modifier {
	if e.decl != nil {
		return model.DecodeModifiers(e.decl.Modifiers, model.TargetMethod)
	}
	if e.member == nil {
		e.f.degrade("modifiers", e.uri, e.memberErr)
		return nil
	}
	return model.DecodeModifiers(e.member.Access, model.TargetMethod)
}

// Type returns the return type entity; constructors have none.
func (e *Executable) Type() Entity {
	if e.constructor {
		return nil
	}
	return e.f.WrapType(e.signature().result, e)
}

// Parameters wraps the formal parameters in order.
func (e *Executable) Parameters() []*Parameter {
	n := len(e.signature().params)
	out := make([]*Parameter, n)
	for i := range n {
		out[i] = e.f.WrapParameter(e, i)
	}
	return out
}

func (e *Executable) Annotations() []Entity {
	if e.decl == nil {
		return nil
	}
	return e.f.wrapAnnotations(e.decl.Annotations, e)
}

func (e *Executable) Comment() string {
	if e.decl == nil {
		return ""
	}
	return parseDoc(e.decl.Comment).description
}

func (e *Executable) typeParameters() []*model.TypeParameter {
	return e.signature().typeParams
}

// signature recovers the executable's shape once. Reference-only
// executables prefer the generic signature, then the erased descriptor,
// then the member reference.
func (e *Executable) signature() shape {
	e.shapeOnce.Do(func() {
		if d := e.decl; d != nil {
			e.sig = shape{typeParams: d.TypeParameters, result: d.ReturnType, throws: d.Throws, varArgs: d.VarArgs}
			for _, p := range d.Parameters {
				e.sig.params = append(e.sig.params, p.Type)
			}
			return
		}
		e.sig = e.recoverShape()
	})
	return e.sig
}

func (e *Executable) recoverShape() shape {
	fallback := shape{params: e.erased}
	if e.ref != nil {
		fallback.result = e.ref.ReturnType
	}
	if e.member == nil {
		e.f.degrade("signature", e.uri, e.memberErr)
		return fallback
	}
	fallback.varArgs = e.member.VarArgs()

	mt, err := e.member.GenericMethodType()
	if err != nil {
		e.f.degrade("generic_signature", e.uri, err)
		if mt, err = e.member.MethodType(); err != nil {
			e.f.degrade("signature", e.uri, err)
			return fallback
		}
	}
	return shape{
		typeParams: mt.TypeParameters,
		params:     mt.Parameters,
		result:     mt.Return,
		throws:     mt.Throws,
		varArgs:    e.member.VarArgs(),
	}
}

func (e *Executable) Extract(l *graph.Logger) {
	f := e.f
	if e.constructor {
		f.tagType(l, e, woc.ClassConstructor)
	} else {
		f.tagType(l, e, woc.ClassMethod)
	}
	f.tagName(l, e)
	f.tagDeclaringElement(l, e)
	for _, p := range e.Parameters() {
		f.link(l, e, woc.HasParameter, p)
	}
	if !e.constructor {
		f.link(l, e, woc.ReturnType, e.Type())
	}
	sig := e.signature()
	for _, t := range sig.throws {
		f.link(l, e, woc.Throws, f.WrapType(t, e))
	}
	l.AddTriple(e, woc.VarArgs, sig.varArgs)
	f.tagModifiers(l, e)

	d := e.decl
	if d == nil {
		return
	}
	for _, tp := range d.TypeParameters {
		f.link(l, e, woc.FormalTypeParameter, f.WrapType(model.TypeVariable(tp.Name), e))
	}
	if d.Overrides != nil {
		f.link(l, e, woc.Overrides, f.WrapMemberRef(d.Overrides))
	}
	f.tagAnnotations(l, e)
	f.tagComment(l, e)
	if f.sourceFacts(e) && !e.constructor {
		if r := parseDoc(d.Comment).returns; r != "" {
			l.AddTriple(e, woc.ReturnDescription, r)
		}
	}
	f.tagPosition(l, e, d.Position)
	f.tagSource(l, e, d.Source)
}
