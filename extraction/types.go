package extraction

import (
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// PrimitiveType is a primitive type or void.
type PrimitiveType struct {
	base
	name string
}

func (t *PrimitiveType) Kind() Kind             { return KindPrimitive }
func (t *PrimitiveType) Provenance() Provenance { return ReferenceOnly }
func (t *PrimitiveType) Name() string           { return t.name }

func (t *PrimitiveType) Extract(l *graph.Logger) {
	t.f.tagType(l, t, woc.ClassPrimitiveType)
	t.f.tagName(l, t)
}

// ArrayType is an array of any dimension. Its facts name the innermost
// element type, so String[] and String[][] share an array-of target.
type ArrayType struct {
	base
	ref *model.TypeRef
}

func (t *ArrayType) Kind() Kind             { return KindArray }
func (t *ArrayType) Provenance() Provenance { return ReferenceOnly }

// Name is the element type's URI followed by one [] per dimension.
func (t *ArrayType) Name() string { return t.uri }

// Dimensions returns the number of array dimensions.
func (t *ArrayType) Dimensions() int { return t.ref.Dimensions() }

// Element returns the innermost non-array type.
func (t *ArrayType) Element() Entity {
	elem := t.ref.Base()
	if elem.EffectiveKind() == model.RefArray {
		elem = model.Named(model.Object)
	}
	return t.f.WrapType(elem, t.parent)
}

func (t *ArrayType) Extract(l *graph.Logger) {
	t.f.tagType(l, t, woc.ClassArrayType)
	t.f.tagName(l, t)
	t.f.link(l, t, woc.ArrayOf, t.Element())
	l.AddTriple(t, woc.Dimensions, t.Dimensions())
}

// ParameterizedType is a generic type applied to type arguments.
type ParameterizedType struct {
	base
	ref *model.TypeRef
}

func (t *ParameterizedType) Kind() Kind             { return KindParameterized }
func (t *ParameterizedType) Provenance() Provenance { return ReferenceOnly }

// Raw returns the generic type the arguments apply to.
func (t *ParameterizedType) Raw() *DeclaredType { return t.f.WrapTypeName(t.ref.Name) }

// Arguments wraps the actual type arguments in order.
func (t *ParameterizedType) Arguments() []Entity {
	out := make([]Entity, 0, len(t.ref.Arguments))
	for _, a := range t.ref.Arguments {
		if e := t.f.WrapType(a, t.parent); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (t *ParameterizedType) Extract(l *graph.Logger) {
	f := t.f
	f.tagType(l, t, woc.ClassParameterizedType)
	f.link(l, t, woc.GenericType, t.Raw())
	for _, a := range t.Arguments() {
		f.link(l, t, woc.ActualTypeArgument, a)
	}
}

// TypeVariable is a type parameter, identified together with the generic
// declaration that introduces it.
type TypeVariable struct {
	base
	name   string
	bounds []*model.TypeRef
	// position is the index among the owner's type parameters, or -1 when
	// the owner is unknown.
	position int
}

func (t *TypeVariable) Kind() Kind             { return KindTypeVariable }
func (t *TypeVariable) Provenance() Provenance { return ReferenceOnly }
func (t *TypeVariable) Name() string           { return t.name }

func (t *TypeVariable) Extract(l *graph.Logger) {
	f := t.f
	f.tagType(l, t, woc.ClassTypeVariable)
	f.tagName(l, t)
	if t.position >= 0 {
		l.AddTriple(t, woc.Position, t.position)
	}
	for _, b := range t.bounds {
		f.link(l, t, woc.SuperBound, f.WrapType(b, t.parent))
	}
}

// Wildcard is a ?, ? extends X or ? super X type argument. An upper bound
// is linked with extends and a lower bound with super-bound.
type Wildcard struct {
	base
	ref *model.TypeRef
}

func (t *Wildcard) Kind() Kind             { return KindWildcard }
func (t *Wildcard) Provenance() Provenance { return ReferenceOnly }

func (t *Wildcard) Extract(l *graph.Logger) {
	f := t.f
	f.tagType(l, t, woc.ClassWildcard)
	if t.ref.Bound == nil {
		return
	}
	predicate := woc.SuperBound
	if t.ref.BoundKind != model.BoundSuper {
		predicate = woc.Extends
	}
	f.link(l, t, predicate, f.WrapType(t.ref.Bound, t.parent))
}
