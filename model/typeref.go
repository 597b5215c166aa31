package model

// RefKind distinguishes the shapes a type reference can take.
type RefKind string

// Reference kinds. A RefType reference with Arguments is a parameterized type.
const (
	RefType         RefKind = "type"
	RefPrimitive    RefKind = "primitive"
	RefArray        RefKind = "array"
	RefTypeVariable RefKind = "type-variable"
	RefWildcard     RefKind = "wildcard"
)

// Wildcard bound kinds.
const (
	BoundExtends = "extends"
	BoundSuper   = "super"
)

// TypeRef is a type as it appears at a use site.
type TypeRef struct {
	Kind      RefKind    `json:"kind,omitempty"`
	Name      string     `json:"name,omitempty"`
	Arguments []*TypeRef `json:"arguments,omitempty"`
	Component *TypeRef   `json:"component,omitempty"`
	Bound     *TypeRef   `json:"bound,omitempty"`
	BoundKind string     `json:"boundKind,omitempty"`
}

// Object is the root of the class hierarchy.
const Object = "java.lang.Object"

// Named returns a raw reference to a class-like type.
func Named(binaryName string) *TypeRef {
	return &TypeRef{Kind: RefType, Name: binaryName}
}

// Primitive returns a reference to a primitive type or void.
func Primitive(keyword string) *TypeRef {
	return &TypeRef{Kind: RefPrimitive, Name: keyword}
}

// ArrayOf returns a reference to an array of component.
func ArrayOf(component *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefArray, Component: component}
}

// Parameterized returns a reference to raw applied to args.
func Parameterized(raw string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: RefType, Name: raw, Arguments: args}
}

// TypeVariable returns a reference to a type variable.
func TypeVariable(name string) *TypeRef {
	return &TypeRef{Kind: RefTypeVariable, Name: name}
}

// EffectiveKind treats an empty kind as a class-like reference.
func (r *TypeRef) EffectiveKind() RefKind {
	if r.Kind == "" {
		return RefType
	}
	return r.Kind
}

// IsParameterized reports whether r applies type arguments to a raw type.
func (r *TypeRef) IsParameterized() bool {
	return r.EffectiveKind() == RefType && len(r.Arguments) > 0
}

// Raw strips type arguments from a class-like reference.
func (r *TypeRef) Raw() *TypeRef {
	if !r.IsParameterized() {
		return r
	}
	return Named(r.Name)
}

// Base returns the innermost non-array component.
func (r *TypeRef) Base() *TypeRef {
	t := r
	for t.EffectiveKind() == RefArray && t.Component != nil {
		t = t.Component
	}
	return t
}

// Dimensions counts the array dimensions of r.
func (r *TypeRef) Dimensions() int {
	n := 0
	for t := r; t.EffectiveKind() == RefArray && t.Component != nil; t = t.Component {
		n++
	}
	return n
}

// Erasure returns the erased form of r. Type variables erase to the erasure
// of their first bound, looked up through bounds, or to java.lang.Object.
func (r *TypeRef) Erasure(bounds func(name string) *TypeRef) *TypeRef {
	return r.erasure(bounds, map[string]bool{})
}

func (r *TypeRef) erasure(bounds func(string) *TypeRef, seen map[string]bool) *TypeRef {
	switch r.EffectiveKind() {
	case RefArray:
		if r.Component == nil {
			return Named(Object)
		}
		return ArrayOf(r.Component.erasure(bounds, seen))
	case RefTypeVariable:
		if bounds != nil && !seen[r.Name] {
			seen[r.Name] = true
			if b := bounds(r.Name); b != nil {
				return b.erasure(bounds, seen)
			}
		}
		return Named(Object)
	case RefWildcard:
		if r.Bound != nil && r.BoundKind != BoundSuper {
			return r.Bound.erasure(bounds, seen)
		}
		return Named(Object)
	case RefPrimitive:
		return r
	default:
		return r.Raw()
	}
}
