// Package extraction turns a resolved program model into woc facts.
//
// Every program element is wrapped into exactly one Entity per run by a
// Factory. An entity's Extract writes its facts into a graph.Logger and
// follows the entities it references, so a run is a memoized depth-first
// walk over a possibly cyclic reference graph. Entities without a source
// declaration are reference-only: their shape comes from compiled class
// files through an Introspector, and any attribute that cannot be read
// degrades to a default instead of failing the run.
package extraction

import (
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
)

// Kind is the closed set of entity kinds.
type Kind int

// Entity kinds.
const (
	KindPackage Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindAnnotation
	KindPrimitive
	KindArray
	KindTypeVariable
	KindWildcard
	KindParameterized
	KindField
	KindMethod
	KindConstructor
	KindParameter
	KindProject
	KindJarFile
)

var kindNames = [...]string{
	KindPackage:       "package",
	KindClass:         "class",
	KindInterface:     "interface",
	KindEnum:          "enum",
	KindAnnotation:    "annotation",
	KindPrimitive:     "primitive",
	KindArray:         "array",
	KindTypeVariable:  "type_variable",
	KindWildcard:      "wildcard",
	KindParameterized: "parameterized",
	KindField:         "field",
	KindMethod:        "method",
	KindConstructor:   "constructor",
	KindParameter:     "parameter",
	KindProject:       "project",
	KindJarFile:       "jar_file",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func kindOfType(k model.TypeKind) Kind {
	switch k {
	case model.KindInterface:
		return KindInterface
	case model.KindEnum:
		return KindEnum
	case model.KindAnnotation:
		return KindAnnotation
	default:
		return KindClass
	}
}

// Provenance records where an entity's data comes from. It is fixed when
// the entity is created.
type Provenance int

// Provenances.
const (
	DeclarationBacked Provenance = iota
	ReferenceOnly
)

func (p Provenance) String() string {
	if p == DeclarationBacked {
		return "declaration"
	}
	return "reference"
}

// Entity is one extracted program element.
type Entity interface {
	graph.Extractable
	Kind() Kind
	Provenance() Provenance
	// Parent is the context the entity was reached from, used to resolve
	// type variables. It is not an ownership link and may be nil.
	Parent() Entity
	sealed()
}

// Named entities have a simple name.
type Named interface {
	Entity
	Name() string
}

// Modifiable entities have a modifier set.
type Modifiable interface {
	Entity
	Modifiers() []model.Modifier
}

// Typed entities have an associated type entity.
type Typed interface {
	Entity
	Type() Entity
}

// Member entities are declared by a type.
type Member interface {
	Entity
	DeclaringType() *DeclaredType
}

// Annotated entities carry annotation types from their declaration.
type Annotated interface {
	Entity
	Annotations() []Entity
}

// Commented entities carry a documentation string from their declaration.
type Commented interface {
	Entity
	Comment() string
}

// base holds what every variant shares.
type base struct {
	f      *Factory
	uri    string
	parent Entity
}

func (b *base) URI() string    { return b.uri }
func (b *base) Parent() Entity { return b.parent }
func (b *base) sealed()        {}

// The capability set of each variant.
var (
	_ Named      = (*DeclaredType)(nil)
	_ Modifiable = (*DeclaredType)(nil)
	_ Member     = (*DeclaredType)(nil)
	_ Annotated  = (*DeclaredType)(nil)
	_ Commented  = (*DeclaredType)(nil)

	_ Named      = (*Field)(nil)
	_ Modifiable = (*Field)(nil)
	_ Typed      = (*Field)(nil)
	_ Member     = (*Field)(nil)
	_ Annotated  = (*Field)(nil)
	_ Commented  = (*Field)(nil)

	_ Named      = (*Executable)(nil)
	_ Modifiable = (*Executable)(nil)
	_ Typed      = (*Executable)(nil)
	_ Member     = (*Executable)(nil)
	_ Annotated  = (*Executable)(nil)
	_ Commented  = (*Executable)(nil)

	_ Named      = (*Parameter)(nil)
	_ Modifiable = (*Parameter)(nil)
	_ Typed      = (*Parameter)(nil)
	_ Annotated  = (*Parameter)(nil)
	_ Commented  = (*Parameter)(nil)

	_ Named     = (*Package)(nil)
	_ Commented = (*Package)(nil)

	_ Named = (*PrimitiveType)(nil)
	_ Named = (*TypeVariable)(nil)
	_ Named = (*Project)(nil)
	_ Named = (*JarFile)(nil)

	_ Entity = (*ArrayType)(nil)
	_ Entity = (*ParameterizedType)(nil)
	_ Entity = (*Wildcard)(nil)
)
