package extraction

import (
	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// Field is a field of a declared type.
type Field struct {
	base
	owner *DeclaredType
	name  string
	decl  *model.Field

	member    *classpath.Member
	memberErr error
	// erased is the type a member reference saw, used when the class file
	// cannot supply one.
	erased *model.TypeRef
}

func (fl *Field) Kind() Kind { return KindField }

func (fl *Field) Provenance() Provenance {
	if fl.decl != nil {
		return DeclarationBacked
	}
	return ReferenceOnly
}

func (fl *Field) Name() string { return fl.name }

// DeclaringType returns the raw type that declares the field.
func (fl *Field) DeclaringType() *DeclaredType { return fl.owner }

func (fl *Field) Modifiers() []model.Modifier {
	if fl.decl != nil {
		return model.DecodeModifiers(fl.decl.Modifiers, model.TargetField)
	}
	if fl.member == nil {
		fl.f.degrade("modifiers", fl.uri, fl.memberErr)
		return nil
	}
	return model.DecodeModifiers(fl.member.Access, model.TargetField)
}

// Type returns the field's type entity, or nil when it cannot be known.
func (fl *Field) Type() Entity {
	return fl.f.WrapType(fl.typeRef(), fl)
}

// typeRef recovers the declared type. Reference-only fields prefer the
// generic signature, then the erased descriptor, then the reference.
func (fl *Field) typeRef() *model.TypeRef {
	if fl.decl != nil {
		return fl.decl.Type
	}
	if fl.member == nil {
		fl.f.degrade("type", fl.uri, fl.memberErr)
		return fl.erased
	}
	t, err := fl.member.GenericFieldType()
	if err == nil {
		return t
	}
	fl.f.degrade("generic_type", fl.uri, err)
	if t, err = fl.member.FieldType(); err == nil {
		return t
	}
	fl.f.degrade("type", fl.uri, err)
	return fl.erased
}

func (fl *Field) Annotations() []Entity {
	if fl.decl == nil {
		return nil
	}
	return fl.f.wrapAnnotations(fl.decl.Annotations, fl)
}

func (fl *Field) Comment() string {
	if fl.decl == nil {
		return ""
	}
	return parseDoc(fl.decl.Comment).description
}

func (fl *Field) Extract(l *graph.Logger) {
	f := fl.f
	f.tagType(l, fl, woc.ClassField)
	f.tagName(l, fl)
	f.tagDeclaringElement(l, fl)
	f.link(l, fl, woc.HasType, fl.Type())
	f.tagModifiers(l, fl)

	if fl.decl == nil {
		return
	}
	f.tagAnnotations(l, fl)
	f.tagComment(l, fl)
	f.tagPosition(l, fl, fl.decl.Position)
	f.tagSource(l, fl, fl.decl.Source)
}
