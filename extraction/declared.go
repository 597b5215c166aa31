package extraction

import (
	"slices"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// DeclaredType is a class, interface, enum or annotation type. It is
// declaration-backed when the program declares it and reference-only when
// it is known from a class file or not at all.
type DeclaredType struct {
	base
	name     string
	typeKind model.TypeKind
	kind     Kind
	decl     *model.TypeDecl
	class    *classpath.Class
	classErr error
}

func (t *DeclaredType) Kind() Kind { return t.kind }

func (t *DeclaredType) Provenance() Provenance {
	if t.decl != nil {
		return DeclarationBacked
	}
	return ReferenceOnly
}

// Name returns the simple name.
func (t *DeclaredType) Name() string { return model.SimpleName(t.name) }

// BinaryName returns the binary name, e.g. a.b.Outer$Inner.
func (t *DeclaredType) BinaryName() string { return t.name }

// Declaration returns the source declaration, or nil.
func (t *DeclaredType) Declaration() *model.TypeDecl { return t.decl }

// hasMemberType reports whether the type declares a member type with the
// given simple name, as known from the program or the class file.
func (t *DeclaredType) hasMemberType(simple string) bool {
	nested := t.name + "$" + simple
	if _, ok := t.f.program.Lookup(nested); ok {
		return true
	}
	if t.decl != nil {
		return slices.ContainsFunc(t.decl.Types, func(d *model.TypeDecl) bool { return d.Name == nested })
	}
	return t.class != nil && slices.Contains(t.class.Nested, nested)
}

// introspected returns the class file of a reference-only type.
func (t *DeclaredType) introspected() (*classpath.Class, error) {
	if t.class == nil && t.classErr == nil {
		return nil, ErrNoClasspath
	}
	return t.class, t.classErr
}

func (t *DeclaredType) Modifiers() []model.Modifier {
	if t.decl != nil {
		return model.DecodeModifiers(t.decl.Modifiers, model.TargetType)
	}
	c, err := t.introspected()
	if err != nil {
		t.f.degrade("modifiers", t.uri, err)
		return nil
	}
	return model.DecodeModifiers(c.Access, model.TargetType)
}

// DeclaringType returns the enclosing type of a nested type, or nil.
func (t *DeclaredType) DeclaringType() *DeclaredType {
	if t.decl != nil {
		if enclosing := t.decl.Enclosing(); enclosing != nil {
			return t.f.WrapDeclaration(enclosing)
		}
		return nil
	}
	outer := model.EnclosingName(t.name)
	if t.class != nil && t.class.Outer != "" {
		outer = t.class.Outer
	}
	if outer == "" {
		return nil
	}
	return t.f.WrapTypeName(outer)
}

func (t *DeclaredType) Annotations() []Entity {
	if t.decl == nil {
		return nil
	}
	return t.f.wrapAnnotations(t.decl.Annotations, t)
}

func (t *DeclaredType) Comment() string {
	if t.decl == nil {
		return ""
	}
	return parseDoc(t.decl.Comment).description
}

func (t *DeclaredType) typeParameters() []*model.TypeParameter {
	if t.decl != nil {
		return t.decl.TypeParameters
	}
	if t.class == nil {
		return nil
	}
	params, err := t.class.TypeParameters()
	if err != nil {
		t.f.degrade("type_parameters", t.uri, err)
		return nil
	}
	return params
}

// supertypes returns the superclass and interfaces with type arguments
// where they are known. ok is false when nothing is known.
func (t *DeclaredType) supertypes() (super *model.TypeRef, ifaces []*model.TypeRef, ok bool) {
	if t.decl != nil {
		return t.decl.Superclass, t.decl.Interfaces, true
	}
	c, err := t.introspected()
	if err != nil {
		t.f.degrade("supertypes", t.uri, err)
		return nil, nil, false
	}
	super, ifaces, err = c.GenericSupertypes()
	if err != nil {
		t.f.degrade("generic_supertypes", t.uri, err)
		super, ifaces = c.Supertypes()
	}
	return super, ifaces, true
}

func (t *DeclaredType) Extract(l *graph.Logger) {
	f := t.f
	f.tagType(l, t, woc.TypeClassIRI(t.typeKind))
	f.tagName(l, t)
	l.AddTriple(t, woc.CanonicalName, model.CanonicalName(t.name))
	f.tagModifiers(l, t)
	if pkg := f.WrapPackageName(model.PackageName(t.name)); pkg != nil {
		l.AddTriple(pkg, woc.IsPackageOf, t)
		f.link(l, t, woc.HasPackage, pkg)
	}
	f.tagDeclaringElement(l, t)
	t.tagSupertypes(l)
	if t.decl != nil || f.explore {
		t.tagMembers(l)
	}

	if t.decl == nil {
		return
	}
	f.tagAnnotations(l, t)
	for _, tp := range t.decl.TypeParameters {
		f.link(l, t, woc.FormalTypeParameter, f.WrapType(model.TypeVariable(tp.Name), t))
	}
	for _, nested := range t.decl.Types {
		l.Follow(f.WrapDeclaration(nested))
	}
	f.tagComment(l, t)
	f.tagPosition(l, t, t.decl.Position)
	f.tagSource(l, t, t.decl.Source)
}

func (t *DeclaredType) tagSupertypes(l *graph.Logger) {
	f := t.f
	super, ifaces, ok := t.supertypes()
	if !ok {
		return
	}
	switch t.kind {
	case KindInterface, KindAnnotation:
		for _, i := range ifaces {
			f.link(l, t, woc.Extends, f.WrapType(i, t))
		}
	default:
		if super == nil && t.name != model.Object {
			super = model.Named(model.Object)
		}
		f.link(l, t, woc.Extends, f.WrapType(super, t))
		for _, i := range ifaces {
			f.link(l, t, woc.Implements, f.WrapType(i, t))
		}
	}
}

func (t *DeclaredType) tagMembers(l *graph.Logger) {
	f := t.f
	if d := t.decl; d != nil {
		for _, fd := range d.Fields {
			f.link(l, t, woc.HasField, f.WrapField(t, fd))
		}
		for _, c := range d.Constructors {
			f.link(l, t, woc.HasConstructor, f.WrapExecutable(t, c))
		}
		for _, m := range d.Methods {
			f.link(l, t, woc.HasMethod, f.WrapExecutable(t, m))
		}
		return
	}
	c, err := t.introspected()
	if err != nil {
		t.f.degrade("members", t.uri, err)
		return
	}
	for _, m := range c.DeclaredFields() {
		f.link(l, t, woc.HasField, f.wrapClassField(t, m))
	}
	for _, m := range c.Constructors() {
		if e := f.wrapClassExecutable(t, m); e != nil {
			f.link(l, t, woc.HasConstructor, e)
		}
	}
	for _, m := range c.DeclaredMethods() {
		if e := f.wrapClassExecutable(t, m); e != nil {
			f.link(l, t, woc.HasMethod, e)
		}
	}
}

// wrapAnnotations wraps the annotation types applied to a declaration.
func (f *Factory) wrapAnnotations(annotations []*model.Annotation, parent Entity) []Entity {
	var out []Entity
	for _, a := range annotations {
		if a == nil || a.Type == nil {
			continue
		}
		out = append(out, f.WrapType(a.Type, parent))
	}
	return out
}
