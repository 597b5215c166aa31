package classpath

import (
	"fmt"
	"strings"

	"github.com/c360studio/codeontology/model"
)

// Class is a parsed class file.
type Class struct {
	// Name is the dotted binary name, e.g. java.util.Map$Entry.
	Name string
	// Access holds the source-level flags; for member classes these come
	// from the InnerClasses attribute.
	Access     model.Modifiers
	SuperName  string
	Interfaces []string
	Signature  string
	// Outer is the binary name of the enclosing class of a member class.
	Outer     string
	Anonymous bool
	// Nested lists the binary names of the member classes c declares.
	Nested  []string
	Fields  []*Member
	Methods []*Member
	// Origin is the archive or directory the class was read from.
	Origin string
}

// Member is a field or method of a class.
type Member struct {
	Name       string
	Descriptor string
	Signature  string
	Access     model.Modifiers
	Exceptions []string
}

// Kind classifies the class by its access flags.
func (c *Class) Kind() model.TypeKind {
	switch {
	case c.Access.Has(model.AccAnnotation):
		return model.KindAnnotation
	case c.Access.Has(model.AccInterface):
		return model.KindInterface
	case c.Access.Has(model.AccEnum):
		return model.KindEnum
	default:
		return model.KindClass
	}
}

// Synthetic reports whether the compiler generated the class.
func (c *Class) Synthetic() bool { return c.Access.Has(model.AccSynthetic) }

// Local reports whether the class is anonymous or local to a method body,
// which have no stable source-level identity.
func (c *Class) Local() bool {
	if c.Anonymous {
		return true
	}
	simple := model.SimpleName(c.Name)
	return simple != "" && simple[0] >= '0' && simple[0] <= '9'
}

// TypeParameters returns the formal type parameters from the class
// signature. Classes without a signature have none.
func (c *Class) TypeParameters() ([]*model.TypeParameter, error) {
	if c.Signature == "" {
		return nil, nil
	}
	cs, err := ParseClassSignature(c.Signature)
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", c.Name, err)
	}
	return cs.TypeParameters, nil
}

// Supertypes returns the erased superclass and interfaces. The superclass is
// nil for java.lang.Object.
func (c *Class) Supertypes() (*model.TypeRef, []*model.TypeRef) {
	var super *model.TypeRef
	if c.SuperName != "" {
		super = model.Named(c.SuperName)
	}
	ifaces := make([]*model.TypeRef, 0, len(c.Interfaces))
	for _, name := range c.Interfaces {
		ifaces = append(ifaces, model.Named(name))
	}
	return super, ifaces
}

// GenericSupertypes returns the superclass and interfaces with their type
// arguments. Without a signature the erased supertypes are returned.
func (c *Class) GenericSupertypes() (*model.TypeRef, []*model.TypeRef, error) {
	if c.Signature == "" {
		super, ifaces := c.Supertypes()
		return super, ifaces, nil
	}
	cs, err := ParseClassSignature(c.Signature)
	if err != nil {
		return nil, nil, fmt.Errorf("class %s: %w", c.Name, err)
	}
	if c.SuperName == "" {
		cs.Superclass = nil
	}
	return cs.Superclass, cs.Interfaces, nil
}

// Field finds a declared field by name.
func (c *Class) Field(name string) (*Member, error) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field %s.%s: %w", c.Name, name, ErrNoSuchMember)
}

// DeclaredFields returns the fields a source declaration would have.
func (c *Class) DeclaredFields() []*Member {
	var out []*Member
	for _, f := range c.Fields {
		if !f.Synthetic() {
			out = append(out, f)
		}
	}
	return out
}

// DeclaredMethods returns the methods a source declaration would have,
// excluding constructors, static initializers and compiler-generated bridges.
func (c *Class) DeclaredMethods() []*Member {
	var out []*Member
	for _, m := range c.Methods {
		if m.IsConstructor() || m.Name == "<clinit>" || m.Synthetic() || m.Bridge() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Constructors returns the declared constructors.
func (c *Class) Constructors() []*Member {
	var out []*Member
	for _, m := range c.Methods {
		if m.IsConstructor() && !m.Synthetic() {
			out = append(out, m)
		}
	}
	return out
}

// Method resolves a method or constructor from a reference that knows only
// its name and erased parameter types. An exact descriptor match wins;
// otherwise members with the same name and arity are considered, preferring
// ones that are neither bridges nor synthetic, in class-file order.
func (c *Class) Method(name string, params []*model.TypeRef) (*Member, error) {
	want := make([]string, len(params))
	for i, p := range params {
		want[i] = Descriptor(p)
	}
	var sameArity []*Member
	for _, m := range c.Methods {
		if m.Name != name {
			continue
		}
		mt, err := ParseMethodDescriptor(m.Descriptor)
		if err != nil || len(mt.Parameters) != len(params) {
			continue
		}
		if descriptorsEqual(mt.Parameters, want) && !m.Bridge() {
			return m, nil
		}
		sameArity = append(sameArity, m)
	}
	for _, m := range sameArity {
		if !m.Bridge() && !m.Synthetic() {
			return m, nil
		}
	}
	if len(sameArity) > 0 {
		return sameArity[0], nil
	}
	return nil, fmt.Errorf("method %s.%s/%d: %w", c.Name, name, len(params), ErrNoSuchMember)
}

func descriptorsEqual(got []*model.TypeRef, want []string) bool {
	for i, g := range got {
		if Descriptor(g) != want[i] {
			return false
		}
	}
	return true
}

// Descriptor encodes the erasure of t as a JVM field descriptor.
func Descriptor(t *model.TypeRef) string {
	switch t.EffectiveKind() {
	case model.RefPrimitive:
		for code, kw := range primitives {
			if kw == t.Name {
				return string(code)
			}
		}
		return "V"
	case model.RefArray:
		if t.Component == nil {
			return "[Ljava/lang/Object;"
		}
		return "[" + Descriptor(t.Component)
	case model.RefType:
		return "L" + strings.ReplaceAll(t.Name, ".", "/") + ";"
	default:
		return Descriptor(t.Erasure(nil))
	}
}

// IsConstructor reports whether the member is an instance initializer.
func (m *Member) IsConstructor() bool { return m.Name == "<init>" }

// Synthetic reports whether the compiler generated the member.
func (m *Member) Synthetic() bool { return m.Access.Has(model.AccSynthetic) }

// Bridge reports whether the member is a bridge method.
func (m *Member) Bridge() bool { return m.Access.Has(model.AccBridge) }

// VarArgs reports whether the method takes variable arguments.
func (m *Member) VarArgs() bool { return m.Access.Has(model.AccVarargs) }

// FieldType returns the erased type of a field.
func (m *Member) FieldType() (*model.TypeRef, error) {
	return ParseFieldDescriptor(m.Descriptor)
}

// GenericFieldType returns the declared generic type of a field. Fields
// without a signature are not generic and yield their erased type.
func (m *Member) GenericFieldType() (*model.TypeRef, error) {
	if m.Signature == "" {
		return m.FieldType()
	}
	return ParseFieldSignature(m.Signature)
}

// MethodType returns the erased shape of a method, with exceptions from the
// Exceptions attribute.
func (m *Member) MethodType() (*MethodType, error) {
	mt, err := ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return nil, err
	}
	for _, e := range m.Exceptions {
		mt.Throws = append(mt.Throws, model.Named(e))
	}
	return mt, nil
}

// GenericMethodType returns the generic shape of a method. A signature whose
// parameter count disagrees with the descriptor (synthetic outer-instance or
// enum parameters) is rejected so callers fall back to the erased shape.
func (m *Member) GenericMethodType() (*MethodType, error) {
	if m.Signature == "" {
		return m.MethodType()
	}
	generic, err := ParseMethodSignature(m.Signature)
	if err != nil {
		return nil, err
	}
	erased, err := m.MethodType()
	if err != nil {
		return nil, err
	}
	if len(generic.Parameters) != len(erased.Parameters) {
		return nil, fmt.Errorf("%w: signature of %s has %d parameters, descriptor has %d",
			ErrMalformed, m.Name, len(generic.Parameters), len(erased.Parameters))
	}
	if len(generic.Throws) == 0 {
		generic.Throws = erased.Throws
	}
	return generic, nil
}
