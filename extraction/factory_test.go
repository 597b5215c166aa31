package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/model"
)

func genericBox() *model.TypeDecl {
	comparableT := model.Parameterized("java.lang.Comparable", model.TypeVariable("T"))
	return &model.TypeDecl{
		Kind:           model.KindClass,
		Name:           "org.demo.Box",
		TypeParameters: []*model.TypeParameter{{Name: "E"}},
		Fields:         []*model.Field{{Name: "items", Type: model.Parameterized("java.util.List", model.TypeVariable("E"))}},
		Constructors: []*model.Method{{
			Name:        "Box",
			Constructor: true,
			Parameters:  []*model.Parameter{{Name: "capacity", Type: model.Primitive("int")}},
		}},
		Methods: []*model.Method{
			{
				Name:           "sort",
				TypeParameters: []*model.TypeParameter{{Name: "T", Bounds: []*model.TypeRef{comparableT}}},
				Parameters: []*model.Parameter{
					{Name: "items", Type: model.ArrayOf(model.TypeVariable("T"))},
					{Name: "sink", Type: model.Parameterized("java.util.List",
						&model.TypeRef{Kind: model.RefWildcard, Bound: model.TypeVariable("T"), BoundKind: model.BoundSuper})},
				},
				ReturnType: model.Primitive("void"),
			},
			{Name: "get", Parameters: []*model.Parameter{{Name: "i", Type: model.Primitive("int")}}, ReturnType: model.TypeVariable("E")},
			{Name: "get", Parameters: []*model.Parameter{{Name: "key", Type: model.Named("java.lang.String")}}, ReturnType: model.TypeVariable("E")},
		},
		Types: []*model.TypeDecl{{Kind: model.KindClass, Name: "org.demo.Box$Entry"}},
	}
}

func TestURIs(t *testing.T) {
	box := genericBox()
	f := NewFactory(newProgram(newPackage("org.demo", box)))
	owner := f.WrapDeclaration(box)
	sort := f.WrapExecutable(owner, box.Methods[0])

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"top-level type", owner.URI(), "org.demo.Box"},
		{"nested type", f.WrapTypeName("org.demo.Box$Entry").URI(), "org.demo.Box/Entry"},
		{"package", f.WrapPackageName("org.demo").URI(), "org.demo"},
		{"field", f.WrapField(owner, box.Fields[0]).URI(), "org.demo.Box/items"},
		{"constructor", f.WrapExecutable(owner, box.Constructors[0]).URI(), "org.demo.Box/Box(int)"},
		{"generic method erases to bound", sort.URI(), "org.demo.Box/sort(java.lang.Comparable[],java.util.List)"},
		{"overload by int", f.WrapExecutable(owner, box.Methods[1]).URI(), "org.demo.Box/get(int)"},
		{"overload by string", f.WrapExecutable(owner, box.Methods[2]).URI(), "org.demo.Box/get(java.lang.String)"},
		{"parameter", f.WrapParameter(sort, 1).URI(), "org.demo.Box/sort(java.lang.Comparable[],java.util.List)/parameter/1"},
		{"primitive", f.WrapType(model.Primitive("long"), nil).URI(), "long"},
		{"array", f.WrapType(model.ArrayOf(model.ArrayOf(model.Primitive("int"))), nil).URI(), "int[][]"},
		{"parameterized", f.WrapType(model.Parameterized("java.util.Map",
			model.Named("java.lang.String"), model.Named("java.lang.Integer")), nil).URI(),
			"java.util.Map<java.lang.String,java.lang.Integer>"},
		{"class type variable", f.WrapType(model.TypeVariable("E"), sort).URI(), "E:org.demo.Box"},
		{"method type variable", f.WrapType(model.TypeVariable("T"), sort).URI(),
			"T:org.demo.Box/sort(java.lang.Comparable[],java.util.List)"},
		{"unowned type variable", f.WrapType(model.TypeVariable("X"), sort).URI(), "X"},
		{"unbounded wildcard", f.WrapType(&model.TypeRef{Kind: model.RefWildcard}, nil).URI(), "?"},
		{"extends wildcard", f.WrapType(&model.TypeRef{Kind: model.RefWildcard, Bound: model.Named("java.lang.Number"),
			BoundKind: model.BoundExtends}, nil).URI(), "?_extends_java.lang.Number"},
		{"super wildcard in argument", f.WrapType(box.Methods[0].Parameters[1].Type, sort).URI(),
			"java.util.List<?_super_T:org.demo.Box/sort(java.lang.Comparable[],java.util.List)>"},
		{"project", f.WrapProject("demo", nil).URI(), "demo"},
		{"jar file", f.WrapJarFile("/deps/lib/guava-33.0.jar").URI(), "guava-33.0.jar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestWrapReturnsSameInstance(t *testing.T) {
	box := genericBox()
	f := NewFactory(newProgram(newPackage("org.demo", box)))

	assert.Same(t, f.WrapDeclaration(box), f.WrapTypeName("org.demo.Box"))
	assert.Same(t, f.WrapTypeName("org.demo.Box"), f.WrapType(model.Named("org.demo.Box"), nil))

	str := model.Named("java.lang.String")
	assert.Same(t, f.WrapType(model.ArrayOf(str), nil), f.WrapType(model.ArrayOf(model.Named("java.lang.String")), nil))
	assert.NotSame(t, f.WrapType(model.ArrayOf(str), nil), f.WrapType(model.ArrayOf(model.ArrayOf(str)), nil))

	listOfString := f.WrapType(model.Parameterized("java.util.List", str), nil)
	listOfInt := f.WrapType(model.Parameterized("java.util.List", model.Named("java.lang.Integer")), nil)
	assert.NotEqual(t, listOfString.URI(), listOfInt.URI())

	owner := f.WrapDeclaration(box)
	declared := f.WrapField(owner, box.Fields[0])
	assert.Same(t, declared, f.WrapMemberRef(&model.MemberRef{
		DeclaringType: model.Parameterized("org.demo.Box", str),
		Name:          "items",
		Field:         true,
	}))
	get := f.WrapExecutable(owner, box.Methods[2])
	assert.Same(t, get, f.WrapMemberRef(&model.MemberRef{
		DeclaringType:  model.Named("org.demo.Box"),
		Name:           "get",
		ParameterTypes: []*model.TypeRef{str},
	}))
	assert.Equal(t, DeclarationBacked, get.Provenance())

	sort := f.WrapExecutable(owner, box.Methods[0])
	assert.Same(t, f.WrapParameter(sort, 0), f.WrapParameter(sort, 0))

	seen := make(map[string]bool)
	for _, e := range f.Entities() {
		assert.False(t, seen[e.URI()], "duplicate %s", e.URI())
		seen[e.URI()] = true
		got, ok := f.Lookup(e.URI())
		require.True(t, ok)
		assert.Same(t, e, got)
	}
}

func TestProvenanceIsFixedAtWrap(t *testing.T) {
	box := genericBox()
	classes := fakeClasses{
		"java.util.Map": {Name: "java.util.Map", Access: model.AccPublic | model.AccInterface | model.AccAbstract},
		"java.lang.annotation.Retention": {
			Name:   "java.lang.annotation.Retention",
			Access: model.AccPublic | model.AccInterface | model.AccAbstract | model.AccAnnotation,
		},
	}
	f := NewFactory(newProgram(newPackage("org.demo", box)), WithIntrospector(classes))

	tests := []struct {
		name       string
		entity     Entity
		kind       Kind
		provenance Provenance
	}{
		{"declared class", f.WrapTypeName("org.demo.Box"), KindClass, DeclarationBacked},
		{"binary interface", f.WrapTypeName("java.util.Map"), KindInterface, ReferenceOnly},
		{"binary annotation", f.WrapTypeName("java.lang.annotation.Retention"), KindAnnotation, ReferenceOnly},
		{"unknown class", f.WrapTypeName("com.missing.Thing"), KindClass, ReferenceOnly},
		{"unknown reference kind", f.WrapType(&model.TypeRef{Kind: "mystery", Name: "x.Y"}, nil), KindClass, ReferenceOnly},
		{"primitive", f.WrapType(model.Primitive("int"), nil), KindPrimitive, ReferenceOnly},
		{"declared field", f.WrapField(f.WrapDeclaration(box), box.Fields[0]), KindField, DeclarationBacked},
		{"declared constructor", f.WrapExecutable(f.WrapDeclaration(box), box.Constructors[0]), KindConstructor, DeclarationBacked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.entity.Kind())
			assert.Equal(t, tt.provenance, tt.entity.Provenance())
		})
	}
}

func TestWrapMemberRefResolvesOverloads(t *testing.T) {
	classes := fakeClasses{"org.lib.Codec": {
		Name:      "org.lib.Codec",
		Access:    model.AccPublic,
		SuperName: model.Object,
		Methods: []*classpath.Member{
			{Name: "decode", Descriptor: "(Ljava/lang/Object;)Ljava/lang/Object;", Access: model.AccPublic | model.AccBridge | model.AccSynthetic},
			{Name: "decode", Descriptor: "(Ljava/lang/String;)Ljava/lang/Integer;", Access: model.AccPublic},
			{Name: "decode", Descriptor: "([B)Ljava/lang/Integer;", Access: model.AccPublic | model.AccStatic},
		},
	}}
	f := NewFactory(&model.Program{}, WithIntrospector(classes))

	tests := []struct {
		name   string
		params []*model.TypeRef
		uri    string
		static bool
	}{
		{"exact match", []*model.TypeRef{model.ArrayOf(model.Primitive("byte"))}, "org.lib.Codec/decode(byte[])", true},
		{"same arity prefers non-bridge", []*model.TypeRef{model.Named("java.lang.CharSequence")}, "org.lib.Codec/decode(java.lang.String)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := f.WrapMemberRef(&model.MemberRef{
				DeclaringType:  model.Named("org.lib.Codec"),
				Name:           "decode",
				ParameterTypes: tt.params,
			})
			require.NotNil(t, e)
			assert.Equal(t, tt.uri, e.URI())
			exec := e.(*Executable)
			require.NotNil(t, exec.member)
			assert.False(t, exec.member.Bridge())
			assert.Equal(t, tt.static, exec.member.Access.Has(model.AccStatic))
		})
	}

	t.Run("arity match shares the class file entity", func(t *testing.T) {
		owner := f.WrapTypeName("org.lib.Codec")
		explored := f.wrapClassExecutable(owner, classes["org.lib.Codec"].Methods[1])
		referenced := f.WrapMemberRef(&model.MemberRef{
			DeclaringType:  model.Named("org.lib.Codec"),
			Name:           "decode",
			ParameterTypes: []*model.TypeRef{model.Named("java.lang.CharSequence")},
		})
		assert.Same(t, explored, referenced)
		_, phantom := f.Lookup("org.lib.Codec/decode(java.lang.CharSequence)")
		assert.False(t, phantom)
	})

	t.Run("unresolved reference keeps its own parameters", func(t *testing.T) {
		e := f.WrapMemberRef(&model.MemberRef{
			DeclaringType:  model.Named("org.lib.Codec"),
			Name:           "encode",
			ParameterTypes: []*model.TypeRef{model.Named("java.lang.String")},
		})
		require.NotNil(t, e)
		assert.Equal(t, "org.lib.Codec/encode(java.lang.String)", e.URI())
	})

	assert.Nil(t, f.WrapMemberRef(&model.MemberRef{Name: "orphan"}))
	assert.Nil(t, f.WrapMemberRef(&model.MemberRef{DeclaringType: model.Primitive("int"), Name: "x"}))
}
