package classpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codeontology/model"
)

func holderClass() *classBuilder {
	b := newClass("org/lib/Holder")
	b.withLong = true
	b.ifaces = []string{"java/io/Serializable"}
	b.signature = "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/io/Serializable;"
	b.fields = []memberSpec{
		{access: 0x0002, name: "items", desc: "Ljava/util/List;", sig: "Ljava/util/List<Ljava/lang/String;>;"},
		{access: 0x1010, name: "this$0", desc: "Lorg/lib/Outer;"},
	}
	b.methods = []memberSpec{
		{access: 0x0001, name: "<init>", desc: "()V"},
		{access: 0x0001, name: "put", desc: "(Ljava/lang/String;)V", exceptions: []string{"java/io/IOException"}},
		{access: 0x1041, name: "put", desc: "(Ljava/lang/Object;)V"},
		{access: 0x0081, name: "all", desc: "([Ljava/lang/Object;)Ljava/util/List;",
			sig: "<E:Ljava/lang/Object;>([TE;)Ljava/util/List<TE;>;"},
		{access: 0x0008, name: "<clinit>", desc: "()V"},
	}
	return b
}

func TestParseClass(t *testing.T) {
	c, err := Parse(holderClass().build())
	require.NoError(t, err)

	assert.Equal(t, "org.lib.Holder", c.Name)
	assert.Equal(t, "java.lang.Object", c.SuperName)
	assert.Equal(t, []string{"java.io.Serializable"}, c.Interfaces)
	assert.Equal(t, model.KindClass, c.Kind())
	require.Len(t, c.Fields, 2)
	require.Len(t, c.Methods, 5)

	items, err := c.Field("items")
	require.NoError(t, err)
	assert.Equal(t, model.AccPrivate, items.Access)

	generic, err := items.GenericFieldType()
	require.NoError(t, err)
	assert.Equal(t, model.Parameterized("java.util.List", model.Named("java.lang.String")), generic)

	erased, err := items.FieldType()
	require.NoError(t, err)
	assert.Equal(t, model.Named("java.util.List"), erased)

	_, err = c.Field("missing")
	assert.ErrorIs(t, err, ErrNoSuchMember)

	assert.Len(t, c.DeclaredFields(), 1)
	assert.Len(t, c.DeclaredMethods(), 2)
	assert.Len(t, c.Constructors(), 1)

	params, err := c.TypeParameters()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "T", params[0].Name)
}

func TestParseMethodShapes(t *testing.T) {
	c, err := Parse(holderClass().build())
	require.NoError(t, err)

	put, err := c.Method("put", []*model.TypeRef{model.Named("java.lang.String")})
	require.NoError(t, err)
	mt, err := put.MethodType()
	require.NoError(t, err)
	assert.Equal(t, []*model.TypeRef{model.Named("java.io.IOException")}, mt.Throws)
	assert.Equal(t, model.Primitive("void"), mt.Return)

	all, err := c.Method("all", []*model.TypeRef{model.ArrayOf(model.Named("java.lang.Object"))})
	require.NoError(t, err)
	assert.True(t, all.VarArgs())
	gt, err := all.GenericMethodType()
	require.NoError(t, err)
	require.Len(t, gt.TypeParameters, 1)
	assert.Equal(t, model.ArrayOf(model.TypeVariable("E")), gt.Parameters[0])
	assert.Equal(t, model.Parameterized("java.util.List", model.TypeVariable("E")), gt.Return)
}

func TestMethodResolutionIsBestEffort(t *testing.T) {
	c, err := Parse(holderClass().build())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params []*model.TypeRef
		desc   string
	}{
		{"exact", []*model.TypeRef{model.Named("java.lang.String")}, "(Ljava/lang/String;)V"},
		{"bridge descriptor prefers real method", []*model.TypeRef{model.Named("java.lang.Object")}, "(Ljava/lang/String;)V"},
		{"arity only", []*model.TypeRef{model.Named("java.lang.CharSequence")}, "(Ljava/lang/String;)V"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.Method("put", tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.desc, m.Descriptor)
		})
	}

	_, err = c.Method("put", nil)
	assert.ErrorIs(t, err, ErrNoSuchMember)
}

func TestParseInnerClassFlags(t *testing.T) {
	b := newClass("a/Outer$In")
	b.inner = []innerSpec{
		{inner: "a/Outer$In", outer: "a/Outer", name: "In", access: 0x000A},
		{inner: "a/Outer$Other", outer: "a/Outer", name: "Other", access: 0x0001},
	}
	c, err := Parse(b.build())
	require.NoError(t, err)
	assert.Equal(t, "a.Outer", c.Outer)
	assert.Equal(t, model.AccPrivate|model.AccStatic, c.Access)
	assert.False(t, c.Local())

	anon := newClass("a/Outer$1")
	anon.inner = []innerSpec{{inner: "a/Outer$1", access: 0x0000}}
	c, err = Parse(anon.build())
	require.NoError(t, err)
	assert.True(t, c.Local())
}

func TestParseMemberClasses(t *testing.T) {
	b := newClass("a/Outer")
	b.inner = []innerSpec{
		{inner: "a/Outer$Inner", outer: "a/Outer", name: "Inner", access: 0x0001},
		{inner: "a/Outer$1", access: 0x0000},
		{inner: "a/Other$Deep", outer: "a/Other", name: "Deep", access: 0x0001},
	}
	c, err := Parse(b.build())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.Outer$Inner"}, c.Nested)
	assert.Empty(t, c.Outer)
}

func TestParseMalformed(t *testing.T) {
	data := holderClass().build()

	_, err := Parse(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrMalformed)

	bad := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, data[4:]...)
	_, err = Parse(bad)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeModifiedUTF8(t *testing.T) {
	assert.Equal(t, "a\x00b", decodeModifiedUTF8([]byte{'a', 0xC0, 0x80, 'b'}))
	assert.Equal(t, "é", decodeModifiedUTF8([]byte{0xC3, 0xA9}))
	// U+1F600 as a surrogate pair of two three-byte sequences.
	assert.Equal(t, "\U0001F600", decodeModifiedUTF8([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}))
}
