package model

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxProgram = `{
  "packages": [{
    "name": "org.example",
    "types": [{
      "kind": "class",
      "name": "org.example.Box",
      "typeParameters": [{"name": "T"}],
      "fields": [{"name": "value", "type": {"kind": "primitive", "name": "int"}}],
      "types": [{"kind": "class", "name": "org.example.Box$Lid", "modifiers": 9}]
    }]
  }]
}`

func TestDecodeIndexesNestedTypes(t *testing.T) {
	p, err := Decode(strings.NewReader(boxProgram))
	require.NoError(t, err)

	box, ok := p.Lookup("org.example.Box")
	require.True(t, ok)
	assert.Equal(t, "Box", box.SimpleName())
	assert.Nil(t, box.Enclosing())
	assert.Equal(t, "org.example", box.Package().Name)

	lid, ok := p.Lookup("org.example.Box$Lid")
	require.True(t, ok)
	assert.Same(t, box, lid.Enclosing())
	assert.Equal(t, "Lid", lid.SimpleName())
	assert.Len(t, p.Types(), 2)
}

func TestLookupIndexesLazilyAcrossGoroutines(t *testing.T) {
	nested := &TypeDecl{Kind: KindClass, Name: "a.Outer$Inner"}
	outer := &TypeDecl{Kind: KindClass, Name: "a.Outer", Types: []*TypeDecl{nested}}
	p := &Program{Packages: []*Package{{Name: "a", Types: []*TypeDecl{outer}}}}

	var wg sync.WaitGroup
	found := make([]bool, 8)
	for i := range found {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, ok := p.Lookup("a.Outer$Inner")
			found[i] = ok && d == nested
		}()
	}
	wg.Wait()

	for i, ok := range found {
		assert.True(t, ok, "goroutine %d", i)
	}
	assert.Same(t, outer, nested.Enclosing())
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", `{"packages": []}`},
		{"unknown field", `{"packages": [], "bogus": 1}`},
		{"duplicate", `{"packages": [{"name": "p", "types": [
			{"kind": "class", "name": "p.A"}, {"kind": "class", "name": "p.A"}]}]}`},
		{"reference without name", `{"references": [{"declaringType": {"name": "p.A"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestBinaryNameHelpers(t *testing.T) {
	tests := []struct {
		binary, simple, pkg, enclosing, canonical string
	}{
		{"java.lang.String", "String", "java.lang", "", "java.lang.String"},
		{"java.util.Map$Entry", "Entry", "java.util", "java.util.Map", "java.util.Map.Entry"},
		{"a.Outer$Mid$In", "In", "a", "a.Outer$Mid", "a.Outer.Mid.In"},
		{"Box", "Box", "", "", "Box"},
	}
	for _, tt := range tests {
		t.Run(tt.binary, func(t *testing.T) {
			assert.Equal(t, tt.simple, SimpleName(tt.binary))
			assert.Equal(t, tt.pkg, PackageName(tt.binary))
			assert.Equal(t, tt.enclosing, EnclosingName(tt.binary))
			assert.Equal(t, tt.canonical, CanonicalName(tt.binary))
		})
	}
}

func TestTypeRefShapes(t *testing.T) {
	matrix := ArrayOf(ArrayOf(Named("java.lang.String")))
	assert.Equal(t, 2, matrix.Dimensions())
	assert.Equal(t, "java.lang.String", matrix.Base().Name)

	list := Parameterized("java.util.List", Named("java.lang.String"))
	assert.True(t, list.IsParameterized())
	assert.Equal(t, Named("java.util.List"), list.Raw())
	assert.False(t, Named("java.util.List").IsParameterized())
}

func TestErasure(t *testing.T) {
	bounds := func(name string) *TypeRef {
		switch name {
		case "N":
			return Named("java.lang.Number")
		case "R":
			return TypeVariable("R")
		}
		return nil
	}
	tests := []struct {
		name string
		in   *TypeRef
		want *TypeRef
	}{
		{"parameterized", Parameterized("java.util.List", TypeVariable("T")), Named("java.util.List")},
		{"unbounded variable", TypeVariable("T"), Named(Object)},
		{"bounded variable", TypeVariable("N"), Named("java.lang.Number")},
		{"self bounded variable", TypeVariable("R"), Named(Object)},
		{"generic array", ArrayOf(TypeVariable("N")), ArrayOf(Named("java.lang.Number"))},
		{"primitive", Primitive("int"), Primitive("int")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Erasure(bounds))
		})
	}
}

func TestDecodeModifiers(t *testing.T) {
	tests := []struct {
		name   string
		flags  Modifiers
		target Target
		want   []Modifier
	}{
		{"package private field", 0, TargetField, []Modifier{PackagePrivate}},
		{"public static final field", AccPublic | AccStatic | AccFinal, TargetField, []Modifier{Public, Final, Static}},
		{"volatile field", AccPrivate | AccVolatile, TargetField, []Modifier{Private, Volatile}},
		{"bridge bit on method is not volatile", AccPublic | AccBridge, TargetMethod, []Modifier{Public}},
		{"synchronized method", AccProtected | AccSynchronized, TargetMethod, []Modifier{Protected, Synchronized}},
		{"super bit on class is not synchronized", AccPublic | AccSynchronized, TargetType, []Modifier{Public}},
		{"abstract class", AccPublic | AccAbstract, TargetType, []Modifier{Public, Abstract}},
		{"final parameter", AccFinal, TargetParameter, []Modifier{Final}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeModifiers(tt.flags, tt.target))
		})
	}
}
