package extraction

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/c360studio/codeontology/model"
)

// classURI maps a binary name to a type URI: top-level types keep their
// dotted name and nested types become <enclosing>/<simple>.
func classURI(binaryName string) string {
	return strings.ReplaceAll(binaryName, "$", "/")
}

// fieldURI is <owner>/<name>. A field sharing its simple name with a member
// type of the same owner becomes <owner>/field-<name>, which no type or
// member URI can produce since '-' is not an identifier character.
func fieldURI(owner, name string, shadowsType bool) string {
	if shadowsType {
		return owner + "/field-" + name
	}
	return owner + "/" + name
}

func executableURI(owner, name string, params []string) string {
	return owner + "/" + name + "(" + strings.Join(params, ",") + ")"
}

func parameterURI(executable string, index int) string {
	return executable + "/parameter/" + strconv.Itoa(index)
}

func typeVariableURI(name string, owner Entity) string {
	if owner == nil {
		return name
	}
	return name + ":" + owner.URI()
}

func jarURI(path string) string {
	return filepath.Base(path)
}

// typeURI computes the URI of a use-site type without wrapping it.
func (f *Factory) typeURI(ref *model.TypeRef, parent Entity) string {
	switch ref.EffectiveKind() {
	case model.RefPrimitive:
		return ref.Name
	case model.RefArray:
		component := ref.Component
		if component == nil {
			component = model.Named(model.Object)
		}
		return f.typeURI(component, parent) + "[]"
	case model.RefTypeVariable:
		owner, _ := f.resolveTypeVariable(ref.Name, parent)
		return typeVariableURI(ref.Name, owner)
	case model.RefWildcard:
		if ref.Bound == nil {
			return "?"
		}
		if ref.BoundKind == model.BoundSuper {
			return "?_super_" + f.typeURI(ref.Bound, parent)
		}
		return "?_extends_" + f.typeURI(ref.Bound, parent)
	default:
		name := ref.Name
		if name == "" {
			name = model.Object
		}
		uri := classURI(name)
		if !ref.IsParameterized() {
			return uri
		}
		args := make([]string, len(ref.Arguments))
		for i, a := range ref.Arguments {
			args[i] = f.typeURI(a, parent)
		}
		return uri + "<" + strings.Join(args, ",") + ">"
	}
}

// generic is implemented by entities that can declare type parameters.
type generic interface {
	Entity
	typeParameters() []*model.TypeParameter
}

// resolveTypeVariable finds the nearest generic declaration that declares
// name, walking outward from the entity a reference was reached from. It
// returns nil when no declaring context is known.
func (f *Factory) resolveTypeVariable(name string, from Entity) (Entity, *model.TypeParameter) {
	for e := from; e != nil; e = scopeOf(e) {
		if g, ok := e.(generic); ok {
			if tp := findTypeParameter(g.typeParameters(), name); tp != nil {
				return e, tp
			}
		}
	}
	return nil, nil
}

// scopeOf returns the lexically enclosing context of e.
func scopeOf(e Entity) Entity {
	switch v := e.(type) {
	case *DeclaredType:
		if enclosing := v.DeclaringType(); enclosing != nil {
			return enclosing
		}
		return nil
	case *Executable:
		return v.owner
	case *Field:
		return v.owner
	case *Parameter:
		return v.exec
	default:
		return e.Parent()
	}
}

func findTypeParameter(params []*model.TypeParameter, name string) *model.TypeParameter {
	for _, tp := range params {
		if tp != nil && tp.Name == name {
			return tp
		}
	}
	return nil
}
