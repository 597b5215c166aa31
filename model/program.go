// Package model defines the resolved program model the extraction engine
// consumes. A front-end that parses and type-resolves Java sources produces
// a Program; this package only describes and loads it.
package model

import (
	"strings"
	"sync"
)

// TypeKind is the declaration kind of a class-like type.
type TypeKind string

// Declaration kinds.
const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindAnnotation TypeKind = "annotation"
)

// Program is the root of a resolved program model.
type Program struct {
	Project    *Project     `json:"project,omitempty"`
	Packages   []*Package   `json:"packages"`
	References []*MemberRef `json:"references,omitempty"`

	mu    sync.RWMutex
	index map[string]*TypeDecl
}

// Project describes the analysed project for the structural pass.
type Project struct {
	Name         string   `json:"name"`
	BuildFile    string   `json:"buildFile,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Package is a source package with its top-level types.
type Package struct {
	Name    string      `json:"name"`
	Comment string      `json:"comment,omitempty"`
	Types   []*TypeDecl `json:"types"`
}

// TypeDecl is a class, interface, enum or annotation declared in source.
type TypeDecl struct {
	Kind           TypeKind         `json:"kind"`
	Name           string           `json:"name"`
	Modifiers      Modifiers        `json:"modifiers,omitempty"`
	TypeParameters []*TypeParameter `json:"typeParameters,omitempty"`
	Superclass     *TypeRef         `json:"superclass,omitempty"`
	Interfaces     []*TypeRef       `json:"interfaces,omitempty"`
	Fields         []*Field         `json:"fields,omitempty"`
	Constructors   []*Method        `json:"constructors,omitempty"`
	Methods        []*Method        `json:"methods,omitempty"`
	Types          []*TypeDecl      `json:"types,omitempty"`
	Annotations    []*Annotation    `json:"annotations,omitempty"`
	Comment        string           `json:"comment,omitempty"`
	Position       *Position        `json:"position,omitempty"`
	Source         string           `json:"source,omitempty"`

	enclosing *TypeDecl
	pkg       *Package
}

// SimpleName returns the name without package or enclosing types.
func (d *TypeDecl) SimpleName() string {
	return SimpleName(d.Name)
}

// Enclosing returns the declaring type of a nested type, or nil.
func (d *TypeDecl) Enclosing() *TypeDecl { return d.enclosing }

// Package returns the package the type belongs to, or nil before indexing.
func (d *TypeDecl) Package() *Package { return d.pkg }

// Ref returns a raw reference to the declared type.
func (d *TypeDecl) Ref() *TypeRef {
	return &TypeRef{Kind: RefType, Name: d.Name}
}

// Field is a field declaration.
type Field struct {
	Name        string        `json:"name"`
	Type        *TypeRef      `json:"type"`
	Modifiers   Modifiers     `json:"modifiers,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Comment     string        `json:"comment,omitempty"`
	Position    *Position     `json:"position,omitempty"`
	Source      string        `json:"source,omitempty"`
}

// Method is a method or constructor declaration.
type Method struct {
	Name           string           `json:"name"`
	Constructor    bool             `json:"constructor,omitempty"`
	Modifiers      Modifiers        `json:"modifiers,omitempty"`
	TypeParameters []*TypeParameter `json:"typeParameters,omitempty"`
	Parameters     []*Parameter     `json:"parameters,omitempty"`
	ReturnType     *TypeRef         `json:"returnType,omitempty"`
	Throws         []*TypeRef       `json:"throws,omitempty"`
	VarArgs        bool             `json:"varArgs,omitempty"`
	Overrides      *MemberRef       `json:"overrides,omitempty"`
	Annotations    []*Annotation    `json:"annotations,omitempty"`
	Comment        string           `json:"comment,omitempty"`
	Position       *Position        `json:"position,omitempty"`
	Source         string           `json:"source,omitempty"`
}

// Parameter is a formal parameter of a method or constructor.
type Parameter struct {
	Name        string        `json:"name"`
	Type        *TypeRef      `json:"type"`
	Modifiers   Modifiers     `json:"modifiers,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Position    *Position     `json:"position,omitempty"`
}

// TypeParameter is a formal type parameter of a generic declaration.
type TypeParameter struct {
	Name   string     `json:"name"`
	Bounds []*TypeRef `json:"bounds,omitempty"`
}

// Annotation is an annotation applied to a declaration.
type Annotation struct {
	Type *TypeRef `json:"type"`
}

// Position locates a declaration in its source file.
type Position struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	EndLine int    `json:"endLine,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// MemberRef references a field, method or constructor that may live in a
// binary-only dependency. ParameterTypes are erased; Type and ReturnType are
// the erased types the front-end saw, and may be nil.
type MemberRef struct {
	DeclaringType  *TypeRef   `json:"declaringType"`
	Name           string     `json:"name"`
	Field          bool       `json:"field,omitempty"`
	Constructor    bool       `json:"constructor,omitempty"`
	ParameterTypes []*TypeRef `json:"parameterTypes,omitempty"`
	Type           *TypeRef   `json:"type,omitempty"`
	ReturnType     *TypeRef   `json:"returnType,omitempty"`
}

// Index builds the binary-name lookup table and links nested types to their
// enclosing type and package. It is idempotent and safe for concurrent use
// with Lookup.
func (p *Program) Index() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexLocked()
}

func (p *Program) indexLocked() {
	p.index = make(map[string]*TypeDecl)
	for _, pkg := range p.Packages {
		for _, t := range pkg.Types {
			p.indexType(pkg, nil, t)
		}
	}
}

func (p *Program) indexType(pkg *Package, enclosing, t *TypeDecl) {
	t.pkg = pkg
	t.enclosing = enclosing
	p.index[t.Name] = t
	for _, nested := range t.Types {
		p.indexType(pkg, t, nested)
	}
}

// Lookup returns the declaration for a binary name.
func (p *Program) Lookup(name string) (*TypeDecl, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	index := p.index
	p.mu.RUnlock()
	if index == nil {
		p.mu.Lock()
		if p.index == nil {
			p.indexLocked()
		}
		index = p.index
		p.mu.Unlock()
	}
	d, ok := index[name]
	return d, ok
}

// Types returns every declared type, nested ones included, in model order.
func (p *Program) Types() []*TypeDecl {
	var out []*TypeDecl
	var walk func(ts []*TypeDecl)
	walk = func(ts []*TypeDecl) {
		for _, t := range ts {
			out = append(out, t)
			walk(t.Types)
		}
	}
	for _, pkg := range p.Packages {
		walk(pkg.Types)
	}
	return out
}

// SimpleName strips the package and any enclosing type names from a binary
// name: "a.b.Outer$Inner" becomes "Inner".
func SimpleName(binaryName string) string {
	name := binaryName
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '$'); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}
	return name
}

// PackageName returns the package part of a binary name.
func PackageName(binaryName string) string {
	if i := strings.LastIndexByte(binaryName, '.'); i >= 0 {
		return binaryName[:i]
	}
	return ""
}

// EnclosingName returns the binary name of the enclosing type of a nested
// binary name, or "" for a top-level type.
func EnclosingName(binaryName string) string {
	pkgEnd := strings.LastIndexByte(binaryName, '.')
	i := strings.LastIndexByte(binaryName, '$')
	if i <= pkgEnd+1 || i == len(binaryName)-1 {
		return ""
	}
	return binaryName[:i]
}

// CanonicalName converts a binary name to the dotted source form.
func CanonicalName(binaryName string) string {
	pkg := PackageName(binaryName)
	rest := strings.TrimPrefix(binaryName, pkg)
	return pkg + strings.ReplaceAll(rest, "$", ".")
}
