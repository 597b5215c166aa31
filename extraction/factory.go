package extraction

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/metrics"
	"github.com/c360studio/codeontology/model"
)

// ErrNoClasspath is reported for reference-only entities when the run has
// no Introspector.
var ErrNoClasspath = errors.New("no classpath to introspect")

// Introspector resolves binary names to compiled classes. A
// *classpath.Loader satisfies it.
type Introspector interface {
	Lookup(binaryName string) (*classpath.Class, error)
}

type settings struct {
	classes          Introspector
	declarationFacts bool
	explore          bool
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// Option configures a Factory or Extractor.
type Option func(*settings)

// WithIntrospector sets the class source for reference-only entities.
func WithIntrospector(i Introspector) Option {
	return func(s *settings) { s.classes = i }
}

// WithDeclarationFacts turns comment, position and source code facts on or
// off. They are on by default.
func WithDeclarationFacts(on bool) Option {
	return func(s *settings) { s.declarationFacts = on }
}

// WithArchiveExploration makes reference-only types list their members.
func WithArchiveExploration(on bool) Option {
	return func(s *settings) { s.explore = on }
}

// WithLogger sets the slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func newSettings(opts []Option) settings {
	s := settings{declarationFacts: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Factory wraps model nodes into entities. It returns the same instance
// for the same URI for the lifetime of a run.
type Factory struct {
	settings
	program  *model.Program
	packages map[string]*model.Package

	mu    sync.Mutex
	byURI map[string]Entity
	order []Entity
}

// NewFactory creates the identity cache for one run over program.
func NewFactory(program *model.Program, opts ...Option) *Factory {
	if program == nil {
		program = &model.Program{}
	}
	f := &Factory{
		settings: newSettings(opts),
		program:  program,
		packages: make(map[string]*model.Package),
		byURI:    make(map[string]Entity),
	}
	for _, pkg := range program.Packages {
		if _, dup := f.packages[pkg.Name]; !dup {
			f.packages[pkg.Name] = pkg
		}
	}
	return f
}

// Entities returns every entity created so far, in creation order.
func (f *Factory) Entities() []Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Entity(nil), f.order...)
}

// Lookup returns the entity with uri, if it was created.
func (f *Factory) Lookup(uri string) (Entity, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byURI[uri]
	return e, ok
}

// intern returns the cached entity for uri, or builds and caches one. build
// runs outside the lock since it may introspect classes or wrap the
// enclosing type. An entity of another variant already holding uri is left
// in place and the new one is returned uncached.
func intern[T Entity](f *Factory, uri string, build func() T) T {
	f.mu.Lock()
	if e, ok := f.byURI[uri]; ok {
		f.mu.Unlock()
		if t, ok := e.(T); ok {
			return t
		}
		built := build()
		f.logger.Warn("URI shared by different entity kinds",
			slog.String("uri", uri),
			slog.String("cached", e.Kind().String()),
			slog.String("wrapped", built.Kind().String()))
		return built
	}
	f.mu.Unlock()

	built := build()

	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byURI[uri]; ok {
		if t, ok := e.(T); ok {
			return t
		}
		return built
	}
	f.byURI[uri] = built
	f.order = append(f.order, built)
	return built
}

func (f *Factory) introspect(name string) (*classpath.Class, error) {
	if f.classes == nil {
		return nil, ErrNoClasspath
	}
	return f.classes.Lookup(name)
}

// degrade records an attribute of a reference-only entity that fell back to
// its default.
func (f *Factory) degrade(attribute, uri string, err error) {
	f.metrics.IntrospectionFailed(attribute)
	f.logger.Debug("Introspection degraded",
		slog.String("entity", uri),
		slog.String("attribute", attribute),
		slog.Any("error", err))
}

// WrapType wraps a use-site type. parent is the entity the reference was
// reached from; it resolves the owner of type variables. Unknown reference
// kinds fall back to a class-like type.
func (f *Factory) WrapType(ref *model.TypeRef, parent Entity) Entity {
	if ref == nil {
		return nil
	}
	switch ref.EffectiveKind() {
	case model.RefPrimitive:
		return intern(f, ref.Name, func() *PrimitiveType {
			return &PrimitiveType{base: base{f: f, uri: ref.Name}, name: ref.Name}
		})
	case model.RefArray:
		uri := f.typeURI(ref, parent)
		return intern(f, uri, func() *ArrayType {
			return &ArrayType{base: base{f: f, uri: uri, parent: parent}, ref: ref}
		})
	case model.RefTypeVariable:
		owner, tp := f.resolveTypeVariable(ref.Name, parent)
		uri := typeVariableURI(ref.Name, owner)
		return intern(f, uri, func() *TypeVariable {
			tv := &TypeVariable{base: base{f: f, uri: uri, parent: parent}, name: ref.Name, position: -1}
			if owner != nil {
				tv.parent = owner
			}
			if tp != nil {
				tv.bounds = tp.Bounds
				tv.position = slices.IndexFunc(owner.(generic).typeParameters(), func(p *model.TypeParameter) bool {
					return p != nil && p.Name == tp.Name
				})
			}
			return tv
		})
	case model.RefWildcard:
		uri := f.typeURI(ref, parent)
		return intern(f, uri, func() *Wildcard {
			return &Wildcard{base: base{f: f, uri: uri, parent: parent}, ref: ref}
		})
	case model.RefType:
		if ref.IsParameterized() {
			uri := f.typeURI(ref, parent)
			return intern(f, uri, func() *ParameterizedType {
				return &ParameterizedType{base: base{f: f, uri: uri, parent: parent}, ref: ref}
			})
		}
		return f.WrapTypeName(ref.Name)
	default:
		f.logger.Debug("Unknown type reference kind", slog.String("kind", string(ref.Kind)), slog.String("name", ref.Name))
		return f.WrapTypeName(ref.Name)
	}
}

// WrapTypeName wraps a class-like type by binary name. The result is
// declaration-backed when the program declares the type, and reference-only
// otherwise.
func (f *Factory) WrapTypeName(binaryName string) *DeclaredType {
	if binaryName == "" {
		binaryName = model.Object
	}
	if d, ok := f.program.Lookup(binaryName); ok {
		return f.WrapDeclaration(d)
	}
	uri := classURI(binaryName)
	return intern(f, uri, func() *DeclaredType {
		t := &DeclaredType{base: base{f: f, uri: uri}, name: binaryName, typeKind: model.KindClass}
		t.class, t.classErr = f.introspect(binaryName)
		if t.class != nil {
			t.typeKind = t.class.Kind()
		}
		t.kind = kindOfType(t.typeKind)
		return t
	})
}

// WrapDeclaration wraps a type declared in the program.
func (f *Factory) WrapDeclaration(d *model.TypeDecl) *DeclaredType {
	uri := classURI(d.Name)
	return intern(f, uri, func() *DeclaredType {
		return &DeclaredType{
			base:     base{f: f, uri: uri},
			name:     d.Name,
			typeKind: d.Kind,
			kind:     kindOfType(d.Kind),
			decl:     d,
		}
	})
}

// WrapPackage wraps a declared package. The unnamed package has no entity.
func (f *Factory) WrapPackage(p *model.Package) *Package {
	if p == nil || p.Name == "" {
		return nil
	}
	return intern(f, p.Name, func() *Package {
		return &Package{base: base{f: f, uri: p.Name}, name: p.Name, decl: p}
	})
}

// WrapPackageName wraps a package by name, declaration-backed when the
// program declares it.
func (f *Factory) WrapPackageName(name string) *Package {
	if name == "" {
		return nil
	}
	if p, ok := f.packages[name]; ok {
		return f.WrapPackage(p)
	}
	return intern(f, name, func() *Package {
		return &Package{base: base{f: f, uri: name}, name: name}
	})
}

// WrapField wraps a field declared by owner.
func (f *Factory) WrapField(owner *DeclaredType, d *model.Field) *Field {
	uri := fieldURI(owner.URI(), d.Name, owner.hasMemberType(d.Name))
	return intern(f, uri, func() *Field {
		return &Field{base: base{f: f, uri: uri, parent: owner}, owner: owner, name: d.Name, decl: d}
	})
}

// WrapExecutable wraps a method or constructor declared by owner.
func (f *Factory) WrapExecutable(owner *DeclaredType, d *model.Method) *Executable {
	params := f.erasedParameters(owner, d)
	name := d.Name
	if d.Constructor {
		name = owner.Name()
	}
	uri := executableURI(owner.URI(), name, f.typeURIs(params))
	return intern(f, uri, func() *Executable {
		return &Executable{
			base:        base{f: f, uri: uri, parent: owner},
			owner:       owner,
			name:        name,
			constructor: d.Constructor,
			decl:        d,
		}
	})
}

// WrapParameter wraps the parameter at index of e.
func (f *Factory) WrapParameter(e *Executable, index int) *Parameter {
	uri := parameterURI(e.URI(), index)
	return intern(f, uri, func() *Parameter {
		p := &Parameter{base: base{f: f, uri: uri, parent: e}, exec: e, index: index}
		if e.decl != nil && index < len(e.decl.Parameters) {
			p.decl = e.decl.Parameters[index]
		}
		return p
	})
}

// WrapMemberRef wraps a field, method or constructor reference. The
// declaring type is taken raw, so a member reached through Box<String> is
// declared by Box. A reference into a declared type resolves to the
// declaration when one matches. It returns nil when ref names no member.
func (f *Factory) WrapMemberRef(ref *model.MemberRef) Entity {
	if ref == nil || ref.DeclaringType == nil || ref.Name == "" {
		return nil
	}
	if ref.DeclaringType.EffectiveKind() != model.RefType {
		return nil
	}
	owner := f.WrapTypeName(ref.DeclaringType.Raw().Name)

	if ref.Field {
		if owner.decl != nil {
			for _, d := range owner.decl.Fields {
				if d.Name == ref.Name {
					return f.WrapField(owner, d)
				}
			}
		}
		return f.wrapReferencedField(owner, ref)
	}

	params := make([]*model.TypeRef, len(ref.ParameterTypes))
	for i, p := range ref.ParameterTypes {
		params[i] = p.Erasure(nil)
	}
	if owner.decl != nil {
		if d := f.matchDeclaredExecutable(owner, ref, params); d != nil {
			return f.WrapExecutable(owner, d)
		}
	}
	return f.wrapReferencedExecutable(owner, ref, params)
}

func (f *Factory) matchDeclaredExecutable(owner *DeclaredType, ref *model.MemberRef, params []*model.TypeRef) *model.Method {
	candidates := owner.decl.Methods
	if ref.Constructor {
		candidates = owner.decl.Constructors
	}
	want := f.typeURIs(params)
	for _, d := range candidates {
		if !ref.Constructor && d.Name != ref.Name {
			continue
		}
		got := f.typeURIs(f.erasedParameters(owner, d))
		if slices.Equal(got, want) {
			return d
		}
	}
	return nil
}

func (f *Factory) wrapReferencedField(owner *DeclaredType, ref *model.MemberRef) *Field {
	uri := fieldURI(owner.URI(), ref.Name, owner.hasMemberType(ref.Name))
	return intern(f, uri, func() *Field {
		fl := &Field{base: base{f: f, uri: uri, parent: owner}, owner: owner, name: ref.Name, erased: ref.Type}
		if c, err := owner.introspected(); err != nil {
			fl.memberErr = err
		} else {
			fl.member, fl.memberErr = c.Field(ref.Name)
		}
		return fl
	})
}

// wrapReferencedExecutable resolves ref against the owner's class file. A
// resolved member is keyed by its own descriptor, so a reference matched by
// arity lands on the entity exploration creates for the same method.
func (f *Factory) wrapReferencedExecutable(owner *DeclaredType, ref *model.MemberRef, params []*model.TypeRef) *Executable {
	name, binary := ref.Name, ref.Name
	if ref.Constructor {
		name, binary = owner.Name(), "<init>"
	}
	var member *classpath.Member
	c, memberErr := owner.introspected()
	if memberErr == nil {
		member, memberErr = c.Method(binary, params)
	}
	if member != nil {
		if mt, err := member.MethodType(); err == nil {
			params = mt.Parameters
		}
	}
	uri := executableURI(owner.URI(), name, f.typeURIs(params))
	return intern(f, uri, func() *Executable {
		return &Executable{
			base:        base{f: f, uri: uri, parent: owner},
			owner:       owner,
			name:        name,
			constructor: ref.Constructor,
			ref:         ref,
			erased:      params,
			member:      member,
			memberErr:   memberErr,
		}
	})
}

// wrapClassField wraps a field read from owner's class file.
func (f *Factory) wrapClassField(owner *DeclaredType, m *classpath.Member) *Field {
	uri := fieldURI(owner.URI(), m.Name, owner.hasMemberType(m.Name))
	return intern(f, uri, func() *Field {
		return &Field{base: base{f: f, uri: uri, parent: owner}, owner: owner, name: m.Name, member: m}
	})
}

// wrapClassExecutable wraps a method or constructor read from owner's class
// file. It returns nil when the descriptor cannot be decoded, since the URI
// depends on it.
func (f *Factory) wrapClassExecutable(owner *DeclaredType, m *classpath.Member) *Executable {
	mt, err := m.MethodType()
	if err != nil {
		f.degrade("descriptor", owner.URI()+"/"+m.Name, err)
		return nil
	}
	name := m.Name
	if m.IsConstructor() {
		name = owner.Name()
	}
	uri := executableURI(owner.URI(), name, f.typeURIs(mt.Parameters))
	return intern(f, uri, func() *Executable {
		return &Executable{
			base:        base{f: f, uri: uri, parent: owner},
			owner:       owner,
			name:        name,
			constructor: m.IsConstructor(),
			member:      m,
			erased:      mt.Parameters,
		}
	})
}

// WrapProject wraps the analysed project with its binary dependencies.
func (f *Factory) WrapProject(name string, dependencies []string) *Project {
	return intern(f, name, func() *Project {
		return &Project{base: base{f: f, uri: name}, name: name, dependencies: dependencies}
	})
}

// WrapJarFile wraps a dependency archive by path.
func (f *Factory) WrapJarFile(path string) *JarFile {
	uri := jarURI(path)
	return intern(f, uri, func() *JarFile {
		return &JarFile{base: base{f: f, uri: uri}, name: uri, path: path}
	})
}

// erasedParameters erases the declared parameter types of d, resolving type
// variables through d's own type parameters and then through owner.
func (f *Factory) erasedParameters(owner *DeclaredType, d *model.Method) []*model.TypeRef {
	bounds := func(name string) *model.TypeRef {
		tp := findTypeParameter(d.TypeParameters, name)
		if tp == nil {
			_, tp = f.resolveTypeVariable(name, owner)
		}
		if tp == nil || len(tp.Bounds) == 0 {
			return nil
		}
		return tp.Bounds[0]
	}
	out := make([]*model.TypeRef, len(d.Parameters))
	for i, p := range d.Parameters {
		if p.Type == nil {
			out[i] = model.Named(model.Object)
			continue
		}
		out[i] = p.Type.Erasure(bounds)
	}
	return out
}

func (f *Factory) typeURIs(refs []*model.TypeRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = f.typeURI(r, nil)
	}
	return out
}
