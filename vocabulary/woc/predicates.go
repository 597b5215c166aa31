package woc

import "github.com/c360studio/semstreams/vocabulary"

// Entity predicates apply to every kind of code entity.
const (
	// TypeOf links an entity to its ontology class.
	TypeOf = "woc.entity.type"

	// Name is the simple name of a named entity.
	Name = "woc.entity.name"

	// Label is a human readable label derived from the name.
	// Example: "getFieldName" becomes "get field name".
	Label = "woc.entity.label"

	// Comment is the documentation comment attached to a declaration.
	Comment = "woc.entity.comment"

	// HasModifier links an entity to a modifier individual.
	HasModifier = "woc.entity.modifier"

	// HasAnnotation links a declaration to the annotation types applied to it.
	HasAnnotation = "woc.entity.annotation"
)

// Structure predicates describe containment and declaration.
const (
	// DeclaredBy links a member or nested type to its declaring type.
	DeclaredBy = "woc.structure.declared_by"

	// HasField links a type to a field it declares.
	HasField = "woc.structure.field"

	// HasMethod links a type to a method it declares.
	HasMethod = "woc.structure.method"

	// HasConstructor links a type to a constructor it declares.
	HasConstructor = "woc.structure.constructor"

	// HasParameter links an executable to its parameters.
	HasParameter = "woc.structure.parameter"

	// Position is the zero-based index of a parameter.
	Position = "woc.structure.position"

	// HasPackage links a type to its package.
	HasPackage = "woc.structure.package"

	// IsPackageOf links a package to the types it contains.
	IsPackageOf = "woc.structure.package_of"

	// HasProject links a package to the project that contains it.
	HasProject = "woc.structure.project"

	// HasDependency links a project to a binary dependency.
	HasDependency = "woc.structure.dependency"
)

// Type predicates relate entities to types.
const (
	// HasType links a field or parameter to its type.
	HasType = "woc.type.has_type"

	// CanonicalName is the dotted source name of a class-like type.
	CanonicalName = "woc.type.canonical_name"

	// Extends links a type to its superclass or super-interface, and an
	// upper-bounded wildcard to its bound.
	Extends = "woc.type.extends"

	// Implements links a class to an interface it implements.
	Implements = "woc.type.implements"

	// ArrayOf links an array type to its innermost element type.
	ArrayOf = "woc.type.array_of"

	// Dimensions is the number of array dimensions.
	Dimensions = "woc.type.dimensions"

	// GenericType links a parameterized type to its raw type.
	GenericType = "woc.type.generic_type"

	// ActualTypeArgument links a parameterized type to its type arguments.
	ActualTypeArgument = "woc.type.actual_argument"

	// FormalTypeParameter links a generic declaration to its type parameters.
	FormalTypeParameter = "woc.type.formal_parameter"

	// SuperBound links a type variable to a bound, or a wildcard to its
	// lower bound. Upper-bounded wildcards use Extends.
	SuperBound = "woc.type.super_bound"
)

// Executable predicates apply to methods and constructors.
const (
	// ReturnType links a method to its return type.
	ReturnType = "woc.executable.return_type"

	// ReturnDescription is the @return text of a method's doc comment.
	ReturnDescription = "woc.executable.return_description"

	// Throws links an executable to a declared exception type.
	Throws = "woc.executable.throws"

	// VarArgs marks an executable whose last parameter is variadic.
	VarArgs = "woc.executable.varargs"

	// Overrides links a method to the method it overrides.
	Overrides = "woc.executable.overrides"
)

// Source predicates are only emitted for declarations with source.
const (
	// Line is the first source line of a declaration.
	Line = "woc.source.line"

	// EndLine is the last source line of a declaration.
	EndLine = "woc.source.end_line"

	// SourceCode is the source text of a declaration.
	SourceCode = "woc.source.code"
)

func init() {
	vocabulary.Register(TypeOf,
		vocabulary.WithDescription("Ontology class of a code entity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RdfType))

	vocabulary.Register(Name,
		vocabulary.WithDescription("Simple name of a code entity"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"hasName"))

	vocabulary.Register(Label,
		vocabulary.WithDescription("Readable label split from the entity name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RdfsLabel))

	vocabulary.Register(Comment,
		vocabulary.WithDescription("Documentation comment of a declaration"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RdfsComment))

	vocabulary.Register(HasModifier,
		vocabulary.WithDescription("Modifier applied to a declaration"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasModifier"))

	vocabulary.Register(HasAnnotation,
		vocabulary.WithDescription("Annotation type applied to a declaration"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasAnnotation"))

	vocabulary.Register(DeclaredBy,
		vocabulary.WithDescription("Type that declares a member or nested type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"isDeclaredBy"))

	vocabulary.Register(HasField,
		vocabulary.WithDescription("Field declared by a type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasField"))

	vocabulary.Register(HasMethod,
		vocabulary.WithDescription("Method declared by a type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasMethod"))

	vocabulary.Register(HasConstructor,
		vocabulary.WithDescription("Constructor declared by a type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasConstructor"))

	vocabulary.Register(HasParameter,
		vocabulary.WithDescription("Formal parameter of a method or constructor"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasParameter"))

	vocabulary.Register(Position,
		vocabulary.WithDescription("Zero-based parameter index"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"hasPosition"))

	vocabulary.Register(HasPackage,
		vocabulary.WithDescription("Package of a type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasPackage"))

	vocabulary.Register(IsPackageOf,
		vocabulary.WithDescription("Type contained in a package"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"isPackageOf"))

	vocabulary.Register(HasProject,
		vocabulary.WithDescription("Project containing a package"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasProject"))

	vocabulary.Register(HasDependency,
		vocabulary.WithDescription("Binary dependency of a project"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasDependency"))

	vocabulary.Register(HasType,
		vocabulary.WithDescription("Type of a field or parameter"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasType"))

	vocabulary.Register(CanonicalName,
		vocabulary.WithDescription("Dotted source name of a type"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"hasCanonicalName"))

	vocabulary.Register(Extends,
		vocabulary.WithDescription("Superclass or super-interface of a type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"extends"))

	vocabulary.Register(Implements,
		vocabulary.WithDescription("Interface implemented by a class"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"implements"))

	vocabulary.Register(ArrayOf,
		vocabulary.WithDescription("Innermost element type of an array type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"isArrayOf"))

	vocabulary.Register(Dimensions,
		vocabulary.WithDescription("Number of array dimensions"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"hasDimensions"))

	vocabulary.Register(GenericType,
		vocabulary.WithDescription("Raw type of a parameterized type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasGenericType"))

	vocabulary.Register(ActualTypeArgument,
		vocabulary.WithDescription("Type argument of a parameterized type"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasActualTypeArgument"))

	vocabulary.Register(FormalTypeParameter,
		vocabulary.WithDescription("Type parameter of a generic declaration"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasFormalTypeParameter"))

	vocabulary.Register(SuperBound,
		vocabulary.WithDescription("Bound of a type variable or lower bound of a wildcard"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasSuperBound"))

	vocabulary.Register(ReturnType,
		vocabulary.WithDescription("Return type of a method"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"hasReturnType"))

	vocabulary.Register(ReturnDescription,
		vocabulary.WithDescription("Documented meaning of a method's return value"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"hasReturnDescription"))

	vocabulary.Register(Throws,
		vocabulary.WithDescription("Exception type declared by an executable"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"throws"))

	vocabulary.Register(VarArgs,
		vocabulary.WithDescription("Whether the executable takes variable arguments"),
		vocabulary.WithDataType("bool"),
		vocabulary.WithIRI(Namespace+"isVarArgs"))

	vocabulary.Register(Overrides,
		vocabulary.WithDescription("Method overridden by this method"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"overrides"))

	vocabulary.Register(Line,
		vocabulary.WithDescription("First source line of a declaration"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"hasLine"))

	vocabulary.Register(EndLine,
		vocabulary.WithDescription("Last source line of a declaration"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(Namespace+"hasEndLine"))

	vocabulary.Register(SourceCode,
		vocabulary.WithDescription("Source text of a declaration"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"hasSourceCode"))
}

// Predicates lists every predicate the extractor emits, in a stable order.
func Predicates() []string {
	return []string{
		TypeOf, Name, Label, Comment, HasModifier, HasAnnotation,
		DeclaredBy, HasField, HasMethod, HasConstructor, HasParameter, Position,
		HasPackage, IsPackageOf, HasProject, HasDependency,
		HasType, CanonicalName, Extends, Implements, ArrayOf, Dimensions,
		GenericType, ActualTypeArgument, FormalTypeParameter, SuperBound,
		ReturnType, ReturnDescription, Throws, VarArgs, Overrides,
		Line, EndLine, SourceCode,
	}
}

// PredicateIRI returns the ontology IRI of a predicate, falling back to the
// woc namespace for unregistered names.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}
