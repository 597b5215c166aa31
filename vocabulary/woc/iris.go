package woc

import "github.com/c360studio/codeontology/model"

// Namespace is the base IRI of the Web-of-Code ontology.
const Namespace = "http://rdf.webofcode.org/woc/"

// Standard vocabularies the ontology reuses.
const (
	// RdfType is rdf:type.
	RdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// RdfsLabel is rdfs:label.
	RdfsLabel = "http://www.w3.org/2000/01/rdf-schema#label"

	// RdfsComment is rdfs:comment.
	RdfsComment = "http://www.w3.org/2000/01/rdf-schema#comment"

	// XSD is the XML Schema datatype namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"
)

// Class IRIs for the kinds of code entities.
const (
	ClassPackage           = Namespace + "Package"
	ClassClass             = Namespace + "Class"
	ClassInterface         = Namespace + "Interface"
	ClassEnum              = Namespace + "Enum"
	ClassAnnotation        = Namespace + "Annotation"
	ClassPrimitiveType     = Namespace + "PrimitiveType"
	ClassArrayType         = Namespace + "ArrayType"
	ClassTypeVariable      = Namespace + "TypeVariable"
	ClassWildcard          = Namespace + "Wildcard"
	ClassParameterizedType = Namespace + "ParameterizedType"
	ClassField             = Namespace + "Field"
	ClassMethod            = Namespace + "Method"
	ClassConstructor       = Namespace + "Constructor"
	ClassParameter         = Namespace + "Parameter"
	ClassProject           = Namespace + "Project"
	ClassJarFile           = Namespace + "JarFile"
)

// Modifier individuals.
const (
	ModifierPublic       = Namespace + "Public"
	ModifierProtected    = Namespace + "Protected"
	ModifierPrivate      = Namespace + "Private"
	ModifierDefault      = Namespace + "Default"
	ModifierAbstract     = Namespace + "Abstract"
	ModifierFinal        = Namespace + "Final"
	ModifierStatic       = Namespace + "Static"
	ModifierSynchronized = Namespace + "Synchronized"
	ModifierVolatile     = Namespace + "Volatile"
	ModifierTransient    = Namespace + "Transient"
	ModifierNative       = Namespace + "Native"
)

var modifierIRIs = map[model.Modifier]string{
	model.Public:         ModifierPublic,
	model.Protected:      ModifierProtected,
	model.Private:        ModifierPrivate,
	model.PackagePrivate: ModifierDefault,
	model.Abstract:       ModifierAbstract,
	model.Final:          ModifierFinal,
	model.Static:         ModifierStatic,
	model.Synchronized:   ModifierSynchronized,
	model.Volatile:       ModifierVolatile,
	model.Transient:      ModifierTransient,
	model.Native:         ModifierNative,
}

// ModifierIRI returns the individual for a decoded modifier.
func ModifierIRI(m model.Modifier) string {
	if iri, ok := modifierIRIs[m]; ok {
		return iri
	}
	return Namespace + string(m)
}

var typeClassIRIs = map[model.TypeKind]string{
	model.KindClass:      ClassClass,
	model.KindInterface:  ClassInterface,
	model.KindEnum:       ClassEnum,
	model.KindAnnotation: ClassAnnotation,
}

// TypeClassIRI returns the class for a declaration kind. Unknown kinds map
// to ClassClass.
func TypeClassIRI(k model.TypeKind) string {
	if iri, ok := typeClassIRIs[k]; ok {
		return iri
	}
	return ClassClass
}
