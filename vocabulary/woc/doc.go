// Package woc registers the Web-of-Code ontology terms the extractor emits.
//
// Predicates use dotted names (woc.<group>.<name>) inside the pipeline and
// are registered with the semstreams vocabulary so serializers can map them
// to their ontology IRIs:
//
//	iri := woc.PredicateIRI(woc.DeclaredBy) // http://rdf.webofcode.org/woc/isDeclaredBy
//
// Class and modifier individuals are plain IRI constants.
package woc
