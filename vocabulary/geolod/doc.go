// Package geolod is the single source of truth for the vocabulary namespaces
// used by the geo-lod palaeoclimate Linked-Data export.
//
// The namespace table is fixed at build time and shared by the graph factory,
// the feature builders, the serializers and the core ontology template. Every
// prefix that appears in any output file has a binding here.
//
// # GeoSPARQL Pattern
//
// Sites and geometries follow the GeoSPARQL 1.1 feature/geometry split:
//
//	site  a geo:Feature, crm:E53_Place, crm:E27_Site [, domain class] ;
//	      rdfs:label      "..."@en ;
//	      geo:hasGeometry site_geom .
//
//	site_geom  a sf:Point ;
//	      geo:asWKT "<http://www.opengis.net/def/crs/EPSG/0/4326> POINT(lon lat)"^^geo:wktLiteral .
//
// geo:Geometry is never asserted; sf:Point is a subclass of it in the Simple
// Features ontology and the entailment is left to reasoners.
//
// # Semstreams Integration
//
// Predicates are registered in init() using vocabulary.Register() with their
// standard IRI, so they can be listed and resolved the same way as every
// other semstreams vocabulary. The feature builders write every triple
// through the registered IRI:
//
//	iri, ok := geolod.PredicateIRI(geolod.SiteGeometry)
//	// iri == geolod.GeoHasGeometry
package geolod
