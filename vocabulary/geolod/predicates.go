package geolod

import (
	"sort"

	"github.com/c360studio/semstreams/vocabulary"
)

// Site predicates describe a georeferenced sampling location.
const (
	// SiteType is the rdf:type assertion on a site.
	SiteType = "geolod.site.type"

	// SiteLabel is the English label of a site.
	SiteLabel = "geolod.site.label"

	// SiteGeometry links a site to its point geometry.
	SiteGeometry = "geolod.site.geometry"
)

// Geometry predicates.
const (
	// GeometryType is the rdf:type assertion on a geometry (always sf:Point).
	GeometryType = "geolod.geometry.type"

	// GeometryWKT is the CRS-prefixed WKT literal.
	GeometryWKT = "geolod.geometry.wkt"
)

// Collection predicates.
const (
	// CollectionType is the rdf:type assertion on a feature collection.
	CollectionType = "geolod.collection.type"

	// CollectionLabel is the English label of a collection.
	CollectionLabel = "geolod.collection.label"

	// CollectionMember links a collection to one member site.
	CollectionMember = "geolod.collection.member"
)

var predicateNames = []string{
	SiteType, SiteLabel, SiteGeometry,
	GeometryType, GeometryWKT,
	CollectionType, CollectionLabel, CollectionMember,
}

// Predicates returns the names of every predicate registered by this package,
// sorted.
func Predicates() []string {
	out := make([]string, len(predicateNames))
	copy(out, predicateNames)
	sort.Strings(out)
	return out
}

// PredicateIRI returns the standard IRI registered for a dotted predicate name.
func PredicateIRI(name string) (string, bool) {
	meta := vocabulary.GetPredicateMetadata(name)
	if meta == nil || meta.StandardIRI == "" {
		return "", false
	}
	return meta.StandardIRI, true
}

// MustPredicateIRI is PredicateIRI for names registered by this package. It
// panics on an unregistered name.
func MustPredicateIRI(name string) string {
	iri, ok := PredicateIRI(name)
	if !ok {
		panic("geolod: predicate not registered: " + name)
	}
	return iri
}

func init() {
	vocabulary.Register(SiteType,
		vocabulary.WithDescription("Site classes: geo:Feature, crm:E53_Place, crm:E27_Site plus domain classes"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(SiteLabel,
		vocabulary.WithDescription("Human-readable English site label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(SiteGeometry,
		vocabulary.WithDescription("Link from a site to its sf:Point geometry"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(GeoHasGeometry))

	vocabulary.Register(GeometryType,
		vocabulary.WithDescription("Geometry class, always sf:Point"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(GeometryWKT,
		vocabulary.WithDescription("CRS-prefixed WKT POINT literal in longitude/latitude order"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(GeoAsWKT))

	vocabulary.Register(CollectionType,
		vocabulary.WithDescription("Collection class, always geo:FeatureCollection"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(CollectionLabel,
		vocabulary.WithDescription("Human-readable English collection label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(CollectionMember,
		vocabulary.WithDescription("Membership link from a feature collection to a site"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFSMember))
}
