package feature

import "github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"

// Predicate IRIs as registered in the geolod vocabulary.
var (
	siteType     = geolod.MustPredicateIRI(geolod.SiteType)
	siteLabel    = geolod.MustPredicateIRI(geolod.SiteLabel)
	siteGeometry = geolod.MustPredicateIRI(geolod.SiteGeometry)

	geometryType = geolod.MustPredicateIRI(geolod.GeometryType)
	geometryWKT  = geolod.MustPredicateIRI(geolod.GeometryWKT)

	collectionType   = geolod.MustPredicateIRI(geolod.CollectionType)
	collectionLabel  = geolod.MustPredicateIRI(geolod.CollectionLabel)
	collectionMember = geolod.MustPredicateIRI(geolod.CollectionMember)
)
