package geolod

// Namespace is the base IRI for the geo-lod core ontology and its instances.
const Namespace = "http://w3id.org/geo-lod/"

// CRSWGS84 is the coordinate reference system embedded in every WKT literal.
const CRSWGS84 = "http://www.opengis.net/def/crs/EPSG/0/4326"

// CRS84 is the OGC longitude/latitude CRS, accepted alongside CRSWGS84 when
// validating caller supplied WKT.
const CRS84 = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"

// Namespace IRIs of the external vocabularies.
const (
	NamespaceRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL    = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD    = "http://www.w3.org/2001/XMLSchema#"
	NamespaceGeo    = "http://www.opengis.net/ont/geosparql#"
	NamespaceSF     = "http://www.opengis.net/ont/sf#"
	NamespaceCRM    = "http://www.cidoc-crm.org/cidoc-crm/"
	NamespaceCRMSci = "http://www.ics.forth.gr/isl/CRMsci/"
	NamespaceSOSA   = "http://www.w3.org/ns/sosa/"
	NamespaceSSN    = "http://www.w3.org/ns/ssn/"
	NamespaceQUDT   = "http://qudt.org/schema/qudt/"
	NamespaceUnit   = "http://qudt.org/vocab/unit/"
	NamespacePROV   = "http://www.w3.org/ns/prov#"
	NamespaceDCT    = "http://purl.org/dc/terms/"
	NamespaceDCAT   = "http://www.w3.org/ns/dcat#"
	NamespaceVOID   = "http://rdfs.org/ns/void#"
	NamespaceSKOS   = "http://www.w3.org/2004/02/skos/core#"
)

// RDF, RDFS and OWL terms.
const (
	RDFType     = NamespaceRDF + "type"
	RDFSLabel   = NamespaceRDFS + "label"
	RDFSMember  = NamespaceRDFS + "member"
	RDFSComment = NamespaceRDFS + "comment"
)

// GeoSPARQL and Simple Features terms.
const (
	// GeoFeature is asserted on every site.
	GeoFeature = NamespaceGeo + "Feature"

	// GeoGeometry is the abstract geometry class. It is labelled in the core
	// ontology but never asserted on instances.
	GeoGeometry = NamespaceGeo + "Geometry"

	// GeoFeatureCollection groups sites.
	GeoFeatureCollection = NamespaceGeo + "FeatureCollection"

	// GeoHasGeometry links a site to its point geometry.
	GeoHasGeometry = NamespaceGeo + "hasGeometry"

	// GeoAsWKT carries the CRS-prefixed WKT literal of a geometry.
	GeoAsWKT = NamespaceGeo + "asWKT"

	// GeoWKTLiteral is the datatype of GeoAsWKT values.
	GeoWKTLiteral = NamespaceGeo + "wktLiteral"

	// SFPoint is the only geometry type asserted by this layer.
	SFPoint = NamespaceSF + "Point"
)

// CIDOC-CRM terms.
const (
	CRMPlace = NamespaceCRM + "E53_Place"
	CRMSite  = NamespaceCRM + "E27_Site"
)

// Core ontology classes.
const (
	ClassSamplingLocation         = Namespace + "SamplingLocation"
	ClassPalaeoclimateSample      = Namespace + "PalaeoclimateSample"
	ClassPalaeoclimateObservation = Namespace + "PalaeoclimateObservation"
	ClassObservableProperty       = Namespace + "ObservableProperty"
	ClassChronology               = Namespace + "Chronology"
	ClassMeasurementType          = Namespace + "MeasurementType"
	ClassSmoothingMethod          = Namespace + "SmoothingMethod"
	ClassRollingMedianFilter      = Namespace + "RollingMedianFilter"
	ClassSavitzkyGolayFilter      = Namespace + "SavitzkyGolayFilter"
	ClassDataSource               = Namespace + "DataSource"
)

// Domain extension classes. They are defined by the ice-core and speleothem
// extension ontologies; only their names are needed here.
const (
	// ClassDrillingSite is the ice-core sampling location (EPICA).
	ClassDrillingSite = Namespace + "DrillingSite"

	// ClassCave is the speleothem sampling location (SISAL).
	ClassCave = Namespace + "Cave"
)

// Property IRIs from the core ontology.
const (
	PropAgeChronology   = Namespace + "ageChronology"
	PropMeasurementType = Namespace + "measurementType"
	PropTookPlaceAt     = Namespace + "tookPlaceAt"
	PropExtractedFrom   = Namespace + "extractedFrom"
	PropRemovedSample   = Namespace + "removedSample"
	PropHasObservation  = Namespace + "hasObservation"
	PropAgeKaBP         = Namespace + "ageKaBP"
	PropMeasuredValue   = Namespace + "measuredValue"
	PropWindowSize      = Namespace + "windowSize"
	PropPolyOrder       = Namespace + "polyOrder"
)
