// Package feature adds GeoSPARQL sites and feature collections to a graph.
//
// A site is written with a fixed multi-typing pattern:
//
//	site  a geo:Feature, crm:E53_Place, crm:E27_Site [, extra types] ;
//	      rdfs:label      "label"@en ;
//	      geo:hasGeometry geom .
//	geom  a sf:Point ;
//	      geo:asWKT "<CRS> POINT(lon lat)"^^geo:wktLiteral .
//
// Inputs are validated before the first triple is written, so a rejected
// call leaves the graph untouched.
package feature

import (
	"fmt"
	"strings"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
)

// SiteTypes are the type assertions every site carries.
var SiteTypes = []string{geolod.GeoFeature, geolod.CRMPlace, geolod.CRMSite}

// LabelLang is the language tag of every label written by this package.
const LabelLang = "en"

// AddSiteFromCoords adds a site and its point geometry built from lon/lat,
// formatted with geometry.DefaultPrecision.
func AddSiteFromCoords(g *graph.Graph, site, geom, label string, lon, lat float64, extraTypes ...string) error {
	return AddSiteFromCoordsPrecision(g, site, geom, label, lon, lat, geometry.DefaultPrecision, extraTypes...)
}

// AddSiteFromCoordsPrecision is AddSiteFromCoords with an explicit number of
// decimal digits per coordinate.
func AddSiteFromCoordsPrecision(g *graph.Graph, site, geom, label string, lon, lat float64, precision int, extraTypes ...string) error {
	if err := checkSite(g, site, geom, label); err != nil {
		return err
	}
	if err := geometry.ValidateCoordinates(lon, lat); err != nil {
		return fmt.Errorf("site %s: %w", site, err)
	}
	writeSite(g, site, geom, label, geometry.PointWKT(lon, lat, precision), extraTypes)
	return nil
}

// AddSiteFromWKT adds a site whose geometry is a caller-supplied WKT POINT.
// The CRS prefix is injected when absent; an already-prefixed literal is
// stored unchanged.
func AddSiteFromWKT(g *graph.Graph, site, geom, label, wkt string, extraTypes ...string) error {
	if err := checkSite(g, site, geom, label); err != nil {
		return err
	}
	if _, _, err := geometry.ParsePoint(wkt); err != nil {
		return fmt.Errorf("site %s: %w", site, err)
	}
	writeSite(g, site, geom, label, geometry.EnsureCRS(wkt), extraTypes)
	return nil
}

func checkSite(g *graph.Graph, site, geom, label string) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", geometry.ErrMalformedInput)
	}
	if site == "" {
		return fmt.Errorf("%w: empty site IRI", geometry.ErrMalformedInput)
	}
	if geom == "" {
		return fmt.Errorf("%w: site %s: empty geometry IRI", geometry.ErrMalformedInput, site)
	}
	if geom == site {
		return fmt.Errorf("%w: site %s: geometry IRI equals site IRI", geometry.ErrMalformedInput, site)
	}
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: site %s: empty label", geometry.ErrMalformedInput, site)
	}
	return nil
}

// writeSite is shared by both entry points so they produce identical triples.
func writeSite(g *graph.Graph, site, geom, label, wkt string, extraTypes []string) {
	for _, t := range SiteTypes {
		g.AddIRI(site, siteType, t)
	}
	for _, t := range extraTypes {
		g.AddIRI(site, siteType, t)
	}
	g.Add(site, siteLabel, graph.LangString(label, LabelLang))
	g.AddIRI(site, siteGeometry, geom)

	g.AddIRI(geom, geometryType, geolod.SFPoint)
	g.Add(geom, geometryWKT, graph.TypedString(wkt, geolod.GeoWKTLiteral))
}
