package export

import (
	"fmt"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/cayleygraph/quad"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONExtension is the file extension of the GeoJSON sidecar.
const GeoJSONExtension = ".geojson"

// GeoJSON returns a FeatureCollection with one point feature per site in g,
// in first-appearance order. Sites whose geometry is missing, not a WGS84 or
// CRS84 point, or unparseable are skipped.
func GeoJSON(g *graph.Graph) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, site := range g.SubjectsOfType(geolod.GeoFeature) {
		for _, gv := range g.Objects(site, geolod.GeoHasGeometry) {
			geomIRI, ok := gv.(quad.IRI)
			if !ok {
				continue
			}
			wkt, ok := wktOf(g, string(geomIRI))
			if !ok {
				continue
			}
			p, crs, err := geometry.ParsePoint(wkt)
			if err != nil || (crs != "" && crs != geolod.CRSWGS84 && crs != geolod.CRS84) {
				continue
			}

			f := geojson.NewFeature(p)
			f.ID = site
			f.Properties["id"] = site
			f.Properties["geometry"] = string(geomIRI)
			if label, ok := labelOf(g, site); ok {
				f.Properties["label"] = label
			}
			f.Properties["types"] = typesOf(g, site)
			fc.Append(f)
		}
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

func wktOf(g *graph.Graph, geom string) (string, bool) {
	for _, o := range g.Objects(geom, geolod.GeoAsWKT) {
		if ts, ok := o.(quad.TypedString); ok {
			return string(ts.Value), true
		}
	}
	return "", false
}

func labelOf(g *graph.Graph, s string) (string, bool) {
	for _, o := range g.Objects(s, geolod.RDFSLabel) {
		switch l := o.(type) {
		case quad.LangString:
			return string(l.Value), true
		case quad.String:
			return string(l), true
		}
	}
	return "", false
}

func typesOf(g *graph.Graph, s string) []string {
	var out []string
	for _, o := range g.Objects(s, geolod.RDFType) {
		if iri, ok := o.(quad.IRI); ok {
			out = append(out, g.ShortIRI(string(iri)))
		}
	}
	return out
}
