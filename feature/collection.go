package feature

import (
	"fmt"
	"strings"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/geometry"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/cayleygraph/quad"
)

// AddCollection adds a geo:FeatureCollection with one rdfs:member link per
// member, written in caller order. Members are expected to be sites already
// present in g; that is not checked.
func AddCollection(g *graph.Graph, collection, label string, members []string) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", geometry.ErrMalformedInput)
	}
	if collection == "" {
		return fmt.Errorf("%w: empty collection IRI", geometry.ErrMalformedInput)
	}
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: collection %s: empty label", geometry.ErrMalformedInput, collection)
	}
	for i, m := range members {
		if m == "" {
			return fmt.Errorf("%w: collection %s: empty member IRI at index %d", geometry.ErrMalformedInput, collection, i)
		}
	}

	g.AddIRI(collection, collectionType, geolod.GeoFeatureCollection)
	g.Add(collection, collectionLabel, graph.LangString(label, LabelLang))
	for _, m := range members {
		g.AddIRI(collection, collectionMember, m)
	}
	return nil
}

// Members returns the rdfs:member objects of collection in insertion order.
func Members(g *graph.Graph, collection string) []string {
	var out []string
	for _, o := range g.Objects(collection, collectionMember) {
		if iri, ok := o.(quad.IRI); ok {
			out = append(out, string(iri))
		}
	}
	return out
}
