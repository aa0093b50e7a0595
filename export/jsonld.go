package export

import (
	"bytes"
	"fmt"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/cayleygraph/quad/jsonld"
)

// jsonldContext maps every prefix bound on g to its namespace, so the
// compacted document uses the same CURIEs as the Turtle output.
func jsonldContext(g *graph.Graph) map[string]any {
	ctx := make(map[string]any)
	for _, b := range g.Bindings() {
		ctx[b.Prefix] = b.IRI
	}
	return ctx
}

// toJSONLD writes every triple of g as a JSON-LD document compacted
// against the graph's prefixes.
func toJSONLD(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := jsonld.NewWriter(&buf)
	w.SetLdContext(jsonldContext(g))
	for _, t := range g.Triples() {
		if err := w.WriteQuad(t.Quad()); err != nil {
			return nil, fmt.Errorf("write json-ld: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close json-ld writer: %w", err)
	}
	return buf.Bytes(), nil
}
