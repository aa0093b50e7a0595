package export

import (
	"bytes"
	"fmt"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/cayleygraph/quad/nquads"
)

// toNTriples writes every triple of g as a default-graph N-Quads line, which
// is N-Triples.
func toNTriples(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	w := nquads.NewWriter(&buf)
	for _, t := range g.Triples() {
		if err := w.WriteQuad(t.Quad()); err != nil {
			return nil, fmt.Errorf("write n-triples: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close n-triples writer: %w", err)
	}
	return buf.Bytes(), nil
}
