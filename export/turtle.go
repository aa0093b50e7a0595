package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/cayleygraph/quad"
)

// inlineObjects is the largest object list written on the predicate line.
// Longer lists put one object per line.
const inlineObjects = 4

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	g  *graph.Graph
	sb strings.Builder
}

// NewTurtleWriter creates a Turtle writer that compacts IRIs with the
// namespaces bound on g.
func NewTurtleWriter(g *graph.Graph) *TurtleWriter {
	return &TurtleWriter{g: g}
}

// WritePrefixes writes prefix declarations in binding order.
func (w *TurtleWriter) WritePrefixes() {
	for _, b := range w.g.Bindings() {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", b.Prefix, b.IRI)
	}
	w.sb.WriteString("\n")
}

// WriteSubject writes one subject block. Predicates appear in first-insertion
// order with their objects grouped.
func (w *TurtleWriter) WriteSubject(subject string, triples []graph.Triple) {
	type group struct {
		predicate string
		objects   []quad.Value
	}
	var groups []*group
	index := make(map[string]*group)
	for _, t := range triples {
		gr, ok := index[t.Predicate]
		if !ok {
			gr = &group{predicate: t.Predicate}
			index[t.Predicate] = gr
			groups = append(groups, gr)
		}
		gr.objects = append(gr.objects, t.Object)
	}

	w.sb.WriteString(w.term(subject))
	w.sb.WriteString("\n")
	for i, gr := range groups {
		pred := w.term(gr.predicate)
		if gr.predicate == geolod.RDFType {
			pred = "a"
		}
		objs := make([]string, len(gr.objects))
		for j, o := range gr.objects {
			objs[j] = w.object(o)
		}

		sep := ", "
		if len(objs) > inlineObjects {
			sep = ",\n        "
		}
		terminator := " ;"
		if i == len(groups)-1 {
			terminator = " ."
		}
		fmt.Fprintf(&w.sb, "    %s %s%s\n", pred, strings.Join(objs, sep), terminator)
	}
}

// WriteBlank writes a blank line for readability.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// term writes an IRI as prefix:local when a bound namespace covers it and
// the local part is a valid Turtle local name, and as <iri> otherwise.
func (w *TurtleWriter) term(iri string) string {
	short := w.g.ShortIRI(iri)
	if short != iri {
		if i := strings.IndexByte(short, ':'); i > 0 && validLocalName(short[i+1:]) {
			return short
		}
	}
	return "<" + iri + ">"
}

func (w *TurtleWriter) object(v quad.Value) string {
	switch o := v.(type) {
	case quad.IRI:
		return w.term(string(o))
	case quad.String:
		return `"` + escapeString(string(o)) + `"`
	case quad.LangString:
		return `"` + escapeString(string(o.Value)) + `"@` + o.Lang
	case quad.TypedString:
		return `"` + escapeString(string(o.Value)) + `"^^` + w.term(string(o.Type))
	default:
		return v.String()
	}
}

// validLocalName accepts a conservative subset of Turtle PN_LOCAL: letters,
// digits, '_' and '-', not starting with '-'. Escapes, '.' and '%' are never
// produced so such names fall back to a full IRI.
func validLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

// toTurtle serializes every subject of g in first-appearance order.
func toTurtle(g *graph.Graph) []byte {
	w := NewTurtleWriter(g)
	w.WritePrefixes()

	bySubject := make(map[string][]graph.Triple)
	for _, t := range g.Triples() {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}
	for i, s := range g.Subjects() {
		if i > 0 {
			w.WriteBlank()
		}
		w.WriteSubject(s, bySubject[s])
	}
	return []byte(w.String())
}
