// Package graph builds RDF graphs with every geo-lod namespace pre-bound.
package graph

import (
	"fmt"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
)

// Triple is a single subject-predicate-object statement. Subject and
// predicate are absolute IRIs; the object is an IRI or a literal.
type Triple struct {
	Subject   string
	Predicate string
	Object    quad.Value
}

// Quad converts the triple to a default-graph cayleygraph quad.
func (t Triple) Quad() quad.Quad {
	return quad.Quad{
		Subject:   quad.IRI(t.Subject),
		Predicate: quad.IRI(t.Predicate),
		Object:    t.Object,
	}
}

func (t Triple) key() string {
	obj := ""
	if t.Object != nil {
		obj = t.Object.String()
	}
	return t.Subject + "\x00" + t.Predicate + "\x00" + obj
}

// IRI returns an IRI object term.
func IRI(iri string) quad.Value {
	return quad.IRI(iri)
}

// LangString returns a language-tagged literal.
func LangString(value, lang string) quad.Value {
	return quad.LangString{Value: quad.String(value), Lang: lang}
}

// TypedString returns a literal with an explicit datatype IRI.
func TypedString(value, datatype string) quad.Value {
	return quad.TypedString{Value: quad.String(value), Type: quad.IRI(datatype)}
}

// Graph is an append-only set of triples. A Graph is owned by one caller for
// the duration of an export and must not be mutated concurrently.
type Graph struct {
	engine   string
	store    Store
	ns       *voc.Namespaces
	bindings []geolod.Binding
}

// New returns an empty graph from the default engine.
func New() (*Graph, error) {
	return NewWithEngine(DefaultEngine)
}

// NewWithEngine returns an empty graph from the named engine.
func NewWithEngine(name string) (*Graph, error) {
	e, err := LookupEngine(name)
	if err != nil {
		return nil, err
	}
	return NewFromEngine(e)
}

// NewFromEngine returns an empty graph backed by a store from e, with every
// registry namespace bound before the first triple is added.
func NewFromEngine(e Engine) (*Graph, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: no engine", ErrDependencyUnavailable)
	}
	store, err := e.NewStore()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDependencyUnavailable, e.Name(), err)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %s returned no store", ErrDependencyUnavailable, e.Name())
	}

	g := &Graph{
		engine:   e.Name(),
		store:    store,
		ns:       &voc.Namespaces{},
		bindings: geolod.Namespaces(),
	}
	for _, b := range g.bindings {
		g.ns.Register(voc.Namespace{Full: b.IRI, Prefix: b.Prefix + ":"})
	}
	return g, nil
}

// Engine returns the name of the engine backing the graph.
func (g *Graph) Engine() string { return g.engine }

// Bindings returns the namespace bindings of the graph in declaration order.
func (g *Graph) Bindings() []geolod.Binding {
	out := make([]geolod.Binding, len(g.bindings))
	copy(out, g.bindings)
	return out
}

// ShortIRI compacts iri to prefix:local form using the bound namespaces.
// IRIs outside every bound namespace are returned unchanged.
func (g *Graph) ShortIRI(iri string) string {
	return g.ns.ShortIRI(iri)
}

// Add appends a triple and reports whether it was new. Re-adding an existing
// triple is a no-op.
func (g *Graph) Add(subject, predicate string, object quad.Value) bool {
	return g.store.Add(Triple{Subject: subject, Predicate: predicate, Object: object})
}

// AddIRI appends a triple whose object is an IRI.
func (g *Graph) AddIRI(subject, predicate, object string) bool {
	return g.Add(subject, predicate, quad.IRI(object))
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(subject, predicate string, object quad.Value) bool {
	return g.store.Has(Triple{Subject: subject, Predicate: predicate, Object: object})
}

// HasIRI reports whether the triple with an IRI object is in the graph.
func (g *Graph) HasIRI(subject, predicate, object string) bool {
	return g.Has(subject, predicate, quad.IRI(object))
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return g.store.Len() }

// Triples returns every triple in first-insertion order.
func (g *Graph) Triples() []Triple { return g.store.Triples() }

// Objects returns the objects of all triples matching subject and predicate.
func (g *Graph) Objects(subject, predicate string) []quad.Value {
	var out []quad.Value
	for _, t := range g.store.Triples() {
		if t.Subject == subject && t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

// Count returns the number of triples with the given subject, and predicate
// when predicate is non-empty.
func (g *Graph) Count(subject, predicate string) int {
	n := 0
	for _, t := range g.store.Triples() {
		if t.Subject == subject && (predicate == "" || t.Predicate == predicate) {
			n++
		}
	}
	return n
}

// Subjects returns the distinct subjects in first-appearance order.
func (g *Graph) Subjects() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range g.store.Triples() {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			out = append(out, t.Subject)
		}
	}
	return out
}

// SubjectsOfType returns subjects asserted as rdf:type class, in
// first-appearance order.
func (g *Graph) SubjectsOfType(class string) []string {
	var out []string
	for _, t := range g.store.Triples() {
		if t.Predicate != geolod.RDFType {
			continue
		}
		if iri, ok := t.Object.(quad.IRI); ok && string(iri) == class {
			out = append(out, t.Subject)
		}
	}
	return out
}
