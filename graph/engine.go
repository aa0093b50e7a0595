package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDependencyUnavailable is returned when the requested RDF engine is not
// present. Callers must abort the export; there is no fallback engine.
var ErrDependencyUnavailable = errors.New("rdf graph engine unavailable")

// DefaultEngine is the name of the built-in engine backed by cayleygraph/quad terms.
const DefaultEngine = "quad"

// Engine creates triple stores. It is the capability boundary between graph
// construction and the RDF term implementation.
type Engine interface {
	// Name identifies the engine in configuration and logs.
	Name() string

	// NewStore returns an empty, append-only triple store.
	NewStore() (Store, error)
}

// Store is an append-only set of triples that remembers first-insertion order.
type Store interface {
	// Add inserts t and reports whether it was new.
	Add(t Triple) bool

	// Has reports whether t is present.
	Has(t Triple) bool

	// Triples returns all triples in first-insertion order.
	Triples() []Triple

	// Len returns the number of distinct triples.
	Len() int
}

var (
	enginesMu sync.RWMutex
	engines   = map[string]Engine{
		DefaultEngine: quadEngine{},
	}
)

// RegisterEngine makes an engine available by name. Registering a name twice
// replaces the earlier engine.
func RegisterEngine(e Engine) error {
	if e == nil {
		return fmt.Errorf("register engine: nil engine")
	}
	if e.Name() == "" {
		return fmt.Errorf("register engine: empty name")
	}

	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[e.Name()] = e
	return nil
}

// LookupEngine returns the engine registered under name.
func LookupEngine(name string) (Engine, error) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()

	e, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrDependencyUnavailable, name, engineNamesLocked())
	}
	return e, nil
}

// EngineNames lists the registered engine names, sorted.
func EngineNames() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	return engineNamesLocked()
}

func engineNamesLocked() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// quadEngine stores triples whose objects are cayleygraph/quad values.
type quadEngine struct{}

func (quadEngine) Name() string { return DefaultEngine }

func (quadEngine) NewStore() (Store, error) {
	return &memStore{index: make(map[string]struct{})}, nil
}

type memStore struct {
	triples []Triple
	index   map[string]struct{}
}

func (s *memStore) Add(t Triple) bool {
	k := t.key()
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = struct{}{}
	s.triples = append(s.triples, t)
	return true
}

func (s *memStore) Has(t Triple) bool {
	_, ok := s.index[t.key()]
	return ok
}

func (s *memStore) Triples() []Triple {
	out := make([]Triple, len(s.triples))
	copy(out, s.triples)
	return out
}

func (s *memStore) Len() int { return len(s.triples) }
