package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/config"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/diagram"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/export"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/feature"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/graph"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/ontology"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/storage"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Combined graph naming.
const (
	AllSitesName            = "all_sites"
	AllSitesCollection      = "All_Sites_Collection"
	AllSitesCollectionLabel = "All Palaeoclimate Sites"
)

// ErrSiteConflict is returned when two domains describe one site
// differently or two sites share a geometry.
var ErrSiteConflict = errors.New("conflicting site")

// DomainResult summarizes one domain export.
type DomainResult struct {
	Name    string
	Sites   int
	Triples int
	Files   []string
}

// Result summarizes a run.
type Result struct {
	RunID    string
	Domains  []DomainResult
	AllSites DomainResult
	Ontology string
	Diagrams map[string]string
	Duration time.Duration
}

// Runner executes export runs from a Config.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *runMetrics

	// newRunID is replaceable in tests
	newRunID func() string
}

// NewRunner creates a Runner. A nil logger uses slog.Default().
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		metrics:  newRunMetrics(),
		newRunID: uuid.NewString,
	}
}

// Registry returns the Prometheus registry holding the run metrics.
func (r *Runner) Registry() *prometheus.Registry {
	return r.metrics.registry
}

// WriteMetrics writes the run metrics to path in the Prometheus text format.
func (r *Runner) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, r.metrics.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Domains returns the enabled domains in run order (ice core, speleothem).
func (r *Runner) Domains() ([]*Domain, error) {
	var out []*Domain
	if r.cfg.IceCore.IsEnabled() {
		d, err := IceCore(r.cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if r.cfg.Speleothem.IsEnabled() {
		d, err := Speleothem(r.cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Run performs one export. Any error aborts the run; files written before
// the failing step are left in place.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: r.newRunID()}
	logger := r.logger.With(slog.String("run_id", res.RunID))

	err := r.run(ctx, logger, res)
	res.Duration = time.Since(start)
	r.metrics.recordRun(err, res.Duration)
	if err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Export complete",
		slog.Int("domains", len(res.Domains)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, res *Result) error {
	formats, err := r.cfg.Output.ExportFormats()
	if err != nil {
		return err
	}
	mode, err := r.cfg.Output.Mode()
	if err != nil {
		return err
	}
	domains, err := r.Domains()
	if err != nil {
		return err
	}
	if err := checkSharedSites(domains); err != nil {
		return err
	}

	for _, d := range domains {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := graph.NewWithEngine(r.cfg.Engine)
		if err != nil {
			return err
		}
		if err := d.Build(g, r.cfg.Precision); err != nil {
			return err
		}
		dr, err := r.writeGraph(d.Name, g, formats)
		if err != nil {
			return err
		}
		dr.Sites = len(d.Sites)
		r.metrics.recordDomain(d.Name, dr.Sites, dr.Triples)
		logger.Info("Domain exported",
			slog.String("domain", d.Name),
			slog.Int("sites", dr.Sites),
			slog.Int("triples", dr.Triples))
		res.Domains = append(res.Domains, dr)
	}

	if len(domains) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		all, err := r.buildAllSites(domains)
		if err != nil {
			return err
		}
		dr, err := r.writeGraph(AllSitesName, all, formats)
		if err != nil {
			return err
		}
		dr.Sites = len(feature.Members(all, geolod.Term(AllSitesCollection)))
		res.AllSites = dr
		logger.Debug("Combined graph exported", slog.Int("sites", dr.Sites), slog.Int("triples", dr.Triples))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	res.Ontology, err = ontology.Publish(r.cfg.Output.OntologyPath(), mode)
	if err != nil {
		return err
	}
	r.metrics.recordFiles("ontology", 1)
	logger.Debug("Ontology published", slog.String("path", res.Ontology))

	if err := ctx.Err(); err != nil {
		return err
	}
	params := r.cfg.DiagramParams(len(r.cfg.Speleothem.Sites))
	res.Diagrams, err = diagram.Publish(r.cfg.Output.DiagramPath(), params, mode)
	if err != nil {
		return err
	}
	r.metrics.recordFiles("diagram", len(res.Diagrams))
	logger.Debug("Diagrams published", slog.Int("files", len(res.Diagrams)), slog.Int("n_sites", params.NSites))
	return nil
}

// buildAllSites returns a graph holding the sites of every domain and one
// collection over all of them. A site listed by two domains is a single
// member; run rejects domains that disagree about it before any file is
// written.
func (r *Runner) buildAllSites(domains []*Domain) (*graph.Graph, error) {
	g, err := graph.NewWithEngine(r.cfg.Engine)
	if err != nil {
		return nil, err
	}
	var members []string
	seen := make(map[string]bool)
	for _, d := range domains {
		if err := d.AddSites(g, r.cfg.Precision); err != nil {
			return nil, err
		}
		for _, m := range d.MemberIRIs() {
			if !seen[m] {
				seen[m] = true
				members = append(members, m)
			}
		}
	}
	if err := feature.AddCollection(g, geolod.Term(AllSitesCollection), AllSitesCollectionLabel, members); err != nil {
		return nil, err
	}
	return g, nil
}

// checkSharedSites fails when two domains disagree about a site or two
// sites point at the same geometry.
func checkSharedSites(domains []*Domain) error {
	sites := make(map[string]Site)
	owners := make(map[string]string)
	for _, d := range domains {
		for _, s := range d.Sites {
			if owner, ok := owners[s.Geometry]; ok && owner != s.IRI {
				return fmt.Errorf("%w: domain %s: geometry %s of site %s already belongs to site %s",
					ErrSiteConflict, d.Name, s.Geometry, s.IRI, owner)
			}
			owners[s.Geometry] = s.IRI
			if prev, ok := sites[s.IRI]; ok && !prev.sameLocation(s) {
				return fmt.Errorf("%w: domain %s: site %s differs from an earlier domain", ErrSiteConflict, d.Name, s.IRI)
			}
			sites[s.IRI] = s
		}
	}
	return nil
}

// writeGraph writes g in every format plus the optional GeoJSON sidecar.
// Per-domain files always overwrite; they have a single writer.
func (r *Runner) writeGraph(name string, g *graph.Graph, formats []export.Format) (DomainResult, error) {
	dir := r.cfg.Output.RDFPath()
	paths, err := export.WriteGraph(dir, name, g, formats, storage.ModeOverwrite)
	if err != nil {
		return DomainResult{}, fmt.Errorf("domain %s: %w", name, err)
	}
	r.metrics.recordFiles("rdf", len(paths))

	if r.cfg.Output.GeoJSONEnabled() {
		data, err := export.GeoJSON(g)
		if err != nil {
			return DomainResult{}, fmt.Errorf("domain %s: %w", name, err)
		}
		path, err := storage.WriteFile(dir, name+export.GeoJSONExtension, data, storage.ModeOverwrite)
		if err != nil {
			return DomainResult{}, fmt.Errorf("domain %s: geojson: %w", name, err)
		}
		r.metrics.recordFiles("geojson", 1)
		paths = append(paths, path)
	}

	return DomainResult{Name: name, Triples: g.Len(), Files: paths}, nil
}
