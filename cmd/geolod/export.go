package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/config"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/pipeline"
	"github.com/spf13/cobra"
)

// exportOptions are the export command flags.
type exportOptions struct {
	icecoreOnly    bool
	speleothemOnly bool
	noGeoJSON      bool
	metricsFile    string
	watch          bool
}

// apply overrides cfg with the command-line flags.
func (o *exportOptions) apply(cfg *config.Config) {
	var override config.Config
	disabled := false
	if o.icecoreOnly {
		override.Speleothem.Enabled = &disabled
	}
	if o.speleothemOnly {
		override.IceCore.Enabled = &disabled
	}
	if o.noGeoJSON {
		override.Output.GeoJSON = &disabled
	}
	override.Metrics.File = o.metricsFile
	cfg.Merge(&override)
}

func exportCmd(flags *globalFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export site graphs, the core ontology and diagrams",
		Long: `Export builds one graph per enabled domain and writes it in every
configured format to the rdf directory, with an optional GeoJSON sidecar.
A combined all_sites graph spans every exported domain. The core ontology
and the Mermaid diagrams are published once per run.

With --watch, the export re-runs whenever the config or a site file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if opts.watch {
				return watchExport(ctx, cmd.OutOrStdout(), flags.configPath, opts, logger)
			}
			_, err := runExport(ctx, cmd.OutOrStdout(), flags.configPath, opts, logger)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.icecoreOnly, "icecore-only", false, "Export only the ice-core domain")
	cmd.Flags().BoolVar(&opts.speleothemOnly, "speleothem-only", false, "Export only the speleothem domain")
	cmd.Flags().BoolVar(&opts.noGeoJSON, "no-geojson", false, "Skip the GeoJSON sidecars")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after each run")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run on config or site file changes")
	cmd.MarkFlagsMutuallyExclusive("icecore-only", "speleothem-only")

	return cmd
}

// exportRun is what a run leaves behind for the watch loop.
type exportRun struct {
	cfg     *config.Config
	sources []string
}

// runExport loads the config and performs one export. The returned run is
// non-nil whenever the config loaded, even if the export failed.
func runExport(ctx context.Context, out io.Writer, configPath string, opts *exportOptions, logger *slog.Logger) (*exportRun, error) {
	cfg, loader, err := loadConfig(configPath, logger)
	if err != nil {
		return nil, err
	}
	opts.apply(cfg)
	run := &exportRun{cfg: cfg, sources: loader.Sources()}

	runner := pipeline.NewRunner(cfg, logger)
	res, err := runner.Run(ctx)
	if cfg.Metrics.File != "" {
		if merr := runner.WriteMetrics(cfg.Metrics.File); merr != nil {
			logger.Warn("Failed to write metrics", "path", cfg.Metrics.File, "error", merr)
		}
	}
	if err != nil {
		return run, fmt.Errorf("export: %w", err)
	}

	printResult(out, res)
	return run, nil
}

func printResult(out io.Writer, res *pipeline.Result) {
	for _, d := range res.Domains {
		fmt.Fprintf(out, "%s: %d sites, %d triples\n", d.Name, d.Sites, d.Triples)
		for _, f := range d.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	if res.AllSites.Name != "" {
		fmt.Fprintf(out, "%s: %d sites, %d triples\n", res.AllSites.Name, res.AllSites.Sites, res.AllSites.Triples)
		for _, f := range res.AllSites.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	fmt.Fprintf(out, "ontology: %s\n", res.Ontology)
	for _, name := range sortedKeys(res.Diagrams) {
		fmt.Fprintf(out, "diagram: %s\n", res.Diagrams[name])
	}
}

// watchExport runs the export, then re-runs it on every debounced change
// until ctx is cancelled. Failed runs are logged and the loop keeps going.
func watchExport(ctx context.Context, out io.Writer, configPath string, opts *exportOptions, logger *slog.Logger) error {
	run, err := runExport(ctx, out, configPath, opts, logger)
	if err != nil {
		if run == nil {
			return err
		}
		logger.Error("Export failed", "error", err)
	}

	w, err := newSourceWatcher(time.Duration(run.cfg.Watch.DebounceMS)*time.Millisecond, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	w.Watch(watchRoots(configPath, run.sources)...)
	w.Start(ctx)
	logger.Info("Watching for changes", "sources", len(run.sources))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case <-w.Changes():
			logger.Info("Change detected, re-running export")
			next, err := runExport(ctx, out, configPath, opts, logger)
			if next != nil {
				w.Watch(next.sources...)
			}
			if err != nil {
				logger.Error("Export failed", "error", err)
			}
		}
	}
}

// watchRoots returns the directories worth watching before any site file
// exists: the explicit config's directory or the working directory.
func watchRoots(configPath string, sources []string) []string {
	roots := append([]string(nil), sources...)
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			roots = append(roots, filepath.Dir(abs))
		}
	} else if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	return roots
}
