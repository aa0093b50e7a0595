// Package main provides the geolod binary entry point.
// Geolod exports the EPICA ice-core and SISAL speleothem sampling sites as
// GeoSPARQL Linked Data, together with the geo-lod core ontology and the
// Mermaid documentation diagrams.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/config"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "geolod"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Palaeoclimate sampling sites as GeoSPARQL Linked Data",
		Long: `Geolod exports the EPICA ice-core and SISAL speleothem sampling sites
as GeoSPARQL Linked Data.

It provides:
- Per-domain RDF graphs (Turtle, N-Triples, JSON-LD) and GeoJSON sidecars
- The geo-lod core ontology (geo_lod_core.ttl)
- Mermaid taxonomy and instance diagrams

Configuration is read from ~/.config/geolod/config.yaml and the nearest
geolod.yaml, plus any site files it lists.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Project config file (default: nearest geolod.yaml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		exportCmd(flags),
		ontologyCmd(flags),
		diagramsCmd(flags),
		vocabCmd(),
		configCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// newLogger configures the text handler on stderr and makes it the default.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig runs the layered loader. It returns the loader too so the
// watch loop can see which files were read.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, *config.Loader, error) {
	loader := config.NewLoader(logger)

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = loader.LoadPath(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, loader, nil
}
