package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/config"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/diagram"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/ontology"
	"github.com/Research-Squirrel-Engineers/EPICA-SISAL-FAIRification/vocabulary/geolod"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/spf13/cobra"
)

func ontologyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ontology [dir]",
		Short: "Write the geo-lod core ontology",
		Long: `Write geo_lod_core.ttl to dir (default: the configured ontology directory).
The configured publish mode applies: write_once fails when an existing
file differs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, _, err := loadConfig(flags.configPath, logger)
			if err != nil {
				return err
			}
			mode, err := cfg.Output.Mode()
			if err != nil {
				return err
			}

			dir := cfg.Output.OntologyPath()
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := ontology.Publish(dir, mode)
			if err != nil {
				return err
			}
			logger.Debug("Ontology written", "path", path, "version", ontology.Version)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func diagramsCmd(flags *globalFlags) *cobra.Command {
	var rollingWindow, sgWindow, sgPoly, nSites int

	cmd := &cobra.Command{
		Use:   "diagrams [dir]",
		Short: "Write the Mermaid taxonomy and instance diagrams",
		Long: `Write the taxonomy, EPICA instance and SISAL instance diagrams to dir
(default: the configured diagram directory). Flags override the configured
smoothing parameters and site count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			cfg, _, err := loadConfig(flags.configPath, logger)
			if err != nil {
				return err
			}
			mode, err := cfg.Output.Mode()
			if err != nil {
				return err
			}

			p := cfg.DiagramParams(len(cfg.Speleothem.Sites))
			if cmd.Flags().Changed("rolling-window") {
				p.RollingWindow = rollingWindow
			}
			if cmd.Flags().Changed("sg-window") {
				p.SGWindow = sgWindow
			}
			if cmd.Flags().Changed("sg-poly") {
				p.SGPoly = sgPoly
			}
			if cmd.Flags().Changed("n-sites") {
				p.NSites = nSites
			}

			dir := cfg.Output.DiagramPath()
			if len(args) == 1 {
				dir = args[0]
			}
			paths, err := diagram.Publish(dir, p, mode)
			if err != nil {
				return err
			}
			for _, name := range diagram.FileNames() {
				fmt.Fprintln(cmd.OutOrStdout(), paths[name])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rollingWindow, "rolling-window", 11, "Rolling-median window size")
	cmd.Flags().IntVar(&sgWindow, "sg-window", 11, "Savitzky-Golay window size")
	cmd.Flags().IntVar(&sgPoly, "sg-poly", 2, "Savitzky-Golay polynomial order")
	cmd.Flags().IntVar(&nSites, "n-sites", 0, "Speleothem site count shown in the SISAL diagram")

	return cmd
}

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the user configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default user config unless one exists",
		Long: `Write the defaults to ~/.config/geolod/config.yaml. An existing file is
left unchanged. Prints the path of the user config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(newLogger(flags.logLevel)).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}

func vocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the registered predicates and namespace prefixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "PREDICATE\tIRI\tDESCRIPTION")
			for _, name := range geolod.Predicates() {
				iri, _ := geolod.PredicateIRI(name)
				desc := ""
				if meta := vocabulary.GetPredicateMetadata(name); meta != nil {
					desc = meta.Description
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, iri, desc)
			}
			fmt.Fprintln(tw)

			fmt.Fprintln(tw, "PREFIX\tNAMESPACE\t")
			for _, b := range geolod.Namespaces() {
				fmt.Fprintf(tw, "%s\t%s\t\n", b.Prefix, b.IRI)
			}
			return tw.Flush()
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
