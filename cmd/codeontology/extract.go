package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/c360studio/codeontology/config"
	"github.com/c360studio/codeontology/pipeline"
)

// runFlags override configuration for extract and watch.
type runFlags struct {
	model            string
	project          string
	output           string
	format           string
	baseIRI          string
	sqlite           string
	classpath        []string
	include          []string
	exclude          []string
	explore          bool
	declarationFacts bool
	structure        bool
	flushThreshold   int
	natsURL          string
	metricsFile      string
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.model, "model", "m", "", "Program model file (JSON)")
	fs.StringVar(&f.project, "project", "", "Project name (default: from the model)")
	fs.StringVarP(&f.output, "output", "o", "", "RDF output file, - for stdout")
	fs.StringVar(&f.format, "format", "", "Output format: ntriples or turtle")
	fs.StringVar(&f.baseIRI, "base-iri", "", "Base IRI for entity URIs")
	fs.StringVar(&f.sqlite, "sqlite", "", "Also store triples in this sqlite database")
	fs.StringSliceVar(&f.classpath, "classpath", nil, "Jar archives, class directories or globs")
	fs.StringSliceVar(&f.include, "include", nil, "Explore only classes matching these patterns (com/example/**)")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "Skip explored classes matching these patterns")
	fs.BoolVar(&f.explore, "explore", false, "Extract every class found on the classpath")
	fs.BoolVar(&f.declarationFacts, "declaration-facts", true, "Emit comments, positions and source code")
	fs.BoolVar(&f.structure, "structure", true, "Emit the project and its dependencies")
	fs.IntVar(&f.flushThreshold, "flush-threshold", 0, "Pending triples that trigger a flush")
	fs.StringVar(&f.natsURL, "nats-url", "", "Publish entities to this NATS server")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
}

// apply copies the flags the user set onto cfg.
func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if f.model != "" {
		cfg.Project.Model = f.model
	}
	if f.project != "" {
		cfg.Project.Name = f.project
	}
	if f.output != "" {
		cfg.Output.Path = f.output
	}
	if f.format != "" {
		cfg.Output.Format = f.format
	}
	if f.baseIRI != "" {
		cfg.Output.BaseIRI = f.baseIRI
	}
	if f.sqlite != "" {
		cfg.Output.SQLite = f.sqlite
	}
	if len(f.classpath) > 0 {
		cfg.Classpath.Archives = f.classpath
	}
	if len(f.include) > 0 {
		cfg.Extraction.Include = f.include
	}
	if len(f.exclude) > 0 {
		cfg.Extraction.Exclude = f.exclude
	}
	if fs.Changed("explore") {
		cfg.Extraction.Explore = f.explore
	}
	if fs.Changed("declaration-facts") {
		cfg.Extraction.DeclarationFacts = config.Bool(f.declarationFacts)
	}
	if fs.Changed("structure") {
		cfg.Extraction.Structure = config.Bool(f.structure)
	}
	if fs.Changed("flush-threshold") {
		cfg.Output.FlushThreshold = f.flushThreshold
	}
	if f.natsURL != "" {
		cfg.NATS.URL = f.natsURL
	}
	if f.metricsFile != "" {
		cfg.Metrics.File = f.metricsFile
	}
}

// resolve loads configuration, applies flags and validates the result.
func (f *runFlags) resolve(cmd *cobra.Command, g *globalFlags) (*config.Config, *pipeline.Runner, error) {
	cfg, logger, err := setup(g)
	if err != nil {
		return nil, nil, err
	}
	f.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, pipeline.NewRunner(cfg, logger), nil
}

func extractCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the knowledge graph of a program model",
		Example: `  codeontology extract -m build/program.json --classpath 'lib/**/*.jar' -o graph.nt
  codeontology extract -m program.json --explore --include 'com/acme/**' --format turtle -o graph.ttl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, runner, err := f.resolve(cmd, g)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			res, err := runner.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d entities, %d triples in %s\n",
				res.Project, res.Entities, res.Triples, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}
