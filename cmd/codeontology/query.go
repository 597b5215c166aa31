package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/c360studio/semstreams/message"
	"github.com/spf13/cobra"

	"github.com/c360studio/codeontology/export"
	"github.com/c360studio/codeontology/storage"
)

func queryCmd(g *globalFlags) *cobra.Command {
	var (
		db      string
		pattern storage.Pattern
		format  string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up stored triples by subject, predicate or object",
		Example: `  codeontology query --db graph.db --subject org.demo.Box
  codeontology query --db graph.db --predicate woc.type.extends --format turtle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(g)
			if err != nil {
				return err
			}
			if db == "" {
				db = cfg.Output.SQLite
			}
			if db == "" {
				return fmt.Errorf("no database: pass --db or set output.sqlite")
			}

			store, err := storage.Open(db, storage.WithLogger(logger))
			if err != nil {
				return err
			}
			defer store.Close()

			triples, err := store.Query(cmd.Context(), pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "" || format == "table" {
				return writeTable(out, triples)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			text, err := export.NewSerializer(f, cfg.Output.BaseIRI).String(triples)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, text)
			return err
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "sqlite database (default: output.sqlite)")
	cmd.Flags().StringVarP(&pattern.Subject, "subject", "s", "", "Subject URI")
	cmd.Flags().StringVarP(&pattern.Predicate, "predicate", "p", "", "Predicate (e.g. woc.entity.name)")
	cmd.Flags().StringVar(&pattern.Object, "object", "", "Object text or URI")
	cmd.Flags().IntVar(&pattern.Limit, "limit", 0, "Maximum number of triples")
	cmd.Flags().StringVar(&format, "format", "table", "Output: table, ntriples or turtle")
	return cmd
}

func writeTable(w io.Writer, triples []message.Triple) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tPREDICATE\tOBJECT")
	for _, t := range triples {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", t.Subject, t.Predicate, t.Object)
	}
	return tw.Flush()
}
