package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/c360studio/semstreams/vocabulary"
	"github.com/spf13/cobra"

	"github.com/c360studio/codeontology/vocabulary/woc"
)

func vocabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vocab",
		Short: "List the predicates the extractor emits",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PREDICATE\tTYPE\tIRI\tDESCRIPTION")
			for _, p := range woc.Predicates() {
				meta := vocabulary.GetPredicateMetadata(p)
				if meta == nil {
					fmt.Fprintf(tw, "%s\t\t%s\t\n", p, woc.PredicateIRI(p))
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p, meta.DataType, woc.PredicateIRI(p), meta.Description)
			}
			return tw.Flush()
		},
	}
}
