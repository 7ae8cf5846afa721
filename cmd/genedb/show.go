package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inodb/genedb/internal/duckdb"
	"github.com/inodb/genedb/internal/output"
)

func newShowCmd() *cobra.Command {
	var (
		rows   int
		symbol string
	)

	cmd := &cobra.Command{
		Use:   "show <duckdb-file>",
		Short: "Show a gene table exported with fetch --duckdb",
		Example: `  genedb show genes.duckdb
  genedb show genes.duckdb --rows 20
  genedb show genes.duckdb --symbol BRCA1`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), args[0], symbol, rows, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&rows, "rows", output.DefaultPreviewRows, "Number of rows to show (-1 for all)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Only show the record of this gene symbol")

	return cmd
}

func runShow(ctx context.Context, path, symbol string, rows int, w io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open gene database: %w", err)
	}

	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if symbol != "" {
		rec, err := store.LookupSymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("gene %q not found in %s", symbol, path)
		}
		mrna := "NaN"
		if rec.MRNALength != nil {
			mrna = fmt.Sprintf("%d", *rec.MRNALength)
		}
		fmt.Fprintf(w, "gene_symbol  %s\ngene_id      %s\nmrna_length  %s\ndescription  %s\nchromosome   %s\n",
			rec.Symbol, rec.GeneID, mrna, rec.Description, rec.Chromosome)
		return nil
	}

	info, err := store.ReadExportInfo(ctx)
	if err != nil {
		return err
	}
	if info != nil {
		fmt.Fprintf(w, "Exported from %s at %s\n", info.Source.Path, info.ExportedAt.Format(time.RFC3339))
		if fp, err := duckdb.StatFile(info.Source.Path); err == nil && !info.Matches(fp) {
			fmt.Fprintf(w, "Note: %s has changed since this export\n", info.Source.Path)
		}
		fmt.Fprintln(w)
	}

	records, err := store.Records(ctx)
	if err != nil {
		return err
	}
	return output.Preview(w, records, rows)
}
