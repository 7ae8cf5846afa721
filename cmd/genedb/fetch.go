package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/genedb/internal/duckdb"
	"github.com/inodb/genedb/internal/entrez"
	"github.com/inodb/genedb/internal/gene"
	"github.com/inodb/genedb/internal/genelist"
	"github.com/inodb/genedb/internal/output"
)

// fetchOptions holds the resolved settings of one fetch run.
type fetchOptions struct {
	Input     string
	Column    string
	Delimiter string
	Output    string
	DuckDB    string
	Preview   int
	Organism  string
	Delay     time.Duration
	Entrez    entrez.Config
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <gene-list>",
		Short: "Fetch gene annotations for a list of gene symbols",
		Long: `Look up every gene symbol of a column in the input file in NCBI Entrez Gene
and write gene ID, RefSeq mRNA length, description and chromosome to a CSV table.

Genes are fetched one at a time with a pause after each gene to respect the
NCBI request-rate policy. Symbols that are not found or fail are skipped.`,
		Example: `  genedb fetch gene_names.csv --email you@example.org
  genedb fetch panel.tsv --column Hugo_Symbol -o panel_genes.csv
  genedb fetch genes.csv.gz --delay 500ms --duckdb genes.duckdb`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(viper.GetBool("verbose"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			return runFetch(cmd.Context(), fetchOptionsFromViper(args[0]), cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.String("column", genelist.DefaultColumn, "Input column holding gene symbols")
	flags.String("delimiter", "", "Input delimiter: comma, tab, semicolon, pipe (default: from file extension)")
	flags.StringP("output", "o", output.DefaultPath, "Output CSV file")
	flags.String("duckdb", "", "Also export the table to this DuckDB database")
	flags.Int("preview", output.DefaultPreviewRows, "Number of rows to preview after writing")
	flags.String("email", "", "Contact email sent to NCBI (required)")
	flags.String("organism", gene.DefaultOrganism, "Organism filter for the gene search")
	flags.Duration("delay", gene.DefaultDelay, "Pause after each gene")
	flags.String("base-url", entrez.DefaultBaseURL, "E-utilities base URL")
	flags.Duration("timeout", entrez.DefaultConfig().Timeout, "Timeout of each E-utilities request")

	viper.BindPFlag("input.column", flags.Lookup("column"))
	viper.BindPFlag("input.delimiter", flags.Lookup("delimiter"))
	viper.BindPFlag("output.path", flags.Lookup("output"))
	viper.BindPFlag("output.duckdb", flags.Lookup("duckdb"))
	viper.BindPFlag("preview.rows", flags.Lookup("preview"))
	viper.BindPFlag("email", flags.Lookup("email"))
	viper.BindPFlag("organism", flags.Lookup("organism"))
	viper.BindPFlag("fetch.delay", flags.Lookup("delay"))
	viper.BindPFlag("entrez.base_url", flags.Lookup("base-url"))
	viper.BindPFlag("entrez.timeout", flags.Lookup("timeout"))

	return cmd
}

func fetchOptionsFromViper(input string) fetchOptions {
	ecfg := entrez.DefaultConfig()
	ecfg.BaseURL = viper.GetString("entrez.base_url")
	ecfg.Email = viper.GetString("email")
	ecfg.Timeout = viper.GetDuration("entrez.timeout")
	if viper.IsSet("entrez.rps") {
		ecfg.RequestsPerSecond = viper.GetFloat64("entrez.rps")
	}

	return fetchOptions{
		Input:     input,
		Column:    viper.GetString("input.column"),
		Delimiter: viper.GetString("input.delimiter"),
		Output:    viper.GetString("output.path"),
		DuckDB:    viper.GetString("output.duckdb"),
		Preview:   viper.GetInt("preview.rows"),
		Organism:  viper.GetString("organism"),
		Delay:     viper.GetDuration("fetch.delay"),
		Entrez:    ecfg,
	}
}

// runFetch loads the gene list, resolves every symbol, writes the table and
// prints a preview to stdout.
func runFetch(ctx context.Context, opts fetchOptions, stdout io.Writer, logger *zap.Logger) error {
	delim, err := genelist.ParseDelimiter(opts.Delimiter)
	if err != nil {
		return &usageError{err}
	}

	client, err := entrez.NewClient(opts.Entrez)
	if err != nil {
		if errors.Is(err, entrez.ErrNoEmail) {
			return &usageError{fmt.Errorf("%w (use --email or: genedb config set email you@example.org)", err)}
		}
		return err
	}

	symbols, err := genelist.Load(opts.Input, genelist.Options{Column: opts.Column, Delimiter: delim})
	if err != nil {
		return err
	}
	logger.Debug("loaded gene list", zap.String("path", opts.Input), zap.Int("symbols", len(symbols)))

	resolver := gene.NewResolver(client)
	if opts.Organism != "" {
		resolver.SetOrganism(opts.Organism)
	}

	builder := gene.NewBuilder(resolver)
	builder.SetDelay(opts.Delay)
	builder.SetLogger(logger)

	records := builder.Build(ctx, symbols)

	stats := builder.Stats()
	logger.Info("finished fetching genes",
		zap.Int("attempted", stats.Attempted),
		zap.Int("resolved", stats.Resolved),
		zap.Int("not_found", stats.NotFound),
		zap.Int("failed", stats.Failed))

	outPath := opts.Output
	if outPath == "" {
		outPath = output.DefaultPath
	}
	if err := output.WriteFile(outPath, records); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Database saved to %s\n", outPath)

	if opts.DuckDB != "" {
		if err := exportDuckDB(ctx, opts.DuckDB, opts.Input, records); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Database exported to %s\n", opts.DuckDB)
	}

	fmt.Fprintf(stdout, "\nFirst few entries in the database:\n")
	return output.Preview(stdout, records, opts.Preview)
}

func exportDuckDB(ctx context.Context, path, input string, records []gene.Record) error {
	src, err := duckdb.StatFile(input)
	if err != nil {
		return fmt.Errorf("stat gene list: %w", err)
	}

	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceRecords(ctx, records); err != nil {
		return fmt.Errorf("export to duckdb: %w", err)
	}
	return store.WriteExportInfo(ctx, src, time.Now())
}
