package gene

import (
	"context"
	"errors"
	"fmt"

	"github.com/inodb/genedb/internal/entrez"
)

// Defaults for the lookup chain.
const (
	DefaultOrganism = "human"
	DefaultLinkName = "gene_nuccore_refseqrna"
)

// Entrez is the subset of the E-utilities client used by the resolver.
type Entrez interface {
	Search(ctx context.Context, db, term string) ([]string, error)
	FetchGenes(ctx context.Context, ids ...string) ([]entrez.Gene, error)
	Link(ctx context.Context, dbFrom, dbTo, linkName, id string) ([]string, error)
	FetchSequences(ctx context.Context, ids ...string) ([]entrez.Sequence, error)
}

// Reason classifies why a symbol produced no record.
type Reason int

const (
	ReasonNotFound Reason = iota + 1 // search returned no IDs
	ReasonNoDetail                   // gene fetch returned no record
	ReasonRemote                     // a remote call failed
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonNoDetail:
		return "no_detail"
	case ReasonRemote:
		return "remote_error"
	}
	return "unknown"
}

// ErrNotFound matches lookups that ended without a gene, as opposed to a
// remote failure.
var ErrNotFound = errors.New("gene not found")

// LookupError describes a symbol that did not resolve to a record.
type LookupError struct {
	Symbol string
	Reason Reason
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Symbol, e.Reason, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is reports ErrNotFound for the two "nothing there" reasons.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound && (e.Reason == ReasonNotFound || e.Reason == ReasonNoDetail)
}

// Resolver runs the lookup chain for one symbol at a time.
type Resolver struct {
	client   Entrez
	organism string
	linkName string
}

// NewResolver creates a resolver for human genes using RefSeq mRNA links.
func NewResolver(client Entrez) *Resolver {
	return &Resolver{
		client:   client,
		organism: DefaultOrganism,
		linkName: DefaultLinkName,
	}
}

// SetOrganism sets the organism filter used in the search term.
func (r *Resolver) SetOrganism(organism string) {
	r.organism = organism
}

// SetLinkName sets the gene → nuccore link used to find the transcript.
func (r *Resolver) SetLinkName(name string) {
	r.linkName = name
}

// Term returns the esearch term for symbol.
func (r *Resolver) Term(symbol string) string {
	return fmt.Sprintf("%s[Gene Symbol] AND %s[Organism]", symbol, r.organism)
}

// Resolve looks up symbol and returns its record. Every failure is a
// *LookupError; any remote error aborts the chain without a partial record.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (*Record, error) {
	ids, err := r.client.Search(ctx, "gene", r.Term(symbol))
	if err != nil {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonRemote, Err: fmt.Errorf("search: %w", err)}
	}
	if len(ids) == 0 {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonNotFound}
	}

	// Always the first match; the service order decides ambiguous symbols.
	geneID := ids[0]

	genes, err := r.client.FetchGenes(ctx, geneID)
	if err != nil {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonRemote, Err: fmt.Errorf("fetch gene %s: %w", geneID, err)}
	}
	if len(genes) == 0 {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonNoDetail}
	}
	g := genes[0]

	rec := &Record{
		Symbol:      symbol,
		GeneID:      geneID,
		Description: g.Description,
		Chromosome:  g.Chromosome,
	}

	links, err := r.client.Link(ctx, "gene", "nuccore", r.linkName, geneID)
	if err != nil {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonRemote, Err: fmt.Errorf("link gene %s: %w", geneID, err)}
	}
	if len(links) == 0 {
		return rec, nil
	}

	seqs, err := r.client.FetchSequences(ctx, links[0])
	if err != nil {
		return nil, &LookupError{Symbol: symbol, Reason: ReasonRemote, Err: fmt.Errorf("fetch transcript %s: %w", links[0], err)}
	}
	if len(seqs) > 0 {
		length := seqs[0].Length
		rec.MRNALength = &length
	}

	return rec, nil
}
