package gene

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genedb/internal/entrez"
)

// fakeEntrez answers from in-memory tables and records each call.
type fakeEntrez struct {
	search    map[string][]string        // term -> gene IDs
	genes     map[string]entrez.Gene     // gene ID -> record
	links     map[string][]string        // gene ID -> nuccore IDs
	sequences map[string]entrez.Sequence // nuccore ID -> record

	failOn string // method name that returns errRemote
	calls  []string
}

var errRemote = errors.New("HTTP error 502")

func (f *fakeEntrez) Search(ctx context.Context, db, term string) ([]string, error) {
	f.calls = append(f.calls, "Search")
	if f.failOn == "Search" {
		return nil, errRemote
	}
	return f.search[term], nil
}

func (f *fakeEntrez) FetchGenes(ctx context.Context, ids ...string) ([]entrez.Gene, error) {
	f.calls = append(f.calls, "FetchGenes")
	if f.failOn == "FetchGenes" {
		return nil, errRemote
	}
	var out []entrez.Gene
	for _, id := range ids {
		if g, ok := f.genes[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeEntrez) Link(ctx context.Context, dbFrom, dbTo, linkName, id string) ([]string, error) {
	f.calls = append(f.calls, "Link")
	if f.failOn == "Link" {
		return nil, errRemote
	}
	return f.links[id], nil
}

func (f *fakeEntrez) FetchSequences(ctx context.Context, ids ...string) ([]entrez.Sequence, error) {
	f.calls = append(f.calls, "FetchSequences")
	if f.failOn == "FetchSequences" {
		return nil, errRemote
	}
	var out []entrez.Sequence
	for _, id := range ids {
		if s, ok := f.sequences[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func newFakeEntrez() *fakeEntrez {
	return &fakeEntrez{
		search: map[string][]string{
			"BRCA1[Gene Symbol] AND human[Organism]":       {"672"},
			"TP53[Gene Symbol] AND human[Organism]":        {"7157"},
			"MIR4435-2HG[Gene Symbol] AND human[Organism]": {"112885"},
			"AMBIG[Gene Symbol] AND human[Organism]":       {"111", "222"},
			"GHOST[Gene Symbol] AND human[Organism]":       {"999"},
		},
		genes: map[string]entrez.Gene{
			"672":    {ID: "672", Symbol: "BRCA1", Description: "BRCA1 DNA repair associated", Chromosome: "17"},
			"7157":   {ID: "7157", Symbol: "TP53", Description: "tumor protein p53", Chromosome: "17"},
			"112885": {ID: "112885", Symbol: "MIR4435-2HG", Description: "MIR4435-2 host gene", Chromosome: "2"},
			"111":    {ID: "111", Symbol: "AMBIG", Description: "first match", Chromosome: "1"},
			"222":    {ID: "222", Symbol: "AMBIG", Description: "second match", Chromosome: "2"},
		},
		links: map[string][]string{
			"672":  {"1732746264", "1732746263"},
			"7157": {"1519311743"},
			"111":  {"5001"},
		},
		sequences: map[string]entrez.Sequence{
			"1732746264": {Accession: "NM_007294.4", Length: 7088},
			"1732746263": {Accession: "NM_007297.4", Length: 7027},
			"1519311743": {Accession: "NM_000546.6", Length: 2512},
		},
	}
}

func TestResolve_FullChain(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), "BRCA1")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "BRCA1", rec.Symbol)
	assert.Equal(t, "672", rec.GeneID)
	require.NotNil(t, rec.MRNALength)
	assert.Equal(t, 7088, *rec.MRNALength)
	assert.Equal(t, "BRCA1 DNA repair associated", rec.Description)
	assert.Equal(t, "17", rec.Chromosome)

	assert.Equal(t, []string{"Search", "FetchGenes", "Link", "FetchSequences"}, f.calls)
}

func TestResolve_NoTranscriptLink(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), "MIR4435-2HG")
	require.NoError(t, err)

	assert.Nil(t, rec.MRNALength)
	assert.Equal(t, "112885", rec.GeneID)
	assert.Equal(t, "MIR4435-2 host gene", rec.Description)
	assert.Equal(t, "2", rec.Chromosome)
	assert.Equal(t, []string{"Search", "FetchGenes", "Link"}, f.calls)
}

func TestResolve_LinkedSequenceMissing(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	// 111 links to 5001, which efetch does not return.
	rec, err := r.Resolve(context.Background(), "AMBIG")
	require.NoError(t, err)
	assert.Nil(t, rec.MRNALength)
	assert.Len(t, f.calls, 4)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), "AMBIG")
	require.NoError(t, err)
	assert.Equal(t, "111", rec.GeneID)
	assert.Equal(t, "first match", rec.Description)
}

func TestResolve_SymbolKeptVerbatim(t *testing.T) {
	f := newFakeEntrez()
	f.search[" brca1 [Gene Symbol] AND human[Organism]"] = []string{"672"}
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), " brca1 ")
	require.NoError(t, err)
	assert.Equal(t, " brca1 ", rec.Symbol)
}

func TestResolve_NotFound(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), "NOTAGENE123")
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ReasonNotFound, le.Reason)
	assert.Equal(t, "NOTAGENE123", le.Symbol)
	assert.Equal(t, []string{"Search"}, f.calls)
}

func TestResolve_NoDetail(t *testing.T) {
	f := newFakeEntrez()
	r := NewResolver(f)

	rec, err := r.Resolve(context.Background(), "GHOST")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotFound)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ReasonNoDetail, le.Reason)
	assert.Equal(t, []string{"Search", "FetchGenes"}, f.calls)
}

func TestResolve_RemoteErrorAbortsChain(t *testing.T) {
	for _, step := range []string{"Search", "FetchGenes", "Link", "FetchSequences"} {
		t.Run(step, func(t *testing.T) {
			f := newFakeEntrez()
			f.failOn = step
			r := NewResolver(f)

			rec, err := r.Resolve(context.Background(), "BRCA1")
			assert.Nil(t, rec, "no partial record")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, err, errRemote)

			var le *LookupError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, ReasonRemote, le.Reason)
			assert.Equal(t, step, f.calls[len(f.calls)-1])
		})
	}
}

func TestResolver_Term(t *testing.T) {
	r := NewResolver(newFakeEntrez())
	assert.Equal(t, "KRAS[Gene Symbol] AND human[Organism]", r.Term("KRAS"))

	r.SetOrganism("mouse")
	assert.Equal(t, "Kras[Gene Symbol] AND mouse[Organism]", r.Term("Kras"))
}

func TestResolver_SetLinkName(t *testing.T) {
	f := newFakeEntrez()
	var gotLink string
	r := NewResolver(&linkSpy{fakeEntrez: f, got: &gotLink})
	r.SetLinkName("gene_nuccore_refseqgene")

	_, err := r.Resolve(context.Background(), "TP53")
	require.NoError(t, err)
	assert.Equal(t, "gene_nuccore_refseqgene", gotLink)
}

type linkSpy struct {
	*fakeEntrez
	got *string
}

func (s *linkSpy) Link(ctx context.Context, dbFrom, dbTo, linkName, id string) ([]string, error) {
	*s.got = linkName
	return s.fakeEntrez.Link(ctx, dbFrom, dbTo, linkName, id)
}

func TestLookupError_Message(t *testing.T) {
	err := &LookupError{Symbol: "X", Reason: ReasonNotFound}
	assert.Equal(t, "X: not_found", err.Error())

	err = &LookupError{Symbol: "X", Reason: ReasonRemote, Err: errRemote}
	assert.Equal(t, "X: remote_error: HTTP error 502", err.Error())
}

func TestRecord_Values(t *testing.T) {
	n := 2512
	rec := Record{Symbol: "TP53", GeneID: "7157", MRNALength: &n, Description: "tumor protein p53", Chromosome: "17"}
	assert.Equal(t, []string{"TP53", "7157", "2512", "tumor protein p53", "17"}, rec.Values())

	rec.MRNALength = nil
	assert.Equal(t, "", rec.Values()[2])
	assert.Len(t, rec.Values(), len(Columns))
}
