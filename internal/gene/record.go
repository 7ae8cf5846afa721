// Package gene resolves gene symbols to annotation records through the
// Entrez search → fetch → link → sequence chain.
package gene

import "strconv"

// Record is the annotation of a single resolved gene symbol.
type Record struct {
	Symbol      string // Gene symbol exactly as queried
	GeneID      string // Entrez Gene ID
	MRNALength  *int   // RefSeq mRNA length, nil when no transcript was linked
	Description string
	Chromosome  string
}

// Columns lists the table columns of a Record, in output order.
var Columns = []string{
	"gene_symbol",
	"gene_id",
	"mrna_length",
	"description",
	"chromosome",
}

// Values returns the record's cells in Columns order. An absent mRNA length
// is an empty cell.
func (r *Record) Values() []string {
	mrna := ""
	if r.MRNALength != nil {
		mrna = strconv.Itoa(*r.MRNALength)
	}
	return []string{r.Symbol, r.GeneID, mrna, r.Description, r.Chromosome}
}
