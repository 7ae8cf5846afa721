package entrez

// Gene is the subset of an Entrez Gene record used for annotation.
type Gene struct {
	ID          string // Entrez Gene ID (e.g., 672)
	Symbol      string // Official symbol (e.g., BRCA1)
	Description string // Gene-ref description
	Chromosome  string // Chromosome name from the BioSource subtypes
	MapLocation string // Cytogenetic location (e.g., 17q21.31)
	Type        string // Gene type (e.g., protein-coding)
	Summary     string
}

// Sequence is the subset of a GenBank (GBSeq) record used for annotation.
type Sequence struct {
	Locus        string
	Accession    string // Accession with version (e.g., NM_007294.4)
	Length       int    // Sequence length in bases
	MoleculeType string // e.g., mRNA
	Definition   string
}

// searchResult represents the esearch XML response.
type searchResult struct {
	Count int      `xml:"Count"`
	IDs   []string `xml:"IdList>Id"`
	Error string   `xml:"ERROR"`
}

// geneSet represents an efetch response from db=gene in XML mode.
type geneSet struct {
	Genes []entrezgene `xml:"Entrezgene"`
	Error string       `xml:"ERROR"`
}

type entrezgene struct {
	GeneID     string      `xml:"Entrezgene_track-info>Gene-track>Gene-track_geneid"`
	Type       valueAttr   `xml:"Entrezgene_type"`
	SubSources []subSource `xml:"Entrezgene_source>BioSource>BioSource_subtype>SubSource"`
	Locus      string      `xml:"Entrezgene_gene>Gene-ref>Gene-ref_locus"`
	Desc       string      `xml:"Entrezgene_gene>Gene-ref>Gene-ref_desc"`
	MapLoc     string      `xml:"Entrezgene_gene>Gene-ref>Gene-ref_maploc"`
	Summary    string      `xml:"Entrezgene_summary"`
}

type subSource struct {
	Subtype valueAttr `xml:"SubSource_subtype"`
	Name    string    `xml:"SubSource_name"`
}

// valueAttr captures the symbolic value="..." attribute NCBI puts on enumerations.
type valueAttr struct {
	Value string `xml:"value,attr"`
}

func (g *entrezgene) toGene() Gene {
	gene := Gene{
		ID:          g.GeneID,
		Symbol:      g.Locus,
		Description: g.Desc,
		MapLocation: g.MapLoc,
		Type:        g.Type.Value,
		Summary:     g.Summary,
	}
	for _, s := range g.SubSources {
		if s.Subtype.Value == "chromosome" {
			gene.Chromosome = s.Name
			break
		}
	}
	return gene
}

// linkResult represents the elink XML response.
type linkResult struct {
	LinkSets []linkSet `xml:"LinkSet"`
	Error    string    `xml:"ERROR"`
}

type linkSet struct {
	DBFrom     string      `xml:"DbFrom"`
	LinkSetDBs []linkSetDB `xml:"LinkSetDb"`
	Error      string      `xml:"ERROR"`
}

type linkSetDB struct {
	DBTo     string   `xml:"DbTo"`
	LinkName string   `xml:"LinkName"`
	IDs      []string `xml:"Link>Id"`
}

// gbSet represents an efetch response from db=nuccore with rettype=gb, retmode=xml.
type gbSet struct {
	Seqs  []gbSeq `xml:"GBSeq"`
	Error string  `xml:"ERROR"`
}

type gbSeq struct {
	Locus            string `xml:"GBSeq_locus"`
	Length           int    `xml:"GBSeq_length"`
	MoleType         string `xml:"GBSeq_moltype"`
	Definition       string `xml:"GBSeq_definition"`
	AccessionVersion string `xml:"GBSeq_accession-version"`
}

func (s *gbSeq) toSequence() Sequence {
	return Sequence{
		Locus:        s.Locus,
		Accession:    s.AccessionVersion,
		Length:       s.Length,
		MoleculeType: s.MoleType,
		Definition:   s.Definition,
	}
}
