package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/inodb/genedb/internal/gene"
)

// DefaultPreviewRows is the number of rows shown by Preview.
const DefaultPreviewRows = 5

// mrnaColumn is the index of mrna_length in gene.Columns.
const mrnaColumn = 2

// Preview prints the first n records as an aligned table, followed by the
// table dimensions. A missing mRNA length prints as NaN.
func Preview(w io.Writer, records []gene.Record, n int) error {
	if n < 0 || n > len(records) {
		n = len(records)
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	header := append([]string{""}, gene.Columns...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i := 0; i < n; i++ {
		values := records[i].Values()
		if records[i].MRNALength == nil {
			values[mrnaColumn] = "NaN"
		}
		row := append([]string{strconv.Itoa(i)}, values...)
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Bold is applied after alignment; escape codes would count as width.
	head, rest, _ := strings.Cut(buf.String(), "\n")
	if _, err := fmt.Fprint(w, color.New(color.Bold).Sprint(head), "\n", rest); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", len(records), len(gene.Columns))
	return err
}
