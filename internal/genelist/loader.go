// Package genelist reads gene symbols from a column of a delimited text file.
package genelist

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

// DefaultColumn is the header name read when no column is given.
const DefaultColumn = "gene"

// ColumnError is returned when the requested column is not in the header.
type ColumnError struct {
	Path   string
	Column string
	Header []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: column %q not found in header (have %s)", e.Path, e.Column, strings.Join(e.Header, ", "))
}

// Options controls how a gene list is read.
type Options struct {
	Column    string // header name of the symbol column
	Delimiter rune   // 0 detects from the file extension
}

// Load reads the symbols in column of the file at path, in file order.
// Symbols are neither validated nor deduplicated; blank cells are skipped.
func Load(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br

	// Check for gzip magic number (0x1f, 0x8b)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = DetectDelimiter(path)
	}

	symbols, err := read(r, opts)
	if err != nil {
		var colErr *ColumnError
		if errors.As(err, &colErr) {
			colErr.Path = path
			return nil, colErr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return symbols, nil
}

// Read reads symbols from r. A zero delimiter is sniffed from the header line.
func Read(r io.Reader, opts Options) ([]string, error) {
	return read(r, opts)
}

func read(r io.Reader, opts Options) ([]string, error) {
	column := opts.Column
	if column == "" {
		column = DefaultColumn
	}

	if opts.Delimiter == 0 {
		br := bufio.NewReader(r)
		head, _ := br.Peek(sniffSize)
		line, _, _ := bytes.Cut(head, []byte("\n"))
		opts.Delimiter = SniffDelimiter(string(line))
		r = br
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ColumnError{Column: column}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ColumnError{Column: column, Header: header}
	}

	var symbols []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			continue
		}
		symbols = append(symbols, row[idx])
	}
	return symbols, nil
}

// sniffSize bounds how much of the input is inspected for the header line.
const sniffSize = 4096

// DetectDelimiter picks tab for .tsv and .tab files and comma for .csv files,
// optionally gzipped. Other extensions, .txt included, return 0 so the
// delimiter is sniffed from the header line.
func DetectDelimiter(path string) rune {
	lower := strings.ToLower(path)
	lower = strings.TrimSuffix(lower, ".gz")
	switch filepath.Ext(lower) {
	case ".tsv", ".tab":
		return '\t'
	case ".csv":
		return ','
	}
	return 0
}

// SniffDelimiter returns tab if the header line contains one and comma
// otherwise.
func SniffDelimiter(header string) rune {
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}

// ParseDelimiter converts a flag value ("tab", "comma", "\t", ",", ";") to a rune.
// An empty value returns 0, meaning detect.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma", ",":
		return ',', nil
	case "semicolon", ";":
		return ';', nil
	case "pipe", "|":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q", s)
}
