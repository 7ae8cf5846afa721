package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genedb/internal/gene"
)

// ReplaceRecords replaces the contents of gene_records with records, keeping
// their order in row_num. The delete and the Appender writes run in one
// transaction on a single connection; on error the previous rows are kept.
func (s *Store) ReplaceRecords(ctx context.Context, records []gene.Record) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	if _, err := conn.ExecContext(ctx, "DELETE FROM gene_records"); err != nil {
		return fmt.Errorf("clear gene records: %w", err)
	}

	if len(records) > 0 {
		if err := appendRecords(conn, records); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit gene records: %w", err)
	}
	return nil
}

// appendRecords writes records through an Appender on conn. The appender is
// closed, and so flushed, before returning.
func appendRecords(conn *sql.Conn, records []gene.Record) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "gene_records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}

	for i, r := range records {
		var mrna any
		if r.MRNALength != nil {
			mrna = int64(*r.MRNALength)
		}
		if err := appender.AppendRow(
			int32(i), r.Symbol, r.GeneID, mrna, r.Description, r.Chromosome,
		); err != nil {
			appender.Close()
			return fmt.Errorf("append gene record %s: %w", r.Symbol, err)
		}
	}

	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush gene records: %w", err)
	}
	return nil
}

// Records returns all exported records in their original order.
func (s *Store) Records(ctx context.Context) ([]gene.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		gene_symbol, gene_id, mrna_length, description, chromosome
		FROM gene_records
		ORDER BY row_num`)
	if err != nil {
		return nil, fmt.Errorf("query gene records: %w", err)
	}
	defer rows.Close()

	var records []gene.Record
	for rows.Next() {
		var r gene.Record
		var mrna sql.NullInt64
		if err := rows.Scan(&r.Symbol, &r.GeneID, &mrna, &r.Description, &r.Chromosome); err != nil {
			return nil, fmt.Errorf("scan gene record: %w", err)
		}
		if mrna.Valid {
			n := int(mrna.Int64)
			r.MRNALength = &n
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene records: %w", err)
	}
	return records, nil
}

// LookupSymbol returns the exported record for symbol, or nil if absent.
func (s *Store) LookupSymbol(ctx context.Context, symbol string) (*gene.Record, error) {
	var r gene.Record
	var mrna sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT
		gene_symbol, gene_id, mrna_length, description, chromosome
		FROM gene_records
		WHERE gene_symbol=?
		ORDER BY row_num
		LIMIT 1`, symbol).Scan(&r.Symbol, &r.GeneID, &mrna, &r.Description, &r.Chromosome)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup gene record: %w", err)
	}
	if mrna.Valid {
		n := int(mrna.Int64)
		r.MRNALength = &n
	}
	return &r, nil
}

// Count returns the number of exported records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM gene_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("count gene records: %w", err)
	}
	return count, nil
}
