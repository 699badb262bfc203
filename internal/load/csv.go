//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package load persists finished warehouse tables. Two targets exist: CSV
// files for BI tools, and PostgreSQL for warehouses that want the star
// schema queryable directly. Both preserve field order and row order and
// format fractional numbers with '.' regardless of locale.
package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
	"github.com/edgewise-analytics/martgen/internal/warehouse"
)

// WriteCSVDir persists every output table as <name>.csv under outputDir,
// creating the directory if needed.
func WriteCSVDir(outputDir string, outputs []warehouse.Output) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, out := range outputs {
		path := filepath.Join(outputDir, out.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := WriteCSV(f, out.Table); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		logging.Info().
			Str("table", out.Name).
			Int("rows", out.Table.NumRows()).
			Str("path", path).
			Msg("Table persisted")
	}
	return nil
}

// WriteCSV writes one table as CSV: a header row, then every data row in
// order. Nulls become empty fields.
func WriteCSV(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)

	cols := tbl.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}

	record := make([]string, len(cols))
	for r := 0; r < tbl.NumRows(); r++ {
		for i, c := range cols {
			record[i] = tbl.Value(r, c).Format()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
