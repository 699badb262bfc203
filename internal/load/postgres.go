//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package load

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
	"github.com/edgewise-analytics/martgen/internal/warehouse"
)

const insertBatchSize = 500

// Connect establishes a connection pool to the target PostgreSQL database.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to warehouse database")
	return pool, nil
}

// WritePostgres recreates each output table and inserts all its rows.
// Every run replaces the previous contents wholesale, matching the
// rebuild-from-scratch lifecycle of the warehouse.
func WritePostgres(ctx context.Context, pool *pgxpool.Pool, outputs []warehouse.Output) error {
	for _, out := range outputs {
		if err := writeTable(ctx, pool, out); err != nil {
			return fmt.Errorf("loading %s: %w", out.Name, err)
		}
		logging.Info().
			Str("table", out.Name).
			Int("rows", out.Table.NumRows()).
			Msg("Table loaded to postgres")
	}
	return nil
}

func writeTable(ctx context.Context, pool *pgxpool.Pool, out warehouse.Output) error {
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", out.Name)); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createTableSQL(out)); err != nil {
		return err
	}

	cols := out.Table.Columns()
	colList := "(" + strings.Join(cols, ", ") + ")"

	batch := make([]string, 0, insertBatchSize)
	for r := 0; r < out.Table.NumRows(); r++ {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = sqlLiteral(out.Table.Value(r, c))
		}
		batch = append(batch, "("+strings.Join(vals, ", ")+")")

		if len(batch) >= insertBatchSize {
			if err := executeBatchInsert(ctx, pool, out.Name, colList, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := executeBatchInsert(ctx, pool, out.Name, colList, batch); err != nil {
			return err
		}
	}
	return nil
}

func executeBatchInsert(ctx context.Context, pool *pgxpool.Pool, tableName, columns string, batch []string) error {
	query := fmt.Sprintf("INSERT INTO %s %s VALUES %s",
		tableName, columns, strings.Join(batch, ", "))
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("batch insert into %s failed: %w", tableName, err)
	}
	return nil
}

// createTableSQL infers one column type per output column from the data.
// A column holding only nulls, or mixed kinds, degrades to TEXT.
func createTableSQL(out warehouse.Output) string {
	cols := out.Table.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", c, columnType(out.Table, c))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", out.Name, strings.Join(defs, ", "))
}

func columnType(tbl *table.Table, col string) string {
	kind := table.KindNull
	for _, v := range tbl.Column(col) {
		if v.IsNull() {
			continue
		}
		if kind == table.KindNull {
			kind = v.Kind()
			continue
		}
		if v.Kind() != kind {
			return "TEXT"
		}
	}

	switch kind {
	case table.KindInt:
		return "BIGINT"
	case table.KindDecimal:
		return "NUMERIC"
	case table.KindBool:
		return "BOOLEAN"
	case table.KindDate:
		return "DATE"
	case table.KindTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func sqlLiteral(v table.Value) string {
	switch v.Kind() {
	case table.KindNull:
		return "NULL"
	case table.KindInt, table.KindDecimal, table.KindBool:
		return v.Format()
	default:
		return "'" + strings.ReplaceAll(v.Format(), "'", "''") + "'"
	}
}
