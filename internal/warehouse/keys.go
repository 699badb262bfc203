//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"time"

	"github.com/edgewise-analytics/martgen/internal/table"
)

func dateOnly(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResolveDateKey maps a timestamp column onto calendar surrogate keys. The
// result has exactly one value per input row, in input order: the calendar
// key for the value's date, or null when the value does not parse or the
// date misses the calendar span. A lookup miss is deliberately left null,
// never coerced to a sentinel.
func ResolveDateKey(tbl *table.Table, col string, cal *Calendar) []table.Value {
	out := make([]table.Value, tbl.NumRows())
	for i, v := range tbl.Column(col) {
		ts, ok := v.AsTime()
		if !ok {
			out[i] = table.Null()
			continue
		}
		y, m, d := ts.Date()
		if id, found := cal.DateKey(dateOnly(y, m, d)); found {
			out[i] = table.Int(id)
		} else {
			out[i] = table.Null()
		}
	}
	return out
}

// ResolveTimeOfDay formats a timestamp column's time component as HH:MM:SS
// in 24-hour form. Rows that fail to parse yield "00:00:00".
func ResolveTimeOfDay(tbl *table.Table, col string) []table.Value {
	out := make([]table.Value, tbl.NumRows())
	for i, v := range tbl.Column(col) {
		if ts, ok := v.AsTime(); ok {
			out[i] = table.String(ts.Format("15:04:05"))
		} else {
			out[i] = table.String("00:00:00")
		}
	}
	return out
}

// sentinelInt replaces nulls and non-numeric values in a relational key
// column with -1 and coerces the rest to integers, in place. -1 reads as
// "unknown / not applicable" downstream.
func sentinelInt(tbl *table.Table, col string) {
	vals := tbl.Column(col)
	for i, v := range vals {
		if n, ok := v.AsInt(); ok {
			vals[i] = table.Int(n)
		} else {
			vals[i] = table.Int(-1)
		}
	}
	tbl.SetColumn(col, vals)
}
