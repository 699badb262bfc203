//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse implements the dimensional transformation: it turns the
// raw relational extract into a star schema of dimension and fact tables.
// Every builder clones or projects its inputs and returns a freshly built
// table; sources are never mutated.
package warehouse

import (
	"time"

	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
)

// calendarColumns is the full calendar schema, also used for the zero-row
// table when no valid dates exist anywhere in the extract.
var calendarColumns = []string{
	"id", "date", "day", "month", "year", "day_name", "month_name",
	"quarter", "week_number", "year_month", "is_weekend",
}

// CalendarInputs names every source table whose timestamps bound the
// calendar span. The scan list is fixed: each field contributes the columns
// listed in collectDates.
type CalendarInputs struct {
	SalesOrder  *table.Table
	WebSession  *table.Table
	NPSResponse *table.Table
	Payment     *table.Table
	Shipment    *table.Table
	Customer    *table.Table
	Address     *table.Table
	Product     *table.Table
}

// Calendar is the date dimension plus its lookup index. One row per
// calendar day over the observed span, surrogate keys ascending by date.
type Calendar struct {
	Table  *table.Table
	byDate map[string]int64
}

// DateKey returns the surrogate key for a calendar day, or false when the
// day falls outside the calendar span.
func (c *Calendar) DateKey(day time.Time) (int64, bool) {
	id, ok := c.byDate[day.Format("2006-01-02")]
	return id, ok
}

// BuildCalendar derives the calendar dimension from the observed data: it
// scans the designated timestamp columns, takes the global min and max
// date, and materializes one row per day in between, inclusive. Weekend
// detection checks the weekday enumeration directly; day and month names
// come from Go's time package and are always English.
func BuildCalendar(in CalendarInputs) *Calendar {
	days := collectDates(in)
	cal := &Calendar{byDate: make(map[string]int64)}

	if len(days) == 0 {
		logging.Warn().Msg("No valid dates found in extract; calendar dimension is empty")
		cal.Table = table.New(calendarColumns...)
		return cal
	}

	minDay, maxDay := days[0], days[0]
	for _, d := range days[1:] {
		if d.Before(minDay) {
			minDay = d
		}
		if d.After(maxDay) {
			maxDay = d
		}
	}
	logging.Info().
		Str("from", minDay.Format("2006-01-02")).
		Str("to", maxDay.Format("2006-01-02")).
		Msg("Calendar span detected")

	tbl := table.New(calendarColumns...)
	id := int64(0)
	for d := minDay; !d.After(maxDay); d = d.AddDate(0, 0, 1) {
		id++
		_, isoWeek := d.ISOWeek()
		weekday := d.Weekday()
		tbl.AppendRow(
			table.Int(id),
			table.Date(d),
			table.Int(int64(d.Day())),
			table.Int(int64(d.Month())),
			table.Int(int64(d.Year())),
			table.String(weekday.String()),
			table.String(d.Month().String()),
			table.Int(int64((d.Month()-1)/3+1)),
			table.Int(int64(isoWeek)),
			table.String(d.Format("2006-01")),
			table.Bool(weekday == time.Saturday || weekday == time.Sunday),
		)
		cal.byDate[d.Format("2006-01-02")] = id
	}
	cal.Table = tbl
	return cal
}

// collectDates gathers every parseable timestamp from the designated
// (table, column) pairs, normalized to midnight UTC. Unparseable and null
// values are discarded.
func collectDates(in CalendarInputs) []time.Time {
	scan := []struct {
		tbl *table.Table
		col string
	}{
		{in.SalesOrder, "order_date"},
		{in.WebSession, "started_at"},
		{in.NPSResponse, "responded_at"},
		{in.Payment, "paid_at"},
		{in.Shipment, "shipped_at"},
		{in.Shipment, "delivered_at"},
		{in.Customer, "created_at"},
		{in.Address, "created_at"},
		{in.Product, "created_at"},
	}

	var days []time.Time
	for _, s := range scan {
		for _, v := range s.tbl.Column(s.col) {
			if ts, ok := v.AsTime(); ok {
				y, m, d := ts.Date()
				days = append(days, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
			}
		}
	}
	return days
}
