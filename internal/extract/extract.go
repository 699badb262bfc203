//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract loads the raw relational extract into memory. Each named
// source is one CSV file in the source directory; a missing or unreadable
// source aborts the whole run, which is the only fatal condition in the
// pipeline.
package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
)

// Snapshot holds one table per raw source. Builders receive exactly the
// tables they consume, so the snapshot is unpacked at the orchestrator and
// never passed around as an ambient bag.
type Snapshot struct {
	Address         *table.Table
	Channel         *table.Table
	Customer        *table.Table
	NPSResponse     *table.Table
	Payment         *table.Table
	Product         *table.Table
	ProductCategory *table.Table
	Province        *table.Table
	SalesOrder      *table.Table
	SalesOrderItem  *table.Table
	Shipment        *table.Table
	Store           *table.Table
	WebSession      *table.Table
}

// SourceNames lists the raw sources in load order.
var SourceNames = []string{
	"address",
	"channel",
	"customer",
	"nps_response",
	"payment",
	"product",
	"product_category",
	"province",
	"sales_order",
	"sales_order_item",
	"shipment",
	"store",
	"web_session",
}

// requiredColumns is the minimal schema each source must carry. Validating
// here keeps column lookups downstream free of data errors.
var requiredColumns = map[string][]string{
	"address":          {"address_id", "line1", "line2", "city", "province_id", "postal_code", "country_code", "created_at"},
	"channel":          {"channel_id", "code", "name"},
	"customer":         {"customer_id", "email", "first_name", "last_name", "phone", "status", "created_at"},
	"nps_response":     {"nps_id", "customer_id", "channel_id", "responded_at", "score"},
	"payment":          {"payment_id", "order_id", "method", "status", "amount", "paid_at", "transaction_ref"},
	"product":          {"product_id", "sku", "name", "list_price", "status", "created_at", "category_id"},
	"product_category": {"category_id", "name", "parent_id"},
	"province":         {"province_id", "name", "code"},
	"sales_order": {
		"order_id", "customer_id", "channel_id", "store_id", "order_date",
		"billing_address_id", "shipping_address_id", "status", "currency_code",
		"subtotal", "tax_amount", "shipping_fee", "total_amount",
	},
	"sales_order_item": {"order_item_id", "order_id", "product_id", "quantity", "unit_price", "discount_amount", "line_total"},
	"shipment":         {"shipment_id", "order_id", "carrier", "shipped_at", "delivered_at", "tracking_number"},
	"store":            {"store_id", "name", "address_id"},
	"web_session":      {"session_id", "customer_id", "started_at", "ended_at", "source", "device"},
}

// Extract reads every raw source from sourceDir into a Snapshot.
func Extract(sourceDir string) (*Snapshot, error) {
	tables := make(map[string]*table.Table, len(SourceNames))
	for _, name := range SourceNames {
		path := filepath.Join(sourceDir, name+".csv")
		tbl, err := ReadCSV(path, requiredColumns[name])
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		logging.Debug().
			Str("source", name).
			Int("rows", tbl.NumRows()).
			Msg("Source loaded")
		tables[name] = tbl
	}

	return &Snapshot{
		Address:         tables["address"],
		Channel:         tables["channel"],
		Customer:        tables["customer"],
		NPSResponse:     tables["nps_response"],
		Payment:         tables["payment"],
		Product:         tables["product"],
		ProductCategory: tables["product_category"],
		Province:        tables["province"],
		SalesOrder:      tables["sales_order"],
		SalesOrderItem:  tables["sales_order_item"],
		Shipment:        tables["shipment"],
		Store:           tables["store"],
		WebSession:      tables["web_session"],
	}, nil
}

// ReadCSV reads one CSV file into a table, checking that the header carries
// at least the required columns. Cells are typed on read: empty fields
// become null, integers and decimals are parsed, and everything else stays
// text. Timestamps stay text; parsing them is the transformation's job.
func ReadCSV(path string, required []string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: file has no header row", path)
	}

	header := records[0]
	tbl := table.New(header...)
	for _, col := range required {
		if !tbl.HasColumn(col) {
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	for _, record := range records[1:] {
		row := make([]table.Value, len(header))
		for i, cell := range record {
			row[i] = parseCell(cell)
		}
		tbl.AppendRow(row...)
	}
	return tbl, nil
}

func parseCell(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return table.Int(i)
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return table.Decimal(d)
		}
	}
	return table.String(s)
}
