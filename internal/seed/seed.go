//-------------------------------------------------------------------------
//
// martgen - Dimensional Warehouse Builder
//
// Copyright (c) 2025 - 2026, Edgewise Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package seed generates a complete, referentially consistent raw extract
// for demos and end-to-end testing. The generated data deliberately
// includes quality noise (null store assignments, undelivered shipments,
// anonymous sessions) so the sentinel and null-handling paths of the
// transformation are exercised.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgewise-analytics/martgen/internal/datagen"
	"github.com/edgewise-analytics/martgen/internal/load"
	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
)

// Config controls the size and reproducibility of the generated extract.
type Config struct {
	// Orders is the scale knob; all other row counts derive from it.
	Orders int

	// Seed fixes the random sequence. Zero means time-seeded.
	Seed uint64
}

// Source is one generated raw table.
type Source struct {
	Name  string
	Table *table.Table
}

const timestampLayout = "2006-01-02 15:04:05"

var (
	windowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	provinces = []struct{ name, code string }{
		{"Buenos Aires", "AR-B"},
		{"Córdoba", "AR-X"},
		{"Santa Fe", "AR-S"},
		{"Mendoza", "AR-M"},
		{"Tucumán", "AR-T"},
		{"Salta", "AR-A"},
		{"Neuquén", "AR-Q"},
		{"Chubut", "AR-U"},
	}

	channels = []struct{ code, name string }{
		{"WEB", "Online Store"},
		{"RETAIL", "Retail Store"},
		{"PHONE", "Phone Sales"},
	}

	carriers       = []string{"Andreani", "OCA", "Correo Argentino", "DHL"}
	paymentMethods = []string{"credit_card", "debit_card", "transfer", "wallet"}
	orderStatuses  = []string{"completed", "completed", "completed", "shipped", "cancelled"}
	sessionSources = []string{"organic", "paid", "email", "direct", "social"}
	devices        = []string{"desktop", "mobile", "tablet"}
	rootCategories = []string{"Electrónica", "Hogar", "Deportes", "Indumentaria"}
)

// Write generates the extract and persists it as one CSV per source under
// dir, creating the directory if needed.
func Write(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}

	for _, src := range Generate(cfg) {
		path := filepath.Join(dir, src.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := load.WriteCSV(f, src.Table); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		logging.Info().
			Str("source", src.Name).
			Int("rows", src.Table.NumRows()).
			Msg("Source generated")
	}
	return nil
}

// Generate builds all thirteen raw tables in memory. The same Config
// always yields the same data when Seed is non-zero.
func Generate(cfg Config) []Source {
	orders := cfg.Orders
	if orders < 20 {
		orders = 20
	}
	var f *datagen.Faker
	if cfg.Seed != 0 {
		f = datagen.NewFakerWithSeed(cfg.Seed)
	} else {
		f = datagen.NewFaker()
	}

	g := &generator{
		f:          f,
		orders:     orders,
		customers:  maxInt(5, orders/4),
		stores:     maxInt(2, orders/50),
		products:   maxInt(10, orders/5),
		categories: len(rootCategories) * 3,
	}
	g.addresses = g.customers + g.stores

	return []Source{
		{Name: "address", Table: g.address()},
		{Name: "channel", Table: g.channel()},
		{Name: "customer", Table: g.customer()},
		{Name: "nps_response", Table: g.npsResponse()},
		{Name: "payment", Table: g.payment()},
		{Name: "product", Table: g.product()},
		{Name: "product_category", Table: g.productCategory()},
		{Name: "province", Table: g.province()},
		{Name: "sales_order", Table: g.salesOrder()},
		{Name: "sales_order_item", Table: g.salesOrderItem()},
		{Name: "shipment", Table: g.shipment()},
		{Name: "store", Table: g.store()},
		{Name: "web_session", Table: g.webSession()},
	}
}

type generator struct {
	f          *datagen.Faker
	orders     int
	customers  int
	stores     int
	addresses  int
	products   int
	categories int
}

func (g *generator) ts() table.Value {
	return table.String(g.f.DateRange(windowStart, windowEnd).Format(timestampLayout))
}

func (g *generator) money(min, max float64) table.Value {
	return table.Decimal(decimal.NewFromFloat(g.f.Price(min, max)).Round(2))
}

func (g *generator) province() *table.Table {
	tbl := table.New("province_id", "name", "code")
	for i, p := range provinces {
		tbl.AppendRow(table.Int(int64(i+1)), table.String(p.name), table.String(p.code))
	}
	return tbl
}

func (g *generator) channel() *table.Table {
	tbl := table.New("channel_id", "code", "name")
	for i, c := range channels {
		tbl.AppendRow(table.Int(int64(i+1)), table.String(c.code), table.String(c.name))
	}
	return tbl
}

func (g *generator) address() *table.Table {
	tbl := table.New("address_id", "line1", "line2", "city", "province_id",
		"postal_code", "country_code", "created_at")
	for i := 1; i <= g.addresses; i++ {
		line2 := table.Null()
		if g.f.Int(1, 4) == 1 {
			line2 = table.String(fmt.Sprintf("Piso %d", g.f.Int(1, 12)))
		}
		tbl.AppendRow(
			table.Int(int64(i)),
			table.String(g.f.Street()),
			line2,
			table.String(g.f.City()),
			table.Int(int64(g.f.Int(1, len(provinces)))),
			table.String(g.f.Digits(4)),
			table.String("AR"),
			g.ts(),
		)
	}
	return tbl
}

func (g *generator) customer() *table.Table {
	tbl := table.New("customer_id", "email", "first_name", "last_name",
		"phone", "status", "created_at")
	for i := 1; i <= g.customers; i++ {
		tbl.AppendRow(
			table.Int(int64(i)),
			table.String(g.f.Email()),
			table.String(g.f.FirstName()),
			table.String(g.f.LastName()),
			table.String(g.f.Phone()),
			table.String(datagen.ChooseWeighted(g.f, []string{"active", "inactive"}, []int{9, 1})),
			g.ts(),
		)
	}
	return tbl
}

func (g *generator) productCategory() *table.Table {
	tbl := table.New("category_id", "name", "parent_id")
	for i, name := range rootCategories {
		tbl.AppendRow(table.Int(int64(i+1)), table.String(name), table.Null())
	}
	for i := len(rootCategories) + 1; i <= g.categories; i++ {
		tbl.AppendRow(
			table.Int(int64(i)),
			table.String(fmt.Sprintf("%s %s", datagen.Choose(g.f, rootCategories), g.f.Word())),
			table.Int(int64(g.f.Int(1, len(rootCategories)))),
		)
	}
	return tbl
}

func (g *generator) product() *table.Table {
	tbl := table.New("product_id", "sku", "name", "list_price", "status",
		"created_at", "category_id")
	for i := 1; i <= g.products; i++ {
		// A few products reference no category at all.
		category := table.Value(table.Int(int64(g.f.Int(1, g.categories))))
		if g.f.Int(1, 20) == 1 {
			category = table.Null()
		}
		tbl.AppendRow(
			table.Int(int64(i)),
			table.String(fmt.Sprintf("SKU-%s", g.f.Digits(8))),
			table.String(g.f.ProductName()),
			g.money(5, 900),
			table.String("active"),
			g.ts(),
			category,
		)
	}
	return tbl
}

func (g *generator) store() *table.Table {
	tbl := table.New("store_id", "name", "address_id")
	for i := 1; i <= g.stores; i++ {
		// Store addresses occupy the tail of the address table.
		tbl.AppendRow(
			table.Int(int64(i)),
			table.String(fmt.Sprintf("Sucursal %s", g.f.City())),
			table.Int(int64(g.customers+i)),
		)
	}
	return tbl
}

func (g *generator) salesOrder() *table.Table {
	tbl := table.New("order_id", "customer_id", "channel_id", "store_id",
		"order_date", "billing_address_id", "shipping_address_id", "status",
		"currency_code", "subtotal", "tax_amount", "shipping_fee", "total_amount")
	for i := 1; i <= g.orders; i++ {
		store := table.Value(table.Int(int64(g.f.Int(1, g.stores))))
		if g.f.Int(1, 10) == 1 {
			store = table.Null() // pure online orders have no store
		}
		subtotal := decimal.NewFromFloat(g.f.Price(10, 2000)).Round(2)
		tax := subtotal.Mul(decimal.RequireFromString("0.21")).Round(2)
		shipping := decimal.NewFromFloat(g.f.Price(0, 30)).Round(2)
		addr := int64(g.f.Int(1, g.customers))
		tbl.AppendRow(
			table.Int(int64(i)),
			table.Int(int64(g.f.Int(1, g.customers))),
			table.Int(int64(g.f.Int(1, len(channels)))),
			store,
			g.ts(),
			table.Int(addr),
			table.Int(addr),
			table.String(datagen.Choose(g.f, orderStatuses)),
			table.String("ARS"),
			table.Decimal(subtotal),
			table.Decimal(tax),
			table.Decimal(shipping),
			table.Decimal(subtotal.Add(tax).Add(shipping)),
		)
	}
	return tbl
}

func (g *generator) salesOrderItem() *table.Table {
	tbl := table.New("order_item_id", "order_id", "product_id", "quantity",
		"unit_price", "discount_amount", "line_total")
	id := 0
	for order := 1; order <= g.orders; order++ {
		for line := 0; line < g.f.Int(1, 4); line++ {
			id++
			qty := int64(g.f.Int(1, 5))
			unit := decimal.NewFromFloat(g.f.Price(5, 900)).Round(2)
			discount := decimal.Zero
			if g.f.Int(1, 5) == 1 {
				discount = unit.Mul(decimal.RequireFromString("0.1")).Round(2)
			}
			tbl.AppendRow(
				table.Int(int64(id)),
				table.Int(int64(order)),
				table.Int(int64(g.f.Int(1, g.products))),
				table.Int(qty),
				table.Decimal(unit),
				table.Decimal(discount),
				table.Decimal(unit.Sub(discount).Mul(decimal.NewFromInt(qty)).Round(2)),
			)
		}
	}
	return tbl
}

func (g *generator) payment() *table.Table {
	tbl := table.New("payment_id", "order_id", "method", "status", "amount",
		"paid_at", "transaction_ref")
	id := 0
	for order := 1; order <= g.orders; order++ {
		if g.f.Int(1, 20) == 1 {
			continue // unpaid orders
		}
		id++
		tbl.AppendRow(
			table.Int(int64(id)),
			table.Int(int64(order)),
			table.String(datagen.Choose(g.f, paymentMethods)),
			table.String(datagen.ChooseWeighted(g.f, []string{"approved", "rejected"}, []int{19, 1})),
			g.money(10, 2500),
			g.ts(),
			table.String(g.f.UUID()),
		)
	}
	return tbl
}

func (g *generator) shipment() *table.Table {
	tbl := table.New("shipment_id", "order_id", "carrier", "shipped_at",
		"delivered_at", "tracking_number")
	id := 0
	for order := 1; order <= g.orders; order++ {
		if g.f.Int(1, 5) == 1 {
			continue // not every order ships
		}
		id++
		shipped := g.f.DateRange(windowStart, windowEnd)
		delivered := table.Null()
		if g.f.Int(1, 10) != 1 {
			delivered = table.String(
				shipped.Add(time.Duration(g.f.Int(12, 240)) * time.Hour).Format(timestampLayout))
		}
		tbl.AppendRow(
			table.Int(int64(id)),
			table.Int(int64(order)),
			table.String(datagen.Choose(g.f, carriers)),
			table.String(shipped.Format(timestampLayout)),
			delivered,
			table.String(fmt.Sprintf("%s%s", g.f.LetterN(2), g.f.Digits(10))),
		)
	}
	return tbl
}

func (g *generator) webSession() *table.Table {
	tbl := table.New("session_id", "customer_id", "started_at", "ended_at",
		"source", "device")
	for i := 1; i <= g.orders; i++ {
		customer := table.Value(table.Int(int64(g.f.Int(1, g.customers))))
		if g.f.Int(1, 4) == 1 {
			customer = table.Null() // anonymous sessions
		}
		started := g.f.DateRange(windowStart, windowEnd)
		tbl.AppendRow(
			table.Int(int64(i)),
			customer,
			table.String(started.Format(timestampLayout)),
			table.String(started.Add(time.Duration(g.f.Int(1, 90))*time.Minute).Format(timestampLayout)),
			table.String(datagen.Choose(g.f, sessionSources)),
			table.String(datagen.Choose(g.f, devices)),
		)
	}
	return tbl
}

func (g *generator) npsResponse() *table.Table {
	tbl := table.New("nps_id", "customer_id", "channel_id", "responded_at", "score")
	count := maxInt(3, g.orders/5)
	for i := 1; i <= count; i++ {
		tbl.AppendRow(
			table.Int(int64(i)),
			table.Int(int64(g.f.Int(1, g.customers))),
			table.Int(int64(g.f.Int(1, len(channels)))),
			g.ts(),
			table.Int(int64(g.f.Int(0, 10))),
		)
	}
	return tbl
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
