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
	"math"

	"github.com/edgewise-analytics/martgen/internal/table"
)

// Fact builders keep the source natural key verbatim as id; only date
// foreign keys point at dimension surrogate keys. Relational keys that are
// null or unresolvable become the -1 sentinel, while a date that misses
// the calendar stays null.

// BuildFactSalesOrder builds the order-header-grain fact.
func BuildFactSalesOrder(salesOrder *table.Table, cal *Calendar) *table.Table {
	df := salesOrder.Clone()
	df.Rename("order_id", "id")
	df.Rename("status", "status_order")

	df.SetColumn("order_date_id", ResolveDateKey(df, "order_date", cal))
	df.SetColumn("order_time", ResolveTimeOfDay(df, "order_date"))

	sentinelInt(df, "store_id")
	sentinelInt(df, "billing_address_id")
	sentinelInt(df, "shipping_address_id")

	return df.Select(
		"id", "customer_id", "channel_id", "store_id", "order_date_id", "order_time",
		"billing_address_id", "shipping_address_id", "status_order", "currency_code",
		"subtotal", "tax_amount", "shipping_fee", "total_amount",
	)
}

// BuildFactSalesOrderItem builds the line-grain fact. Items inherit the
// customer, channel, store, and order date from their order header.
func BuildFactSalesOrderItem(item, salesOrder *table.Table, cal *Calendar) *table.Table {
	header := salesOrder.Select("order_id", "customer_id", "channel_id", "store_id", "order_date")

	df := item.LeftJoin(header, "order_id", "order_id", []table.Alias{
		{From: "customer_id", As: "customer_id"},
		{From: "channel_id", As: "channel_id"},
		{From: "store_id", As: "store_id"},
		{From: "order_date", As: "order_date"},
	})
	df.Rename("order_item_id", "id")

	df.SetColumn("order_date_id", ResolveDateKey(df, "order_date", cal))

	sentinelInt(df, "store_id")
	sentinelInt(df, "customer_id")
	sentinelInt(df, "channel_id")
	sentinelInt(df, "product_id")

	return df.Select(
		"id", "order_id", "customer_id", "channel_id", "store_id", "product_id",
		"order_date_id", "quantity", "unit_price", "discount_amount", "line_total",
	)
}

// BuildFactPayment builds the payment-transaction-grain fact.
func BuildFactPayment(payment, salesOrder *table.Table, cal *Calendar) *table.Table {
	header := salesOrder.Select("order_id", "customer_id", "billing_address_id", "channel_id", "store_id")

	df := payment.LeftJoin(header, "order_id", "order_id", []table.Alias{
		{From: "customer_id", As: "customer_id"},
		{From: "billing_address_id", As: "billing_address_id"},
		{From: "channel_id", As: "channel_id"},
		{From: "store_id", As: "store_id"},
	})
	df.Rename("payment_id", "id")
	df.Rename("status", "status_payment")

	df.SetColumn("paid_at_date_id", ResolveDateKey(df, "paid_at", cal))
	df.SetColumn("paid_at_time", ResolveTimeOfDay(df, "paid_at"))

	sentinelInt(df, "store_id")
	sentinelInt(df, "customer_id")
	sentinelInt(df, "channel_id")
	sentinelInt(df, "billing_address_id")

	return df.Select(
		"id", "customer_id", "billing_address_id", "channel_id", "store_id",
		"method", "status_payment", "amount", "paid_at_date_id", "paid_at_time",
		"transaction_ref",
	)
}

// BuildFactShipment builds the shipment-event-grain fact, with two
// independent date resolutions and the delivery lead time measure.
// dias_de_entrega is the whole-day difference between delivery and
// shipping; it stays null when either end is missing or unparseable, and
// it is deliberately left signed when delivery precedes shipping.
func BuildFactShipment(shipment, salesOrder *table.Table, cal *Calendar) *table.Table {
	header := salesOrder.Select("order_id", "customer_id", "shipping_address_id", "channel_id")

	df := shipment.LeftJoin(header, "order_id", "order_id", []table.Alias{
		{From: "customer_id", As: "customer_id"},
		{From: "shipping_address_id", As: "shipping_address_id"},
		{From: "channel_id", As: "channel_id"},
	})
	df.Rename("shipment_id", "id")

	df.SetColumn("shipped_at_date_id", ResolveDateKey(df, "shipped_at", cal))
	df.SetColumn("delivered_at_date_id", ResolveDateKey(df, "delivered_at", cal))
	df.SetColumn("shipped_at_time", ResolveTimeOfDay(df, "shipped_at"))
	df.SetColumn("delivered_at_time", ResolveTimeOfDay(df, "delivered_at"))

	leadDays := make([]table.Value, df.NumRows())
	for i := 0; i < df.NumRows(); i++ {
		shipped, okS := df.Value(i, "shipped_at").AsTime()
		delivered, okD := df.Value(i, "delivered_at").AsTime()
		if !okS || !okD {
			leadDays[i] = table.Null()
			continue
		}
		days := math.Floor(delivered.Sub(shipped).Hours() / 24)
		leadDays[i] = table.Int(int64(days))
	}
	df.SetColumn("dias_de_entrega", leadDays)

	sentinelInt(df, "customer_id")
	sentinelInt(df, "channel_id")
	sentinelInt(df, "shipping_address_id")

	return df.Select(
		"id", "customer_id", "shipping_address_id", "channel_id", "carrier",
		"shipped_at_date_id", "shipped_at_time",
		"delivered_at_date_id", "delivered_at_time", "tracking_number",
		"dias_de_entrega",
	)
}

// BuildFactWebSession builds the session-event-grain fact.
func BuildFactWebSession(webSession *table.Table, cal *Calendar) *table.Table {
	df := webSession.Clone()
	df.Rename("session_id", "id")

	df.SetColumn("started_at_date_id", ResolveDateKey(df, "started_at", cal))
	df.SetColumn("ended_at_date_id", ResolveDateKey(df, "ended_at", cal))
	df.SetColumn("started_at_time", ResolveTimeOfDay(df, "started_at"))
	df.SetColumn("ended_at_time", ResolveTimeOfDay(df, "ended_at"))

	sentinelInt(df, "customer_id")

	return df.Select(
		"id", "customer_id", "started_at_date_id", "started_at_time",
		"ended_at_date_id", "ended_at_time", "source", "device",
	)
}

// BuildFactNPSResponse builds the survey-response-grain fact.
func BuildFactNPSResponse(npsResponse *table.Table, cal *Calendar) *table.Table {
	df := npsResponse.Clone()
	df.Rename("nps_id", "id")

	df.SetColumn("responded_at_date_id", ResolveDateKey(df, "responded_at", cal))
	df.SetColumn("responded_at_time", ResolveTimeOfDay(df, "responded_at"))

	sentinelInt(df, "customer_id")
	sentinelInt(df, "channel_id")

	return df.Select(
		"id", "customer_id", "channel_id", "responded_at_date_id",
		"responded_at_time", "score",
	)
}
