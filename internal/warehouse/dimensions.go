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
	"github.com/edgewise-analytics/martgen/internal/table"
)

// noCategoryLabel replaces a missing category or parent category in the
// product hierarchy. Kept in the source system's original language because
// downstream reports key on the literal.
const noCategoryLabel = "Sin Categoría"

// finalizeDimension assigns surrogate keys and fixes the column layout:
// rows are stably sorted ascending by the natural key, ids are the 1-based
// row positions after the sort, and the result is projected as id, natural
// key, then the attributes in their documented order. Sort order is the
// sole determinant of surrogate key values, so re-running on the same
// input always assigns the same keys.
func finalizeDimension(tbl *table.Table, naturalKey string, attrs []string) *table.Table {
	tbl.SortBy(naturalKey)
	ids := make([]table.Value, tbl.NumRows())
	for i := range ids {
		ids[i] = table.Int(int64(i + 1))
	}
	tbl.SetColumn("id", ids)
	return tbl.Select(append([]string{"id", naturalKey}, attrs...)...)
}

// BuildDimCustomer builds the customer dimension: a straight projection of
// the customer source with the natural key renamed.
func BuildDimCustomer(customer *table.Table) *table.Table {
	df := customer.Clone()
	df.Rename("customer_id", "customer_key")
	return finalizeDimension(df, "customer_key",
		[]string{"email", "first_name", "last_name", "phone", "status", "created_at"})
}

// BuildDimChannel builds the channel dimension.
func BuildDimChannel(channel *table.Table) *table.Table {
	df := channel.Clone()
	df.Rename("channel_id", "channel_key")
	return finalizeDimension(df, "channel_key", []string{"code", "name"})
}

// BuildDimAddress builds the address dimension, denormalizing the province
// name and code onto each address. The province identifier itself is
// dropped from the final projection.
func BuildDimAddress(address, province *table.Table) *table.Table {
	df := address.LeftJoin(province, "province_id", "province_id", []table.Alias{
		{From: "name", As: "province_name"},
		{From: "code", As: "province_code"},
	})
	df.Rename("address_id", "address_key")
	return finalizeDimension(df, "address_key",
		[]string{"line1", "line2", "city", "province_name", "province_code",
			"postal_code", "country_code", "created_at"})
}

// BuildDimProduct builds the product dimension with a flattened one-level
// category hierarchy. The category table is first self-joined on the
// parent identifier to attach each category's parent name, then products
// are joined against the enriched categories. Join keys are compared in
// canonical text form, so identifier type differences between the two
// sides cannot break the self-join. Missing categories and missing parents
// both default to the placeholder label rather than null.
func BuildDimProduct(product, category *table.Table) *table.Table {
	enriched := category.LeftJoin(category, "parent_id", "category_id", []table.Alias{
		{From: "name", As: "parent_category_name"},
	})

	df := product.LeftJoin(enriched, "category_id", "category_id", []table.Alias{
		{From: "name", As: "category_name"},
		{From: "parent_category_name", As: "parent_category_name"},
	})
	df.Rename("product_id", "product_key")

	for _, col := range []string{"category_name", "parent_category_name"} {
		vals := df.Column(col)
		for i, v := range vals {
			if v.IsNull() {
				vals[i] = table.String(noCategoryLabel)
			}
		}
		df.SetColumn(col, vals)
	}

	return finalizeDimension(df, "product_key",
		[]string{"sku", "name", "list_price", "status", "created_at",
			"category_name", "parent_category_name"})
}

// BuildDimStore builds the store dimension, denormalizing the store's
// address and province through two sequential joins. The joined columns
// are aliased up front so the store's own name never collides with the
// province name.
func BuildDimStore(store, address, province *table.Table) *table.Table {
	base := store.Select("store_id", "name", "address_id")

	withAddr := base.LeftJoin(address, "address_id", "address_id", []table.Alias{
		{From: "line1", As: "line"},
		{From: "city", As: "city"},
		{From: "province_id", As: "province_id"},
		{From: "postal_code", As: "postal_code"},
		{From: "country_code", As: "country_code"},
		{From: "created_at", As: "created_at"},
	})

	df := withAddr.LeftJoin(province, "province_id", "province_id", []table.Alias{
		{From: "name", As: "province_name"},
		{From: "code", As: "province_code"},
	})
	df.Rename("store_id", "store_key")

	return finalizeDimension(df, "store_key",
		[]string{"name", "line", "city", "province_name", "province_code",
			"postal_code", "country_code", "created_at"})
}
