package warehouse

import (
	"strings"
	"testing"

	"github.com/edgewise-analytics/martgen/internal/extract"
	"github.com/edgewise-analytics/martgen/internal/table"
)

func testSnapshot() *extract.Snapshot {
	return &extract.Snapshot{
		Address:         testAddressTable(),
		Channel:         table.New("channel_id", "code", "name"),
		Customer:        testCustomerTable(),
		NPSResponse:     table.New("nps_id", "customer_id", "channel_id", "responded_at", "score"),
		Payment:         table.New("payment_id", "order_id", "method", "status", "amount", "paid_at", "transaction_ref"),
		Product:         table.New("product_id", "sku", "name", "list_price", "status", "created_at", "category_id"),
		ProductCategory: table.New("category_id", "name", "parent_id"),
		Province:        testProvinceTable(),
		SalesOrder:      testSalesOrderTable(),
		SalesOrderItem:  table.New("order_item_id", "order_id", "product_id", "quantity", "unit_price", "discount_amount", "line_total"),
		Shipment:        table.New("shipment_id", "order_id", "carrier", "shipped_at", "delivered_at", "tracking_number"),
		Store:           table.New("store_id", "name", "address_id"),
		WebSession:      table.New("session_id", "customer_id", "started_at", "ended_at", "source", "device"),
	}
}

func TestTransformOutputsEveryTableInOrder(t *testing.T) {
	outputs, err := Transform(testSnapshot())
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}

	want := []string{
		"dim_calendar", "dim_customer", "dim_product", "dim_channel",
		"dim_address", "dim_store",
		"fact_sales_order", "fact_sales_order_item", "fact_payment",
		"fact_shipment", "fact_web_session", "fact_nps_response",
	}
	if len(outputs) != len(want) {
		t.Fatalf("got %d outputs, want %d", len(outputs), len(want))
	}
	for i, name := range want {
		if outputs[i].Name != name {
			t.Errorf("output %d = %q, want %q", i, outputs[i].Name, name)
		}
		if outputs[i].Table == nil {
			t.Errorf("output %q has no table", name)
		}
	}
}

func TestTransformNilSnapshot(t *testing.T) {
	if _, err := Transform(nil); err == nil {
		t.Fatal("Transform(nil) should fail")
	}
}

func TestTransformMissingSource(t *testing.T) {
	snap := testSnapshot()
	snap.Province = nil

	_, err := Transform(snap)
	if err == nil {
		t.Fatal("Transform() should fail when a source table is absent")
	}
	if !strings.Contains(err.Error(), "province") {
		t.Errorf("error %q does not name the missing source", err)
	}
}
