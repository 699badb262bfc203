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
	"errors"
	"fmt"

	"github.com/edgewise-analytics/martgen/internal/extract"
	"github.com/edgewise-analytics/martgen/internal/logging"
	"github.com/edgewise-analytics/martgen/internal/table"
)

// Output is one finished warehouse table, named for the load phase.
type Output struct {
	Name  string
	Table *table.Table
}

// Transform runs the full dimensional transformation: the calendar first,
// then the remaining dimensions, then every fact. Facts depend only on raw
// tables and the calendar, never on other facts or dimensions. The result
// is the complete, ordered output set; an absent snapshot is a hard error
// and produces no output at all.
func Transform(snap *extract.Snapshot) ([]Output, error) {
	if snap == nil {
		return nil, errors.New("transform: input snapshot is absent")
	}
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	logging.Info().Msg("Building dimensions")
	cal := BuildCalendar(CalendarInputs{
		SalesOrder:  snap.SalesOrder,
		WebSession:  snap.WebSession,
		NPSResponse: snap.NPSResponse,
		Payment:     snap.Payment,
		Shipment:    snap.Shipment,
		Customer:    snap.Customer,
		Address:     snap.Address,
		Product:     snap.Product,
	})

	outputs := []Output{
		{Name: "dim_calendar", Table: cal.Table},
		{Name: "dim_customer", Table: BuildDimCustomer(snap.Customer)},
		{Name: "dim_product", Table: BuildDimProduct(snap.Product, snap.ProductCategory)},
		{Name: "dim_channel", Table: BuildDimChannel(snap.Channel)},
		{Name: "dim_address", Table: BuildDimAddress(snap.Address, snap.Province)},
		{Name: "dim_store", Table: BuildDimStore(snap.Store, snap.Address, snap.Province)},
	}

	logging.Info().Msg("Building facts")
	outputs = append(outputs,
		Output{Name: "fact_sales_order", Table: BuildFactSalesOrder(snap.SalesOrder, cal)},
		Output{Name: "fact_sales_order_item", Table: BuildFactSalesOrderItem(snap.SalesOrderItem, snap.SalesOrder, cal)},
		Output{Name: "fact_payment", Table: BuildFactPayment(snap.Payment, snap.SalesOrder, cal)},
		Output{Name: "fact_shipment", Table: BuildFactShipment(snap.Shipment, snap.SalesOrder, cal)},
		Output{Name: "fact_web_session", Table: BuildFactWebSession(snap.WebSession, cal)},
		Output{Name: "fact_nps_response", Table: BuildFactNPSResponse(snap.NPSResponse, cal)},
	)

	for _, out := range outputs {
		logging.Debug().
			Str("table", out.Name).
			Int("rows", out.Table.NumRows()).
			Msg("Table built")
	}
	return outputs, nil
}

func checkSnapshot(snap *extract.Snapshot) error {
	sources := map[string]*table.Table{
		"address":          snap.Address,
		"channel":          snap.Channel,
		"customer":         snap.Customer,
		"nps_response":     snap.NPSResponse,
		"payment":          snap.Payment,
		"product":          snap.Product,
		"product_category": snap.ProductCategory,
		"province":         snap.Province,
		"sales_order":      snap.SalesOrder,
		"sales_order_item": snap.SalesOrderItem,
		"shipment":         snap.Shipment,
		"store":            snap.Store,
		"web_session":      snap.WebSession,
	}
	for name, tbl := range sources {
		if tbl == nil {
			return fmt.Errorf("transform: source table %q is absent", name)
		}
	}
	return nil
}
