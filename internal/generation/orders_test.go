package generation_test

import (
	"testing"
	"time"

	"printq/internal/generation"
)

func sampleDataset() *generation.Dataset {
	return &generation.Dataset{
		Clients: []generation.Client{
			{ID: "1", Name: "Frutera Andina", RUT: "76.111.222-3", Address: "Av. Central 100"},
			{ID: "2", Name: "Mercado Sur", RUT: "77.444.555-6", Address: "Calle Larga 5"},
		},
		Recipients: []generation.Recipient{
			{ID: "10", Name: "Sucursal Maipu", ClientID: "1", Address: "Camino Melipilla 900"},
		},
		Sales: []generation.Sale{
			{ID: "V1", Date: day(2024, 3, 1), Client: "Frutera Andina", Recipient: "Sucursal Maipu", Type: "DESPACHO"},
			{ID: "V2", Date: day(2024, 3, 1), Client: "Mercado Sur", Type: "DESPACHO", FacturaDespacho: "F-88"},
			{ID: "V3", Date: day(2024, 3, 1), Client: "Mercado Sur", Type: "EGRESO"},
			{ID: "V4", Date: day(2024, 3, 2), Client: "Frutera Andina", Type: "DESPACHO"},
			{ID: "V5", Date: day(2024, 3, 1), Client: "Frutera Andina", Type: "DESPACHO"},
		},
		Items: []generation.SaleItem{
			{SaleID: "V1", Product: "Palta Hass", Caliber: "G", Kg: 120, UnitPrice: 4500, TotalPrice: 540000},
			{SaleID: "V1", Product: "Limon", Caliber: "M", Kg: 40, UnitPrice: 900, TotalPrice: 36000},
			{SaleID: "V2", Product: "Palta Hass", Caliber: "M", Kg: 60, UnitPrice: 4200, TotalPrice: 252000},
			{SaleID: "V3", Product: "Naranja", Caliber: "G", Kg: 30, UnitPrice: 800, TotalPrice: 24000},
			{SaleID: "V4", Product: "Palta Hass", Caliber: "G", Kg: 10, UnitPrice: 4500, TotalPrice: 45000},
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDailyOrdersFiltersDayAndType(t *testing.T) {
	orders := generation.BuildDailyOrders(sampleDataset(), day(2024, 3, 1), generation.DispatchFilter())

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// V5 has no detail rows, V3 is an EGRESO, V4 is another day.
	for _, order := range orders {
		if order.Header.SaleID == "V5" || order.Header.SaleID == "V3" || order.Header.SaleID == "V4" {
			t.Fatalf("sale %s should have been filtered out", order.Header.SaleID)
		}
	}
}

func TestBuildDailyOrdersHeaderComposition(t *testing.T) {
	orders := generation.BuildDailyOrders(sampleDataset(), day(2024, 3, 1), generation.DispatchFilter())
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	// Sorted by client name, so Frutera Andina's sale comes first.
	first := orders[0]
	if first.Header.SaleID != "V1" {
		t.Fatalf("expected V1 first, got %s", first.Header.SaleID)
	}
	if first.Header.ClientName != "Sucursal Maipu (Frutera Andina)" {
		t.Fatalf("unexpected client name %q", first.Header.ClientName)
	}
	if first.Header.Address != "Camino Melipilla 900" {
		t.Fatalf("expected recipient address preferred, got %q", first.Header.Address)
	}
	if first.Header.Total != 576000 {
		t.Fatalf("unexpected total %v", first.Header.Total)
	}
	if first.Header.TotalFormatted != "$576.000" {
		t.Fatalf("unexpected formatted total %q", first.Header.TotalFormatted)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first.Items))
	}

	second := orders[1]
	if second.Header.SaleID != "V2" {
		t.Fatalf("expected V2 second, got %s", second.Header.SaleID)
	}
	if second.Header.ClientName != "Mercado Sur" {
		t.Fatalf("unexpected client name %q", second.Header.ClientName)
	}
	if second.Header.Address != "Calle Larga 5" {
		t.Fatalf("expected client address fallback, got %q", second.Header.Address)
	}
	if second.Header.FacturaDespacho != "F-88" {
		t.Fatalf("unexpected factura %q", second.Header.FacturaDespacho)
	}
}

func TestEgresoFilterSelectsSingleSale(t *testing.T) {
	orders := generation.BuildDailyOrders(sampleDataset(), day(2024, 3, 1), generation.EgresoFilter("V3"))
	if len(orders) != 1 || orders[0].Header.SaleID != "V3" {
		t.Fatalf("expected only V3, got %#v", orders)
	}

	none := generation.BuildDailyOrders(sampleDataset(), day(2024, 3, 1), generation.EgresoFilter("V1"))
	if len(none) != 0 {
		t.Fatalf("V1 is not an egreso sale, got %d orders", len(none))
	}
}
