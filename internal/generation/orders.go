package generation

import (
	"sort"
	"strings"
	"time"
)

// OrderHeader summarizes one sale for rendering.
type OrderHeader struct {
	SaleID          string  `json:"sale_id"`
	Date            string  `json:"date"`
	ClientName      string  `json:"client_name"`
	RUT             string  `json:"rut"`
	Address         string  `json:"address"`
	Total           float64 `json:"total"`
	TotalFormatted  string  `json:"total_formatted"`
	FacturaDespacho string  `json:"factura_despacho"`
}

// Order is one sale with its detail lines, ready for rendering.
type Order struct {
	Header OrderHeader `json:"header"`
	Items  []SaleItem  `json:"items"`
}

// OrderFilter narrows which sales of the day become orders.
type OrderFilter struct {
	// Types restricts sales by their tipo column; empty allows any type.
	Types []string
	// SaleID restricts to a single sale; empty allows all.
	SaleID string
}

// DispatchFilter selects the regular daily dispatch sales.
func DispatchFilter() OrderFilter {
	return OrderFilter{Types: []string{"DESPACHO"}}
}

// EgresoFilter selects one outbound sale by id.
func EgresoFilter(saleID string) OrderFilter {
	return OrderFilter{Types: []string{"EGRESO"}, SaleID: saleID}
}

// BuildDailyOrders joins the dataset into per-sale orders for one day.
// Sales with no detail lines are dropped, matching the inner join on the
// detail sheet. Orders come back sorted by client then recipient then sale
// id so the printed list groups deliveries together.
func BuildDailyOrders(dataset *Dataset, day time.Time, filter OrderFilter) []Order {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	clientsByName := make(map[string]Client, len(dataset.Clients))
	for _, client := range dataset.Clients {
		clientsByName[normalizeKey(client.Name)] = client
	}
	recipientsByName := make(map[string]Recipient, len(dataset.Recipients))
	for _, recipient := range dataset.Recipients {
		recipientsByName[normalizeKey(recipient.Name)] = recipient
	}
	itemsBySale := make(map[string][]SaleItem, len(dataset.Items))
	for _, item := range dataset.Items {
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
	}

	var selected []Sale
	for _, sale := range dataset.Sales {
		if !sale.Date.Equal(day) {
			continue
		}
		if !filter.allows(sale) {
			continue
		}
		if len(itemsBySale[sale.ID]) == 0 {
			continue
		}
		selected = append(selected, sale)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Client != selected[j].Client {
			return selected[i].Client < selected[j].Client
		}
		if selected[i].Recipient != selected[j].Recipient {
			return selected[i].Recipient < selected[j].Recipient
		}
		return selected[i].ID < selected[j].ID
	})

	orders := make([]Order, 0, len(selected))
	for _, sale := range selected {
		client := clientsByName[normalizeKey(sale.Client)]
		recipient, hasRecipient := recipientsByName[normalizeKey(sale.Recipient)]

		clientName := client.Name
		if clientName == "" {
			clientName = sale.Client
		}
		if sale.Recipient != "" {
			clientName = sale.Recipient + " (" + clientName + ")"
		}

		address := client.Address
		if hasRecipient && recipient.Address != "" {
			address = recipient.Address
		}

		items := itemsBySale[sale.ID]
		var total float64
		for _, item := range items {
			total += item.TotalPrice
		}

		orders = append(orders, Order{
			Header: OrderHeader{
				SaleID:          sale.ID,
				Date:            sale.Date.Format("02-01-06"),
				ClientName:      clientName,
				RUT:             client.RUT,
				Address:         address,
				Total:           total,
				TotalFormatted:  FormatCLP(total),
				FacturaDespacho: sale.FacturaDespacho,
			},
			Items: items,
		})
	}
	return orders
}

func (f OrderFilter) allows(sale Sale) bool {
	if f.SaleID != "" && sale.ID != f.SaleID {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if sale.Type == t {
			return true
		}
	}
	return false
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
