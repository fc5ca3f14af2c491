package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"printq/internal/config"
)

// Client is a row from the clients sheet.
type Client struct {
	ID      string
	Name    string
	RUT     string
	Address string
}

// Recipient is a row from the recipients sheet. Recipients are the people
// a sale is dispatched to, distinct from the billed client.
type Recipient struct {
	ID       string
	Name     string
	ClientID string
	Address  string
}

// Sale is a row from the sales sheet. Client and Recipient hold the names
// used to join against the other sheets.
type Sale struct {
	ID              string
	Date            time.Time
	Client          string
	Recipient       string
	Type            string
	FacturaDespacho string
}

// SaleItem is a row from the sale detail sheet.
type SaleItem struct {
	SaleID     string  `json:"sale_id"`
	Product    string  `json:"product"`
	Caliber    string  `json:"caliber"`
	Kg         float64 `json:"kg"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Dataset is the in-memory view of the four workbook sheets.
type Dataset struct {
	Clients    []Client
	Recipients []Recipient
	Sales      []Sale
	Items      []SaleItem
}

// LoadWorkbook reads the configured orders workbook into a Dataset.
func LoadWorkbook(cfg *config.Config) (*Dataset, error) {
	file, err := excelize.OpenFile(cfg.Generation.WorkbookPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", cfg.Generation.WorkbookPath, err)
	}
	defer file.Close()

	clients, err := readSheet(file, cfg.Generation.ClientsSheet)
	if err != nil {
		return nil, err
	}
	recipients, err := readSheet(file, cfg.Generation.RecipientsSheet)
	if err != nil {
		return nil, err
	}
	sales, err := readSheet(file, cfg.Generation.SalesSheet)
	if err != nil {
		return nil, err
	}
	detail, err := readSheet(file, cfg.Generation.DetailSheet)
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{}
	for _, row := range clients {
		dataset.Clients = append(dataset.Clients, Client{
			ID:      row["id"],
			Name:    row["nombre"],
			RUT:     row["rut"],
			Address: row["direccion"],
		})
	}
	for _, row := range recipients {
		dataset.Recipients = append(dataset.Recipients, Recipient{
			ID:       row["id"],
			Name:     row["nombre"],
			ClientID: row["cliente_id"],
			Address:  row["direccion"],
		})
	}
	for _, row := range sales {
		date, err := parseSheetDate(row["fecha"])
		if err != nil {
			return nil, fmt.Errorf("sheet %s, sale %s: %w", cfg.Generation.SalesSheet, row["id"], err)
		}
		dataset.Sales = append(dataset.Sales, Sale{
			ID:              row["id"],
			Date:            date,
			Client:          row["cliente"],
			Recipient:       row["destinatario"],
			Type:            strings.ToUpper(strings.TrimSpace(row["tipo"])),
			FacturaDespacho: row["factura_despacho"],
		})
	}
	for _, row := range detail {
		item := SaleItem{
			SaleID:  row["venta_id"],
			Product: row["producto"],
			Caliber: row["calibre"],
		}
		if item.Kg, err = ParseNumber(row["kg"]); err != nil {
			return nil, fmt.Errorf("sheet %s, sale %s: %w", cfg.Generation.DetailSheet, item.SaleID, err)
		}
		if item.UnitPrice, err = ParseNumber(row["precio_unit"]); err != nil {
			return nil, fmt.Errorf("sheet %s, sale %s: %w", cfg.Generation.DetailSheet, item.SaleID, err)
		}
		if item.TotalPrice, err = ParseNumber(row["precio_total"]); err != nil {
			return nil, fmt.Errorf("sheet %s, sale %s: %w", cfg.Generation.DetailSheet, item.SaleID, err)
		}
		dataset.Items = append(dataset.Items, item)
	}
	return dataset, nil
}

// readSheet returns one map per data row keyed by the lowercased header row.
func readSheet(file *excelize.File, sheet string) ([]map[string]string, error) {
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[header] = value
		}
		records = append(records, record)
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var sheetDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

// parseSheetDate accepts the day-first formats the sales sheet uses plus
// ISO dates, normalized to midnight UTC for day comparison.
func parseSheetDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range sheetDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
