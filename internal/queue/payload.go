package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Payload carries the per-type, per-status job data. The source of truth is
// the JSON column in print_jobs; this struct is the typed view used
// everywhere above the store boundary. Fields are omitted from the stored
// JSON when empty so a pending generation job only carries what/date and an
// upload job only carries its file metadata. Files is the exception: it is
// always stored, as an empty array when a generation produced nothing.
type Payload struct {
	// Generation request fields.
	What    string `json:"what,omitempty"`
	Date    string `json:"date,omitempty"`
	VentaID string `json:"venta_id,omitempty"`

	// Generation result fields. OrdersCount is a pointer so the
	// no-orders outcome (zero) is distinguishable from "not generated yet".
	OrdersCount *int     `json:"orders_count,omitempty"`
	Files       []string `json:"files"`
	Note        string   `json:"note,omitempty"`

	// Upload fields.
	OriginalName string `json:"original_name,omitempty"`
	ContentType  string `json:"content_type,omitempty"`

	// Print result fields.
	PrintedFiles []string `json:"printed_files,omitempty"`
	PrintedAt    string   `json:"printed_at,omitempty"`
}

// SetOrdersCount records a generation order count, including zero.
func (p *Payload) SetOrdersCount(count int) {
	p.OrdersCount = &count
}

// CleanFiles returns the non-empty, trimmed file paths from the payload.
func (p Payload) CleanFiles() []string {
	files := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		trimmed := strings.TrimSpace(f)
		if trimmed == "" {
			continue
		}
		files = append(files, trimmed)
	}
	return files
}

func encodePayload(p Payload) (string, error) {
	if p.Files == nil {
		p.Files = []string{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

func decodePayload(raw string) (Payload, error) {
	var p Payload
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return p, nil
}
