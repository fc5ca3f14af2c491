// Package generation turns the orders workbook into the shipping documents
// a queued job asks for. It reads the client, recipient, sale, and sale
// detail sheets, joins them into per-sale orders for the requested day, and
// hands the result to a renderer that produces the PDFs.
package generation
