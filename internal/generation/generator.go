package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"printq/internal/config"
	"printq/internal/logging"
	"printq/internal/queue"
	"printq/internal/worker"
)

// ErrNoOrders signals that the requested day has no matching sales. The
// worker treats it as a clean outcome rather than a failure.
var ErrNoOrders = errors.New("no sales for requested date")

// Generator implements the generation side of the queue: it loads the
// orders workbook, builds the day's orders, and renders the requested
// documents into the output directory.
type Generator struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer Renderer
}

// New builds a Generator. A nil renderer defaults to the configured
// external render command.
func New(cfg *config.Config, logger *slog.Logger, renderer Renderer) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if renderer == nil {
		renderer = NewCommandRenderer(cfg.Generation.RenderCommand)
	}
	return &Generator{
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, "generator")),
		renderer: renderer,
	}
}

// Generate produces the documents a claimed job asks for. A day without
// matching sales comes back as a zero-count result with a note instead of
// an error.
func (g *Generator) Generate(ctx context.Context, job *queue.Job) (worker.GenerationResult, error) {
	kind, err := ParseKind(job.Payload.What)
	if err != nil {
		return worker.GenerationResult{}, err
	}
	day, err := parseJobDate(job.Payload.Date)
	if err != nil {
		return worker.GenerationResult{}, err
	}
	saleID := strings.TrimSpace(job.Payload.VentaID)
	if kind == KindEgreso && saleID == "" {
		return worker.GenerationResult{}, errors.New("venta_id is required when what is egreso")
	}

	g.logger.Info("generation requested",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String("kind", string(kind)),
		logging.String("date", job.Payload.Date),
	)

	files, count, err := g.generate(ctx, kind, day, saleID)
	if errors.Is(err, ErrNoOrders) {
		note := fmt.Sprintf("no sales for %s", day.Format("2006-01-02"))
		g.logger.Info("generation found no sales",
			logging.Int64(logging.FieldJobID, job.ID),
			logging.String("date", job.Payload.Date),
		)
		return worker.GenerationResult{Note: note}, nil
	}
	if err != nil {
		return worker.GenerationResult{}, err
	}

	g.logger.Info("generation completed",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.Int("orders", count),
		logging.Int("files", len(files)),
	)
	return worker.GenerationResult{Files: files, OrdersCount: count}, nil
}

func (g *Generator) generate(ctx context.Context, kind Kind, day time.Time, saleID string) ([]string, int, error) {
	dataset, err := LoadWorkbook(g.cfg)
	if err != nil {
		return nil, 0, err
	}
	if len(dataset.Clients) == 0 || len(dataset.Sales) == 0 || len(dataset.Items) == 0 {
		return nil, 0, errors.New("workbook has an empty clients, sales, or detail sheet")
	}

	filter := DispatchFilter()
	if kind == KindEgreso {
		filter = EgresoFilter(saleID)
	}
	orders := BuildDailyOrders(dataset, day, filter)
	if len(orders) == 0 {
		return nil, 0, ErrNoOrders
	}

	doc := Document{
		Title:    g.cfg.Generation.Title,
		Subtitle: g.cfg.Generation.Subtitle,
		Contact:  g.cfg.Generation.Contact,
		Date:     day.Format("2006-01-02"),
		MaxItems: g.cfg.Generation.MaxItems,
		Orders:   orders,
	}

	var files []string
	if kind.IncludesShippingList() {
		doc.Kind = string(KindShippingList)
		path := g.outputPath(g.cfg.Generation.ShippingListName, day)
		if err := g.renderer.Render(ctx, doc, path); err != nil {
			return nil, 0, err
		}
		files = append(files, path)
	}
	if kind.IncludesGuides() {
		doc.Kind = string(KindGuides)
		path := g.outputPath(g.cfg.Generation.GuidesName, day)
		if err := g.renderer.Render(ctx, doc, path); err != nil {
			return nil, 0, err
		}
		files = append(files, path)
	}
	return files, len(orders), nil
}

// outputPath stamps the file name with the target day so reruns for
// different dates never overwrite each other.
func (g *Generator) outputPath(name string, day time.Time) string {
	stamp := day.Format("20060102")
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".pdf") {
		return filepath.Join(g.cfg.OutputDir, fmt.Sprintf("%s_%s.pdf", name, stamp))
	}
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(g.cfg.OutputDir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))
}

func parseJobDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, errors.New("payload date is required")
	}
	day, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse payload date %q: %w", raw, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC), nil
}

var _ worker.DocumentGenerator = (*Generator)(nil)
