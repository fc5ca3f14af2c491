package testsupport

import (
	"path/filepath"
	"testing"

	"printq/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(base, "data")
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.UploadDir = filepath.Join(base, "uploads")
	cfg.OutputDir = filepath.Join(base, "output")
	cfg.APIBind = "127.0.0.1:0"
	cfg.Timezone = "UTC"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithPrinterCommand overrides the external print command on the test config.
func WithPrinterCommand(command string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Printer.Command = command
	}
}

// WithWorkbook points the generation config at a test workbook.
func WithWorkbook(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.WorkbookPath = path
	}
}
