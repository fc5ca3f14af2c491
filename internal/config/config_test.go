package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"printq/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.PollInterval != 2 {
		t.Fatalf("expected default poll interval, got %d", cfg.PollInterval)
	}
	if cfg.APIBind != "127.0.0.1:7617" {
		t.Fatalf("expected default api bind, got %q", cfg.APIBind)
	}
	if cfg.Printer.Command != "lp" {
		t.Fatalf("expected default printer command, got %q", cfg.Printer.Command)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, fmt.Sprintf(`timezone = "UTC"

[paths]
data_dir = %q
api_token = "  secret  "

[workflow]
poll_interval = 7
heartbeat_interval = 0

[printer]
command = "lpr"
name = "HP-Bodega"
`, filepath.Join(base, "data")))

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.PollInterval != 7 || cfg.HeartbeatInterval != 0 {
		t.Fatalf("unexpected workflow settings: %+v", cfg.Workflow)
	}
	if cfg.Printer.Command != "lpr" || cfg.Printer.Name != "HP-Bodega" {
		t.Fatalf("unexpected printer settings: %+v", cfg.Printer)
	}
	if cfg.APIToken != "secret" {
		t.Fatalf("expected trimmed api token, got %q", cfg.APIToken)
	}
	if cfg.Timezone != "UTC" {
		t.Fatalf("unexpected timezone %q", cfg.Timezone)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "zero poll interval",
			content: "[workflow]\npoll_interval = 0\n",
			want:    "poll_interval",
		},
		{
			name:    "negative heartbeat",
			content: "[workflow]\nheartbeat_interval = -1\n",
			want:    "heartbeat_interval",
		},
		{
			name:    "empty printer command",
			content: "[printer]\ncommand = \"\"\n",
			want:    "printer.command",
		},
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			want:    "logging.format",
		},
		{
			name:    "bad timezone",
			content: "timezone = \"Mars/Olympus\"\n",
			want:    "timezone",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestHomeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	path := writeConfig(t, "[paths]\ndata_dir = \"~/printq-data\"\n")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, "printq-data") {
		t.Fatalf("expected expanded data dir, got %q", cfg.DataDir)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = "/var/lib/printq"

	if got := cfg.DatabasePath(); got != "/var/lib/printq/printq.db" {
		t.Fatalf("unexpected database path %q", got)
	}
	if got := cfg.LockFilePath(); got != "/var/lib/printq/printqd.lock" {
		t.Fatalf("unexpected lock path %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(base, "data")
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.UploadDir = filepath.Join(base, "uploads")
	cfg.OutputDir = filepath.Join(base, "output")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.DataDir, cfg.LogDir, cfg.UploadDir, cfg.OutputDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestCreateSampleLoadsClean(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(target); err == nil {
		t.Fatal("expected error when sample already exists")
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true for written sample")
	}

	defaults := config.Default()
	if cfg.PollInterval != defaults.PollInterval {
		t.Fatalf("sample poll_interval diverges from default: %d", cfg.PollInterval)
	}
	if cfg.Generation.ClientsSheet != defaults.Generation.ClientsSheet {
		t.Fatalf("sample clients_sheet diverges from default: %q", cfg.Generation.ClientsSheet)
	}
	if cfg.Timezone != defaults.Timezone {
		t.Fatalf("sample timezone diverges from default: %q", cfg.Timezone)
	}
}
