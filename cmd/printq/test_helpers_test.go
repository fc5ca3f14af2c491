package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"printq/internal/config"
	"printq/internal/queue"
)

// writeConfigFile writes a config rooted in the test temp dir and returns
// its path.
func writeConfigFile(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	content := fmt.Sprintf(`timezone = "UTC"

[paths]
data_dir = %q
log_dir = %q
upload_dir = %q
output_dir = %q
api_bind = "127.0.0.1:0"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "uploads"),
		filepath.Join(base, "output"),
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// openStoreFor opens the queue database the CLI will operate on.
func openStoreFor(t *testing.T, configPath string) (*config.Config, *queue.Store) {
	t.Helper()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return cfg, store
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
