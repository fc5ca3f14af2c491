package daemon_test

import (
	"context"
	"testing"

	"printq/internal/daemon"
	"printq/internal/logging"
	"printq/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	status := d.Status()
	if !status.Running {
		t.Fatal("expected daemon running")
	}
	if status.APIAddr == "" {
		t.Fatal("expected api server bound")
	}
	if status.LockFilePath == "" || status.QueueDBPath == "" {
		t.Fatalf("incomplete status: %#v", status)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail while running")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon stopped")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	secondCfg := *cfg
	secondCfg.APIBind = "127.0.0.1:0"
	secondStore := testsupport.MustOpenStore(t, &secondCfg)
	second, err := daemon.New(&secondCfg, secondStore, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail on lock")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("expected lock released after stop: %v", err)
	}
	second.Stop()
}
