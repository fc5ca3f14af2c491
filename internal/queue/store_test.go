package queue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"printq/internal/queue"
	"printq/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job, err := store.Create(ctx, queue.TypeShippingDocs, queue.StatusPending, queue.Payload{
		What: "guides",
		Date: "2024-03-01",
	}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != queue.StatusPending || job.Type != queue.TypeShippingDocs {
		t.Fatalf("unexpected job: %#v", job)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Payload.What != "guides" || fetched.Payload.Date != "2024-03-01" {
		t.Fatalf("unexpected payload: %#v", fetched.Payload)
	}
	if fetched.CreatedAt.IsZero() || fetched.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.GetByID(context.Background(), 9999); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePersistsPayloadAndClearsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")

	job.Status = queue.StatusError
	job.ErrorMsg = "generator exploded"
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	failed, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if failed.ErrorMsg != "generator exploded" {
		t.Fatalf("expected error_msg persisted, got %q", failed.ErrorMsg)
	}

	failed.Status = queue.StatusReady
	failed.ErrorMsg = ""
	failed.Payload.SetOrdersCount(3)
	failed.Payload.Files = []string{"guides_20240301.pdf"}
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	ready, err := store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if ready.ErrorMsg != "" {
		t.Fatalf("expected error_msg cleared, got %q", ready.ErrorMsg)
	}
	if ready.Payload.OrdersCount == nil || *ready.Payload.OrdersCount != 3 {
		t.Fatalf("unexpected orders_count: %#v", ready.Payload.OrdersCount)
	}
	if len(ready.Payload.Files) != 1 || ready.Payload.Files[0] != "guides_20240301.pdf" {
		t.Fatalf("unexpected files: %#v", ready.Payload.Files)
	}
	if !ready.UpdatedAt.After(ready.CreatedAt) {
		t.Fatal("expected updated_at to move forward")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		testsupport.NewGenerationJob(t, store, "guides", fmt.Sprintf("2024-03-0%d", i+1))
	}
	upload := testsupport.NewUploadJob(t, store, "/tmp/upload.pdf")

	pending, err := store.List(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending jobs, got %d", len(pending))
	}
	for i := 1; i < len(pending); i++ {
		if pending[i].ID < pending[i-1].ID {
			t.Fatal("expected jobs ordered oldest first")
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(all))
	}

	ready, err := store.List(ctx, queue.StatusReady)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != upload.ID {
		t.Fatalf("unexpected ready set: %#v", ready)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")
	testsupport.NewGenerationJob(t, store, "both", "2024-03-02")
	upload := testsupport.NewUploadJob(t, store, "/tmp/upload.pdf")

	upload.Status = queue.StatusPrinting
	if err := store.Update(ctx, upload); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[queue.StatusPending] != 2 || stats[queue.StatusPrinting] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Pending != 2 || health.Processing != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name          string
		initialStatus queue.Status
		expected      queue.Status
	}{
		{"generating", queue.StatusGenerating, queue.StatusPending},
		{"printing", queue.StatusPrinting, queue.StatusReady},
	}
	var ids []int64
	for i, tc := range cases {
		job := testsupport.NewGenerationJob(t, store, "guides", fmt.Sprintf("2024-03-0%d", i+1))
		job.Status = tc.initialStatus
		if err := store.Update(ctx, job); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, job.ID)
	}
	done := testsupport.NewGenerationJob(t, store, "guides", "2024-03-09")
	done.Status = queue.StatusDone
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if int(count) != len(cases) {
		t.Fatalf("expected %d jobs reset, got %d", len(cases), count)
	}

	for idx, tc := range cases {
		updated, err := store.GetByID(ctx, ids[idx])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if updated.Status != tc.expected {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.expected, updated.Status)
		}
	}

	untouched, err := store.GetByID(ctx, done.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusDone {
		t.Fatalf("expected done job untouched, got %s", untouched.Status)
	}
}

func TestResetStuckRecordsOperatorEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	generation := testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")
	claimed, err := store.ClaimNext(ctx, queue.GenerationFilter())
	if err != nil || claimed == nil {
		t.Fatalf("ClaimNext failed: %v (%#v)", err, claimed)
	}
	from := queue.StatusPending
	if err := store.RecordStatusEvent(ctx, generation.ID, &from, queue.StatusGenerating, "generate_worker"); err != nil {
		t.Fatalf("RecordStatusEvent failed: %v", err)
	}

	upload := testsupport.NewUploadJob(t, store, "/tmp/upload.pdf")
	if stuck, err := store.ClaimNext(ctx, queue.PrintFilter()); err != nil || stuck == nil {
		t.Fatalf("ClaimNext failed: %v (%#v)", err, stuck)
	}

	count, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 jobs reset, got %d", count)
	}

	events, err := store.EventsForJob(ctx, generation.ID)
	if err != nil {
		t.Fatalf("EventsForJob failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected claim and reset events, got %d", len(events))
	}
	reset := events[len(events)-1]
	if reset.FromStatus == nil || *reset.FromStatus != queue.StatusGenerating {
		t.Fatalf("unexpected reset from_status: %#v", reset.FromStatus)
	}
	if reset.ToStatus != queue.StatusPending || reset.Source != "operator" {
		t.Fatalf("unexpected reset event: %#v", reset)
	}

	uploadEvents, err := store.EventsForJob(ctx, upload.ID)
	if err != nil {
		t.Fatalf("EventsForJob failed: %v", err)
	}
	if len(uploadEvents) != 1 {
		t.Fatalf("expected reset event for upload, got %d events", len(uploadEvents))
	}
	uploadReset := uploadEvents[0]
	if uploadReset.FromStatus == nil || *uploadReset.FromStatus != queue.StatusPrinting {
		t.Fatalf("unexpected reset from_status: %#v", uploadReset.FromStatus)
	}
	if uploadReset.ToStatus != queue.StatusReady || uploadReset.Source != "operator" {
		t.Fatalf("unexpected reset event: %#v", uploadReset)
	}
}

func TestClearDoneAndRemove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	finished := testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")
	finished.Status = queue.StatusDone
	now := time.Now().UTC()
	finished.PrintedAt = &now
	if err := store.Update(ctx, finished); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	keeper := testsupport.NewGenerationJob(t, store, "guides", "2024-03-02")

	cleared, err := store.ClearDone(ctx)
	if err != nil {
		t.Fatalf("ClearDone failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 job cleared, got %d", cleared)
	}

	removed, err := store.Remove(ctx, keeper.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected job removed")
	}

	if _, err := store.GetByID(ctx, keeper.ID); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
