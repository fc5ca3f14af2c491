package queue_test

import (
	"context"
	"testing"

	"printq/internal/queue"
	"printq/internal/testsupport"
)

func TestRecordStatusEventHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")

	if err := store.RecordStatusEvent(ctx, job.ID, nil, queue.StatusPending, "api"); err != nil {
		t.Fatalf("RecordStatusEvent failed: %v", err)
	}
	pending := queue.StatusPending
	if err := store.RecordStatusEvent(ctx, job.ID, &pending, queue.StatusGenerating, "generate_worker"); err != nil {
		t.Fatalf("RecordStatusEvent failed: %v", err)
	}
	generating := queue.StatusGenerating
	if err := store.RecordStatusEvent(ctx, job.ID, &generating, queue.StatusReady, "generate_worker"); err != nil {
		t.Fatalf("RecordStatusEvent failed: %v", err)
	}

	events, err := store.EventsForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("EventsForJob failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	creation := events[0]
	if creation.FromStatus != nil {
		t.Fatalf("creation event should have nil from_status, got %v", *creation.FromStatus)
	}
	if creation.ToStatus != queue.StatusPending || creation.Source != "api" {
		t.Fatalf("unexpected creation event: %#v", creation)
	}

	last := events[2]
	if last.FromStatus == nil || *last.FromStatus != queue.StatusGenerating {
		t.Fatalf("unexpected from_status on final event: %#v", last.FromStatus)
	}
	if last.ToStatus != queue.StatusReady {
		t.Fatalf("expected final event to ready, got %s", last.ToStatus)
	}
	if last.OccurredAt.Before(creation.OccurredAt) {
		t.Fatal("expected events in occurrence order")
	}
}

func TestEventsForJobEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	events, err := store.EventsForJob(context.Background(), 42)
	if err != nil {
		t.Fatalf("EventsForJob failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestEventsRemovedWithJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	job := testsupport.NewGenerationJob(t, store, "guides", "2024-03-01")
	if err := store.RecordStatusEvent(ctx, job.ID, nil, queue.StatusPending, "api"); err != nil {
		t.Fatalf("RecordStatusEvent failed: %v", err)
	}

	removed, err := store.Remove(ctx, job.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected job removed")
	}

	events, err := store.EventsForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("EventsForJob failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected events removed with job, got %d", len(events))
	}
}
