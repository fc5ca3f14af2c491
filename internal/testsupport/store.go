package testsupport

import (
	"context"
	"testing"

	"printq/internal/config"
	"printq/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewGenerationJob creates a pending shipping-document job for tests.
func NewGenerationJob(t testing.TB, store *queue.Store, what, date string) *queue.Job {
	t.Helper()

	job, err := store.Create(context.Background(), queue.TypeShippingDocs, queue.StatusPending, queue.Payload{
		What: what,
		Date: date,
	}, "")
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return job
}

// NewUploadJob creates a ready upload job pointing at the given file.
func NewUploadJob(t testing.TB, store *queue.Store, path string) *queue.Job {
	t.Helper()

	job, err := store.Create(context.Background(), queue.TypeUpload, queue.StatusReady, queue.Payload{
		OriginalName: "upload.pdf",
		ContentType:  "application/pdf",
		Files:        []string{path},
	}, path)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return job
}
