package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"printq/internal/config"
)

const userAgent = "printq/0.1.0"

// Service defines the notification surface exposed to workers and the API.
type Service interface {
	NotifyJobFailed(ctx context.Context, jobID int64, jobType, message string) error
	NotifyJobPrinted(ctx context.Context, jobID int64, jobType string, files int) error
	NotifyUploadReceived(ctx context.Context, originalName string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		errorsOnly: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	errorsOnly bool
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, jobID int64, jobType, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "no error detail"
	}
	data := payload{
		title:    "Printq - Job Failed",
		message:  fmt.Sprintf("Job %d (%s) failed: %s", jobID, jobType, message),
		tags:     []string{"printq", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobPrinted(ctx context.Context, jobID int64, jobType string, files int) error {
	if n.errorsOnly {
		return nil
	}
	noun := "file"
	if files != 1 {
		noun = "files"
	}
	data := payload{
		title:   "Printq - Printed",
		message: fmt.Sprintf("Job %d (%s) printed %d %s", jobID, jobType, files, noun),
		tags:    []string{"printq", "print", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadReceived(ctx context.Context, originalName string) error {
	if n.errorsOnly {
		return nil
	}
	originalName = strings.TrimSpace(originalName)
	data := payload{
		title:   "Printq - Upload Queued",
		message: fmt.Sprintf("Upload queued for printing: %s", originalName),
		tags:    []string{"printq", "upload", "queued"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Printq - Test",
		message:  "Notification system test",
		tags:     []string{"printq", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobFailed(context.Context, int64, string, string) error { return nil }
func (noopService) NotifyJobPrinted(context.Context, int64, string, int) error   { return nil }
func (noopService) NotifyUploadReceived(context.Context, string) error           { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
