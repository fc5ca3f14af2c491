package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"printq/internal/api"
)

// daemonClient talks to the daemon HTTP API.
type daemonClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newDaemonClient(baseURL, token string) *daemonClient {
	return &daemonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *daemonClient) EnqueueGenerate(ctx context.Context, req api.EnqueueGenerateRequest) (api.EnqueueResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return api.EnqueueResponse{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs/generate", bytes.NewReader(body))
	if err != nil {
		return api.EnqueueResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp api.EnqueueResponse
	if err := c.do(httpReq, &resp); err != nil {
		return api.EnqueueResponse{}, err
	}
	return resp, nil
}

func (c *daemonClient) Upload(ctx context.Context, path string) (api.EnqueueResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return api.EnqueueResponse{}, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return api.EnqueueResponse{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return api.EnqueueResponse{}, fmt.Errorf("read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return api.EnqueueResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs/upload", &body)
	if err != nil {
		return api.EnqueueResponse{}, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var resp api.EnqueueResponse
	if err := c.do(httpReq, &resp); err != nil {
		return api.EnqueueResponse{}, err
	}
	return resp, nil
}

func (c *daemonClient) Health(ctx context.Context) (api.HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return api.HealthResponse{}, err
	}
	var resp api.HealthResponse
	if err := c.do(httpReq, &resp); err != nil {
		return api.HealthResponse{}, err
	}
	return resp, nil
}

func (c *daemonClient) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return wrapConnectError(err, c.baseURL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, apiErrorMessage(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiErrorMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "no error detail"
	}
	return trimmed
}

func wrapConnectError(err error, baseURL string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start the daemon with `printqd`", baseURL)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}
