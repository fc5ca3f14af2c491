package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"printq/internal/logging"
	"printq/internal/queue"
)

const maxUploadBytes = 50 << 20

// handleUpload accepts a PDF and enqueues it directly as ready: uploads
// skip generation entirely. The file is stored under the upload directory
// with a random name so concurrent uploads of the same filename never
// collide.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	originalName := header.Filename
	contentType := header.Header.Get("Content-Type")
	if !strings.HasSuffix(strings.ToLower(originalName), ".pdf") && contentType != "application/pdf" {
		s.writeError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	target := filepath.Join(s.cfg.UploadDir, uuid.NewString()+".pdf")
	if err := saveUpload(file, target); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := validatePDF(target); err != nil {
		_ = os.Remove(target)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload := queue.Payload{
		OriginalName: originalName,
		ContentType:  contentType,
		Files:        []string{target},
	}
	job, err := s.store.Create(r.Context(), queue.TypeUpload, queue.StatusReady, payload, target)
	if err != nil {
		_ = os.Remove(target)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.recordCreation(r.Context(), job)

	if err := s.notifier.NotifyUploadReceived(r.Context(), originalName); err != nil {
		s.logger.Warn("upload notification not delivered", logging.Error(err))
	}
	s.logger.Info("upload job enqueued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String("original_name", originalName),
		logging.String("file", target),
		logging.String(logging.FieldRequestID, requestID),
	)
	s.writeJSON(w, http.StatusCreated, EnqueueResponse{
		ID:      job.ID,
		Status:  string(job.Status),
		JobType: string(job.Type),
	})
}

func saveUpload(src io.Reader, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("store upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return nil
}

// validatePDF rejects files that only pretend to be PDFs before they reach
// the printer.
func validatePDF(path string) error {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("file is not a readable PDF: %v", err)
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}
