package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"printq/internal/generation"
	"printq/internal/logging"
	"printq/internal/queue"
)

// handleGenerate enqueues a pending shipping-document job. Generation can
// take a while, so it never runs in the request; a worker claims the job
// and leaves it ready for the print worker.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	var req EnqueueGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, err := generation.ParseKind(req.What)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ventaID := strings.TrimSpace(req.VentaID)
	if kind == generation.KindEgreso && ventaID == "" {
		s.writeError(w, http.StatusBadRequest, "venta_id is required when what is egreso")
		return
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().In(s.cfg.Location()).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	payload := queue.Payload{What: string(kind), Date: date, VentaID: ventaID}
	job, err := s.store.Create(r.Context(), queue.TypeShippingDocs, queue.StatusPending, payload, "")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.recordCreation(r.Context(), job)

	s.logger.Info("generation job enqueued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String("kind", string(kind)),
		logging.String("date", date),
		logging.String(logging.FieldRequestID, requestID),
	)
	s.writeJSON(w, http.StatusCreated, EnqueueResponse{
		ID:      job.ID,
		Status:  string(job.Status),
		JobType: string(job.Type),
	})
}
