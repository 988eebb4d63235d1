package article

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ayush/article-writer/internal/config"
	"github.com/ayush/article-writer/internal/middleware"
	"github.com/ayush/article-writer/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Handler holds article HTTP handlers.
type Handler struct {
	cfg  *config.Config
	orch *Orchestrator
	log  *slog.Logger
}

func NewHandler(cfg *config.Config, orch *Orchestrator, log *slog.Logger) *Handler {
	return &Handler{cfg: cfg, orch: orch, log: log}
}

// Liveness answers GET /.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Article generator is running"))
}

// Generate handles POST /generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFrom(r.Context(), h.log)

	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := Normalize(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.cfg.HasCredential() {
		log.ErrorContext(r.Context(), "HF_API_KEY is missing",
			"envVar", "HF_API_KEY")
		writeError(w, http.StatusInternalServerError, "HF_API_KEY is not configured on the server")
		return
	}

	// A started generation runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.orch.Generate(ctx, req)
	if err != nil {
		var firstErr *FirstCallError
		switch {
		case errors.Is(err, ErrInvalidTopic):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &firstErr):
			writeError(w, http.StatusInternalServerError, "Hugging Face first call failed: "+firstErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if req.RenderHTML {
		html, err := RenderHTML(result.Content)
		if err != nil {
			log.WarnContext(ctx, "Failed to render article HTML",
				"error", err)
		} else {
			result.HTML = html
		}
	}

	writeJSON(w, http.StatusOK, result)
}
