package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/article-writer/internal/article"
	"github.com/ayush/article-writer/internal/config"
	"github.com/ayush/article-writer/internal/hf"
	"github.com/ayush/article-writer/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)
	ctx := context.Background()

	if !cfg.HasCredential() {
		log.WarnContext(ctx, "HF_API_KEY is missing so /generate will answer 500",
			"envVar", "HF_API_KEY")
	}

	// ── Inference client + orchestrator ─────────────────────
	client := hf.NewClient(cfg, log)
	orch := article.NewOrchestrator(client, client.Model(), log)
	articleHandler := article.NewHandler(cfg, orch, log)

	// ── Server ───────────────────────────────────────────────
	srv := newServer(cfg, newRouter(cfg, log, articleHandler))

	go func() {
		log.InfoContext(ctx, "Server is listening",
			"port", cfg.Port,
			"model", cfg.HFModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "Server failed",
				"error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.ErrorContext(ctx, "Failed to shut down cleanly",
			"error", err)
	}
}

// writeSlack covers request decoding, rendering and the response write on
// top of the inference calls themselves.
const writeSlack = time.Minute

// newServer sizes WriteTimeout so a generation that makes every allowed
// inference call, each up to InferenceTimeout, can still write its response.
// Without a per-call timeout there is no write deadline either.
func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	var writeTimeout time.Duration
	if cfg.InferenceTimeout > 0 {
		writeTimeout = article.MaxCallsPerRequest*cfg.InferenceTimeout + writeSlack
	}

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  time.Minute,
		WriteTimeout: writeTimeout,
	}
}

func newRouter(cfg *config.Config, log *slog.Logger, h *article.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", h.Liveness)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.With(chimw.RequestSize(cfg.MaxBodyBytes)).Post("/generate", h.Generate)

	return r
}
