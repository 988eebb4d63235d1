package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayush/article-writer/internal/article"
	"github.com/ayush/article-writer/internal/config"
	"github.com/ayush/article-writer/internal/hf"
	"github.com/ayush/article-writer/internal/middleware"
)

func testRouter(t *testing.T, upstream string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		HFToken:        "secret",
		HFModel:        "org/test-model",
		HFBaseURL:      upstream,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 10,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := hf.NewClient(cfg, log)
	orch := article.NewOrchestrator(client, client.Model(), log)
	return newRouter(cfg, log, article.NewHandler(cfg, orch, log))
}

func TestRouterGenerateEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text":"` + strings.Repeat("word ", 40) + `"}]`))
	}))
	defer upstream.Close()

	srv := httptest.NewServer(testRouter(t, upstream.URL))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/generate", "application/json",
		strings.NewReader(`{"topic":"Ocean currents","target_words":10}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(testRouter(t, "http://127.0.0.1:1"))
	defer srv.Close()

	body := `{"topic":"` + strings.Repeat("x", 4<<10) + `"}`
	resp, err := http.Post(srv.URL+"/generate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
}

func TestRouterLiveness(t *testing.T) {
	srv := httptest.NewServer(testRouter(t, "http://127.0.0.1:1"))
	defer srv.Close()

	for _, path := range []string{"/", "/health"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
	}
}

func TestNewServerWriteTimeoutCoversAllCalls(t *testing.T) {
	cfg := &config.Config{Port: "9000", InferenceTimeout: 2 * time.Minute}
	srv := newServer(cfg, http.NotFoundHandler())

	if srv.Addr != ":9000" {
		t.Fatalf("addr = %q", srv.Addr)
	}
	worstCase := article.MaxCallsPerRequest * cfg.InferenceTimeout
	if srv.WriteTimeout <= worstCase {
		t.Fatalf("write timeout %s does not exceed %d calls of %s", srv.WriteTimeout, article.MaxCallsPerRequest, cfg.InferenceTimeout)
	}
	if srv.WriteTimeout != 17*time.Minute {
		t.Fatalf("write timeout = %s, want 17m", srv.WriteTimeout)
	}
}

func TestNewServerWithoutInferenceTimeoutHasNoWriteDeadline(t *testing.T) {
	srv := newServer(&config.Config{Port: "9000"}, http.NotFoundHandler())
	if srv.WriteTimeout != 0 {
		t.Fatalf("write timeout = %s, want 0", srv.WriteTimeout)
	}
}
