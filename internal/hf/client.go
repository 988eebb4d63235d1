package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayush/article-writer/internal/config"
)

// ErrMissingCredential is returned before any network call when no bearer
// token is configured.
var ErrMissingCredential = errors.New("hugging face api key is not configured")

// Sampling parameters sent with every generation call.
const (
	topP        = 0.92
	temperature = 0.85
)

// InferenceError is a failed call to the inference endpoint. StatusCode is 0
// when the request never produced a usable HTTP response.
type InferenceError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *InferenceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("inference request: %v", e.Err)
	}
	return fmt.Sprintf("inference returned %d: %s", e.StatusCode, e.Detail)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// checkResp reads the response body and returns an error if the status is not 2xx.
// On error it includes the upstream body for debugging.
func checkResp(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return &InferenceError{
		StatusCode: resp.StatusCode,
		Detail:     strings.TrimSpace(string(body)),
	}
}

type generateParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	DoSample     bool    `json:"do_sample"`
	TopP         float64 `json:"top_p"`
	Temperature  float64 `json:"temperature"`
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

// Client calls the Hugging Face text-generation inference API over HTTP.
type Client struct {
	endpoint   string
	model      string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a client for cfg.HFModel. A zero InferenceTimeout leaves
// the transport default in place.
func NewClient(cfg *config.Config, log *slog.Logger) *Client {
	return &Client{
		endpoint:   strings.TrimRight(cfg.HFBaseURL, "/") + "/" + cfg.HFModel,
		model:      cfg.HFModel,
		token:      cfg.HFToken,
		httpClient: &http.Client{Timeout: cfg.InferenceTimeout},
		log:        log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Generate sends one prompt and returns the normalized generated text.
func (c *Client) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	if c.token == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens: maxNewTokens,
			DoSample:     true,
			TopP:         topP,
			Temperature:  temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.log.Enabled(ctx, slog.LevelDebug) {
		c.log.DebugContext(ctx, "Sending inference request",
			"model", c.model,
			"maxNewTokens", maxNewTokens,
			"promptTokens", approxTokens(prompt))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &InferenceError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkResp(resp); err != nil {
		return "", err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InferenceError{Err: fmt.Errorf("read body: %w", err)}
	}

	gen, err := DecodeGeneration(raw)
	if err != nil {
		return "", &InferenceError{Err: fmt.Errorf("decode response: %w", err)}
	}

	c.log.DebugContext(ctx, "Inference response is decoded",
		"model", c.model,
		"shape", gen.Kind.String(),
		"chars", len(gen.Text))

	return gen.Text, nil
}
