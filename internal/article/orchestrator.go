package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ayush/article-writer/internal/middleware"
	"github.com/ayush/article-writer/internal/models"
)

const (
	DefaultTargetWords = 2200
	DefaultStyle       = "neutral"
	MinTopicLength     = 3

	// MaxContinuations is a hard ceiling on continuation passes per request.
	MaxContinuations = 6

	// MaxCallsPerRequest counts the initial, continuation and polish calls.
	MaxCallsPerRequest = MaxContinuations + 2

	initialMaxTokens      = 512
	continuationMaxTokens = 512
	polishMaxTokens       = 300
)

// ErrInvalidTopic is returned when the topic is missing or too short.
var ErrInvalidTopic = fmt.Errorf("topic is required (min %d chars)", MinTopicLength)

var errEmptyGeneration = errors.New("model returned empty text")

// FirstCallError means the initial generation failed and the request cannot
// produce any article.
type FirstCallError struct {
	Err error
}

func (e *FirstCallError) Error() string { return e.Err.Error() }

func (e *FirstCallError) Unwrap() error { return e.Err }

// Generator sends one prompt to a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

// Orchestrator drives initial, continuation and polish passes for one
// article. Calls are strictly sequential because each prompt embeds the
// previous output.
type Orchestrator struct {
	gen   Generator
	model string
	log   *slog.Logger
}

func NewOrchestrator(gen Generator, model string, log *slog.Logger) *Orchestrator {
	return &Orchestrator{gen: gen, model: model, log: log}
}

// Normalize validates req and fills in defaults.
func Normalize(req models.GenerationRequest) (models.GenerationRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if utf16Len(req.Topic) < MinTopicLength {
		return req, ErrInvalidTopic
	}
	if req.TargetWords <= 0 {
		req.TargetWords = DefaultTargetWords
	}
	if req.Style == "" {
		req.Style = DefaultStyle
	}
	return req, nil
}

// Generate runs the whole pipeline. Only a failure of the initial call is
// returned as an error; continuation and polish failures are logged and the
// best content so far is kept.
func (o *Orchestrator) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	log := middleware.LoggerFrom(ctx, o.log).With("model", o.model)
	start := time.Now()

	first, err := o.gen.Generate(ctx, BuildInitialPrompt(req.Topic, req.Style, req.TargetWords, req.Sources), initialMaxTokens)
	if err != nil {
		log.ErrorContext(ctx, "Initial generation failed",
			"error", err,
			"topic", req.Topic)

		return nil, &FirstCallError{Err: err}
	}

	article := strings.TrimSpace(first)
	if article == "" {
		log.ErrorContext(ctx, "Initial generation is empty",
			"topic", req.Topic)

		return nil, &FirstCallError{Err: errEmptyGeneration}
	}

	words := CountWords(article)
	log.InfoContext(ctx, "Initial draft is generated",
		"words", words,
		"targetWords", req.TargetWords)

	iterations := 0
	for words < req.TargetWords && iterations < MaxContinuations {
		next, err := o.gen.Generate(ctx, BuildContinuationPrompt(article), continuationMaxTokens)
		if err != nil {
			log.WarnContext(ctx, "Continuation failed so generation stops early",
				"error", err,
				"iteration", iterations+1,
				"words", words)

			break
		}

		article += "\n\n" + strings.TrimSpace(next)
		words = CountWords(article)
		iterations++

		log.DebugContext(ctx, "Continuation is appended",
			"iteration", iterations,
			"words", words)
	}

	polished, err := o.gen.Generate(ctx, BuildPolishPrompt(article), polishMaxTokens)
	switch {
	case err != nil:
		log.WarnContext(ctx, "Polish failed so unpolished article is kept",
			"error", err,
			"words", words)
	case strings.TrimSpace(polished) == "":
		log.WarnContext(ctx, "Polish is empty so unpolished article is kept",
			"words", words)
	default:
		article = strings.TrimSpace(polished)
	}

	result := &models.GenerationResult{
		Content:   article,
		WordCount: CountWords(article),
		Note:      fmt.Sprintf("Generated with Hugging Face model %s", o.model),
	}

	log.InfoContext(ctx, "Article is generated",
		"continuations", iterations,
		"words", result.WordCount,
		"targetWords", req.TargetWords,
		"durationMs", time.Since(start).Milliseconds())

	return result, nil
}
