package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ayush/article-writer/internal/article"
	"github.com/ayush/article-writer/internal/config"
	"github.com/ayush/article-writer/internal/hf"
	"github.com/ayush/article-writer/internal/models"
)

type cli struct {
	Topic       string   `required:"" help:"Article topic (at least 3 characters)."`
	TargetWords int      `name:"target-words" default:"2200" help:"Approximate article length in words."`
	Style       string   `default:"neutral" help:"Writing style."`
	Source      []string `short:"s" placeholder:"TITLE=PATH" help:"Source excerpt read from a file; repeatable."`
	HTML        bool     `help:"Print the article rendered as HTML."`
	Verbose     bool     `short:"v" help:"Log progress on stderr."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var c cli
	exitCode := -1
	parser, err := kong.New(&c,
		kong.Name("articlegen"),
		kong.Description("Generate a long-form article with a hosted text-generation model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	_, err = parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !cfg.HasCredential() {
		fmt.Fprintln(stderr, "HF_API_KEY is not configured")
		return 1
	}

	sources, err := readSources(c.Source)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	client := hf.NewClient(cfg, log)
	orch := article.NewOrchestrator(client, client.Model(), log)
	res, err := orch.Generate(context.Background(), models.GenerationRequest{
		Topic:       c.Topic,
		TargetWords: c.TargetWords,
		Style:       c.Style,
		Sources:     sources,
	})
	if err != nil {
		fmt.Fprintf(stderr, "generation failed: %v\n", err)
		return 1
	}

	out := res.Content
	if c.HTML {
		if out, err = article.RenderHTML(res.Content); err != nil {
			fmt.Fprintf(stderr, "render html: %v\n", err)
			return 1
		}
	}
	fmt.Fprintln(stdout, out)
	fmt.Fprintf(stderr, "%d words. %s\n", res.WordCount, res.Note)
	return 0
}

// readSources loads TITLE=PATH pairs in order.
func readSources(pairs []string) ([]models.SourceExcerpt, error) {
	var sources []models.SourceExcerpt
	for _, pair := range pairs {
		title, path, ok := strings.Cut(pair, "=")
		if !ok || title == "" || path == "" {
			return nil, fmt.Errorf("source %q: want TITLE=PATH", pair)
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", title, err)
		}
		sources = append(sources, models.SourceExcerpt{Title: title, Text: string(text)})
	}
	return sources, nil
}
