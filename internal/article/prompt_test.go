package article

import (
	"strings"
	"testing"

	"github.com/ayush/article-writer/internal/models"
)

func TestBuildInitialPromptSkipsIncompleteSources(t *testing.T) {
	sources := []models.SourceExcerpt{
		{Title: "First", Text: "alpha"},
		{Title: "Second"},
		{Title: "Third", Text: "gamma"},
	}

	prompt := BuildInitialPrompt("Solar power", "neutral", 2200, sources)

	if n := strings.Count(prompt, "SOURCE:"); n != 2 {
		t.Fatalf("expected 2 SOURCE blocks, got %d", n)
	}
	first := strings.Index(prompt, "SOURCE: First\nalpha\n---\n")
	third := strings.Index(prompt, "SOURCE: Third\ngamma\n---\n")
	if first < 0 || third < 0 || first > third {
		t.Fatalf("sources missing or out of order:\n%s", prompt)
	}
	for _, want := range []string{"Solar power", "neutral", "2200"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt does not contain %q", want)
		}
	}
}

func TestBuildInitialPromptTruncatesSourceText(t *testing.T) {
	text := strings.Repeat("a", 1800) + strings.Repeat("Z", 3200)
	prompt := BuildInitialPrompt("Topic", "neutral", 100, []models.SourceExcerpt{{Title: "Long", Text: text}})

	if !strings.Contains(prompt, "SOURCE: Long\n"+strings.Repeat("a", 1800)+"\n---\n") {
		t.Fatalf("expected first 1800 characters followed by separator")
	}
	if strings.Contains(prompt, "Z") {
		t.Fatalf("text beyond 1800 characters leaked into prompt")
	}
}

func TestTruncateUTF16(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"héllo", 2, "hé"},
		{"abc", 10, "abc"},
		{"😀😀x", 4, "😀😀"},
		{"a😀b", 2, "a"},
	}

	for _, tt := range tests {
		if got := truncateUTF16(tt.in, tt.n); got != tt.want {
			t.Fatalf("truncateUTF16(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestBuildInitialPromptCountsAstralCharsAsTwoUnits(t *testing.T) {
	text := strings.Repeat("😀", 1000)
	prompt := BuildInitialPrompt("Topic", "neutral", 100, []models.SourceExcerpt{{Title: "Emoji", Text: text}})

	if !strings.Contains(prompt, "SOURCE: Emoji\n"+strings.Repeat("😀", 900)+"\n---\n") {
		t.Fatalf("expected 900 emoji (1800 UTF-16 units) in source block")
	}
}

func TestContinuationAndPolishEmbedArticle(t *testing.T) {
	article := "# Title\n\nSome 100% original text."

	if p := BuildContinuationPrompt(article); !strings.Contains(p, article) {
		t.Fatalf("continuation prompt does not embed article")
	}
	if p := BuildPolishPrompt(article); !strings.Contains(p, article) {
		t.Fatalf("polish prompt does not embed article")
	}
}
