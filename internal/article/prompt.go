package article

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/ayush/article-writer/internal/models"
)

// maxSourceChars caps each source excerpt, counted in UTF-16 code units.
const maxSourceChars = 1800

const initialTemplate = `You are an experienced long-form writer. Write an original article on the topic: "%s".

Style: %s
Target length: about %d words.

Use the source excerpts below as background. Synthesize and paraphrase them in your own words; do not copy sentences from them.

SOURCES:
%s
Structure the article with a title, headings and subheadings, well-developed paragraphs, and a conclusion.
If you cannot reach the target length in this pass, stop at a natural break. You will be asked to continue.

ARTICLE:
`

const continuationTemplate = `Below is an article in progress.

%s

Continue the article from where it stops, in the same tone and style. Do not repeat anything already written and do not introduce unrelated topics. Add new sections or paragraphs that deepen the subject.

CONTINUATION:
`

const polishTemplate = `Below is a draft article.

%s

Polish this draft. Add headings where they are missing, reorganize the text into clear sections, and append a short concluding summary. Keep the meaning and facts of the draft unchanged.

POLISHED ARTICLE:
`

// formatSources renders usable excerpts in input order. Entries missing a
// title or text are skipped.
func formatSources(sources []models.SourceExcerpt) string {
	var sb strings.Builder
	for _, s := range sources {
		if s.Title == "" || s.Text == "" {
			continue
		}
		sb.WriteString("SOURCE: ")
		sb.WriteString(s.Title)
		sb.WriteString("\n")
		sb.WriteString(truncateUTF16(s.Text, maxSourceChars))
		sb.WriteString("\n---\n")
	}
	return sb.String()
}

// truncateUTF16 keeps at most n UTF-16 code units of s. A character that
// would straddle the limit is dropped whole.
func truncateUTF16(s string, n int) string {
	units := 0
	for pos, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:pos]
		}
	}
	return s
}

// utf16Len is the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// BuildInitialPrompt asks for the first draft.
func BuildInitialPrompt(topic, style string, targetWords int, sources []models.SourceExcerpt) string {
	return fmt.Sprintf(initialTemplate, topic, style, targetWords, formatSources(sources))
}

// BuildContinuationPrompt asks the model to extend article.
func BuildContinuationPrompt(article string) string {
	return fmt.Sprintf(continuationTemplate, article)
}

// BuildPolishPrompt asks the model to restructure article without changing its meaning.
func BuildPolishPrompt(article string) string {
	return fmt.Sprintf(polishTemplate, article)
}
