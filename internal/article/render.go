package article

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderHTML converts markdown article text to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
