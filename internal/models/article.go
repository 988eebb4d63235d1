package models

// SourceExcerpt is a caller-supplied reference passage for the article.
type SourceExcerpt struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// GenerationRequest is the JSON body for POST /generate.
type GenerationRequest struct {
	Topic       string          `json:"topic"`
	TargetWords int             `json:"target_words"`
	Sources     []SourceExcerpt `json:"sources"`
	Style       string          `json:"style"`
	RenderHTML  bool            `json:"render_html"`
}

// GenerationResult is the 200 response for POST /generate.
type GenerationResult struct {
	Content   string `json:"content"`
	WordCount int    `json:"word_count"`
	Note      string `json:"note"`
	HTML      string `json:"html,omitempty"`
}
