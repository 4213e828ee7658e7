// Package extract recovers structured posts from free-form model output.
//
// Completions are expected, but not guaranteed, to embed a JSON array of
// {"post": string} objects. Extraction is best effort: a completion that
// cannot be parsed contributes nothing and never produces an error.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Post is a single extracted post.
type Post struct {
	// Text is the element's "post" field when it is a string
	Text string `json:"post"`

	// Raw is the element exactly as the model produced it
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts any structurally valid JSON element. Objects populate
// Text from their "post" field; every other element is kept only in Raw.
func (p *Post) UnmarshalJSON(data []byte) error {
	p.Raw = append(json.RawMessage(nil), data...)
	p.Text = ""

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	if v, ok := fields["post"]; ok {
		var text string
		if json.Unmarshal(v, &text) == nil {
			p.Text = text
		}
	}
	return nil
}

// MarshalJSON writes the element back in its original form when known.
func (p Post) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		Text string `json:"post"`
	}{p.Text})
}

// Extractor turns one raw completion into posts. Implementations never fail:
// unusable input yields an empty slice.
type Extractor interface {
	Extract(raw string) []Post
}

var (
	lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")
	spaceRuns  = regexp.MustCompile(` {2,}`)
)

// BracketExtractor parses the text between the first '[' and the last ']'.
// Brackets inside string values can mislead it; callers that can constrain
// the model's output to a schema should prefer that instead.
type BracketExtractor struct {
	logger   *zap.Logger
	failures atomic.Int64
}

// NewBracketExtractor creates an extractor that reports parse failures to logger.
func NewBracketExtractor(logger *zap.Logger) *BracketExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BracketExtractor{logger: logger}
}

// Extract returns the posts embedded in raw, or an empty slice.
func (e *BracketExtractor) Extract(raw string) []Post {
	body := "[" + normalize(arraySpan(raw)) + "]"

	var posts []Post
	if err := json.Unmarshal([]byte(body), &posts); err != nil {
		e.failures.Add(1)
		e.logger.Debug("extraction failed",
			zap.Error(err),
			zap.Int("length", len(raw)),
			zap.String("preview", preview(raw, 120)))
		return []Post{}
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts
}

// Failures reports how many completions could not be parsed.
func (e *BracketExtractor) Failures() int64 {
	return e.failures.Load()
}

var defaultExtractor = NewBracketExtractor(nil)

// Extract parses raw with a shared BracketExtractor.
func Extract(raw string) []Post {
	return defaultExtractor.Extract(raw)
}

// arraySpan returns the text strictly between the first '[' and the last ']'.
// A missing '[' starts the span at the beginning of raw; a missing ']' ends it
// one byte before the end.
func arraySpan(raw string) string {
	lo := strings.Index(raw, "[") + 1
	hi := strings.LastIndex(raw, "]")
	if hi < 0 {
		hi = len(raw) - 1
	}
	if hi < lo {
		return ""
	}
	return raw[lo:hi]
}

func normalize(s string) string {
	s = lineBreaks.Replace(s)
	return spaceRuns.ReplaceAllString(s, " ")
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
