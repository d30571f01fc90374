package reply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"ytreply/llm"

	"github.com/kaptinlin/jsonrepair"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ErrNoProvider indicates sentiment analysis was requested without a
// configured text generation provider.
var ErrNoProvider = errors.New("reply: no text generation provider configured")

// Sentiment is the structured result of analyzing one comment.
type Sentiment struct {
	// Label is one of "positive", "neutral", "negative".
	Label string `json:"sentiment"`

	// Confidence is the model's self-reported confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// Summary is a one-sentence explanation of the classification.
	Summary string `json:"summary,omitempty"`
}

// Analyzer classifies the sentiment of comment text. Unlike Compose, Analyze
// serves an interactive request and therefore propagates failures.
type Analyzer struct {
	provider llm.Provider
}

// NewAnalyzer creates a sentiment analyzer backed by the given provider.
func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze classifies the sentiment of the given comment text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Sentiment, error) {
	if a.provider == nil {
		return nil, ErrNoProvider
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("reply: empty comment text")
	}

	raw, err := a.provider.Generate(ctx, buildSentimentPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}

	sentiment, err := parseSentiment(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}
	return sentiment, nil
}

// buildSentimentPrompt asks the model for strict JSON.
func buildSentimentPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Classify the sentiment of the following YouTube comment. ")
	b.WriteString(`Respond with JSON only, exactly this shape: `)
	b.WriteString(`{"sentiment":"positive|neutral|negative","confidence":0.0,"summary":"one sentence"}`)
	b.WriteString("\n\nComment: ")
	b.WriteString(text)
	return b.String()
}

// parseSentiment decodes model output, tolerating markdown fences and the
// malformed JSON LLMs commonly emit.
func parseSentiment(raw string) (*Sentiment, error) {
	cleaned := stripCodeFences(raw)

	var s Sentiment
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil, fmt.Errorf("decode model output: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &s); err != nil {
			return nil, fmt.Errorf("decode repaired model output: %w", err)
		}
	}

	s.Label = strings.ToLower(strings.TrimSpace(s.Label))
	switch s.Label {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return nil, fmt.Errorf("unexpected sentiment label %q", s.Label)
	}

	if s.Confidence < 0 {
		s.Confidence = 0
	}
	if s.Confidence > 1 {
		s.Confidence = 1
	}

	return &s, nil
}

// stripCodeFences removes a surrounding markdown code fence, if present.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence
	if idx := strings.Index(s, "\n"); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
