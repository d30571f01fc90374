// Package reply decides the text of replies to viewer comments and provides
// AI sentiment analysis of comment text.
package reply

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"ytreply/llm"
	"ytreply/youtube"
)

// DefaultGenerateTimeout bounds a single text generation call.
const DefaultGenerateTimeout = 30 * time.Second

// Composer produces reply text for a comment. It prefers AI-generated text
// and falls back to a deterministic template, so Compose always returns
// usable text and never fails.
type Composer struct {
	provider llm.Provider // nil means template-only
	timeout  time.Duration
}

// NewComposer creates a composer backed by the given provider. A nil
// provider yields a template-only composer.
func NewComposer(provider llm.Provider) *Composer {
	return &Composer{
		provider: provider,
		timeout:  DefaultGenerateTimeout,
	}
}

// SetTimeout overrides the per-generation timeout.
func (c *Composer) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// Compose returns the reply text for a comment. Generation failures are
// absorbed here: the deterministic fallback is used instead, so processing
// of a comment is never aborted by the text generator.
func (c *Composer) Compose(ctx context.Context, comment youtube.CommentThread) string {
	if c.provider != nil {
		genCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		text, err := c.provider.Generate(genCtx, buildReplyPrompt(comment))
		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed
			}
			err = llm.ErrNoResponse
		}
		log.Printf("reply: generate for comment %s failed, using fallback: %v", comment.ID, err)
	}

	return FallbackReply(comment.Author)
}

// FallbackReply is the deterministic templated reply used when no generated
// text is available.
func FallbackReply(author string) string {
	return fmt.Sprintf("Thanks for your comment, %s!", author)
}

// buildReplyPrompt embeds the comment into a fixed instruction prompt.
func buildReplyPrompt(comment youtube.CommentThread) string {
	var b strings.Builder
	b.WriteString("You are replying to a comment on your own YouTube video as the channel owner. ")
	b.WriteString("Write a short, friendly reply (one or two sentences). ")
	b.WriteString("Reply with the text only, no quotes and no preamble.\n\n")
	fmt.Fprintf(&b, "Commenter: %s\n", comment.Author)
	fmt.Fprintf(&b, "Comment: %s\n", comment.Text)
	return b.String()
}
