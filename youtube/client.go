package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"ytreply/internal/retry"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// Quota costs per YouTube Data API v3 documentation.
const (
	quotaCostList   = 1  // commentThreads.list
	quotaCostInsert = 50 // comments.insert / commentThreads.insert
)

// CommentClient talks to the YouTube Data API v3 on behalf of one
// authenticated user. The bearer credential is bound at construction and
// never leaves the client.
type CommentClient struct {
	service      *ytapi.Service
	breaker      *CircuitBreaker
	quotaReserve int // Minimum quota units to keep in reserve
	RetryConfig  *retry.Config

	// Quota tracking
	mu             sync.Mutex
	estimatedQuota int // Estimated remaining quota units
	lastQuotaReset time.Time
	quotaExhausted bool
}

// NewCommentClient creates a comment client authorized by the given bearer
// access token. It fails fast on an empty credential.
func NewCommentClient(ctx context.Context, accessToken string) (*CommentClient, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("%w: access token required", ErrAuthRequired)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	service, err := ytapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	cfg := retry.DefaultConfig()
	breakerCfg := DefaultCircuitBreakerConfig()
	breakerCfg.IsTransientError = classifyRetry
	return &CommentClient{
		service:        service,
		breaker:        NewCircuitBreaker(breakerCfg),
		estimatedQuota: 10000, // Default daily quota
		lastQuotaReset: time.Now(),
		RetryConfig:    &cfg,
	}, nil
}

// ListCommentThreads fetches the current top-level comment threads for a
// video, in the order returned by the API. Pagination is followed until the
// API runs out of pages or opts.MaxResults is reached.
func (c *CommentClient) ListCommentThreads(ctx context.Context, videoID string) ([]CommentThread, error) {
	return c.ListCommentThreadsWithOptions(ctx, videoID, nil)
}

// ListCommentThreadsWithOptions is ListCommentThreads with explicit options.
func (c *CommentClient) ListCommentThreadsWithOptions(ctx context.Context, videoID string, opts *ListOptions) ([]CommentThread, error) {
	if videoID == "" {
		return nil, &CommentError{Op: "list", VideoID: videoID, Err: ErrVideoNotFound}
	}

	if err := c.breaker.Allow("commentThreads.list"); err != nil {
		return nil, &CommentError{Op: "list", VideoID: videoID, Err: err}
	}

	order := "time"
	if opts != nil && opts.Order != "" {
		order = opts.Order
	}

	cfg := c.retryConfig()

	var threads []CommentThread
	pageToken := ""
	for {
		if opts != nil && opts.MaxResults > 0 && len(threads) >= opts.MaxResults {
			threads = threads[:opts.MaxResults]
			break
		}

		err := retry.Do(ctx, cfg, classifyRetry, func(ctx context.Context) error {
			call := c.service.CommentThreads.List([]string{"snippet"}).
				VideoId(videoID).
				TextFormat("plainText").
				Order(order).
				MaxResults(100).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return mapAPIError(ctx, err)
			}

			for _, item := range resp.Items {
				threads = append(threads, threadFromAPI(item, videoID))
			}

			pageToken = resp.NextPageToken
			c.trackQuotaUsage(quotaCostList)
			return nil
		})

		if err != nil {
			c.breaker.RecordFailure("commentThreads.list", err)
			return nil, &CommentError{Op: "list", VideoID: videoID, Err: err}
		}

		if pageToken == "" {
			break
		}
	}

	c.breaker.RecordSuccess("commentThreads.list")
	return threads, nil
}

// PostReply publishes replyText as a child of parentCommentID, or as a new
// top-level comment when parentCommentID is empty. Exactly one publish
// attempt is made; callers own any retry policy.
func (c *CommentClient) PostReply(ctx context.Context, videoID, parentCommentID, replyText string) (*PostedComment, error) {
	op := "reply"
	if parentCommentID == "" {
		op = "comment"
	}

	if strings.TrimSpace(replyText) == "" {
		return nil, &CommentError{Op: op, VideoID: videoID, Err: ErrEmptyReply}
	}
	if videoID == "" {
		return nil, &CommentError{Op: op, VideoID: videoID, Err: ErrVideoNotFound}
	}

	if err := c.breaker.Allow("comments.insert"); err != nil {
		return nil, &CommentError{Op: op, VideoID: videoID, Err: err}
	}

	var posted *PostedComment
	var err error
	if parentCommentID != "" {
		posted, err = c.insertReply(ctx, parentCommentID, replyText)
	} else {
		posted, err = c.insertTopLevel(ctx, videoID, replyText)
	}

	if err != nil {
		c.breaker.RecordFailure("comments.insert", err)
		return nil, &CommentError{Op: op, VideoID: videoID, Err: err}
	}

	c.breaker.RecordSuccess("comments.insert")
	c.trackQuotaUsage(quotaCostInsert)
	return posted, nil
}

// insertReply publishes a reply within an existing comment thread.
func (c *CommentClient) insertReply(ctx context.Context, parentCommentID, text string) (*PostedComment, error) {
	call := c.service.Comments.Insert([]string{"snippet"}, &ytapi.Comment{
		Snippet: &ytapi.CommentSnippet{
			ParentId:     parentCommentID,
			TextOriginal: text,
		},
	}).Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, mapAPIError(ctx, err)
	}

	posted := &PostedComment{ID: resp.Id}
	if resp.Snippet != nil {
		posted.Text = resp.Snippet.TextOriginal
		if t, err := time.Parse(time.RFC3339, resp.Snippet.PublishedAt); err == nil {
			posted.PublishedAt = t
		}
	}
	return posted, nil
}

// insertTopLevel publishes a new top-level comment on a video.
func (c *CommentClient) insertTopLevel(ctx context.Context, videoID, text string) (*PostedComment, error) {
	call := c.service.CommentThreads.Insert([]string{"snippet"}, &ytapi.CommentThread{
		Snippet: &ytapi.CommentThreadSnippet{
			VideoId: videoID,
			TopLevelComment: &ytapi.Comment{
				Snippet: &ytapi.CommentSnippet{TextOriginal: text},
			},
		},
	}).Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, mapAPIError(ctx, err)
	}

	posted := &PostedComment{ID: resp.Id}
	if resp.Snippet != nil && resp.Snippet.TopLevelComment != nil && resp.Snippet.TopLevelComment.Snippet != nil {
		sn := resp.Snippet.TopLevelComment.Snippet
		posted.Text = sn.TextOriginal
		if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			posted.PublishedAt = t
		}
	}
	return posted, nil
}

// retryConfig returns the configured retry settings or defaults.
func (c *CommentClient) retryConfig() retry.Config {
	if c.RetryConfig != nil {
		return *c.RetryConfig
	}
	return retry.DefaultConfig()
}

// trackQuotaUsage updates the estimated quota and checks if we've exhausted it.
func (c *CommentClient) trackQuotaUsage(units int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Reset quota if a day has passed
	if time.Since(c.lastQuotaReset) > 24*time.Hour {
		c.estimatedQuota = 10000
		c.lastQuotaReset = time.Now()
		c.quotaExhausted = false
		log.Printf("youtube: quota reset (new day)")
	}

	c.estimatedQuota -= units

	if c.estimatedQuota < c.quotaReserve {
		if !c.quotaExhausted {
			log.Printf("youtube: quota exhausted (remaining: %d, reserve: %d)", c.estimatedQuota, c.quotaReserve)
			c.quotaExhausted = true
		}
	}
}

// EstimatedQuota returns the estimated remaining quota units.
func (c *CommentClient) EstimatedQuota() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimatedQuota
}

// QuotaExhausted returns whether the estimated quota has been exhausted.
func (c *CommentClient) QuotaExhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quotaExhausted
}

// threadFromAPI converts an API comment thread into a CommentThread.
func threadFromAPI(item *ytapi.CommentThread, videoID string) CommentThread {
	thread := CommentThread{
		ID:      item.Id,
		VideoID: videoID,
	}

	if item.Snippet == nil {
		return thread
	}
	if item.Snippet.VideoId != "" {
		thread.VideoID = item.Snippet.VideoId
	}
	thread.ReplyCount = item.Snippet.TotalReplyCount

	top := item.Snippet.TopLevelComment
	if top == nil || top.Snippet == nil {
		return thread
	}

	sn := top.Snippet
	thread.Author = sn.AuthorDisplayName
	thread.LikeCount = sn.LikeCount
	if sn.AuthorChannelId != nil {
		thread.AuthorChannelID = sn.AuthorChannelId.Value
	}

	// TextOriginal is only populated for the authenticated user's own
	// comments; TextDisplay carries the plain text otherwise.
	thread.Text = sn.TextOriginal
	if thread.Text == "" {
		thread.Text = sn.TextDisplay
	}

	if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
		thread.PublishedAt = t
	}

	return thread
}

// mapAPIError translates googleapi errors into the package sentinels.
func mapAPIError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case 401:
		return fmt.Errorf("%w: %s", ErrAuthRequired, gerr.Message)
	case 404:
		return fmt.Errorf("%w: %s", ErrVideoNotFound, gerr.Message)
	case 429:
		return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
	case 403:
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
				return fmt.Errorf("%w: %s", ErrRateLimited, item.Reason)
			case "commentsDisabled":
				return fmt.Errorf("%w: %s", ErrCommentsDisabled, item.Reason)
			}
		}
		return fmt.Errorf("%w: %s", ErrAuthRequired, gerr.Message)
	}

	return err
}
