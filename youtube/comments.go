// Package youtube provides comment listing and reply publishing against the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for comment operations.
var (
	ErrAuthRequired     = errors.New("youtube: authorization required")
	ErrRateLimited      = errors.New("youtube: rate limited")
	ErrNetworkTimeout   = errors.New("youtube: network timeout")
	ErrVideoNotFound    = errors.New("youtube: video not found")
	ErrCommentsDisabled = errors.New("youtube: comments disabled")
	ErrEmptyReply       = errors.New("youtube: empty reply text")
)

// CommentThread is one top-level comment on a video together with its thread
// metadata. Replies within the thread are not expanded.
type CommentThread struct {
	// ID is the comment thread ID, which equals the top-level comment ID.
	ID string `json:"id"`

	// VideoID is the video the comment was left on.
	VideoID string `json:"video_id"`

	// Author is the display name of the commenter.
	Author string `json:"author"`

	// AuthorChannelID is the channel ID of the commenter, if available.
	AuthorChannelID string `json:"author_channel_id,omitempty"`

	// Text is the original comment text in plain text.
	Text string `json:"text"`

	// PublishedAt is when the comment was published.
	PublishedAt time.Time `json:"published_at"`

	// LikeCount is the number of likes on the top-level comment.
	LikeCount int64 `json:"like_count,omitempty"`

	// ReplyCount is the number of replies in the thread.
	ReplyCount int64 `json:"reply_count,omitempty"`
}

// PostedComment describes a comment or reply accepted by the API.
type PostedComment struct {
	// ID is the identifier assigned by YouTube.
	ID string `json:"id"`

	// Text is the text as accepted by the API.
	Text string `json:"text"`

	// PublishedAt is when the comment was published.
	PublishedAt time.Time `json:"published_at"`
}

// ListOptions configures comment thread listing behavior.
type ListOptions struct {
	// MaxResults limits the number of threads returned. 0 means no limit.
	MaxResults int

	// Order is the API ordering ("time" or "relevance"). Default "time".
	Order string
}

// CommentError wraps comment API errors with context about what failed.
// Use errors.As() to extract this error type and get operation details:
//
//	var commentErr *youtube.CommentError
//	if errors.As(err, &commentErr) {
//		fmt.Printf("Failed to %s on %s: %v\n", commentErr.Op, commentErr.VideoID, commentErr.Err)
//	}
type CommentError struct {
	// Op is the operation that failed ("list", "reply", "comment").
	Op string
	// VideoID is the video that was being operated on.
	VideoID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the comment error.
func (e *CommentError) Error() string {
	return "youtube: " + e.Op + " " + e.VideoID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *CommentError) Unwrap() error { return e.Err }

// IsRetryable reports whether a comment API error is worth retrying.
// Permanent failures such as ErrAuthRequired and ErrVideoNotFound return
// false; rate limits and network timeouts return true.
func IsRetryable(err error) bool {
	return classifyRetry(err)
}

// classifyRetry reports whether a comment API error is worth retrying.
// Auth failures, missing videos, disabled comments and local validation
// failures are permanent; everything else is treated as transient.
func classifyRetry(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrAuthRequired),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrCommentsDisabled),
		errors.Is(err, ErrEmptyReply):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}
