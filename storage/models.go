package storage

import (
	"time"

	"github.com/google/uuid"
)

// Reply sources for ReplyRecord.Source field.
const (
	ReplySourceAuto   = "auto"
	ReplySourceManual = "manual"
)

// ReplyRecord is one reply attempt against a source comment.
type ReplyRecord struct {
	ID          string    `json:"id"`                // Internal UUID
	VideoID     string    `json:"video_id"`          // YouTube video ID
	CommentID   string    `json:"comment_id"`        // Source comment the reply targets
	Author      string    `json:"author,omitempty"`  // Display name of the commenter
	ReplyText   string    `json:"reply_text"`        // Text that was submitted
	Source      string    `json:"source"`            // "auto" or "manual"
	Posted      bool      `json:"posted"`            // Whether the publish attempt succeeded
	PostedID    string    `json:"posted_id,omitempty"` // ID assigned by YouTube on success
	Error       string    `json:"error,omitempty"`   // Publish error on failure
	CreatedAt   time.Time `json:"created_at"`
}

// NewReplyRecord creates a reply record with a fresh internal ID.
func NewReplyRecord(videoID, commentID, replyText, source string) *ReplyRecord {
	return &ReplyRecord{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		CommentID: commentID,
		ReplyText: replyText,
		Source:    source,
		CreatedAt: time.Now(),
	}
}
