package ytreply

import (
	"ytreply/internal/retry"
	"ytreply/storage"
	"ytreply/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, youtube.ErrVideoNotFound) {
//		fmt.Println("Video not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var commentErr *youtube.CommentError
//	if errors.As(err, &commentErr) {
//		fmt.Printf("%s failed for %s: %v\n", commentErr.Op, commentErr.VideoID, commentErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// CommentError wraps errors during comment listing and reply publishing.
	CommentError = youtube.CommentError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrAuthRequired indicates the credential is missing, expired, or rejected.
	ErrAuthRequired = youtube.ErrAuthRequired
	// ErrRateLimited indicates the operation was rate limited or out of quota.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrVideoNotFound indicates the video does not exist or is not visible.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrCommentsDisabled indicates comments are disabled on the video.
	ErrCommentsDisabled = youtube.ErrCommentsDisabled
	// ErrEmptyReply indicates a reply with no text was rejected before publishing.
	ErrEmptyReply = youtube.ErrEmptyReply

	// Storage errors
	// ErrNotFound indicates an entity was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrAlreadyExists indicates an entity already exists in storage.
	ErrAlreadyExists = storage.ErrAlreadyExists
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried. It returns false
// for permanent comment API errors like ErrAuthRequired and
// ErrVideoNotFound, for context cancellation, and for the retry package's
// own permanent sentinels.
func IsRetryable(err error) bool {
	return youtube.IsRetryable(err) && retry.IsRetryable(err)
}
