// Package storage provides abstractions for persisting ytreply data.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyExists indicates the entity already exists in storage.
	ErrAlreadyExists = errors.New("storage: already exists")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("create", "read", "update", "delete").
	Op string
	// Entity is the entity type ("reply", "store").
	Entity string
	// ID is the entity ID if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// ReplyLogStore records every reply attempt, automated or manual.
// It is an audit log, not a dedup source: the monitor's seen-set is
// in-memory only and is never rebuilt from this store.
// Implementations must be safe for concurrent use.
type ReplyLogStore interface {
	// AppendReply saves a new reply record. The record ID is assigned if empty.
	AppendReply(ctx context.Context, record *ReplyRecord) error
	// GetReply retrieves a reply record by its internal ID.
	GetReply(ctx context.Context, id string) (*ReplyRecord, error)
	// GetReplyByCommentID retrieves the reply record for a source comment.
	GetReplyByCommentID(ctx context.Context, commentID string) (*ReplyRecord, error)
	// ListRepliesByVideo retrieves all reply records for a video, oldest first.
	ListRepliesByVideo(ctx context.Context, videoID string) ([]*ReplyRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
