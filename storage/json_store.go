package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// storeData is the on-disk representation of the reply log.
type storeData struct {
	Version   string                  `json:"version"`
	UpdatedAt time.Time               `json:"updated_at"`
	Replies   map[string]*ReplyRecord `json:"replies"`

	// Indexes for lookups, rebuilt on load.
	repliesByVideo map[string][]string
	replyByComment map[string]string
}

// JSONStore implements ReplyLogStore using a single JSON file.
// All mutations are written atomically and guarded by a file lock
// so multiple processes can share the same log file.
type JSONStore struct {
	path string
	mu   sync.RWMutex
	data *storeData
}

// NewJSONStore creates or opens a JSON reply log at the given path.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path: path,
		data: newStoreData(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func newStoreData() *storeData {
	return &storeData{
		Version:        schemaVersion,
		Replies:        make(map[string]*ReplyRecord),
		repliesByVideo: make(map[string][]string),
		replyByComment: make(map[string]string),
	}
}

// load reads the store file from disk, tolerating a missing file.
func (s *JSONStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "read", Entity: "store", ID: s.path, Err: err}
	}

	data := newStoreData()
	if err := json.Unmarshal(raw, data); err != nil {
		return &StorageError{Op: "read", Entity: "store", ID: s.path, Err: fmt.Errorf("%w: %v", ErrStorageCorrupt, err)}
	}
	if data.Replies == nil {
		data.Replies = make(map[string]*ReplyRecord)
	}
	data.rebuildIndexes()
	s.data = data
	return nil
}

// save writes the store file atomically under the file lock.
func (s *JSONStore) save() error {
	lock := NewFileLock(s.path)
	if err := lock.Lock(lockTimeout); err != nil {
		return err
	}
	defer lock.Unlock()

	s.data.UpdatedAt = time.Now()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return &StorageError{Op: "update", Entity: "store", ID: s.path, Err: err}
	}

	if err := writeFileAtomic(s.path, raw, 0644); err != nil {
		return &StorageError{Op: "update", Entity: "store", ID: s.path, Err: err}
	}
	return nil
}

func (d *storeData) rebuildIndexes() {
	d.repliesByVideo = make(map[string][]string)
	d.replyByComment = make(map[string]string)

	ids := make([]string, 0, len(d.Replies))
	for id := range d.Replies {
		ids = append(ids, id)
	}
	// Oldest first so per-video lists come out in insertion order.
	sort.Slice(ids, func(i, j int) bool {
		return d.Replies[ids[i]].CreatedAt.Before(d.Replies[ids[j]].CreatedAt)
	})

	for _, id := range ids {
		r := d.Replies[id]
		d.repliesByVideo[r.VideoID] = append(d.repliesByVideo[r.VideoID], id)
		if r.CommentID != "" {
			d.replyByComment[r.CommentID] = id
		}
	}
}

// AppendReply saves a new reply record, assigning an ID if empty.
func (s *JSONStore) AppendReply(ctx context.Context, record *ReplyRecord) error {
	if record == nil {
		return &StorageError{Op: "create", Entity: "reply", Err: ErrInvalidInput}
	}
	if record.VideoID == "" || record.ReplyText == "" {
		return &StorageError{Op: "create", Entity: "reply", ID: record.ID, Err: ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, exists := s.data.Replies[record.ID]; exists {
		return &StorageError{Op: "create", Entity: "reply", ID: record.ID, Err: ErrAlreadyExists}
	}

	s.data.Replies[record.ID] = record
	s.data.repliesByVideo[record.VideoID] = append(s.data.repliesByVideo[record.VideoID], record.ID)
	if record.CommentID != "" {
		s.data.replyByComment[record.CommentID] = record.ID
	}

	return s.save()
}

// GetReply retrieves a reply record by its internal ID.
func (s *JSONStore) GetReply(ctx context.Context, id string) (*ReplyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data.Replies[id]
	if !ok {
		return nil, &StorageError{Op: "read", Entity: "reply", ID: id, Err: ErrNotFound}
	}
	return record, nil
}

// GetReplyByCommentID retrieves the reply record for a source comment.
func (s *JSONStore) GetReplyByCommentID(ctx context.Context, commentID string) (*ReplyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.data.replyByComment[commentID]
	if !ok {
		return nil, &StorageError{Op: "read", Entity: "reply", ID: commentID, Err: ErrNotFound}
	}
	return s.data.Replies[id], nil
}

// ListRepliesByVideo retrieves all reply records for a video, oldest first.
func (s *JSONStore) ListRepliesByVideo(ctx context.Context, videoID string) ([]*ReplyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.data.repliesByVideo[videoID]
	records := make([]*ReplyRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.data.Replies[id]; ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// Close releases resources. The JSON store holds nothing open between calls.
func (s *JSONStore) Close() error { return nil }
