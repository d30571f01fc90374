// Package monitor implements the comment watch loop. A Coordinator
// polls one video's comment threads on a fixed-delay schedule, replies
// to comments it has not handled before, and records every attempt.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ytreply/storage"
	"ytreply/youtube"
)

// Default schedule timings.
const (
	DefaultPollInterval = 60 * time.Second
	DefaultCallTimeout  = 30 * time.Second
)

// Sentinel errors for watch configuration.
var (
	ErrMissingCredential = errors.New("monitor: access token is required")
	ErrMissingVideoID    = errors.New("monitor: video ID is required")
)

// CommentSource lists the comment threads of a video.
type CommentSource interface {
	ListCommentThreads(ctx context.Context, videoID string) ([]youtube.CommentThread, error)
}

// ReplySink publishes a reply to a comment.
type ReplySink interface {
	PostReply(ctx context.Context, videoID, parentCommentID, replyText string) (*youtube.PostedComment, error)
}

// ReplyComposer produces the reply text for a comment. Implementations
// must always return usable text; composition never fails the cycle.
type ReplyComposer interface {
	Compose(ctx context.Context, comment youtube.CommentThread) string
}

// ClientFactory builds the comment source and reply sink from a
// credential. Invoked on Start so a bad credential fails fast.
type ClientFactory func(ctx context.Context, accessToken string) (CommentSource, ReplySink, error)

// Config describes one watch.
type Config struct {
	// AccessToken is the OAuth bearer token used for all API calls.
	AccessToken string
	// VideoID is the video whose comments are watched.
	VideoID string
	// PollInterval is the fixed delay between the end of one cycle and
	// the start of the next. Defaults to DefaultPollInterval.
	PollInterval time.Duration
	// CallTimeout bounds each API call within a cycle.
	// Defaults to DefaultCallTimeout.
	CallTimeout time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.CallTimeout <= 0 {
		out.CallTimeout = DefaultCallTimeout
	}
	return out
}

// Stats is a snapshot of watch activity.
type Stats struct {
	CyclesRun     int
	CommentsSeen  int
	RepliesPosted int
	RepliesFailed int
	LastCycleAt   time.Time
	LastError     string
}

// Coordinator owns the watch schedule. At most one watch is live at a
// time; starting a new watch replaces the previous one. The seen-set
// persists across Stop/Start within the Coordinator's lifetime.
type Coordinator struct {
	factory  ClientFactory
	composer ReplyComposer
	store    storage.ReplyLogStore // optional audit log
	seen     *SeenSet

	// startMu serializes Start calls so two replacements cannot interleave.
	startMu sync.Mutex

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
	stats  Stats
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithReplyLog records every reply attempt in the given store.
func WithReplyLog(store storage.ReplyLogStore) Option {
	return func(c *Coordinator) { c.store = store }
}

// WithSeenCapacity bounds the number of comment IDs remembered.
func WithSeenCapacity(capacity int) Option {
	return func(c *Coordinator) { c.seen = NewSeenSet(capacity) }
}

// New creates a Coordinator. The factory builds API clients on Start;
// the composer produces reply text for each new comment.
func New(factory ClientFactory, composer ReplyComposer, opts ...Option) *Coordinator {
	c := &Coordinator{
		factory:  factory,
		composer: composer,
		seen:     NewSeenSet(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins watching. It validates the config and builds the API
// clients before scheduling anything, so a missing credential or video
// ID fails fast. If a watch is already live it is stopped and drained
// first; the new watch replaces it. The first cycle runs immediately.
func (c *Coordinator) Start(ctx context.Context, cfg Config) error {
	if cfg.AccessToken == "" {
		return ErrMissingCredential
	}
	if cfg.VideoID == "" {
		return ErrMissingVideoID
	}
	cfg = cfg.withDefaults()

	source, sink, err := c.factory(ctx, cfg.AccessToken)
	if err != nil {
		return fmt.Errorf("monitor: build clients: %w", err)
	}

	c.startMu.Lock()
	defer c.startMu.Unlock()

	// Take ownership of the previous watch's channels before closing
	// anything. Clearing stopCh under the lock means a racing Stop sees
	// nil and backs off, so the channel is closed exactly once.
	c.mu.Lock()
	prevStop, prevDone := c.stopCh, c.done
	c.stopCh = nil
	c.mu.Unlock()

	if prevStop != nil {
		log.Printf("monitor: replacing active watch")
		close(prevStop)
	}
	if prevDone != nil {
		<-prevDone
	}

	stopCh := make(chan struct{})
	done := make(chan struct{})
	c.mu.Lock()
	c.stopCh = stopCh
	c.done = done
	c.mu.Unlock()

	log.Printf("monitor: watching video %s every %s", cfg.VideoID, cfg.PollInterval)

	go c.run(ctx, cfg, source, sink, stopCh, done)
	return nil
}

// Stop cancels the schedule. Any cycle already in flight finishes;
// no further cycles are scheduled. Stop is idempotent and a no-op
// when no watch is active.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	stopCh := c.stopCh
	c.stopCh = nil
	c.mu.Unlock()

	if stopCh == nil {
		log.Printf("monitor: stop requested but no watch is active")
		return
	}
	close(stopCh)
}

// Wait blocks until the current watch goroutine exits. Returns
// immediately when no watch has been started.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Active reports whether a watch schedule is live.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopCh != nil
}

// Stats returns a snapshot of watch activity.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// run executes cycles on a fixed-delay schedule. The delay is measured
// from the end of one cycle to the start of the next, so cycles never
// overlap no matter how long a cycle takes.
func (c *Coordinator) run(ctx context.Context, cfg Config, source CommentSource, sink ReplySink, stopCh, done chan struct{}) {
	defer close(done)
	defer c.clearIfCurrent(stopCh)

	for {
		c.cycle(ctx, cfg, source, sink)

		select {
		case <-stopCh:
			log.Printf("monitor: watch for video %s stopped", cfg.VideoID)
			return
		case <-ctx.Done():
			log.Printf("monitor: watch for video %s canceled: %v", cfg.VideoID, ctx.Err())
			return
		case <-time.After(cfg.PollInterval):
		}
	}
}

// clearIfCurrent resets the live-watch markers, but only when they
// still belong to this run. A replacement watch installs its own
// channels before the old goroutine exits.
func (c *Coordinator) clearIfCurrent(stopCh chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopCh == stopCh {
		c.stopCh = nil
	}
}

// cycle fetches comments and replies to the unseen ones. A fetch
// failure aborts only this cycle; the schedule stays alive. A publish
// failure is logged and the comment is still marked seen, so it is
// attempted at most once.
func (c *Coordinator) cycle(ctx context.Context, cfg Config, source CommentSource, sink ReplySink) {
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	threads, err := source.ListCommentThreads(fetchCtx, cfg.VideoID)
	cancel()

	c.mu.Lock()
	c.stats.CyclesRun++
	c.stats.LastCycleAt = time.Now()
	if err != nil {
		c.stats.LastError = err.Error()
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("monitor: fetch comments for video %s failed: %v", cfg.VideoID, err)
		return
	}

	for _, thread := range threads {
		if c.seen.Contains(thread.ID) {
			continue
		}
		c.handleComment(ctx, cfg, sink, thread)
	}
}

// handleComment composes and publishes one reply, then marks the
// comment seen regardless of the publish outcome.
func (c *Coordinator) handleComment(ctx context.Context, cfg Config, sink ReplySink, thread youtube.CommentThread) {
	defer c.seen.Add(thread.ID)

	c.mu.Lock()
	c.stats.CommentsSeen++
	c.mu.Unlock()

	text := c.composer.Compose(ctx, thread)

	postCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	posted, err := sink.PostReply(postCtx, cfg.VideoID, thread.ID, text)
	cancel()

	record := storage.NewReplyRecord(cfg.VideoID, thread.ID, text, storage.ReplySourceAuto)
	record.Author = thread.Author

	c.mu.Lock()
	if err != nil {
		c.stats.RepliesFailed++
		c.stats.LastError = err.Error()
	} else {
		c.stats.RepliesPosted++
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("monitor: reply to comment %s failed: %v", thread.ID, err)
		record.Error = err.Error()
	} else {
		log.Printf("monitor: replied to comment %s by %s", thread.ID, thread.Author)
		record.Posted = true
		record.PostedID = posted.ID
	}

	if c.store != nil {
		if err := c.store.AppendReply(ctx, record); err != nil {
			log.Printf("monitor: record reply for comment %s failed: %v", thread.ID, err)
		}
	}
}
