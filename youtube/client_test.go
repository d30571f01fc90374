package youtube

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
	ytapi "google.golang.org/api/youtube/v3"
)

func newTestClient(t *testing.T) *CommentClient {
	t.Helper()
	client, err := NewCommentClient(context.Background(), "test-token")
	if err != nil {
		t.Fatalf("NewCommentClient() error = %v", err)
	}
	return client
}

func TestNewCommentClient_MissingCredential(t *testing.T) {
	_, err := NewCommentClient(context.Background(), "")
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("NewCommentClient(\"\") error = %v, want ErrAuthRequired", err)
	}

	_, err = NewCommentClient(context.Background(), "   ")
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("NewCommentClient(blank) error = %v, want ErrAuthRequired", err)
	}
}

func TestPostReply_EmptyText(t *testing.T) {
	client := newTestClient(t)

	_, err := client.PostReply(context.Background(), "video123", "comment456", "")
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("PostReply(empty) error = %v, want ErrEmptyReply", err)
	}

	_, err = client.PostReply(context.Background(), "video123", "comment456", "  \n\t ")
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("PostReply(whitespace) error = %v, want ErrEmptyReply", err)
	}

	var commentErr *CommentError
	if !errors.As(err, &commentErr) {
		t.Fatal("PostReply error should wrap *CommentError")
	}
	if commentErr.Op != "reply" {
		t.Errorf("CommentError.Op = %q, want \"reply\"", commentErr.Op)
	}
	if commentErr.VideoID != "video123" {
		t.Errorf("CommentError.VideoID = %q, want \"video123\"", commentErr.VideoID)
	}
}

func TestPostReply_MissingVideoID(t *testing.T) {
	client := newTestClient(t)

	_, err := client.PostReply(context.Background(), "", "", "hello")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("PostReply(no video) error = %v, want ErrVideoNotFound", err)
	}

	var commentErr *CommentError
	if !errors.As(err, &commentErr) {
		t.Fatal("PostReply error should wrap *CommentError")
	}
	if commentErr.Op != "comment" {
		t.Errorf("CommentError.Op = %q, want \"comment\" for top-level posts", commentErr.Op)
	}
}

func TestListCommentThreads_MissingVideoID(t *testing.T) {
	client := newTestClient(t)

	_, err := client.ListCommentThreads(context.Background(), "")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("ListCommentThreads(\"\") error = %v, want ErrVideoNotFound", err)
	}
}

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unauthorized",
			err:  &googleapi.Error{Code: 401, Message: "Invalid Credentials"},
			want: ErrAuthRequired,
		},
		{
			name: "not found",
			err:  &googleapi.Error{Code: 404, Message: "videoNotFound"},
			want: ErrVideoNotFound,
		},
		{
			name: "too many requests",
			err:  &googleapi.Error{Code: 429, Message: "Resource has been exhausted"},
			want: ErrRateLimited,
		},
		{
			name: "quota exceeded",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "quotaExceeded"},
			}},
			want: ErrRateLimited,
		},
		{
			name: "rate limit exceeded",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "rateLimitExceeded"},
			}},
			want: ErrRateLimited,
		},
		{
			name: "comments disabled",
			err: &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{
				{Reason: "commentsDisabled"},
			}},
			want: ErrCommentsDisabled,
		},
		{
			name: "generic forbidden",
			err:  &googleapi.Error{Code: 403, Message: "Forbidden"},
			want: ErrAuthRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAPIError(context.Background(), tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("mapAPIError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapAPIError_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	got := mapAPIError(ctx, errors.New("net/http: request canceled"))
	if !errors.Is(got, ErrNetworkTimeout) {
		t.Errorf("mapAPIError(expired ctx) = %v, want ErrNetworkTimeout", got)
	}
}

func TestMapAPIError_PassthroughUnknown(t *testing.T) {
	plain := errors.New("connection reset by peer")
	got := mapAPIError(context.Background(), plain)
	if got != plain {
		t.Errorf("mapAPIError(plain) = %v, want error passed through", got)
	}
}

func TestClassifyRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth required", ErrAuthRequired, false},
		{"video not found", ErrVideoNotFound, false},
		{"comments disabled", ErrCommentsDisabled, false},
		{"empty reply", ErrEmptyReply, false},
		{"context canceled", context.Canceled, false},
		{"rate limited", ErrRateLimited, true},
		{"network timeout", ErrNetworkTimeout, true},
		{"generic", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyRetry(tt.err); got != tt.want {
				t.Errorf("classifyRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestThreadFromAPI(t *testing.T) {
	item := &ytapi.CommentThread{
		Id: "thread-1",
		Snippet: &ytapi.CommentThreadSnippet{
			VideoId:         "video-1",
			TotalReplyCount: 3,
			TopLevelComment: &ytapi.Comment{
				Id: "thread-1",
				Snippet: &ytapi.CommentSnippet{
					AuthorDisplayName: "Alice",
					AuthorChannelId:   &ytapi.CommentSnippetAuthorChannelId{Value: "UC123"},
					TextDisplay:       "Great video!",
					PublishedAt:       "2026-05-01T12:00:00Z",
					LikeCount:         7,
				},
			},
		},
	}

	thread := threadFromAPI(item, "video-1")

	if thread.ID != "thread-1" {
		t.Errorf("ID = %q, want \"thread-1\"", thread.ID)
	}
	if thread.VideoID != "video-1" {
		t.Errorf("VideoID = %q, want \"video-1\"", thread.VideoID)
	}
	if thread.Author != "Alice" {
		t.Errorf("Author = %q, want \"Alice\"", thread.Author)
	}
	if thread.AuthorChannelID != "UC123" {
		t.Errorf("AuthorChannelID = %q, want \"UC123\"", thread.AuthorChannelID)
	}
	if thread.Text != "Great video!" {
		t.Errorf("Text = %q, want \"Great video!\"", thread.Text)
	}
	if thread.LikeCount != 7 {
		t.Errorf("LikeCount = %d, want 7", thread.LikeCount)
	}
	if thread.ReplyCount != 3 {
		t.Errorf("ReplyCount = %d, want 3", thread.ReplyCount)
	}
	want := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if !thread.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", thread.PublishedAt, want)
	}
}

func TestThreadFromAPI_PrefersTextOriginal(t *testing.T) {
	item := &ytapi.CommentThread{
		Id: "thread-2",
		Snippet: &ytapi.CommentThreadSnippet{
			TopLevelComment: &ytapi.Comment{
				Snippet: &ytapi.CommentSnippet{
					TextOriginal: "original text",
					TextDisplay:  "display text",
				},
			},
		},
	}

	thread := threadFromAPI(item, "video-2")
	if thread.Text != "original text" {
		t.Errorf("Text = %q, want TextOriginal preferred", thread.Text)
	}
}
