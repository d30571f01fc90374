// Package ytreply provides a library for monitoring and replying to
// YouTube video comments.
//
// It enables programmatic access to a video's comment threads, AI-assisted
// reply composition and sentiment analysis, and a background watch that
// automatically replies to new comments.
//
// Overview
//
// ytreply is organized around a small set of components:
//
//   - youtube.CommentClient: List comment threads and post replies
//   - reply.Composer: Produce reply text, AI-generated with a canned fallback
//   - reply.Analyzer: Classify comment sentiment
//   - monitor.Coordinator: Recurring watch that auto-replies to new comments
//
// Quick Start
//
// List the comments on a video:
//
//	ctx := context.Background()
//	client, err := youtube.NewCommentClient(ctx, accessToken)
//	if err != nil {
//		log.Fatal(err)
//	}
//	threads, err := client.ListCommentThreads(ctx, "dQw4w9WgXcQ")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, t := range threads {
//		fmt.Printf("%s: %s\n", t.Author, t.Text)
//	}
//
// Watch a video and auto-reply to new comments:
//
//	composer := reply.NewComposer(provider)
//	coord := monitor.New(factory, composer)
//	err := coord.Start(ctx, monitor.Config{
//		AccessToken: accessToken,
//		VideoID:     "dQw4w9WgXcQ",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer coord.Stop()
//
// Configuration
//
// ytreply uses a configuration system that loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytreply.json or ~/.config/ytreply/ytreply.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTREPLY_ACCESS_TOKEN: OAuth bearer token for YouTube API calls
//   - YTREPLY_VIDEO_ID: Default video to operate on
//   - YTREPLY_GEMINI_API_KEY: Gemini API key for AI replies and sentiment
//   - YTREPLY_GEMINI_MODEL: Gemini model name
//   - YTREPLY_POLL_INTERVAL: Delay between watch cycles
//   - YTREPLY_CALL_TIMEOUT: Timeout per API call
//   - YTREPLY_SEEN_CAPACITY: Handled-comment memory bound
//   - YTREPLY_REPLY_LOG_PATH: Reply audit log file
//   - YTREPLY_MAX_RETRIES: Maximum retry attempts for fetches
//   - YTREPLY_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTREPLY_MAX_BACKOFF: Maximum retry backoff duration
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytreply.ErrVideoNotFound) {
//		fmt.Println("Video not found")
//	}
//
// Extracting wrapped error details:
//
//	var commentErr *ytreply.CommentError
//	if errors.As(err, &commentErr) {
//		fmt.Printf("%s on %s failed: %v\n", commentErr.Op, commentErr.VideoID, commentErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Comment listing and reply publishing
//   - reply: Reply composition and sentiment analysis
//   - monitor: Background watch scheduling
//   - llm: Text generation providers
//   - storage: Reply audit log
//   - config: Configuration management
//
package ytreply
