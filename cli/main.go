package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"ytreply/config"
	"ytreply/internal/retry"
	"ytreply/llm"
	"ytreply/monitor"
	"ytreply/reply"
	"ytreply/storage"
	"ytreply/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "comments":
		cmdComments(args)
	case "reply":
		cmdReply(args)
	case "sentiment":
		cmdSentiment(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytreply - YouTube comment monitor and auto-replier

Usage:
  ytreply comments [flags] <video-id>          List comments on a video
  ytreply reply [flags] <comment-id> <text>    Post a reply to a comment
  ytreply sentiment [flags] <text>             Analyze sentiment of comment text
  ytreply watch [flags] <video-id>             Auto-reply to new comments
  ytreply help                                 Show this help message

Examples:
  ytreply comments dQw4w9WgXcQ                       # List comments
  ytreply comments dQw4w9WgXcQ --max 20              # Limit results
  ytreply reply Ugzxxxx "Thanks for watching!"       # Manual reply
  ytreply reply Ugzxxxx --auto --video dQw4w9WgXcQ   # AI-generated reply
  ytreply sentiment "best video ever"                # Classify one text
  ytreply sentiment --video dQw4w9WgXcQ              # Classify a video's comments
  ytreply watch dQw4w9WgXcQ                          # Watch and auto-reply
  ytreply watch dQw4w9WgXcQ --interval 2m            # Custom poll interval

For help on specific command: ytreply <command> -h
`)
}

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// loadConfig loads configuration or exits with an error.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newClient builds the comment client or exits when the token is missing.
func newClient(ctx context.Context, cfg *config.Config) *youtube.CommentClient {
	client, err := youtube.NewCommentClient(ctx, cfg.AccessToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Set YTREPLY_ACCESS_TOKEN or access_token in ytreply.json.\n")
		os.Exit(1)
	}
	client.RetryConfig = retryFromConfig(cfg)
	return client
}

// retryFromConfig maps the application config onto retry settings.
func retryFromConfig(cfg *config.Config) *retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.MaxRetries
	rc.InitialBackoff = cfg.InitialBackoff
	rc.MaxBackoff = cfg.MaxBackoff
	rc.Multiplier = cfg.BackoffMultiplier
	return &rc
}

// newProvider builds the Gemini provider, or returns nil when no API key
// is configured. Callers that require AI must check for nil.
func newProvider(ctx context.Context, cfg *config.Config) llm.Provider {
	if cfg.GeminiAPIKey == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return nil
	}
	provider, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini provider: %v\n", err)
		os.Exit(1)
	}
	return provider
}

func cmdComments(args []string) {
	fs := newFlagSet("comments", "Usage: ytreply comments [flags] <video-id>")
	maxResults := fs.Int("max", 0, "Maximum comments to list (0 = all)")
	order := fs.String("order", "time", "Listing order: time or relevance")
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video-id\n")
		fs.Usage()
		os.Exit(1)
	}
	videoID := argv[0]

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
	defer cancel()

	client := newClient(ctx, cfg)

	fmt.Fprintf(os.Stderr, "Fetching comments for %s...\n", videoID)
	threads, err := client.ListCommentThreadsWithOptions(ctx, videoID, &youtube.ListOptions{
		MaxResults: *maxResults,
		Order:      *order,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching comments: %v\n", err)
		os.Exit(1)
	}

	if len(threads) == 0 {
		fmt.Println("No comments found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMENT ID\tAUTHOR\tPUBLISHED\tLIKES\tREPLIES\tTEXT")
	for _, t := range threads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			t.ID,
			truncate(t.Author, 20),
			t.PublishedAt.Format("2006-01-02 15:04"),
			t.LikeCount,
			t.ReplyCount,
			truncate(t.Text, 60),
		)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nTotal: %d comments\n", len(threads))
}

func cmdReply(args []string) {
	fs := newFlagSet("reply", "Usage: ytreply reply [flags] <comment-id> [text]")
	videoID := fs.String("video", "", "Video the comment belongs to (default from config)")
	auto := fs.Bool("auto", false, "Generate the reply text with AI")
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing comment-id\n")
		fs.Usage()
		os.Exit(1)
	}
	commentID := argv[0]

	cfg := loadConfig()
	vid := *videoID
	if vid == "" {
		vid = cfg.VideoID
	}
	if vid == "" {
		fmt.Fprintf(os.Stderr, "Error: missing --video (or video_id in config)\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CallTimeout)
	defer cancel()

	client := newClient(ctx, cfg)

	var text string
	if *auto {
		// Find the comment so the generator sees its text and author.
		threads, err := client.ListCommentThreads(ctx, vid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching comments: %v\n", err)
			os.Exit(1)
		}
		var target *youtube.CommentThread
		for i := range threads {
			if threads[i].ID == commentID {
				target = &threads[i]
				break
			}
		}
		if target == nil {
			fmt.Fprintf(os.Stderr, "Error: comment %s not found on video %s\n", commentID, vid)
			os.Exit(1)
		}
		composer := reply.NewComposer(newProvider(ctx, cfg))
		text = composer.Compose(ctx, *target)
	} else {
		if len(argv) < 2 {
			fmt.Fprintf(os.Stderr, "Error: missing reply text (or use --auto)\n")
			fs.Usage()
			os.Exit(1)
		}
		text = strings.Join(argv[1:], " ")
	}

	posted, err := client.PostReply(ctx, vid, commentID, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error posting reply: %v\n", err)
		os.Exit(1)
	}

	recordReply(cfg, vid, commentID, text, posted)
	fmt.Printf("Reply posted: %s\n", posted.ID)
	fmt.Printf("Text: %s\n", posted.Text)
}

// recordReply appends a manual reply to the audit log when one is configured.
func recordReply(cfg *config.Config, videoID, commentID, text string, posted *youtube.PostedComment) {
	if cfg.ReplyLogPath == "" {
		return
	}
	store, err := storage.NewJSONStore(cfg.ReplyLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open reply log: %v\n", err)
		return
	}
	defer store.Close()

	record := storage.NewReplyRecord(videoID, commentID, text, storage.ReplySourceManual)
	record.Posted = true
	record.PostedID = posted.ID
	if err := store.AppendReply(context.Background(), record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record reply: %v\n", err)
	}
}

func cmdSentiment(args []string) {
	fs := newFlagSet("sentiment", "Usage: ytreply sentiment [flags] <text>")
	videoID := fs.String("video", "", "Analyze every comment on this video instead of literal text")
	fs.Parse(args)

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := newProvider(ctx, cfg)
	if provider == nil {
		fmt.Fprintf(os.Stderr, "Error: sentiment analysis requires a Gemini API key\n")
		fmt.Fprintf(os.Stderr, "Set YTREPLY_GEMINI_API_KEY or GOOGLE_API_KEY.\n")
		os.Exit(1)
	}
	analyzer := reply.NewAnalyzer(provider)

	if *videoID != "" {
		client := newClient(ctx, cfg)
		threads, err := client.ListCommentThreads(ctx, *videoID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching comments: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COMMENT ID\tSENTIMENT\tCONFIDENCE\tTEXT")
		for _, t := range threads {
			s, err := analyzer.Analyze(ctx, t.Text)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: analyze comment %s failed: %v\n", t.ID, err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", t.ID, s.Label, s.Confidence, truncate(t.Text, 50))
		}
		w.Flush()
		return
	}

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing comment text\n")
		fs.Usage()
		os.Exit(1)
	}
	text := strings.Join(argv, " ")

	s, err := analyzer.Analyze(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing sentiment: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sentiment:  %s\n", s.Label)
	fmt.Printf("Confidence: %.2f\n", s.Confidence)
	if s.Summary != "" {
		fmt.Printf("Summary:    %s\n", s.Summary)
	}
}

func cmdWatch(args []string) {
	fs := newFlagSet("watch", "Usage: ytreply watch [flags] <video-id>")
	interval := fs.Duration("interval", 0, "Poll interval (default from config)")
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video-id\n")
		fs.Usage()
		os.Exit(1)
	}
	videoID := argv[0]

	cfg := loadConfig()
	if *interval > 0 {
		cfg.PollInterval = *interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	composer := reply.NewComposer(newProvider(ctx, cfg))
	composer.SetTimeout(cfg.CallTimeout)

	opts := []monitor.Option{monitor.WithSeenCapacity(cfg.SeenCapacity)}
	if cfg.ReplyLogPath != "" {
		store, err := storage.NewJSONStore(cfg.ReplyLogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening reply log: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts = append(opts, monitor.WithReplyLog(store))
	}

	factory := func(ctx context.Context, accessToken string) (monitor.CommentSource, monitor.ReplySink, error) {
		client, err := youtube.NewCommentClient(ctx, accessToken)
		if err != nil {
			return nil, nil, err
		}
		client.RetryConfig = retryFromConfig(cfg)
		return client, client, nil
	}

	coord := monitor.New(factory, composer, opts...)
	err := coord.Start(ctx, monitor.Config{
		AccessToken:  cfg.AccessToken,
		VideoID:      videoID,
		PollInterval: cfg.PollInterval,
		CallTimeout:  cfg.CallTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watch: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Watching %s (every %s). Press Ctrl-C to stop.\n", videoID, cfg.PollInterval)
	<-ctx.Done()

	coord.Stop()
	coord.Wait()

	stats := coord.Stats()
	fmt.Fprintf(os.Stderr, "\nStopped. Cycles: %d, comments handled: %d, replies posted: %d, failed: %d\n",
		stats.CyclesRun, stats.CommentsSeen, stats.RepliesPosted, stats.RepliesFailed)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
