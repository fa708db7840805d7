// YouTube Data API [VideoPlatform] implementation
//
// Uses the generated google.golang.org/api client with API-key authentication.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultMaxResults     int64 = 5
	defaultRequestTimeout       = 10 * time.Second
)

// YouTubeOpts configures a [YouTubeService].
type YouTubeOpts struct {
	APIKey            string
	Endpoint          string // overrides the API base URL; empty uses the public endpoint
	MaxResults        int64
	Query             string
	RequestTimeout    time.Duration
	RequestsPerSecond float64 // <= 0 disables the limiter
	MaxRetries        int
	Logger            *log.Logger
}

// YouTubeOptsFromConfig maps the youtube section of the application config to [YouTubeOpts].
func YouTubeOptsFromConfig(cfg shared.YouTubeConfig, logger *log.Logger) YouTubeOpts {
	return YouTubeOpts{
		APIKey:            cfg.APIKey,
		Endpoint:          cfg.Endpoint,
		MaxResults:        cfg.MaxResults,
		Query:             cfg.Query,
		RequestTimeout:    cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		MaxRetries:        cfg.MaxRetries,
		Logger:            logger,
	}
}

// YouTubeService implements the [VideoPlatform] interface for the YouTube Data API v3.
type YouTubeService struct {
	api        *youtube.Service
	limiter    *rate.Limiter
	retry      RetryConfig
	timeout    time.Duration
	maxResults int64
	query      string
	logger     *log.Logger
}

// NewYouTubeService creates a YouTube Data API client.
//
// Returns [shared.ErrMissingCredentials] when no API key is configured.
func NewYouTubeService(ctx context.Context, opts YouTubeOpts) (*YouTubeService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube api key is not set", shared.ErrMissingCredentials)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	api, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	limit, burst := rate.Inf, 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	retry := DefaultRetryConfig
	retry.MaxRetries = max(0, opts.MaxRetries)

	return &YouTubeService{
		api:        api,
		limiter:    rate.NewLimiter(limit, burst),
		retry:      retry,
		timeout:    opts.RequestTimeout,
		maxResults: opts.MaxResults,
		query:      opts.Query,
		logger:     shared.WithLogger(opts.Logger, "service", "youtube"),
	}, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// SearchChannel calls search.list restricted to one channel and to video items.
//
// Items without a video id (channels, playlists) are skipped.
func (y *YouTubeService) SearchChannel(ctx context.Context, channelID string) ([]string, error) {
	resp, err := call(ctx, y, "search", func(ctx context.Context) (*youtube.SearchListResponse, error) {
		req := y.api.Search.List([]string{"id"}).
			ChannelId(channelID).
			MaxResults(y.maxResults).
			Type("video")
		if y.query != "" {
			req = req.Q(y.query)
		}
		return req.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	return ids, nil
}

// VideoDetails calls videos.list for snippet, contentDetails and statistics of the given ids.
//
// An empty id list returns no details without calling the API.
func (y *YouTubeService) VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := call(ctx, y, "videos", func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return y.api.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(strings.Join(ids, ",")).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	details := make([]VideoDetail, 0, len(resp.Items))
	for _, item := range resp.Items {
		details = append(details, toVideoDetail(item))
	}
	return details, nil
}

// call runs one API request under the limiter, a per-attempt timeout and the retry policy.
func call[T any](ctx context.Context, y *YouTubeService, op string, fn func(context.Context) (T, error)) (T, error) {
	return RetryDo(ctx, y.retry, y.logger, func() (T, error) {
		var zero T
		if err := y.limiter.Wait(ctx); err != nil {
			return zero, err
		}

		callCtx, cancel := context.WithTimeout(ctx, y.timeout)
		defer cancel()

		start := time.Now()
		res, err := fn(callCtx)
		if err != nil {
			y.logger.Debug("request failed", "op", op, "duration", time.Since(start), "error", err)
			return zero, fmt.Errorf("%w: youtube %s: %w", shared.ErrAPIRequest, op, err)
		}
		y.logger.Debug("request completed", "op", op, "duration", time.Since(start))
		return res, nil
	})
}

func toVideoDetail(v *youtube.Video) VideoDetail {
	d := VideoDetail{ID: v.Id}
	if v.Snippet != nil {
		d.Title = v.Snippet.Title
		d.ChannelTitle = v.Snippet.ChannelTitle
		d.PublishedAt = v.Snippet.PublishedAt
		d.Thumbnail = bestThumbnail(v.Snippet.Thumbnails)
	}
	if v.ContentDetails != nil {
		d.Duration = v.ContentDetails.Duration
	}
	if v.Statistics != nil {
		d.ViewCount = v.Statistics.ViewCount
	}
	return d
}

// bestThumbnail picks the highest resolution thumbnail URL available.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
