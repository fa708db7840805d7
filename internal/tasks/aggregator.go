package tasks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/services"
	"github.com/desertthunder/studyhub/internal/shared"
	"golang.org/x/sync/errgroup"
)

// FailurePolicy decides what a failing channel does to the rest of an aggregation.
type FailurePolicy int

const (
	// FailFast aborts the whole aggregation on the first channel failure and returns no videos.
	FailFast FailurePolicy = iota
	// SkipFailed records failing channels in [AggregateResult.Failures] and merges the rest.
	SkipFailed
)

// ParseFailurePolicy maps a config value to a [FailurePolicy]. Empty means [FailFast].
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", shared.PolicyFailFast:
		return FailFast, nil
	case shared.PolicySkip:
		return SkipFailed, nil
	default:
		return FailFast, fmt.Errorf("%w: unknown failure policy %q", shared.ErrInvalidArgument, s)
	}
}

func (p FailurePolicy) String() string {
	switch p {
	case SkipFailed:
		return shared.PolicySkip
	default:
		return shared.PolicyFailFast
	}
}

// Stage names the external call a channel failed in.
type Stage string

const (
	StageSearch  Stage = "search"
	StageDetails Stage = "details"
)

// AggregateError is the single failure surfaced for a channel whose external calls failed.
//
// It matches [shared.ErrUpstream] with errors.Is, which is how callers tell an upstream failure apart from an empty result.
type AggregateError struct {
	ChannelID string
	Stage     Stage
	Err       error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("%v: channel %s: %s: %v", shared.ErrUpstream, e.ChannelID, e.Stage, e.Err)
}

func (e *AggregateError) Unwrap() []error {
	return []error{shared.ErrUpstream, e.Err}
}

// AggregateResult is the outcome of one aggregation.
type AggregateResult struct {
	Videos   []models.ShortVideo // newest first, never nil
	Failures []*AggregateError   // registry order; only populated under [SkipFailed]
}

// AggregatorOpts configures a [ShortsAggregator].
type AggregatorOpts struct {
	Channels    []string
	Concurrency int // channels fetched at once; values below 1 mean sequential
	Policy      FailurePolicy
	Logger      *log.Logger
}

// ShortsAggregator collects short-form videos across a fixed channel registry.
//
// It holds no state between calls.
type ShortsAggregator struct {
	platform    services.VideoPlatform
	channels    []string
	concurrency int
	policy      FailurePolicy
	logger      *log.Logger
}

// NewShortsAggregator creates an aggregator over platform. The channel list is copied.
func NewShortsAggregator(platform services.VideoPlatform, opts AggregatorOpts) *ShortsAggregator {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &ShortsAggregator{
		platform:    platform,
		channels:    slices.Clone(opts.Channels),
		concurrency: max(1, opts.Concurrency),
		policy:      opts.Policy,
		logger:      shared.WithLogger(opts.Logger, "component", "aggregator"),
	}
}

// Channels returns a copy of the channel registry.
func (a *ShortsAggregator) Channels() []string {
	return slices.Clone(a.channels)
}

// Policy returns the configured failure policy.
func (a *ShortsAggregator) Policy() FailurePolicy {
	return a.policy
}

// FetchShorts returns the merged, newest-first list of short-form videos across all channels.
//
// Under [FailFast] any failed external call yields a single [*AggregateError] and no videos.
func (a *ShortsAggregator) FetchShorts(ctx context.Context) ([]models.ShortVideo, error) {
	res, err := a.Aggregate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return res.Videos, nil
}

// Aggregate fans out one search+details pair per channel and merges the results behind a single barrier.
//
// Each channel writes into its own slot, so the merge sees channels in registry order no matter which finished first.
// The merged list is stably sorted by publish time, newest first.
func (a *ShortsAggregator) Aggregate(ctx context.Context, progress chan<- ProgressUpdate) (*AggregateResult, error) {
	if a.platform == nil {
		return nil, fmt.Errorf("%w: video platform not initialized", shared.ErrServiceUnavailable)
	}

	total := len(a.channels)
	slots := make([][]models.ShortVideo, total)
	failures := make([]*AggregateError, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, channelID := range a.channels {
		g.Go(func() error {
			videos, aerr := a.fetchChannel(gctx, i+1, total, channelID, progress)
			if aerr == nil {
				slots[i] = videos
				return nil
			}

			sendProgress(progress, channelFailedUpdate(i+1, total, aerr))
			if a.policy == SkipFailed {
				a.logger.Warn("skipping failed channel", "channel", channelID, "stage", aerr.Stage, "error", aerr.Err)
				failures[i] = aerr
				return nil
			}
			return aerr
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Error("aggregation failed", "policy", a.policy, "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &AggregateResult{Videos: mergeShorts(slots)}
	for _, f := range failures {
		if f != nil {
			result.Failures = append(result.Failures, f)
		}
	}

	sendProgress(progress, mergeUpdate(len(result.Videos)))
	a.logger.Info("aggregated shorts", "channels", total, "videos", len(result.Videos), "failed", len(result.Failures))
	return result, nil
}

// fetchChannel runs the search and details calls for one channel and applies the short-form filter.
func (a *ShortsAggregator) fetchChannel(
	ctx context.Context,
	step, total int,
	channelID string,
	progress chan<- ProgressUpdate,
) ([]models.ShortVideo, *AggregateError) {
	sendProgress(progress, searchChannelUpdate(step, total, channelID))

	ids, err := a.platform.SearchChannel(ctx, channelID)
	if err != nil {
		return nil, &AggregateError{ChannelID: channelID, Stage: StageSearch, Err: err}
	}
	if len(ids) == 0 {
		a.logger.Debug("no matching items", "channel", channelID)
		sendProgress(progress, channelDoneUpdate(step, total, channelID, 0))
		return nil, nil
	}

	sendProgress(progress, fetchDetailsUpdate(step, total, channelID, len(ids)))

	details, err := a.platform.VideoDetails(ctx, ids)
	if err != nil {
		return nil, &AggregateError{ChannelID: channelID, Stage: StageDetails, Err: err}
	}

	videos := make([]models.ShortVideo, 0, len(details))
	rejected := 0
	for _, d := range details {
		v, ok := a.toShort(channelID, d)
		if !ok {
			rejected++
			continue
		}
		videos = append(videos, v)
	}

	a.logger.Debug("channel fetched", "channel", channelID, "admitted", len(videos), "rejected", rejected)
	sendProgress(progress, channelDoneUpdate(step, total, channelID, len(videos)))
	return videos, nil
}

// toShort maps a detail record to a [models.ShortVideo], reporting false when the item is not admitted.
func (a *ShortsAggregator) toShort(channelID string, d services.VideoDetail) (models.ShortVideo, bool) {
	secs := models.ParseDurationSeconds(d.Duration)
	if !models.IsShortForm(secs) {
		return models.ShortVideo{}, false
	}

	published, err := time.Parse(time.RFC3339, d.PublishedAt)
	if err != nil {
		a.logger.Warn("dropping item with unparsable publish time", "channel", channelID, "id", d.ID, "published_at", d.PublishedAt)
		return models.ShortVideo{}, false
	}

	return models.ShortVideo{
		ID:              d.ID,
		Title:           d.Title,
		Thumbnail:       d.Thumbnail,
		ChannelTitle:    d.ChannelTitle,
		PublishedAt:     published,
		ViewCount:       d.ViewCount,
		DurationSeconds: secs,
	}, true
}

// mergeShorts concatenates per-channel slots in order and stably sorts them newest first.
func mergeShorts(slots [][]models.ShortVideo) []models.ShortVideo {
	n := 0
	for _, s := range slots {
		n += len(s)
	}

	merged := make([]models.ShortVideo, 0, n)
	for _, s := range slots {
		merged = append(merged, s...)
	}

	slices.SortStableFunc(merged, func(x, y models.ShortVideo) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})
	return merged
}
