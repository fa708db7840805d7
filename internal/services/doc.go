// Package services defines the [VideoPlatform] interface for external video platforms and implements it for the YouTube Data API.
//
// # VideoPlatform Interface
//
// The shorts aggregator only needs two read-only calls per channel: a search constrained to the channel, and a batch details
// lookup for the ids the search returned. Both are expressed platform-neutrally so the aggregator can be tested with fakes.
//
// # YouTube Implementation
//
// [YouTubeService] wraps the generated youtube/v3 client and authenticates with an API key.
//
//   - search.list : part=id, channelId, q, type=video, maxResults
//   - videos.list : part=snippet,contentDetails,statistics, id (comma-joined)
//
// The thumbnail with the highest available resolution is chosen (maxres, standard, high, medium, default).
// View counts arrive as JSON strings and are decoded to uint64 by the client; a non-numeric value fails the call.
//
// # Rate Limiting and Retries
//
// Every request waits on a [rate.Limiter], runs under its own timeout, and is retried by [RetryDo] with exponential
// backoff when [IsRetryable] classifies the failure as transient (429, 500, 502, 503, 504, network errors).
//
// # Error Handling
//
// Failed calls are wrapped with [shared.ErrAPIRequest]; a missing API key is [shared.ErrMissingCredentials].
package services
