package services

import (
	"context"
)

// VideoPlatform defines the two read-only calls the shorts aggregator makes against an external video platform.
type VideoPlatform interface {
	// SearchChannel returns the ids of video items in a channel that match the configured query, in source order.
	//
	// An empty result is not an error.
	SearchChannel(ctx context.Context, channelID string) ([]string, error)

	// VideoDetails returns metadata for exactly the given ids, in response order.
	VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error)

	// Name returns the name of the platform (e.g., "YouTube")
	Name() string
}

// VideoDetail is the platform-neutral view of a single video's metadata.
//
// Duration and PublishedAt are kept as the raw strings the platform reports; the aggregator decides how to parse them.
type VideoDetail struct {
	ID           string
	Title        string
	ChannelTitle string
	Thumbnail    string
	PublishedAt  string // RFC 3339
	Duration     string // ISO-8601, e.g. PT1M30S
	ViewCount    uint64
}
