package models

import (
	"math"
	"time"

	"github.com/sosodev/duration"
)

// MaxShortSeconds is the longest duration, inclusive, a video may have to count as short-form.
const MaxShortSeconds = 60

// ShortVideo is a short-form video admitted by the aggregator.
//
// Constructed per request and never persisted. DurationSeconds is always in (0, [MaxShortSeconds]].
type ShortVideo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail"`
	ChannelTitle    string    `json:"channelTitle"`
	PublishedAt     time.Time `json:"publishedAt"`
	ViewCount       uint64    `json:"viewCount"`
	DurationSeconds int       `json:"duration"`
}

// ParseDurationSeconds converts an ISO-8601 duration such as "PT1M30S" to whole seconds.
//
// Missing components count as zero. Unparsable or negative durations yield 0, which the short-form filter rejects.
func ParseDurationSeconds(s string) int {
	d, err := duration.Parse(s)
	if err != nil || d.Negative {
		return 0
	}
	secs := d.ToTimeDuration().Seconds()
	if secs <= 0 || secs > math.MaxInt32 {
		return 0
	}
	return int(math.Floor(secs))
}

// IsShortForm reports whether a duration in seconds passes the short-form admission filter.
func IsShortForm(seconds int) bool {
	return seconds > 0 && seconds <= MaxShortSeconds
}
