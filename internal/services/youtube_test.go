package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/studyhub/internal/shared"
)

const searchResponse = `{
	"items": [
		{"id": {"kind": "youtube#video", "videoId": "vid1"}},
		{"id": {"kind": "youtube#channel", "channelId": "UCx"}},
		{"id": {"kind": "youtube#video", "videoId": "vid2"}}
	]
}`

const videosResponse = `{
	"items": [
		{
			"id": "vid1",
			"snippet": {
				"title": "First",
				"channelTitle": "Tech Channel",
				"publishedAt": "2024-05-01T12:00:00Z",
				"thumbnails": {
					"default": {"url": "https://i.ytimg.com/vi/vid1/default.jpg"},
					"high": {"url": "https://i.ytimg.com/vi/vid1/hqdefault.jpg"},
					"maxres": {"url": "https://i.ytimg.com/vi/vid1/maxresdefault.jpg"}
				}
			},
			"contentDetails": {"duration": "PT45S"},
			"statistics": {"viewCount": "1500"}
		},
		{
			"id": "vid2",
			"snippet": {
				"title": "Second",
				"channelTitle": "Tech Channel",
				"publishedAt": "2024-05-02T08:30:00Z",
				"thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/vid2/mqdefault.jpg"}}
			},
			"contentDetails": {"duration": "PT2M"}
		}
	]
}`

func newTestService(t *testing.T, srv *httptest.Server) *YouTubeService {
	t.Helper()
	svc, err := NewYouTubeService(context.Background(), YouTubeOpts{
		APIKey:     "test-key",
		Endpoint:   srv.URL + "/",
		MaxResults: 5,
		Query:      "#shorts",
		MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.retry.InitialWait = time.Millisecond
	svc.retry.MaxWait = 5 * time.Millisecond
	return svc
}

func writeAPIError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "upstream said no"}}`, code)
}

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("requires an api key", func(t *testing.T) {
			_, err := NewYouTubeService(context.Background(), YouTubeOpts{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("applies defaults", func(t *testing.T) {
			svc, err := NewYouTubeService(context.Background(), YouTubeOpts{APIKey: "k"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.maxResults != defaultMaxResults {
				t.Errorf("expected maxResults %d, got %d", defaultMaxResults, svc.maxResults)
			}
			if svc.timeout != defaultRequestTimeout {
				t.Errorf("expected timeout %v, got %v", defaultRequestTimeout, svc.timeout)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		svc, _ := NewYouTubeService(context.Background(), YouTubeOpts{APIKey: "k"})
		if svc.Name() != "YouTube" {
			t.Errorf("expected name to be 'YouTube', got %s", svc.Name())
		}
	})

	t.Run("SearchChannel", func(t *testing.T) {
		t.Run("sends search parameters and returns video ids in order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/search") {
					t.Errorf("expected search path, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				want := map[string]string{
					"part":       "id",
					"channelId":  "UC123",
					"maxResults": "5",
					"q":          "#shorts",
					"type":       "video",
					"key":        "test-key",
				}
				for k, v := range want {
					if got := q.Get(k); got != v {
						t.Errorf("expected %s=%q, got %q", k, v, got)
					}
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(searchResponse))
			}))
			defer server.Close()

			ids, err := newTestService(t, server).SearchChannel(context.Background(), "UC123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 2 || ids[0] != "vid1" || ids[1] != "vid2" {
				t.Errorf("expected [vid1 vid2], got %v", ids)
			}
		})

		t.Run("empty result is not an error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"items": []}`))
			}))
			defer server.Close()

			ids, err := newTestService(t, server).SearchChannel(context.Background(), "UC123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 0 {
				t.Errorf("expected no ids, got %v", ids)
			}
		})
	})

	t.Run("VideoDetails", func(t *testing.T) {
		t.Run("maps items and joins ids", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/videos") {
					t.Errorf("expected videos path, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if got := q.Get("id"); got != "vid1,vid2" {
					t.Errorf("expected comma-joined ids, got %q", got)
				}
				if got := strings.Join(q["part"], ","); got != "snippet,contentDetails,statistics" {
					t.Errorf("unexpected part %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(videosResponse))
			}))
			defer server.Close()

			details, err := newTestService(t, server).VideoDetails(context.Background(), []string{"vid1", "vid2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(details) != 2 {
				t.Fatalf("expected 2 details, got %d", len(details))
			}

			first := details[0]
			if first.Title != "First" || first.ChannelTitle != "Tech Channel" {
				t.Errorf("unexpected snippet mapping: %+v", first)
			}
			if first.Thumbnail != "https://i.ytimg.com/vi/vid1/maxresdefault.jpg" {
				t.Errorf("expected maxres thumbnail, got %s", first.Thumbnail)
			}
			if first.Duration != "PT45S" {
				t.Errorf("expected duration PT45S, got %s", first.Duration)
			}
			if first.ViewCount != 1500 {
				t.Errorf("expected string view count to be coerced to 1500, got %d", first.ViewCount)
			}

			second := details[1]
			if second.Thumbnail != "https://i.ytimg.com/vi/vid2/mqdefault.jpg" {
				t.Errorf("expected medium thumbnail fallback, got %s", second.Thumbnail)
			}
			if second.ViewCount != 0 {
				t.Errorf("expected missing statistics to yield 0 views, got %d", second.ViewCount)
			}
		})

		t.Run("no ids skips the request", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
			}))
			defer server.Close()

			details, err := newTestService(t, server).VideoDetails(context.Background(), nil)
			if err != nil || details != nil {
				t.Errorf("expected nil, nil; got %v, %v", details, err)
			}
			if calls.Load() != 0 {
				t.Errorf("expected no requests, got %d", calls.Load())
			}
		})

		t.Run("non-numeric view count fails the call", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"items": [{"id": "v", "statistics": {"viewCount": "lots"}}]}`))
			}))
			defer server.Close()

			_, err := newTestService(t, server).VideoDetails(context.Background(), []string{"v"})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Retry", func(t *testing.T) {
		t.Run("retries transient failures", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					writeAPIError(w, http.StatusServiceUnavailable)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(searchResponse))
			}))
			defer server.Close()

			ids, err := newTestService(t, server).SearchChannel(context.Background(), "UC123")
			if err != nil {
				t.Fatalf("expected retry to succeed, got %v", err)
			}
			if len(ids) != 2 {
				t.Errorf("expected 2 ids, got %d", len(ids))
			}
			if calls.Load() != 2 {
				t.Errorf("expected 2 calls, got %d", calls.Load())
			}
		})

		t.Run("gives up after max retries", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeAPIError(w, http.StatusTooManyRequests)
			}))
			defer server.Close()

			_, err := newTestService(t, server).SearchChannel(context.Background(), "UC123")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if calls.Load() != 3 {
				t.Errorf("expected 1 call + 2 retries, got %d", calls.Load())
			}
		})

		t.Run("does not retry client errors", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeAPIError(w, http.StatusForbidden)
			}))
			defer server.Close()

			if _, err := newTestService(t, server).SearchChannel(context.Background(), "UC123"); err == nil {
				t.Fatal("expected error for 403")
			}
			if calls.Load() != 1 {
				t.Errorf("expected a single call, got %d", calls.Load())
			}
		})
	})
}
