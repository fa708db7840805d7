package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/desertthunder/studyhub/internal/tasks"
)

// LivenessMessage is the body of GET /.
const LivenessMessage = "studyhub API is running"

// SkippedChannelsHeader lists channels left out of a shorts response under the skip failure policy.
const SkippedChannelsHeader = "X-Skipped-Channels"

// ShortsSource produces the aggregated shorts list. Implemented by [tasks.ShortsAggregator].
type ShortsSource interface {
	Aggregate(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.AggregateResult, error)
}

// PlaylistSource lists stored playlists. Implemented by [tasks.StoreReader].
type PlaylistSource interface {
	ListCodingQuestions(ctx context.Context) []models.CodingPlaylistSummary
	ListPlaylists(ctx context.Context) []models.Playlist
}

// Options holds the dependencies of the API router.
type Options struct {
	Shorts    ShortsSource   // nil leaves /api/shorts unregistered
	Playlists PlaylistSource // nil leaves the playlist endpoints unregistered
	Logger    *log.Logger
}

// NewRouter builds the API: liveness at /, shorts and playlist endpoints under /api.
func NewRouter(opts Options) *BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "http")

	r := NewBasicRouter()
	r.Use(Logging(logger), Recover(logger))

	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(LivenessMessage))
	}))

	if opts.Shorts != nil {
		r.Handler(NewShortsHandler(opts.Shorts, logger))
	}
	if opts.Playlists != nil {
		r.Handler(NewPlaylistsHandler(opts.Playlists))
	}
	return r
}

// ShortsHandler serves the merged shorts feed.
type ShortsHandler struct {
	source ShortsSource
	logger *log.Logger
}

func NewShortsHandler(source ShortsSource, logger *log.Logger) *ShortsHandler {
	return &ShortsHandler{source: source, logger: logger}
}

func (h *ShortsHandler) Routes() []string {
	return []string{"GET /api/shorts"}
}

// ServeHTTP responds with a JSON array of shorts, or 500 with {"error": "..."} when aggregation fails.
func (h *ShortsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := h.source.Aggregate(r.Context(), nil)
	if err != nil {
		h.logger.Error("failed to aggregate shorts", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(res.Failures) > 0 {
		skipped := make([]string, len(res.Failures))
		for i, f := range res.Failures {
			skipped[i] = f.ChannelID
		}
		w.Header().Set(SkippedChannelsHeader, strings.Join(skipped, ","))
	}

	videos := res.Videos
	if videos == nil {
		videos = []models.ShortVideo{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// PlaylistsHandler serves the read-only playlist views. Both endpoints always answer 200.
type PlaylistsHandler struct {
	source PlaylistSource
}

func NewPlaylistsHandler(source PlaylistSource) *PlaylistsHandler {
	return &PlaylistsHandler{source: source}
}

func (h *PlaylistsHandler) Routes() []string {
	return []string{"GET /api/playlists", "GET /api/playlists/coding"}
}

func (h *PlaylistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/playlists/coding":
		writeJSON(w, http.StatusOK, h.source.ListCodingQuestions(r.Context()))
	default:
		writeJSON(w, http.StatusOK, h.source.ListPlaylists(r.Context()))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = shared.MarshalJSON(errorResponse{Error: "failed to encode response"}, false)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
