// Package server provides HTTP routing, middleware, and the handlers of the studyhub API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so requests with the wrong method get a 405.
//
// # Endpoints
//
//   - GET / : plain-text liveness string
//   - GET /api/shorts : JSON array of short-form videos, newest first; 500 with {"error": "..."} when aggregation fails
//   - GET /api/playlists : every stored playlist
//   - GET /api/playlists/coding : coding playlist summaries
//
// The playlist endpoints never fail: an absent or corrupt store reads as an empty array.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
