// Package models defines the domain entities shared by the shorts aggregator and the playlist store.
//
// The package contains two categories of types:
//
// 1. Transient records built per request and never persisted
//   - [ShortVideo] : a short-form video admitted by the aggregator
//
// 2. Persisted entities stored as one JSON document in the playlist store
//   - [Playlist] : a video or coding playlist, discriminated by [PlaylistType]
//   - [Question] : a coding question owned by exactly one coding playlist
//   - [Video] : an entry of a video playlist
//
// Read-only projections of persisted entities ([CodingPlaylistSummary], [QuestionSummary]) are what the store reader hands to
// display layers.
//
// Duration helpers ([ParseDurationSeconds], [IsShortForm]) implement the short-form admission rule.
package models
