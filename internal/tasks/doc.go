// Package tasks holds the operations behind the CLI and the HTTP API.
//
// # Core Operations
//
//  1. [ShortsAggregator.FetchShorts] : newest-first short-form videos across the channel registry
//     - One search and one details call per channel, at most Concurrency channels at a time
//     - Items longer than a minute, zero-length, or with an unparsable duration are dropped
//     - Channels are merged in registry order, then stably sorted by publish time
//
//  2. [StoreReader.ListCodingQuestions] : read-only projection of coding playlists
//     - Absent and corrupt stores both read as an empty list
//
//  3. [PlaylistManager] : create, import, delete and edit playlists and questions
//
//  4. [StoreReader.ExportCodingPlaylists] : one file per coding playlist plus a manifest
//
// # Failure Policies
//
// Under [FailFast] the first failing channel cancels the rest and the caller gets one [*AggregateError].
// Under [SkipFailed] failing channels are recorded in [AggregateResult.Failures] and the remaining channels are merged.
//
// # Progress Reporting
//
// Long-running operations accept an optional progress channel. Updates are sent with select/default and dropped when
// the channel is full, so a slow consumer never stalls a fetch.
package tasks
