// Package glean provides the destination indexer backed by the Glean
// indexing API (/api/index/v1).
//
// The indexer registers a custom datasource with one object definition per
// Rootly data type and uploads documents in bounded batches. Individual
// rejections reported by the API are surfaced per document so one bad
// document never fails its whole batch.
package glean
