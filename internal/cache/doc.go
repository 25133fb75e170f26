// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package cache provides the in-process caches used by the recommendation
service.

TTL is a generic expiring map. The engine keeps one per user for history
profiles, since rebuilding a profile means reading up to a few hundred
interactions and their recipes. Entries are invalidated explicitly when a
new interaction is recorded and expire lazily otherwise; Cleanup removes
expired entries in bulk and is driven by a supervised ticker.

LRU is a bounded recency cache with per-entry expiry. Its IsDuplicate
method backs idempotent interaction submission: the first call with an
event ID records it and returns false, later calls within the TTL return
true.

Both types are safe for concurrent use and take an optional clock for
tests.
*/
package cache
