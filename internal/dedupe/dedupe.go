package dedupe

// Package dedupe provides the shared singleflight group used to collapse
// concurrent session refreshes. Using a centralized singleflight.Group
// ensures only one resolver fetch runs per participant while other
// callers wait for its result.

import "golang.org/x/sync/singleflight"

// RefreshGroup deduplicates active-session fetches keyed by participant id.
var RefreshGroup singleflight.Group
