// Package config contains everything related to configuration
package config

import "time"

// Defaults for the combined access-log layout and reporting. The token
// indices are zero-based positions in the tokenized line.
const (
	DefaultOnsiteMarker    = "example.com"
	DefaultSuccessPrefix   = "2"
	DefaultTopLimit        = 10
	DefaultGigabyteDivisor = 1073741824.0

	DefaultRequestIndex  = 5
	DefaultStatusIndex   = 6
	DefaultBytesIndex    = 7
	DefaultReferrerIndex = 8

	defaultOnMalformed   = "fail"
	defaultWatchDebounce = 400 * time.Millisecond
)
