package common

import "time"

// FreshnessFeeds is the default window in which a fetched feed value is reused.
const FreshnessFeeds = 5 * time.Minute

// IsFresh reports whether updated lies within ttl of now.
func IsFresh(updated, now time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}

// Age returns how long ago updated was, or zero for an unset time.
func Age(updated, now time.Time) time.Duration {
	if updated.IsZero() {
		return 0
	}
	return now.Sub(updated)
}
