package utils

import "time"

// EpochSeconds converts a time to the epoch seconds stored on items
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}
