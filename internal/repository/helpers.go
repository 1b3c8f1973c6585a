package repository

import (
	"strings"
	"time"
)

// timeLayout is the storage format for every timestamp column.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime returns the zero time for values that fail to parse.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// joinList and splitList store short id lists in a single TEXT column.
func joinList(ids []string) string {
	return strings.Join(ids, ",")
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
