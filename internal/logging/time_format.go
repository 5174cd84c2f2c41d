package logging

import "time"

const logTimestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.Local().Format(logTimestampLayout)
}
