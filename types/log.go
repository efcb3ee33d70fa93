package types

import "time"

// LogEntry is a request/response pair queued for the audit log
type LogEntry struct {
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	PrincipalID     string
	CreatedAt       time.Time
}
