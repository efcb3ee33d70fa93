package logger

import (
	"context"
	"fmt"
	"sync"

	logModel "freight-admin/models/log"
	"freight-admin/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request audit rows from a single goroutine so handlers
// never wait on the store.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB, buffer int) *AsyncLogger {
	if buffer <= 0 {
		buffer = 100
	}
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, buffer),
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the queue until Close is called.
func (l *AsyncLogger) ProcessLog() {
	defer close(l.done)
	Debug("Starting asynchronous request logger")

	for entry := range l.channel {
		row := logModel.Log{
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			PrincipalID:     entry.PrincipalID,
			CreatedAt:       entry.CreatedAt,
		}

		if err := l.db.Create(&row).Error; err != nil {
			Error(fmt.Sprintf("Failed to insert request log %s %s", row.Method, row.URL), err)
		}
	}
}

// Log enqueues an entry. When the queue is full the entry is dropped.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning(fmt.Sprintf("Request log queue full, dropping %s %s", entry.Method, entry.URL))
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (l *AsyncLogger) Close(ctx context.Context) error {
	l.once.Do(func() { close(l.channel) })
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
