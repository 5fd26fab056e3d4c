// ABOUTME: Observer hooks for Notion API calls
// ABOUTME: Log, no-op and fan-out observers for logging and metrics
package notion

import (
	"log"
	"time"
)

// CallEvent records one HTTP round trip to the Notion API.
type CallEvent struct {
	Operation string // retrieve_database, query_data_source, create_page, update_page
	Status    int    // HTTP status, 0 on transport failure
	Attempt   int
	Duration  time.Duration
	Err       error
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCall(event CallEvent)
}

// LogObserver logs every call.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer writing to logger, or the standard logger when nil.
func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCall(event CallEvent) {
	status := "ok"
	if event.Err != nil {
		status = "err: " + event.Err.Error()
	}
	o.logger.Printf("[Notion] %s attempt=%d status=%d latency_ms=%d %s",
		event.Operation, event.Attempt, event.Status, event.Duration.Milliseconds(), status)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCall(CallEvent) {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCall(event CallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCall(event)
		}
	}
}
