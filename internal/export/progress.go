package export

import "log"

// Status names the progress milestones of one export run.
type Status string

const (
	StatusConnecting       Status = "connecting"
	StatusFetchingBooks    Status = "fetching_books"
	StatusStartProcessing  Status = "start_processing"
	StatusProcessing       Status = "processing"
	StatusProcessingDetail Status = "processing_detail"
	StatusExporting        Status = "exporting"
	StatusCompleted        Status = "completed"
	StatusError            Status = "error"
)

// Event is one progress update. Delivery is best-effort; sinks must not
// block the pipeline.
type Event struct {
	Status      Status `json:"status"`
	Message     string `json:"message"`
	BookTitle   string `json:"book_title,omitempty"`
	CurrentBook int    `json:"current_book,omitempty"`
	TotalBooks  int    `json:"total_books,omitempty"`
	Percent     int    `json:"percent,omitempty"`
}

// ProgressSink receives progress events during a run.
type ProgressSink interface {
	Notify(Event)
}

// NoopSink satisfies environments with no live channel back to the caller.
type NoopSink struct{}

func (NoopSink) Notify(Event) {}

// LogSink writes progress events to the standard logger. Used by the CLI
// export command and as the server-side default.
type LogSink struct{}

func (LogSink) Notify(e Event) {
	if e.TotalBooks > 0 && e.Status == StatusProcessing {
		log.Printf("[EXPORT] %s (%d/%d, %d%%)", e.Message, e.CurrentBook, e.TotalBooks, e.Percent)
		return
	}
	log.Printf("[EXPORT] %s", e.Message)
}

var (
	_ ProgressSink = NoopSink{}
	_ ProgressSink = LogSink{}
)
