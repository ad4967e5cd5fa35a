package export

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/mrlokans/weread-exporter/internal/notes"
	"github.com/mrlokans/weread-exporter/internal/weread"
)

const (
	// Inter-book pacing is a provider-courtesy throttle, not a
	// correctness requirement. It shrinks when a time budget is set.
	defaultPacing = 1 * time.Second
	budgetPacing  = 200 * time.Millisecond
)

// Fetcher is the read surface of the WeRead client the pipeline drives.
type Fetcher interface {
	Notebooks(ctx context.Context, sess *weread.Session) ([]weread.Notebook, error)
	BookInfo(ctx context.Context, sess *weread.Session, bookID string) (weread.BookInfo, error)
	ChapterInfos(ctx context.Context, sess *weread.Session, bookID string) (map[int]weread.Chapter, error)
	Bookmarks(ctx context.Context, sess *weread.Session, bookID string) ([]weread.Bookmark, error)
	Reviews(ctx context.Context, sess *weread.Session, bookID string) ([]weread.Review, []weread.ReviewBody, error)
}

// Compile-time interface check
var _ Fetcher = (*weread.Client)(nil)

// BookExport is the aggregate of everything exported for one book.
type BookExport struct {
	BookInfo weread.Book        `json:"book_info"`
	ISBN     string             `json:"isbn"`
	Rating   float64            `json:"rating"`
	Notes    []notes.Annotation `json:"notes"`
	Summary  []weread.Review    `json:"summary"`
}

// Batch is the full in-memory result of one run, before serialization.
// It is owned exclusively by the pipeline until Run returns.
type Batch struct {
	Books      []BookExport
	TotalBooks int
	Truncated  bool
}

// NoteCount returns the number of annotations across all books.
func (b *Batch) NoteCount() int {
	count := 0
	for _, book := range b.Books {
		count += len(book.Notes)
	}
	return count
}

// Options tune one pipeline instance.
type Options struct {
	// Pacing is the delay between books. Zero selects the default.
	Pacing time.Duration
	// Budget bounds the run's wall-clock time, checked at book
	// boundaries. Zero means unlimited.
	Budget time.Duration
	// MaxBooks caps how many notebooks are processed. Zero means all.
	MaxBooks int
}

// Pipeline drives the per-book fetch-merge-decorate sequence across the
// notebook list. All fetches are sequential; the pacing delay already
// dominates latency, so per-book concurrency would only complicate
// failure isolation.
type Pipeline struct {
	fetcher Fetcher
	opts    Options
	metrics *Metrics

	sleep weread.SleepFunc
	now   func() time.Time
}

// NewPipeline creates a pipeline over the given fetcher. Metrics may be nil.
func NewPipeline(fetcher Fetcher, opts Options, metrics *Metrics) *Pipeline {
	if opts.Pacing == 0 {
		opts.Pacing = defaultPacing
		if opts.Budget > 0 {
			opts.Pacing = budgetPacing
		}
	}
	return &Pipeline{
		fetcher: fetcher,
		opts:    opts,
		metrics: metrics,
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
		now: time.Now,
	}
}

// Run fetches every notebook and aggregates its annotations into a batch.
// A failure while processing one book skips that book and continues; only
// a notebook-list failure aborts the run. When the time budget runs out
// mid-loop the partial batch is returned with Truncated set.
func (p *Pipeline) Run(ctx context.Context, sess *weread.Session, sink ProgressSink) (*Batch, error) {
	if sink == nil {
		sink = NoopSink{}
	}
	p.metrics.IncRun()
	start := p.now()
	defer func() {
		p.metrics.ObserveRun(p.now().Sub(start))
	}()

	sink.Notify(Event{Status: StatusFetchingBooks, Message: "Fetching the notebook list"})

	notebooks, err := p.fetcher.Notebooks(ctx, sess)
	if err != nil {
		sink.Notify(Event{Status: StatusError, Message: err.Error()})
		return nil, err
	}

	batch := &Batch{TotalBooks: len(notebooks)}
	if p.opts.MaxBooks > 0 && len(notebooks) > p.opts.MaxBooks {
		log.Printf("Capping run to %d of %d notebooks", p.opts.MaxBooks, len(notebooks))
		notebooks = notebooks[:p.opts.MaxBooks]
		batch.Truncated = true
	}

	total := len(notebooks)
	sink.Notify(Event{
		Status:     StatusStartProcessing,
		Message:    fmt.Sprintf("Processing %d books", total),
		TotalBooks: total,
	})

	for i, notebook := range notebooks {
		if ctx.Err() != nil {
			batch.Truncated = true
			return batch, ctx.Err()
		}
		if p.opts.Budget > 0 && p.now().Sub(start) > p.opts.Budget {
			log.Printf("Time budget exhausted after %d of %d books, returning partial batch", i, total)
			batch.Truncated = true
			break
		}

		current := i + 1
		book := notebook.Book
		if book.BookID == "" {
			book.BookID = notebook.BookID
		}
		sink.Notify(Event{
			Status:      StatusProcessing,
			Message:     fmt.Sprintf("Processing (%d/%d): %s", current, total, book.Title),
			BookTitle:   book.Title,
			CurrentBook: current,
			TotalBooks:  total,
			Percent:     percent(current, total),
		})

		export, err := p.processBook(ctx, sess, book)
		if err != nil {
			// Per-book faults are recoverable: skip the book, keep going.
			log.Printf("Skipping book %q: %v", book.Title, err)
			p.metrics.IncBookFailed()
			sink.Notify(Event{
				Status:  StatusProcessingDetail,
				Message: fmt.Sprintf("%s: failed, skipped (%v)", book.Title, err),
			})
			continue
		}

		batch.Books = append(batch.Books, export)
		p.metrics.IncBook()
		p.metrics.AddAnnotations(len(export.Notes))
		sink.Notify(Event{
			Status:  StatusProcessingDetail,
			Message: fmt.Sprintf("%s: %d annotations, %d summaries", book.Title, len(export.Notes), len(export.Summary)),
		})

		p.sleep(ctx, p.opts.Pacing)
	}

	return batch, nil
}

// processBook runs the fetch-merge-decorate sequence for a single book.
func (p *Pipeline) processBook(ctx context.Context, sess *weread.Session, book weread.Book) (BookExport, error) {
	info, err := p.fetcher.BookInfo(ctx, sess, book.BookID)
	if err != nil {
		return BookExport{}, fmt.Errorf("book info: %w", err)
	}

	chapters, err := p.fetcher.ChapterInfos(ctx, sess, book.BookID)
	if err != nil {
		return BookExport{}, fmt.Errorf("chapter table: %w", err)
	}

	bookmarks, err := p.fetcher.Bookmarks(ctx, sess, book.BookID)
	if err != nil {
		return BookExport{}, fmt.Errorf("bookmark list: %w", err)
	}

	summary, reviews, err := p.fetcher.Reviews(ctx, sess, book.BookID)
	if err != nil {
		return BookExport{}, fmt.Errorf("review list: %w", err)
	}

	merged := notes.Merge(bookmarks, reviews, chapters)
	if summary == nil {
		summary = []weread.Review{}
	}

	return BookExport{
		BookInfo: book,
		ISBN:     info.ISBN,
		Rating:   info.Rating,
		Notes:    merged,
		Summary:  summary,
	}, nil
}

func percent(current, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}
