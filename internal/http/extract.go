package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/weread-exporter/internal/database/runs"
	"github.com/mrlokans/weread-exporter/internal/entities"
	"github.com/mrlokans/weread-exporter/internal/export"
	"github.com/mrlokans/weread-exporter/internal/exporters"
	"github.com/mrlokans/weread-exporter/internal/weread"
)

// Extractor runs a full export for one cookie. Satisfied by
// services.ExportService.
type Extractor interface {
	Run(ctx context.Context, cookie, userAgent string, sink export.ProgressSink) (*export.Batch, error)
}

// ExtractResponse is returned for a successful export.
type ExtractResponse struct {
	Message   string        `json:"message"`
	BookCount int           `json:"book_count"`
	NoteCount int           `json:"note_count"`
	Truncated bool          `json:"truncated"`
	Warning   string        `json:"warning,omitempty"`
	RunID     uint          `json:"run_id,omitempty"`
	Files     DownloadLinks `json:"files"`
}

// DownloadLinks carries relative download URLs for the run's artifacts.
type DownloadLinks struct {
	JSON  string `json:"json,omitempty"`
	Excel string `json:"excel,omitempty"`
}

// ExtractController handles the synchronous export endpoint.
type ExtractController struct {
	extractor Extractor
	runs      *runs.Repository
	outputDir string
	now       func() time.Time

	writeArtifacts func(outputDir string, ts time.Time, books []export.BookExport) (exporters.Artifacts, error)
}

// NewExtractController creates the extract controller. The runs repository
// may be nil, in which case no history is recorded.
func NewExtractController(extractor Extractor, runsRepo *runs.Repository, outputDir string) *ExtractController {
	return &ExtractController{
		extractor:      extractor,
		runs:           runsRepo,
		outputDir:      outputDir,
		now:            time.Now,
		writeArtifacts: exporters.WriteArtifacts,
	}
}

// Extract runs a full export for the cookie in the request and responds
// with download links once both artifacts are written. The run blocks the
// request; progress goes to the server log.
func (ec *ExtractController) Extract(c *gin.Context) {
	cookie := strings.TrimSpace(c.PostForm("cookie"))
	if cookie == "" {
		respondBadRequest(c, "cookie is required")
		return
	}

	startedAt := ec.now()
	sink := export.LogSink{}

	// The caller's own browser identity is forwarded to WeRead so the
	// cookie and user agent stay paired.
	batch, err := ec.extractor.Run(c.Request.Context(), cookie, c.Request.UserAgent(), sink)
	if err != nil {
		ec.saveFailedRun(startedAt, err)
		switch {
		case errors.Is(err, weread.ErrEmptyCookie):
			respondBadRequest(c, "cookie contains no usable values")
		case errors.Is(err, weread.ErrWarmup):
			respondError(c, http.StatusBadGateway, "could not reach weread.qq.com, check connectivity and the cookie")
		default:
			respondError(c, http.StatusBadGateway, fmt.Sprintf("export failed: %v", err))
		}
		return
	}

	sink.Notify(export.Event{Status: export.StatusExporting, Message: "Writing export files"})

	artifacts, err := ec.writeArtifacts(ec.outputDir, startedAt, batch.Books)
	if err != nil && artifacts.JSONFile == "" && artifacts.ExcelFile == "" {
		ec.saveFailedRun(startedAt, err)
		respondInternalError(c, err, "write artifacts")
		return
	}

	sink.Notify(export.Event{Status: export.StatusCompleted, Message: "Export completed"})

	runID := ec.saveCompletedRun(startedAt, batch, artifacts)

	response := ExtractResponse{
		Message:   fmt.Sprintf("Exported %d books with %d annotations", len(batch.Books), batch.NoteCount()),
		BookCount: len(batch.Books),
		NoteCount: batch.NoteCount(),
		Truncated: batch.Truncated,
		RunID:     runID,
		Files:     downloadLinks(artifacts),
	}
	if batch.Truncated {
		response.Warning = "the run hit its limit before processing every book, results are partial"
	}

	c.JSON(http.StatusOK, response)
}

func downloadLinks(artifacts exporters.Artifacts) DownloadLinks {
	links := DownloadLinks{}
	if artifacts.JSONFile != "" {
		links.JSON = downloadURL(artifacts.Dir, artifacts.JSONFile)
	}
	if artifacts.ExcelFile != "" {
		links.Excel = downloadURL(artifacts.Dir, artifacts.ExcelFile)
	}
	return links
}

func downloadURL(dir, file string) string {
	q := url.Values{}
	q.Set("dir", dir)
	q.Set("file", file)
	return "/download?" + q.Encode()
}

func (ec *ExtractController) saveFailedRun(startedAt time.Time, runErr error) {
	if ec.runs == nil {
		return
	}
	run := &entities.ExportRun{
		Status:    entities.RunStatusFailed,
		Error:     runErr.Error(),
		StartedAt: startedAt,
	}
	if err := ec.runs.SaveRun(run); err != nil {
		// History is best-effort; the client still gets its error response.
		log.Printf("Failed to record export run: %v", err)
	}
}

func (ec *ExtractController) saveCompletedRun(startedAt time.Time, batch *export.Batch, artifacts exporters.Artifacts) uint {
	if ec.runs == nil {
		return 0
	}
	completedAt := ec.now()
	run := &entities.ExportRun{
		Status:      entities.RunStatusCompleted,
		BookCount:   len(batch.Books),
		NoteCount:   batch.NoteCount(),
		FailedBooks: batch.TotalBooks - len(batch.Books),
		Truncated:   batch.Truncated,
		ArtifactDir: artifacts.Dir,
		JSONFile:    artifacts.JSONFile,
		ExcelFile:   artifacts.ExcelFile,
		StartedAt:   startedAt,
		CompletedAt: &completedAt,
	}
	if err := ec.runs.SaveRun(run); err != nil {
		return 0
	}
	return run.ID
}
