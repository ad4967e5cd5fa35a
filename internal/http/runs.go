package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/weread-exporter/internal/database/runs"
)

// RunsController exposes export run history.
type RunsController struct {
	runs *runs.Repository
}

func NewRunsController(runsRepo *runs.Repository) *RunsController {
	return &RunsController{runs: runsRepo}
}

// List returns recent runs, newest first. The optional limit query
// parameter caps the result.
func (rc *RunsController) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondBadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	history, err := rc.runs.RecentRuns(limit)
	if err != nil {
		respondInternalError(c, err, "list runs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": history, "count": len(history)})
}
