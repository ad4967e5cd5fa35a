package http

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/weread-exporter/internal/utils"
)

// DownloadController serves generated export artifacts.
type DownloadController struct {
	outputDir string
}

func NewDownloadController(outputDir string) *DownloadController {
	return &DownloadController{outputDir: outputDir}
}

// Download streams one artifact as an attachment. The dir and file query
// parameters are the opaque tokens handed out by the extract endpoint;
// anything that could step outside the output directory is rejected.
func (dc *DownloadController) Download(c *gin.Context) {
	dir := c.Query("dir")
	file := c.Query("file")

	if !utils.IsSafeToken(dir) || !utils.IsSafeToken(file) {
		respondBadRequest(c, "invalid download reference")
		return
	}

	path := filepath.Join(dc.outputDir, dir, file)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		respondNotFound(c, "file")
		return
	}

	c.FileAttachment(path, file)
}
