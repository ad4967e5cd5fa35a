package exporters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/weread-exporter/internal/export"
)

// Artifacts identifies the files written for one run. Dir is the basename
// of the per-run directory under the output location; together with a
// filename it forms the opaque download token pair. A sink that failed
// leaves its filename empty.
type Artifacts struct {
	Dir       string
	JSONFile  string
	ExcelFile string
}

// WriteArtifacts serializes the batch through both sinks into a fresh
// per-run directory under outputDir. The sinks fail independently: one
// succeeding is not rolled back when the other errors, and the returned
// error joins whatever went wrong.
func WriteArtifacts(outputDir string, ts time.Time, books []export.BookExport) (Artifacts, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return Artifacts{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	runDir, err := os.MkdirTemp(outputDir, "run-")
	if err != nil {
		return Artifacts{}, fmt.Errorf("failed to create run directory: %w", err)
	}

	stamp := ts.Unix()
	artifacts := Artifacts{Dir: filepath.Base(runDir)}
	var errs []error

	jsonName := fmt.Sprintf("weread_notes_%d.json", stamp)
	if err := writeThrough(filepath.Join(runDir, jsonName), JSONExporter{}, books); err != nil {
		errs = append(errs, fmt.Errorf("json export: %w", err))
	} else {
		artifacts.JSONFile = jsonName
	}

	excelName := fmt.Sprintf("weread_notes_%d.xlsx", stamp)
	if err := writeThrough(filepath.Join(runDir, excelName), ExcelExporter{}, books); err != nil {
		errs = append(errs, fmt.Errorf("excel export: %w", err))
	} else {
		artifacts.ExcelFile = excelName
	}

	return artifacts, errors.Join(errs...)
}

// Sink serializes an export batch to a writer.
type Sink interface {
	Export(w io.Writer, books []export.BookExport) error
}

// Compile-time interface checks
var (
	_ Sink = JSONExporter{}
	_ Sink = ExcelExporter{}
)

func writeThrough(path string, sink Sink, books []export.BookExport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := sink.Export(file, books); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
