package exporters

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/weread-exporter/internal/export"
	"github.com/mrlokans/weread-exporter/internal/notes"
	"github.com/mrlokans/weread-exporter/internal/weread"
)

func sampleBatch() []export.BookExport {
	return []export.BookExport{
		{
			BookInfo: weread.Book{BookID: "b1", Title: "深入理解计算机系统", Author: "Bryant"},
			ISBN:     "9787111544937",
			Rating:   9.2,
			Notes: []notes.Annotation{
				{
					Kind:         notes.KindHighlight,
					ChapterUID:   1,
					Range:        "100-150",
					CreateTime:   1700000000,
					ChapterTitle: "第一章",
					MarkText:     "A highlighted passage",
				},
				{
					Kind:         notes.KindNote,
					ChapterUID:   2,
					Range:        "30-40",
					CreateTime:   1700001000,
					ChapterTitle: "第二章",
					MarkText:     "My own thought",
					Abstract:     "The quoted passage",
					ReviewID:     "r1",
				},
			},
			Summary: []weread.Review{},
		},
		{
			BookInfo: weread.Book{BookID: "b2", Title: "Empty Book", Author: "Nobody"},
			Notes:    []notes.Annotation{},
			Summary:  []weread.Review{},
		},
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, sampleBatch()))

	var decoded []export.BookExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded, 2)
	for i, want := range sampleBatch() {
		assert.Equal(t, want.BookInfo.BookID, decoded[i].BookInfo.BookID)
		assert.Equal(t, want.ISBN, decoded[i].ISBN)
		assert.Len(t, decoded[i].Notes, len(want.Notes))
	}
}

func TestJSONExporter_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, sampleBatch()))

	out := buf.String()
	for _, field := range []string{`"book_info"`, `"isbn"`, `"rating"`, `"notes"`, `"summary"`, `"chapter_title"`, `"markText"`} {
		assert.Contains(t, out, field)
	}
	// CJK text stays readable, not escaped.
	assert.Contains(t, out, "深入理解计算机系统")
}

func TestJSONExporter_NilBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONExporter{}.Export(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(defaultSheetName)
	require.NoError(t, err)
	return rows
}

func TestExcelExporter_FlattensAnnotations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExcelExporter{}.Export(&buf, sampleBatch()))

	rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 3)

	assert.Equal(t, excelHeaders, rows[0])

	highlightRow := rows[1]
	assert.Equal(t, "深入理解计算机系统", highlightRow[0])
	assert.Equal(t, "Bryant", highlightRow[1])
	assert.Equal(t, "第一章", highlightRow[2])
	assert.Equal(t, "A highlighted passage", highlightRow[3])
	assert.Equal(t, time.Unix(1700000000, 0).Format(timeLayout), highlightRow[5])

	noteRow := rows[2]
	assert.Equal(t, "The quoted passage", noteRow[3])
	assert.Equal(t, "My own thought", noteRow[4])
}

func TestExcelExporter_IsIdempotent(t *testing.T) {
	var first, second bytes.Buffer
	batch := sampleBatch()
	require.NoError(t, ExcelExporter{}.Export(&first, batch))
	require.NoError(t, ExcelExporter{}.Export(&second, batch))

	assert.Equal(t, readRows(t, first.Bytes()), readRows(t, second.Bytes()))
}

func TestExcelExporter_EmptyBatchFallbackRow(t *testing.T) {
	batch := []export.BookExport{
		{BookInfo: weread.Book{BookID: "b1", Title: "No Notes"}, Notes: []notes.Annotation{}},
	}

	var buf bytes.Buffer
	require.NoError(t, ExcelExporter{}.Export(&buf, batch))

	rows := readRows(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Empty(t, strings.Join(rows[1], ""))
}

func TestWriteArtifacts(t *testing.T) {
	outputDir := t.TempDir()
	ts := time.Unix(1700000000, 0)

	artifacts, err := WriteArtifacts(outputDir, ts, sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, "weread_notes_1700000000.json", artifacts.JSONFile)
	assert.Equal(t, "weread_notes_1700000000.xlsx", artifacts.ExcelFile)
	require.NotEmpty(t, artifacts.Dir)
	assert.NotContains(t, artifacts.Dir, string(filepath.Separator))

	for _, name := range []string{artifacts.JSONFile, artifacts.ExcelFile} {
		info, err := os.Stat(filepath.Join(outputDir, artifacts.Dir, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteArtifacts_SeparateRunDirs(t *testing.T) {
	outputDir := t.TempDir()
	ts := time.Unix(1700000000, 0)

	first, err := WriteArtifacts(outputDir, ts, nil)
	require.NoError(t, err)
	second, err := WriteArtifacts(outputDir, ts, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir, second.Dir)
}
