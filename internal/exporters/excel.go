package exporters

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mrlokans/weread-exporter/internal/export"
	"github.com/mrlokans/weread-exporter/internal/notes"
)

const (
	defaultSheetName = "微信读书笔记"
	timeLayout       = "2006-01-02 15:04:05"
)

var excelHeaders = []string{"书名", "作者", "章节", "划线", "笔记", "创建时间"}

// ExcelExporter flattens every annotation across every book into one row
// of a single-sheet xlsx workbook.
type ExcelExporter struct {
	SheetName string
}

func (e ExcelExporter) Export(w io.Writer, books []export.BookExport) error {
	sheet := e.SheetName
	if sheet == "" {
		sheet = defaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, excelHeaders); err != nil {
		return err
	}

	rowNum := 2
	for _, book := range books {
		for _, annotation := range book.Notes {
			if err := writeRow(f, sheet, rowNum, annotationRow(book, annotation)); err != nil {
				return err
			}
			rowNum++
		}
	}

	// A batch with no annotations at all still yields one empty data row.
	if rowNum == 2 {
		if err := writeRow(f, sheet, rowNum, []string{"", "", "", "", "", ""}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "E", 24); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	if err := f.SetColWidth(sheet, "F", "F", 20); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// annotationRow flattens one annotation: a highlight fills the 划线 column,
// a note fills 笔记 with its quoted passage in 划线.
func annotationRow(book export.BookExport, annotation notes.Annotation) []string {
	highlightText := annotation.Text()
	noteText := ""
	if annotation.IsNote() {
		highlightText = annotation.Abstract
		if highlightText == "" {
			highlightText = annotation.Text()
		}
		noteText = annotation.Text()
	}

	return []string{
		book.BookInfo.Title,
		book.BookInfo.Author,
		annotation.ChapterTitle,
		highlightText,
		noteText,
		time.Unix(annotation.CreateTime, 0).Format(timeLayout),
	}
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
