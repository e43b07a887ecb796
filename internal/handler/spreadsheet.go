package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type column struct {
	Title string
	Width float64
}

type sheet struct {
	Name    string
	Columns []column
	Rows    [][]any
}

// writeWorkbook serves sheets as an xlsx workbook, or the first sheet as CSV
// when the request asks for format=csv.
func writeWorkbook(w http.ResponseWriter, r *http.Request, base string, sheets ...sheet) {
	stamp := time.Now().Format("20060102_150405")
	switch r.URL.Query().Get("format") {
	case "", "xlsx":
		data, err := buildXLSX(sheets)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeAttachment(w, contentTypeXLSX, fmt.Sprintf("%s_%s.xlsx", base, stamp), data)
	case "csv":
		data, err := buildCSV(sheets[0])
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeAttachment(w, contentTypeCSV, fmt.Sprintf("%s_%s.csv", base, stamp), data)
	default:
		writeError(w, http.StatusBadRequest, "format must be xlsx or csv")
	}
}

func buildCSV(s sheet) ([]byte, error) {
	buf := new(bytes.Buffer)
	cw := csv.NewWriter(buf)
	header := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Title
	}
	_ = cw.Write(header)
	for _, row := range s.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		_ = cw.Write(record)
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

func buildXLSX(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.Name); err != nil {
			return nil, err
		}
		for c, col := range s.Columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			_ = f.SetCellValue(s.Name, cell, col.Title)
			name, _ := excelize.ColumnNumberToName(c + 1)
			if col.Width > 0 {
				_ = f.SetColWidth(s.Name, name, name, col.Width)
			}
		}
		for r, row := range s.Rows {
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				_ = f.SetCellValue(s.Name, cell, v)
			}
		}
		if len(s.Columns) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(s.Columns), 1)
			_ = f.SetCellStyle(s.Name, "A1", last, style)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(sheets[0].Name); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
