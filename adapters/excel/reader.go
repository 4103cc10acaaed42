package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
)

// Reader decodes uploaded Excel and CSV payloads into datasets
type Reader struct {
	config ReaderConfig
	logger *zap.Logger
}

// NewReader creates a new reader; a nil logger discards output
func NewReader(config ReaderConfig, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{config: config, logger: logger.Named("excel_reader")}
}

// Decode parses an uploaded file. The first row becomes the header and every
// following row a data row. Any failure is reported as a DecodeError.
func (r *Reader) Decode(filename string, data []byte) (*sheet.Dataset, error) {
	if len(data) == 0 {
		return nil, errors.DecodeError("uploaded file is empty", nil)
	}

	format := detectFormat(filename, data)
	r.logger.Debug("decoding upload",
		zap.String("filename", filename),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)))

	switch format {
	case formatLegacyXLS:
		return nil, errors.DecodeError("legacy .xls workbooks are not supported, save the file as .xlsx", nil)
	case formatCSV:
		return r.readCSVData(data)
	default:
		return r.readExcelData(data)
	}
}

// detectFormat sniffs the payload, falling back to the file extension for plain text
func detectFormat(filename string, data []byte) sourceFormat {
	mtype := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return formatXLSX
	case mtype.Is("application/vnd.ms-excel"), mtype.Is("application/x-ole-storage"):
		// Encrypted xlsx files are also OLE containers; let excelize report those.
		if ext == ".xls" {
			return formatLegacyXLS
		}
		return formatXLSX
	case mtype.Is("text/csv"):
		return formatCSV
	}

	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") && ext == ".csv" {
			return formatCSV
		}
	}
	if mtype.Is("application/zip") {
		return formatXLSX
	}
	return formatUnknown
}

// readExcelData reads the configured (or first) sheet of an xlsx payload
func (r *Reader) readExcelData(data []byte) (*sheet.Dataset, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.DecodeError("failed to open Excel file", err)
	}
	defer f.Close()

	sheetName := r.config.SheetName
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.DecodeError("workbook has no sheets", nil)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.DecodeError(fmt.Sprintf("failed to read sheet %q", sheetName), err)
	}
	headerIdx := firstNonBlankRecord(rows)
	if headerIdx < 0 {
		return nil, errors.DecodeError(fmt.Sprintf("sheet %q has no header row", sheetName), nil)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	header := r.headerFrom(rows[headerIdx], widestRecord(rows[headerIdx:]))
	dataRows := make([]sheet.Row, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := make(sheet.Row, len(header))
		for j, raw := range rows[i] {
			// GetRows index i is sheet row i+1.
			value, err := typedCell(f, sheetName, j+1, i+1, raw, date1904)
			if err != nil {
				return nil, errors.DecodeError(fmt.Sprintf("failed to read row %d", i+1), err)
			}
			row[j] = value
		}
		if isBlankRow(row) {
			continue
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Debug("sheet read",
		zap.String("sheet", sheetName),
		zap.Int("header_row", headerIdx+1),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(dataRows)),
		zap.Duration("elapsed", time.Since(startTime)))

	return &sheet.Dataset{Header: header, Rows: dataRows}, nil
}

// typedCell converts a raw cell value using the cell type and number format
func typedCell(f *excelize.File, sheetName string, col, row int, raw string, date1904 bool) (interface{}, error) {
	if raw == "" {
		return nil, nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return nil, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t, nil
		}
		return raw, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw, nil
		}
		if isDateCell(f, sheetName, ref) {
			t, err := excelize.ExcelDateToTime(num, date1904)
			if err != nil {
				return num, nil
			}
			return t.Round(time.Millisecond), nil
		}
		return num, nil
	default:
		return raw, nil
	}
}

// isDateCell reports whether the cell's style renders its number as a date
func isDateCell(f *excelize.File, sheetName, ref string) bool {
	styleID, err := f.GetCellStyle(sheetName, ref)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if builtinDateFormats[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt != nil {
		return looksLikeDateFormat(*style.CustomNumFmt)
	}
	return false
}

// looksLikeDateFormat checks a custom number format for date or time tokens outside
// quoted literals and bracketed sections
func looksLikeDateFormat(format string) bool {
	inQuote, inBracket := false, false
	for _, ch := range strings.ToLower(format) {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'y', ch == 'd', ch == 'h', ch == 's':
			return true
		}
	}
	return false
}

// readCSVData reads a CSV payload; every non-empty cell is kept as text
func (r *Reader) readCSVData(data []byte) (*sheet.Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.DecodeError("failed to read CSV file", err)
	}
	headerIdx := firstNonBlankRecord(records)
	if headerIdx < 0 {
		return nil, errors.DecodeError("CSV file has no header row", nil)
	}

	header := r.headerFrom(records[headerIdx], widestRecord(records[headerIdx:]))
	dataRows := make([]sheet.Row, 0, len(records)-headerIdx-1)
	for _, record := range records[headerIdx+1:] {
		row := make(sheet.Row, len(header))
		for j, cell := range record {
			if cell != "" {
				row[j] = cell
			}
		}
		if isBlankRow(row) {
			continue
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Debug("CSV read", zap.Int("columns", len(header)), zap.Int("rows", len(dataRows)))
	return &sheet.Dataset{Header: header, Rows: dataRows}, nil
}

// headerFrom builds a header of width columns; columns past the end of raw get blank names
func (r *Reader) headerFrom(raw []string, width int) []string {
	header := make([]string, width)
	for i, name := range raw {
		if r.config.TrimHeader {
			name = strings.TrimSpace(name)
		}
		header[i] = name
	}
	return header
}

// firstNonBlankRecord returns the index of the first record with a non-empty cell, or -1
func firstNonBlankRecord(records [][]string) int {
	for i, record := range records {
		for _, cell := range record {
			if cell != "" {
				return i
			}
		}
	}
	return -1
}

func widestRecord(records [][]string) int {
	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}
	return width
}

func isBlankRow(row sheet.Row) bool {
	for _, cell := range row {
		if cell != nil {
			return false
		}
	}
	return true
}
