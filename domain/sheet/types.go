package sheet

import "fmt"

const (
	// MaxDataRows is the number of data rows kept from an upload; the rest are dropped.
	MaxDataRows = 21
	// PartCount is the number of output workbooks a dataset is split into.
	PartCount = 3

	XLSXExtension   = ".xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Row is one spreadsheet row. Cells hold string, float64, bool, time.Time or nil for blanks.
type Row []interface{}

// Dataset represents a decoded worksheet: the header row plus its data rows
type Dataset struct {
	Header []string // Column names, first row of the sheet
	Rows   []Row    // Data rows in sheet order
}

// RowCount returns the number of data rows (header excluded)
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Chunk is a contiguous run of data rows destined for one output workbook
type Chunk struct {
	Index int // 1-based position, also the output file stem
	Rows  []Row
}

// Len returns the number of data rows in the chunk
func (c Chunk) Len() int {
	return len(c.Rows)
}

// FileName returns the download name for the chunk, e.g. "2.xlsx"
func (c Chunk) FileName() string {
	return fmt.Sprintf("%d%s", c.Index, XLSXExtension)
}

// Download is a named, encoded workbook ready to hand back to the user
type Download struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
	Rows        int    `json:"rows"`
}
