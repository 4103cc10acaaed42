package excel

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
)

// Writer encodes a header and data rows as a single-sheet xlsx workbook in memory
type Writer struct {
	config WriterConfig
	logger *zap.Logger
}

// NewWriter creates a new writer; a nil logger discards output
func NewWriter(config WriterConfig, logger *zap.Logger) *Writer {
	if config.SheetName == "" {
		config.SheetName = defaultSheet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{config: config, logger: logger.Named("excel_writer")}
}

// Encode returns the xlsx bytes for header followed by rows. No index column is
// added and zero rows still produce a header-only workbook. A cell that cannot be
// stored fails the whole encode with an EncodingError.
func (w *Writer) Encode(header []string, rows []sheet.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := w.config.SheetName
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, errors.EncodingError(fmt.Sprintf("invalid sheet name %q", sheetName), err)
		}
	}

	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.EncodingError("header too wide", err)
		}
		if err := f.SetCellStr(sheetName, cell, name); err != nil {
			return nil, errors.EncodingError(fmt.Sprintf("failed to write header cell %s", cell), err)
		}
	}

	for r, row := range rows {
		rowIdx := r + 2
		for c, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, errors.EncodingError("row too wide", err)
			}
			if err := checkCellValue(value); err != nil {
				return nil, errors.EncodingError(fmt.Sprintf("cannot write cell %s", cell), err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, errors.EncodingError(fmt.Sprintf("failed to write cell %s", cell), err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.EncodingError("failed to serialize workbook", err)
	}

	w.logger.Debug("workbook encoded",
		zap.Int("columns", len(header)),
		zap.Int("rows", len(rows)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// EncodeChunk encodes one chunk under the shared header and names it after the chunk
func (w *Writer) EncodeChunk(header []string, chunk sheet.Chunk) (sheet.Download, error) {
	data, err := w.Encode(header, chunk.Rows)
	if err != nil {
		return sheet.Download{}, errors.Wrapf(err, "failed to encode %s", chunk.FileName())
	}
	return sheet.Download{
		Name:        chunk.FileName(),
		ContentType: sheet.XLSXContentType,
		Data:        data,
		Rows:        chunk.Len(),
	}, nil
}

// checkCellValue accepts the primitive kinds a worksheet cell can hold
func checkCellValue(value interface{}) error {
	switch v := value.(type) {
	case string, bool, time.Time, time.Duration,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil
	case float32:
		return checkFloat(float64(v))
	case float64:
		return checkFloat(v)
	default:
		return fmt.Errorf("unsupported cell type %T", value)
	}
}

func checkFloat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("non-finite number %v", v)
	}
	return nil
}
