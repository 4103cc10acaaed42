package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sheetsplit/domain/core"
	"sheetsplit/domain/sheet"
	"sheetsplit/internal/errors"
	"sheetsplit/internal/metrics"
	"sheetsplit/internal/splitter"
	"sheetsplit/ports"
)

// MessageLevel classifies a user-facing message
type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelInfo    MessageLevel = "info"
	LevelWarning MessageLevel = "warning"
	LevelError   MessageLevel = "error"
)

// Message is a line of feedback shown next to the upload form
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// Upload is the raw file handed over by a presentation layer
type Upload struct {
	Filename string
	Data     []byte
}

// ChunkSummary describes one produced file without its bytes
type ChunkSummary struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// Result is everything a presentation layer needs to answer one upload
type Result struct {
	TotalRows int              `json:"total_rows"`
	Chunks    []ChunkSummary   `json:"chunks"`
	Messages  []Message        `json:"messages"`
	Downloads []sheet.Download `json:"downloads"`
}

// HasWarnings reports whether any warning was raised
func (r *Result) HasWarnings() bool {
	for _, m := range r.Messages {
		if m.Level == LevelWarning {
			return true
		}
	}
	return false
}

// SplitService decodes an upload, splits its rows and encodes each part
type SplitService struct {
	decoder ports.DatasetDecoder
	encoder ports.ChunkEncoder
	metrics ports.UploadMetrics
	logger  *zap.Logger
}

// NewSplitService creates a new split service; metrics and logger may be nil
func NewSplitService(decoder ports.DatasetDecoder, encoder ports.ChunkEncoder, recorder ports.UploadMetrics, logger *zap.Logger) *SplitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SplitService{
		decoder: decoder,
		encoder: encoder,
		metrics: recorder,
		logger:  logger.Named("split_service"),
	}
}

// Handle processes one upload from start to finish. On a decode or encode failure
// the returned Result carries a single error message and no downloads, and the
// error is returned as well.
func (s *SplitService) Handle(ctx context.Context, upload Upload) (*Result, error) {
	start := time.Now()
	log := s.logger.With(
		zap.String("filename", upload.Filename),
		zap.Int("bytes", len(upload.Data)),
		zap.String("fingerprint", core.NewHash(upload.Data).Short()),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := s.decoder.Decode(upload.Filename, upload.Data)
	if err != nil {
		log.Warn("upload could not be decoded", zap.Error(err))
		s.record(metrics.OutcomeDecodeError, 0, 0, 0, start)
		return failed(err), err
	}

	total := ds.RowCount()
	result := &Result{
		TotalRows: total,
		Chunks:    []ChunkSummary{},
		Downloads: []sheet.Download{},
		Messages: []Message{{
			Level: LevelSuccess,
			Text:  fmt.Sprintf("File read, total data rows (excluding header): %d", total),
		}},
	}

	chunks := splitter.Split(ds.Rows)
	kept := splitter.Truncated(total)
	if len(chunks) == 0 {
		result.Messages = append(result.Messages, Message{
			Level: LevelWarning,
			Text:  "No data found (the file has no rows after the header).",
		})
		log.Info("upload has no data rows")
		s.record(metrics.OutcomeEmpty, total, kept, 0, start)
		return result, nil
	}

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dl, err := s.encoder.EncodeChunk(ds.Header, chunk)
		if err != nil {
			log.Error("chunk could not be encoded", zap.Int("chunk", chunk.Index), zap.Error(err))
			s.record(metrics.OutcomeEncodeError, total, kept, 0, start)
			return failed(err), err
		}
		result.Downloads = append(result.Downloads, dl)
		result.Chunks = append(result.Chunks, ChunkSummary{Name: dl.Name, Rows: chunk.Len()})
		result.Messages = append(result.Messages, Message{
			Level: LevelInfo,
			Text:  fmt.Sprintf("File %s - data rows: %d", dl.Name, chunk.Len()),
		})
	}

	log.Info("upload split",
		zap.Int("rows_read", total),
		zap.Int("rows_kept", kept),
		zap.Int("chunks", len(chunks)),
		zap.Duration("elapsed", time.Since(start)))
	s.record(metrics.OutcomeSplit, total, kept, len(chunks), start)
	return result, nil
}

func (s *SplitService) record(outcome string, rowsRead, rowsKept, chunks int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordUpload(outcome, rowsRead, rowsKept, chunks, time.Since(start))
}

// failed builds the single generic report shown for decode and encode failures
func failed(err error) *Result {
	return &Result{
		Chunks:    []ChunkSummary{},
		Downloads: []sheet.Download{},
		Messages: []Message{{
			Level: LevelError,
			Text:  fmt.Sprintf("Failed to read or process the spreadsheet: %v", err),
		}},
	}
}

// ErrorCode maps a Handle error to a stable code for API responses
func ErrorCode(err error) string {
	switch {
	case errors.IsDecodeError(err):
		return errors.CodeDecodeError
	case errors.IsEncodingError(err):
		return errors.CodeEncodingError
	default:
		return errors.GetCode(err)
	}
}
