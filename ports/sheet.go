package ports

import (
	"context"
	"time"

	"sheetsplit/domain/sheet"
)

// DatasetDecoder turns uploaded bytes into a dataset
type DatasetDecoder interface {
	Decode(filename string, data []byte) (*sheet.Dataset, error)
}

// ChunkEncoder serializes one chunk, repeating the header, into a named download
type ChunkEncoder interface {
	EncodeChunk(header []string, chunk sheet.Chunk) (sheet.Download, error)
}

// ResultStore holds a request's downloads in memory until the user fetches them
type ResultStore interface {
	Put(ctx context.Context, downloads []sheet.Download) (string, time.Time, error)
	Get(ctx context.Context, batchID, name string) (*sheet.Download, error)
	List(ctx context.Context, batchID string) ([]sheet.Download, error)
}

// UploadMetrics records the outcome of a processed upload
type UploadMetrics interface {
	RecordUpload(outcome string, rowsRead, rowsKept, chunks int, elapsed time.Duration)
}
