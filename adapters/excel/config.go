package excel

// ReaderConfig holds configuration for decoding uploaded workbooks
type ReaderConfig struct {
	SheetName  string `json:"sheet_name"`  // Sheet to read; empty selects the first sheet
	TrimHeader bool   `json:"trim_header"` // Strip surrounding whitespace from column names
}

// DefaultReaderConfig returns sensible defaults for upload decoding
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		TrimHeader: true,
	}
}

// WriterConfig holds configuration for encoding chunk workbooks
type WriterConfig struct {
	SheetName string `json:"sheet_name"`
}

// DefaultWriterConfig returns the writer defaults: a single sheet named Sheet1
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		SheetName: defaultSheet,
	}
}
