// Package splitter partitions the data rows of a sheet into contiguous parts.
package splitter

import "sheetsplit/domain/sheet"

// Truncated returns how many of n data rows are kept
func Truncated(n int) int {
	if n < 0 {
		return 0
	}
	return min(n, sheet.MaxDataRows)
}

// ChunkSize returns the ceiling-bucket size used to split n kept rows
func ChunkSize(n int) int {
	n = Truncated(n)
	if n == 0 {
		return 0
	}
	return (n + sheet.PartCount - 1) / sheet.PartCount
}

// Split keeps the first MaxDataRows rows and cuts them into at most PartCount
// contiguous chunks. The first chunks are filled to ceil(n/PartCount) rows and the
// last one takes the remainder; slots that would start past the end are not emitted.
// Chunks share backing storage with rows and must be treated as read-only.
func Split(rows []sheet.Row) []sheet.Chunk {
	n := Truncated(len(rows))
	if n == 0 {
		return []sheet.Chunk{}
	}

	size := ChunkSize(n)
	chunks := make([]sheet.Chunk, 0, sheet.PartCount)
	for i := 0; i < sheet.PartCount; i++ {
		start := i * size
		if start >= n {
			break
		}
		end := min(start+size, n)
		chunks = append(chunks, sheet.Chunk{
			Index: i + 1,
			Rows:  rows[start:end:end],
		})
	}
	return chunks
}

// Bounds describes the row range a chunk covers, as 1-based data row numbers
type Bounds struct {
	Index int
	First int
	Last  int
	Rows  int
}

// Plan returns the ranges Split would produce for n data rows without touching any data
func Plan(n int) []Bounds {
	kept := Truncated(n)
	size := ChunkSize(kept)
	var plan []Bounds
	for i := 0; i < sheet.PartCount && size > 0; i++ {
		start := i * size
		if start >= kept {
			break
		}
		end := min(start+size, kept)
		plan = append(plan, Bounds{Index: i + 1, First: start + 1, Last: end, Rows: end - start})
	}
	return plan
}
