package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes used as the "outcome" label value
const (
	OutcomeSplit       = "split"
	OutcomeEmpty       = "empty"
	OutcomeDecodeError = "decode_error"
	OutcomeEncodeError = "encode_error"
)

// Recorder counts processed uploads and produced workbooks
type Recorder struct {
	uploads            *prometheus.CounterVec
	rowsRead           prometheus.Counter
	rowsDropped        prometheus.Counter
	chunksWritten      prometheus.Counter
	processingDuration prometheus.Histogram
}

// NewRecorder creates the collectors and registers them on reg. A nil registerer
// leaves the collectors unregistered, which is what tests usually want.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheetsplit_uploads_total",
			Help: "Total number of uploads processed, by outcome",
		}, []string{"outcome"}),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsplit_rows_read_total",
			Help: "Total number of data rows decoded from uploads",
		}),
		rowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsplit_rows_dropped_total",
			Help: "Total number of data rows past the row cap that were discarded",
		}),
		chunksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sheetsplit_chunks_written_total",
			Help: "Total number of chunk workbooks encoded",
		}),
		processingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sheetsplit_processing_duration_seconds",
			Help:    "Duration of upload processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(r.uploads, r.rowsRead, r.rowsDropped, r.chunksWritten, r.processingDuration)
	}
	return r
}

// RecordUpload records one finished request
func (r *Recorder) RecordUpload(outcome string, rowsRead, rowsKept, chunks int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(outcome).Inc()
	r.rowsRead.Add(float64(rowsRead))
	if rowsRead > rowsKept {
		r.rowsDropped.Add(float64(rowsRead - rowsKept))
	}
	r.chunksWritten.Add(float64(chunks))
	r.processingDuration.Observe(elapsed.Seconds())
}
