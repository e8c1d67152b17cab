// Package metrics counts view operations performed by the CLI and exports
// them in the prometheus text format.
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	modeSingleLine = "single_line"
	modeMultiline  = "multiline"
)

// Metrics holds the prometheus collectors for view operations
type Metrics struct {
	checksumsTotal      prometheus.Counter
	checksumBytesTotal  prometheus.Counter
	textUpdatesTotal    *prometheus.CounterVec
	textWritesTotal     *prometheus.CounterVec
	copyOperationsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		checksumsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "embview_checksum_total",
				Help: "Total number of CRC-32 checksums computed",
			},
		),

		checksumBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "embview_checksum_bytes_total",
				Help: "Total number of bytes covered by computed checksums",
			},
		),

		textUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embview_text_updates_total",
				Help: "Total number of views updated from text",
			},
			[]string{"status"},
		),

		textWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embview_text_writes_total",
				Help: "Total number of views rendered as text",
			},
			[]string{"mode"},
		),

		copyOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embview_copy_total",
				Help: "Total number of array copy operations",
			},
			[]string{"status"},
		),
	}
}

// RecordChecksum records a checksum over size bytes
func (m *Metrics) RecordChecksum(size int) {
	m.checksumsTotal.Inc()
	m.checksumBytesTotal.Add(float64(size))
}

// RecordTextUpdate records an UpdateFromText call
func (m *Metrics) RecordTextUpdate(success bool) {
	m.textUpdatesTotal.WithLabelValues(status(success)).Inc()
}

// RecordTextWrite records a WriteToString call
func (m *Metrics) RecordTextWrite(multiline bool) {
	mode := modeSingleLine
	if multiline {
		mode = modeMultiline
	}
	m.textWritesTotal.WithLabelValues(mode).Inc()
}

// RecordCopy records a CopyFrom call
func (m *Metrics) RecordCopy(success bool) {
	m.copyOperationsTotal.WithLabelValues(status(success)).Inc()
}

// WriteTextfile writes everything g gathers to path, for the node exporter
// textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "metrics: write %s", path)
	}
	return nil
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}
