package exi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wippyai/iso20-exi/errors"
)

const (
	opDecode = "decode"
	opEncode = "encode"
)

// Metrics counts codec calls. A nil *Metrics records nothing.
type Metrics struct {
	documents *prometheus.CounterVec
	failures  *prometheus.CounterVec
	size      *prometheus.HistogramVec
}

// NewMetrics registers the codec collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		documents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "exi_documents_total",
			Help: "Total number of documents decoded or encoded, by root element.",
		}, []string{"op", "element"}),
		failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "exi_errors_total",
			Help: "Total number of failed decode or encode calls, by error kind.",
		}, []string{"op", "kind"}),
		size: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exi_document_bytes",
			Help:    "Size of EXI documents in bytes.",
			Buckets: prometheus.ExponentialBuckets(16, 2, 10),
		}, []string{"op"}),
	}
}

func (m *Metrics) observe(op, element string, size int) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(op, element).Inc()
	m.size.WithLabelValues(op).Observe(float64(size))
}

func (m *Metrics) fail(op string, err error) {
	if m == nil {
		return
	}
	kind := string(errors.KindOf(err))
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(op, kind).Inc()
}
