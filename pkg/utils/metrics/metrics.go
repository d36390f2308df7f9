package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts upload and content-serving outcomes.
type Metrics interface {
	IncUploadAccepted(classification string)
	IncUploadRejected(reason string)
	IncContentServed(kind string)
	AddBytesServed(n int64)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) IncUploadAccepted(string) {}
func (Noop) IncUploadRejected(string) {}
func (Noop) IncContentServed(string)  {}
func (Noop) AddBytesServed(int64)     {}

// Prom implements Metrics backed by Prometheus counters.
type Prom struct {
	uploadsAccepted *prometheus.CounterVec
	uploadsRejected *prometheus.CounterVec
	contentServed   *prometheus.CounterVec
	bytesServed     prometheus.Counter
	once            sync.Once
}

func NewProm(namespace string) *Prom {
	p := &Prom{
		uploadsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_accepted_total",
			Help:      "Accepted archive uploads by classification",
		}, []string{"classification"}),
		uploadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Rejected archive uploads by reason",
		}, []string{"reason"}),
		contentServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_served_total",
			Help:      "Served content responses by kind (manifest or member)",
		}, []string{"kind"}),
		bytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_bytes_served_total",
			Help:      "Total content bytes handed to the transport layer",
		}),
	}
	p.register()
	return p
}

func (p *Prom) register() {
	p.once.Do(func() {
		prometheus.MustRegister(p.uploadsAccepted, p.uploadsRejected, p.contentServed, p.bytesServed)
	})
}

func (p *Prom) IncUploadAccepted(classification string) {
	p.uploadsAccepted.WithLabelValues(classification).Inc()
}

func (p *Prom) IncUploadRejected(reason string) {
	p.uploadsRejected.WithLabelValues(reason).Inc()
}

func (p *Prom) IncContentServed(kind string) {
	p.contentServed.WithLabelValues(kind).Inc()
}

func (p *Prom) AddBytesServed(n int64) {
	p.bytesServed.Add(float64(n))
}

// Handler returns an HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
