package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DashboardMetrics expone contadores/histogramas de llamadas a la API,
// refrescos de colecciones y fetches del cache de mascotas.
type DashboardMetrics struct {
	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
	petCacheFetch *prometheus.CounterVec
}

func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	m := &DashboardMetrics{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petcheck",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total requests sent to the clinic API",
		}, []string{"op", "method", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "petcheck",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of clinic API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petcheck",
			Subsystem: "dashboard",
			Name:      "collection_refresh_total",
			Help:      "Collection refreshes by outcome",
		}, []string{"collection", "outcome"}),
		petCacheFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petcheck",
			Subsystem: "pet_cache",
			Name:      "fetch_total",
			Help:      "Per-customer pet fetches by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.apiRequests, m.apiLatency, m.refreshes, m.petCacheFetch)
	return m
}

// ObserveRequest implementa httpclient.Observer. status 0 = sin respuesta.
func (m *DashboardMetrics) ObserveRequest(op, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.apiRequests.WithLabelValues(op, method, label).Inc()
	m.apiLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *DashboardMetrics) ObserveRefresh(collection string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.refreshes.WithLabelValues(collection, outcome).Inc()
}

// ObservePetCacheFetch implementa pets.FetchRecorder.
func (m *DashboardMetrics) ObservePetCacheFetch(outcome string) {
	if m == nil {
		return
	}
	m.petCacheFetch.WithLabelValues(outcome).Inc()
}
