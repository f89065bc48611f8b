// monitor/monitor.go
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	DatagramsReceived prometheus.Counter
	DatagramsSent     prometheus.Counter
	DecodeFailures    prometheus.Counter
	RoundsSettled     prometheus.Counter
	Capital           prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		DatagramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datagrams_received_total",
			Help:      "Total number of datagrams received",
		}),
		DatagramsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datagrams_sent_total",
			Help:      "Total number of datagrams sent",
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Total number of inbound datagrams dropped as undecodable",
		}),
		RoundsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_settled_total",
			Help:      "Total number of settled rounds",
		}),
		Capital: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "capital",
			Help:      "Current player capital",
		}),
	}

	prometheus.MustRegister(
		m.DatagramsReceived,
		m.DatagramsSent,
		m.DecodeFailures,
		m.RoundsSettled,
		m.Capital,
	)

	return m
}

type Monitor struct {
	metrics *Metrics
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics: NewMetrics(namespace),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncDatagramsReceived() {
	m.metrics.DatagramsReceived.Inc()
}

func (m *Monitor) IncDatagramsSent() {
	m.metrics.DatagramsSent.Inc()
}

func (m *Monitor) IncDecodeFailures() {
	m.metrics.DecodeFailures.Inc()
}

func (m *Monitor) IncRoundsSettled() {
	m.metrics.RoundsSettled.Inc()
}

func (m *Monitor) SetCapital(capital int) {
	m.metrics.Capital.Set(float64(capital))
}
