package metrics

import (
	"net/http"
	"strconv"
	"time"

	"hashgate/pkg/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hashgate"

const (
	DirectionConsume = "consume"
	DirectionPublish = "publish"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics owns a private registry so tests and multiple services in one
// process never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	userDataNormalized *prometheus.CounterVec
	fieldsHashed       *prometheus.CounterVec
	kafkaMessages      *prometheus.CounterVec
	kafkaDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		userDataNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_data_normalized_total",
			Help:      "Number of user data records normalized.",
		}, []string{"hashed"}),
		fieldsHashed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_hashed_total",
			Help:      "Number of identifier fields emitted in hashed form.",
		}, []string{"field"}),
		kafkaMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Number of Kafka messages consumed or published.",
		}, []string{"direction", "status"}),
		kafkaDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Time spent consuming or publishing a Kafka message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.userDataNormalized,
		m.fieldsHashed,
		m.kafkaMessages,
		m.kafkaDuration,
	)
	m.initSeries()

	return m
}

// initSeries exports every known label combination at zero so a scrape
// before the first event still lists the hashgate series.
func (m *Metrics) initSeries() {
	for _, hashed := range []bool{true, false} {
		m.userDataNormalized.WithLabelValues(strconv.FormatBool(hashed))
	}
	for _, field := range []string{model.FieldSHA256EmailAddress, model.FieldSHA256PhoneNumber} {
		m.fieldsHashed.WithLabelValues(field)
	}
	for _, direction := range []string{DirectionConsume, DirectionPublish} {
		for _, status := range []string{StatusSuccess, StatusFailure} {
			m.kafkaMessages.WithLabelValues(direction, status)
		}
		m.kafkaDuration.WithLabelValues(direction)
	}
}

func (m *Metrics) UserDataNormalized(hashed bool) {
	m.userDataNormalized.WithLabelValues(strconv.FormatBool(hashed)).Inc()
}

func (m *Metrics) FieldHashed(field string) {
	m.fieldsHashed.WithLabelValues(field).Inc()
}

func (m *Metrics) KafkaMessage(direction string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.kafkaMessages.WithLabelValues(direction, status).Inc()
	m.kafkaDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
