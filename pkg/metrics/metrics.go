package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор прометеевских счётчиков бота
type Metrics struct {
	UpdatesTotal      *prometheus.CounterVec
	BookingsCreated   prometheus.Counter
	BookingsCancelled *prometheus.CounterVec
	RemindersSent     prometheus.Counter
	NotifyFailures    prometheus.Counter
}

// New регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, serviceName)
}

// NewWith регистрирует метрики в переданном реестре.
// Тесты используют отдельный реестр, чтобы не конфликтовать между собой.
func NewWith(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	factory := promauto.With(reg)

	return &Metrics{
		UpdatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bot_updates_total",
			Help:        "Total number of handled transport updates",
			ConstLabels: labels,
		}, []string{"kind"}), // kind: message | callback
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of committed bookings",
			ConstLabels: labels,
		}),
		BookingsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Total number of cancelled bookings",
			ConstLabels: labels,
		}, []string{"by"}), // by: user | admin
		RemindersSent: factory.NewCounter(prometheus.CounterOpts{
			Name:        "reminders_sent_total",
			Help:        "Total number of day-before reminders sent",
			ConstLabels: labels,
		}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name:        "notify_failures_total",
			Help:        "Total number of failed outbound notifications",
			ConstLabels: labels,
		}),
	}
}
