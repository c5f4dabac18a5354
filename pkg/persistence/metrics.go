package persistence

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeBegin         = "begin"
	outcomeBeginError    = "begin_error"
	outcomeCommit        = "commit"
	outcomeCommitError   = "commit_error"
	outcomeRollback      = "rollback"
	outcomeRollbackError = "rollback_error"
)

// Metrics считает исходы транзакций единиц работы.
// Нулевой указатель допустим и ничего не считает.
type Metrics struct {
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volleymatch",
			Subsystem: "uow",
			Name:      "transactions_total",
			Help:      "Unit of work transaction lifecycle events by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "volleymatch",
			Subsystem: "uow",
			Name:      "transaction_duration_seconds",
			Help:      "Time between begin and commit or rollback.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{m.transactions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Transactions возвращает счетчик для исхода outcome.
func (m *Metrics) Transactions(outcome string) prometheus.Counter {
	return m.transactions.WithLabelValues(outcome)
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDuration(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}
