package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters exported by the planner. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	mealsPrepared     *prometheus.CounterVec
	sweepFailures     prometheus.Counter
	stockClamped      prometheus.Counter
	stockDeltaSkipped *prometheus.CounterVec
	listsGenerated    prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mealsPrepared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealplanner",
			Name:      "meals_prepared_total",
			Help:      "Meals transitioned to prepared, by trigger.",
		}, []string{"trigger"}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealplanner",
			Name:      "sweep_failures_total",
			Help:      "Meals the auto-mark sweep failed to prepare.",
		}),
		stockClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealplanner",
			Name:      "stock_clamped_total",
			Help:      "Stock decrements floored at zero.",
		}),
		stockDeltaSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealplanner",
			Name:      "stock_delta_skipped_total",
			Help:      "Stock changes not applied, by reason.",
		}, []string{"reason"}),
		listsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealplanner",
			Name:      "shopping_lists_generated_total",
			Help:      "Shopping lists regenerated.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.mealsPrepared, m.sweepFailures, m.stockClamped, m.stockDeltaSkipped, m.listsGenerated)
	}
	return m
}

func (m *Metrics) MealPrepared(trigger string) {
	if m == nil {
		return
	}
	m.mealsPrepared.WithLabelValues(trigger).Inc()
}

func (m *Metrics) SweepFailure() {
	if m == nil {
		return
	}
	m.sweepFailures.Inc()
}

func (m *Metrics) StockClamped() {
	if m == nil {
		return
	}
	m.stockClamped.Inc()
}

func (m *Metrics) StockDeltaSkipped(reason string) {
	if m == nil {
		return
	}
	m.stockDeltaSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) ShoppingListGenerated() {
	if m == nil {
		return
	}
	m.listsGenerated.Inc()
}
