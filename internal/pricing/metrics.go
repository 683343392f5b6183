package pricing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// calculationDuration tracks the time spent in pricing calculations.
	calculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_calculation_duration_seconds",
		Help:    "Time taken for pricing calculation by type",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"type"}) // type: quote, matrix

	// calculationErrors tracks rejected pricing requests.
	calculationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculation_errors_total",
		Help: "Total number of rejected pricing requests by type",
	}, []string{"type"})

	// orderQuantity tracks the distribution of quoted order quantities.
	orderQuantity = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_order_quantity",
		Help:    "Quantity of quoted orders",
		Buckets: []float64{25, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// savingsRatio tracks discounts as a fraction of the subtotal.
	savingsRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_savings_ratio",
		Help:    "Savings as a fraction of the order subtotal",
		Buckets: []float64{0.01, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
	})

	// matrixSize tracks the number of quantities per volume-pricing preview.
	matrixSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_matrix_quantities_count",
		Help:    "Number of quantities in volume-pricing previews",
		Buckets: []float64{1, 3, 5, 10, 20},
	})
)

// MetricsRecorder provides methods to record pricing engine metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordCalculationDuration records the duration of a pricing calculation.
func (m *MetricsRecorder) RecordCalculationDuration(calcType string, duration time.Duration) {
	calculationDuration.WithLabelValues(calcType).Observe(duration.Seconds())
}

// RecordCalculationError records a rejected pricing request.
func (m *MetricsRecorder) RecordCalculationError(calcType string) {
	calculationErrors.WithLabelValues(calcType).Inc()
}

// RecordQuantity records the quantity of a quoted order.
func (m *MetricsRecorder) RecordQuantity(quantity int) {
	orderQuantity.Observe(float64(quantity))
}

// RecordSavingsRatio records savings as a fraction of the subtotal.
func (m *MetricsRecorder) RecordSavingsRatio(ratio float64) {
	savingsRatio.Observe(ratio)
}

// RecordMatrixSize records the number of quantities in a preview.
func (m *MetricsRecorder) RecordMatrixSize(size int) {
	matrixSize.Observe(float64(size))
}
