package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	PinsCreated     metric.Int64Counter
	PinsSwept       metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("moodmap-backend")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pinsCreated, err := meter.Int64Counter(
		"pins.created.total",
		metric.WithDescription("Total pins admitted"),
	)
	if err != nil {
		return nil, err
	}

	pinsSwept, err := meter.Int64Counter(
		"pins.swept.total",
		metric.WithDescription("Total expired pins deleted by sweeps"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		PinsCreated:     pinsCreated,
		PinsSwept:       pinsSwept,
	}, nil
}

// RecordRequest records an HTTP request metric
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	m.RequestCounter.Add(context.Background(), 1, attrs)
	m.RequestDuration.Record(context.Background(), duration, attrs)
}

// RecordPinCreated increments the created-pins counter
func (m *Metrics) RecordPinCreated(pinType string) {
	if m == nil {
		return
	}
	m.PinsCreated.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("type", pinType)))
}

// RecordPinsSwept adds to the swept-pins counter
func (m *Metrics) RecordPinsSwept(count int64) {
	if m == nil || count == 0 {
		return
	}
	m.PinsSwept.Add(context.Background(), count)
}
