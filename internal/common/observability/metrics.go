package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/bristermitten/hot-takes/internal/common/logger"
)

// Observability exports OpenTelemetry take metrics through Prometheus. A nil or
// zero value is usable and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	takeCounter   otelmetric.Int64Counter
	takeDuration  otelmetric.Float64Histogram
}

// New wires a meter provider to reg. A nil reg means the default Prometheus
// registerer. Failures are logged and yield a no-op Observability.
func New(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	takeCounter, _ := meter.Int64Counter(
		"takes.generated",
		otelmetric.WithDescription("Number of take requests by outcome"),
	)

	takeDuration, _ := meter.Float64Histogram(
		"takes.duration",
		otelmetric.WithDescription("Take generation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		takeCounter:   takeCounter,
		takeDuration:  takeDuration,
	}
}

// RecordTake counts one request. status is "success" or an error code.
func (o *Observability) RecordTake(ctx context.Context, surface, status string) {
	if o == nil || o.takeCounter == nil {
		return
	}
	o.takeCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("surface", surface),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, duration time.Duration, surface string) {
	if o == nil || o.takeDuration == nil {
		return
	}
	o.takeDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("surface", surface),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
