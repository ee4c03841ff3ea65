package metrics

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector
	gatherer      promclient.Gatherer

	// OTel meters and instruments
	meter         metric.Meter
	storedGauge   metric.Int64ObservableGauge
	importedCount metric.Int64Counter
	exportedCount metric.Int64Counter
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format.
// Metrics are registered on registry, a fresh registry keeps exporters independent.
func NewOTelExporter(collector Collector, registry *promclient.Registry) (*OTelExporter, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"bookshelf",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		gatherer:      registry,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.storedGauge, err = oe.meter.Int64ObservableGauge(
		"books.stored",
		metric.WithDescription("Number of books in the store"),
		metric.WithUnit("{books}"),
		metric.WithInt64Callback(oe.observeStored),
	)
	if err != nil {
		return fmt.Errorf("creating stored books gauge: %w", err)
	}

	oe.importedCount, err = oe.meter.Int64Counter(
		"books.imported",
		metric.WithDescription("Number of books created from CSV imports"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating imported books counter: %w", err)
	}

	oe.exportedCount, err = oe.meter.Int64Counter(
		"books.exported",
		metric.WithDescription("Number of books written to CSV exports"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating exported books counter: %w", err)
	}

	return nil
}

// observeStored is a callback that reports the number of stored books
func (oe *OTelExporter) observeStored(ctx context.Context, observer metric.Int64Observer) error {
	total, err := oe.collector.GetTotalBooks(ctx)
	if err != nil {
		return err
	}
	observer.Observe(total)
	return nil
}

// RecordImported adds n books to the import counter. outcome is "success" or "failure".
func (oe *OTelExporter) RecordImported(ctx context.Context, n int, outcome string) {
	oe.importedCount.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("import.outcome", outcome),
	))
}

// RecordExported adds n books to the export counter
func (oe *OTelExporter) RecordExported(ctx context.Context, n int) {
	oe.exportedCount.Add(ctx, int64(n))
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.gatherer, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
