package otel

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds OTel configuration
type Config struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
	MetricWriter   io.Writer // File to write metrics to
	// Reader is an extra metric reader, e.g. a manual reader in tests.
	Reader sdkmetric.Reader
}

// Provider manages the OpenTelemetry meter provider
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates a new OTel provider with the given configuration.
// If OTel is disabled, returns a no-op provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{
		config: cfg,
	}

	if !cfg.Enabled {
		return p, nil
	}

	// Create resource with service name
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}

	if cfg.MetricWriter != nil {
		exporter, err := stdoutmetric.New(
			stdoutmetric.WithWriter(cfg.MetricWriter),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		var readerOpts []sdkmetric.PeriodicReaderOption
		if cfg.ExportInterval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.ExportInterval))
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)))
	}
	if cfg.Reader != nil {
		opts = append(opts, sdkmetric.WithReader(cfg.Reader))
	}

	if cfg.MetricWriter == nil && cfg.Reader == nil {
		return nil, fmt.Errorf("OTel enabled but no metric writer configured")
	}

	p.meterProvider = sdkmetric.NewMeterProvider(opts...)
	return p, nil
}

// SetGlobal installs the provider as the global meter provider, so packages
// using otel.Meter report through it. No-op when disabled.
func (p *Provider) SetGlobal() {
	if p.meterProvider != nil {
		otel.SetMeterProvider(p.meterProvider)
	}
}

// Meter returns a meter with the given name for creating metrics.
// Returns a no-op meter if OTel is not enabled.
func (p *Provider) Meter(name string) metric.Meter {
	if p.meterProvider == nil {
		return noop.Meter{}
	}
	return p.meterProvider.Meter(name)
}

// Flush forces an export of all pending metrics.
func (p *Provider) Flush(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metric flush failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the provider.
// Should be called when the application exits.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}
