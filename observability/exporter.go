package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	DefaultServiceName = "xcontainer"

	serviceNameKey  = "service.name"
	exporterTypeKey = "xcontainer.exporter"
)

type exporterCfg struct {
	serviceName string
	attrs       []attribute.KeyValue
	stdoutOpts  []stdoutmetric.Option
	promOpts    []prometheus.Option
}

type ExporterOption func(*exporterCfg)

func WithExporterServiceName(name string) ExporterOption {
	return func(cfg *exporterCfg) {
		if len(name) > 0 {
			cfg.serviceName = name
		}
	}
}

// WithExporterResourceAttributes appends attributes to every exported metric,
// i.e. the host or the deployment of the process embedding the containers.
func WithExporterResourceAttributes(attrs ...attribute.KeyValue) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.attrs = append(cfg.attrs, attrs...)
	}
}

func WithStdoutOptions(opts ...stdoutmetric.Option) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.stdoutOpts = append(cfg.stdoutOpts, opts...)
	}
}

func WithPrometheusOptions(opts ...prometheus.Option) ExporterOption {
	return func(cfg *exporterCfg) {
		cfg.promOpts = append(cfg.promOpts, opts...)
	}
}

func newExporterCfg(opts ...ExporterOption) *exporterCfg {
	cfg := &exporterCfg{
		serviceName: DefaultServiceName,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// containerResource merges the sdk default resource with the service name and
// the exporter type, the user attributes win on conflict.
func containerResource(cfg *exporterCfg, exporterType string) (*resource.Resource, error) {
	attrs := make([]attribute.KeyValue, 0, len(cfg.attrs)+2)
	attrs = append(attrs,
		attribute.String(serviceNameKey, cfg.serviceName),
		attribute.String(exporterTypeKey, exporterType),
	)
	attrs = append(attrs, cfg.attrs...)
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// InitConsoleMetricsExporter installs a global meter provider which prints
// the container and allocator metrics periodically.
// Serves for test/dev environment.
func InitConsoleMetricsExporter(interval, timeout time.Duration, opts ...ExporterOption) (func(ctx context.Context) error, error) {
	cfg := newExporterCfg(opts...)
	res, err := containerResource(cfg, "console")
	if err != nil {
		return nil, err
	}
	exporter, err := stdoutmetric.New(cfg.stdoutOpts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(
			exporter,
			metric.WithInterval(interval),
			metric.WithTimeout(timeout),
		)),
	)
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// InitPrometheusMetricsExporter installs a global meter provider registered
// to the prometheus default registerer unless WithPrometheusOptions says else.
// Serves for the product environment and fetch stats metrics by HTTP.
func InitPrometheusMetricsExporter(opts ...ExporterOption) (func(ctx context.Context) error, error) {
	cfg := newExporterCfg(opts...)
	res, err := containerResource(cfg, "prometheus")
	if err != nil {
		return nil, err
	}
	exporter, err := prometheus.New(cfg.promOpts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(exporter),
	)
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}
