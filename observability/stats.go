package observability

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const containerAttrKey = "container"

// ContainerStats observes the size and the capacity of the registered
// containers at each collection.
type ContainerStats struct {
	size     metric.Int64ObservableUpDownCounter
	capacity metric.Int64ObservableUpDownCounter
	meter    metric.Meter
}

type ContainerStatsOption func(*containerStatsCfg)

type containerStatsCfg struct {
	provider metric.MeterProvider
}

func WithStatsMeterProvider(mp metric.MeterProvider) ContainerStatsOption {
	return func(cfg *containerStatsCfg) {
		cfg.provider = mp
	}
}

func NewContainerStats(name string, opts ...ContainerStatsOption) *ContainerStats {
	cfg := &containerStatsCfg{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}

	builder := &strings.Builder{}
	builder.WriteString("xcontainer/containers")
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	meter := cfg.provider.Meter(builder.String())
	return &ContainerStats{
		meter: meter,
		size: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"xcontainer.container.size",
			metric.WithDescription(`The number of elements of the container.`),
		)),
		capacity: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"xcontainer.container.capacity",
			metric.WithDescription(`The number of allocated slots of the container.`),
		)),
	}
}

// Observe registers a container, the capacity could be nil for a node based
// container. The size and capacity callbacks are called in the collection
// goroutine, the caller serializes them with the container mutations.
func (stats *ContainerStats) Observe(container string, size, capacity func() int64) (metric.Registration, error) {
	attrs := metric.WithAttributes(attribute.String(containerAttrKey, container))
	instruments := []metric.Observable{stats.size}
	if capacity != nil {
		instruments = append(instruments, stats.capacity)
	}
	return stats.meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		ob.ObserveInt64(stats.size, size(), attrs)
		if capacity != nil {
			ob.ObserveInt64(stats.capacity, capacity(), attrs)
		}
		return nil
	}, instruments...)
}
