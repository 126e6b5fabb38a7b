package alloc

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	AllocatorStatsName = "xcontainer/alloc"
)

type meteredAllocator[T any] struct {
	inner              Allocator[T]
	allocations        metric.Int64Counter
	deallocations      metric.Int64Counter
	liveSlots          metric.Int64UpDownCounter
	constructFailures  metric.Int64Counter
	allocationFailures metric.Int64Counter
}

func (a *meteredAllocator[T]) Allocate(n int) ([]T, error) {
	buf, err := a.inner.Allocate(n)
	if err != nil {
		a.allocationFailures.Add(context.Background(), 1)
		return nil, err
	}
	if len(buf) > 0 {
		a.allocations.Add(context.Background(), 1)
		a.liveSlots.Add(context.Background(), int64(len(buf)))
	}
	return buf, nil
}

func (a *meteredAllocator[T]) Deallocate(buf []T) {
	if len(buf) > 0 {
		a.deallocations.Add(context.Background(), 1)
		a.liveSlots.Add(context.Background(), -int64(len(buf)))
	}
	a.inner.Deallocate(buf)
}

func (a *meteredAllocator[T]) Construct(slot *T, val T) error {
	if err := a.inner.Construct(slot, val); err != nil {
		a.constructFailures.Add(context.Background(), 1)
		return err
	}
	return nil
}

func (a *meteredAllocator[T]) Destroy(slot *T) {
	a.inner.Destroy(slot)
}

func (a *meteredAllocator[T]) MaxSize() int {
	return a.inner.MaxSize()
}

type meteredCfg struct {
	provider metric.MeterProvider
	name     string
}

type MeteredAllocatorOption func(*meteredCfg)

func WithAllocatorMeterProvider(mp metric.MeterProvider) MeteredAllocatorOption {
	return func(cfg *meteredCfg) {
		cfg.provider = mp
	}
}

// WithAllocatorName is the meter name suffix, i.e. "xcontainer/alloc/<name>".
func WithAllocatorName(name string) MeteredAllocatorOption {
	return func(cfg *meteredCfg) {
		cfg.name = name
	}
}

// NewMeteredAllocator records the slot lifecycle of inner by the otel meter.
func NewMeteredAllocator[T any](inner Allocator[T], opts ...MeteredAllocatorOption) Allocator[T] {
	cfg := &meteredCfg{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}
	meterName := AllocatorStatsName
	if len(cfg.name) > 0 {
		meterName += "/" + cfg.name
	}
	if inner == nil {
		inner = NewStdAllocator[T]()
	}
	meter := cfg.provider.Meter(meterName)
	return &meteredAllocator[T]{
		inner: inner,
		allocations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xcontainer.alloc.allocations",
			metric.WithDescription("The number of successful slot allocations."),
		)),
		deallocations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xcontainer.alloc.deallocations",
			metric.WithDescription("The number of slot deallocations."),
		)),
		liveSlots: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xcontainer.alloc.live.slots",
			metric.WithDescription("The number of allocated but not yet deallocated slots."),
		)),
		constructFailures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xcontainer.alloc.construct.failures",
			metric.WithDescription("The number of failed element constructions."),
		)),
		allocationFailures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xcontainer.alloc.allocation.failures",
			metric.WithDescription("The number of failed slot allocations."),
		)),
	}
}
