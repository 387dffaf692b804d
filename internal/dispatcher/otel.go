package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ftageo/basesim/internal/dispatcher"

// instruments count geoscape events per command. New uses the global meter
// provider, a no-op until one is installed.
type instruments struct {
	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	failed    metric.Int64Counter
}

func newInstruments(m metric.Meter, queueLens func(observe func(command string, n int))) (*instruments, error) {
	ins := &instruments{}

	var err error
	ins.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Geoscape events waiting in a buffered handler queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		queueLens(func(command string, n int) {
			o.ObserveInt64(ins.queueSize, int64(n), commandAttr(command))
		})
		return nil
	}, ins.queueSize)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&ins.processed, "dispatcher.events.processed", "Geoscape events handled by a buffered handler"},
		{&ins.dropped, "dispatcher.events.dropped", "Geoscape events dropped on a full queue"},
		{&ins.failed, "dispatcher.events.failed", "Buffered geoscape events whose handler returned an error"},
	}
	for _, c := range counters {
		if *c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}
	return ins, nil
}

func globalMeter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func commandAttr(command string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("command", command))
}

func (i *instruments) add(c metric.Int64Counter, command string) {
	c.Add(context.Background(), 1, commandAttr(command))
}
