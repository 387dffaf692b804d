package geoscape

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ftageo/basesim/internal/geoscape"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
