// SPDX-License-Identifier: EPL-2.0

package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Stats is an in-process MeterProvider whose totals can be read back, so a
// command can print a summary at exit without running an exporter.
type Stats struct {
	Provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

func NewStats() *Stats {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return &Stats{Provider: mp, reader: reader}
}

// Install registers the provider as the global one, so DefaultMetrics
// records into it. Call it before the first DefaultMetrics.
func (s *Stats) Install() {
	otel.SetMeterProvider(s.Provider)
}

// Totals is the cumulative view of the pipeline counters.
type Totals struct {
	Files      int64
	Failed     int64
	Frames     int64
	Samples    int64
	Mismatches int64
}

func (s *Stats) Totals(ctx context.Context) (Totals, error) {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "pcmdenoise.files":
					t.Files += dp.Value
					if status, ok := dp.Attributes.Value("status"); ok && status.AsString() != "ok" {
						t.Failed += dp.Value
					}
				case "pcmdenoise.frames":
					t.Frames += dp.Value
				case "pcmdenoise.samples":
					t.Samples += dp.Value
				case "pcmdenoise.sample_rate.mismatch":
					t.Mismatches += dp.Value
				}
			}
		}
	}
	return t, nil
}

func (s *Stats) Shutdown(ctx context.Context) error {
	return s.Provider.Shutdown(ctx)
}
