// SPDX-License-Identifier: EPL-2.0

// Package observe holds the OpenTelemetry metric instruments recorded by the
// pipeline. Instruments come from whatever MeterProvider is installed
// globally unless a caller builds its own with NewMetrics; without an SDK
// they are no-ops.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ik5/pcmdenoise"

// Metrics is safe for concurrent use; the OTel instruments synchronise
// themselves.
type Metrics struct {
	// Frames counts frames passed through a transform.
	Frames metric.Int64Counter

	// Samples counts PCM samples written to output files.
	Samples metric.Int64Counter

	// Files counts finished runs. Use with attribute.String("status", ...).
	Files metric.Int64Counter

	// RunDuration tracks wall time of a single file run.
	RunDuration metric.Float64Histogram

	// MeanVAD records the mean voice-activity probability of each file.
	MeanVAD metric.Float64Histogram

	// RateMismatches counts inputs whose sample rate differs from the
	// transform's. Use with attribute.String("policy", ...).
	RateMismatches metric.Int64Counter
}

var runBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300,
}

var vadBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("pcmdenoise.frames",
		metric.WithDescription("Frames passed through the transform."),
	); err != nil {
		return nil, err
	}
	if met.Samples, err = m.Int64Counter("pcmdenoise.samples",
		metric.WithDescription("PCM samples written to output files."),
	); err != nil {
		return nil, err
	}
	if met.Files, err = m.Int64Counter("pcmdenoise.files",
		metric.WithDescription("Processed files by status."),
	); err != nil {
		return nil, err
	}
	if met.RunDuration, err = m.Float64Histogram("pcmdenoise.run.duration",
		metric.WithDescription("Wall time of one file run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(runBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MeanVAD, err = m.Float64Histogram("pcmdenoise.vad.mean",
		metric.WithDescription("Mean voice-activity probability per file."),
		metric.WithExplicitBucketBoundaries(vadBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RateMismatches, err = m.Int64Counter("pcmdenoise.sample_rate.mismatch",
		metric.WithDescription("Inputs whose sample rate differs from the transform's."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built from
// otel.GetMeterProvider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordFile records the outcome of one file run in a single call.
func (m *Metrics) RecordFile(ctx context.Context, status string, seconds float64, frames int, samples int64, meanVAD float64) {
	m.Files.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.RunDuration.Record(ctx, seconds)
	if frames > 0 {
		m.Frames.Add(ctx, int64(frames))
		m.Samples.Add(ctx, samples)
		m.MeanVAD.Record(ctx, meanVAD)
	}
}

func (m *Metrics) RecordRateMismatch(ctx context.Context, policy string) {
	m.RateMismatches.Add(ctx, 1, metric.WithAttributes(attribute.String("policy", policy)))
}
