package impact

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("pipeguard.impact")
	meter  = otel.Meter("pipeguard.impact")
)

var (
	analysisLatency metric.Float64Histogram
	analysisTotal   metric.Int64Counter
	affectedFiles   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"impact_analysis_duration_seconds",
			metric.WithDescription("Duration of impact analysis operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisTotal, err = meter.Int64Counter(
			"impact_analysis_total",
			metric.WithDescription("Total number of impact analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		affectedFiles, err = meter.Int64Histogram(
			"impact_affected_files",
			metric.WithDescription("Number of files referencing or matching a change"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startAnalysisSpan(ctx context.Context, op, target string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Analyzer."+op,
		trace.WithAttributes(
			attribute.String("impact.target", target),
		),
	)
}

func setAnalysisSpanResult(span trace.Span, level string, references int) {
	span.SetAttributes(
		attribute.String("impact.level", level),
		attribute.Int("impact.references", references),
	)
}

func setPreviewSpanResult(span trace.Span, files, occurrences int) {
	span.SetAttributes(
		attribute.Int("impact.total_files", files),
		attribute.Int("impact.total_occurrences", occurrences),
	)
}

func recordAnalysisMetrics(ctx context.Context, op string, duration time.Duration, files int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", op))
	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	analysisTotal.Add(ctx, 1, attrs)
	affectedFiles.Record(ctx, int64(files), attrs)
}
