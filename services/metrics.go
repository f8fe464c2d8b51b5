package services

import (
	"context"
	"time"

	aws_pkg "github.com/zirdl/bunubon/pkg/aws"
)

// recordValue publishes a metric in the background so request latency is not
// tied to CloudWatch.
func recordValue(m aws_pkg.MetricsRecorder, name string, value float64, dims map[string]string) {
	if m == nil || !m.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordValue(ctx, name, value, dims)
	}()
}

func recordCount(m aws_pkg.MetricsRecorder, name string, dims map[string]string) {
	if m == nil || !m.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordCount(ctx, name, dims)
	}()
}
