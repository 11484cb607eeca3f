package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsPublisher is the subset of the CloudWatch API used here
type MetricsPublisher interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics buffers metric datums and flushes them to CloudWatch.
// Publishing is best effort; a failed flush drops the batch.
type Metrics struct {
	namespace string
	client    MetricsPublisher

	mu     sync.Mutex
	buffer []types.MetricDatum
}

const flushThreshold = 20

// NewMetrics creates a metrics recorder for the given namespace
func NewMetrics(namespace string, client MetricsPublisher) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// RecordCount records a count metric with optional dimensions
func (m *Metrics) RecordCount(ctx context.Context, name string, value float64, dims map[string]string) {
	m.record(ctx, name, value, types.StandardUnitCount, dims)
}

// RecordDuration records a latency metric in milliseconds
func (m *Metrics) RecordDuration(ctx context.Context, name string, d time.Duration, dims map[string]string) {
	m.record(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dims)
}

// RecordCommand records the outcome and latency of a command execution
func (m *Metrics) RecordCommand(ctx context.Context, command string, d time.Duration, success bool) {
	dims := map[string]string{"Command": command}
	outcome := "CommandSuccess"
	if !success {
		outcome = "CommandFailure"
	}
	m.RecordCount(ctx, outcome, 1, dims)
	m.RecordDuration(ctx, "CommandLatency", d, dims)
}

func (m *Metrics) record(ctx context.Context, name string, value float64, unit types.StandardUnit, dims map[string]string) {
	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
	}
	for k, v := range dims {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	shouldFlush := len(m.buffer) >= flushThreshold
	m.mu.Unlock()

	if shouldFlush {
		m.Flush(ctx)
	}
}

// Flush publishes buffered datums to CloudWatch
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	batch := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	if len(batch) == 0 || m.client == nil {
		return
	}

	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: batch,
	})
}
