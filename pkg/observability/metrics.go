package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

const metricNamespace = "Universe/Backend"

// MetricsRecorder publishes operational metrics to CloudWatch. Publishing is
// best effort; a metrics failure never fails the request.
type MetricsRecorder struct {
	client  *cloudwatch.Client
	enabled bool
	logger  *zap.Logger
}

// NewMetricsRecorder creates a CloudWatch metrics recorder
func NewMetricsRecorder(client *cloudwatch.Client, enabled bool, logger *zap.Logger) *MetricsRecorder {
	return &MetricsRecorder{
		client:  client,
		enabled: enabled,
		logger:  logger,
	}
}

// CountTransfer records a committed or rejected coin movement
func (m *MetricsRecorder) CountTransfer(ctx context.Context, kind string, succeeded bool) {
	outcome := "rejected"
	if succeeded {
		outcome = "committed"
	}
	m.put(ctx, "TransferCount", 1, types.StandardUnitCount,
		dimension("Kind", kind),
		dimension("Outcome", outcome),
	)
}

// CountNodeCreated records a published or branched idea
func (m *MetricsRecorder) CountNodeCreated(ctx context.Context, root bool) {
	kind := "branch"
	if root {
		kind = "root"
	}
	m.put(ctx, "NodeCreatedCount", 1, types.StandardUnitCount, dimension("Kind", kind))
}

// RecordLatency records an operation duration
func (m *MetricsRecorder) RecordLatency(ctx context.Context, operation string, d time.Duration) {
	m.put(ctx, "OperationLatency", float64(d.Milliseconds()), types.StandardUnitMilliseconds,
		dimension("Operation", operation),
	)
}

func (m *MetricsRecorder) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dims ...types.Dimension) {
	if !m.enabled || m.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricNamespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("failed to publish metric",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}

func dimension(name, value string) types.Dimension {
	return types.Dimension{
		Name:  aws.String(name),
		Value: aws.String(value),
	}
}
