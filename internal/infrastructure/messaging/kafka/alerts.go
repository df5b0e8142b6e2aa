package kafka

import (
	"context"
	"encoding/json"

	"github.com/gizitrack/stuntmap/internal/application/analytics"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// AlertSink publishes high-risk region alerts, one message per region,
// keyed by normalized region key so a topic consumer sees per-region
// ordering.
type AlertSink struct {
	producer *Producer
	logger   logging.Logger
}

// NewAlertSink builds an alert publisher over producer.
func NewAlertSink(producer *Producer, log logging.Logger) *AlertSink {
	return &AlertSink{producer: producer, logger: log.Named("alert-sink")}
}

// PublishHighRisk delivers every alert in the batch.  Delivery stops at the
// first failure; the caller treats any error as non-fatal for the pipeline.
func (s *AlertSink) PublishHighRisk(ctx context.Context, alerts []analytics.RegionAlert) error {
	for _, alert := range alerts {
		payload, err := json.Marshal(alert)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrCodeSerialization, "failed to serialize region alert")
		}
		if err := s.producer.Publish(ctx, []byte(alert.RegionKey), payload); err != nil {
			return err
		}
		s.logger.Info("published high-risk region alert",
			logging.String("alert_id", alert.ID),
			logging.String("region_key", alert.RegionKey),
			logging.Float64("percentage", alert.Percentage),
		)
	}
	return nil
}
