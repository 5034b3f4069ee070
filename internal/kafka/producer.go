// Package kafka publishes engine output records for downstream reporting
// consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// ProducerConfig contains configuration for the result publisher
type ProducerConfig struct {
	Brokers         []string
	StrategyTopic   string
	RiskMetricTopic string
	BatchTimeout    time.Duration
}

// Producer publishes strategies and risk metrics as JSON records
type Producer struct {
	strategies *kafkago.Writer
	metrics    *kafkago.Writer
	log        *logger.Logger
}

// NewProducer creates a result publisher
func NewProducer(config ProducerConfig) (*Producer, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.Configuration("no kafka brokers configured")
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 100 * time.Millisecond
	}

	newWriter := func(topic string) *kafkago.Writer {
		return &kafkago.Writer{
			Addr:         kafkago.TCP(config.Brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: config.BatchTimeout,
			RequiredAcks: kafkago.RequireAll,
		}
	}

	return &Producer{
		strategies: newWriter(config.StrategyTopic),
		metrics:    newWriter(config.RiskMetricTopic),
		log:        logger.GetLogger("kafka.producer"),
	}, nil
}

// PublishStrategy publishes a generated strategy keyed by its ID
func (p *Producer) PublishStrategy(ctx context.Context, strategy *models.Strategy) error {
	payload, err := json.Marshal(strategy)
	if err != nil {
		return errors.Wrap(err, "failed to encode strategy")
	}

	err = p.strategies.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strategy.ID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Errorf("failed to publish strategy %s: %v", strategy.ID, err)
		return errors.Wrap(err, "failed to publish strategy")
	}

	p.log.Debugf("published strategy %s (%s)", strategy.ID, strategy.Name)
	return nil
}

// PublishRiskMetrics publishes a simulated risk-metrics record keyed by
// strategy ID
func (p *Producer) PublishRiskMetrics(ctx context.Context, metrics *models.RiskMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return errors.Wrap(err, "failed to encode risk metrics")
	}

	err = p.metrics.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(metrics.StrategyID),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Errorf("failed to publish risk metrics for %s: %v", metrics.StrategyID, err)
		return errors.Wrap(err, "failed to publish risk metrics")
	}
	return nil
}

// Close flushes and closes the underlying writers
func (p *Producer) Close() error {
	if err := p.strategies.Close(); err != nil {
		return err
	}
	return p.metrics.Close()
}
