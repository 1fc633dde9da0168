package events

import (
	"fmt"
	"time"

	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// NewPublisher builds the publisher named by cfg.Driver.
func NewPublisher(cfg utils.EventsConfig, log *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogPublisher(log), nil
	case "kafka":
		return NewKafkaPublisher(KafkaConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			RetryMax: cfg.RetryMax,
			Timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		}, log)
	case "rabbitmq":
		return NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPQueue, log)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
