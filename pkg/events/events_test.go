package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"venue-booking/pkg/utils"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got Event
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != TypeBookingCreated || got.Key != "user-1" {
			return errors.New("unexpected event body")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "venue-booking.events", zap.NewNop())
	err := pub.Publish(context.Background(), NewEvent(TypeBookingCreated, "user-1", map[string]string{"booking_id": "b1"}))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "venue-booking.events", zap.NewNop())
	err := pub.Publish(context.Background(), NewEvent(TypeBookingDeleted, "user-2", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, "t", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, NewEvent(TypeNotificationToast, "u", nil))
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNewSaramaConfig(t *testing.T) {
	cfg := NewSaramaConfig(KafkaConfig{RetryMax: 5})

	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.Equal(t, 5, cfg.Producer.Retry.Max)
	assert.NotNil(t, cfg.Producer.Partitioner)
}

func TestNewPublisher(t *testing.T) {
	pub, err := NewPublisher(utils.EventsConfig{Driver: "log"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), NewEvent(TypeBookingCreated, "k", nil)))

	_, err = NewPublisher(utils.EventsConfig{Driver: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}
