package notify

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/integrity-rating-api/pkg/config"
)

func TestNewKafkaPublisherPlainWriter(t *testing.T) {
	p := NewKafkaPublisher(config.NotificationConfig{Broker: "kafka:9092", Topic: "moderation-notifications"})
	require.NotNil(t, p.writer)
	assert.Equal(t, "moderation-notifications", p.writer.Topic)
	assert.Equal(t, kafka.RequireAll, p.writer.RequiredAcks)
	assert.Nil(t, p.writer.Transport)
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisherWithCredentialsUsesSASL(t *testing.T) {
	p := NewKafkaPublisher(config.NotificationConfig{Broker: "kafka:9093", Topic: "t", Username: "svc", Password: "pw"})
	transport, ok := p.writer.Transport.(*kafka.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.SASL)
	assert.NotNil(t, transport.TLS)
}

func TestNilPublisher(t *testing.T) {
	var p *KafkaPublisher
	assert.Error(t, p.Publish(context.Background(), []byte("k"), []byte("v")))
	assert.NoError(t, p.Close())
}
