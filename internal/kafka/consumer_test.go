package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(config.KafkaConfig{
		Brokers:        []string{"k1:9092", "k2:9092"},
		GroupID:        "custsvc-audit",
		Topic:          "customer.events",
		MinBytes:       1,
		MaxBytes:       2,
		CommitInterval: 250,
	})

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Brokers)
	assert.Equal(t, "customer.events", c.Topic)
	assert.Equal(t, "custsvc-audit", c.GroupID)
	assert.Equal(t, 250*time.Millisecond, c.CommitInterval)
}

func TestCommitNothingIsNoop(t *testing.T) {
	c := NewConsumerFromConfig(Config{Brokers: []string{"127.0.0.1:1"}, Topic: "t", GroupID: "g"})
	defer c.Close()

	assert.NoError(t, c.Commit(context.Background()))
}
