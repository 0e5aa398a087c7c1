package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"go.uber.org/zap"
)

// KafkaPublisher produces events to a single topic, keyed by subject so
// every event about one post or user lands on the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	doneCh   chan struct{}
}

// NewKafkaPublisher connects to brokers (comma separated) and makes sure the
// topic exists.
func NewKafkaPublisher(brokers []string, topic string, partitions int) (*KafkaPublisher, error) {
	bootstrap := strings.Join(brokers, ",")

	if err := ensureTopic(bootstrap, topic, partitions); err != nil {
		logger.Log.Warn("Failed to ensure kafka topic",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrap,
		"acks":              "1",
		"linger.ms":         5,
		"compression.type":  "snappy",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	kp := &KafkaPublisher{
		producer: p,
		topic:    topic,
		doneCh:   make(chan struct{}),
	}
	go kp.deliveryReportHandler()

	return kp, nil
}

func ensureTopic(brokers, topic string, partitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}})
	if err != nil {
		return err
	}

	for _, result := range results {
		code := result.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %v", result.Topic, result.Error)
		}
	}
	return nil
}

func (kp *KafkaPublisher) deliveryReportHandler() {
	for e := range kp.producer.Events() {
		if msg, ok := e.(*kafka.Message); ok && msg.TopicPartition.Error != nil {
			logger.Log.Warn("Kafka delivery failed",
				zap.String("topic", kp.topic),
				zap.ByteString("key", msg.Key),
				zap.Error(msg.TopicPartition.Error),
			)
		}
	}
	close(kp.doneCh)
}

func (kp *KafkaPublisher) Publish(_ context.Context, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &kp.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.Subject),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce event: %w", err)
	}
	return nil
}

func (kp *KafkaPublisher) Backend() string { return "kafka" }

// Close flushes queued events for up to five seconds.
func (kp *KafkaPublisher) Close() error {
	if remaining := kp.producer.Flush(5000); remaining > 0 {
		logger.Log.Warn("Kafka producer closed with undelivered events", zap.Int("remaining", remaining))
	}
	kp.producer.Close()
	<-kp.doneCh
	return nil
}
