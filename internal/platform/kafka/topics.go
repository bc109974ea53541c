// Package kafka holds broker administration helpers shared by the producer and
// consumer packages.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// EnsureTopics creates any missing topics. Topics that already exist are not
// an error.
func EnsureTopics(ctx context.Context, brokers []string, partitions int32, replicationFactor int16, topics ...string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return fmt.Errorf("kafka admin: %w", err)
	}
	defer client.Close()

	resps, err := kadm.NewClient(client).CreateTopics(ctx, partitions, replicationFactor, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for topic, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", topic, resp.Err)
		}
	}
	return nil
}
