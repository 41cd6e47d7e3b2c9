package kafka

import (
	// Go Internal Packages
	"context"
	"errors"
	"fmt"

	// Local Packages
	models "mpesa-b2c/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ConsumerConfig struct {
	Brokers        []string
	Name           string
	ResultsTopic   string
	TimeoutsTopic  string
	RecordsPerPoll int
}

// CallbackProcessor applies gateway callbacks to payment records.
type CallbackProcessor interface {
	ProcessResult(ctx context.Context, value []byte) error
	ProcessTimeout(ctx context.Context, value []byte) error
}

// DeadLetter stores callback records that could not be applied.
type DeadLetter interface {
	Send(ctx context.Context, records []models.Record) error
}

type Consumer struct {
	Client    *kgo.Client
	Config    *ConsumerConfig
	Processor CallbackProcessor
	DLQueue   DeadLetter
	Logger    *zap.Logger
}

// NewResultsConsumer creates a consumer over the result and queue-timeout
// topics (PS: Must call Poll to start consuming the records)
func NewResultsConsumer(conf *ConsumerConfig, logger *zap.Logger, processor CallbackProcessor, dlQueue DeadLetter, metrics *kprom.Metrics) (*Consumer, error) {
	c := &Consumer{Config: conf, Processor: processor, DLQueue: dlQueue, Logger: logger}

	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),                          // Connects to Kafka brokers
		kgo.ConsumerGroup(conf.Name),                              // Specifies the consumer group
		kgo.ConsumeTopics(conf.ResultsTopic, conf.TimeoutsTopic),  // Both callback topics
		kgo.WithHooks(metrics),                                    // Attaches monitoring hooks
		kgo.DisableAutoCommit(),                                   // Disables auto-commit
		kgo.BlockRebalanceOnPoll(),                                // Blocks rebalancing until the poll loop is running
	}

	client, err := kgo.NewClient(opts...)
	if err != nil || client == nil {
		return nil, err
	}

	c.Client = client
	return c, nil
}

// Poll polls callback records and applies them in order. A record that
// fails to apply goes to the dead-letter store so a bad callback never
// stalls the stream.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.Client.Close()

	consumerName := c.Config.Name
	recordsPerPoll := c.Config.RecordsPerPoll

	for {
		// Check if the context is canceled before polling
		if ctx.Err() != nil {
			c.Logger.Warn("Polling stopped: context canceled")
			return ctx.Err()
		}

		c.Logger.Info(fmt.Sprintf("%s: polling for callback records", consumerName))
		fetches := c.Client.PollRecords(ctx, recordsPerPoll)

		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if errors.Is(fetches.Err0(), context.Canceled) {
			return errors.New("context got canceled")
		}

		var failed []models.Record
		for _, record := range fetches.Records() {
			err := c.process(ctx, record)
			if err != nil {
				c.Logger.Error("failed to apply callback record",
					zap.String("topic", record.Topic), zap.Error(err))
				failed = append(failed, models.Record{
					Key:   record.Key,
					Value: record.Value,
					Topic: record.Topic,
				})
			}
		}

		if len(failed) > 0 {
			if err := c.DLQueue.Send(ctx, failed); err != nil {
				c.Logger.Error("failed to dead-letter callback records", zap.Error(err))
			}
		}

		// Commit processed records
		_ = c.Client.CommitRecords(ctx, fetches.Records()...)
	}
}

func (c *Consumer) process(ctx context.Context, record *kgo.Record) error {
	if record.Topic == c.Config.TimeoutsTopic {
		return c.Processor.ProcessTimeout(ctx, record.Value)
	}
	return c.Processor.ProcessResult(ctx, record.Value)
}
