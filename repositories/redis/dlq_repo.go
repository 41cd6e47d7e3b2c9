package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	models "mpesa-b2c/models"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeadLetterQueue keeps result callbacks that could not be applied, keyed by
// the record key (the originator conversation id) for operator triage.
type DeadLetterQueue struct {
	client *redis.Client
	logger *zap.Logger
}

func NewDeadLetterQueue(client *redis.Client, logger *zap.Logger) *DeadLetterQueue {
	return &DeadLetterQueue{client: client, logger: logger}
}

// Send stores all failed callback records into Redis with the key as
// "b2c-result:{conversation_id}"
func (r *DeadLetterQueue) Send(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	successCount := 0
	for _, record := range records {
		jsonData, err := json.Marshal(record)
		if err != nil {
			r.logger.Error("failed to marshal callback record", zap.Error(err))
			continue
		}

		key := fmt.Sprintf("b2c-result:%s", record.Key)
		err = r.client.Set(ctx, key, jsonData, 0).Err()
		if err != nil {
			r.logger.Error("failed to store callback record", zap.String("key", key), zap.Error(err))
			continue
		}
		successCount++
	}

	if successCount > 0 {
		r.logger.Info("stored failed callback records", zap.Int("count", successCount))
	}

	return nil
}
