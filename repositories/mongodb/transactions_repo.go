package mongodb

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// Local Packages
	models "mpesa-b2c/models"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
)

type TransactionsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewTransactionsRepository(client *mongo.Client, database string) *TransactionsRepository {
	return &TransactionsRepository{client: client, database: database, collection: "b2c_transactions"}
}

// InsertTransaction persists the transaction extracted from one successful
// gateway result callback.
func (r *TransactionsRepository) InsertTransaction(ctx context.Context, tx models.B2CTransaction) error {
	tx.CreatedAt = time.Now().UTC()

	collection := r.client.Database(r.database).Collection(r.collection)
	_, err := collection.InsertOne(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.TransactionID, err)
	}
	return nil
}
