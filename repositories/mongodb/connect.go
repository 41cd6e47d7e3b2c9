package mongodb

import (
	// Go Internal Packages
	"context"
	"time"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect connects to the mongodb server and returns the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	timeout := time.Second * 5
	opts := &options.ClientOptions{ServerSelectionTimeout: &timeout}

	client, err := mongo.Connect(ctx, opts.ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping before handing the client out so misconfiguration fails fast.
	pingErr := client.Ping(ctx, nil)
	if pingErr != nil {
		return nil, pingErr
	}

	return client, nil
}
