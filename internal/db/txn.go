package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a MongoDB session transaction. Operations
// inside fn must use the provided session context to join the transaction.
// If fn returns an error the transaction is aborted and nothing it wrote is
// visible; sentinel errors returned by fn pass through unwrapped so callers
// can match on them with errors.Is.
//
// The backing deployment must be a replica set for multi-document
// transactions to be available.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
