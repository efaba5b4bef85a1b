package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner wraps callbacks in a Mongo session transaction. Requires
// a replica-set deployment (standalone mongod does not support transactions).
func NewMongoTxRunner(db *mongo.Database) TxRunner {
	return &mongoTxRunner{client: db.Client()}
}

func (r *mongoTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

type noTxRunner struct{}

// NewNoTxRunner runs the callback without a surrounding transaction, for
// deployments without replica sets and for tests. Callers that need
// atomicity across writes must compensate on failure themselves.
func NewNoTxRunner() TxRunner {
	return noTxRunner{}
}

func (noTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
