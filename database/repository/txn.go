package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a function as one atomic unit of work. Every store
// mutation performed through the ctx handed to fn commits or aborts together;
// fn returning an error aborts the whole unit.
type TxnRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// txnTimeout bounds a single transaction attempt so a contended claim
// surfaces a failure instead of hanging.
const txnTimeout = 10 * time.Second

// MongoTxnRunner implements TxnRunner on a MongoDB session. Repositories
// called with the session context participate in the same transaction.
type MongoTxnRunner struct {
	client *mongo.Client
}

// NewMongoTxnRunner constructs a TxnRunner bound to the given client.
func NewMongoTxnRunner(client *mongo.Client) *MongoTxnRunner {
	return &MongoTxnRunner{client: client}
}

func (r *MongoTxnRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, txnTimeout)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
