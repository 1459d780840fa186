package repository

import (
	"context"
	"errors"

	"github.com/worshipkit/planner/apperr"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// TxRunner wraps every invariant-sensitive read-modify-write in a mongo
// session transaction, so concurrent mutations against the same parent
// document serialize and check-then-act stays sound.
type TxRunner struct {
	mongoClient *mongo.Client
}

func NewTxRunner(mongoClient *mongo.Client) *TxRunner {
	return &TxRunner{
		mongoClient: mongoClient,
	}
}

func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.mongoClient.StartSession()
	if err != nil {
		return apperr.Wrap(apperr.KindStorageUnavailable, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx)
	})
	if err != nil {
		return normalizeErr(err)
	}
	return nil
}

// normalizeErr maps driver errors to the engine's taxonomy. Errors that
// already carry a kind pass through untouched.
func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.Wrap(apperr.KindNotFound, err)
	}
	return apperr.Wrap(apperr.KindStorageUnavailable, err)
}
