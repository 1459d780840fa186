package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Creation is
// idempotent; existing indexes are left alone.
func EnsureIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	_, err := db.Collection("setlists").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("suggestionSlots").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "setlistId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("rotationMembers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "roleId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("roleFulfillments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "roleId", Value: 1}, {Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "eventId", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bandId", Value: 1}, {Key: "time", Value: 1}},
	})
	return err
}
