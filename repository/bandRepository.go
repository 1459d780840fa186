package repository

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type BandRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewBandRepository(mongoClient *mongo.Client, dbName string) *BandRepository {
	return &BandRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *BandRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("bands")
}

func (r *BandRepository) FindAll(ctx context.Context) ([]*entity.Band, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$ne": ""}})
}

func (r *BandRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Band, error) {
	bands, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}

	return bands[0], nil
}

func (r *BandRepository) find(ctx context.Context, m bson.M) ([]*entity.Band, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "roles",
				"localField":   "_id",
				"foreignField": "bandId",
				"as":           "roles",
			},
		},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var bands []*entity.Band
	err = cur.All(ctx, &bands)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(bands) == 0 {
		return nil, normalizeErr(mongo.ErrNoDocuments)
	}

	return bands, nil
}

func (r *BandRepository) UpdateOne(ctx context.Context, band entity.Band) (*entity.Band, error) {
	if band.ID.IsZero() {
		band.ID = bson.NewObjectID()
	}

	filter := bson.M{"_id": band.ID}

	band.Roles = nil
	update := bson.M{
		"$set": band,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var newBand *entity.Band
	err := result.Decode(&newBand)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return r.FindOneByID(ctx, newBand.ID)
}
