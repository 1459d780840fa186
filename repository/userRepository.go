package repository

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewUserRepository(mongoClient *mongo.Client, dbName string) *UserRepository {
	return &UserRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *UserRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("users")
}

func (r *UserRepository) FindOneByID(ctx context.Context, ID int64) (*entity.User, error) {
	users, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}

	return users[0], nil
}

func (r *UserRepository) FindManyByBandID(ctx context.Context, bandID bson.ObjectID) ([]*entity.User, error) {
	return r.find(ctx, bson.M{
		"bandIds": bandID,
	})
}

func (r *UserRepository) find(ctx context.Context, m bson.M) ([]*entity.User, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "bands",
				"localField":   "bandIds",
				"foreignField": "_id",
				"as":           "bands",
			},
		},
		bson.M{
			"$sort": bson.M{
				"name": 1,
			},
		},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var users []*entity.User
	err = cur.All(ctx, &users)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(users) == 0 {
		return nil, normalizeErr(mongo.ErrNoDocuments)
	}

	return users, nil
}

func (r *UserRepository) UpdateOne(ctx context.Context, user entity.User) (*entity.User, error) {
	filter := bson.M{"_id": user.ID}

	user.Bands = nil
	update := bson.M{
		"$set": user,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var newUser *entity.User
	err := result.Decode(&newUser)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return newUser, nil
}
