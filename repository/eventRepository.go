package repository

import (
	"context"
	"time"

	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/helpers"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type EventRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewEventRepository(mongoClient *mongo.Client, dbName string) *EventRepository {
	return &EventRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *EventRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("events")
}

func (r *EventRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error) {
	events, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}

	return events[0], nil
}

func (r *EventRepository) FindManyFromDateByBandID(ctx context.Context, bandID bson.ObjectID, fromUTC time.Time) ([]*entity.Event, error) {
	return r.find(ctx,
		bson.M{
			"bandId": bandID,
			"time": bson.M{
				"$gte": fromUTC,
			},
		},
		bson.M{
			"$sort": bson.M{
				"time": 1,
			},
		},
	)
}

func (r *EventRepository) FindManyBetweenDatesByBandID(ctx context.Context, fromUTC, toUTC time.Time, bandID bson.ObjectID) ([]*entity.Event, error) {
	return r.find(ctx,
		bson.M{
			"bandId": bandID,
			"time": bson.M{
				"$gte": fromUTC,
				"$lte": toUTC,
			},
		},
		bson.M{
			"$sort": bson.M{
				"time": -1,
			},
		},
	)
}

func (r *EventRepository) FindManyByBandIDAndPageNumber(ctx context.Context, bandID bson.ObjectID, pageNumber int) ([]*entity.Event, error) {
	return r.find(ctx,
		bson.M{
			"bandId": bandID,
		},
		bson.M{
			"$sort": bson.M{
				"time": -1,
			},
		},
		bson.M{
			"$skip": pageNumber * helpers.EventsPageSize,
		},
		bson.M{
			"$limit": helpers.EventsPageSize,
		},
	)
}

func (r *EventRepository) find(ctx context.Context, m bson.M, opts ...bson.M) ([]*entity.Event, error) {
	pipeline := bson.A{
		bson.M{
			"$lookup": bson.M{
				"from": "bands",
				"let":  bson.M{"bandId": "$bandId"},
				"pipeline": bson.A{
					bson.M{
						"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$bandId"}}},
					},
					bson.M{
						"$lookup": bson.M{
							"from": "roles",
							"let":  bson.M{"bandId": "$_id"},
							"pipeline": bson.A{
								bson.M{
									"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$bandId", "$$bandId"}}},
								},
								bson.M{
									"$sort": bson.M{
										"priority": 1,
									},
								},
							},
							"as": "roles",
						},
					},
				},
				"as": "band",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$band",
				"preserveNullAndEmptyArrays": true,
			},
		},
		bson.M{
			"$match": m,
		},
	}

	for _, o := range opts {
		pipeline = append(pipeline, o)
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var events []*entity.Event
	err = cur.All(ctx, &events)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(events) == 0 {
		return nil, normalizeErr(mongo.ErrNoDocuments)
	}

	return events, nil
}

func (r *EventRepository) UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error) {
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}

	filter := bson.M{"_id": event.ID}

	event.Band = nil
	update := bson.M{
		"$set": event,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var newEvent *entity.Event
	err := result.Decode(&newEvent)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return r.FindOneByID(ctx, newEvent.ID)
}

func (r *EventRepository) DeleteOneByID(ctx context.Context, ID bson.ObjectID) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": ID})
	if err != nil {
		return normalizeErr(err)
	}
	if result.DeletedCount == 0 {
		return normalizeErr(mongo.ErrNoDocuments)
	}

	return nil
}

func (r *EventRepository) GetMostFrequentEventNames(ctx context.Context, bandID bson.ObjectID, limit int, fromUTC time.Time) ([]*entity.EventNameFrequencies, error) {
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"bandId": bandID,
				"_id": bson.M{
					"$gte": bson.NewObjectIDFromTimestamp(fromUTC),
				},
			},
		},
		bson.M{"$sortByCount": "$name"},
		bson.M{"$limit": limit},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var frequencies []*entity.EventNameFrequencies
	err = cur.All(ctx, &frequencies)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return frequencies, nil
}
