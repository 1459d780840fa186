package repository

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SetlistRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewSetlistRepository(mongoClient *mongo.Client, dbName string) *SetlistRepository {
	return &SetlistRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *SetlistRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("setlists")
}

func (r *SetlistRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error) {
	setlists, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}

	return setlists[0], nil
}

func (r *SetlistRepository) FindOneByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	setlists, err := r.find(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return nil, err
	}

	return setlists[0], nil
}

// find resolves the leader and the items' songs. Items are stored in
// position order, so no re-sort is needed.
func (r *SetlistRepository) find(ctx context.Context, m bson.M) ([]*entity.Setlist, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "users",
				"localField":   "leaderId",
				"foreignField": "_id",
				"as":           "leader",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$leader",
				"preserveNullAndEmptyArrays": true,
			},
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "songs",
				"localField":   "items.songId",
				"foreignField": "_id",
				"as":           "itemSongs",
			},
		},
		bson.M{
			"$addFields": bson.M{
				"items": bson.M{
					"$map": bson.M{
						"input": "$items",
						"as":    "item",
						"in": bson.M{
							"$mergeObjects": bson.A{
								"$$item",
								bson.M{
									"song": bson.M{
										"$arrayElemAt": bson.A{
											bson.M{
												"$filter": bson.M{
													"input": "$itemSongs",
													"as":    "song",
													"cond":  bson.M{"$eq": bson.A{"$$song._id", "$$item.songId"}},
												},
											},
											0,
										},
									},
								},
							},
						},
					},
				},
			},
		},
		bson.M{
			"$project": bson.M{
				"itemSongs": 0,
			},
		},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var setlists []*entity.Setlist
	err = cur.All(ctx, &setlists)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(setlists) == 0 {
		return nil, normalizeErr(mongo.ErrNoDocuments)
	}

	return setlists, nil
}

// FindOneLeanByID reads the raw document without lookups. Mutating paths
// use it inside a transaction to get the strong read.
func (r *SetlistRepository) FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": ID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var setlist *entity.Setlist
	err := result.Decode(&setlist)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return setlist, nil
}

func (r *SetlistRepository) FindOneLeanByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	result := r.collection().FindOne(ctx, bson.M{"eventId": eventID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var setlist *entity.Setlist
	err := result.Decode(&setlist)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return setlist, nil
}

// FindOrCreateByEventID returns the event's setlist, creating the empty
// draft if the event does not have one yet.
func (r *SetlistRepository) FindOrCreateByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	filter := bson.M{"eventId": eventID}

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":     bson.NewObjectID(),
			"eventId": eventID,
			"status":  entity.SetlistDraft,
			"items":   bson.A{},
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var setlist *entity.Setlist
	err := result.Decode(&setlist)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return setlist, nil
}

// ReplaceItems writes the full items array back. Callers mutate the
// entity inside a transaction, then persist through here; the array swap
// is a single document write.
func (r *SetlistRepository) ReplaceItems(ctx context.Context, ID bson.ObjectID, items []*entity.SetlistItem) error {
	if items == nil {
		items = []*entity.SetlistItem{}
	}

	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": ID}, bson.M{"$set": bson.M{"items": items}})
	if err != nil {
		return normalizeErr(err)
	}
	if result.MatchedCount == 0 {
		return normalizeErr(mongo.ErrNoDocuments)
	}

	return nil
}

func (r *SetlistRepository) SetStatus(ctx context.Context, ID bson.ObjectID, status entity.SetlistStatus) error {
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": ID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return normalizeErr(err)
	}
	if result.MatchedCount == 0 {
		return normalizeErr(mongo.ErrNoDocuments)
	}

	return nil
}

func (r *SetlistRepository) SetLeader(ctx context.Context, ID bson.ObjectID, userID int64) error {
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": ID}, bson.M{"$set": bson.M{"leaderId": userID}})
	if err != nil {
		return normalizeErr(err)
	}
	if result.MatchedCount == 0 {
		return normalizeErr(mongo.ErrNoDocuments)
	}

	return nil
}

func (r *SetlistRepository) DeleteOneByEventID(ctx context.Context, eventID bson.ObjectID) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"eventId": eventID})
	return normalizeErr(err)
}
