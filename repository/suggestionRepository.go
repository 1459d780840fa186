package repository

import (
	"context"
	"time"

	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type SuggestionRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewSuggestionRepository(mongoClient *mongo.Client, dbName string) *SuggestionRepository {
	return &SuggestionRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *SuggestionRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("suggestionSlots")
}

func (r *SuggestionRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.SuggestionSlot, error) {
	slots, err := r.find(ctx, bson.M{"_id": ID})
	if err != nil {
		return nil, err
	}

	return slots[0], nil
}

func (r *SuggestionRepository) FindManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) ([]*entity.SuggestionSlot, error) {
	slots, err := r.find(ctx, bson.M{"setlistId": setlistID})
	if err != nil && apperr.Is(err, apperr.KindNotFound) {
		return []*entity.SuggestionSlot{}, nil
	}

	return slots, err
}

func (r *SuggestionRepository) find(ctx context.Context, m bson.M) ([]*entity.SuggestionSlot, error) {
	pipeline := bson.A{
		bson.M{
			"$match": m,
		},
		bson.M{
			"$sort": bson.M{
				"dueAt": 1,
			},
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "users",
				"localField":   "userId",
				"foreignField": "_id",
				"as":           "user",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$user",
				"preserveNullAndEmptyArrays": true,
			},
		},
		bson.M{
			"$lookup": bson.M{
				"from":         "songs",
				"localField":   "suggestions.songId",
				"foreignField": "_id",
				"as":           "suggestionSongs",
			},
		},
		bson.M{
			"$addFields": bson.M{
				"suggestions": bson.M{
					"$map": bson.M{
						"input": "$suggestions",
						"as":    "suggestion",
						"in": bson.M{
							"$mergeObjects": bson.A{
								"$$suggestion",
								bson.M{
									"song": bson.M{
										"$arrayElemAt": bson.A{
											bson.M{
												"$filter": bson.M{
													"input": "$suggestionSongs",
													"as":    "song",
													"cond":  bson.M{"$eq": bson.A{"$$song._id", "$$suggestion.songId"}},
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
				"suggestionSongs": 0,
			},
		},
	}

	cur, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var slots []*entity.SuggestionSlot
	err = cur.All(ctx, &slots)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if len(slots) == 0 {
		return nil, normalizeErr(mongo.ErrNoDocuments)
	}

	return slots, nil
}

func (r *SuggestionRepository) FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.SuggestionSlot, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": ID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var slot *entity.SuggestionSlot
	err := result.Decode(&slot)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return slot, nil
}

func (r *SuggestionRepository) InsertOne(ctx context.Context, slot *entity.SuggestionSlot) (*entity.SuggestionSlot, error) {
	if slot.ID.IsZero() {
		slot.ID = bson.NewObjectID()
	}
	if slot.Suggestions == nil {
		slot.Suggestions = []*entity.Suggestion{}
	}

	_, err := r.collection().InsertOne(ctx, slot)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return slot, nil
}

func (r *SuggestionRepository) PushSuggestion(ctx context.Context, slotID bson.ObjectID, suggestion *entity.Suggestion) error {
	if suggestion.ID.IsZero() {
		suggestion.ID = bson.NewObjectID()
	}

	result, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": slotID},
		bson.M{"$push": bson.M{"suggestions": suggestion}},
	)
	if err != nil {
		return normalizeErr(err)
	}
	if result.MatchedCount == 0 {
		return normalizeErr(mongo.ErrNoDocuments)
	}

	return nil
}

// DecideSuggestion flips a pending suggestion to a terminal disposition.
// The filter matches only while the suggestion is still pending, so a
// second decision matches nothing and the caller reports AlreadyDecided.
func (r *SuggestionRepository) DecideSuggestion(ctx context.Context, slotID, suggestionID bson.ObjectID, to entity.Disposition, now time.Time) (bool, error) {
	filter := bson.M{
		"_id": slotID,
		"suggestions": bson.M{
			"$elemMatch": bson.M{
				"_id":         suggestionID,
				"disposition": entity.SuggestionPending,
			},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"suggestions.$.disposition": to,
			"suggestions.$.decidedAt":   now,
		},
	}

	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, normalizeErr(err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *SuggestionRepository) DeleteManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) error {
	_, err := r.collection().DeleteMany(ctx, bson.M{"setlistId": setlistID})
	return normalizeErr(err)
}
