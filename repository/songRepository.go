package repository

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SongRepository is a read-only view of the song catalog. The catalog is
// maintained by a separate system; the engine only resolves references
// and searches by name.
type SongRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewSongRepository(mongoClient *mongo.Client, dbName string) *SongRepository {
	return &SongRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *SongRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("songs")
}

func (r *SongRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Song, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": ID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var song *entity.Song
	err := result.Decode(&song)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return song, nil
}

func (r *SongRepository) FindManyByBandID(ctx context.Context, bandID bson.ObjectID) ([]*entity.Song, error) {
	cur, err := r.collection().Find(ctx, bson.M{
		"bandId":     bandID,
		"isArchived": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, normalizeErr(err)
	}

	var songs []*entity.Song
	err = cur.All(ctx, &songs)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return songs, nil
}
