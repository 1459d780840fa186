package repository

import (
	"context"
	"time"

	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RotationRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewRotationRepository(mongoClient *mongo.Client, dbName string) *RotationRepository {
	return &RotationRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *RotationRepository) members() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("rotationMembers")
}

func (r *RotationRepository) fulfillments() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("roleFulfillments")
}

// FindManyMembersByRoleID returns the role's rotation list in ascending
// rotation order. An empty list is a normal result, not an error.
func (r *RotationRepository) FindManyMembersByRoleID(ctx context.Context, roleID bson.ObjectID) ([]*entity.RotationMember, error) {
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"roleId": roleID,
			},
		},
		bson.M{
			"$sort": bson.M{
				"order": 1,
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
	}

	cur, err := r.members().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var members []*entity.RotationMember
	err = cur.All(ctx, &members)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return members, nil
}

func (r *RotationRepository) FindOneMemberByRoleIDAndUserID(ctx context.Context, roleID bson.ObjectID, userID int64) (*entity.RotationMember, error) {
	result := r.members().FindOne(ctx, bson.M{"roleId": roleID, "userId": userID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var member *entity.RotationMember
	err := result.Decode(&member)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return member, nil
}

func (r *RotationRepository) UpsertMember(ctx context.Context, member entity.RotationMember) (*entity.RotationMember, error) {
	if member.ID.IsZero() {
		member.ID = bson.NewObjectID()
	}

	filter := bson.M{"roleId": member.RoleID, "userId": member.UserID}

	member.User = nil
	update := bson.M{
		"$set": member,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.members().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var newMember *entity.RotationMember
	err := result.Decode(&newMember)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return newMember, nil
}

func (r *RotationRepository) DeleteMember(ctx context.Context, roleID bson.ObjectID, userID int64) error {
	result, err := r.members().DeleteOne(ctx, bson.M{"roleId": roleID, "userId": userID})
	if err != nil {
		return normalizeErr(err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "user %d is not in rotation for role %s", userID, roleID.Hex())
	}

	return nil
}

// FindLastServedByRoleID maps each user who ever filled the role to the
// event date of their most recent fulfillment.
func (r *RotationRepository) FindLastServedByRoleID(ctx context.Context, roleID bson.ObjectID) (map[int64]time.Time, error) {
	pipeline := bson.A{
		bson.M{
			"$match": bson.M{
				"roleId": roleID,
			},
		},
		bson.M{
			"$group": bson.M{
				"_id":       "$userId",
				"eventTime": bson.M{"$max": "$eventTime"},
			},
		},
	}

	cur, err := r.fulfillments().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var rows []struct {
		UserID    int64     `bson:"_id"`
		EventTime time.Time `bson:"eventTime"`
	}
	err = cur.All(ctx, &rows)
	if err != nil {
		return nil, normalizeErr(err)
	}

	lastServed := make(map[int64]time.Time, len(rows))
	for _, row := range rows {
		lastServed[row.UserID] = row.EventTime
	}

	return lastServed, nil
}

// InsertFulfillment appends a fulfillment record. History is never
// updated or deleted here.
func (r *RotationRepository) InsertFulfillment(ctx context.Context, fulfillment *entity.RoleFulfillment) error {
	if fulfillment.ID.IsZero() {
		fulfillment.ID = bson.NewObjectID()
	}

	_, err := r.fulfillments().InsertOne(ctx, fulfillment)
	return normalizeErr(err)
}

func (r *RotationRepository) FindManyFulfillmentsByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.RoleFulfillment, error) {
	cur, err := r.fulfillments().Find(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return nil, normalizeErr(err)
	}

	var fulfillments []*entity.RoleFulfillment
	err = cur.All(ctx, &fulfillments)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return fulfillments, nil
}
