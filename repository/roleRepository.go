package repository

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type RoleRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewRoleRepository(mongoClient *mongo.Client, dbName string) *RoleRepository {
	return &RoleRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *RoleRepository) collection() *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection("roles")
}

func (r *RoleRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Role, error) {
	result := r.collection().FindOne(ctx, bson.M{"_id": ID})
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var role *entity.Role
	err := result.Decode(&role)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return role, nil
}

func (r *RoleRepository) FindManyByBandID(ctx context.Context, bandID bson.ObjectID) ([]*entity.Role, error) {
	opts := options.Find().SetSort(bson.M{"priority": 1})

	cur, err := r.collection().Find(ctx, bson.M{"bandId": bandID}, opts)
	if err != nil {
		return nil, normalizeErr(err)
	}

	var roles []*entity.Role
	err = cur.All(ctx, &roles)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return roles, nil
}

func (r *RoleRepository) UpdateOne(ctx context.Context, role entity.Role) (*entity.Role, error) {
	if role.ID.IsZero() {
		role.ID = bson.NewObjectID()
	}

	filter := bson.M{"_id": role.ID}

	update := bson.M{
		"$set": role,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)

	result := r.collection().FindOneAndUpdate(ctx, filter, update, opts)
	if result.Err() != nil {
		return nil, normalizeErr(result.Err())
	}

	var newRole *entity.Role
	err := result.Decode(&newRole)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return newRole, nil
}
