package service

import (
	"context"
	"time"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// The services depend on narrow store interfaces so the invariant
// orchestration can be tested without a running database. The repository
// package provides the production implementations.

type txRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

type setlistStore interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error)
	FindOneByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error)
	FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error)
	FindOneLeanByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error)
	FindOrCreateByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error)
	ReplaceItems(ctx context.Context, ID bson.ObjectID, items []*entity.SetlistItem) error
	SetStatus(ctx context.Context, ID bson.ObjectID, status entity.SetlistStatus) error
	SetLeader(ctx context.Context, ID bson.ObjectID, userID int64) error
	DeleteOneByEventID(ctx context.Context, eventID bson.ObjectID) error
}

type suggestionStore interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.SuggestionSlot, error)
	FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.SuggestionSlot, error)
	FindManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) ([]*entity.SuggestionSlot, error)
	InsertOne(ctx context.Context, slot *entity.SuggestionSlot) (*entity.SuggestionSlot, error)
	PushSuggestion(ctx context.Context, slotID bson.ObjectID, suggestion *entity.Suggestion) error
	DecideSuggestion(ctx context.Context, slotID, suggestionID bson.ObjectID, to entity.Disposition, now time.Time) (bool, error)
	DeleteManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) error
}

type eventStore interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error)
	FindManyFromDateByBandID(ctx context.Context, bandID bson.ObjectID, fromUTC time.Time) ([]*entity.Event, error)
	FindManyBetweenDatesByBandID(ctx context.Context, fromUTC, toUTC time.Time, bandID bson.ObjectID) ([]*entity.Event, error)
	FindManyByBandIDAndPageNumber(ctx context.Context, bandID bson.ObjectID, pageNumber int) ([]*entity.Event, error)
	UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error)
	DeleteOneByID(ctx context.Context, ID bson.ObjectID) error
	GetMostFrequentEventNames(ctx context.Context, bandID bson.ObjectID, limit int, fromUTC time.Time) ([]*entity.EventNameFrequencies, error)
}

type rotationStore interface {
	FindManyMembersByRoleID(ctx context.Context, roleID bson.ObjectID) ([]*entity.RotationMember, error)
	FindOneMemberByRoleIDAndUserID(ctx context.Context, roleID bson.ObjectID, userID int64) (*entity.RotationMember, error)
	UpsertMember(ctx context.Context, member entity.RotationMember) (*entity.RotationMember, error)
	DeleteMember(ctx context.Context, roleID bson.ObjectID, userID int64) error
	FindLastServedByRoleID(ctx context.Context, roleID bson.ObjectID) (map[int64]time.Time, error)
	InsertFulfillment(ctx context.Context, fulfillment *entity.RoleFulfillment) error
	FindManyFulfillmentsByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.RoleFulfillment, error)
}
