package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RotationMember is one entry of a role's rotation list. Order is unique
// within the role and caller-managed.
type RotationMember struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	RoleID bson.ObjectID `bson:"roleId" json:"roleId"`
	UserID int64         `bson:"userId" json:"userId"`
	User   *User         `bson:"user,omitempty" json:"user,omitempty"`

	Order int `bson:"order" json:"order"`
}

// RoleFulfillment records that a user filled a role for an event.
// Append-only; the rotation selector reads it as history and nothing ever
// rewrites it.
type RoleFulfillment struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	RoleID  bson.ObjectID `bson:"roleId" json:"roleId"`
	EventID bson.ObjectID `bson:"eventId" json:"eventId"`
	UserID  int64         `bson:"userId" json:"userId"`

	// Event date, denormalized at append time so selection needs no join.
	EventTimeUTC time.Time `bson:"eventTime" json:"eventTime"`

	// Rotation order the member held when assigned.
	Order int `bson:"order" json:"order"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// RotationBoardEntry pairs a rotation member with the date they last
// served, for display and for selection.
type RotationBoardEntry struct {
	Member     *RotationMember `json:"member"`
	LastServed *time.Time      `json:"lastServed,omitempty"`
}
