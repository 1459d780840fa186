package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Band struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string        `bson:"name,omitempty" json:"name,omitempty"`
	Roles    []*Role       `bson:"roles,omitempty" json:"roles,omitempty"`
	Timezone string        `bson:"timezone,omitempty" json:"timezone,omitempty"`
}

func (b *Band) GetLocation() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
