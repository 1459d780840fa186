package entity

import "go.mongodb.org/mongo-driver/v2/bson"

type User struct {
	ID   int64  `bson:"_id" json:"id"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`

	BandIDs []bson.ObjectID `bson:"bandIds,omitempty" json:"bandIds,omitempty"`
	Bands   []*Band         `bson:"bands,omitempty" json:"-"`
}
