package entity

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Key string

// Song is the catalog read model. The catalog itself is maintained
// elsewhere; the engine only resolves references and searches by name.
type Song struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	BandID bson.ObjectID `bson:"bandId,omitempty" json:"bandId"`
	Band   *Band         `bson:"band,omitempty" json:"band"`

	Name string `bson:"name,omitempty" json:"name"`
	Key  Key    `bson:"key,omitempty" json:"key,omitempty"`
	BPM  string `bson:"bpm,omitempty" json:"bpm,omitempty"`
	Time string `bson:"time,omitempty" json:"time,omitempty"`

	WebViewLink string   `bson:"webViewLink,omitempty" json:"webViewLink,omitempty"`
	Tags        []string `bson:"tags" json:"tags"`

	IsArchived bool `bson:"isArchived" json:"isArchived"`
}

func (s *Song) Meta() string {
	return fmt.Sprintf("%s, %s, %s", s.Key, s.BPM, s.Time)
}

func (s *Song) Caption() string {
	caption := fmt.Sprintf("%s, %s", s.Meta(), strings.Join(s.Tags, ", "))
	return strings.Trim(caption, ", ")
}
