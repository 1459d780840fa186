package entity

import (
	"fmt"
	"time"

	"github.com/klauspost/lctime"
	"github.com/worshipkit/planner/util"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Event is one scheduled occurrence of a recurring service. Events are
// created by calendar generation or manual entry; the engine only attaches
// a setlist and staffing to them.
type Event struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TimeUTC time.Time     `bson:"time,omitempty" json:"time"`
	Name    string        `bson:"name,omitempty" json:"name"`

	BandID bson.ObjectID `bson:"bandId,omitempty" json:"bandId"`
	Band   *Band         `bson:"band,omitempty" json:"band"`

	Notes *string `bson:"notes" json:"notes"`
}

func (e *Event) GetLocalTime() time.Time {
	if e.Band == nil {
		return e.TimeUTC
	}
	return e.TimeUTC.In(e.Band.GetLocation())
}

func (e *Event) Alias(lang string) string {
	timeLoc := e.GetLocalTime()
	format := "%A, %d.%m.%Y %H:%M"
	if timeLoc.Hour() == 0 && timeLoc.Minute() == 0 {
		format = "%A, %d.%m.%Y"
	}
	t, _ := lctime.StrftimeLoc(util.IetfToIsoLangCode(lang), format, timeLoc)
	return fmt.Sprintf("%s (%s)", e.Name, t)
}

type EventNameFrequencies struct {
	Name  string `bson:"_id"`
	Count int    `bson:"count"`
}
