package entity

import (
	"github.com/worshipkit/planner/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SetlistStatus string

const (
	SetlistDraft     SetlistStatus = "draft"
	SetlistPublished SetlistStatus = "published"
)

// SetlistItem is one entry of a setlist. Positions are 1-based and dense:
// after any successful mutation they are exactly 1..N.
type SetlistItem struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Position int           `bson:"position" json:"position"`

	SongID bson.ObjectID `bson:"songId" json:"songId"`
	Song   *Song         `bson:"song,omitempty" json:"song,omitempty"`

	// Variant and per-event overrides.
	Key        Key    `bson:"key,omitempty" json:"key,omitempty"`
	Performer  string `bson:"performer,omitempty" json:"performer,omitempty"`
	MediaLink  string `bson:"mediaLink,omitempty" json:"mediaLink,omitempty"`
	DisplayKey string `bson:"displayKey,omitempty" json:"displayKey,omitempty"`

	// Unfamiliar marks a song the band has not played before. At most
	// one unfamiliar song per setlist by default.
	Unfamiliar bool `bson:"unfamiliar,omitempty" json:"unfamiliar,omitempty"`
}

// Setlist is the ordered list of songs attached to one event (1:1). It is
// created with its event and removed with it. A published setlist stays
// editable; publishing only changes what members see.
type Setlist struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID bson.ObjectID `bson:"eventId,omitempty" json:"eventId"`

	Status SetlistStatus `bson:"status,omitempty" json:"status"`

	LeaderID *int64 `bson:"leaderId,omitempty" json:"leaderId,omitempty"`
	Leader   *User  `bson:"leader,omitempty" json:"leader,omitempty"`

	Items []*SetlistItem `bson:"items" json:"items"`
}

func (s *Setlist) UnfamiliarCount() int {
	count := 0
	for _, item := range s.Items {
		if item.Unfamiliar {
			count++
		}
	}
	return count
}

// NextPosition is the position an appended item receives.
func (s *Setlist) NextPosition() int {
	return len(s.Items) + 1
}

// CanAdd reports whether item may join the setlist under the configured
// caps. It is a pure check with no side effects, usable speculatively.
func (s *Setlist) CanAdd(item *SetlistItem, itemCap, unfamiliarCap int) error {
	if len(s.Items) >= itemCap {
		return apperr.New(apperr.KindCapacityExceeded, "setlist %s already has %d songs", s.ID.Hex(), len(s.Items))
	}
	if item.Unfamiliar && s.UnfamiliarCount() >= unfamiliarCap {
		return apperr.New(apperr.KindUnfamiliarQuotaExceeded, "setlist %s already has %d unfamiliar songs", s.ID.Hex(), s.UnfamiliarCount())
	}
	return nil
}

// Append places item at the end of the list.
func (s *Setlist) Append(item *SetlistItem) {
	if item.ID.IsZero() {
		item.ID = bson.NewObjectID()
	}
	item.Position = s.NextPosition()
	s.Items = append(s.Items, item)
}

// InsertAfter places item right after afterPosition, shifting later
// siblings up by one. afterPosition 0 inserts at the head; the current
// item count appends.
func (s *Setlist) InsertAfter(item *SetlistItem, afterPosition int) error {
	if afterPosition < 0 || afterPosition > len(s.Items) {
		return apperr.New(apperr.KindInvalidOrder, "position %d is outside 0..%d", afterPosition, len(s.Items))
	}
	if item.ID.IsZero() {
		item.ID = bson.NewObjectID()
	}

	item.Position = afterPosition + 1
	for _, sibling := range s.Items {
		if sibling.Position > afterPosition {
			sibling.Position++
		}
	}

	items := make([]*SetlistItem, 0, len(s.Items)+1)
	items = append(items, s.Items[:afterPosition]...)
	items = append(items, item)
	items = append(items, s.Items[afterPosition:]...)
	s.Items = items
	return nil
}

// RemoveByID removes the item and renumbers later siblings so the
// sequence stays dense. Removing the last remaining item leaves an empty
// list, which is fine.
func (s *Setlist) RemoveByID(itemID bson.ObjectID) error {
	idx := -1
	for i, item := range s.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperr.New(apperr.KindNotFound, "setlist %s has no item %s", s.ID.Hex(), itemID.Hex())
	}

	removed := s.Items[idx].Position
	s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	for _, item := range s.Items {
		if item.Position > removed {
			item.Position--
		}
	}
	return nil
}

// Reorder reassigns positions 1..N by the given id sequence. The ids must
// be exactly the current membership, each exactly once.
func (s *Setlist) Reorder(ids []bson.ObjectID) error {
	if len(ids) != len(s.Items) {
		return apperr.New(apperr.KindInvalidOrder, "got %d ids, setlist has %d items", len(ids), len(s.Items))
	}

	byID := make(map[bson.ObjectID]*SetlistItem, len(s.Items))
	for _, item := range s.Items {
		byID[item.ID] = item
	}

	items := make([]*SetlistItem, 0, len(ids))
	for i, id := range ids {
		item, ok := byID[id]
		if !ok {
			return apperr.New(apperr.KindInvalidOrder, "id %s is not in setlist %s", id.Hex(), s.ID.Hex())
		}
		delete(byID, id)
		item.Position = i + 1
		items = append(items, item)
	}

	s.Items = items
	return nil
}
