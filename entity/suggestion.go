package entity

import (
	"time"

	"github.com/worshipkit/planner/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// SlotStatus is derived from the clock and the stored suggestions, never
// stored. There is no background job flipping slots to missed.
type SlotStatus string

const (
	SlotPending   SlotStatus = "pending"
	SlotSubmitted SlotStatus = "submitted"
	SlotMissed    SlotStatus = "missed"
)

type Disposition string

const (
	SuggestionPending  Disposition = "pending"
	SuggestionApproved Disposition = "approved"
	SuggestionRejected Disposition = "rejected"
)

// Suggestion is one song proposed against a slot. Suggestions are never
// deleted on review; the disposition keeps the history.
type Suggestion struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	SongID bson.ObjectID `bson:"songId" json:"songId"`
	Song   *Song         `bson:"song,omitempty" json:"song,omitempty"`

	Key       Key    `bson:"key,omitempty" json:"key,omitempty"`
	Note      string `bson:"note,omitempty" json:"note,omitempty"`
	MediaLink string `bson:"mediaLink,omitempty" json:"mediaLink,omitempty"`

	Disposition Disposition `bson:"disposition" json:"disposition"`
	SubmittedAt time.Time   `bson:"submittedAt" json:"submittedAt"`
	DecidedAt   *time.Time  `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// SuggestionSlot is a time-boxed request for one user to propose songs
// for a setlist. Suggestions are embedded so every slot mutation is a
// single-document write.
type SuggestionSlot struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	SetlistID bson.ObjectID `bson:"setlistId" json:"setlistId"`

	UserID int64 `bson:"userId" json:"userId"`
	User   *User `bson:"user,omitempty" json:"user,omitempty"`

	MinItems int       `bson:"minItems" json:"minItems"`
	MaxItems int       `bson:"maxItems" json:"maxItems"`
	DueAt    time.Time `bson:"dueAt" json:"dueAt"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	Suggestions []*Suggestion `bson:"suggestions" json:"suggestions"`

	// Derived on read via StatusAt, never stored.
	Status SlotStatus `bson:"-" json:"status,omitempty"`
}

// Validate checks the creation window. dueAt must still be in the future
// when the slot is created.
func (s *SuggestionSlot) Validate(now time.Time) error {
	if s.MinItems < 1 {
		return apperr.New(apperr.KindInvalidSlotWindow, "minItems must be at least 1, got %d", s.MinItems)
	}
	if s.MaxItems < s.MinItems {
		return apperr.New(apperr.KindInvalidSlotWindow, "maxItems %d is below minItems %d", s.MaxItems, s.MinItems)
	}
	if !s.DueAt.After(now) {
		return apperr.New(apperr.KindInvalidSlotWindow, "dueAt %s is not in the future", s.DueAt.Format(time.RFC3339))
	}
	return nil
}

// ActiveCount is the number of suggestions that still count toward the
// slot's window, i.e. everything not rejected.
func (s *SuggestionSlot) ActiveCount() int {
	count := 0
	for _, sg := range s.Suggestions {
		if sg.Disposition != SuggestionRejected {
			count++
		}
	}
	return count
}

// StatusAt derives the slot status at the given instant. Once the minimum
// was met the slot reads submitted forever; it never regresses to missed.
func (s *SuggestionSlot) StatusAt(now time.Time) SlotStatus {
	if s.ActiveCount() >= s.MinItems {
		return SlotSubmitted
	}
	if now.After(s.DueAt) {
		return SlotMissed
	}
	return SlotPending
}

// CanSubmitAt reports whether the contributor may submit one more
// suggestion at the given instant.
func (s *SuggestionSlot) CanSubmitAt(now time.Time) error {
	if now.After(s.DueAt) {
		return apperr.New(apperr.KindSlotExpired, "slot %s was due %s", s.ID.Hex(), s.DueAt.Format(time.RFC3339))
	}
	if s.ActiveCount() >= s.MaxItems {
		return apperr.New(apperr.KindSlotFull, "slot %s already has %d of %d suggestions", s.ID.Hex(), s.ActiveCount(), s.MaxItems)
	}
	return nil
}

func (s *SuggestionSlot) FindSuggestion(id bson.ObjectID) *Suggestion {
	for _, sg := range s.Suggestions {
		if sg.ID == id {
			return sg
		}
	}
	return nil
}

// Decide moves a pending suggestion to a terminal disposition. Approved
// and rejected are one-way; a second decision fails.
func (s *SuggestionSlot) Decide(id bson.ObjectID, to Disposition, now time.Time) (*Suggestion, error) {
	sg := s.FindSuggestion(id)
	if sg == nil {
		return nil, apperr.New(apperr.KindNotFound, "slot %s has no suggestion %s", s.ID.Hex(), id.Hex())
	}
	if sg.Disposition != SuggestionPending {
		return nil, apperr.New(apperr.KindAlreadyDecided, "suggestion %s is already %s", id.Hex(), sg.Disposition)
	}
	sg.Disposition = to
	sg.DecidedAt = &now
	return sg, nil
}
