package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worshipkit/planner/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func slotWithWindow(minItems, maxItems int, dueAt time.Time) *SuggestionSlot {
	return &SuggestionSlot{
		ID:        bson.NewObjectID(),
		SetlistID: bson.NewObjectID(),
		UserID:    1,
		MinItems:  minItems,
		MaxItems:  maxItems,
		DueAt:     dueAt,
	}
}

func suggestionWithDisposition(d Disposition) *Suggestion {
	return &Suggestion{
		ID:          bson.NewObjectID(),
		SongID:      bson.NewObjectID(),
		Disposition: d,
	}
}

func TestValidateSlotWindow(t *testing.T) {
	now := time.Now().UTC()

	assert.NoError(t, slotWithWindow(1, 3, now.Add(time.Hour)).Validate(now))

	err := slotWithWindow(0, 3, now.Add(time.Hour)).Validate(now)
	assert.Equal(t, apperr.KindInvalidSlotWindow, apperr.KindOf(err))

	err = slotWithWindow(3, 1, now.Add(time.Hour)).Validate(now)
	assert.Equal(t, apperr.KindInvalidSlotWindow, apperr.KindOf(err))

	err = slotWithWindow(1, 3, now.Add(-time.Minute)).Validate(now)
	assert.Equal(t, apperr.KindInvalidSlotWindow, apperr.KindOf(err))
}

func TestActiveCountIgnoresRejected(t *testing.T) {
	slot := slotWithWindow(1, 3, time.Now().Add(time.Hour))
	slot.Suggestions = []*Suggestion{
		suggestionWithDisposition(SuggestionPending),
		suggestionWithDisposition(SuggestionApproved),
		suggestionWithDisposition(SuggestionRejected),
	}

	assert.Equal(t, 2, slot.ActiveCount())
}

func TestStatusAtPendingBeforeDue(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(2, 3, now.Add(time.Hour))
	slot.Suggestions = []*Suggestion{suggestionWithDisposition(SuggestionPending)}

	assert.Equal(t, SlotPending, slot.StatusAt(now))
}

func TestStatusAtMissedAfterDue(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(2, 3, now.Add(-time.Minute))
	slot.Suggestions = []*Suggestion{suggestionWithDisposition(SuggestionPending)}

	assert.Equal(t, SlotMissed, slot.StatusAt(now))
}

func TestStatusAtSubmittedNeverRegresses(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(2, 3, now.Add(-time.Hour))
	slot.Suggestions = []*Suggestion{
		suggestionWithDisposition(SuggestionPending),
		suggestionWithDisposition(SuggestionApproved),
	}

	// Minimum met before the deadline passed: submitted, not missed.
	assert.Equal(t, SlotSubmitted, slot.StatusAt(now))
	assert.Equal(t, SlotSubmitted, slot.StatusAt(now.Add(24*time.Hour)))
}

func TestStatusAtRejectionsCanReopenWindow(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(1, 3, now.Add(time.Hour))
	slot.Suggestions = []*Suggestion{suggestionWithDisposition(SuggestionRejected)}

	assert.Equal(t, SlotPending, slot.StatusAt(now))
}

func TestCanSubmitAtExpired(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(1, 3, now.Add(-time.Minute))

	err := slot.CanSubmitAt(now)
	assert.Equal(t, apperr.KindSlotExpired, apperr.KindOf(err))
}

func TestCanSubmitAtFull(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(1, 2, now.Add(time.Hour))
	slot.Suggestions = []*Suggestion{
		suggestionWithDisposition(SuggestionPending),
		suggestionWithDisposition(SuggestionApproved),
	}

	err := slot.CanSubmitAt(now)
	assert.Equal(t, apperr.KindSlotFull, apperr.KindOf(err))

	// A rejection frees the slot up again.
	slot.Suggestions[1].Disposition = SuggestionRejected
	assert.NoError(t, slot.CanSubmitAt(now))
}

func TestDecideIsOneWay(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(1, 3, now.Add(time.Hour))
	sg := suggestionWithDisposition(SuggestionPending)
	slot.Suggestions = []*Suggestion{sg}

	decided, err := slot.Decide(sg.ID, SuggestionApproved, now)
	assert.NoError(t, err)
	assert.Equal(t, SuggestionApproved, decided.Disposition)
	assert.NotNil(t, decided.DecidedAt)

	_, err = slot.Decide(sg.ID, SuggestionRejected, now)
	assert.Equal(t, apperr.KindAlreadyDecided, apperr.KindOf(err))
	assert.Equal(t, SuggestionApproved, sg.Disposition)
}

func TestDecideUnknownSuggestion(t *testing.T) {
	now := time.Now().UTC()
	slot := slotWithWindow(1, 3, now.Add(time.Hour))

	_, err := slot.Decide(bson.NewObjectID(), SuggestionApproved, now)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
