package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stores backing the approval-path tests. Reads return the
// shared state directly, which models what the serialized transactions
// guarantee against the real database: the second approval sees the
// first one's writes.

type memSuggestionStore struct {
	suggestionStore
	slot *entity.SuggestionSlot
}

func (m *memSuggestionStore) FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.SuggestionSlot, error) {
	if m.slot == nil || m.slot.ID != ID {
		return nil, apperr.New(apperr.KindNotFound, "no slot %s", ID.Hex())
	}
	return m.slot, nil
}

func (m *memSuggestionStore) PushSuggestion(ctx context.Context, slotID bson.ObjectID, suggestion *entity.Suggestion) error {
	return nil
}

func (m *memSuggestionStore) DecideSuggestion(ctx context.Context, slotID, suggestionID bson.ObjectID, to entity.Disposition, now time.Time) (bool, error) {
	sg := m.slot.FindSuggestion(suggestionID)
	if sg == nil || sg.Disposition != entity.SuggestionPending {
		return false, nil
	}
	sg.Disposition = to
	sg.DecidedAt = &now
	return true, nil
}

type memSetlistStore struct {
	setlistStore
	setlist *entity.Setlist
}

func (m *memSetlistStore) FindOneLeanByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error) {
	if m.setlist == nil || m.setlist.ID != ID {
		return nil, apperr.New(apperr.KindNotFound, "no setlist %s", ID.Hex())
	}
	return m.setlist, nil
}

func (m *memSetlistStore) ReplaceItems(ctx context.Context, ID bson.ObjectID, items []*entity.SetlistItem) error {
	m.setlist.Items = items
	return nil
}

func approvalFixture(existingItems, itemCap int, pendingCount int) (*SuggestionService, *entity.SuggestionSlot, *entity.Setlist) {
	setlist := &entity.Setlist{ID: bson.NewObjectID()}
	for i := 0; i < existingItems; i++ {
		setlist.Append(&entity.SetlistItem{SongID: bson.NewObjectID()})
	}

	slot := &entity.SuggestionSlot{
		ID:        bson.NewObjectID(),
		SetlistID: setlist.ID,
		UserID:    1,
		MinItems:  1,
		MaxItems:  6,
		DueAt:     time.Now().Add(time.Hour),
	}
	for i := 0; i < pendingCount; i++ {
		slot.Suggestions = append(slot.Suggestions, &entity.Suggestion{
			ID:          bson.NewObjectID(),
			SongID:      bson.NewObjectID(),
			Disposition: entity.SuggestionPending,
		})
	}

	s := NewSuggestionService(
		&memSuggestionStore{slot: slot},
		&memSetlistStore{setlist: setlist},
		&fakeTx{},
		itemCap, 1,
	)
	return s, slot, setlist
}

// Two approvals racing for the last free position: the transactions
// serialize, so exactly one lands and the loser's suggestion stays
// pending.
func TestApproveRaceAtLastFreePosition(t *testing.T) {
	s, slot, setlist := approvalFixture(5, 6, 2)
	first, second := slot.Suggestions[0], slot.Suggestions[1]

	_, err := s.Approve(context.Background(), slot.ID, first.ID, ApproveInput{})
	assert.NoError(t, err)
	assert.Equal(t, entity.SuggestionApproved, first.Disposition)
	assert.Len(t, setlist.Items, 6)

	_, err = s.Approve(context.Background(), slot.ID, second.ID, ApproveInput{})
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))

	// The guard failed before the disposition flip, so the reviewer can
	// free capacity and retry.
	assert.Equal(t, entity.SuggestionPending, second.Disposition)
	assert.Len(t, setlist.Items, 6)
}

func TestApproveAppendsAtNextPosition(t *testing.T) {
	s, slot, setlist := approvalFixture(2, 6, 1)

	result, err := s.Approve(context.Background(), slot.ID, slot.Suggestions[0].ID, ApproveInput{Key: "G"})
	assert.NoError(t, err)

	assert.Len(t, result.Items, 3)
	assert.Equal(t, 3, result.Items[2].Position)
	assert.Equal(t, entity.Key("G"), result.Items[2].Key)
	assert.Equal(t, slot.Suggestions[0].SongID, setlist.Items[2].SongID)
}

func TestApproveTwiceIsAlreadyDecided(t *testing.T) {
	s, slot, _ := approvalFixture(0, 6, 1)
	sg := slot.Suggestions[0]

	_, err := s.Approve(context.Background(), slot.ID, sg.ID, ApproveInput{})
	assert.NoError(t, err)

	_, err = s.Approve(context.Background(), slot.ID, sg.ID, ApproveInput{})
	assert.Equal(t, apperr.KindAlreadyDecided, apperr.KindOf(err))
}

func TestApproveRespectsUnfamiliarQuota(t *testing.T) {
	s, slot, setlist := approvalFixture(2, 6, 1)
	setlist.Items[0].Unfamiliar = true

	_, err := s.Approve(context.Background(), slot.ID, slot.Suggestions[0].ID, ApproveInput{Unfamiliar: true})
	assert.Equal(t, apperr.KindUnfamiliarQuotaExceeded, apperr.KindOf(err))
	assert.Equal(t, entity.SuggestionPending, slot.Suggestions[0].Disposition)
}

func TestRejectThenRejectAgain(t *testing.T) {
	s, slot, _ := approvalFixture(0, 6, 1)
	sg := slot.Suggestions[0]

	err := s.Reject(context.Background(), slot.ID, sg.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.SuggestionRejected, sg.Disposition)

	err = s.Reject(context.Background(), slot.ID, sg.ID)
	assert.Equal(t, apperr.KindAlreadyDecided, apperr.KindOf(err))
}

func TestSubmitAfterDueAtIsExpired(t *testing.T) {
	s, slot, _ := approvalFixture(0, 6, 0)
	slot.DueAt = time.Now().Add(-time.Minute)

	_, err := s.Submit(context.Background(), slot.ID, &entity.Suggestion{SongID: bson.NewObjectID()})
	assert.Equal(t, apperr.KindSlotExpired, apperr.KindOf(err))
}
