package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/worshipkit/planner/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setlistWithItems(n int) *Setlist {
	setlist := &Setlist{ID: bson.NewObjectID()}
	for i := 0; i < n; i++ {
		setlist.Append(&SetlistItem{SongID: bson.NewObjectID()})
	}
	return setlist
}

func positions(setlist *Setlist) []int {
	result := make([]int, 0, len(setlist.Items))
	for _, item := range setlist.Items {
		result = append(result, item.Position)
	}
	return result
}

func TestAppendAssignsDensePositions(t *testing.T) {
	setlist := setlistWithItems(3)
	assert.Equal(t, []int{1, 2, 3}, positions(setlist))
}

func TestInsertAfterShiftsLaterSiblings(t *testing.T) {
	setlist := setlistWithItems(3)
	first := setlist.Items[0].ID

	inserted := &SetlistItem{SongID: bson.NewObjectID()}
	err := setlist.InsertAfter(inserted, 1)
	assert.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, positions(setlist))
	assert.Equal(t, first, setlist.Items[0].ID)
	assert.Equal(t, inserted.ID, setlist.Items[1].ID)
}

func TestInsertAfterZeroInsertsAtHead(t *testing.T) {
	setlist := setlistWithItems(2)

	inserted := &SetlistItem{SongID: bson.NewObjectID()}
	err := setlist.InsertAfter(inserted, 0)
	assert.NoError(t, err)

	assert.Equal(t, inserted.ID, setlist.Items[0].ID)
	assert.Equal(t, []int{1, 2, 3}, positions(setlist))
}

func TestInsertAfterOutOfRange(t *testing.T) {
	setlist := setlistWithItems(2)

	err := setlist.InsertAfter(&SetlistItem{}, 3)
	assert.Equal(t, apperr.KindInvalidOrder, apperr.KindOf(err))

	err = setlist.InsertAfter(&SetlistItem{}, -1)
	assert.Equal(t, apperr.KindInvalidOrder, apperr.KindOf(err))
}

func TestRemoveByIDCompactsPositions(t *testing.T) {
	setlist := setlistWithItems(4)
	second := setlist.Items[1]

	err := setlist.RemoveByID(second.ID)
	assert.NoError(t, err)

	assert.Len(t, setlist.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, positions(setlist))
	for _, item := range setlist.Items {
		assert.NotEqual(t, second.ID, item.ID)
	}
}

func TestRemoveByIDUnknownItem(t *testing.T) {
	setlist := setlistWithItems(2)

	err := setlist.RemoveByID(bson.NewObjectID())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, []int{1, 2}, positions(setlist))
}

func TestRemoveLastItemLeavesEmptyList(t *testing.T) {
	setlist := setlistWithItems(1)

	err := setlist.RemoveByID(setlist.Items[0].ID)
	assert.NoError(t, err)
	assert.Empty(t, setlist.Items)
}

func TestReorderAssignsPositionsByGivenSequence(t *testing.T) {
	setlist := setlistWithItems(3)
	a, b, c := setlist.Items[0].ID, setlist.Items[1].ID, setlist.Items[2].ID

	err := setlist.Reorder([]bson.ObjectID{c, a, b})
	assert.NoError(t, err)

	assert.Equal(t, c, setlist.Items[0].ID)
	assert.Equal(t, a, setlist.Items[1].ID)
	assert.Equal(t, b, setlist.Items[2].ID)
	assert.Equal(t, []int{1, 2, 3}, positions(setlist))
}

func TestReorderRejectsWrongMembership(t *testing.T) {
	setlist := setlistWithItems(3)
	a, b := setlist.Items[0].ID, setlist.Items[1].ID

	err := setlist.Reorder([]bson.ObjectID{a, b})
	assert.Equal(t, apperr.KindInvalidOrder, apperr.KindOf(err))

	err = setlist.Reorder([]bson.ObjectID{a, b, bson.NewObjectID()})
	assert.Equal(t, apperr.KindInvalidOrder, apperr.KindOf(err))

	err = setlist.Reorder([]bson.ObjectID{a, b, b})
	assert.Equal(t, apperr.KindInvalidOrder, apperr.KindOf(err))

	assert.Equal(t, []int{1, 2, 3}, positions(setlist))
}

func TestCanAddEnforcesItemCap(t *testing.T) {
	setlist := setlistWithItems(6)

	err := setlist.CanAdd(&SetlistItem{}, 6, 1)
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))

	// The item cap wins even for an unfamiliar song.
	err = setlist.CanAdd(&SetlistItem{Unfamiliar: true}, 6, 1)
	assert.Equal(t, apperr.KindCapacityExceeded, apperr.KindOf(err))
}

func TestCanAddEnforcesUnfamiliarQuota(t *testing.T) {
	setlist := setlistWithItems(2)
	setlist.Items[0].Unfamiliar = true

	err := setlist.CanAdd(&SetlistItem{Unfamiliar: true}, 6, 1)
	assert.Equal(t, apperr.KindUnfamiliarQuotaExceeded, apperr.KindOf(err))

	// A familiar song is still fine.
	assert.NoError(t, setlist.CanAdd(&SetlistItem{}, 6, 1))
}

func TestCanAddBelowCaps(t *testing.T) {
	setlist := setlistWithItems(5)
	assert.NoError(t, setlist.CanAdd(&SetlistItem{Unfamiliar: true}, 6, 1))
}
