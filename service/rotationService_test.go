package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func rotationMembers(userIDs ...int64) []*entity.RotationMember {
	roleID := bson.NewObjectID()
	members := make([]*entity.RotationMember, 0, len(userIDs))
	for i, userID := range userIDs {
		members = append(members, &entity.RotationMember{
			RoleID: roleID,
			UserID: userID,
			Order:  i + 1,
		})
	}
	return members
}

func TestPickNextEmptyList(t *testing.T) {
	assert.Nil(t, pickNext(nil, nil))
}

func TestPickNextNeverServedComesFirst(t *testing.T) {
	members := rotationMembers(1, 2, 3)
	lastServed := map[int64]time.Time{
		1: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		3: time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC),
	}

	next := pickNext(members, lastServed)
	assert.Equal(t, int64(2), next.UserID)
}

func TestPickNextOldestLastServedWins(t *testing.T) {
	members := rotationMembers(1, 2, 3)
	lastServed := map[int64]time.Time{
		1: time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC),
		2: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		3: time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
	}

	next := pickNext(members, lastServed)
	assert.Equal(t, int64(2), next.UserID)
}

func TestPickNextTiesBreakOnRotationOrder(t *testing.T) {
	members := rotationMembers(1, 2, 3)
	served := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	lastServed := map[int64]time.Time{1: served, 2: served, 3: served}

	next := pickNext(members, lastServed)
	assert.Equal(t, int64(1), next.UserID)
}

// Confirming each suggestion in turn walks the full rotation before anyone
// repeats.
func TestPickNextCyclesThroughRotation(t *testing.T) {
	members := rotationMembers(1, 2, 3)
	lastServed := map[int64]time.Time{}

	eventTime := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	var picked []int64
	for i := 0; i < 6; i++ {
		next := pickNext(members, lastServed)
		picked = append(picked, next.UserID)
		lastServed[next.UserID] = eventTime
		eventTime = eventTime.AddDate(0, 0, 7)
	}

	assert.Equal(t, []int64{1, 2, 3, 1, 2, 3}, picked)
}

func TestPickNextIsDeterministic(t *testing.T) {
	members := rotationMembers(5, 4, 3, 2, 1)
	lastServed := map[int64]time.Time{
		5: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		3: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}

	first := pickNext(members, lastServed)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.UserID, pickNext(members, lastServed).UserID)
	}
}

func TestPickNextSelfHealsAfterMembershipEdit(t *testing.T) {
	members := rotationMembers(1, 2, 3)
	lastServed := map[int64]time.Time{
		1: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		2: time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC),
		3: time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
	}

	// Member 1 leaves the rotation; history for them is irrelevant now.
	next := pickNext(members[1:], lastServed)
	assert.Equal(t, int64(2), next.UserID)
}
