package service

import (
	"context"
	"time"

	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/exp/slices"
)

type RotationService struct {
	rotationRepository rotationStore
	setlistRepository  setlistStore
	eventRepository    eventStore
	tx                 txRunner
}

func NewRotationService(rotationRepository rotationStore, setlistRepository setlistStore, eventRepository eventStore, tx txRunner) *RotationService {
	return &RotationService{
		rotationRepository: rotationRepository,
		setlistRepository:  setlistRepository,
		eventRepository:    eventRepository,
		tx:                 tx,
	}
}

// SuggestNext picks who should lead next for the role. It returns nil
// with no error when the rotation list is empty; callers display that as
// "no suggestion".
func (s *RotationService) SuggestNext(ctx context.Context, roleID bson.ObjectID) (*entity.RotationMember, error) {
	members, err := s.rotationRepository.FindManyMembersByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	lastServed, err := s.rotationRepository.FindLastServedByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	return pickNext(members, lastServed), nil
}

// pickNext returns the member with the oldest last-served event date;
// members who never served come first. Ties break on ascending rotation
// order. The selection has no memory beyond the fulfillment history, so
// it self-heals when the rotation list is edited between assignments.
func pickNext(members []*entity.RotationMember, lastServed map[int64]time.Time) *entity.RotationMember {
	if len(members) == 0 {
		return nil
	}

	sorted := make([]*entity.RotationMember, len(members))
	copy(sorted, members)
	slices.SortStableFunc(sorted, func(a, b *entity.RotationMember) int {
		return a.Order - b.Order
	})

	next := sorted[0]
	nextServed := lastServed[next.UserID]
	for _, member := range sorted[1:] {
		served := lastServed[member.UserID]
		if served.Before(nextServed) {
			next = member
			nextServed = served
		}
	}

	return next
}

// Board returns the rotation list with each member's last-served date,
// the exact data SuggestNext ranks on.
func (s *RotationService) Board(ctx context.Context, roleID bson.ObjectID) ([]*entity.RotationBoardEntry, error) {
	members, err := s.rotationRepository.FindManyMembersByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	lastServed, err := s.rotationRepository.FindLastServedByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.RotationBoardEntry, 0, len(members))
	for _, member := range members {
		entry := &entity.RotationBoardEntry{Member: member}
		if served, ok := lastServed[member.UserID]; ok {
			entry.LastServed = &served
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ConfirmAssignment sets the event's setlist leader and appends the
// fulfillment record as one transaction, so history and the leader
// reference never diverge.
func (s *RotationService) ConfirmAssignment(ctx context.Context, eventID, roleID bson.ObjectID, userID int64) (*entity.RoleFulfillment, error) {
	member, err := s.rotationRepository.FindOneMemberByRoleIDAndUserID(ctx, roleID, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindNotEligible, "user %d is not in rotation for role %s", userID, roleID.Hex())
		}
		return nil, err
	}

	var fulfillment *entity.RoleFulfillment
	err = s.tx.Run(ctx, func(ctx context.Context) error {
		event, err := s.eventRepository.FindOneByID(ctx, eventID)
		if err != nil {
			return err
		}

		setlist, err := s.setlistRepository.FindOrCreateByEventID(ctx, eventID)
		if err != nil {
			return err
		}

		if err := s.setlistRepository.SetLeader(ctx, setlist.ID, userID); err != nil {
			return err
		}

		fulfillment = &entity.RoleFulfillment{
			RoleID:       roleID,
			EventID:      eventID,
			UserID:       userID,
			EventTimeUTC: event.TimeUTC,
			Order:        member.Order,
			CreatedAt:    time.Now().UTC(),
		}

		return s.rotationRepository.InsertFulfillment(ctx, fulfillment)
	})
	if err != nil {
		return nil, err
	}

	return fulfillment, nil
}

// FindAssignmentsByEventID returns the staffing history recorded against
// one event.
func (s *RotationService) FindAssignmentsByEventID(ctx context.Context, eventID bson.ObjectID) ([]*entity.RoleFulfillment, error) {
	return s.rotationRepository.FindManyFulfillmentsByEventID(ctx, eventID)
}

// Rotation list CRUD, caller-managed.

func (s *RotationService) UpsertMember(ctx context.Context, member entity.RotationMember) (*entity.RotationMember, error) {
	return s.rotationRepository.UpsertMember(ctx, member)
}

func (s *RotationService) RemoveMember(ctx context.Context, roleID bson.ObjectID, userID int64) error {
	return s.rotationRepository.DeleteMember(ctx, roleID, userID)
}
