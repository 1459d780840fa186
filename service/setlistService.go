package service

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SetlistService struct {
	setlistRepository setlistStore
	tx                txRunner

	itemCap       int
	unfamiliarCap int
}

func NewSetlistService(setlistRepository setlistStore, tx txRunner, itemCap, unfamiliarCap int) *SetlistService {
	return &SetlistService{
		setlistRepository: setlistRepository,
		tx:                tx,
		itemCap:           itemCap,
		unfamiliarCap:     unfamiliarCap,
	}
}

func (s *SetlistService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Setlist, error) {
	return s.setlistRepository.FindOneByID(ctx, ID)
}

func (s *SetlistService) FindOneByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	return s.setlistRepository.FindOneByEventID(ctx, eventID)
}

// CanAdd is the speculative guard check for UI hints. It reads without
// locking; the commit path re-checks inside its transaction.
func (s *SetlistService) CanAdd(ctx context.Context, setlistID bson.ObjectID, item *entity.SetlistItem) error {
	setlist, err := s.setlistRepository.FindOneLeanByID(ctx, setlistID)
	if err != nil {
		return err
	}

	return setlist.CanAdd(item, s.itemCap, s.unfamiliarCap)
}

// AddItem appends item to the setlist, provided the caps allow it.
func (s *SetlistService) AddItem(ctx context.Context, setlistID bson.ObjectID, item *entity.SetlistItem) (*entity.Setlist, error) {
	return s.addItem(ctx, setlistID, item, -1)
}

// AddItemAt inserts item right after afterPosition, shifting later
// siblings up by one. afterPosition 0 targets the head of the list.
func (s *SetlistService) AddItemAt(ctx context.Context, setlistID bson.ObjectID, item *entity.SetlistItem, afterPosition int) (*entity.Setlist, error) {
	return s.addItem(ctx, setlistID, item, afterPosition)
}

func (s *SetlistService) addItem(ctx context.Context, setlistID bson.ObjectID, item *entity.SetlistItem, afterPosition int) (*entity.Setlist, error) {
	var setlist *entity.Setlist

	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		setlist, err = s.setlistRepository.FindOneLeanByID(ctx, setlistID)
		if err != nil {
			return err
		}

		if err := setlist.CanAdd(item, s.itemCap, s.unfamiliarCap); err != nil {
			return err
		}

		if afterPosition < 0 {
			setlist.Append(item)
		} else if err := setlist.InsertAfter(item, afterPosition); err != nil {
			return err
		}

		return s.setlistRepository.ReplaceItems(ctx, setlistID, setlist.Items)
	})
	if err != nil {
		return nil, err
	}

	return setlist, nil
}

// RemoveItem deletes the item and compacts the positions of the later
// siblings so the sequence stays dense.
func (s *SetlistService) RemoveItem(ctx context.Context, setlistID, itemID bson.ObjectID) (*entity.Setlist, error) {
	var setlist *entity.Setlist

	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		setlist, err = s.setlistRepository.FindOneLeanByID(ctx, setlistID)
		if err != nil {
			return err
		}

		if err := setlist.RemoveByID(itemID); err != nil {
			return err
		}

		return s.setlistRepository.ReplaceItems(ctx, setlistID, setlist.Items)
	})
	if err != nil {
		return nil, err
	}

	return setlist, nil
}

// Reorder reassigns positions 1..N by the given id sequence, which must
// be a permutation of the current membership.
func (s *SetlistService) Reorder(ctx context.Context, setlistID bson.ObjectID, ids []bson.ObjectID) (*entity.Setlist, error) {
	var setlist *entity.Setlist

	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		setlist, err = s.setlistRepository.FindOneLeanByID(ctx, setlistID)
		if err != nil {
			return err
		}

		if err := setlist.Reorder(ids); err != nil {
			return err
		}

		return s.setlistRepository.ReplaceItems(ctx, setlistID, setlist.Items)
	})
	if err != nil {
		return nil, err
	}

	return setlist, nil
}

// Publish marks the setlist visible to the whole band. Published setlists
// stay editable; there is deliberately no lock.
func (s *SetlistService) Publish(ctx context.Context, setlistID bson.ObjectID) error {
	return s.setlistRepository.SetStatus(ctx, setlistID, entity.SetlistPublished)
}

func (s *SetlistService) ItemCap() int {
	return s.itemCap
}

func (s *SetlistService) UnfamiliarCap() int {
	return s.unfamiliarCap
}
