package service

import (
	"context"
	"time"

	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SuggestionService struct {
	suggestionRepository suggestionStore
	setlistRepository    setlistStore
	tx                   txRunner

	itemCap       int
	unfamiliarCap int
}

func NewSuggestionService(suggestionRepository suggestionStore, setlistRepository setlistStore, tx txRunner, itemCap, unfamiliarCap int) *SuggestionService {
	return &SuggestionService{
		suggestionRepository: suggestionRepository,
		setlistRepository:    setlistRepository,
		tx:                   tx,
		itemCap:              itemCap,
		unfamiliarCap:        unfamiliarCap,
	}
}

// CreateSlot opens a time-boxed request for userID to suggest between
// minItems and maxItems songs for the setlist before dueAt.
func (s *SuggestionService) CreateSlot(ctx context.Context, setlistID bson.ObjectID, userID int64, minItems, maxItems int, dueAt time.Time) (*entity.SuggestionSlot, error) {
	now := time.Now().UTC()

	slot := &entity.SuggestionSlot{
		SetlistID: setlistID,
		UserID:    userID,
		MinItems:  minItems,
		MaxItems:  maxItems,
		DueAt:     dueAt.UTC(),
		CreatedAt: now,
	}

	if err := slot.Validate(now); err != nil {
		return nil, err
	}

	if _, err := s.setlistRepository.FindOneLeanByID(ctx, setlistID); err != nil {
		return nil, err
	}

	slot, err := s.suggestionRepository.InsertOne(ctx, slot)
	if err != nil {
		return nil, err
	}

	slot.Status = slot.StatusAt(now)
	return slot, nil
}

// Submit records one suggestion by the assigned contributor. It fails
// once the slot is past due or already at maxItems.
func (s *SuggestionService) Submit(ctx context.Context, slotID bson.ObjectID, suggestion *entity.Suggestion) (*entity.SuggestionSlot, error) {
	now := time.Now().UTC()

	var slot *entity.SuggestionSlot
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		slot, err = s.suggestionRepository.FindOneLeanByID(ctx, slotID)
		if err != nil {
			return err
		}

		if err := slot.CanSubmitAt(now); err != nil {
			return err
		}

		suggestion.ID = bson.NewObjectID()
		suggestion.Disposition = entity.SuggestionPending
		suggestion.SubmittedAt = now
		suggestion.DecidedAt = nil
		suggestion.Song = nil

		if err := s.suggestionRepository.PushSuggestion(ctx, slotID, suggestion); err != nil {
			return err
		}

		slot.Suggestions = append(slot.Suggestions, suggestion)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slot.Status = slot.StatusAt(now)
	return slot, nil
}

// ApproveInput carries the reviewer's chosen variant and overrides for
// the setlist entry an approval creates.
type ApproveInput struct {
	Key        entity.Key `json:"key"`
	Performer  string     `json:"performer"`
	DisplayKey string     `json:"displayKey"`
	Unfamiliar bool       `json:"unfamiliar"`
}

// Approve folds a pending suggestion into the setlist. The composition
// guard runs inside the same transaction as the append; on guard failure
// the suggestion stays pending so the reviewer can retry after freeing
// capacity. A missed slot does not block approval.
func (s *SuggestionService) Approve(ctx context.Context, slotID, suggestionID bson.ObjectID, input ApproveInput) (*entity.Setlist, error) {
	now := time.Now().UTC()

	var setlist *entity.Setlist
	err := s.tx.Run(ctx, func(ctx context.Context) error {
		slot, err := s.suggestionRepository.FindOneLeanByID(ctx, slotID)
		if err != nil {
			return err
		}

		suggestion := slot.FindSuggestion(suggestionID)
		if suggestion == nil {
			return apperr.New(apperr.KindNotFound, "slot %s has no suggestion %s", slotID.Hex(), suggestionID.Hex())
		}
		if suggestion.Disposition != entity.SuggestionPending {
			return apperr.New(apperr.KindAlreadyDecided, "suggestion %s is already %s", suggestionID.Hex(), suggestion.Disposition)
		}

		setlist, err = s.setlistRepository.FindOneLeanByID(ctx, slot.SetlistID)
		if err != nil {
			return err
		}

		key := input.Key
		if key == "" {
			key = suggestion.Key
		}

		item := &entity.SetlistItem{
			SongID:     suggestion.SongID,
			Key:        key,
			Performer:  input.Performer,
			MediaLink:  suggestion.MediaLink,
			DisplayKey: input.DisplayKey,
			Unfamiliar: input.Unfamiliar,
		}

		if err := setlist.CanAdd(item, s.itemCap, s.unfamiliarCap); err != nil {
			return err
		}

		decided, err := s.suggestionRepository.DecideSuggestion(ctx, slotID, suggestionID, entity.SuggestionApproved, now)
		if err != nil {
			return err
		}
		if !decided {
			return apperr.New(apperr.KindAlreadyDecided, "suggestion %s was decided concurrently", suggestionID.Hex())
		}

		setlist.Append(item)
		return s.setlistRepository.ReplaceItems(ctx, setlist.ID, setlist.Items)
	})
	if err != nil {
		return nil, err
	}

	return setlist, nil
}

// Reject is terminal and has no effect on the setlist. It is allowed in
// any slot status so reviewers can clean up after the due date.
func (s *SuggestionService) Reject(ctx context.Context, slotID, suggestionID bson.ObjectID) error {
	now := time.Now().UTC()

	decided, err := s.suggestionRepository.DecideSuggestion(ctx, slotID, suggestionID, entity.SuggestionRejected, now)
	if err != nil {
		return err
	}
	if decided {
		return nil
	}

	slot, err := s.suggestionRepository.FindOneLeanByID(ctx, slotID)
	if err != nil {
		return err
	}
	suggestion := slot.FindSuggestion(suggestionID)
	if suggestion == nil {
		return apperr.New(apperr.KindNotFound, "slot %s has no suggestion %s", slotID.Hex(), suggestionID.Hex())
	}

	return apperr.New(apperr.KindAlreadyDecided, "suggestion %s is already %s", suggestionID.Hex(), suggestion.Disposition)
}

func (s *SuggestionService) FindOneByID(ctx context.Context, slotID bson.ObjectID) (*entity.SuggestionSlot, error) {
	slot, err := s.suggestionRepository.FindOneByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	slot.Status = slot.StatusAt(time.Now().UTC())
	return slot, nil
}

func (s *SuggestionService) FindManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) ([]*entity.SuggestionSlot, error) {
	slots, err := s.suggestionRepository.FindManyBySetlistID(ctx, setlistID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, slot := range slots {
		slot.Status = slot.StatusAt(now)
	}

	return slots, nil
}
