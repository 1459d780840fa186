package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeTx runs the callback directly and tracks whether a call happens
// inside a transaction.
type fakeTx struct {
	inTx bool
	runs int
}

func (t *fakeTx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	t.inTx = true
	defer func() { t.inTx = false }()
	return fn(ctx)
}

// The cascade fakes log each write together with whether it ran inside
// the transaction. Unstubbed store methods panic via the embedded nil
// interface, which is what we want in these tests.

type cascadeLog struct {
	calls []string
}

func (l *cascadeLog) record(tx *fakeTx, call string) {
	if tx.inTx {
		call += " (tx)"
	}
	l.calls = append(l.calls, call)
}

type cascadeSetlistStore struct {
	setlistStore
	tx      *fakeTx
	log     *cascadeLog
	setlist *entity.Setlist
}

func (s *cascadeSetlistStore) FindOneLeanByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	if s.setlist == nil {
		return nil, apperr.New(apperr.KindNotFound, "no setlist")
	}
	return s.setlist, nil
}

func (s *cascadeSetlistStore) DeleteOneByEventID(ctx context.Context, eventID bson.ObjectID) error {
	s.log.record(s.tx, "delete setlist")
	return nil
}

func (s *cascadeSetlistStore) FindOrCreateByEventID(ctx context.Context, eventID bson.ObjectID) (*entity.Setlist, error) {
	s.log.record(s.tx, "ensure setlist")
	return &entity.Setlist{ID: bson.NewObjectID(), EventID: eventID}, nil
}

type cascadeSuggestionStore struct {
	suggestionStore
	tx        *fakeTx
	log       *cascadeLog
	deleteErr error
}

func (s *cascadeSuggestionStore) DeleteManyBySetlistID(ctx context.Context, setlistID bson.ObjectID) error {
	s.log.record(s.tx, "delete slots")
	return s.deleteErr
}

type cascadeEventStore struct {
	eventStore
	tx  *fakeTx
	log *cascadeLog
}

func (s *cascadeEventStore) DeleteOneByID(ctx context.Context, ID bson.ObjectID) error {
	s.log.record(s.tx, "delete event")
	return nil
}

func (s *cascadeEventStore) UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error) {
	s.log.record(s.tx, "upsert event")
	if event.ID.IsZero() {
		event.ID = bson.NewObjectID()
	}
	return &event, nil
}

func cascadeEventService(tx *fakeTx, log *cascadeLog, setlist *entity.Setlist, slotDeleteErr error) *EventService {
	return NewEventService(
		&cascadeEventStore{tx: tx, log: log},
		&cascadeSetlistStore{tx: tx, log: log, setlist: setlist},
		&cascadeSuggestionStore{tx: tx, log: log, deleteErr: slotDeleteErr},
		tx,
	)
}

func TestDeleteEventCascadesInOneTransaction(t *testing.T) {
	tx := &fakeTx{}
	log := &cascadeLog{}
	setlist := &entity.Setlist{ID: bson.NewObjectID()}
	s := cascadeEventService(tx, log, setlist, nil)

	err := s.DeleteOneByID(context.Background(), bson.NewObjectID())
	assert.NoError(t, err)

	assert.Equal(t, 1, tx.runs)
	assert.Equal(t, []string{"delete slots (tx)", "delete setlist (tx)", "delete event (tx)"}, log.calls)
}

func TestDeleteEventStopsCascadeOnSlotDeleteFailure(t *testing.T) {
	tx := &fakeTx{}
	log := &cascadeLog{}
	setlist := &entity.Setlist{ID: bson.NewObjectID()}
	s := cascadeEventService(tx, log, setlist, apperr.New(apperr.KindStorageUnavailable, "down"))

	err := s.DeleteOneByID(context.Background(), bson.NewObjectID())
	assert.Equal(t, apperr.KindStorageUnavailable, apperr.KindOf(err))

	// The later deletes never run, so the transaction has nothing
	// half-committed to roll back besides the failed step.
	assert.Equal(t, []string{"delete slots (tx)"}, log.calls)
}

func TestDeleteEventWithoutSetlistSkipsToEvent(t *testing.T) {
	tx := &fakeTx{}
	log := &cascadeLog{}
	s := cascadeEventService(tx, log, nil, nil)

	err := s.DeleteOneByID(context.Background(), bson.NewObjectID())
	assert.NoError(t, err)
	assert.Equal(t, []string{"delete event (tx)"}, log.calls)
}

func TestUpsertEventEnsuresSetlistInSameTransaction(t *testing.T) {
	tx := &fakeTx{}
	log := &cascadeLog{}
	s := cascadeEventService(tx, log, nil, nil)

	event, err := s.UpdateOne(context.Background(), entity.Event{Name: "Sunday service"})
	assert.NoError(t, err)
	assert.False(t, event.ID.IsZero())

	assert.Equal(t, 1, tx.runs)
	assert.Equal(t, []string{"upsert event (tx)", "ensure setlist (tx)"}, log.calls)
}
