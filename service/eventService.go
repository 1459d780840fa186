package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/worshipkit/planner/apperr"
	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/helpers"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

type EventService struct {
	eventRepository      eventStore
	setlistRepository    setlistStore
	suggestionRepository suggestionStore
	tx                   txRunner
}

func NewEventService(eventRepository eventStore, setlistRepository setlistStore, suggestionRepository suggestionStore, tx txRunner) *EventService {
	return &EventService{
		eventRepository:      eventRepository,
		setlistRepository:    setlistRepository,
		suggestionRepository: suggestionRepository,
		tx:                   tx,
	}
}

func (s *EventService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error) {
	return s.eventRepository.FindOneByID(ctx, ID)
}

func (s *EventService) FindManyFromTodayByBandID(ctx context.Context, bandID bson.ObjectID, loc *time.Location) ([]*entity.Event, error) {
	startOfDayUTC := helpers.GetStartOfDayInLocUTC(loc)
	return s.eventRepository.FindManyFromDateByBandID(ctx, bandID, startOfDayUTC)
}

func (s *EventService) FindManyByBandIDAndPageNumber(ctx context.Context, bandID bson.ObjectID, pageNumber int) ([]*entity.Event, error) {
	return s.eventRepository.FindManyByBandIDAndPageNumber(ctx, bandID, pageNumber)
}

func (s *EventService) FindManyBetweenDatesByBandID(ctx context.Context, fromUTC, toUTC time.Time, bandID bson.ObjectID) ([]*entity.Event, error) {
	return s.eventRepository.FindManyBetweenDatesByBandID(ctx, fromUTC, toUTC, bandID)
}

// UpdateOne upserts the event and makes sure its setlist exists; the
// setlist is created with its event and only removed with it. Both steps
// run in one transaction so no event exists without a setlist.
func (s *EventService) UpdateOne(ctx context.Context, event entity.Event) (*entity.Event, error) {
	var newEvent *entity.Event

	err := s.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		newEvent, err = s.eventRepository.UpdateOne(ctx, event)
		if err != nil {
			return err
		}

		_, err = s.setlistRepository.FindOrCreateByEventID(ctx, newEvent.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newEvent, nil
}

// DeleteOneByID removes the event with its setlist and the setlist's
// suggestion slots. The cascade runs in one transaction; a failure
// anywhere rolls back the whole delete.
func (s *EventService) DeleteOneByID(ctx context.Context, ID bson.ObjectID) error {
	return s.tx.Run(ctx, func(ctx context.Context) error {
		setlist, err := s.setlistRepository.FindOneLeanByEventID(ctx, ID)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return err
		}

		if setlist != nil {
			if err := s.suggestionRepository.DeleteManyBySetlistID(ctx, setlist.ID); err != nil {
				return err
			}
			if err := s.setlistRepository.DeleteOneByEventID(ctx, ID); err != nil {
				return err
			}
		}

		return s.eventRepository.DeleteOneByID(ctx, ID)
	})
}

// EventView is the assembled read model for one event: the event itself,
// its setlist, and the open suggestion slots.
type EventView struct {
	Event   *entity.Event            `json:"event"`
	Setlist *entity.Setlist          `json:"setlist"`
	Slots   []*entity.SuggestionSlot `json:"slots"`
}

// GetEventView fetches the three parts concurrently; they are
// independent reads.
func (s *EventService) GetEventView(ctx context.Context, eventID bson.ObjectID) (*EventView, error) {
	view := &EventView{}

	event, err := s.eventRepository.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	view.Event = event

	setlist, err := s.setlistRepository.FindOrCreateByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	errwg, ctx := errgroup.WithContext(ctx)

	errwg.Go(func() error {
		setlist, err := s.setlistRepository.FindOneByID(ctx, setlist.ID)
		if err != nil {
			return err
		}
		view.Setlist = setlist
		return nil
	})

	errwg.Go(func() error {
		slots, err := s.suggestionRepository.FindManyBySetlistID(ctx, setlist.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, slot := range slots {
			slot.Status = slot.StatusAt(now)
		}
		view.Slots = slots
		return nil
	})

	if err := errwg.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

func (s *EventService) ToHtmlStringByID(ctx context.Context, ID bson.ObjectID, lang string) (string, *EventView, error) {
	view, err := s.GetEventView(ctx, ID)
	if err != nil {
		return "", nil, err
	}

	return s.ToHtmlStringByView(view, lang), view, nil
}

func (s *EventService) ToHtmlStringByView(view *EventView, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>", view.Event.Alias(lang))

	if view.Setlist != nil {
		if view.Setlist.Leader != nil {
			fmt.Fprintf(&b, "\n\n<b>Leader:</b> %s", view.Setlist.Leader.Name)
		}

		if len(view.Setlist.Items) > 0 {
			fmt.Fprintf(&b, "\n\n<b>Setlist:</b>")
			for _, item := range view.Setlist.Items {
				name := item.SongID.Hex()
				if item.Song != nil {
					name = item.Song.Name
				}
				fmt.Fprintf(&b, "\n%d. %s", item.Position, name)
				if item.Key != "" {
					fmt.Fprintf(&b, " (%s)", item.Key)
				}
			}
		}
	}

	if view.Event.Notes != nil && *view.Event.Notes != "" {
		fmt.Fprintf(&b, "\n\n<b>Notes:</b>\n%s", *view.Event.Notes)
	}

	return b.String()
}

func (s *EventService) GetMostFrequentEventNames(ctx context.Context, bandID bson.ObjectID, limit int) ([]*entity.EventNameFrequencies, error) {
	fromUTC := time.Now().AddDate(0, -3, 0).UTC()
	return s.eventRepository.GetMostFrequentEventNames(ctx, bandID, limit, fromUTC)
}
