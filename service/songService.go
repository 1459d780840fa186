package service

import (
	"context"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/exp/slices"
)

type SongService struct {
	songRepository *repository.SongRepository
}

func NewSongService(songRepository *repository.SongRepository) *SongService {
	return &SongService{
		songRepository: songRepository,
	}
}

func (s *SongService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Song, error) {
	return s.songRepository.FindOneByID(ctx, ID)
}

// SearchByName ranks the band's songs by similarity to the query, for
// the song picker in the suggestion flow. Exact substring matches rank
// before fuzzy ones.
func (s *SongService) SearchByName(ctx context.Context, bandID bson.ObjectID, query string) ([]*entity.Song, error) {
	songs, err := s.songRepository.FindManyByBandID(ctx, bandID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return songs, nil
	}

	type scored struct {
		song       *entity.Song
		similarity float32
	}

	var matches []scored
	for _, song := range songs {
		name := strings.ToLower(song.Name)

		if strings.Contains(name, query) {
			matches = append(matches, scored{song: song, similarity: 1})
			continue
		}

		similarity, err := edlib.StringsSimilarity(query, name, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if similarity >= 0.5 {
			matches = append(matches, scored{song: song, similarity: similarity})
		}
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		}
		return 0
	})

	result := make([]*entity.Song, 0, len(matches))
	for _, match := range matches {
		result = append(result, match.song)
	}

	return result, nil
}
