package service

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type BandService struct {
	bandRepository *repository.BandRepository
}

func NewBandService(bandRepository *repository.BandRepository) *BandService {
	return &BandService{
		bandRepository: bandRepository,
	}
}

func (s *BandService) FindAll(ctx context.Context) ([]*entity.Band, error) {
	return s.bandRepository.FindAll(ctx)
}

func (s *BandService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Band, error) {
	return s.bandRepository.FindOneByID(ctx, ID)
}

func (s *BandService) UpdateOne(ctx context.Context, band entity.Band) (*entity.Band, error) {
	return s.bandRepository.UpdateOne(ctx, band)
}
