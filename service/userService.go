package service

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserService struct {
	userRepository *repository.UserRepository
}

func NewUserService(userRepository *repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) FindOneByID(ctx context.Context, ID int64) (*entity.User, error) {
	return s.userRepository.FindOneByID(ctx, ID)
}

func (s *UserService) FindManyByBandID(ctx context.Context, bandID bson.ObjectID) ([]*entity.User, error) {
	return s.userRepository.FindManyByBandID(ctx, bandID)
}

func (s *UserService) UpdateOne(ctx context.Context, user entity.User) (*entity.User, error) {
	return s.userRepository.UpdateOne(ctx, user)
}
