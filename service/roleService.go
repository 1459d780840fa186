package service

import (
	"context"

	"github.com/worshipkit/planner/entity"
	"github.com/worshipkit/planner/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type RoleService struct {
	roleRepository *repository.RoleRepository
}

func NewRoleService(roleRepository *repository.RoleRepository) *RoleService {
	return &RoleService{
		roleRepository: roleRepository,
	}
}

func (s *RoleService) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Role, error) {
	return s.roleRepository.FindOneByID(ctx, ID)
}

func (s *RoleService) FindManyByBandID(ctx context.Context, bandID bson.ObjectID) ([]*entity.Role, error) {
	return s.roleRepository.FindManyByBandID(ctx, bandID)
}

func (s *RoleService) UpdateOne(ctx context.Context, role entity.Role) (*entity.Role, error) {
	return s.roleRepository.UpdateOne(ctx, role)
}
