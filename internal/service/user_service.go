package service

import (
	"context"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) ListPaged(ctx context.Context, query repository.UserListQuery) (repository.PageResult[domain.User], error) {
	return s.users.ListPaged(ctx, query)
}

type PersonService struct {
	people repository.PersonRepository
}

func NewPersonService(people repository.PersonRepository) *PersonService {
	return &PersonService{people: people}
}

func (s *PersonService) ListPaged(ctx context.Context, query repository.PersonListQuery) (repository.PageResult[domain.Person], error) {
	return s.people.ListPaged(ctx, query)
}
