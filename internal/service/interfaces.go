package service

import (
	"context"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/repository"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, rawToken string) error
}

type UserServiceInterface interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	ListPaged(ctx context.Context, query repository.UserListQuery) (repository.PageResult[domain.User], error)
}

type PersonServiceInterface interface {
	ListPaged(ctx context.Context, query repository.PersonListQuery) (repository.PageResult[domain.Person], error)
}

var (
	_ AuthServiceInterface   = (*AuthService)(nil)
	_ UserServiceInterface   = (*UserService)(nil)
	_ PersonServiceInterface = (*PersonService)(nil)
)
