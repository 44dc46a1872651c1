//go:build wireinject

package di

import (
	"log/slog"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/k-javaman/my-practices/internal/app"
	"github.com/k-javaman/my-practices/internal/config"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/repository"
)

func InitializeApp(cfg *config.Config, logger *slog.Logger, runtime *observability.Runtime) (*app.App, func(), error) {
	wire.Build(
		provideDB,
		provideRedis,
		providePublisher,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		provideSeedTask,
		provideApp,
	)
	return nil, nil, nil
}

func InitializeDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	wire.Build(provideDB)
	return nil, nil, nil
}

func InitializePersonRepository(cfg *config.Config) (repository.PersonRepository, func(), error) {
	wire.Build(provideDB, repository.NewPersonRepository)
	return nil, nil, nil
}

func InitializeUserRepository(cfg *config.Config) (repository.UserRepository, func(), error) {
	wire.Build(provideDB, repository.NewUserRepository)
	return nil, nil, nil
}
