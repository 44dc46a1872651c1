package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/logging"
	"github.com/k-javaman/my-practices/internal/observability"
	"github.com/k-javaman/my-practices/internal/repository"
)

const (
	DefaultPeopleCount = 100
	batchSize          = 50
)

// People fills the person directory with n generated rows. It does nothing
// when the table already has data, so repeated startups are safe. A zero
// seed draws a random one.
func People(ctx context.Context, repo repository.PersonRepository, n int, seed uint64) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	if existing > 0 {
		logging.FromContext(ctx).InfoContext(ctx, "person directory already seeded", "rows", existing)
		return 0, nil
	}

	people := Generate(n, seed)
	if err := repo.CreateBatch(ctx, people, batchSize); err != nil {
		return 0, fmt.Errorf("insert people: %w", err)
	}
	observability.RecordSeededPeople(ctx, len(people))
	logging.FromContext(ctx).InfoContext(ctx, "person directory seeded", "rows", len(people))
	return len(people), nil
}

func Generate(n int, seed uint64) []domain.Person {
	f := gofakeit.New(seed)
	people := make([]domain.Person, 0, n)
	for range n {
		people = append(people, domain.Person{
			FirstName: f.FirstName(),
			LastName:  f.LastName(),
			Phone:     f.Phone(),
			Email:     f.Email(),
			Address: domain.Address{
				Street: f.Street(),
				City:   f.City(),
				State:  f.State(),
				Zip:    f.Zip(),
			},
		})
	}
	return people
}
