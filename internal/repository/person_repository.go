package repository

import (
	"context"
	"fmt"

	"github.com/k-javaman/my-practices/internal/domain"
	"github.com/k-javaman/my-practices/internal/observability"

	"gorm.io/gorm"
)

// personSortColumns maps public sort keys to columns.
var personSortColumns = map[string]string{
	"id":         "id",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"city":       "address_city",
	"state":      "address_state",
}

type PersonListQuery struct {
	PageRequest
	SortBy    string
	SortOrder string
}

type PersonRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, people []domain.Person, batchSize int) error
	ListPaged(ctx context.Context, query PersonListQuery) (PageResult[domain.Person], error)
}

type GormPersonRepository struct{ db *gorm.DB }

func NewPersonRepository(db *gorm.DB) PersonRepository { return &GormPersonRepository{db: db} }

func SortablePersonFields() []string {
	return []string{"id", "first_name", "last_name", "email", "city", "state"}
}

func (r *GormPersonRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Person{}).Count(&n).Error
	observability.RecordRepositoryOperation(ctx, "person", "count", outcomeOf(err, nil))
	return n, err
}

func (r *GormPersonRepository) CreateBatch(ctx context.Context, people []domain.Person, batchSize int) error {
	if len(people) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	err := r.db.WithContext(ctx).CreateInBatches(people, batchSize).Error
	observability.RecordRepositoryOperation(ctx, "person", "create_batch", outcomeOf(err, nil))
	return err
}

func (r *GormPersonRepository) ListPaged(ctx context.Context, query PersonListQuery) (PageResult[domain.Person], error) {
	req := normalizePageRequest(query.PageRequest)
	column := "id"
	if query.SortBy != "" {
		c, ok := personSortColumns[query.SortBy]
		if !ok {
			return PageResult[domain.Person]{}, fmt.Errorf("%w: %q", ErrInvalidSortField, query.SortBy)
		}
		column = c
	}
	order := normalizeSortOrder(query.SortOrder)

	result := PageResult[domain.Person]{
		Items:    []domain.Person{},
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	base := r.db.WithContext(ctx).Model(&domain.Person{})
	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "person", "list_paged", "error")
		return PageResult[domain.Person]{}, err
	}
	listQuery := base.Order(column + " " + order)
	if column != "id" {
		listQuery = listQuery.Order("id ASC")
	}
	if err := listQuery.Offset(offsetFor(req)).Limit(req.PageSize).Find(&result.Items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "person", "list_paged", "error")
		return PageResult[domain.Person]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	observability.RecordRepositoryOperation(ctx, "person", "list_paged", "success")
	return result, nil
}
