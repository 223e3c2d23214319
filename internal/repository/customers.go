package repository

import (
	"context"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/model"
	"gorm.io/gorm"
)

const customerResource = "customer"

type CustomersRepository interface {
	Summaries(ctx context.Context, q Query) ([]model.CustomerSummary, error)
	Summary(ctx context.Context, q Query) (*model.CustomerSummary, error)

	// Write-side methods run in tx when given, else on the repository's own handle.
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Customer, error)
	Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error
	Update(ctx context.Context, tx *gorm.DB, c *model.Customer, cols []Column) error
}

type CustomersRepositoryImpl struct {
	db *gorm.DB
}

func NewCustomersRepository(db *gorm.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

func (r *CustomersRepositoryImpl) handle(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Summaries returns every row matching q. An empty result is an empty, non-nil slice.
func (r *CustomersRepositoryImpl) Summaries(ctx context.Context, q Query) ([]model.CustomerSummary, error) {
	rows := make([]model.CustomerSummary, 0)
	err := q.apply(r.db.WithContext(ctx).Model(&model.Customer{})).Scan(&rows).Error
	if err != nil {
		return nil, wrapError("list customers", err)
	}
	return rows, nil
}

// Summary returns the first row matching q, or a NotFoundError.
func (r *CustomersRepositoryImpl) Summary(ctx context.Context, q Query) (*model.CustomerSummary, error) {
	q.Limit = 1

	var row model.CustomerSummary
	res := q.apply(r.db.WithContext(ctx).Model(&model.Customer{})).Scan(&row)
	if res.Error != nil {
		return nil, wrapError("read customer", res.Error)
	}
	if res.RowsAffected == 0 {
		var id any = "?"
		if q.Filter.ID != nil {
			id = *q.Filter.ID
		}
		return nil, apperr.NewNotFound(customerResource, id)
	}
	return &row, nil
}

func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*model.Customer, error) {
	var c model.Customer
	if err := r.handle(ctx, tx).First(&c, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, apperr.NewNotFound(customerResource, id)
		}
		return nil, wrapError("get customer", err)
	}
	return &c, nil
}

// Create inserts c; the store assigns ID and CreatedAt, written back into c.
func (r *CustomersRepositoryImpl) Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error {
	return wrapError("create customer", r.handle(ctx, tx).Create(c).Error)
}

// Update persists only cols of c. Model validation still runs on the whole record.
func (r *CustomersRepositoryImpl) Update(ctx context.Context, tx *gorm.DB, c *model.Customer, cols []Column) error {
	if len(cols) == 0 {
		return nil
	}
	err := r.handle(ctx, tx).
		Model(c).
		Select(columnNames(cols)).
		Updates(c).Error
	return wrapError("update customer", err)
}
