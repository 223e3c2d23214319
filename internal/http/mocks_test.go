package http

import (
	"context"

	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmehdipour/customer-service/internal/service/customer"
)

type mockCustomerService struct {
	listFn   func(ctx context.Context) ([]model.CustomerSummary, error)
	getFn    func(ctx context.Context, id int64) (*model.CustomerSummary, error)
	createFn func(ctx context.Context, in customer.CreateInput) (*model.Customer, error)
	updateFn func(ctx context.Context, id int64, in customer.UpdateInput) (*model.Customer, error)
}

func (m *mockCustomerService) List(ctx context.Context) ([]model.CustomerSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.CustomerSummary{}, nil
}

func (m *mockCustomerService) Get(ctx context.Context, id int64) (*model.CustomerSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCustomerService) Create(ctx context.Context, in customer.CreateInput) (*model.Customer, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockCustomerService) Update(ctx context.Context, id int64, in customer.UpdateInput) (*model.Customer, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return nil, nil
}

type mockCustomerEvents struct {
	insertBatchFn    func(ctx context.Context, events []model.CustomerEvent) error
	listByCustomerFn func(ctx context.Context, customerID int64, limit, offset int) ([]model.CustomerEvent, error)
}

func (m *mockCustomerEvents) InsertBatch(ctx context.Context, events []model.CustomerEvent) error {
	if m.insertBatchFn != nil {
		return m.insertBatchFn(ctx, events)
	}
	return nil
}

func (m *mockCustomerEvents) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.CustomerEvent, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID, limit, offset)
	}
	return []model.CustomerEvent{}, nil
}
