package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmehdipour/customer-service/internal/metrics"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmehdipour/customer-service/internal/repository"
	"github.com/jmehdipour/customer-service/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultTopic = "customer.events"
	aggregate    = "customer"
)

// Fields are the client-writable columns shared by create and update.
// Optional columns are nil when the client sent nothing usable.
type Fields struct {
	FirstName    string
	LastName     string
	Phone        *string
	Mobile       *string
	City         string
	Country      string
	Email        *string
	Organization *string
}

type CreateInput struct {
	Fields
	UserID int64
}

// UpdateInput has no owner: ownership cannot change after creation.
type UpdateInput struct {
	Fields
}

// Service persists customers and, in the same transaction, their outbox events.
type Service struct {
	db        *gorm.DB
	customers repository.CustomersRepository
	outbox    repository.OutboxRepository
	topic     string
	log       *zap.Logger
}

// New constructs the customer service.
func New(
	db *gorm.DB,
	customersRepo repository.CustomersRepository,
	outboxRepo repository.OutboxRepository,
	topic string,
	log *zap.Logger,
) *Service {
	if topic == "" {
		topic = DefaultTopic
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:        db,
		customers: customersRepo,
		outbox:    outboxRepo,
		topic:     topic,
		log:       log,
	}
}

// List returns every customer, newest identifier first, in summary projection.
func (s *Service) List(ctx context.Context) ([]model.CustomerSummary, error) {
	return s.customers.Summaries(ctx, repository.Query{
		Projection: repository.SummaryProjection,
		OrderBy:    repository.ColID,
		Desc:       true,
	})
}

// Get returns one customer in summary projection, or an apperr.NotFoundError.
func (s *Service) Get(ctx context.Context, id int64) (*model.CustomerSummary, error) {
	return s.customers.Summary(ctx, repository.Query{
		Filter:     repository.ByID(id),
		Projection: repository.SummaryProjection,
	})
}

// Create inserts a customer and its "customer.created" outbox event atomically.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Customer, error) {
	c := &model.Customer{UserID: in.UserID}
	in.Fields.applyTo(c)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.customers.Create(ctx, tx, c); err != nil {
			return err
		}
		return s.publish(ctx, tx, model.CustomerCreated, c)
	})
	if err != nil {
		return nil, err
	}

	metrics.CustomerEventsTotal.WithLabelValues(model.CustomerCreated.String(), "outboxed").Inc()
	s.log.Info("customer created", zap.Int64("customer_id", c.ID), zap.Int64("user_id", c.UserID))
	return c, nil
}

// Update overwrites the updatable columns of an existing customer and records a
// "customer.updated" outbox event. The read is not locked: concurrent updates
// to one customer are last-writer-wins.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*model.Customer, error) {
	var c *model.Customer

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.customers.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		in.Fields.applyTo(found)

		if err := s.customers.Update(ctx, tx, found, repository.UpdatableColumns); err != nil {
			return err
		}
		c = found
		return s.publish(ctx, tx, model.CustomerUpdated, found)
	})
	if err != nil {
		return nil, err
	}

	metrics.CustomerEventsTotal.WithLabelValues(model.CustomerUpdated.String(), "outboxed").Inc()
	s.log.Info("customer updated", zap.Int64("customer_id", c.ID))
	return c, nil
}

func (f Fields) applyTo(c *model.Customer) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Phone = f.Phone
	c.Mobile = f.Mobile
	c.City = f.City
	c.Country = f.Country
	c.Email = f.Email
	c.Organization = f.Organization
}

func (s *Service) publish(ctx context.Context, tx *gorm.DB, typ model.CustomerEventType, c *model.Customer) error {
	ev := model.CustomerEvent{
		ID:         util.New(),
		Type:       typ,
		CustomerID: c.ID,
		Customer:   *c,
		OccurredAt: s.db.NowFunc(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal customer event: %w", err)
	}

	return s.outbox.Insert(ctx, tx, aggregate, strconv.FormatInt(c.ID, 10), s.topic, payload)
}
