package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsIdentityAndTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomersRepository(newTestDB(t))

	c := newCustomer("Ada")
	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.Create(ctx, nil, c))

	assert.Positive(t, c.ID)
	assert.True(t, c.CreatedAt.After(before))
	assert.Nil(t, c.Phone)
	assert.Nil(t, c.Email)
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	repo := NewCustomersRepository(gdb)

	c := newCustomer("")
	err := repo.Create(ctx, nil, c)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, apperr.TypeNotNull, verr.Type)
	assert.Equal(t, "first_name", verr.Path)

	var count int64
	require.NoError(t, gdb.Model(&model.Customer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSummariesOrderedByIDDescending(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomersRepository(newTestDB(t))

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, nil, newCustomer(name)))
	}

	rows, err := repo.Summaries(ctx, Query{Projection: SummaryProjection, OrderBy: ColID, Desc: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "C", rows[0].FirstName)
	assert.Equal(t, "A", rows[2].FirstName)
	assert.Greater(t, rows[0].UID, rows[1].UID)
	assert.Greater(t, rows[1].UID, rows[2].UID)
	assert.False(t, rows[0].CreatedAt.IsZero())
	assert.Equal(t, int64(1), rows[0].UserID)
}

func TestSummariesEmptyTable(t *testing.T) {
	rows, err := NewCustomersRepository(newTestDB(t)).Summaries(context.Background(), Query{OrderBy: ColID, Desc: true})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSummaryByID(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomersRepository(newTestDB(t))

	c := newCustomer("Grace")
	c.Mobile = strptr("+989121234567")
	require.NoError(t, repo.Create(ctx, nil, c))
	require.NoError(t, repo.Create(ctx, nil, newCustomer("Other")))

	row, err := repo.Summary(ctx, Query{Filter: ByID(c.ID)})
	require.NoError(t, err)
	assert.Equal(t, c.ID, row.UID)
	assert.Equal(t, "Grace", row.FirstName)
	require.NotNil(t, row.Mobile)
	assert.Equal(t, "+989121234567", *row.Mobile)

	_, err = repo.Summary(ctx, Query{Filter: ByID(c.ID + 100)})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateWritesOnlyUpdatableColumns(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomersRepository(newTestDB(t))

	c := newCustomer("Ada")
	c.Email = strptr("ada@example.com")
	require.NoError(t, repo.Create(ctx, nil, c))

	loaded, err := repo.GetByID(ctx, nil, c.ID)
	require.NoError(t, err)

	loaded.FirstName = "Z"
	loaded.Email = nil
	loaded.UserID = 99
	loaded.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, nil, loaded, UpdatableColumns))

	after, err := repo.GetByID(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z", after.FirstName)
	assert.Nil(t, after.Email)
	assert.Equal(t, int64(1), after.UserID)
	assert.WithinDuration(t, c.CreatedAt, after.CreatedAt, time.Millisecond)
}

func TestUpdateRejectsInvalidRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomersRepository(newTestDB(t))

	c := newCustomer("Ada")
	require.NoError(t, repo.Create(ctx, nil, c))

	c.City = ""
	err := repo.Update(ctx, nil, c, UpdatableColumns)
	assert.True(t, apperr.IsValidation(err))

	after, err := repo.GetByID(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tehran", after.City)
}

func TestGetByIDMissing(t *testing.T) {
	_, err := NewCustomersRepository(newTestDB(t)).GetByID(context.Background(), nil, 404)

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "404", nf.ID)
}

func TestOutboxInsertOwnTransaction(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)

	require.NoError(t, NewOutboxRepository(gdb).Insert(ctx, nil, "customer", "7", "customer.events", []byte(`{"id":"x"}`)))

	var ev model.OutboxEvent
	require.NoError(t, gdb.First(&ev).Error)
	assert.Equal(t, "customer", ev.Aggregate)
	assert.Equal(t, "7", ev.AggregateID)
	assert.Equal(t, "customer.events", ev.Topic)
	assert.JSONEq(t, `{"id":"x"}`, ev.Payload)
}
