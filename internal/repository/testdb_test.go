package repository

import (
	"testing"

	"github.com/jmehdipour/customer-service/internal/db"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig("error"))
	require.NoError(t, err)

	// one connection, otherwise every pooled conn sees its own empty :memory: db
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&model.Customer{}, &model.OutboxEvent{}))
	return gdb
}

func strptr(s string) *string { return &s }

func newCustomer(first string) *model.Customer {
	return &model.Customer{
		FirstName: first,
		LastName:  "Doe",
		City:      "Tehran",
		Country:   "IR",
		UserID:    1,
	}
}
