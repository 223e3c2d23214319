package model

import (
	"strings"
	"testing"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func validCustomer() *Customer {
	return &Customer{
		FirstName: "Ada",
		LastName:  "Lovelace",
		City:      "London",
		Country:   "UK",
		UserID:    1,
	}
}

func TestValidateAcceptsMinimalCustomer(t *testing.T) {
	require.NoError(t, Validate(validCustomer()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Customer)
		wantType string
		wantPath string
	}{
		{
			name:     "missing first name",
			mutate:   func(c *Customer) { c.FirstName = "" },
			wantType: apperr.TypeNotNull,
			wantPath: "first_name",
		},
		{
			name:     "missing owner",
			mutate:   func(c *Customer) { c.UserID = 0 },
			wantType: apperr.TypeNotNull,
			wantPath: "user_id",
		},
		{
			name:     "negative owner",
			mutate:   func(c *Customer) { c.UserID = -3 },
			wantType: apperr.TypeValidation,
			wantPath: "user_id",
		},
		{
			name:     "bad email",
			mutate:   func(c *Customer) { c.Email = strptr("not-an-email") },
			wantType: apperr.TypeValidation,
			wantPath: "email",
		},
		{
			name:     "phone too long",
			mutate:   func(c *Customer) { c.Phone = strptr(strings.Repeat("1", 33)) },
			wantType: apperr.TypeValidation,
			wantPath: "phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)

			err := Validate(c)
			require.Error(t, err)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantType, verr.Type)
			assert.Equal(t, tt.wantPath, verr.Path)
			assert.Contains(t, verr.Message, tt.wantPath)
		})
	}
}

func TestValidateListsEveryFailure(t *testing.T) {
	c := validCustomer()
	c.FirstName = ""
	c.City = ""

	var verr *apperr.ValidationError
	require.ErrorAs(t, Validate(c), &verr)
	assert.Equal(t, "first_name", verr.Path)
	assert.Contains(t, verr.Message, "customer.first_name cannot be null")
	assert.Contains(t, verr.Message, "customer.city cannot be null")
}

func TestCustomerEventTypeValid(t *testing.T) {
	assert.True(t, CustomerCreated.Valid())
	assert.True(t, CustomerUpdated.Valid())
	assert.False(t, CustomerEventType("customer.deleted").Valid())
}
