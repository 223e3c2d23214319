package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/service/customer"
	echo "github.com/labstack/echo/v4"
)

// optionalString is a nullable text field. It holds a value only when the
// client sent something present and non-empty: null, "", 0 and false all
// leave it empty. Non-zero numbers are kept as their literal text.
type optionalString struct {
	v *string
}

func (s *optionalString) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	s.v = nil
	switch x := raw.(type) {
	case nil:
	case string:
		if x != "" {
			s.v = &x
		}
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return nil
		}
		lit := x.String()
		s.v = &lit
	case bool:
		if x {
			lit := strconv.FormatBool(x)
			s.v = &lit
		}
	default:
		return &json.UnmarshalTypeError{
			Value: jsonKind(raw),
			Type:  reflect.TypeOf(""),
		}
	}
	return nil
}

// UnmarshalParam binds form and query values.
func (s *optionalString) UnmarshalParam(param string) error {
	s.v = nil
	if param != "" {
		s.v = &param
	}
	return nil
}

func (s optionalString) ptr() *string { return s.v }

func jsonKind(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(v).String()
	}
}

// customerRequest is the body of create and update. Update ignores UserID:
// a customer's owner is fixed at creation.
type customerRequest struct {
	FirstName    string         `json:"first_name" form:"first_name"`
	LastName     string         `json:"last_name" form:"last_name"`
	Phone        optionalString `json:"phone" form:"phone"`
	Mobile       optionalString `json:"mobile" form:"mobile"`
	City         string         `json:"city" form:"city"`
	Country      string         `json:"country" form:"country"`
	Email        optionalString `json:"email" form:"email"`
	Organization optionalString `json:"organization" form:"organization"`
	UserID       int64          `json:"user_id" form:"user_id"`
}

func (r customerRequest) fields() customer.Fields {
	return customer.Fields{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone.ptr(),
		Mobile:       r.Mobile.ptr(),
		City:         r.City,
		Country:      r.Country,
		Email:        r.Email.ptr(),
		Organization: r.Organization.ptr(),
	}
}

func (r customerRequest) createInput() customer.CreateInput {
	return customer.CreateInput{Fields: r.fields(), UserID: r.UserID}
}

func (r customerRequest) updateInput() customer.UpdateInput {
	return customer.UpdateInput{Fields: r.fields()}
}

// bindBody binds the request body into dst, reporting malformed input as a
// validation failure.
func bindBody(c echo.Context, dst any) error {
	err := (&echo.DefaultBinder{}).BindBody(c, dst)
	if err == nil {
		return nil
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &apperr.ValidationError{
			Message: fmt.Sprintf("customer.%s cannot be %s", ute.Field, article(ute.Value)),
			Type:    apperr.TypeString,
			Path:    ute.Field,
		}
	}
	return &apperr.ValidationError{
		Message: "malformed request body",
		Type:    apperr.TypeValidation,
	}
}

func article(kind string) string {
	switch kind {
	case "array", "object":
		return "an " + kind
	default:
		return "a " + kind
	}
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NewNotFound("customer", raw)
	}
	return id, nil
}
