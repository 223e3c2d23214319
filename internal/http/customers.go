package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmehdipour/customer-service/internal/repository"
	"github.com/jmehdipour/customer-service/internal/service/customer"
	echo "github.com/labstack/echo/v4"
)

const routeVersion = "1.0.0"

// CustomerService is what the customer routes need from the service layer.
type CustomerService interface {
	List(ctx context.Context) ([]model.CustomerSummary, error)
	Get(ctx context.Context, id int64) (*model.CustomerSummary, error)
	Create(ctx context.Context, in customer.CreateInput) (*model.Customer, error)
	Update(ctx context.Context, id int64, in customer.UpdateInput) (*model.Customer, error)
}

var _ CustomerService = (*customer.Service)(nil)

// customerRoutes builds the customer route table. history may be nil, in which
// case the history route is left out.
func customerRoutes(svc CustomerService, history repository.CustomerEventsRepository, r responder) []Route {
	routes := []Route{
		{
			Meta:    Meta{Name: "customerList", Method: http.MethodGet, Paths: []string{"/customer"}, Version: routeVersion},
			Handler: listCustomersHandler(svc, r),
		},
		{
			Meta:    Meta{Name: "customerRead", Method: http.MethodGet, Paths: []string{"/customer/:id"}, Version: routeVersion},
			Handler: readCustomerHandler(svc, r),
		},
		{
			Meta:    Meta{Name: "customerCreate", Method: http.MethodPost, Paths: []string{"/customer"}, Version: routeVersion},
			Handler: createCustomerHandler(svc, r),
		},
		{
			Meta:    Meta{Name: "customerUpdate", Method: http.MethodPut, Paths: []string{"/customer/:id"}, Version: routeVersion},
			Handler: updateCustomerHandler(svc, r),
		},
	}
	if history != nil {
		routes = append(routes, Route{
			Meta:    Meta{Name: "customerHistory", Method: http.MethodGet, Paths: []string{"/customer/:id/history"}, Version: routeVersion},
			Handler: customerHistoryHandler(history, r),
		})
	}
	return routes
}

func listCustomersHandler(svc CustomerService, r responder) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := svc.List(c.Request().Context())
		if err != nil {
			return r.fail(c, err, false)
		}
		return r.ok(c, http.StatusOK, rows)
	}
}

func readCustomerHandler(svc CustomerService, r responder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return r.missing(c, err)
		}

		row, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			if apperr.IsNotFound(err) {
				return r.missing(c, err)
			}
			return r.fail(c, err, false)
		}
		return r.ok(c, http.StatusOK, row)
	}
}

func createCustomerHandler(svc CustomerService, r responder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req customerRequest
		if err := bindBody(c, &req); err != nil {
			return r.fail(c, err, true)
		}

		created, err := svc.Create(c.Request().Context(), req.createInput())
		if err != nil {
			return r.fail(c, err, true)
		}
		return r.created(c, created)
	}
}

func updateCustomerHandler(svc CustomerService, r responder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return r.fail(c, err, true)
		}

		var req customerRequest
		if err := bindBody(c, &req); err != nil {
			return r.fail(c, err, true)
		}

		updated, err := svc.Update(c.Request().Context(), id, req.updateInput())
		if err != nil {
			return r.fail(c, err, true)
		}
		return r.ok(c, http.StatusOK, updated)
	}
}

func customerHistoryHandler(history repository.CustomerEventsRepository, r responder) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return r.fail(c, err, false)
		}

		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		events, err := history.ListByCustomer(c.Request().Context(), id, limit, offset)
		if err != nil {
			return r.fail(c, apperr.NewStore("list customer events", err), false)
		}

		return r.ok(c, http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(events),
			"results": events,
		})
	}
}
