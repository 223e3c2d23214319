package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/customer-service/internal/apperr"
	"github.com/jmehdipour/customer-service/internal/http/middleware"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StatusMode selects how failures map to HTTP status codes.
type StatusMode string

const (
	// StatusLegacy answers create/update failures with 200 and a missing
	// record on read with 200 null. Existing clients inspect the body.
	StatusLegacy StatusMode = "legacy"
	// StatusStrict uses 4xx/5xx for failures and 201 for creation.
	StatusStrict StatusMode = "strict"
)

// errorBody is the failure shape every customer route answers with.
type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
}

const storeErrorMessage = "internal store error"

type responder struct {
	mode StatusMode
	log  *zap.Logger
}

func (r responder) ok(c echo.Context, status int, body any) error {
	middleware.SetOutcome(c, middleware.OutcomeOK)
	return c.JSON(status, body)
}

func (r responder) created(c echo.Context, body any) error {
	if r.mode == StatusStrict {
		return r.ok(c, http.StatusCreated, body)
	}
	return r.ok(c, http.StatusOK, body)
}

// fail writes err as an errorBody. With legacyOK the legacy mode answers 200.
// It always returns nil so the middleware chain runs to completion.
func (r responder) fail(c echo.Context, err error, legacyOK bool) error {
	status, body, outcome := r.classify(c, err)
	middleware.SetOutcome(c, outcome)

	if legacyOK && r.mode != StatusStrict {
		status = http.StatusOK
	}
	return c.JSON(status, body)
}

// missing answers a read of a record that does not exist.
func (r responder) missing(c echo.Context, err error) error {
	if r.mode == StatusStrict {
		return r.fail(c, err, false)
	}
	middleware.SetOutcome(c, middleware.OutcomeNotFound)
	return c.JSON(http.StatusOK, nil)
}

func (r responder) classify(c echo.Context, err error) (int, errorBody, middleware.Outcome) {
	var (
		verr *apperr.ValidationError
		nf   *apperr.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest,
			errorBody{Message: verr.Message, Type: verr.Type, Path: verr.Path},
			middleware.OutcomeValidation
	case errors.As(err, &nf):
		return http.StatusNotFound,
			errorBody{Message: nf.Error(), Type: apperr.TypeNotFound},
			middleware.OutcomeNotFound
	default:
		r.log.Error("store failure",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return http.StatusInternalServerError,
			errorBody{Message: storeErrorMessage, Type: apperr.TypeStore},
			middleware.OutcomeStoreError
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
