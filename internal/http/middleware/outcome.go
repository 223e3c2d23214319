package middleware

import echo "github.com/labstack/echo/v4"

// Outcome labels how a routed request ended, for metrics and access logs.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeValidation  Outcome = "validation"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeStoreError  Outcome = "store_error"
	OutcomeRateLimited Outcome = "rate_limited"
)

const ctxOutcome = "route.outcome"

// SetOutcome records the outcome of the current request.
func SetOutcome(c echo.Context, o Outcome) {
	c.Set(ctxOutcome, o)
}

// OutcomeFromCtx returns the recorded outcome, if a handler set one.
func OutcomeFromCtx(c echo.Context) (Outcome, bool) {
	o, ok := c.Get(ctxOutcome).(Outcome)
	return o, ok
}
