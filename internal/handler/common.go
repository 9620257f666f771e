package handler // handler defines http handlers

import (
    "errors"   // errors.Is dispatch on service error kinds
    "net/http" // HTTP status codes
    "strings"  // trimming optional text fields

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/event-rides/internal/service" // error kinds
)

var errNoUser = errors.New("invalid user_id in context")

// getUserID extracts the user_id that JWTAuth stored on the context.
func getUserID(c echo.Context) (string, error) {
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        return v, nil
    }
    return "", errNoUser
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
    Error string `json:"error"`
    Code  string `json:"code"`
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, errorBody{Error: msg, Code: "validation_error"})
}

func unauthorized(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Code: "unauthorized"})
}

// respondError maps a service error onto its HTTP status.  Anything that is
// not a service error is reported as a 500 without leaking details.
func respondError(c echo.Context, err error) error {
    var se *service.Error
    if !errors.As(err, &se) {
        c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
    }
    status, code := http.StatusInternalServerError, "internal"
    switch {
    case errors.Is(err, service.ErrNotFound):
        status, code = http.StatusNotFound, "not_found"
    case errors.Is(err, service.ErrForbidden):
        status, code = http.StatusForbidden, "forbidden"
    case errors.Is(err, service.ErrValidation):
        status, code = http.StatusBadRequest, "validation_error"
    case errors.Is(err, service.ErrInvalidState):
        status, code = http.StatusUnprocessableEntity, "invalid_state"
    case errors.Is(err, service.ErrCapacity):
        status, code = http.StatusConflict, "capacity_exceeded"
    }
    return c.JSON(status, errorBody{Error: se.Msg, Code: code})
}

// trimmed returns nil for nil or blank input and the trimmed text otherwise.
func trimmed(s *string) *string {
    if s == nil {
        return nil
    }
    t := strings.TrimSpace(*s)
    if t == "" {
        return nil
    }
    return &t
}
