package handler

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-rides/internal/service"
)

func TestRespondError(t *testing.T) {
    tests := []struct {
        err    error
        status int
        code   string
        msg    string
    }{
        {&service.Error{Kind: service.ErrNotFound, Msg: "event not found"}, http.StatusNotFound, "not_found", "event not found"},
        {&service.Error{Kind: service.ErrForbidden, Msg: "nope"}, http.StatusForbidden, "forbidden", "nope"},
        {&service.Error{Kind: service.ErrValidation, Msg: "bad"}, http.StatusBadRequest, "validation_error", "bad"},
        {&service.Error{Kind: service.ErrInvalidState, Msg: "closed"}, http.StatusUnprocessableEntity, "invalid_state", "closed"},
        {&service.Error{Kind: service.ErrCapacity, Msg: "full"}, http.StatusConflict, "capacity_exceeded", "full"},
        {fmt.Errorf("wrapped: %w", &service.Error{Kind: service.ErrCapacity, Msg: "full"}), http.StatusConflict, "capacity_exceeded", "full"},
        {errors.New("db down"), http.StatusInternalServerError, "internal", "internal error"},
    }
    e := echo.New()
    for _, tt := range tests {
        rec := httptest.NewRecorder()
        c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
        if err := respondError(c, tt.err); err != nil {
            t.Fatal(err)
        }
        var body errorBody
        if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
            t.Fatal(err)
        }
        if rec.Code != tt.status || body.Code != tt.code || body.Error != tt.msg {
            t.Errorf("%v: got %d %+v, want %d %s %q", tt.err, rec.Code, body, tt.status, tt.code, tt.msg)
        }
    }
}

func TestGetUserID(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    if _, err := getUserID(c); err == nil {
        t.Fatal("expected error without user_id")
    }
    c.Set("user_id", "u-1")
    if id, err := getUserID(c); err != nil || id != "u-1" {
        t.Fatalf("got %q, %v", id, err)
    }
}

func TestTrimmed(t *testing.T) {
    blank, text := "  ", " Downtown "
    if trimmed(nil) != nil || trimmed(&blank) != nil {
        t.Fatal("blank input should be nil")
    }
    if got := trimmed(&text); got == nil || *got != "Downtown" {
        t.Fatalf("got %v", got)
    }
}
