package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-rides/internal/model"
)

type createMatchReq struct {
    DriverParticipantID string `json:"driver_participant_id"`
    RiderParticipantID  string `json:"rider_participant_id"`
}

type updateMatchReq struct {
    Status string `json:"status"`
}

// ListMatches handles GET /v1/events/:id/rides/matches.
func (h *EventHandler) ListMatches(c echo.Context) error {
    ms, err := h.Svc.ListMatches(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": ms})
}

// Suggestions handles POST /v1/events/:id/rides/suggestions.  Nothing is
// stored; callers turn a suggestion into a match with CreateMatch.
func (h *EventHandler) Suggestions(c echo.Context) error {
    sg, err := h.Svc.Suggestions(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": sg})
}

// CreateMatch handles POST /v1/events/:id/rides/matches.
func (h *EventHandler) CreateMatch(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var req createMatchReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    driver := strings.TrimSpace(req.DriverParticipantID)
    rider := strings.TrimSpace(req.RiderParticipantID)
    if driver == "" || rider == "" {
        return badRequest(c, "driver_participant_id and rider_participant_id are required")
    }
    m, err := h.Svc.CreateMatch(c.Request().Context(), c.Param("id"), uid, driver, rider)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, m)
}

// UpdateMatch handles PATCH /v1/rides/matches/:id.
func (h *EventHandler) UpdateMatch(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var req updateMatchReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    next, err := model.ParseMatchStatus(req.Status)
    if err != nil {
        return badRequest(c, "status must be one of ACCEPTED, REJECTED, CANCELED")
    }
    m, err := h.Svc.UpdateMatchStatus(c.Request().Context(), c.Param("id"), uid, next)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}
