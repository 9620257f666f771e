package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-rides/internal/model"
)

// ListParticipants handles GET /v1/events/:id/participants.  Only the
// organizer may call it; ?status= filters by participation status.
func (h *EventHandler) ListParticipants(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var status model.ParticipationStatus
    if raw := c.QueryParam("status"); raw != "" {
        if status, err = model.ParseParticipationStatus(raw); err != nil {
            return badRequest(c, err.Error())
        }
    }
    ps, err := h.Svc.ListParticipants(c.Request().Context(), c.Param("id"), uid, status)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": ps})
}

// ApproveParticipant handles PATCH /v1/events/:id/participants/:pid/approve.
func (h *EventHandler) ApproveParticipant(c echo.Context) error {
    return h.setParticipantStatus(c, model.ParticipantApproved)
}

// RejectParticipant handles PATCH /v1/events/:id/participants/:pid/reject.
func (h *EventHandler) RejectParticipant(c echo.Context) error {
    return h.setParticipantStatus(c, model.ParticipantRejected)
}

func (h *EventHandler) setParticipantStatus(c echo.Context, target model.ParticipationStatus) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    p, err := h.Svc.SetParticipantStatus(c.Request().Context(), c.Param("id"), uid, c.Param("pid"), target)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}
