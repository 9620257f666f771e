package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/service"
)

// EventHandler exposes the participation and ride-matching operations over
// HTTP.  Handlers only bind, call the service and map errors; every rule
// lives in the service.
type EventHandler struct {
    Svc *service.Service
}

func NewEventHandler(svc *service.Service) *EventHandler {
    if svc == nil {
        panic("nil service passed to NewEventHandler")
    }
    return &EventHandler{Svc: svc}
}

type createEventReq struct {
    Title        string     `json:"title"`
    Description  *string    `json:"description"`
    StartAt      time.Time  `json:"start_at"`
    EndAt        *time.Time `json:"end_at"`
    LocationName string     `json:"location_name"`
    LocationLat  *float64   `json:"location_lat"`
    LocationLng  *float64   `json:"location_lng"`
    Capacity     *int       `json:"capacity"`
    JoinPolicy   string     `json:"join_policy"`
}

// CreateEvent handles POST /v1/events.  The caller becomes the organizer
// and the event starts as DRAFT.
func (h *EventHandler) CreateEvent(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var req createEventReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    policy, err := model.ParseJoinPolicy(req.JoinPolicy)
    if err != nil {
        return badRequest(c, err.Error())
    }
    ev, err := h.Svc.CreateEvent(c.Request().Context(), uid, service.CreateEventInput{
        Title:        req.Title,
        Description:  trimmed(req.Description),
        StartAt:      req.StartAt,
        EndAt:        req.EndAt,
        LocationName: req.LocationName,
        LocationLat:  req.LocationLat,
        LocationLng:  req.LocationLng,
        Capacity:     req.Capacity,
        JoinPolicy:   policy,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, ev)
}

// ListEvents handles GET /v1/events.  An optional ?status= narrows the
// list to one event status.
func (h *EventHandler) ListEvents(c echo.Context) error {
    var want model.EventStatus
    if raw := c.QueryParam("status"); raw != "" {
        st, err := model.ParseEventStatus(raw)
        if err != nil {
            return badRequest(c, err.Error())
        }
        want = st
    }
    all, err := h.Svc.ListEvents(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    evs := make([]model.Event, 0, len(all))
    for _, ev := range all {
        if want == "" || ev.Status == want {
            evs = append(evs, ev)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"items": evs})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
    ev, err := h.Svc.GetEvent(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, ev)
}

// PublishEvent handles POST /v1/events/:id/publish.
func (h *EventHandler) PublishEvent(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ev, err := h.Svc.PublishEvent(c.Request().Context(), c.Param("id"), uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, ev)
}

// CancelEvent handles POST /v1/events/:id/cancel.  Active ride matches of
// the event are canceled with it.
func (h *EventHandler) CancelEvent(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ev, err := h.Svc.CancelEvent(c.Request().Context(), c.Param("id"), uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, ev)
}

// Stats handles GET /v1/events/:id/stats.
func (h *EventHandler) Stats(c echo.Context) error {
    st, err := h.Svc.Stats(c.Request().Context(), c.Param("id"))
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, st)
}
