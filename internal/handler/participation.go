package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/service"
)

type joinReq struct {
    RideMode     string  `json:"ride_mode"`
    SeatsOffered *int    `json:"seats_offered"`
    PickupArea   *string `json:"pickup_area"`
    Notes        *string `json:"notes"`
}

// updateMeReq leaves a field unchanged when it is absent.
type updateMeReq struct {
    RideMode     *string `json:"ride_mode"`
    SeatsOffered *int    `json:"seats_offered"`
    PickupArea   *string `json:"pickup_area"`
    Notes        *string `json:"notes"`
}

// Join handles POST /v1/events/:id/join.  It returns 201 with the
// participant; its status says whether the join was approved outright or
// is waiting for the organizer.
func (h *EventHandler) Join(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var req joinReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    mode, err := model.ParseRideMode(req.RideMode)
    if err != nil {
        return badRequest(c, "ride_mode must be one of NONE, NEED, OFFER")
    }
    p, err := h.Svc.Join(c.Request().Context(), service.JoinInput{
        EventID:      c.Param("id"),
        UserID:       uid,
        RideMode:     mode,
        SeatsOffered: req.SeatsOffered,
        PickupArea:   req.PickupArea,
        Notes:        req.Notes,
    })
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, p)
}

// Leave handles POST /v1/events/:id/leave.
func (h *EventHandler) Leave(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    p, err := h.Svc.Leave(c.Request().Context(), c.Param("id"), uid)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// UpdateMyParticipation handles PATCH /v1/events/:id/participants/me.
func (h *EventHandler) UpdateMyParticipation(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var req updateMeReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    in := service.UpdateInput{
        EventID:      c.Param("id"),
        UserID:       uid,
        SeatsOffered: req.SeatsOffered,
        PickupArea:   req.PickupArea,
        Notes:        req.Notes,
    }
    if req.RideMode != nil {
        mode, err := model.ParseRideMode(*req.RideMode)
        if err != nil {
            return badRequest(c, "ride_mode must be one of NONE, NEED, OFFER")
        }
        in.RideMode = &mode
    }
    p, err := h.Svc.UpdateMyParticipation(c.Request().Context(), in)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, p)
}
