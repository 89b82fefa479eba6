package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/hostel"
)

// AssignmentHandler serves the occupancy engine endpoints: assign,
// change-room and swap.  All three are single transactions inside the
// core; the handler only shapes requests and responses.
type AssignmentHandler struct {
	Svc *hostel.Service
}

func NewAssignmentHandler(svc *hostel.Service) *AssignmentHandler {
	return &AssignmentHandler{Svc: svc}
}

type roomRef struct {
	RoomID uint64 `json:"room_id"`
}

type swapReq struct {
	ResidentA uint64 `json:"resident_a"`
	ResidentB uint64 `json:"resident_b"`
}

// Assign places a resident into a room.  Re-assigning to the current
// room is a no-op and still returns 200.
func (h *AssignmentHandler) Assign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomRef
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}
	if err := h.Svc.AssignRoom(c.Request().Context(), id, req.RoomID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"resident_id": id, "room_id": req.RoomID})
}

// Change moves a resident to a different room.
func (h *AssignmentHandler) Change(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomRef
	if err := c.Bind(&req); err != nil || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}
	if err := h.Svc.ChangeRoom(c.Request().Context(), id, req.RoomID); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"resident_id": id, "room_id": req.RoomID})
}

// Swap exchanges the rooms of two residents atomically.
func (h *AssignmentHandler) Swap(c echo.Context) error {
	var req swapReq
	if err := c.Bind(&req); err != nil || req.ResidentA == 0 || req.ResidentB == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resident_a and resident_b required"})
	}
	if err := h.Svc.SwapRooms(c.Request().Context(), req.ResidentA, req.ResidentB); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"swapped": true})
}
