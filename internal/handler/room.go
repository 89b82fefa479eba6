package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/repository"
)

// RoomHandler serves the room catalog endpoints.
type RoomHandler struct {
	Rooms     *repository.RoomRepo
	Residents *repository.ResidentRepo
	Svc       *hostel.Service
}

func NewRoomHandler(rooms *repository.RoomRepo, residents *repository.ResidentRepo, svc *hostel.Service) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Residents: residents, Svc: svc}
}

// roomView is the JSON shape of a catalog room.
type roomView struct {
	ID                  uint64 `json:"id"`
	RoomNumber          string `json:"room_number"`
	Floor               uint32 `json:"floor"`
	Capacity            uint32 `json:"capacity"`
	Rent                int64  `json:"rent"`
	HasAttachedWashroom bool   `json:"has_attached_washroom"`
}

// memberView is the compact resident shape embedded in room detail.
type memberView struct {
	ID            uint64 `json:"id"`
	FullName      string `json:"full_name"`
	ContactNumber string `json:"contact_number"`
	TotalRent     int64  `json:"total_rent"`
	PaymentStatus string `json:"payment_status"`
}

type roomDetailResp struct {
	roomView
	Occupancy model.Occupancy `json:"occupancy"`
	Members   []memberView    `json:"members"`
}

func toRoomView(r *model.Room) roomView {
	return roomView{
		ID:                  r.ID,
		RoomNumber:          r.RoomNumber,
		Floor:               r.Floor,
		Capacity:            r.Capacity,
		Rent:                r.Rent,
		HasAttachedWashroom: r.HasAttachedWashroom,
	}
}

// List returns catalog rooms, optionally filtered by ?floor= and a
// ?q= room-number substring.  The console uses it to drive its room
// pickers, so results are ordered by room number.
func (h *RoomHandler) List(c echo.Context) error {
	floor := 0
	if s := c.QueryParam("floor"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor"})
		}
		floor = n
	}
	rooms, err := h.Rooms.List(c.Request().Context(), floor, c.QueryParam("q"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]roomView, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomView(&rooms[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get returns one room with its occupancy and active members.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	occ, err := h.Svc.Occupancy(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	members, err := h.Residents.ListActiveByRoom(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	resp := roomDetailResp{
		roomView:  toRoomView(room),
		Occupancy: occ,
		Members:   make([]memberView, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, memberView{
			ID:            m.ID,
			FullName:      m.FullName,
			ContactNumber: m.ContactNumber,
			TotalRent:     m.TotalRent,
			PaymentStatus: m.PaymentStatus,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Occupancy returns the {capacity, occupied, available} view alone.
func (h *RoomHandler) Occupancy(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	occ, err := h.Svc.Occupancy(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, occ)
}

// Rent returns a room's listed rent.  The console calls it to prefill
// the rent field when assigning a resident.
func (h *RoomHandler) Rent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": room.ID, "rent": room.Rent})
}
