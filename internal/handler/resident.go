package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/repository"
)

// ResidentHandler serves resident registration, lookup, balance and
// vacate endpoints.
type ResidentHandler struct {
	Residents *repository.ResidentRepo
	Svc       *hostel.Service
}

func NewResidentHandler(residents *repository.ResidentRepo, svc *hostel.Service) *ResidentHandler {
	return &ResidentHandler{Residents: residents, Svc: svc}
}

type registerResidentReq struct {
	FullName        string  `json:"full_name"`
	ContactNumber   string  `json:"contact_number"`
	Email           *string `json:"email"`
	GuardianName    *string `json:"guardian_name"`
	GuardianContact *string `json:"guardian_contact"`
	IdentityNumber  *string `json:"identity_number"`
	Occupation      *string `json:"occupation"`
	RoomID          *uint64 `json:"room_id"`
}

type vacateReq struct {
	PaymentOption string `json:"payment_option"`
	Note          string `json:"note"`
}

// residentView is the JSON shape of a resident record.
type residentView struct {
	ID              uint64  `json:"id"`
	FullName        string  `json:"full_name"`
	ContactNumber   string  `json:"contact_number"`
	Email           *string `json:"email,omitempty"`
	GuardianName    *string `json:"guardian_name,omitempty"`
	GuardianContact *string `json:"guardian_contact,omitempty"`
	IdentityNumber  *string `json:"identity_number,omitempty"`
	Occupation      *string `json:"occupation,omitempty"`
	RoomID          *uint64 `json:"room_id,omitempty"`
	TotalRent       int64   `json:"total_rent"`
	PaidAmount      int64   `json:"paid_amount"`
	IsActive        bool    `json:"is_active"`
	PaymentStatus   string  `json:"payment_status"`
	JoinedDate      string  `json:"joined_date"`
}

func toResidentView(r *model.Resident) residentView {
	return residentView{
		ID:              r.ID,
		FullName:        r.FullName,
		ContactNumber:   r.ContactNumber,
		Email:           r.Email,
		GuardianName:    r.GuardianName,
		GuardianContact: r.GuardianContact,
		IdentityNumber:  r.IdentityNumber,
		Occupation:      r.Occupation,
		RoomID:          r.RoomID,
		TotalRent:       r.TotalRent,
		PaidAmount:      r.PaidAmount,
		IsActive:        r.IsActive,
		PaymentStatus:   r.PaymentStatus,
		JoinedDate:      r.JoinedDate.Format("2006-01-02"),
	}
}

// Register creates a resident, optionally assigning an initial room in
// the same transaction.
func (h *ResidentHandler) Register(c echo.Context) error {
	var req registerResidentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Svc.RegisterResident(c.Request().Context(), hostel.RegisterInput{
		FullName:        req.FullName,
		ContactNumber:   req.ContactNumber,
		Email:           req.Email,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
		IdentityNumber:  req.IdentityNumber,
		Occupation:      req.Occupation,
		RoomID:          req.RoomID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toResidentView(res))
}

// Search lists residents by ?q= name substring.  By default only
// active residents are returned; pass ?active=false for vacated ones
// or ?active=all for everyone.
func (h *ResidentHandler) Search(c echo.Context) error {
	var active *bool
	switch s := strings.ToLower(c.QueryParam("active")); s {
	case "", "true", "1":
		t := true
		active = &t
	case "false", "0":
		f := false
		active = &f
	case "all":
		// nil keeps both
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid active"})
	}
	residents, err := h.Residents.Search(c.Request().Context(), c.QueryParam("q"), active)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]residentView, 0, len(residents))
	for i := range residents {
		out = append(out, toResidentView(&residents[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get returns one resident record.
func (h *ResidentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Residents.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, toResidentView(res))
}

// Balance computes the resident's outstanding amount, optionally as of
// an ?as_of=RFC3339 instant.  The figure comes straight from the
// journal, never from the cached paid_amount.
func (h *ResidentHandler) Balance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var asOf time.Time
	if s := c.QueryParam("as_of"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "as_of must be RFC3339"})
		}
		asOf = t
	}
	balance, err := h.Svc.Balance(c.Request().Context(), id, asOf)
	if err != nil {
		return domainError(c, err)
	}
	resp := echo.Map{"resident_id": id, "balance": balance}
	if !asOf.IsZero() {
		resp["as_of"] = asOf.UTC().Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, resp)
}

// Vacate ends a resident's stay.  The payment_option must match the
// outstanding balance rules enforced by the core; WAIVED and
// PARTIALLY_PAID additionally require a note.
func (h *ResidentHandler) Vacate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req vacateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	option, err := hostel.ParsePaymentOption(req.PaymentOption)
	if err != nil {
		return domainError(c, err)
	}
	if err := h.Svc.Vacate(c.Request().Context(), id, option, req.Note); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"resident_id": id, "vacated": true})
}
