package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/repository"
)

// PaymentHandler serves the payment journal endpoints.
type PaymentHandler struct {
	Payments  *repository.PaymentRepo
	Residents *repository.ResidentRepo
	Svc       *hostel.Service
}

func NewPaymentHandler(payments *repository.PaymentRepo, residents *repository.ResidentRepo, svc *hostel.Service) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Residents: residents, Svc: svc}
}

type recordPaymentReq struct {
	Amount int64   `json:"amount"`
	Date   *string `json:"date"` // RFC3339, defaults to now
	Note   string  `json:"note"`
}

// paymentView is the JSON shape of a journal entry.
type paymentView struct {
	ID         uint64  `json:"id"`
	ResidentID uint64  `json:"resident_id"`
	Amount     int64   `json:"amount"`
	PaidOn     string  `json:"paid_on"`
	Note       *string `json:"note,omitempty"`
	ReceiptRef string  `json:"receipt_ref"`
}

func toPaymentView(p *model.Payment) paymentView {
	return paymentView{
		ID:         p.ID,
		ResidentID: p.ResidentID,
		Amount:     p.Amount,
		PaidOn:     p.PaidOn.UTC().Format(time.RFC3339),
		Note:       p.Note,
		ReceiptRef: p.ReceiptRef,
	}
}

// List returns a resident's journal, newest first.  The journal is
// append-only, so this is the complete payment history including
// vacate annotations.
func (h *PaymentHandler) List(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	// 404 for unknown residents rather than an empty list.
	if _, err := h.Residents.GetByID(ctx, id); err != nil {
		return domainError(c, err)
	}
	payments, err := h.Payments.ListByResident(ctx, id)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]paymentView, 0, len(payments))
	for i := range payments {
		out = append(out, toPaymentView(&payments[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Record appends a payment to the journal.  Amount must be >= 0; the
// core recomputes the paid_amount cache and payment status in the
// same transaction.
func (h *PaymentHandler) Record(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var paidOn *time.Time
	if req.Date != nil && *req.Date != "" {
		t, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be RFC3339"})
		}
		paidOn = &t
	}
	p, err := h.Svc.RecordPayment(c.Request().Context(), id, req.Amount, paidOn, req.Note)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentView(p))
}
