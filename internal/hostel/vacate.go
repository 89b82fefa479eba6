package hostel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hostel-admin/internal/billing"
	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/queue"
)

// PaymentOption describes how the final balance is settled when a
// resident vacates.
type PaymentOption string

const (
	PaymentOptionPaid          PaymentOption = "PAID"
	PaymentOptionWaived        PaymentOption = "WAIVED"
	PaymentOptionPartiallyPaid PaymentOption = "PARTIALLY_PAID"
)

// ParsePaymentOption normalizes a client supplied option string.
func ParsePaymentOption(s string) (PaymentOption, error) {
	switch PaymentOption(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentOptionPaid:
		return PaymentOptionPaid, nil
	case PaymentOptionWaived:
		return PaymentOptionWaived, nil
	case PaymentOptionPartiallyPaid:
		return PaymentOptionPartiallyPaid, nil
	}
	return "", fmt.Errorf("%w: unknown payment option %q", ErrValidation, s)
}

// Vacate deactivates a resident and closes out their balance.  Rules:
//
//   - PAID is rejected while any balance is outstanding.
//   - WAIVED and PARTIALLY_PAID require a note explaining the
//     disposition (audit requirement).
//   - On success the resident is deactivated and their room link is
//     cleared, which releases the occupancy slot immediately.  For any
//     option other than PAID (or whenever a note was supplied) a zero
//     amount annotated payment is appended so the journal records the
//     disposition.
//
// This is the only path that releases a room slot without an explicit
// room change.  Payments are never removed: a vacated resident's
// journal stays intact.
func (s *Service) Vacate(ctx context.Context, residentID uint64, option PaymentOption, note string) error {
	switch option {
	case PaymentOptionPaid, PaymentOptionWaived, PaymentOptionPartiallyPaid:
	default:
		return fmt.Errorf("%w: unknown payment option %q", ErrValidation, option)
	}
	note = strings.TrimSpace(note)
	if option != PaymentOptionPaid && note == "" {
		return fmt.Errorf("%w: a note is required for %s", ErrValidation, option)
	}

	var (
		resident *model.Resident
		roomNo   string
		balance  int64
	)
	now := s.now()
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		res, err := tx.ResidentForUpdate(ctx, residentID)
		if err != nil {
			return err
		}
		if !res.IsActive {
			return fmt.Errorf("%w: resident %d has already vacated", ErrValidation, res.ID)
		}
		resident = res

		paid, err := tx.SumPayments(ctx, res.ID)
		if err != nil {
			return err
		}
		balance = billing.Balance(res.TotalRent, res.JoinedDate, now, paid)
		if option == PaymentOptionPaid && balance > 0 {
			return fmt.Errorf("%w: cannot mark paid with %d outstanding", ErrValidation, balance)
		}

		if res.RoomID != nil {
			room, err := tx.RoomForUpdate(ctx, *res.RoomID)
			if err != nil {
				return err
			}
			roomNo = room.RoomNumber
		}

		if err := tx.Deactivate(ctx, res.ID); err != nil {
			return err
		}
		if err := tx.SetResidentRoom(ctx, res.ID, nil, res.TotalRent); err != nil {
			return err
		}

		if option != PaymentOptionPaid || note != "" {
			annotation := "vacated " + strings.ToLower(string(option))
			if note != "" {
				annotation += ": " + note
			}
			entry := &model.Payment{
				ResidentID: res.ID,
				Amount:     0,
				PaidOn:     now.UTC(),
				Note:       &annotation,
				ReceiptRef: uuid.NewString(),
			}
			if err := tx.InsertPayment(ctx, entry); err != nil {
				return err
			}
		}

		// Full re-sum even though only zero amounts may have been
		// appended: the cache write path always recomputes.
		paid, err = tx.SumPayments(ctx, res.ID)
		if err != nil {
			return err
		}
		return tx.SetPaymentState(ctx, res.ID, paid, statusFor(option))
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.LedgerAuditEvent{
		Kind:         queue.KindResidentVacated,
		ResidentID:   resident.ID,
		ResidentName: resident.FullName,
		RoomNumber:   roomNo,
		Balance:      balance,
		Option:       string(option),
		Note:         note,
		OccurredAt:   now.UTC().Format(time.RFC3339),
	})
	return nil
}

func statusFor(option PaymentOption) string {
	switch option {
	case PaymentOptionWaived:
		return model.PaymentStatusWaived
	case PaymentOptionPartiallyPaid:
		return model.PaymentStatusPartiallyPaid
	default:
		return model.PaymentStatusPaid
	}
}
