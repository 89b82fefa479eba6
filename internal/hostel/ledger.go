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

// RecordPayment appends an entry to the payment journal and brings the
// resident's denormalized paid_amount cache back in sync.  amount must
// be >= 0; zero is valid and used for waiver annotations.  paidOn
// defaults to now when nil.
//
// The insert, the full journal re-sum and the cache write happen in
// one transaction under the resident's row lock, so concurrent
// payments for the same resident serialize and the cache always
// reflects every committed entry.  Re-summing the whole journal on
// each write rather than adding incrementally keeps the cache
// self-healing against prior drift.
func (s *Service) RecordPayment(ctx context.Context, residentID uint64, amount int64, paidOn *time.Time, note string) (*model.Payment, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	p := &model.Payment{
		ResidentID: residentID,
		Amount:     amount,
		ReceiptRef: uuid.NewString(),
	}
	if paidOn != nil {
		p.PaidOn = *paidOn
	} else {
		p.PaidOn = s.now().UTC()
	}
	if n := strings.TrimSpace(note); n != "" {
		p.Note = &n
	}

	var (
		resident *model.Resident
		balance  int64
	)
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		res, err := tx.ResidentForUpdate(ctx, residentID)
		if err != nil {
			return err
		}
		resident = res
		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}
		paid, err := tx.SumPayments(ctx, residentID)
		if err != nil {
			return err
		}
		balance = billing.Balance(res.TotalRent, res.JoinedDate, s.now(), paid)
		status := model.PaymentStatusUnpaid
		if balance <= 0 {
			status = model.PaymentStatusPaid
		}
		return tx.SetPaymentState(ctx, residentID, paid, status)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.LedgerAuditEvent{
		Kind:         queue.KindPaymentRecorded,
		ResidentID:   resident.ID,
		ResidentName: resident.FullName,
		Amount:       p.Amount,
		Balance:      balance,
		ReceiptRef:   p.ReceiptRef,
		Note:         note,
		OccurredAt:   s.now().UTC().Format(time.RFC3339),
	})
	return p, nil
}
