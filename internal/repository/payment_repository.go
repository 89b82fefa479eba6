package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hostel-admin/internal/model"
)

// PaymentRepo provides access to the append-only payment journal.
// There is deliberately no update or delete: corrections are new
// offsetting entries and waivers are zero amount entries, so history
// is never rewritten.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// InsertTx appends a payment inside an open transaction and reads the
// row back to populate generated fields.  The caller holds the
// resident row lock and recomputes the paid amount cache in the same
// transaction.
func (r *PaymentRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (resident_id, amount, paid_on, note, receipt_ref)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.ResidentID, p.Amount, p.PaidOn, p.Note, p.ReceiptRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const sel = `SELECT id, resident_id, amount, paid_on, note, receipt_ref, created_at
	             FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).
		Scan(&p.ID, &p.ResidentID, &p.Amount, &p.PaidOn, &p.Note, &p.ReceiptRef, &p.CreatedAt)
}

// SumByResident returns the journal total for a resident.  The balance
// engine always works from this figure, never from the cached
// paid_amount column.
func (r *PaymentRepo) SumByResident(ctx context.Context, residentID uint64) (int64, error) {
	return sumPayments(ctx, r.db, residentID)
}

// SumByResidentTx is SumByResident inside an open transaction, used to
// recompute the cache right after an insert.
func (r *PaymentRepo) SumByResidentTx(ctx context.Context, tx *sql.Tx, residentID uint64) (int64, error) {
	return sumPayments(ctx, tx, residentID)
}

func sumPayments(ctx context.Context, q querier, residentID uint64) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE resident_id = ?`
	var total int64
	if err := q.QueryRowContext(ctx, query, residentID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ListByResident returns all journal entries for a resident, newest
// first.
func (r *PaymentRepo) ListByResident(ctx context.Context, residentID uint64) ([]model.Payment, error) {
	const q = `SELECT id, resident_id, amount, paid_on, note, receipt_ref, created_at
	           FROM payments WHERE resident_id = ? ORDER BY paid_on DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ResidentID, &p.Amount, &p.PaidOn, &p.Note,
			&p.ReceiptRef, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
