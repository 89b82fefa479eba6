package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hostel-admin/internal/model"
)

// ResidentRepo provides CRUD operations for residents.  Mutations of
// the room link, the paid amount cache and the active flag have Tx
// variants only: those fields participate in the occupancy and
// balance invariants and must never be written outside a transaction
// that holds the relevant row locks.
type ResidentRepo struct {
	db *sql.DB
}

// NewResidentRepo returns a new ResidentRepo bound to the given database.
func NewResidentRepo(db *sql.DB) *ResidentRepo { return &ResidentRepo{db: db} }

const residentCols = `id, full_name, contact_number, email, guardian_name, guardian_contact,
	identity_number, occupation, room_id, total_rent, paid_amount, is_active,
	payment_status, joined_date, created_at, updated_at`

func scanResident(row interface{ Scan(...any) error }) (*model.Resident, error) {
	var (
		m      model.Resident
		roomID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.FullName, &m.ContactNumber, &m.Email, &m.GuardianName,
		&m.GuardianContact, &m.IdentityNumber, &m.Occupation, &roomID, &m.TotalRent,
		&m.PaidAmount, &m.IsActive, &m.PaymentStatus, &m.JoinedDate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResidentNotFound
		}
		return nil, err
	}
	if roomID.Valid {
		id := uint64(roomID.Int64)
		m.RoomID = &id
	}
	return &m, nil
}

// GetByID retrieves a resident by ID.  Returns ErrResidentNotFound
// when no row exists.
func (r *ResidentRepo) GetByID(ctx context.Context, id uint64) (*model.Resident, error) {
	const q = `SELECT ` + residentCols + ` FROM residents WHERE id = ?`
	return scanResident(r.db.QueryRowContext(ctx, q, id))
}

// GetForUpdateTx locks the resident row for the duration of the
// transaction.  Every operation that writes the room link or the paid
// amount cache locks the resident first, which serializes concurrent
// payments and room moves for the same person.
func (r *ResidentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Resident, error) {
	const q = `SELECT ` + residentCols + ` FROM residents WHERE id = ? FOR UPDATE`
	return scanResident(tx.QueryRowContext(ctx, q, id))
}

// InsertTx creates a resident inside an open transaction and reads the
// row back so generated defaults (joined date, timestamps) are
// populated on the passed struct.
func (r *ResidentRepo) InsertTx(ctx context.Context, tx *sql.Tx, m *model.Resident) error {
	const q = `INSERT INTO residents
	           (full_name, contact_number, email, guardian_name, guardian_contact,
	            identity_number, occupation, room_id, total_rent, payment_status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var roomID any
	if m.RoomID != nil {
		roomID = *m.RoomID
	}
	status := m.PaymentStatus
	if status == "" {
		status = model.PaymentStatusUnpaid
	}
	res, err := tx.ExecContext(ctx, q, m.FullName, m.ContactNumber, m.Email, m.GuardianName,
		m.GuardianContact, m.IdentityNumber, m.Occupation, roomID, m.TotalRent, status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const sel = `SELECT ` + residentCols + ` FROM residents WHERE id = ?`
	got, err := scanResident(tx.QueryRowContext(ctx, sel, m.ID))
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

// SetRoomTx rewrites the resident's room link and rent snapshot.  A
// nil roomID clears the link (the vacate path).  totalRent is always
// written; callers pass the existing value when the snapshot must not
// move.
func (r *ResidentRepo) SetRoomTx(ctx context.Context, tx *sql.Tx, residentID uint64, roomID *uint64, totalRent int64) error {
	var room any
	if roomID != nil {
		room = *roomID
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE residents SET room_id = ?, total_rent = ? WHERE id = ?`,
		room, totalRent, residentID)
	return err
}

// SetPaymentStateTx rewrites the denormalized paid amount cache and
// the payment status label.  The paid value must come from a full
// journal sum computed inside the same transaction, never from an
// incremental add.
func (r *ResidentRepo) SetPaymentStateTx(ctx context.Context, tx *sql.Tx, residentID uint64, paid int64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE residents SET paid_amount = ?, payment_status = ? WHERE id = ?`,
		paid, status, residentID)
	return err
}

// DeactivateTx flips the resident inactive.  The room link is cleared
// by a separate SetRoomTx call in the same transaction.
func (r *ResidentRepo) DeactivateTx(ctx context.Context, tx *sql.Tx, residentID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE residents SET is_active = 0 WHERE id = ?`, residentID)
	return err
}

// ListActiveByRoom returns the active residents of a room ordered by
// name.  Used by the room detail view.
func (r *ResidentRepo) ListActiveByRoom(ctx context.Context, roomID uint64) ([]model.Resident, error) {
	const q = `SELECT ` + residentCols + ` FROM residents
	           WHERE room_id = ? AND is_active = 1 ORDER BY full_name`
	return r.queryResidents(ctx, q, roomID)
}

// Search returns residents whose name contains the given term, ordered
// by name.  active filters on the is_active flag when non-nil.  The
// admin console's autocomplete widgets are backed by this query.
func (r *ResidentRepo) Search(ctx context.Context, term string, active *bool) ([]model.Resident, error) {
	query := `SELECT ` + residentCols + ` FROM residents`
	var (
		where []string
		args  []any
	)
	if term = strings.TrimSpace(term); term != "" {
		where = append(where, "full_name LIKE ?")
		args = append(args, "%"+term+"%")
	}
	if active != nil {
		where = append(where, "is_active = ?")
		args = append(args, *active)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY full_name"
	return r.queryResidents(ctx, query, args...)
}

func (r *ResidentRepo) queryResidents(ctx context.Context, query string, args ...any) ([]model.Resident, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Resident, 0)
	for rows.Next() {
		var (
			m      model.Resident
			roomID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.FullName, &m.ContactNumber, &m.Email, &m.GuardianName,
			&m.GuardianContact, &m.IdentityNumber, &m.Occupation, &roomID, &m.TotalRent,
			&m.PaidAmount, &m.IsActive, &m.PaymentStatus, &m.JoinedDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if roomID.Valid {
			id := uint64(roomID.Int64)
			m.RoomID = &id
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
