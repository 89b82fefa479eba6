package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hostel-admin/internal/model"
)

// RoomRepo provides read access to the room catalog and the occupancy
// counts derived from it.  Rooms are created by the seeder and are
// read only in normal operation, so there is no update or delete
// method here; Upsert exists solely for the idempotent seed pass.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomCols = `id, room_number, floor, capacity, rent, has_attached_washroom, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	err := row.Scan(&r.ID, &r.RoomNumber, &r.Floor, &r.Capacity, &r.Rent,
		&r.HasAttachedWashroom, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetByID retrieves a room by its ID.  Returns ErrRoomNotFound when no
// row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// GetByNumber retrieves a room by its unique room number label.
func (r *RoomRepo) GetByNumber(ctx context.Context, number string) (*model.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE room_number = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, number))
}

// GetForUpdateTx locks a room row for the duration of the transaction.
// Assignment operations lock the destination room before counting its
// occupants so that no concurrent assignment can slip between the
// capacity check and the write.
func (r *RoomRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomCols + ` FROM rooms WHERE id = ? FOR UPDATE`
	return scanRoom(tx.QueryRowContext(ctx, q, id))
}

// List returns rooms ordered by room number, optionally filtered by
// floor and by a substring of the room number.  floor <= 0 means no
// floor filter.  The empty query matches everything.
func (r *RoomRepo) List(ctx context.Context, floor int, q string) ([]model.Room, error) {
	query := `SELECT ` + roomCols + ` FROM rooms`
	var (
		where []string
		args  []any
	)
	if floor > 0 {
		where = append(where, "floor = ?")
		args = append(args, floor)
	}
	if q = strings.TrimSpace(q); q != "" {
		where = append(where, "room_number LIKE ?")
		args = append(args, "%"+q+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY room_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.Floor, &rm.Capacity, &rm.Rent,
			&rm.HasAttachedWashroom, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// CountActive returns how many active residents currently reference
// the room.  This is the occupancy figure every capacity check is
// based on.
func (r *RoomRepo) CountActive(ctx context.Context, roomID uint64) (int, error) {
	return countActiveIn(ctx, r.db, roomID)
}

// CountActiveTx is CountActive inside an open transaction.  Called
// after GetForUpdateTx so the count cannot change before the
// assignment is written.
func (r *RoomRepo) CountActiveTx(ctx context.Context, tx *sql.Tx, roomID uint64) (int, error) {
	return countActiveIn(ctx, tx, roomID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func countActiveIn(ctx context.Context, q querier, roomID uint64) (int, error) {
	const query = `SELECT COUNT(*) FROM residents WHERE room_id = ? AND is_active = 1`
	var n int
	if err := q.QueryRowContext(ctx, query, roomID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Upsert inserts a room or refreshes its catalog attributes when a row
// with the same room number already exists.  The seeder calls this for
// every catalog entry on startup, which keeps seeding idempotent.
func (r *RoomRepo) Upsert(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (room_number, floor, capacity, rent, has_attached_washroom)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               floor = VALUES(floor),
	               capacity = VALUES(capacity),
	               rent = VALUES(rent),
	               has_attached_washroom = VALUES(has_attached_washroom)`
	_, err := r.db.ExecContext(ctx, q,
		rm.RoomNumber, rm.Floor, rm.Capacity, rm.Rent, rm.HasAttachedWashroom)
	return err
}
