package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/model"
)

// Store is the SQL implementation of the core's persistence
// interfaces (hostel.Store and hostel.Tx).  It composes the entity
// repositories and adds the transaction plumbing: WithinTx opens a
// transaction, hands the callback a Tx-scoped view and commits only
// when the callback succeeds, so every core operation is all or
// nothing.
type Store struct {
	db        *sql.DB
	rooms     *RoomRepo
	residents *ResidentRepo
	payments  *PaymentRepo
}

// Interface compliance is checked where it matters, not at the call site.
var (
	_ hostel.Store = (*Store)(nil)
	_ hostel.Tx    = (*storeTx)(nil)
)

// NewStore builds a Store over the shared DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		rooms:     NewRoomRepo(db),
		residents: NewResidentRepo(db),
		payments:  NewPaymentRepo(db),
	}
}

// Rooms exposes the room repository for read-only handler queries.
func (s *Store) Rooms() *RoomRepo { return s.rooms }

// Residents exposes the resident repository for read-only handler queries.
func (s *Store) Residents() *ResidentRepo { return s.residents }

// Payments exposes the payment repository for read-only handler queries.
func (s *Store) Payments() *PaymentRepo { return s.payments }

func (s *Store) Resident(ctx context.Context, id uint64) (*model.Resident, error) {
	return s.residents.GetByID(ctx, id)
}

func (s *Store) Room(ctx context.Context, id uint64) (*model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Store) SumPayments(ctx context.Context, residentID uint64) (int64, error) {
	return s.payments.SumByResident(ctx, residentID)
}

func (s *Store) CountActive(ctx context.Context, roomID uint64) (int, error) {
	return s.rooms.CountActive(ctx, roomID)
}

// WithinTx runs fn inside a single transaction.  A nil return from fn
// commits; any error rolls back and is passed through unchanged so
// sentinel errors survive for errors.Is at the handler layer.
func (s *Store) WithinTx(ctx context.Context, fn func(hostel.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx, store: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// storeTx adapts the repositories' Tx methods to the hostel.Tx
// interface for one open transaction.
type storeTx struct {
	tx    *sql.Tx
	store *Store
}

func (t *storeTx) ResidentForUpdate(ctx context.Context, id uint64) (*model.Resident, error) {
	return t.store.residents.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) RoomForUpdate(ctx context.Context, id uint64) (*model.Room, error) {
	return t.store.rooms.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) CountActive(ctx context.Context, roomID uint64) (int, error) {
	return t.store.rooms.CountActiveTx(ctx, t.tx, roomID)
}

func (t *storeTx) InsertResident(ctx context.Context, m *model.Resident) error {
	return t.store.residents.InsertTx(ctx, t.tx, m)
}

func (t *storeTx) SetResidentRoom(ctx context.Context, residentID uint64, roomID *uint64, totalRent int64) error {
	return t.store.residents.SetRoomTx(ctx, t.tx, residentID, roomID, totalRent)
}

func (t *storeTx) InsertPayment(ctx context.Context, p *model.Payment) error {
	return t.store.payments.InsertTx(ctx, t.tx, p)
}

func (t *storeTx) SumPayments(ctx context.Context, residentID uint64) (int64, error) {
	return t.store.payments.SumByResidentTx(ctx, t.tx, residentID)
}

func (t *storeTx) SetPaymentState(ctx context.Context, residentID uint64, paid int64, status string) error {
	return t.store.residents.SetPaymentStateTx(ctx, t.tx, residentID, paid, status)
}

func (t *storeTx) Deactivate(ctx context.Context, residentID uint64) error {
	return t.store.residents.DeactivateTx(ctx, t.tx, residentID)
}
