// Package hostel implements the back office core: the occupancy and
// assignment engine, the payment journal write path and the vacate
// workflow.  The HTTP layer is a thin wrapper around the Service
// defined here; all business rules and every capacity or balance
// invariant live in this package and in billing.
//
// The Service talks to persistence through the Store interface so the
// rules can be exercised in tests against an in-memory fake.  The SQL
// implementation lives in the repository package.
package hostel

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hostel-admin/internal/billing"
	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/queue"
)

// Store provides read access to persisted state and opens write
// transactions.  Reads outside a transaction are only used for
// derived, side effect free views (balance, occupancy).
type Store interface {
	Resident(ctx context.Context, id uint64) (*model.Resident, error)
	Room(ctx context.Context, id uint64) (*model.Room, error)
	SumPayments(ctx context.Context, residentID uint64) (int64, error)
	CountActive(ctx context.Context, roomID uint64) (int, error)
	// WithinTx runs fn inside a single database transaction.  The
	// transaction commits when fn returns nil and rolls back otherwise,
	// so an operation either applies all of its writes or none.
	WithinTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the write surface available inside a transaction.  The
// ForUpdate getters take row locks; every mutation of a resident's
// room link or paid amount cache happens under the resident's lock so
// check-then-act sequences cannot interleave.
type Tx interface {
	ResidentForUpdate(ctx context.Context, id uint64) (*model.Resident, error)
	RoomForUpdate(ctx context.Context, id uint64) (*model.Room, error)
	CountActive(ctx context.Context, roomID uint64) (int, error)
	InsertResident(ctx context.Context, m *model.Resident) error
	SetResidentRoom(ctx context.Context, residentID uint64, roomID *uint64, totalRent int64) error
	InsertPayment(ctx context.Context, p *model.Payment) error
	SumPayments(ctx context.Context, residentID uint64) (int64, error)
	SetPaymentState(ctx context.Context, residentID uint64, paid int64, status string) error
	Deactivate(ctx context.Context, residentID uint64) error
}

// AuditPublisher receives ledger audit events after a mutating
// operation has committed.  Publishing is best effort: a broker
// outage must never fail or roll back the operation itself.
type AuditPublisher interface {
	PublishLedgerAudit(ctx context.Context, ev queue.LedgerAuditEvent) error
}

// Service exposes the core operations to the presentation layer.
type Service struct {
	store Store
	audit AuditPublisher // may be nil when no broker is configured

	// rentResync controls whether a room change re-snapshots the
	// resident's total_rent from the destination room.  Off by default:
	// the rent fixed at first assignment follows the resident across
	// moves.
	rentResync bool

	now func() time.Time
}

// NewService constructs the core service.  audit may be nil.
func NewService(store Store, audit AuditPublisher, rentResync bool) *Service {
	return &Service{store: store, audit: audit, rentResync: rentResync, now: time.Now}
}

// Balance computes the outstanding amount for a resident as of the
// given instant.  A zero asOf means "now".  The figure is derived
// entirely from the join date, the rent snapshot and the payment
// journal; the cached paid_amount column is never consulted.
func (s *Service) Balance(ctx context.Context, residentID uint64, asOf time.Time) (int64, error) {
	res, err := s.store.Resident(ctx, residentID)
	if err != nil {
		return 0, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	if dateOf(asOf).Before(dateOf(res.JoinedDate)) {
		return 0, fmt.Errorf("%w: as_of precedes join date", ErrValidation)
	}
	paid, err := s.store.SumPayments(ctx, residentID)
	if err != nil {
		return 0, err
	}
	return billing.Balance(res.TotalRent, res.JoinedDate, asOf, paid), nil
}

// Occupancy returns the capacity view of a room: how many active
// residents it holds and how many slots remain.
func (s *Service) Occupancy(ctx context.Context, roomID uint64) (model.Occupancy, error) {
	room, err := s.store.Room(ctx, roomID)
	if err != nil {
		return model.Occupancy{}, err
	}
	occupied, err := s.store.CountActive(ctx, roomID)
	if err != nil {
		return model.Occupancy{}, err
	}
	return model.Occupancy{
		Capacity:  int(room.Capacity),
		Occupied:  occupied,
		Available: int(room.Capacity) - occupied,
	}, nil
}

// publish sends an audit event if a publisher is configured.  Failures
// are swallowed by the publisher itself (it logs and returns), so the
// ignored error here is deliberate.
func (s *Service) publish(ctx context.Context, ev queue.LedgerAuditEvent) {
	if s.audit == nil {
		return
	}
	_ = s.audit.PublishLedgerAudit(ctx, ev)
}

// dateOf truncates t to midnight UTC of its calendar date, matching
// the billing engine's whole-day arithmetic.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
