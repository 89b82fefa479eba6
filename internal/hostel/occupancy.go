package hostel

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/hostel-admin/internal/model"
)

// RegisterInput carries the fields accepted when registering a new
// resident.  RoomID is optional; when set, the resident is assigned
// to that room in the same transaction under the usual capacity rules
// and total_rent is snapshotted from the room.
type RegisterInput struct {
	FullName        string
	ContactNumber   string
	Email           *string
	GuardianName    *string
	GuardianContact *string
	IdentityNumber  *string
	Occupation      *string
	RoomID          *uint64
}

// RegisterResident creates a resident and optionally performs the
// initial room assignment atomically.  The join date is set by the
// database at insert time and is immutable afterwards.
func (s *Service) RegisterResident(ctx context.Context, in RegisterInput) (*model.Resident, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if strings.TrimSpace(in.ContactNumber) == "" {
		return nil, fmt.Errorf("%w: contact_number is required", ErrValidation)
	}

	res := &model.Resident{
		FullName:        strings.TrimSpace(in.FullName),
		ContactNumber:   strings.TrimSpace(in.ContactNumber),
		Email:           in.Email,
		GuardianName:    in.GuardianName,
		GuardianContact: in.GuardianContact,
		IdentityNumber:  in.IdentityNumber,
		Occupation:      in.Occupation,
	}
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		if in.RoomID != nil {
			room, err := tx.RoomForUpdate(ctx, *in.RoomID)
			if err != nil {
				return err
			}
			occupied, err := tx.CountActive(ctx, room.ID)
			if err != nil {
				return err
			}
			if occupied >= int(room.Capacity) {
				return fmt.Errorf("%w: room %s is full", ErrCapacityExceeded, room.RoomNumber)
			}
			res.RoomID = &room.ID
			res.TotalRent = room.Rent
		}
		return tx.InsertResident(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AssignRoom places a resident into a room.  It fails with
// ErrCapacityExceeded when the room has no free slot.  Assigning a
// resident to the room they already occupy is a no-op, not an error,
// and never double counts occupancy.  The resident's total_rent is
// snapshotted from the room the first time a rent is fixed.
func (s *Service) AssignRoom(ctx context.Context, residentID, roomID uint64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		return s.moveLocked(ctx, tx, residentID, roomID, false)
	})
}

// ChangeRoom moves a resident to a different room under the same
// capacity rule as AssignRoom.  The rent snapshot is left untouched
// unless the rent resync toggle is enabled, in which case it is
// re-snapshotted from the destination room.
func (s *Service) ChangeRoom(ctx context.Context, residentID, newRoomID uint64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		return s.moveLocked(ctx, tx, residentID, newRoomID, s.rentResync)
	})
}

// moveLocked implements assign and change-room inside an open
// transaction.  Locking order is resident first, then room; the
// occupancy count runs after both locks are held so no concurrent
// writer can overbook the room between the check and the write.
func (s *Service) moveLocked(ctx context.Context, tx Tx, residentID, roomID uint64, resync bool) error {
	res, err := tx.ResidentForUpdate(ctx, residentID)
	if err != nil {
		return err
	}
	if !res.IsActive {
		return fmt.Errorf("%w: resident %d is not active", ErrValidation, res.ID)
	}
	room, err := tx.RoomForUpdate(ctx, roomID)
	if err != nil {
		return err
	}
	if res.RoomID != nil && *res.RoomID == room.ID {
		return nil // already there
	}
	occupied, err := tx.CountActive(ctx, room.ID)
	if err != nil {
		return err
	}
	if occupied >= int(room.Capacity) {
		return fmt.Errorf("%w: room %s is full", ErrCapacityExceeded, room.RoomNumber)
	}
	rent := res.TotalRent
	if rent == 0 || resync {
		rent = room.Rent
	}
	return tx.SetResidentRoom(ctx, res.ID, &room.ID, rent)
}

// SwapRooms exchanges the room references of two residents in one
// transaction.  It fails with ErrSameRoom when both already share a
// room (including both being unassigned), since a swap implies a
// change.  Capacity can never be violated by a swap: each resident
// takes over a slot the other one is releasing, so per-room occupancy
// counts are unchanged.  Rent snapshots follow the residents, not the
// rooms.
func (s *Service) SwapRooms(ctx context.Context, residentA, residentB uint64) error {
	if residentA == residentB {
		return fmt.Errorf("%w: cannot swap a resident with themselves", ErrSameRoom)
	}
	return s.store.WithinTx(ctx, func(tx Tx) error {
		// Lock in ascending ID order so two concurrent swaps over the
		// same pair cannot deadlock.
		first, second := residentA, residentB
		if second < first {
			first, second = second, first
		}
		r1, err := tx.ResidentForUpdate(ctx, first)
		if err != nil {
			return err
		}
		r2, err := tx.ResidentForUpdate(ctx, second)
		if err != nil {
			return err
		}
		a, b := r1, r2
		if a.ID != residentA {
			a, b = r2, r1
		}
		if !a.IsActive || !b.IsActive {
			return fmt.Errorf("%w: both residents must be active to swap", ErrValidation)
		}
		if sameRoom(a.RoomID, b.RoomID) {
			return ErrSameRoom
		}
		if err := tx.SetResidentRoom(ctx, a.ID, b.RoomID, a.TotalRent); err != nil {
			return err
		}
		return tx.SetResidentRoom(ctx, b.ID, a.RoomID, b.TotalRent)
	})
}

func sameRoom(a, b *uint64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
