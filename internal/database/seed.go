package database

import (
	"context"
	"fmt"
	"log"

	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/repository"
)

// floorCount is how many floors the building has.  Every floor shares
// the same base room layout, with the floor digit prefixed to the
// room number suffix (base 101 becomes 201 on floor 2 and so on).
const floorCount = 6

// baseRooms is the per-floor catalog keyed by the first-floor room
// number.  Capacity and washroom flags vary per room; rent is derived
// from capacity by rentFor.
var baseRooms = map[int]struct {
	capacity uint32
	washroom bool
}{
	101: {3, true},
	102: {3, true},
	103: {4, true},
	104: {1, false},
	105: {2, true},
	106: {5, true},
	107: {1, false},
	108: {2, true},
	109: {5, true},
	110: {2, false},
	111: {3, true},
	112: {5, true},
	113: {1, false},
	114: {3, true},
}

// rentFor maps room capacity to the rent tier.  Smaller rooms cost
// more per head: singles are the premium tier.
func rentFor(capacity uint32) int64 {
	switch capacity {
	case 1:
		return 7000
	case 2:
		return 6500
	case 3:
		return 6000
	default:
		return 5500
	}
}

// roomNumber renders the label of a base room on a given floor, so
// base 101 becomes "301" on floor 3.
func roomNumber(floor, base int) string {
	return fmt.Sprintf("%d%02d", floor, base%100)
}

// SeedRooms writes the full room catalog.  It upserts by room number,
// so running it on every startup is safe: existing rooms keep their
// IDs and any resident references while their catalog attributes are
// refreshed.
func SeedRooms(ctx context.Context, rooms *repository.RoomRepo) error {
	n := 0
	for floor := 1; floor <= floorCount; floor++ {
		for base, info := range baseRooms {
			number := roomNumber(floor, base)
			room := &model.Room{
				RoomNumber:          number,
				Floor:               uint32(floor),
				Capacity:            info.capacity,
				Rent:                rentFor(info.capacity),
				HasAttachedWashroom: info.washroom,
			}
			if err := rooms.Upsert(ctx, room); err != nil {
				return fmt.Errorf("seed room %s: %w", number, err)
			}
			n++
		}
	}
	log.Printf("room catalog seeded: %d rooms across %d floors", n, floorCount)
	return nil
}
