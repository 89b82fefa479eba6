package model

import "time"

// Room represents a single hostel room in the catalog.  Rooms are
// seeded once from the floor catalog and are rarely mutated after
// that.  The rent is fixed per room at seed time; residents take a
// snapshot of it when they are first assigned.  This struct
// corresponds to a row in the `rooms` table.
//
// Fields:
//  ID                  – primary key identifier.
//  RoomNumber          – unique room label, floor digit + suffix (e.g. "201").
//  Floor               – floor the room is on (1..n).
//  Capacity            – maximum number of active residents.
//  Rent                – listed rent per 30 day billing cycle, whole currency units.
//  HasAttachedWashroom – amenity flag.
//  CreatedAt           – timestamp when the room was created.
//  UpdatedAt           – timestamp of last update.
type Room struct {
	ID                  uint64    // rooms.id
	RoomNumber          string    // rooms.room_number
	Floor               uint32    // rooms.floor
	Capacity            uint32    // rooms.capacity
	Rent                int64     // rooms.rent
	HasAttachedWashroom bool      // rooms.has_attached_washroom
	CreatedAt           time.Time // rooms.created_at
	UpdatedAt           time.Time // rooms.updated_at
}

// Occupancy is the derived occupancy view of a room: how many active
// residents it holds against its capacity.  It is never stored; it is
// recomputed from the residents table on every read.
type Occupancy struct {
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}
