package model

import "time"

// Payment status display labels stored on the resident row.  They are
// denormalized convenience values; the balance engine never reads them.
const (
	PaymentStatusPaid          = "Paid"
	PaymentStatusUnpaid        = "Unpaid"
	PaymentStatusWaived        = "Waived"
	PaymentStatusPartiallyPaid = "PartiallyPaid"
)

// Resident represents a registered hostel member and their current
// room assignment.  A nil RoomID means the resident is not assigned
// to any room (vacated residents keep their history but lose the
// room link).  Residents are never hard deleted; vacating flips
// IsActive to false.
//
// Fields:
//  ID              – primary key identifier.
//  FullName        – resident's full name.
//  ContactNumber   – phone number.
//  Email           – optional email address.
//  GuardianName    – optional guardian name.
//  GuardianContact – optional guardian phone number.
//  IdentityNumber  – optional identity document number.
//  Occupation      – optional job or field of study.
//  RoomID          – current room, nil when unassigned.
//  TotalRent       – rent snapshot taken at first room assignment.
//  PaidAmount      – denormalized sum of all payments, kept in sync by
//                    the payment journal write path.
//  IsActive        – false once the resident has vacated.
//  PaymentStatus   – display label derived on write (see constants above).
//  JoinedDate      – date the resident joined; set once, immutable.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Resident struct {
	ID              uint64    // residents.id
	FullName        string    // residents.full_name
	ContactNumber   string    // residents.contact_number
	Email           *string   // residents.email (nullable)
	GuardianName    *string   // residents.guardian_name (nullable)
	GuardianContact *string   // residents.guardian_contact (nullable)
	IdentityNumber  *string   // residents.identity_number (nullable)
	Occupation      *string   // residents.occupation (nullable)
	RoomID          *uint64   // residents.room_id (nullable)
	TotalRent       int64     // residents.total_rent
	PaidAmount      int64     // residents.paid_amount
	IsActive        bool      // residents.is_active
	PaymentStatus   string    // residents.payment_status
	JoinedDate      time.Time // residents.joined_date
	CreatedAt       time.Time // residents.created_at
	UpdatedAt       time.Time // residents.updated_at
}
