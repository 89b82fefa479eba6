package model

import "time"

// Payment is a single append-only entry in the payment journal.
// Payments are never edited or deleted: corrections are recorded as
// new offsetting entries and waivers as zero amount entries with a
// note, so the journal stays a complete audit history.
//
// Fields:
//  ID         – primary key identifier.
//  ResidentID – owning resident, required.
//  Amount     – non-negative amount in whole currency units.  Zero is
//               valid and used for waiver annotations.
//  PaidOn     – payment date, defaults to the time of recording.
//  Note       – optional free text annotation.
//  ReceiptRef – unique receipt reference handed back to the resident.
//  CreatedAt  – creation timestamp.
type Payment struct {
	ID         uint64    // payments.id
	ResidentID uint64    // payments.resident_id
	Amount     int64     // payments.amount
	PaidOn     time.Time // payments.paid_on
	Note       *string   // payments.note (nullable)
	ReceiptRef string    // payments.receipt_ref
	CreatedAt  time.Time // payments.created_at
}
