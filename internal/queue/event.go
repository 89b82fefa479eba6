// Package queue defines the payloads exchanged over the message broker
// and the background consumer that turns them into the audit log.
package queue

// Event kinds carried on the ledger.audit queue.
const (
	KindPaymentRecorded = "payment.recorded"
	KindResidentVacated = "resident.vacated"
)

// LedgerAuditEvent is published after a payment is recorded or a
// resident vacates.  It carries enough information for downstream
// consumers to build an audit trail without querying the primary
// database.  Fields that do not apply to a given kind are left empty.
type LedgerAuditEvent struct {
	Kind         string `json:"kind"`
	ResidentID   uint64 `json:"resident_id"`
	ResidentName string `json:"resident_name"`
	RoomNumber   string `json:"room_number,omitempty"`
	Amount       int64  `json:"amount,omitempty"`
	Balance      int64  `json:"balance"`
	ReceiptRef   string `json:"receipt_ref,omitempty"`
	Option       string `json:"payment_option,omitempty"`
	Note         string `json:"note,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}
