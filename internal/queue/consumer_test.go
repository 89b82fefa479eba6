package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLinePaymentRecorded(t *testing.T) {
	line := formatLine(LedgerAuditEvent{
		Kind:         KindPaymentRecorded,
		ResidentID:   7,
		ResidentName: "Asha Verma",
		Amount:       6000,
		Balance:      0,
		ReceiptRef:   "r-123",
		OccurredAt:   "2025-06-15T00:00:00Z",
	})
	assert.Contains(t, line, "Payment recorded")
	assert.Contains(t, line, "resident_id=7")
	assert.Contains(t, line, "amount=6000")
	assert.Contains(t, line, "receipt=r-123")
	assert.Equal(t, "\n", line[len(line)-1:])
}

func TestFormatLineResidentVacated(t *testing.T) {
	line := formatLine(LedgerAuditEvent{
		Kind:         KindResidentVacated,
		ResidentID:   3,
		ResidentName: "Ravi Nair",
		RoomNumber:   "204",
		Balance:      500,
		Option:       "WAIVED",
		Note:         "hardship",
		OccurredAt:   "2025-06-15T00:00:00Z",
	})
	assert.Contains(t, line, "Resident vacated")
	assert.Contains(t, line, `room="204"`)
	assert.Contains(t, line, "option=WAIVED")
	assert.Contains(t, line, "final_balance=500")
}

func TestFormatLineUnknownKind(t *testing.T) {
	line := formatLine(LedgerAuditEvent{
		Kind:         "something.else",
		ResidentID:   1,
		ResidentName: "X",
		OccurredAt:   "2025-06-15T00:00:00Z",
	})
	assert.Contains(t, line, "something.else")
	assert.Contains(t, line, "resident_id=1")
}
