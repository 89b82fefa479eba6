// Package billing implements the rent balance engine.  Everything in
// here is a pure function over values the caller has already loaded:
// given a join date, a rent snapshot and the summed payment journal it
// derives how many 30 day billing cycles have elapsed and what the
// resident owes.  There are no side effects and no clock reads, so a
// balance can be recomputed for any "as of" instant at any time.
package billing

import "time"

// CycleDays is the length of one billing cycle.  A resident owes one
// additional full cycle's rent as soon as any day of a new cycle
// begins; there is no proration of partial cycles.
const CycleDays = 30

// DaysStayed returns the number of whole days between the join date
// and the asOf instant.  Both are truncated to their calendar date in
// UTC first, so the time-of-day components never influence the count.
// An asOf earlier than the join date yields zero.
func DaysStayed(joined, asOf time.Time) int64 {
	days := int64(dateOf(asOf).Sub(dateOf(joined)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Cycles returns how many billing cycles the resident owes for as of
// the given instant.  The first cycle is billed in full from day zero,
// the second from day 30, and so on.
func Cycles(joined, asOf time.Time) int64 {
	return DaysStayed(joined, asOf)/CycleDays + 1
}

// Balance computes the outstanding amount for a resident.  totalRent
// is the per cycle rent snapshot and paid is the summed payment
// journal.  Positive means amount due, zero settled, negative a
// credit.  A resident with a zero rent snapshot (never assigned a
// room) always balances to -paid: every payment becomes pure credit.
func Balance(totalRent int64, joined, asOf time.Time, paid int64) int64 {
	return totalRent*Cycles(joined, asOf) - paid
}

// dateOf truncates t to midnight UTC of its calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
