package hostel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hostel-admin/internal/model"
	"github.com/iliyamo/hostel-admin/internal/queue"
)

// ---- in-memory fake store ----

var errFakeNotFound = errors.New("not found")

// fakeState is a snapshot of all persisted entities.  The fake store
// clones it for every transaction and swaps the clone in only on
// success, which mirrors commit/rollback and lets the tests assert
// that failed operations leave no partial writes behind.
type fakeState struct {
	rooms     map[uint64]*model.Room
	residents map[uint64]*model.Resident
	payments  map[uint64]*model.Payment
	nextID    uint64
}

func (st *fakeState) clone() *fakeState {
	cp := &fakeState{
		rooms:     make(map[uint64]*model.Room, len(st.rooms)),
		residents: make(map[uint64]*model.Resident, len(st.residents)),
		payments:  make(map[uint64]*model.Payment, len(st.payments)),
		nextID:    st.nextID,
	}
	for id, r := range st.rooms {
		v := *r
		cp.rooms[id] = &v
	}
	for id, r := range st.residents {
		v := *r
		cp.residents[id] = &v
	}
	for id, p := range st.payments {
		v := *p
		cp.payments[id] = &v
	}
	return cp
}

type fakeStore struct {
	state *fakeState
	clock time.Time // used as the join date for inserted residents
}

func newFakeStore(clock time.Time) *fakeStore {
	return &fakeStore{
		state: &fakeState{
			rooms:     map[uint64]*model.Room{},
			residents: map[uint64]*model.Resident{},
			payments:  map[uint64]*model.Payment{},
			nextID:    1,
		},
		clock: clock,
	}
}

func (f *fakeStore) Resident(_ context.Context, id uint64) (*model.Resident, error) {
	if r, ok := f.state.residents[id]; ok {
		v := *r
		return &v, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeStore) Room(_ context.Context, id uint64) (*model.Room, error) {
	if r, ok := f.state.rooms[id]; ok {
		v := *r
		return &v, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeStore) SumPayments(_ context.Context, residentID uint64) (int64, error) {
	return f.state.sumPayments(residentID), nil
}

func (f *fakeStore) CountActive(_ context.Context, roomID uint64) (int, error) {
	return f.state.countActive(roomID), nil
}

func (f *fakeStore) WithinTx(_ context.Context, fn func(Tx) error) error {
	cp := f.state.clone()
	if err := fn(&fakeTx{state: cp, clock: f.clock}); err != nil {
		return err
	}
	f.state = cp
	return nil
}

func (st *fakeState) sumPayments(residentID uint64) int64 {
	var total int64
	for _, p := range st.payments {
		if p.ResidentID == residentID {
			total += p.Amount
		}
	}
	return total
}

func (st *fakeState) countActive(roomID uint64) int {
	n := 0
	for _, r := range st.residents {
		if r.IsActive && r.RoomID != nil && *r.RoomID == roomID {
			n++
		}
	}
	return n
}

type fakeTx struct {
	state *fakeState
	clock time.Time
}

func (t *fakeTx) ResidentForUpdate(_ context.Context, id uint64) (*model.Resident, error) {
	if r, ok := t.state.residents[id]; ok {
		v := *r
		return &v, nil
	}
	return nil, errFakeNotFound
}

func (t *fakeTx) RoomForUpdate(_ context.Context, id uint64) (*model.Room, error) {
	if r, ok := t.state.rooms[id]; ok {
		v := *r
		return &v, nil
	}
	return nil, errFakeNotFound
}

func (t *fakeTx) CountActive(_ context.Context, roomID uint64) (int, error) {
	return t.state.countActive(roomID), nil
}

func (t *fakeTx) InsertResident(_ context.Context, m *model.Resident) error {
	m.ID = t.state.nextID
	t.state.nextID++
	m.IsActive = true
	if m.PaymentStatus == "" {
		m.PaymentStatus = model.PaymentStatusUnpaid
	}
	m.JoinedDate = t.clock
	v := *m
	t.state.residents[m.ID] = &v
	return nil
}

func (t *fakeTx) SetResidentRoom(_ context.Context, residentID uint64, roomID *uint64, totalRent int64) error {
	r, ok := t.state.residents[residentID]
	if !ok {
		return errFakeNotFound
	}
	if roomID != nil {
		v := *roomID
		r.RoomID = &v
	} else {
		r.RoomID = nil
	}
	r.TotalRent = totalRent
	return nil
}

func (t *fakeTx) InsertPayment(_ context.Context, p *model.Payment) error {
	p.ID = t.state.nextID
	t.state.nextID++
	p.CreatedAt = p.PaidOn
	v := *p
	t.state.payments[p.ID] = &v
	return nil
}

func (t *fakeTx) SumPayments(_ context.Context, residentID uint64) (int64, error) {
	return t.state.sumPayments(residentID), nil
}

func (t *fakeTx) SetPaymentState(_ context.Context, residentID uint64, paid int64, status string) error {
	r, ok := t.state.residents[residentID]
	if !ok {
		return errFakeNotFound
	}
	r.PaidAmount = paid
	r.PaymentStatus = status
	return nil
}

func (t *fakeTx) Deactivate(_ context.Context, residentID uint64) error {
	r, ok := t.state.residents[residentID]
	if !ok {
		return errFakeNotFound
	}
	r.IsActive = false
	return nil
}

// capturePublisher records published audit events for assertions.
type capturePublisher struct {
	events []queue.LedgerAuditEvent
}

func (c *capturePublisher) PublishLedgerAudit(_ context.Context, ev queue.LedgerAuditEvent) error {
	c.events = append(c.events, ev)
	return nil
}

// ---- fixtures ----

var testClock = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeStore, *capturePublisher) {
	t.Helper()
	store := newFakeStore(testClock)
	pub := &capturePublisher{}
	svc := NewService(store, pub, false)
	svc.now = func() time.Time { return testClock }
	return svc, store, pub
}

func addRoom(store *fakeStore, number string, capacity uint32, rent int64) *model.Room {
	id := store.state.nextID
	store.state.nextID++
	room := &model.Room{ID: id, RoomNumber: number, Floor: 1, Capacity: capacity, Rent: rent}
	store.state.rooms[id] = room
	return room
}

func addResident(store *fakeStore, name string, roomID *uint64, rent int64, joined time.Time) *model.Resident {
	id := store.state.nextID
	store.state.nextID++
	res := &model.Resident{
		ID: id, FullName: name, ContactNumber: "0000000000",
		IsActive: true, PaymentStatus: model.PaymentStatusUnpaid,
		TotalRent: rent, JoinedDate: joined,
	}
	if roomID != nil {
		v := *roomID
		res.RoomID = &v
	}
	store.state.residents[id] = res
	return res
}

// ---- occupancy / assignment ----

func TestAssignRoomSnapshotsRentOnce(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "101", 3, 6000)
	res := addResident(store, "Asha Rao", nil, 0, testClock)

	require.NoError(t, svc.AssignRoom(context.Background(), res.ID, room.ID))

	got := store.state.residents[res.ID]
	require.NotNil(t, got.RoomID)
	assert.Equal(t, room.ID, *got.RoomID)
	assert.Equal(t, int64(6000), got.TotalRent, "rent snapshotted at first assignment")
}

func TestAssignRoomIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "104", 1, 7000)
	res := addResident(store, "Ravi Kumar", nil, 0, testClock)

	require.NoError(t, svc.AssignRoom(context.Background(), res.ID, room.ID))
	// Second assign to the same room must be a no-op, not a capacity error.
	require.NoError(t, svc.AssignRoom(context.Background(), res.ID, room.ID))

	occ, err := svc.Occupancy(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Occupied)
	assert.Equal(t, 0, occ.Available)
}

func TestAssignRoomCapacityExceeded(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "105", 2, 6500)
	addResident(store, "One", &room.ID, 6500, testClock)
	addResident(store, "Two", &room.ID, 6500, testClock)
	third := addResident(store, "Three", nil, 0, testClock)

	err := svc.AssignRoom(context.Background(), third.ID, room.ID)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	occ, occErr := svc.Occupancy(context.Background(), room.ID)
	require.NoError(t, occErr)
	assert.Equal(t, 2, occ.Occupied, "occupancy unchanged after rejected assign")
	assert.Nil(t, store.state.residents[third.ID].RoomID, "no partial write")
}

func TestChangeRoomKeepsRentSnapshot(t *testing.T) {
	svc, store, _ := newTestService(t)
	cheap := addRoom(store, "106", 5, 5500)
	costly := addRoom(store, "107", 1, 7000)
	res := addResident(store, "Meena Pillai", &cheap.ID, 5500, testClock)

	require.NoError(t, svc.ChangeRoom(context.Background(), res.ID, costly.ID))

	got := store.state.residents[res.ID]
	assert.Equal(t, costly.ID, *got.RoomID)
	assert.Equal(t, int64(5500), got.TotalRent, "snapshot follows the resident across moves")
}

func TestChangeRoomResyncToggle(t *testing.T) {
	store := newFakeStore(testClock)
	pub := &capturePublisher{}
	svc := NewService(store, pub, true) // rent resync enabled
	svc.now = func() time.Time { return testClock }

	cheap := addRoom(store, "108", 2, 5500)
	costly := addRoom(store, "113", 1, 7000)
	res := addResident(store, "Vikram Shetty", &cheap.ID, 5500, testClock)

	require.NoError(t, svc.ChangeRoom(context.Background(), res.ID, costly.ID))
	assert.Equal(t, int64(7000), store.state.residents[res.ID].TotalRent)
}

func TestChangeRoomFullDestination(t *testing.T) {
	svc, store, _ := newTestService(t)
	src := addRoom(store, "109", 5, 5500)
	dst := addRoom(store, "110", 1, 6500)
	addResident(store, "Occupant", &dst.ID, 6500, testClock)
	mover := addResident(store, "Mover", &src.ID, 5500, testClock)

	err := svc.ChangeRoom(context.Background(), mover.ID, dst.ID)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, src.ID, *store.state.residents[mover.ID].RoomID)
}

func TestSwapRoomsExchangesAssignments(t *testing.T) {
	svc, store, _ := newTestService(t)
	r1 := addRoom(store, "111", 3, 6000)
	r2 := addRoom(store, "112", 5, 5500)
	a := addResident(store, "A", &r1.ID, 6000, testClock)
	b := addResident(store, "B", &r2.ID, 5500, testClock)

	require.NoError(t, svc.SwapRooms(context.Background(), a.ID, b.ID))

	assert.Equal(t, r2.ID, *store.state.residents[a.ID].RoomID)
	assert.Equal(t, r1.ID, *store.state.residents[b.ID].RoomID)
	// Rent snapshots travel with the residents.
	assert.Equal(t, int64(6000), store.state.residents[a.ID].TotalRent)
	assert.Equal(t, int64(5500), store.state.residents[b.ID].TotalRent)
	// Per-room occupancy is unchanged by a swap.
	assert.Equal(t, 1, store.state.countActive(r1.ID))
	assert.Equal(t, 1, store.state.countActive(r2.ID))
}

func TestSwapRoomsSameRoomRejected(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "114", 3, 6000)
	a := addResident(store, "A", &room.ID, 6000, testClock)
	b := addResident(store, "B", &room.ID, 6000, testClock)

	require.ErrorIs(t, svc.SwapRooms(context.Background(), a.ID, b.ID), ErrSameRoom)
	// Two unassigned residents share the nil room, also rejected.
	c := addResident(store, "C", nil, 0, testClock)
	d := addResident(store, "D", nil, 0, testClock)
	require.ErrorIs(t, svc.SwapRooms(context.Background(), c.ID, d.ID), ErrSameRoom)
	// Swapping a resident with themselves is never a change.
	require.ErrorIs(t, svc.SwapRooms(context.Background(), a.ID, a.ID), ErrSameRoom)
}

func TestRegisterResidentWithInitialRoom(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "201", 1, 7000)

	res, err := svc.RegisterResident(context.Background(), RegisterInput{
		FullName:      "Kiran Desai",
		ContactNumber: "9876543210",
		RoomID:        &room.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, room.ID, *res.RoomID)
	assert.Equal(t, int64(7000), res.TotalRent)
	assert.True(t, res.IsActive)

	// The single slot is taken now; the next registration must fail
	// and leave nothing behind.
	_, err = svc.RegisterResident(context.Background(), RegisterInput{
		FullName:      "Lata Nair",
		ContactNumber: "9876500000",
		RoomID:        &room.ID,
	})
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Len(t, store.state.residents, 1)
}

func TestRegisterResidentValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.RegisterResident(context.Background(), RegisterInput{ContactNumber: "1"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.RegisterResident(context.Background(), RegisterInput{FullName: "No Phone"})
	require.ErrorIs(t, err, ErrValidation)
}

// ---- payment journal / balance ----

func TestRecordPaymentRoundTrip(t *testing.T) {
	svc, store, pub := newTestService(t)
	room := addRoom(store, "202", 2, 6000)
	res := addResident(store, "Sunil Menon", &room.ID, 6000, testClock)

	before, err := svc.Balance(context.Background(), res.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), before)

	p, err := svc.RecordPayment(context.Background(), res.ID, 2500, nil, "first installment")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ReceiptRef)

	after, err := svc.Balance(context.Background(), res.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(3500), after, "payment reflected exactly once")

	got := store.state.residents[res.ID]
	assert.Equal(t, int64(2500), got.PaidAmount, "cache synced on write")
	assert.Equal(t, model.PaymentStatusUnpaid, got.PaymentStatus)

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.KindPaymentRecorded, pub.events[0].Kind)
	assert.Equal(t, int64(2500), pub.events[0].Amount)
}

func TestRecordPaymentSettlesStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "203", 4, 6000)
	res := addResident(store, "Devi Iyer", &room.ID, 6000, testClock)

	_, err := svc.RecordPayment(context.Background(), res.ID, 6000, nil, "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, store.state.residents[res.ID].PaymentStatus)
}

func TestRecordPaymentHealsDriftedCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "204", 1, 7000)
	res := addResident(store, "Drifted", &room.ID, 7000, testClock)
	store.state.residents[res.ID].PaidAmount = 99999 // simulate prior drift

	_, err := svc.RecordPayment(context.Background(), res.ID, 1000, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), store.state.residents[res.ID].PaidAmount,
		"cache recomputed from the journal, not incremented")
}

func TestRecordPaymentRejectsNegative(t *testing.T) {
	svc, store, pub := newTestService(t)
	room := addRoom(store, "205", 2, 6500)
	res := addResident(store, "N", &room.ID, 6500, testClock)

	_, err := svc.RecordPayment(context.Background(), res.ID, -1, nil, "")
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.state.payments)
	assert.Empty(t, pub.events)
}

func TestRecordPaymentZeroAmountIsCredit(t *testing.T) {
	svc, store, _ := newTestService(t)
	res := addResident(store, "Unassigned", nil, 0, testClock)

	_, err := svc.RecordPayment(context.Background(), res.ID, 300, nil, "advance")
	require.NoError(t, err)

	bal, err := svc.Balance(context.Background(), res.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(-300), bal, "payments without a rent snapshot are pure credit")
}

func TestBalanceAcrossCycleBoundary(t *testing.T) {
	svc, store, _ := newTestService(t)
	joined := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	room := addRoom(store, "206", 2, 6000)
	res := addResident(store, "Cycle", &room.ID, 6000, joined)

	day0, err := svc.Balance(context.Background(), res.ID, joined)
	require.NoError(t, err)
	day29, err := svc.Balance(context.Background(), res.ID, joined.AddDate(0, 0, 29))
	require.NoError(t, err)
	day30, err := svc.Balance(context.Background(), res.ID, joined.AddDate(0, 0, 30))
	require.NoError(t, err)

	assert.Equal(t, int64(6000), day0)
	assert.Equal(t, int64(6000), day29)
	assert.Equal(t, int64(12000), day30)
}

func TestBalanceRejectsAsOfBeforeJoin(t *testing.T) {
	svc, store, _ := newTestService(t)
	res := addResident(store, "Early", nil, 0, testClock)
	_, err := svc.Balance(context.Background(), res.ID, testClock.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrValidation)
}

// ---- vacate workflow ----

func TestVacatePaidRejectedWhileOwing(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "301", 2, 6000)
	res := addResident(store, "Owing", &room.ID, 6000, testClock)
	_, err := svc.RecordPayment(context.Background(), res.ID, 5500, nil, "")
	require.NoError(t, err)

	err = svc.Vacate(context.Background(), res.ID, PaymentOptionPaid, "")
	require.ErrorIs(t, err, ErrValidation)

	got := store.state.residents[res.ID]
	assert.True(t, got.IsActive, "resident remains active after rejected vacate")
	assert.NotNil(t, got.RoomID)
}

func TestVacateWaivedWritesAnnotation(t *testing.T) {
	svc, store, pub := newTestService(t)
	room := addRoom(store, "302", 2, 6000)
	res := addResident(store, "Waived", &room.ID, 6000, testClock)
	_, err := svc.RecordPayment(context.Background(), res.ID, 5500, nil, "")
	require.NoError(t, err)

	require.NoError(t, svc.Vacate(context.Background(), res.ID, PaymentOptionWaived, "written off"))

	got := store.state.residents[res.ID]
	assert.False(t, got.IsActive)
	assert.Nil(t, got.RoomID)
	assert.Equal(t, model.PaymentStatusWaived, got.PaymentStatus)
	assert.Equal(t, 0, store.state.countActive(room.ID), "slot released immediately")

	// A zero amount annotated entry must exist; the journal total is
	// untouched by it.
	var annotated *model.Payment
	for _, p := range store.state.payments {
		if p.Amount == 0 && p.Note != nil {
			annotated = p
		}
	}
	require.NotNil(t, annotated)
	assert.Contains(t, *annotated.Note, "written off")
	assert.Equal(t, int64(5500), store.state.sumPayments(res.ID))

	require.Len(t, pub.events, 2) // payment + vacate
	last := pub.events[len(pub.events)-1]
	assert.Equal(t, queue.KindResidentVacated, last.Kind)
	assert.Equal(t, "302", last.RoomNumber)
	assert.Equal(t, int64(500), last.Balance)
}

func TestVacateRequiresNoteForWriteOffs(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "303", 1, 7000)
	res := addResident(store, "NoNote", &room.ID, 7000, testClock)

	require.ErrorIs(t, svc.Vacate(context.Background(), res.ID, PaymentOptionWaived, "  "), ErrValidation)
	require.ErrorIs(t, svc.Vacate(context.Background(), res.ID, PaymentOptionPartiallyPaid, ""), ErrValidation)
	assert.True(t, store.state.residents[res.ID].IsActive)
}

func TestVacatePaidWithSettledBalance(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "304", 1, 7000)
	res := addResident(store, "Settled", &room.ID, 7000, testClock)
	_, err := svc.RecordPayment(context.Background(), res.ID, 7000, nil, "")
	require.NoError(t, err)

	require.NoError(t, svc.Vacate(context.Background(), res.ID, PaymentOptionPaid, ""))
	got := store.state.residents[res.ID]
	assert.False(t, got.IsActive)
	assert.Nil(t, got.RoomID)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
}

func TestVacateTwiceRejected(t *testing.T) {
	svc, store, _ := newTestService(t)
	room := addRoom(store, "305", 2, 6000)
	res := addResident(store, "Gone", &room.ID, 6000, testClock)
	require.NoError(t, svc.Vacate(context.Background(), res.ID, PaymentOptionWaived, "left early"))

	err := svc.Vacate(context.Background(), res.ID, PaymentOptionWaived, "again")
	require.ErrorIs(t, err, ErrValidation)
	_ = store
}

func TestParsePaymentOption(t *testing.T) {
	for in, want := range map[string]PaymentOption{
		"paid":             PaymentOptionPaid,
		"WAIVED":           PaymentOptionWaived,
		" partially_paid ": PaymentOptionPartiallyPaid,
	} {
		got, err := ParsePaymentOption(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePaymentOption("settled")
	require.ErrorIs(t, err, ErrValidation)
}
