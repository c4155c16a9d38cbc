package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/medira/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

type memoryReminderStore struct {
	mu      sync.Mutex
	saved   map[string]models.Reminder
	deleted map[string]bool
	failAll bool
	writes  chan string
}

func newMemoryReminderStore() *memoryReminderStore {
	return &memoryReminderStore{
		saved:   make(map[string]models.Reminder),
		deleted: make(map[string]bool),
		writes:  make(chan string, 64),
	}
}

func (store *memoryReminderStore) Create(reminder *models.Reminder) error {
	return store.write("create", reminder)
}

func (store *memoryReminderStore) SaveIfExists(reminder *models.Reminder) error {
	store.mu.Lock()
	gone := store.deleted[reminder.ID]
	store.mu.Unlock()
	if gone {
		store.signal("skipped")
		return nil
	}
	return store.write("save", reminder)
}

func (store *memoryReminderStore) DeleteByID(reminderID string) error {
	store.mu.Lock()
	store.deleted[reminderID] = true
	delete(store.saved, reminderID)
	store.mu.Unlock()
	store.signal("delete")
	return nil
}

func (store *memoryReminderStore) ListByUser(userID uint) ([]models.Reminder, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	reminders := make([]models.Reminder, 0, len(store.saved))
	for _, reminder := range store.saved {
		if reminder.UserID == userID {
			reminders = append(reminders, reminder)
		}
	}
	return reminders, nil
}

func (store *memoryReminderStore) write(kind string, reminder *models.Reminder) error {
	store.mu.Lock()
	if store.failAll {
		store.mu.Unlock()
		store.signal("failed")
		return errors.New("store unavailable")
	}
	store.saved[reminder.ID] = *reminder
	store.mu.Unlock()
	store.signal(kind)
	return nil
}

func (store *memoryReminderStore) signal(kind string) {
	select {
	case store.writes <- kind:
	default:
	}
}

func (store *memoryReminderStore) waitForWrite(t *testing.T) string {
	t.Helper()
	select {
	case kind := <-store.writes:
		return kind
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a store write")
		return ""
	}
}

func testTime(hour int, minute int) *time.Time {
	at := time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	return &at
}

func newTestTracker(t *testing.T) (*ReminderTracker, *memoryReminderStore, *fakeClock) {
	t.Helper()
	clock := newFakeClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	store := newMemoryReminderStore()
	tracker := NewReminderTracker(7, nil, store, clock, time.UTC, nil)
	return tracker, store, clock
}

func TestCreateReminderKeepsAllThreeSlots(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin 500mg", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	for _, name := range models.SlotNames() {
		slot, known := reminder.Slots.Get(name)
		if !known {
			t.Fatalf("slot %q missing", name)
		}
		if slot.TakenOn != "" {
			t.Fatalf("slot %q created pre-taken", name)
		}
	}
	morning, _ := reminder.Slots.Get(models.SlotMorning)
	if !morning.Enabled || morning.At == nil {
		t.Fatalf("expected enabled morning slot with time, got %+v", morning)
	}
	night, _ := reminder.Slots.Get(models.SlotNight)
	if night.Enabled {
		t.Fatalf("expected night slot disabled by default")
	}
}

func TestCreateReminderValidation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	tests := []struct {
		name    string
		title   string
		config  map[string]SlotConfig
		wantErr error
	}{
		{
			name:    "empty title",
			title:   "   ",
			config:  map[string]SlotConfig{},
			wantErr: ErrValidation,
		},
		{
			name:    "enabled slot without time",
			title:   "Ibuprofen",
			config:  map[string]SlotConfig{models.SlotNight: {Enabled: true}},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown slot name",
			title:   "Ibuprofen",
			config:  map[string]SlotConfig{"midnight": {Enabled: false}},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tracker.CreateReminder(tt.title, tt.config); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := len(tracker.Snapshot()); got != 0 {
				t.Fatalf("failed create must not add a reminder, have %d", got)
			}
		})
	}
}

func TestToggleTakenIsItsOwnInverse(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	updated, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning)
	if err != nil {
		t.Fatalf("toggle taken: %v", err)
	}
	slot, _ := updated.Slots.Get(models.SlotMorning)
	if slot.TakenOn != "2026-03-10" {
		t.Fatalf("expected taken on 2026-03-10, got %q", slot.TakenOn)
	}

	updated, err = tracker.ToggleTaken(reminder.ID, models.SlotMorning)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	slot, _ = updated.Slots.Get(models.SlotMorning)
	if slot.TakenOn != "" {
		t.Fatalf("expected taken state cleared, got %q", slot.TakenOn)
	}
}

func TestToggleTakenOnDisabledSlotFails(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotNight); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}

	snapshot := tracker.Snapshot()
	night, _ := snapshot[0].Slots.Get(models.SlotNight)
	if night.Enabled || night.TakenOn != "" {
		t.Fatalf("failed toggle must leave state unchanged, got %+v", night)
	}
}

func TestToggleTakenUnknownReminder(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	if _, err := tracker.ToggleTaken("no-such-id", models.SlotMorning); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleTakenOnStaleDateLandsOnToday(t *testing.T) {
	tracker, _, clock := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	// The app slept across midnight without a reset. The stale mark means
	// "not taken", so a fresh toggle marks today rather than clearing.
	clock.Advance(24 * time.Hour)
	updated, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning)
	if err != nil {
		t.Fatalf("toggle after rollover: %v", err)
	}
	slot, _ := updated.Slots.Get(models.SlotMorning)
	if slot.TakenOn != "2026-03-11" {
		t.Fatalf("expected taken on 2026-03-11, got %q", slot.TakenOn)
	}
}

func TestUpdateSlotDisableClearsTakenState(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	disabled := false
	updated, err := tracker.UpdateSlot(reminder.ID, models.SlotMorning, SlotUpdate{Enabled: &disabled})
	if err != nil {
		t.Fatalf("disable slot: %v", err)
	}
	slot, _ := updated.Slots.Get(models.SlotMorning)
	if slot.Enabled || slot.TakenOn != "" {
		t.Fatalf("disable must clear taken state, got %+v", slot)
	}

	if statuses := tracker.Query("2026-03-10"); len(statuses) != 0 {
		t.Fatalf("disabled slot must not appear in query, got %+v", statuses)
	}
}

func TestUpdateSlotEnableRequiresTimeOnlyWhenMissing(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	enabled := true
	// Night never had a time: enabling without one fails.
	if _, err := tracker.UpdateSlot(reminder.ID, models.SlotNight, SlotUpdate{Enabled: &enabled}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Disable then re-enable morning: the previous time survives.
	disabled := false
	if _, err := tracker.UpdateSlot(reminder.ID, models.SlotMorning, SlotUpdate{Enabled: &disabled}); err != nil {
		t.Fatalf("disable morning: %v", err)
	}
	updated, err := tracker.UpdateSlot(reminder.ID, models.SlotMorning, SlotUpdate{Enabled: &enabled})
	if err != nil {
		t.Fatalf("re-enable morning: %v", err)
	}
	slot, _ := updated.Slots.Get(models.SlotMorning)
	if !slot.Enabled || slot.At == nil || slot.At.Hour() != 9 {
		t.Fatalf("expected re-enabled slot to keep its 09:00 time, got %+v", slot)
	}
}

func TestUpdateSlotIsIdempotent(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	enabled := true
	first, err := tracker.UpdateSlot(reminder.ID, models.SlotAfternoon, SlotUpdate{Enabled: &enabled, At: testTime(13, 30)})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := tracker.UpdateSlot(reminder.ID, models.SlotAfternoon, SlotUpdate{Enabled: &enabled, At: testTime(13, 30)})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	firstSlot, _ := first.Slots.Get(models.SlotAfternoon)
	secondSlot, _ := second.Slots.Get(models.SlotAfternoon)
	if firstSlot.Enabled != secondSlot.Enabled || !firstSlot.At.Equal(*secondSlot.At) || firstSlot.TakenOn != secondSlot.TakenOn {
		t.Fatalf("repeated update changed state: %+v vs %+v", firstSlot, secondSlot)
	}
}

func TestDailyResetScenario(t *testing.T) {
	tracker, _, clock := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	statuses := tracker.Query("2026-03-10")
	if len(statuses) != 1 || statuses[0].State != SlotStatePending {
		t.Fatalf("expected one pending slot, got %+v", statuses)
	}

	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}
	statuses = tracker.Query("2026-03-10")
	if !statuses[0].Taken {
		t.Fatalf("expected slot taken after toggle, got %+v", statuses[0])
	}

	clock.Advance(24 * time.Hour)
	report := tracker.DailyReset()

	if report.Date != "2026-03-11" {
		t.Fatalf("expected report for 2026-03-11, got %q", report.Date)
	}
	if len(report.Taken) != 1 || report.Taken[0].Title != "Amoxicillin" || report.Taken[0].Slot != models.SlotMorning {
		t.Fatalf("unexpected report entries: %+v", report.Taken)
	}

	statuses = tracker.Query("2026-03-11")
	if len(statuses) != 1 || statuses[0].State != SlotStatePending {
		t.Fatalf("expected slot back to pending after reset, got %+v", statuses)
	}
}

func TestDailyResetIsIdempotentWithinADay(t *testing.T) {
	tracker, _, clock := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	clock.Advance(24 * time.Hour)
	if report := tracker.DailyReset(); len(report.Taken) != 1 {
		t.Fatalf("expected one cleared entry, got %+v", report.Taken)
	}
	if report := tracker.DailyReset(); len(report.Taken) != 0 {
		t.Fatalf("second reset on the same date must report nothing, got %+v", report.Taken)
	}
}

func TestDailyResetClearsMultiDayStaleState(t *testing.T) {
	tracker, _, clock := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotNight: {Enabled: true, At: testTime(20, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotNight); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	// Process was down for four days; the mark is stale but not from
	// yesterday. The not-equal-to-today predicate still clears it.
	clock.Advance(4 * 24 * time.Hour)
	report := tracker.DailyReset()
	if len(report.Taken) != 1 {
		t.Fatalf("expected stale mark cleared, got %+v", report.Taken)
	}

	for _, status := range tracker.Query("2026-03-14") {
		if status.Taken {
			t.Fatalf("no slot may stay taken after a reset, got %+v", status)
		}
	}
}

func TestDailyResetSkipsTodaysMark(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	if report := tracker.DailyReset(); len(report.Taken) != 0 {
		t.Fatalf("a mark from today must survive the reset, got %+v", report.Taken)
	}
	if statuses := tracker.Query("2026-03-10"); !statuses[0].Taken {
		t.Fatalf("today's mark must stay, got %+v", statuses[0])
	}
}

func TestQueryDoesNotMutate(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := tracker.ToggleTaken(reminder.ID, models.SlotMorning); err != nil {
		t.Fatalf("toggle taken: %v", err)
	}

	before := tracker.Snapshot()
	tracker.Query("2026-03-09")
	tracker.Query("2026-03-10")
	after := tracker.Snapshot()

	beforeSlot, _ := before[0].Slots.Get(models.SlotMorning)
	afterSlot, _ := after[0].Slots.Get(models.SlotMorning)
	if beforeSlot != afterSlot {
		t.Fatalf("query mutated state: %+v vs %+v", beforeSlot, afterSlot)
	}
}

func TestDeleteReminder(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if err := tracker.DeleteReminder(reminder.ID); err != nil {
		t.Fatalf("delete reminder: %v", err)
	}
	if got := len(tracker.Snapshot()); got != 0 {
		t.Fatalf("expected empty collection, have %d", got)
	}
	// Second delete of the same id is an error, not a silent no-op.
	if err := tracker.DeleteReminder(reminder.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestObserversReceiveSnapshots(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	var mu sync.Mutex
	snapshots := make([][]models.Reminder, 0)
	id := tracker.Subscribe(func(reminders []models.Reminder) {
		mu.Lock()
		snapshots = append(snapshots, reminders)
		mu.Unlock()
	})

	if _, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	}); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	mu.Lock()
	count := len(snapshots)
	last := snapshots[count-1]
	mu.Unlock()

	if count != 2 {
		t.Fatalf("expected initial + post-create snapshots, got %d", count)
	}
	if len(last) != 1 || last[0].Title != "Amoxicillin" {
		t.Fatalf("unexpected snapshot contents: %+v", last)
	}

	tracker.Unsubscribe(id)
	if _, err := tracker.CreateReminder("Ibuprofen", map[string]SlotConfig{}); err != nil {
		t.Fatalf("create second reminder: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 2 {
		t.Fatalf("unsubscribed observer must not be notified, got %d snapshots", len(snapshots))
	}
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	tracker, _, _ := newTestTracker(t)

	if _, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{}); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	replacement := []models.Reminder{
		{ID: "r-1", UserID: 7, Title: "Vitamin D"},
		{ID: "r-2", UserID: 7, Title: "Iron"},
	}
	tracker.ApplySnapshot(replacement)

	snapshot := tracker.Snapshot()
	if len(snapshot) != 2 || snapshot[0].Title != "Vitamin D" {
		t.Fatalf("snapshot apply must replace the list, got %+v", snapshot)
	}
}

func TestClosedTrackerRejectsMutations(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	tracker.Close()

	if _, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state after close, got %v", err)
	}
	if got := len(tracker.Snapshot()); got != 0 {
		t.Fatalf("closed tracker must hold no state, have %d", got)
	}
}

func TestPersistenceFailureKeepsOptimisticState(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	store := newMemoryReminderStore()
	store.failAll = true

	var mu sync.Mutex
	var reported error
	tracker := NewReminderTracker(7, nil, store, clock, time.UTC, func(err error) {
		mu.Lock()
		reported = err
		mu.Unlock()
	})

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder must succeed in memory: %v", err)
	}
	store.waitForWrite(t)

	snapshot := tracker.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != reminder.ID {
		t.Fatalf("optimistic state must survive a failed write, got %+v", snapshot)
	}

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(reported, ErrPersistence) {
		t.Fatalf("expected persistence error surfaced once, got %v", reported)
	}
}

func TestInFlightWriteAfterDeleteDoesNotResurrect(t *testing.T) {
	tracker, store, _ := newTestTracker(t)

	reminder, err := tracker.CreateReminder("Amoxicillin", map[string]SlotConfig{
		models.SlotMorning: {Enabled: true, At: testTime(9, 0)},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	store.waitForWrite(t)

	if err := tracker.DeleteReminder(reminder.ID); err != nil {
		t.Fatalf("delete reminder: %v", err)
	}
	store.waitForWrite(t)

	// A save completing after the delete must no-op instead of writing the
	// reminder back.
	if err := store.SaveIfExists(&reminder); err != nil {
		t.Fatalf("save after delete: %v", err)
	}
	store.mu.Lock()
	_, resurrected := store.saved[reminder.ID]
	store.mu.Unlock()
	if resurrected {
		t.Fatalf("deleted reminder must not be resurrected by an in-flight write")
	}
}
