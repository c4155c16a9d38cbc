package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/medira/internal/models"
)

// SlotState is the lifecycle position of one dose slot for the current day.
type SlotState string

const (
	SlotStateDisabled SlotState = "disabled"
	SlotStatePending  SlotState = "pending"
	SlotStateTaken    SlotState = "taken"
)

// SlotConfig is the per-slot payload supplied at reminder creation.
type SlotConfig struct {
	Enabled bool
	At      *time.Time
}

// SlotUpdate carries a partial slot mutation; nil fields stay unchanged.
type SlotUpdate struct {
	Enabled *bool
	At      *time.Time
}

// SlotStatus is the read-only view returned by Query.
type SlotStatus struct {
	ReminderID string     `json:"reminder_id"`
	Title      string     `json:"title"`
	Slot       string     `json:"slot"`
	At         *time.Time `json:"at,omitempty"`
	State      SlotState  `json:"state"`
	Taken      bool       `json:"taken"`
}

type DailyReportEntry struct {
	Title string     `json:"title"`
	Slot  string     `json:"slot"`
	At    *time.Time `json:"at,omitempty"`
}

type DailyReport struct {
	UserID uint               `json:"user_id"`
	Date   string             `json:"date"`
	Taken  []DailyReportEntry `json:"taken_entries"`
}

// SnapshotObserver receives the full reminder list after every change.
type SnapshotObserver func([]models.Reminder)

// ReminderStore is the asynchronous persistence boundary of the tracker.
type ReminderStore interface {
	Create(reminder *models.Reminder) error
	SaveIfExists(reminder *models.Reminder) error
	DeleteByID(reminderID string) error
}

// ReminderTracker owns the reminder collection of one signed-in user.
//
// All mutations run to completion under a single mutex, so a user toggle can
// never interleave with the midnight reset. Mutations apply to memory first
// and persist in the background; a failed write is surfaced once through the
// write-error callback and never rolls the in-memory state back.
type ReminderTracker struct {
	mu             sync.Mutex
	userID         uint
	clock          Clock
	location       *time.Location
	store          ReminderStore
	onWriteError   func(error)
	reminders      []models.Reminder
	observers      map[uint64]SnapshotObserver
	nextObserverID uint64
	closed         bool
}

func NewReminderTracker(userID uint, seed []models.Reminder, store ReminderStore, clock Clock, location *time.Location, onWriteError func(error)) *ReminderTracker {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = time.Local
	}
	reminders := make([]models.Reminder, len(seed))
	copy(reminders, seed)

	return &ReminderTracker{
		userID:       userID,
		clock:        clock,
		location:     location,
		store:        store,
		onWriteError: onWriteError,
		reminders:    reminders,
		observers:    make(map[uint64]SnapshotObserver),
	}
}

func (tracker *ReminderTracker) UserID() uint {
	return tracker.userID
}

func (tracker *ReminderTracker) today() string {
	return LocalDateString(tracker.clock.Now(), tracker.location)
}

// CreateReminder validates the title, assigns a fresh id and stores the
// reminder with all three slots present and no taken state. A slot cannot be
// created pre-taken.
func (tracker *ReminderTracker) CreateReminder(title string, config map[string]SlotConfig) (models.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Reminder{}, ErrEmptyTitle
	}

	slots := models.ReminderSlots{}
	for name, slotConfig := range config {
		if _, known := slots.Get(name); !known {
			return models.Reminder{}, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
		}
		if slotConfig.Enabled && slotConfig.At == nil {
			return models.Reminder{}, fmt.Errorf("%w: slot %q", ErrSlotTimeRequired, name)
		}
		slots.Set(name, models.Slot{Enabled: slotConfig.Enabled, At: slotConfig.At})
	}

	now := tracker.clock.Now().In(tracker.location)
	reminder := models.Reminder{
		ID:        uuid.NewString(),
		UserID:    tracker.userID,
		Title:     title,
		Slots:     slots,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return models.Reminder{}, ErrTrackerClosed
	}
	tracker.reminders = append([]models.Reminder{reminder}, tracker.reminders...)
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	tracker.persist("create reminder", reminder, tracker.store.Create)
	tracker.notify(snapshot)
	return reminder, nil
}

// UpdateSlot applies a partial slot change. Disabling clears the taken state;
// enabling a slot that never had a time requires one. Repeating the same
// update yields the same state.
func (tracker *ReminderTracker) UpdateSlot(reminderID string, slotName string, update SlotUpdate) (models.Reminder, error) {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return models.Reminder{}, ErrTrackerClosed
	}

	index := tracker.indexLocked(reminderID)
	if index < 0 {
		tracker.mu.Unlock()
		return models.Reminder{}, ErrReminderNotFound
	}

	reminder := tracker.reminders[index]
	slot, known := reminder.Slots.Get(slotName)
	if !known {
		tracker.mu.Unlock()
		return models.Reminder{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slotName)
	}

	if update.At != nil {
		at := *update.At
		slot.At = &at
	}
	if update.Enabled != nil {
		if *update.Enabled && slot.At == nil {
			tracker.mu.Unlock()
			return models.Reminder{}, fmt.Errorf("%w: slot %q", ErrSlotTimeRequired, slotName)
		}
		slot.Enabled = *update.Enabled
		if !slot.Enabled {
			// A disabled slot cannot be "taken".
			slot.TakenOn = ""
		}
	}

	reminder.Slots.Set(slotName, slot)
	reminder.UpdatedAt = tracker.clock.Now().In(tracker.location)
	tracker.reminders[index] = reminder
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	tracker.persist("update slot", reminder, tracker.store.SaveIfExists)
	tracker.notify(snapshot)
	return reminder, nil
}

// ToggleTaken flips the slot between pending and taken for the current local
// date. It is its own inverse within a calendar day.
func (tracker *ReminderTracker) ToggleTaken(reminderID string, slotName string) (models.Reminder, error) {
	today := tracker.today()

	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return models.Reminder{}, ErrTrackerClosed
	}

	index := tracker.indexLocked(reminderID)
	if index < 0 {
		tracker.mu.Unlock()
		return models.Reminder{}, ErrReminderNotFound
	}

	reminder := tracker.reminders[index]
	slot, known := reminder.Slots.Get(slotName)
	if !known {
		tracker.mu.Unlock()
		return models.Reminder{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slotName)
	}
	if !slot.Enabled {
		tracker.mu.Unlock()
		return models.Reminder{}, fmt.Errorf("%w: slot %q", ErrSlotDisabled, slotName)
	}

	if slot.TakenOn == today {
		slot.TakenOn = ""
	} else {
		// A stale date from an earlier day counts as "not taken", so the
		// toggle lands on today rather than clearing.
		slot.TakenOn = today
	}

	reminder.Slots.Set(slotName, slot)
	reminder.UpdatedAt = tracker.clock.Now().In(tracker.location)
	tracker.reminders[index] = reminder
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	tracker.persist("toggle taken", reminder, tracker.store.SaveIfExists)
	tracker.notify(snapshot)
	return reminder, nil
}

// DeleteReminder removes the reminder. Deleting an unknown id fails with
// ErrReminderNotFound; the second delete of the same id is therefore an
// error, not a no-op.
func (tracker *ReminderTracker) DeleteReminder(reminderID string) error {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return ErrTrackerClosed
	}

	index := tracker.indexLocked(reminderID)
	if index < 0 {
		tracker.mu.Unlock()
		return ErrReminderNotFound
	}

	tracker.reminders = append(tracker.reminders[:index], tracker.reminders[index+1:]...)
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	go func() {
		if err := tracker.store.DeleteByID(reminderID); err != nil {
			tracker.reportWriteError("delete reminder", err)
		}
	}()
	tracker.notify(snapshot)
	return nil
}

// DailyReset clears every taken mark that does not belong to the current
// local date and reports what was cleared. The predicate is "not equal to
// today", not "equal to yesterday", so a tracker that slept across several
// midnights converges in one call. Run twice on the same date, the second
// report is empty.
func (tracker *ReminderTracker) DailyReset() DailyReport {
	today := tracker.today()
	report := DailyReport{UserID: tracker.userID, Date: today, Taken: []DailyReportEntry{}}

	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return report
	}

	changed := make([]models.Reminder, 0)
	for index := range tracker.reminders {
		reminder := tracker.reminders[index]
		dirty := false
		for _, name := range models.SlotNames() {
			slot, _ := reminder.Slots.Get(name)
			if slot.TakenOn == "" || slot.TakenOn == today {
				continue
			}
			report.Taken = append(report.Taken, DailyReportEntry{
				Title: reminder.Title,
				Slot:  name,
				At:    slot.At,
			})
			slot.TakenOn = ""
			reminder.Slots.Set(name, slot)
			dirty = true
		}
		if dirty {
			reminder.UpdatedAt = tracker.clock.Now().In(tracker.location)
			tracker.reminders[index] = reminder
			changed = append(changed, reminder)
		}
	}

	var snapshot []models.Reminder
	if len(changed) > 0 {
		snapshot = tracker.snapshotLocked()
	}
	tracker.mu.Unlock()

	for _, reminder := range changed {
		tracker.persist("daily reset", reminder, tracker.store.SaveIfExists)
	}
	if snapshot != nil {
		tracker.notify(snapshot)
	}
	return report
}

// Query returns the enabled slots of every reminder with their taken state
// for the given local date. It never mutates.
func (tracker *ReminderTracker) Query(date string) []SlotStatus {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	statuses := make([]SlotStatus, 0)
	for _, reminder := range tracker.reminders {
		for _, name := range models.SlotNames() {
			slot, _ := reminder.Slots.Get(name)
			if !slot.Enabled {
				continue
			}
			state := SlotStatePending
			if slot.TakenOnDate(date) {
				state = SlotStateTaken
			}
			statuses = append(statuses, SlotStatus{
				ReminderID: reminder.ID,
				Title:      reminder.Title,
				Slot:       name,
				At:         slot.At,
				State:      state,
				Taken:      state == SlotStateTaken,
			})
		}
	}
	return statuses
}

// Snapshot returns a copy of the current reminder list, newest first.
func (tracker *ReminderTracker) Snapshot() []models.Reminder {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.snapshotLocked()
}

// Subscribe registers an observer that receives the full list after every
// change, and immediately with the current state. Returns an id for
// Unsubscribe.
func (tracker *ReminderTracker) Subscribe(observer SnapshotObserver) uint64 {
	tracker.mu.Lock()
	tracker.nextObserverID++
	id := tracker.nextObserverID
	tracker.observers[id] = observer
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	observer(snapshot)
	return id
}

func (tracker *ReminderTracker) Unsubscribe(id uint64) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	delete(tracker.observers, id)
}

// ApplySnapshot replaces the in-memory list wholesale, mirroring a live-query
// push from the backing store. No incremental diffing.
func (tracker *ReminderTracker) ApplySnapshot(reminders []models.Reminder) {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return
	}
	tracker.reminders = make([]models.Reminder, len(reminders))
	copy(tracker.reminders, reminders)
	snapshot := tracker.snapshotLocked()
	tracker.mu.Unlock()

	tracker.notify(snapshot)
}

// Close drops the in-memory state and all observers on sign-out. Further
// mutations fail with ErrTrackerClosed.
func (tracker *ReminderTracker) Close() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.closed = true
	tracker.reminders = nil
	tracker.observers = make(map[uint64]SnapshotObserver)
}

func (tracker *ReminderTracker) indexLocked(reminderID string) int {
	for index := range tracker.reminders {
		if tracker.reminders[index].ID == reminderID {
			return index
		}
	}
	return -1
}

func (tracker *ReminderTracker) snapshotLocked() []models.Reminder {
	snapshot := make([]models.Reminder, len(tracker.reminders))
	copy(snapshot, tracker.reminders)
	return snapshot
}

func (tracker *ReminderTracker) notify(snapshot []models.Reminder) {
	tracker.mu.Lock()
	observers := make([]SnapshotObserver, 0, len(tracker.observers))
	for _, observer := range tracker.observers {
		observers = append(observers, observer)
	}
	tracker.mu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}

func (tracker *ReminderTracker) persist(operation string, reminder models.Reminder, write func(*models.Reminder) error) {
	go func() {
		if err := write(&reminder); err != nil {
			tracker.reportWriteError(operation, err)
		}
	}()
}

func (tracker *ReminderTracker) reportWriteError(operation string, err error) {
	wrapped := fmt.Errorf("%w: %s: %v", ErrPersistence, operation, err)
	log.Printf("reminders: user %d: %v", tracker.userID, wrapped)
	if tracker.onWriteError != nil {
		tracker.onWriteError(wrapped)
	}
}
