package models

import "time"

const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotNight     = "night"
)

// SlotNames returns the three slot keys in display order. Every reminder
// carries all three, enabled or not.
func SlotNames() []string {
	return []string{SlotMorning, SlotAfternoon, SlotNight}
}

// DateLayout is the calendar-date format used for taken-state bookkeeping.
// Taken state is always compared against the current local date, never
// against a cached "is taken" flag.
const DateLayout = "2006-01-02"

// Slot is one of the three daily dose windows of a reminder.
//
// At is the scheduled time of day, stored as an absolute instant and used
// only to render a label. TakenOn is the local calendar date on which the
// dose was last confirmed, or empty. A stale TakenOn (any date other than
// today) means "not taken today".
type Slot struct {
	Enabled bool       `json:"enabled"`
	At      *time.Time `json:"at,omitempty"`
	TakenOn string     `json:"taken_on,omitempty"`
}

// TakenOnDate reports whether the dose was confirmed on the given local date.
func (slot Slot) TakenOnDate(date string) bool {
	return slot.Enabled && slot.TakenOn != "" && slot.TakenOn == date
}

type ReminderSlots struct {
	Morning   Slot `json:"morning"`
	Afternoon Slot `json:"afternoon"`
	Night     Slot `json:"night"`
}

// Get returns the slot for a name and whether the name is one of the three
// known keys.
func (slots ReminderSlots) Get(name string) (Slot, bool) {
	switch name {
	case SlotMorning:
		return slots.Morning, true
	case SlotAfternoon:
		return slots.Afternoon, true
	case SlotNight:
		return slots.Night, true
	default:
		return Slot{}, false
	}
}

// Set replaces the slot for a name. Unknown names are ignored.
func (slots *ReminderSlots) Set(name string, slot Slot) {
	switch name {
	case SlotMorning:
		slots.Morning = slot
	case SlotAfternoon:
		slots.Afternoon = slot
	case SlotNight:
		slots.Night = slot
	}
}

type Reminder struct {
	ID        string        `gorm:"primaryKey"`
	UserID    uint          `gorm:"not null;index"`
	Title     string        `gorm:"not null"`
	Slots     ReminderSlots `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
