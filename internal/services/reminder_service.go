package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/terraincognita07/medira/internal/models"
)

// ReminderListStore adds the session-open read to the tracker's write-side
// store. *db.ReminderRepository satisfies it.
type ReminderListStore interface {
	ReminderStore
	ListByUser(userID uint) ([]models.Reminder, error)
}

// ReportSink receives the daily report. Delivery is best-effort.
type ReportSink interface {
	Deliver(ctx context.Context, report DailyReport) error
}

// ReminderService owns one ReminderTracker per signed-in user and the
// midnight reset schedule shared by all of them.
type ReminderService struct {
	mu       sync.Mutex
	store    ReminderListStore
	trackers map[uint]*ReminderTracker
	notices  map[uint][]string
	clock    Clock
	location *time.Location
	sink     ReportSink
}

func NewReminderService(store ReminderListStore, clock Clock, location *time.Location, sink ReportSink) *ReminderService {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = time.Local
	}
	return &ReminderService{
		store:    store,
		trackers: make(map[uint]*ReminderTracker),
		notices:  make(map[uint][]string),
		clock:    clock,
		location: location,
		sink:     sink,
	}
}

// TrackerFor returns the user's tracker, loading the persisted reminders on
// first use. A tracker created here stays open until CloseTracker.
func (service *ReminderService) TrackerFor(userID uint) (*ReminderTracker, error) {
	service.mu.Lock()
	if tracker, ok := service.trackers[userID]; ok {
		service.mu.Unlock()
		return tracker, nil
	}
	service.mu.Unlock()

	seed, err := service.store.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	if tracker, ok := service.trackers[userID]; ok {
		return tracker, nil
	}
	tracker := NewReminderTracker(userID, seed, service.store, service.clock, service.location, func(err error) {
		service.recordNotice(userID, err)
	})
	service.trackers[userID] = tracker
	return tracker, nil
}

// CloseTracker tears the user's session state down on sign-out.
func (service *ReminderService) CloseTracker(userID uint) {
	service.mu.Lock()
	tracker, ok := service.trackers[userID]
	if ok {
		delete(service.trackers, userID)
	}
	delete(service.notices, userID)
	service.mu.Unlock()

	if ok {
		tracker.Close()
	}
}

// Today returns the current local calendar date.
func (service *ReminderService) Today() string {
	return LocalDateString(service.clock.Now(), service.location)
}

// Start arranges the daily reset at each local midnight until the context is
// cancelled. The reset is also safe to invoke directly at any time.
func (service *ReminderService) Start(ctx context.Context) {
	go func() {
		for {
			now := service.clock.Now()
			timer := time.NewTimer(NextMidnight(now, service.location).Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				service.RunDailyReset(ctx)
			}
		}
	}()
}

// RunDailyReset resets every open tracker and forwards non-empty reports to
// the sink. Sink failures are logged and swallowed; they never reach a user.
func (service *ReminderService) RunDailyReset(ctx context.Context) {
	service.mu.Lock()
	trackers := make([]*ReminderTracker, 0, len(service.trackers))
	for _, tracker := range service.trackers {
		trackers = append(trackers, tracker)
	}
	service.mu.Unlock()

	for _, tracker := range trackers {
		report := tracker.DailyReset()
		if service.sink == nil || len(report.Taken) == 0 {
			continue
		}
		if err := service.sink.Deliver(ctx, report); err != nil {
			log.Printf("reminders: daily report for user %d: %v: %v", tracker.UserID(), ErrRemoteReport, err)
		}
	}
}

// ConsumeWriteNotices drains the pending persistence-failure notices for a
// user. Each failed write surfaces exactly once.
func (service *ReminderService) ConsumeWriteNotices(userID uint) []string {
	service.mu.Lock()
	defer service.mu.Unlock()

	pending := service.notices[userID]
	delete(service.notices, userID)
	if pending == nil {
		return []string{}
	}
	return pending
}

func (service *ReminderService) recordNotice(userID uint, err error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	pending := service.notices[userID]
	if len(pending) >= 20 {
		pending = pending[1:]
	}
	service.notices[userID] = append(pending, err.Error())
}
