package countdown

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fentz26/tempus/internal/models"
	"github.com/google/uuid"
)

// Reminder duration bounds in minutes.
const (
	MinReminderMinutes = 1
	MaxReminderMinutes = 24 * 60
)

// ErrInvalidMinutes is returned for reminder durations outside the bounds.
var ErrInvalidMinutes = fmt.Errorf("reminder minutes must be between %d and %d", MinReminderMinutes, MaxReminderMinutes)

// Reminders is the pending set of one-shot reminders. It is safe for
// concurrent use.
type Reminders struct {
	mu      sync.Mutex
	pending []models.Reminder
}

// NewReminders returns an empty reminder set.
func NewReminders() *Reminders {
	return &Reminders{}
}

// Schedule adds a reminder that fires minutes after now.
func (r *Reminders) Schedule(now time.Time, minutes int) (models.Reminder, error) {
	if minutes < MinReminderMinutes || minutes > MaxReminderMinutes {
		return models.Reminder{}, fmt.Errorf("%w: got %d", ErrInvalidMinutes, minutes)
	}
	rem := models.Reminder{
		ID:        uuid.New().String(),
		Minutes:   minutes,
		TriggerAt: now.Add(time.Duration(minutes) * time.Minute),
		CreatedAt: now,
	}

	r.mu.Lock()
	r.pending = append(r.pending, rem)
	r.mu.Unlock()
	return rem, nil
}

// Due removes and returns every reminder whose trigger time is not after
// now, in scheduling order. A reminder is returned by at most one call.
func (r *Reminders) Due(now time.Time) []models.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []models.Reminder
	remaining := r.pending[:0]
	for _, rem := range r.pending {
		if !now.Before(rem.TriggerAt) {
			due = append(due, rem)
		} else {
			remaining = append(remaining, rem)
		}
	}
	r.pending = remaining
	return due
}

// Pending returns a copy of the pending reminders ordered by trigger time.
func (r *Reminders) Pending() []models.Reminder {
	r.mu.Lock()
	out := make([]models.Reminder, len(r.pending))
	copy(out, r.pending)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TriggerAt.Before(out[j].TriggerAt)
	})
	return out
}

// Len returns the number of pending reminders.
func (r *Reminders) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
