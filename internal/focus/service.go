// Package focus ties the task store to the countdown controller and the
// reminder set so the front ends act on one active task at a time.
package focus

import (
	"log"
	"sync"
	"time"

	"github.com/fentz26/tempus/internal/countdown"
	"github.com/fentz26/tempus/internal/models"
	"github.com/fentz26/tempus/internal/store"
)

// Service provides the session business logic.
type Service struct {
	mu        sync.Mutex
	store     *store.Store
	ctrl      *countdown.Controller
	reminders *countdown.Reminders
	logger    *log.Logger
	now       func() time.Time
}

// NewService creates a new session service.
func NewService(s *store.Store, ctrl *countdown.Controller, reminders *countdown.Reminders, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:     s,
		ctrl:      ctrl,
		reminders: reminders,
		logger:    logger,
		now:       time.Now,
	}
}

// Store returns the underlying task store.
func (s *Service) Store() *store.Store { return s.store }

// Controller returns the countdown controller the service drives.
func (s *Service) Controller() *countdown.Controller { return s.ctrl }

// ReminderSet returns the pending reminder set.
func (s *Service) ReminderSet() *countdown.Reminders { return s.reminders }

// Resume loads the latest in-progress task into the controller. It reports
// false when there is nothing to resume.
func (s *Service) Resume() (models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.store.Active()
	if !ok {
		return models.Task{}, false, nil
	}
	if err := s.ctrl.Start(task); err != nil {
		return models.Task{}, false, err
	}
	s.logger.Printf("INFO resumed task %s (deadline %s)", task.ID, models.FormatTime(task.CurrentDeadline))
	return task, true, nil
}

// Current returns the task the controller is tracking.
func (s *Service) Current() (models.Task, bool) {
	return s.ctrl.Task()
}

// --- Task Operations ---

// NewTask creates a task and starts its countdown. It is refused while
// another task is active.
func (s *Service) NewTask(description string, deadline time.Time) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl.State() != countdown.Idle {
		return models.Task{}, countdown.ErrBusy
	}

	task, err := s.store.Create(description, deadline)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.ctrl.Start(task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Adjust moves the active task's deadline and restarts the countdown.
func (s *Service) Adjust(deadline time.Time, reason string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.active()
	if err != nil {
		return models.Task{}, err
	}
	task, err := s.store.Adjust(active.ID, deadline, reason)
	if err != nil {
		return models.Task{}, err
	}
	s.ctrl.Resume(task)
	return task, nil
}

// Complete marks the active task completed and clears the controller.
func (s *Service) Complete(summary string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.active()
	if err != nil {
		return models.Task{}, err
	}
	task, err := s.store.Complete(active.ID, summary)
	if err != nil {
		return models.Task{}, err
	}
	s.ctrl.Clear()
	return task, nil
}

// MarkTimedOut records the active task as timed out and clears the controller.
func (s *Service) MarkTimedOut() (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.active()
	if err != nil {
		return models.Task{}, err
	}
	task, err := s.store.SetStatus(active.ID, models.TaskStatusTimedOut)
	if err != nil {
		return models.Task{}, err
	}
	s.ctrl.Clear()
	return task, nil
}

// Remind schedules a one-shot reminder minutes from now.
func (s *Service) Remind(minutes int) (models.Reminder, error) {
	rem, err := s.reminders.Schedule(s.now(), minutes)
	if err != nil {
		return models.Reminder{}, err
	}
	s.logger.Printf("INFO reminder %s set for %s", rem.ID, models.FormatTime(rem.TriggerAt))
	return rem, nil
}

// Reminders returns the pending reminders ordered by trigger time.
func (s *Service) Reminders() []models.Reminder {
	return s.reminders.Pending()
}

// Deadline resolves user input into a deadline relative to the current time.
func (s *Service) Deadline(input string) (time.Time, error) {
	return ParseDeadline(input, s.now())
}

func (s *Service) active() (models.Task, error) {
	task, ok := s.ctrl.Task()
	if !ok {
		return models.Task{}, ErrNoActiveTask
	}
	return task, nil
}
