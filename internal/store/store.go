// Package store owns the task records for tempus and persists them after
// every mutation.
package store

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fentz26/tempus/internal/audit"
	"github.com/fentz26/tempus/internal/models"
	"github.com/google/uuid"
)

// Backend persists the full task collection.
type Backend interface {
	Load() ([]models.Task, error)
	Save(tasks []models.Task) error
	Close() error
}

// Options configures a Store.
type Options struct {
	// Logger receives load/save failures and the mutation journal.
	Logger *log.Logger
	// Strict rejects mutations of tasks that are no longer in progress.
	Strict bool
	// Now overrides the wall clock, mainly for tests.
	Now func() time.Time
}

// Store provides access to the task collection. Records handed out are
// copies; the only way to change a task is through the Store's methods.
type Store struct {
	mu      sync.Mutex
	backend Backend
	tasks   []models.Task
	index   map[string]int

	logger  *log.Logger
	journal *audit.Journal
	strict  bool
	now     func() time.Time
}

// New creates a Store and loads the existing collection from backend.
// A load failure is logged and leaves the store empty.
func New(backend Backend, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Store{
		backend: backend,
		index:   make(map[string]int),
		logger:  logger,
		journal: audit.NewJournal(logger),
		strict:  opts.Strict,
		now:     now,
	}
	s.load()
	return s
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) load() {
	tasks, err := s.backend.Load()
	if err != nil {
		s.logger.Printf("ERROR %v", fmt.Errorf("%w: load tasks: %v", ErrPersistence, err))
		return
	}
	for _, t := range tasks {
		if _, dup := s.index[t.ID]; dup {
			s.logger.Printf("WARN duplicate task id %s in data, keeping first", t.ID)
			continue
		}
		s.index[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, t)
	}
}

// save writes the whole collection. Errors are logged, not returned, so the
// in-memory state stays usable for the session.
func (s *Store) save() {
	if err := s.backend.Save(s.tasks); err != nil {
		s.logger.Printf("ERROR %v", fmt.Errorf("%w: save tasks: %v", ErrPersistence, err))
	}
}

// lookup returns a pointer into the collection. Callers must hold s.mu.
func (s *Store) lookup(id string) (*models.Task, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &s.tasks[i], nil
}

func (s *Store) checkMutable(t *models.Task) error {
	if s.strict && t.Status != models.TaskStatusInProgress {
		return fmt.Errorf("%w: %s is %s", ErrState, t.ID, t.Status)
	}
	return nil
}

// --- Mutations ---

// Create adds a new in-progress task with the given deadline.
func (s *Store) Create(description string, deadline time.Time) (models.Task, error) {
	if strings.TrimSpace(description) == "" {
		return models.Task{}, fmt.Errorf("%w: description is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	for _, taken := s.index[id]; taken; _, taken = s.index[id] {
		id = uuid.New().String()
	}

	deadline = models.Stamp(deadline)
	task := models.Task{
		ID:              id,
		Description:     description,
		StartTime:       models.Stamp(s.now()),
		InitialDeadline: deadline,
		CurrentDeadline: deadline,
		Adjustments:     []models.Adjustment{},
		Status:          models.TaskStatusInProgress,
	}

	s.index[task.ID] = len(s.tasks)
	s.tasks = append(s.tasks, task)
	s.save()

	s.journal.Record("task.create", task.ID,
		map[string]string{"description": description, "deadline": models.FormatTime(deadline)},
		fmt.Sprintf("description=%q deadline=%q", description, models.FormatTime(deadline)))
	return task.Clone(), nil
}

// Adjust moves a task's current deadline and appends an adjustment entry.
func (s *Store) Adjust(id string, newDeadline time.Time, reason string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(id)
	if err != nil {
		return models.Task{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return models.Task{}, fmt.Errorf("%w: adjustment reason is required", ErrValidation)
	}
	if err := s.checkMutable(task); err != nil {
		return models.Task{}, err
	}

	newDeadline = models.Stamp(newDeadline)
	previous := task.CurrentDeadline
	delta := newDeadline.Sub(previous).Seconds()

	task.Adjustments = append(task.Adjustments, models.Adjustment{
		Time:             models.Stamp(s.now()),
		Reason:           reason,
		OriginalDeadline: previous,
		NewDeadline:      newDeadline,
		Sequence:         len(task.Adjustments) + 1,
	})
	task.CurrentDeadline = newDeadline
	task.TotalAdjustments = len(task.Adjustments)
	task.TotalAdjustedTime += delta
	s.save()

	s.journal.Record("task.adjust", task.ID,
		map[string]string{"reason": reason, "deadline": models.FormatTime(newDeadline)},
		fmt.Sprintf("reason=%q from=%q to=%q", reason, models.FormatTime(previous), models.FormatTime(newDeadline)))
	return task.Clone(), nil
}

// Complete marks a task completed with an optional summary. Outside strict
// mode a second call overwrites the completion time and summary.
func (s *Store) Complete(id, summary string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.checkMutable(task); err != nil {
		return models.Task{}, err
	}

	done := models.Stamp(s.now())
	task.CompletionTime = &done
	task.Summary = summary
	task.Status = models.TaskStatusCompleted
	s.save()

	details := ""
	if summary != "" {
		details = fmt.Sprintf("summary=%q", summary)
	}
	s.journal.Record("task.complete", task.ID, map[string]string{"summary": summary}, details)
	return task.Clone(), nil
}

// SetStatus stores status verbatim.
func (s *Store) SetStatus(id string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(id)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.checkMutable(task); err != nil {
		return models.Task{}, err
	}

	task.Status = status
	s.save()

	s.journal.Record("task.status", task.ID, map[string]string{"status": string(status)},
		fmt.Sprintf("status=%s", status))
	return task.Clone(), nil
}

// --- Queries ---

// Get retrieves a task by ID.
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(id)
	if err != nil {
		return models.Task{}, err
	}
	return task.Clone(), nil
}

// Resolve finds a task by full ID or by a unique ID prefix.
func (s *Store) Resolve(ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if task, err := s.lookup(ref); err == nil {
		return task.Clone(), nil
	}
	if ref == "" {
		return models.Task{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var match *models.Task
	for i := range s.tasks {
		if !strings.HasPrefix(s.tasks[i].ID, ref) {
			continue
		}
		if match != nil {
			return models.Task{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
		}
		match = &s.tasks[i]
	}
	if match == nil {
		return models.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match.Clone(), nil
}

// List returns all tasks in creation order, optionally filtered by status.
func (s *Store) List(status models.TaskStatus) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// Active returns the most recently created task that is still in progress.
func (s *Store) Active() (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].Status == models.TaskStatusInProgress {
			return s.tasks[i].Clone(), true
		}
	}
	return models.Task{}, false
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
