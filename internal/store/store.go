// Package store owns the task list. It is the only writer of durable storage
// and publishes a snapshot of the list to its observers after every change.
package store

import (
	"errors"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/twiced-technology-gmbh/tasklanes/internal/storage"
	"github.com/twiced-technology-gmbh/tasklanes/internal/task"
)

// DefaultKey is the storage key holding the serialized task list.
const DefaultKey = "tasks"

// Observer receives the full task list after every change. The slice is a
// copy owned by the observer.
type Observer interface {
	OnUpdate(tasks []task.Task)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(tasks []task.Task)

// OnUpdate implements Observer.
func (f ObserverFunc) OnUpdate(tasks []task.Task) { f(tasks) }

// Subscription identifies a registered observer.
type Subscription uint64

type registration struct {
	id  Subscription
	obs Observer
}

// Store holds the task list and mirrors it into a storage.Backend.
//
// Each mutation, its persist and its notification run as one unit under opMu,
// so observers see changes in the order they were made. State reads only take
// mu, which lets observers call List or Get from OnUpdate. Observers must not
// call mutating methods from OnUpdate.
type Store struct {
	backend storage.Backend
	key     string
	log     log.FieldLogger

	opMu sync.Mutex

	mu        sync.RWMutex
	tasks     []task.Task
	nextID    int
	observers []registration
	lastSub   Subscription
}

// New loads the task list from backend under key. Storage problems never fail
// construction: the store starts empty and the problem is logged.
func New(backend storage.Backend, key string, logger log.FieldLogger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{
		backend: backend,
		key:     key,
		log:     logger.WithField("key", key),
	}
	tasks, nextID, _ := s.load()
	s.tasks = tasks
	s.nextID = nextID
	s.log.WithField("tasks", len(tasks)).Debug("task store loaded")
	return s
}

// Key returns the storage key the store writes to.
func (s *Store) Key() string {
	return s.key
}

// Create validates and appends a new task, then persists and notifies.
// Name and description are stored trimmed.
func (s *Store) Create(name, description string, status task.Status) (task.Task, error) {
	name = strings.TrimSpace(name)
	if err := task.ValidateName(name); err != nil {
		return task.Task{}, err
	}
	if err := task.ValidateStatus(status); err != nil {
		return task.Task{}, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	t := task.Task{
		ID:          s.nextID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Status:      status,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"id": t.ID, "status": t.Status}).Info("task created")
	s.commit(snapshot)
	return t, nil
}

// Delete removes the task with the given ID if present, then persists and
// notifies. It reports whether a task was removed.
func (s *Store) Delete(id int) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx >= 0 {
		s.tasks = slices.Delete(s.tasks, idx, idx+1)
	}
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	if idx >= 0 {
		s.log.WithField("id", id).Info("task deleted")
	} else {
		s.log.WithField("id", id).Debug("delete: no such task")
	}
	s.commit(snapshot)
	return idx >= 0
}

// SetStatus moves a task to another lane. An invalid status is rejected with
// an error and nothing changes. An unknown ID is a silent no-op.
func (s *Store) SetStatus(id int, status task.Status) error {
	if err := task.ValidateStatus(status); err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	old := s.tasks[idx].Status
	s.tasks[idx].Status = status
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"id": id, "from": old, "to": status}).Info("task status changed")
	s.commit(snapshot)
	return nil
}

// List returns a copy of all tasks in insertion order.
func (s *Store) List() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id int) (task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return task.Task{}, task.NotFound(id)
	}
	return s.tasks[idx], nil
}

// Subscribe registers obs. Observers are notified in registration order.
func (s *Store) Subscribe(obs Observer) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSub++
	s.observers = append(s.observers, registration{id: s.lastSub, obs: obs})
	return s.lastSub
}

// Unsubscribe removes a registration. It reports whether one was removed;
// unknown or already removed subscriptions are ignored.
func (s *Store) Unsubscribe(sub Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.observers {
		if r.id == sub {
			s.observers = slices.Delete(s.observers, i, i+1)
			return true
		}
	}
	return false
}

// Reload re-reads durable storage, for when another process changed it.
// Observers are notified only if the stored list differs from memory. A
// storage read or parse failure keeps the current list. The ID counter never
// moves backwards.
func (s *Store) Reload() bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	tasks, nextID, ok := s.load()
	if !ok {
		return false
	}

	s.mu.Lock()
	if slices.Equal(tasks, s.tasks) {
		s.mu.Unlock()
		return false
	}
	s.tasks = tasks
	s.nextID = max(s.nextID, nextID)
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	s.log.WithField("tasks", len(tasks)).Info("task list reloaded from storage")
	s.notify(snapshot)
	return true
}

// load reads the task list from storage. nextID also accounts for skipped
// records so their IDs are never handed out again. ok is false when the
// stored value exists but could not be read or parsed; tasks is then empty.
func (s *Store) load() (tasks []task.Task, nextID int, ok bool) {
	data, err := s.backend.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []task.Task{}, 1, true
	}
	if err != nil {
		s.log.WithError(err).Warn("reading task list; using empty list")
		return []task.Task{}, 1, false
	}

	tasks, warnings, err := Decode(data)
	if err != nil {
		s.log.WithError(err).Warn("stored task list is malformed; using empty list")
		return []task.Task{}, 1, false
	}
	nextID = nextIDAfter(tasks)
	for _, w := range warnings {
		s.log.WithError(w.Err).WithFields(log.Fields{"index": w.Index, "id": w.ID}).
			Warn("skipping malformed task record; it will be dropped on the next save")
		nextID = max(nextID, w.ID+1)
	}
	return tasks, nextID, true
}

// commit persists and then notifies. Called with opMu held.
func (s *Store) commit(snapshot []task.Task) {
	s.persist(snapshot)
	s.notify(snapshot)
}

// persist writes the whole list. Failures are logged, never returned, so a
// storage outage leaves the application usable with unsaved state.
func (s *Store) persist(tasks []task.Task) {
	data, err := Encode(tasks)
	if err != nil {
		s.log.WithError(err).Error("encoding task list; changes not saved")
		return
	}
	if err := s.backend.Set(s.key, data); err != nil {
		s.log.WithError(err).Error("writing task list; changes not saved")
		return
	}
	s.log.WithField("tasks", len(tasks)).Debug("task list saved")
}

// notify calls every observer with its own copy of the list.
func (s *Store) notify(snapshot []task.Task) {
	s.mu.RLock()
	observers := slices.Clone(s.observers)
	s.mu.RUnlock()

	for _, r := range observers {
		r.obs.OnUpdate(slices.Clone(snapshot))
	}
}

func (s *Store) indexLocked(id int) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}
