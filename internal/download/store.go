package download

import (
	"sync"
	"time"

	"github.com/ytget/yt-jobtracker/internal/errors"
	"github.com/ytget/yt-jobtracker/internal/logger"
	"github.com/ytget/yt-jobtracker/internal/model"
)

// ChangeKind says what happened to a job
type ChangeKind int

const (
	ChangeInserted ChangeKind = iota
	ChangeUpdated
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInserted:
		return "inserted"
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	}
	return "unknown"
}

// Change describes one mutation of the store. Job is a copy taken right after
// the mutation; for ChangeRemoved it is the last state before deletion.
type Change struct {
	Kind ChangeKind
	Job  model.Job
}

// Listener is notified after every store mutation
type Listener func(Change)

// Store is the authoritative local view of all tracked jobs.
// Every operation is serialized; listeners run after the lock is released.
type Store struct {
	mu        sync.Mutex
	jobs      map[string]*model.Job
	order     []string // insertion order, oldest first
	listeners map[uint64]Listener
	nextSub   uint64
	now       func() time.Time
	log       *logger.Logger
}

// NewStore creates an empty job store
func NewStore(log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		jobs:      make(map[string]*model.Job),
		listeners: make(map[uint64]Listener),
		now:       time.Now,
		log:       log,
	}
}

// Insert adds a freshly submitted job. Ids are unique; the same source URL
// may be tracked any number of times.
func (s *Store) Insert(job model.Job) error {
	s.mu.Lock()
	if _, exists := s.jobs[job.ID]; exists {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrDuplicateJob, "job %s", job.ID)
	}

	j := job.Clone()
	s.jobs[j.ID] = &j
	s.order = append(s.order, j.ID)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.log.Debug().Str("job_id", j.ID).Str("url", j.SourceURL).Msg("job tracked")
	notify(listeners, Change{Kind: ChangeInserted, Job: j.Clone()})
	return nil
}

// Reconcile merges a progress update into the matching job. It reports the
// resulting change and whether anything happened. Updates for unknown jobs
// and updates carrying an unreachable status are discarded.
func (s *Store) Reconcile(u model.ProgressUpdate) (Change, bool) {
	s.mu.Lock()
	job, ok := s.jobs[u.ID]
	if !ok {
		s.mu.Unlock()
		s.log.Debug().Str("job_id", u.ID).Msg("update for unknown job discarded")
		return Change{}, false
	}

	changed, err := job.Apply(u, s.now())
	if err != nil {
		s.mu.Unlock()
		s.log.Warn().Err(err).Str("job_id", u.ID).Msg("stale update discarded")
		return Change{}, false
	}

	var change Change
	switch {
	case u.IsRemoval() && job.Status == model.JobStatusCompleted:
		change = Change{Kind: ChangeRemoved, Job: job.Clone()}
		s.deleteLocked(u.ID)
	case changed:
		change = Change{Kind: ChangeUpdated, Job: job.Clone()}
	default:
		s.mu.Unlock()
		return Change{}, false
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if change.Kind == ChangeRemoved {
		s.log.Info().Str("job_id", u.ID).Msg("job removed by backend")
	}
	notify(listeners, change)
	return change, true
}

// Remove drops a job. Removing an absent job is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	change := Change{Kind: ChangeRemoved, Job: job.Clone()}
	s.deleteLocked(id)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	notify(listeners, change)
	return true
}

// Snapshot returns copies of all jobs, most recently inserted first
func (s *Store) Snapshot() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]model.Job, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		jobs = append(jobs, s.jobs[s.order[i]].Clone())
	}
	return jobs
}

// Get returns a copy of a job by ID
func (s *Store) Get(id string) (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return job.Clone(), true
}

// ActiveIDs returns the ids of jobs that still need polling, oldest first
func (s *Store) ActiveIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.jobs[id].Status.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of tracked jobs
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) deleteLocked(id string) {
	delete(s.jobs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, change Change) {
	for _, l := range listeners {
		l(change)
	}
}
