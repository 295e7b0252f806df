package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/inkpadhq/inkpad-export/internal/export"
)

// JobStatus represents the state of an async export job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusExporting JobStatus = "exporting"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one export request from submission to artifact.
type Job struct {
	mu sync.Mutex

	ID     string        `json:"job_id"`
	Format export.Format `json:"format"`
	Name   string        `json:"name"`
	Theme  string        `json:"theme"`

	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	markdown string
	result   []byte
}

// NewJob builds a queued job. Markdown is held privately until a worker
// picks the job up.
func NewJob(format export.Format, markdown, theme, name string) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Format:    format,
		Name:      name,
		Theme:     theme,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		markdown:  markdown,
	}
}

func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

func (j *Job) Complete(result []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.result = result
	j.UpdatedAt = time.Now()
}

func (j *Job) Markdown() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.markdown
}

// Result returns the artifact bytes once completed, or nil.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// lastUpdate reads UpdatedAt under the job lock; workers mutate it
// while the store's cleanup pass is scanning.
func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID        string        `json:"job_id"`
	Format    export.Format `json:"format"`
	Name      string        `json:"name"`
	Theme     string        `json:"theme"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		ID:        j.ID,
		Format:    j.Format,
		Name:      j.Name,
		Theme:     j.Theme,
		Status:    j.Status,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func newJobID() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
