package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

// Job status values.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobError   = "error"
)

// JobTypeGraph is the only job type the API schedules.
const JobTypeGraph = "graph"

type JobProgress struct {
	Domain string `json:"domain"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
}

type Job struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Domain     string           `json:"domain"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Progress   *JobProgress     `json:"progress,omitempty"`
	SnapshotID string           `json:"snapshot_id,omitempty"`
	Graph      *sitegraph.Graph `json:"graph,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// finished reports whether the job reached a terminal status.
func (j *Job) finished() bool {
	return j.Status == JobDone || j.Status == JobError
}

type GraphRequest struct {
	Domain string `json:"domain"`
}

type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	subscribers map[chan Job]struct{}
	maxJobs     int
	done        chan struct{}
	closeOnce   sync.Once
}

func NewJobManager() *JobManager {
	m := &JobManager{
		jobs:        make(map[string]*Job),
		subscribers: make(map[chan Job]struct{}),
		maxJobs:     1000,
		done:        make(chan struct{}),
	}
	go m.cleanupLoop(5 * time.Minute)
	return m
}

func (m *JobManager) CreateJob(jobType, domain string) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &Job{
		ID:        generateID("job"),
		Type:      jobType,
		Domain:    domain,
		Status:    JobPending,
		CreatedAt: time.Now().UTC(),
	}
	m.jobs[job.ID] = job
	m.broadcast(*job)
	cp := *job
	return &cp
}

func (m *JobManager) UpdateJob(id string, update func(*Job)) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil
	}
	update(job)
	m.broadcast(*job)
	cp := *job
	return &cp
}

func (m *JobManager) GetJob(id string) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		cp := *job
		return &cp
	}
	return nil
}

// ListJobs returns up to limit jobs, newest first. Graphs are omitted from
// the listing; fetch a single job to get its graph.
func (m *JobManager) ListJobs(limit int) []Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.jobs) {
		limit = len(m.jobs)
	}
	jobs := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		cp := *job
		cp.Graph = nil
		jobs = append(jobs, cp)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return jobs
}

func (m *JobManager) Subscribe() (chan Job, func()) {
	ch := make(chan Job, 10)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()
	return ch, func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
}

// SetMaxJobs configures the maximum number of finished jobs kept in memory.
func (m *JobManager) SetMaxJobs(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxJobs = max
	}
}

// Close stops the cleanup loop. It is safe to call more than once.
func (m *JobManager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// broadcast must be called with m.mu held. Slow subscribers miss updates.
func (m *JobManager) broadcast(job Job) {
	job.Graph = nil
	for ch := range m.subscribers {
		select {
		case ch <- job:
		default:
		}
	}
}

func generateID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func (m *JobManager) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.prune()
		}
	}
}

// prune drops the oldest finished jobs once the manager holds more than maxJobs.
func (m *JobManager) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.jobs) <= m.maxJobs {
		return
	}

	type jobWithTime struct {
		id   string
		time time.Time
	}
	var completed []jobWithTime
	for id, job := range m.jobs {
		if !job.finished() {
			continue
		}
		finishTime := job.CreatedAt
		if job.FinishedAt != nil {
			finishTime = *job.FinishedAt
		}
		completed = append(completed, jobWithTime{id: id, time: finishTime})
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].time.Before(completed[j].time)
	})

	toRemove := len(m.jobs) - m.maxJobs
	if toRemove > len(completed) {
		toRemove = len(completed)
	}
	for i := 0; i < toRemove; i++ {
		delete(m.jobs, completed[i].id)
	}
}
