package api

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

func TestNewJobManager(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()
	if jm.maxJobs != 1000 {
		t.Errorf("expected maxJobs 1000, got %d", jm.maxJobs)
	}
	if jm.jobs == nil {
		t.Error("expected jobs map to be initialized")
	}
	if jm.subscribers == nil {
		t.Error("expected subscribers map to be initialized")
	}
}

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	job := jm.CreateJob(JobTypeGraph, "acme.test")

	if job.Type != JobTypeGraph {
		t.Errorf("expected type %q, got %s", JobTypeGraph, job.Type)
	}
	if job.Domain != "acme.test" {
		t.Errorf("expected domain 'acme.test', got %s", job.Domain)
	}
	if job.Status != JobPending {
		t.Errorf("expected status 'pending', got %s", job.Status)
	}
	if job.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	retrieved := jm.GetJob(job.ID)
	if retrieved == nil {
		t.Fatal("expected to retrieve created job")
	}
	if retrieved.ID != job.ID {
		t.Errorf("expected ID %s, got %s", job.ID, retrieved.ID)
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()
	job := jm.CreateJob(JobTypeGraph, "acme.test")

	updated := jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = JobRunning
		now := time.Now()
		j.StartedAt = &now
		j.Progress = &JobProgress{Domain: "acme.test", Index: 1, Total: 3}
	})

	if updated == nil {
		t.Fatal("expected non-nil updated job")
	}
	if updated.Status != JobRunning {
		t.Errorf("expected status 'running', got %s", updated.Status)
	}
	if updated.Progress == nil || updated.Progress.Total != 3 {
		t.Errorf("expected progress total 3, got %+v", updated.Progress)
	}

	if jm.UpdateJob("non-existent-id", func(j *Job) { j.Status = JobDone }) != nil {
		t.Error("expected nil for non-existent job update")
	}
}

func TestJobManager_GetJobReturnsCopy(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	if jm.GetJob("non-existent") != nil {
		t.Error("expected nil for non-existent job")
	}

	created := jm.CreateJob(JobTypeGraph, "acme.test")
	retrieved := jm.GetJob(created.ID)
	retrieved.Status = JobError

	if again := jm.GetJob(created.ID); again.Status != JobPending {
		t.Errorf("mutating a returned job leaked into the manager: %s", again.Status)
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	if jobs := jm.ListJobs(10); len(jobs) != 0 {
		t.Errorf("expected 0 jobs, got %d", len(jobs))
	}

	job1 := jm.CreateJob(JobTypeGraph, "one.test")
	time.Sleep(5 * time.Millisecond)
	jm.CreateJob(JobTypeGraph, "two.test")
	time.Sleep(5 * time.Millisecond)
	job3 := jm.CreateJob(JobTypeGraph, "three.test")

	jm.UpdateJob(job1.ID, func(j *Job) {
		j.Status = JobDone
		j.Graph = &sitegraph.Graph{Nodes: []sitegraph.Node{{Name: "root"}}}
	})

	jobs := jm.ListJobs(10)
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != job3.ID {
		t.Errorf("expected newest job first (%s), got %s", job3.ID, jobs[0].ID)
	}
	for _, j := range jobs {
		if j.Graph != nil {
			t.Errorf("listing should not carry graphs, job %s has one", j.ID)
		}
	}
	if got := jm.GetJob(job1.ID); got.Graph == nil {
		t.Error("expected single job lookup to carry the graph")
	}

	if jobs := jm.ListJobs(2); len(jobs) != 2 {
		t.Errorf("expected limit to return 2 jobs, got %d", len(jobs))
	}
}

func TestJobManager_Subscribe(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	ch, unsubscribe := jm.Subscribe()

	jm.CreateJob(JobTypeGraph, "acme.test")

	select {
	case job := <-ch:
		if job.Domain != "acme.test" {
			t.Errorf("expected domain acme.test, got %s", job.Domain)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for job notification")
	}

	unsubscribe()
	jm.CreateJob(JobTypeGraph, "other.test")

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	unsubscribe()
}

func TestJobManager_Broadcast(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	ch1, unsub1 := jm.Subscribe()
	ch2, unsub2 := jm.Subscribe()
	defer unsub1()
	defer unsub2()

	var wg sync.WaitGroup
	wg.Add(2)
	received := make([]bool, 2)
	for i, ch := range []chan Job{ch1, ch2} {
		go func(i int, ch chan Job) {
			defer wg.Done()
			select {
			case <-ch:
				received[i] = true
			case <-time.After(time.Second):
			}
		}(i, ch)
	}

	jm.CreateJob(JobTypeGraph, "acme.test")
	wg.Wait()

	for i, ok := range received {
		if !ok {
			t.Errorf("subscriber %d should have received notification", i+1)
		}
	}
}

func TestJobManager_BroadcastDropsForSlowSubscribers(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()

	_, unsub := jm.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			jm.CreateJob(JobTypeGraph, "acme.test")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full subscriber")
	}
}

func TestJobManager_Prune(t *testing.T) {
	jm := NewJobManager()
	defer jm.Close()
	jm.SetMaxJobs(2)

	var ids []string
	for i := 0; i < 4; i++ {
		job := jm.CreateJob(JobTypeGraph, "acme.test")
		ids = append(ids, job.ID)
	}
	base := time.Now()
	for i, id := range ids[:3] {
		finished := base.Add(time.Duration(i) * time.Second)
		jm.UpdateJob(id, func(j *Job) {
			j.Status = JobDone
			j.FinishedAt = &finished
		})
	}

	jm.prune()

	if jm.GetJob(ids[0]) != nil || jm.GetJob(ids[1]) != nil {
		t.Error("expected the two oldest finished jobs to be pruned")
	}
	if jm.GetJob(ids[2]) == nil {
		t.Error("expected the newest finished job to survive")
	}
	if jm.GetJob(ids[3]) == nil {
		t.Error("pending jobs must never be pruned")
	}
}

func TestGenerateID(t *testing.T) {
	id1 := generateID("job")
	id2 := generateID("job")

	if id1 == id2 {
		t.Error("expected unique IDs")
	}
	if !strings.HasPrefix(id1, "job_") {
		t.Errorf("expected job_ prefix, got %s", id1)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id1, "job_")); err != nil {
		t.Errorf("expected uuid suffix: %v", err)
	}
}
