// Package jobmgr runs named background jobs with cancellation, status
// callbacks, and in-memory tracking of running jobs.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.StartAfter("delete:123", 5*time.Second, func(ctx context.Context) error {
//	    return deleteMessage(ctx, "123")
//	})
//
//	// later, if the message went away some other way...
//	_ = jm.Stop("delete:123")
//
// Jobs run on their own goroutine with a context detached from the caller
// and are removed automatically on completion.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrJobExists     = errors.New("job already running")
	ErrJobNotRunning = errors.New("job not running")
)

// Job represents a running unit of work.
type Job struct {
	Name      string
	StartedAt time.Time
	Cancel    context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:delete:123
//	error:delete:123:Unknown Message
//	done:delete:123
//	cancelled:delete:123
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	wg       sync.WaitGroup
	Reporter StatusReporter
}

// NewManager creates a new Manager.
// The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	return m.StartAfter(name, 0, runner)
}

// StartAfter runs a job after delay on a separate goroutine and returns immediately.
// If a job with the same name is already running, ErrJobExists is returned.
// Stopping the job before the delay elapses skips the runner entirely.
func (m *Manager) StartAfter(name string, delay time.Duration, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, StartedAt: time.Now(), Cancel: cancel}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job '%s': %w", name, ErrJobExists)
	}
	m.jobs[name] = job
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer m.remove(job)
		defer cancel()

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				m.report("cancelled:" + name)
				return
			case <-timer.C:
			}
		}

		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
			return
		}
		m.report("done:" + name)
	}()

	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s': %w", name, ErrJobNotRunning)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job and waits for their goroutines to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// Wait blocks until every started job has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// List returns the sorted list of active job names.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
// Example:
//
//	"Running jobs: delete:1, delete:2"
//
// If none are running: "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

// remove drops the job from tracking unless it was already replaced.
func (m *Manager) remove(job *Job) {
	m.mu.Lock()
	if cur, ok := m.jobs[job.Name]; ok && cur == job {
		delete(m.jobs, job.Name)
	}
	m.mu.Unlock()
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
