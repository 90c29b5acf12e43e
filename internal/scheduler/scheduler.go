// Package scheduler enqueues recurring background tasks on cron schedules
// taken from the effective settings.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/reader/internal/settingsstore"
	"github.com/mrlokans/reader/internal/tasks"
)

// ConfigSource resolves the schedules at start time.
type ConfigSource interface {
	GetExportConfig() settingsstore.ExportConfig
	GetInboxConfig() settingsstore.InboxConfig
}

type job struct {
	name     string
	schedule string
	task     backlite.Task
}

// Scheduler enqueues scan_inbox and export_library tasks. The tasks
// themselves run on the task queue workers.
type Scheduler struct {
	settings ConfigSource
	queue    tasks.Enqueuer

	mu         sync.RWMutex
	cron       *cron.Cron
	entries    map[string]cron.EntryID
	isRunning  bool
	cancelFunc context.CancelFunc
}

func New(settings ConfigSource, queue tasks.Enqueuer) *Scheduler {
	return &Scheduler{
		settings: settings,
		queue:    queue,
		entries:  make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) jobs() []job {
	var jobs []job

	export := s.settings.GetExportConfig()
	switch {
	case !export.Enabled:
		log.Printf("Export scheduler: disabled")
	case export.Dir == "":
		log.Printf("Export scheduler: export directory not configured, skipping")
	default:
		jobs = append(jobs, job{tasks.QueueExportLibrary, export.Schedule, tasks.ExportLibraryTask{}})
	}

	inbox := s.settings.GetInboxConfig()
	if inbox.Dir == "" {
		log.Printf("Inbox scheduler: no inbox directory configured")
	} else {
		jobs = append(jobs, job{tasks.QueueScanInbox, inbox.Schedule, tasks.ScanInboxTask{Dir: inbox.Dir}})
	}
	return jobs
}

// Start registers the configured jobs and starts the cron loop. With no
// job configured it does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := s.jobs()
	if len(jobs) == 0 {
		return nil
	}

	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	entries := make(map[string]cron.EntryID, len(jobs))
	for _, j := range jobs {
		if err := settingsstore.ValidateCronSchedule(j.schedule); err != nil {
			return errors.Wrapf(err, "invalid cron schedule '%s' for %s", j.schedule, j.name)
		}
		j := j
		id, err := c.AddFunc(j.schedule, func() { s.enqueue(j) })
		if err != nil {
			return errors.Wrapf(err, "schedule %s", j.name)
		}
		entries[j.name] = id
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron = c
	s.entries = entries
	c.Start()
	s.isRunning = true

	for _, j := range jobs {
		next, _ := settingsstore.GetNextRunTime(j.schedule)
		log.Printf("Scheduler: %s every '%s' (%s). Next run: %v",
			j.name, j.schedule, settingsstore.GetCronDescription(j.schedule), next)
	}

	go func() {
		<-cancelCtx.Done()
		s.stop(c)
	}()

	return nil
}

func (s *Scheduler) enqueue(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := s.queue.Enqueue(ctx, j.task)
	if err != nil {
		log.Printf("Scheduler: failed to enqueue %s: %v", j.name, err)
		return
	}
	log.Printf("Scheduler: enqueued %s (task %s)", j.name, id)
}

// Stop waits for running cron callbacks and stops the loop.
func (s *Scheduler) Stop() {
	s.stop(nil)
}

// stop stops the loop if it is c, or whatever loop is running when c is nil.
func (s *Scheduler) stop(c *cron.Cron) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || (c != nil && c != s.cron) {
		return
	}

	<-s.cron.Stop().Done()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.isRunning = false
	s.cancelFunc = nil
	s.entries = make(map[string]cron.EntryID)

	log.Printf("Scheduler: stopped")
}

// Reschedule reloads the schedules, typically after a settings change.
func (s *Scheduler) Reschedule(ctx context.Context) error {
	s.Stop()
	return s.Start(ctx)
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the named job runs next, or nil if it is not
// scheduled.
func (s *Scheduler) NextRunTime(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

// Scheduled returns the names of the active jobs.
func (s *Scheduler) Scheduled() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for _, name := range []string{tasks.QueueScanInbox, tasks.QueueExportLibrary} {
		if _, ok := s.entries[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
