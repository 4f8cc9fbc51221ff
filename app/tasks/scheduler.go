package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	taskQueueSize = 16
	taskTimeout   = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs all tasks on a single worker, so reload and cleanup
// passes never touch the dedup store at the same time. Timers and manual
// triggers only enqueue.
type Scheduler struct {
	factory        *Factory
	reloadInterval time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface

	mu      sync.Mutex
	pending map[TaskType]bool
	stats   Stats

	now func() time.Time
}

// Stats summarizes what the worker has done since start.
type Stats struct {
	Completed   int        `json:"completed"`
	Failed      int        `json:"failed"`
	LastReload  *time.Time `json:"last_reload,omitempty"`
	LastCleanup *time.Time `json:"last_cleanup,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func NewScheduler(factory *Factory, reloadInterval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if reloadInterval <= 0 {
		reloadInterval = time.Minute
	}

	return &Scheduler{
		factory:        factory,
		reloadInterval: reloadInterval,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, taskQueueSize),
		pending:        make(map[TaskType]bool),
		now:            time.Now,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		cleanup := time.NewTimer(untilNextMidnight(s.now()))
		defer cleanup.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.EnqueueReload(TriggerTimer); err != nil {
					slog.Warn("Failed to enqueue ReloadFeedTask", "error", err)
				}
			case <-cleanup.C:
				if err := s.EnqueueCleanup(TriggerTimer); err != nil {
					slog.Warn("Failed to enqueue CleanupStoreTask", "error", err)
				}
				cleanup.Reset(untilNextMidnight(s.now()))
			}
		}
	}()
}

// Stop cancels the running task and waits for the worker. Tasks still
// queued are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueReload queues a reload pass unless one is already waiting.
func (s *Scheduler) EnqueueReload(trigger Trigger) error {
	return s.enqueueOnce(s.factory.NewReloadFeedTask(trigger))
}

// EnqueueCleanup queues a cleanup pass unless one is already waiting.
func (s *Scheduler) EnqueueCleanup(trigger Trigger) error {
	return s.enqueueOnce(s.factory.NewCleanupStoreTask(trigger))
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) enqueueOnce(task TaskInterface) error {
	s.mu.Lock()
	if s.pending[task.GetType()] {
		s.mu.Unlock()
		slog.Debug("Task already queued, skipping", "type", string(task.GetType()), "trigger", string(task.GetTrigger()))
		return nil
	}
	s.pending[task.GetType()] = true
	s.mu.Unlock()

	if err := s.EnqueueTask(task); err != nil {
		s.mu.Lock()
		delete(s.pending, task.GetType())
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Scheduler) enqueueStartupTasks() {
	if err := s.EnqueueReload(TriggerStartup); err != nil {
		slog.Warn("Failed to enqueue ReloadFeedTask", "error", err)
	}
	if err := s.EnqueueCleanup(TriggerStartup); err != nil {
		slog.Warn("Failed to enqueue CleanupStoreTask", "error", err)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.mu.Lock()
			delete(s.pending, task.GetType())
			s.mu.Unlock()

			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.stats.Failed++
		s.stats.LastError = err.Error()
		slog.Error("Worker task execution failed", "type", string(task.GetType()), "id", task.GetID(), "trigger", string(task.GetTrigger()), "error", err)
		return
	}

	s.stats.Completed++
	finishedAt := s.now()
	switch task.GetType() {
	case TaskTypeReloadFeed:
		s.stats.LastReload = &finishedAt
	case TaskTypeCleanupStore:
		s.stats.LastCleanup = &finishedAt
	}
}

func untilNextMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
}
