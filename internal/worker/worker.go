package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var taskResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "portal_worker_tasks_total",
	Help: "Background tasks by name and outcome.",
}, []string{"task", "outcome"})

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type job struct {
	name string
	run  Task
}

type WorkerPool struct {
	taskQueue   chan job
	wg          sync.WaitGroup
	isClosing   atomic.Bool // thread-safe value
	taskTimeout time.Duration
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		taskQueue:   make(chan job, 1000), // Buffer for 1000 pending tasks
		taskTimeout: 30 * time.Second,
	}

	// Start the workers
	for range size {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for j := range wp.taskQueue {
		wp.run(j)
	}
}

func (wp *WorkerPool) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), wp.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			taskResults.WithLabelValues(j.name, "panic").Inc()
			slog.Error("worker task panicked", "task", j.name, "panic", r)
		}
	}()

	if err := j.run(ctx); err != nil {
		taskResults.WithLabelValues(j.name, "error").Inc()
		slog.Error("worker task failed", "task", j.name, "error", err)
		return
	}
	taskResults.WithLabelValues(j.name, "ok").Inc()
}

// Submit queues a task. It reports false when the task was dropped.
func (wp *WorkerPool) Submit(name string, t Task) bool {
	if wp.isClosing.Load() {
		slog.Warn("task submitted during shutdown, dropping", "task", name)
		return false
	}
	select {
	case wp.taskQueue <- job{name: name, run: t}: // send task to worker pool
		return true
	default:
		taskResults.WithLabelValues(name, "dropped").Inc()
		slog.Warn("task queue full, dropping task", "task", name)
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	if wp.isClosing.Swap(true) {
		return
	}
	close(wp.taskQueue) // Stop accepting new tasks
	wp.wg.Wait()        // Wait for all active workers to finish tasks
}
