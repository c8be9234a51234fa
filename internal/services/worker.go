package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job GenerationJob) error
}

type worker struct {
	generator   ResumeGenerator
	jobQueue    chan GenerationJob
	concurrency int
	jobTimeout  time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
	cancel      context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

func NewWorker(
	generator ResumeGenerator,
	concurrency int,
	queueSize int,
	jobTimeout time.Duration,
) Worker {
	return &worker{
		generator:   generator,
		jobQueue:    make(chan GenerationJob, queueSize),
		concurrency: concurrency,
		jobTimeout:  jobTimeout,
		stopChan:    make(chan struct{}),
		cancel:      func() {},
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	ctx, w.cancel = context.WithCancel(ctx)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker. Jobs still running are cancelled; queued jobs are
// dropped.
func (w *worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.cancel()
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// Enqueue implements Worker. It never blocks: a full queue is reported as
// ErrQueueFull.
func (w *worker) Enqueue(job GenerationJob) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Job %s enqueued\n", job)
		return nil
	default:
		log.Printf("⚠️  Queue full, rejecting job %s\n", job)
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, job)
			if err := w.processJob(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, job, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, job)
			}
		}
	}
}

func (w *worker) processJob(ctx context.Context, job GenerationJob) (err error) {
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during generation: %v", r)
			if job.Tracker != nil {
				job.Tracker.Fail(job.Key(), err)
			}
		}
	}()

	_, err = w.generator.Generate(ctx, job)
	return err
}
