package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

// Work is a unit of work run by the scheduler. The context is cancelled when
// the future is stopped or the scheduler is closed.
type Work func(ctx context.Context) (any, error)

type job struct {
	ctx    context.Context
	work   Work
	future *models.Future[models.Result[any]]
}

// Scheduler runs work on a fixed number of workers.
type Scheduler struct {
	jobs   chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewScheduler(workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:   make(chan job),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	zap.S().Named("scheduler").Debugw("scheduler started", "workers", workers)
	return s
}

// AddWork queues w and returns its future. The future is resolved with an
// error if it is stopped or the scheduler is closed before w runs.
func (s *Scheduler) AddWork(w Work) *models.Future[models.Result[any]] {
	ctx, cancel := context.WithCancel(s.ctx)
	f := models.NewFuture[models.Result[any]](cancel)

	go func() {
		select {
		case s.jobs <- job{ctx: ctx, work: w, future: f}:
		case <-ctx.Done():
			cancel()
			f.Resolve(models.Result[any]{Err: ctx.Err()})
		}
	}()

	return f
}

// Close stops accepting work, cancels running work and waits for the workers to exit.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		zap.S().Named("scheduler").Debug("scheduler closed")
	})
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case j := <-s.jobs:
			s.run(id, j)
		}
	}
}

func (s *Scheduler) run(id int, j job) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "worker", id, "panic", r)
			j.future.Resolve(models.Result[any]{Err: fmt.Errorf("work panicked: %v", r)})
		}
	}()

	if err := j.ctx.Err(); err != nil {
		j.future.Resolve(models.Result[any]{Err: err})
		return
	}

	data, err := j.work(j.ctx)
	j.future.Resolve(models.Result[any]{Data: data, Err: err})
}
