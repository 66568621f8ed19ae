package worker

import (
	"sync"
	"time"
)

// Scheduler enqueues jobs on a pool at fixed intervals
type Scheduler struct {
	pool *Pool
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewScheduler(pool *Pool) *Scheduler {
	return &Scheduler{
		pool: pool,
		quit: make(chan struct{}),
	}
}

// Schedule enqueues job every interval until Stop. A tick that finds the
// queue full is skipped rather than piling up.
func (s *Scheduler) Schedule(interval time.Duration, job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.pool.Enqueue(job)
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop ends scheduling and stops the pool. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.pool.Stop()
	})
}
