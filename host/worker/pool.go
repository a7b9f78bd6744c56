package worker

import (
	"context"
	"errors"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool closed")

// Pool provides bounded concurrency execution for host requests.
type Pool struct {
	tasks    chan func()
	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
	// mu is read-held by senders and write-held while tasks is closed.
	mu     sync.RWMutex
	closed bool
	size   int
}

// New creates a worker pool with the given size.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	queueSize := size * 8
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		tasks:    make(chan func(), queueSize),
		shutdown: make(chan struct{}),
		size:     size,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				if task != nil {
					task()
				}
			}
		}()
	}

	return p
}

// Submit enqueues a task for execution.
func (p *Pool) Submit(task func()) error {
	return p.submit(context.Background(), task)
}

func (p *Pool) submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdown:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// SubmitWait enqueues a task and waits for it to complete or for ctx to end.
// The task receives ctx so it can stop early; a task abandoned by its caller
// still runs to completion on the worker.
func (p *Pool) SubmitWait(ctx context.Context, task func(ctx context.Context) error) error {
	if task == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := make(chan error, 1)
	err := p.submit(ctx, func() {
		if err := ctx.Err(); err != nil {
			result <- err
			return
		}
		result <- task(ctx)
	})
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

// Shutdown waits for in-flight tasks until context is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// StopNow closes the pool without waiting for tasks to finish.
func (p *Pool) StopNow() {
	p.close()
}

// close wakes blocked senders before taking the write lock, so a saturated
// queue cannot hold it off.
func (p *Pool) close() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
		p.mu.Lock()
		defer p.mu.Unlock()
		p.closed = true
		close(p.tasks)
	})
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}
