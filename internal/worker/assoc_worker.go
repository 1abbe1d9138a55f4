// Package worker applies user/short-code association updates in the
// background. URL creation and ownership bookkeeping are deliberately
// separate writes; the pool batches appends per account and applies them
// through the user service.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/pool"
)

// AssociateRequest asks for codes to be appended to an account's owned set.
type AssociateRequest struct {
	Email string
	Codes []string
}

// AssociationService applies an append to the persisted account.
type AssociationService interface {
	AppendOwnedCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error)
}

// batch accumulates pending appends per account between flushes.
type batch struct {
	codes map[string][]string
	total int
}

func newBatch() *batch {
	return &batch{codes: make(map[string][]string)}
}

func (b *batch) add(req AssociateRequest) {
	b.codes[req.Email] = append(b.codes[req.Email], req.Codes...)
	b.total += len(req.Codes)
}

func (b *batch) Reset() {
	for k := range b.codes {
		delete(b.codes, k)
	}
	b.total = 0
}

// AssociationWorkerPool consumes AssociateRequests and flushes them in
// batches, either when a batch fills up or when the batch timeout fires.
type AssociationWorkerPool struct {
	service      AssociationService
	requestChan  chan AssociateRequest
	batchPool    *pool.Pool[*batch]
	batchSize    int
	batchTimeout time.Duration
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Config tunes the worker pool.
type Config struct {
	WorkerCount  int
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:  2,
		BufferSize:   100,
		BatchSize:    10,
		BatchTimeout: 5 * time.Second,
	}
}

// NewAssociationWorkerPool creates a pool applying appends through service.
func NewAssociationWorkerPool(service AssociationService, config Config) *AssociationWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &AssociationWorkerPool{
		service:      service,
		requestChan:  make(chan AssociateRequest, config.BufferSize),
		batchPool:    pool.New(config.WorkerCount, newBatch),
		batchSize:    config.BatchSize,
		batchTimeout: config.BatchTimeout,
		workerCount:  config.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the workers.
func (p *AssociationWorkerPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("batchSize", p.batchSize).
		Dur("batchTimeout", p.batchTimeout).
		Msg("Starting association worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *AssociationWorkerPool) worker(id int) {
	defer p.wg.Done()

	b := p.batchPool.Get()
	defer p.batchPool.Put(b)

	var timer *time.Timer
	var timerC <-chan time.Time

	processBatch := func() {
		if b.total == 0 {
			return
		}

		for email, codes := range b.codes {
			_, found, err := p.service.AppendOwnedCodes(context.Background(), email, codes)
			switch {
			case err != nil:
				log.Error().
					Err(err).
					Int("workerID", id).
					Str("email", email).
					Int("codeCount", len(codes)).
					Msg("Failed to associate codes with user")
			case !found:
				log.Warn().
					Int("workerID", id).
					Str("email", email).
					Msg("Association target account no longer exists")
			default:
				log.Debug().
					Int("workerID", id).
					Str("email", email).
					Int("codeCount", len(codes)).
					Msg("Associated codes with user")
			}
		}

		b.Reset()
	}

	startOrResetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(p.batchTimeout)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.batchTimeout)
		timerC = timer.C
	}

	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timerC = nil
	}

	for {
		select {
		case <-p.ctx.Done():
			processBatch()
			stopTimer()
			return

		case req, ok := <-p.requestChan:
			if !ok {
				processBatch()
				stopTimer()
				return
			}

			batchWasEmpty := b.total == 0
			b.add(req)

			if b.total >= p.batchSize {
				processBatch()
				stopTimer()
			} else if batchWasEmpty {
				startOrResetTimer()
			}

		case <-timerC:
			processBatch()
			stopTimer()
		}
	}
}

// Submit enqueues an association request, blocking when the buffer is full.
func (p *AssociationWorkerPool) Submit(email string, codes []string) error {
	select {
	case <-p.ctx.Done():
		return context.Canceled
	case p.requestChan <- AssociateRequest{Email: email, Codes: codes}:
		return nil
	default:
		log.Warn().
			Str("email", email).
			Int("codeCount", len(codes)).
			Msg("Association channel is full, blocking")

		select {
		case <-p.ctx.Done():
			return context.Canceled
		case p.requestChan <- AssociateRequest{Email: email, Codes: codes}:
			return nil
		}
	}
}

// Shutdown drains pending requests, forcing termination after timeout.
func (p *AssociationWorkerPool) Shutdown(timeout time.Duration) error {
	var shutdownErr error

	p.shutdownOnce.Do(func() {
		log.Info().Msg("Shutting down association worker pool")

		close(p.requestChan)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Info().Msg("Association worker pool shut down gracefully")
		case <-time.After(timeout):
			log.Warn().Msg("Association worker pool shutdown timeout, forcing shutdown")
			p.cancel()
			<-done
			shutdownErr = context.DeadlineExceeded
		}
	})

	return shutdownErr
}
