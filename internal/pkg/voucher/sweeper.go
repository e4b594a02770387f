package voucher

import (
	"log"
	"sync"
	"time"
)

const sweepBatchSize = 500

// Sweeper periodically expires stale vouchers in batches. The sweep is an
// idempotent companion to the lazy expiry on read paths: redemption
// correctness never depends on it having run.
type Sweeper struct {
	store    *Store
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(store *Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	log.Printf("[Sweeper] Starting voucher expiry sweep every %v", s.interval)

	s.wg.Add(1)
	go s.loop()
}

// Stop stops the sweep loop and waits for the current run to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Sweeper) runOnce() {
	now := time.Now()
	for {
		expired, err := s.store.SweepExpired(now, sweepBatchSize)
		if err != nil {
			log.Printf("[Sweeper] expiry sweep failed: %v", err)
			return
		}
		if expired == 0 {
			return
		}
		log.Printf("[Sweeper] expired %d vouchers", expired)
		if expired < sweepBatchSize {
			return
		}
	}
}
