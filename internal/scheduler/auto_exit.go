// Package scheduler runs the periodic background jobs of the library
// system: the auto-exit sweep that closes open presence rows once the
// facility has closed, and the fingerprint retention purge.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// AutoExitScheduler owns the cron instance driving the sweeps. The
// auto-exit sweep runs every minute; the fingerprint purge once a day.
type AutoExitScheduler struct {
	presence     *service.PresenceService
	fingerprints *repository.FingerprintRepo

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	sweeping  bool
}

// NewAutoExitScheduler creates a scheduler for the given services.
func NewAutoExitScheduler(presence *service.PresenceService, fingerprints *repository.FingerprintRepo) *AutoExitScheduler {
	if presence == nil {
		panic("nil presence service passed to NewAutoExitScheduler")
	}
	return &AutoExitScheduler{
		presence:     presence,
		fingerprints: fingerprints,
		cron:         cron.New(),
	}
}

// Start registers the jobs and starts the cron loop. Calling Start on
// a running scheduler is a no-op.
func (s *AutoExitScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc("@every 1m", s.runSweep); err != nil {
		return err
	}
	if s.fingerprints != nil {
		if _, err := s.cron.AddFunc("@daily", s.runFingerprintPurge); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("scheduler: auto-exit sweep scheduled every 1m")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *AutoExitScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
}

// runSweep executes one auto-exit pass. A simple flag prevents
// overlapping sweeps when a pass runs longer than the schedule period.
func (s *AutoExitScheduler) runSweep() {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		return
	}
	s.sweeping = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	closed, err := s.presence.AutoExitIfClosed(ctx)
	if err != nil {
		log.Printf("scheduler: auto-exit sweep failed: %v", err)
		return
	}
	if closed > 0 {
		log.Printf("scheduler: auto-exit closed %d entr(ies)", closed)
	}
}

// runFingerprintPurge removes fingerprint records past their retention
// window.
func (s *AutoExitScheduler) runFingerprintPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.fingerprints.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("scheduler: fingerprint purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("scheduler: purged %d expired fingerprint record(s)", n)
	}
}
