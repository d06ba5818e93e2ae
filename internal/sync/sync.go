// Package sync exports the address book and copies the export to backup
// destinations, either once or on a schedule.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Destination is a backup target (directory, S3, git, etc.).
type Destination interface {
	// Write stores one export payload.
	Write(ctx context.Context, data []byte) error
	// String names the destination in logs.
	String() string
}

// Backup exports once from l and writes the payload to every destination.
// A failing destination does not stop the others; all failures are joined.
func Backup(ctx context.Context, l Lister, format Format, destinations []Destination) (int, error) {
	var buf bytes.Buffer
	if err := Export(ctx, l, format, &buf); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	data := buf.Bytes()

	var errs []error
	for _, dest := range destinations {
		if err := dest.Write(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
		}
	}
	return len(data), errors.Join(errs...)
}

// Scheduler runs periodic backups to one or more destinations.
type Scheduler struct {
	lister       Lister
	format       Format
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from l to the given
// destinations at the specified interval.
func NewScheduler(l Lister, format Format, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		lister:       l,
		format:       format,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic backups. It runs one immediately, then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.backupOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.backupOnce(ctx)
		}
	}
}

func (s *Scheduler) backupOnce(ctx context.Context) {
	n, err := Backup(ctx, s.lister, s.format, s.destinations)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("backup failed", "err", err)
		return
	}
	s.logger.Info("backup completed", "destinations", len(s.destinations), "bytes", n)
}
