package commands

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBackoff    = time.Second
	defaultMaxBackoff = 30 * time.Second
)

// Supervisor restarts an auxiliary component, such as the API server, when
// it fails or panics. The reconciliation monitor is never supervised: its
// failure ends the process.
type Supervisor struct {
	Name string
	// MaxRestarts bounds consecutive failures; 0 restarts forever.
	MaxRestarts int
	// Backoff is the first delay between restarts and doubles up to MaxBackoff.
	Backoff    time.Duration
	MaxBackoff time.Duration
	Logger     logrus.FieldLogger

	restarts atomic.Int32
}

// Run calls fn until ctx is done (nil), fn returns nil (nil) or fn has
// failed MaxRestarts times (the last error).
func (s *Supervisor) Run(ctx context.Context, fn func(context.Context) error) error {
	logger := s.Logger.WithField("component", s.Name)
	delay := s.Backoff
	if delay <= 0 {
		delay = defaultBackoff
	}
	limit := s.MaxBackoff
	if limit <= 0 {
		limit = defaultMaxBackoff
	}

	for failures := 1; ; failures++ {
		err := call(ctx, fn)
		switch {
		case ctx.Err() != nil:
			return nil
		case err == nil:
			logger.Debug("Stopped")
			return nil
		case s.MaxRestarts > 0 && failures >= s.MaxRestarts:
			logger.WithError(err).Errorf("Failed %d times, giving up", failures)
			return fmt.Errorf("%s: %w", s.Name, err)
		}

		logger.WithError(err).WithField("attempt", failures).Errorf("Failed, restarting in %v", delay)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		s.restarts.Add(1)
		if delay *= 2; delay > limit {
			delay = limit
		}
	}
}

// Restarts is the number of times fn has been restarted.
func (s *Supervisor) Restarts() int {
	return int(s.restarts.Load())
}

func call(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
