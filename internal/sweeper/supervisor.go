// Package sweeper closes view sessions that have sat idle for too long and
// forgets closed ones once their retention has passed.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Viewer is the part of the view engine the supervisor drives.
type Viewer interface {
	OpenViews(ctx context.Context) ([]*domain.ViewSession, error)
	Close(ctx context.Context, sessionID string) error
	PurgeClosed(ctx context.Context, retention time.Duration) (int, error)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor checks for idle views.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithIdleTimeout sets how long a view may go without a mode change
// before it is closed.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		s.idleTimeout = d
	}
}

// WithRetention sets how long a closed view is kept before it is deleted.
func WithRetention(d time.Duration) Option {
	return func(s *Supervisor) {
		s.retention = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// Supervisor runs in the background and closes idle view sessions.
type Supervisor struct {
	views        Viewer
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	idleTimeout  time.Duration
	retention    time.Duration
	now          func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a supervisor. notifier may be nil.
func New(views Viewer, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		views:        views,
		notifier:     notifier,
		log:          log,
		tickInterval: time.Minute,
		idleTimeout:  2 * time.Hour,
		retention:    10 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("view sweeper already running")
		return
	}
	if s.idleTimeout <= 0 && s.retention <= 0 {
		s.log.Info("view sweeper disabled")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(childCtx, s.done)

	s.log.Info("view sweeper started (tick=%s, idle=%s, retention=%s)", s.tickInterval, s.idleTimeout, s.retention)
}

// Stop shuts down the loop and waits for it to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info("view sweeper stopped")
}

func (s *Supervisor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one cycle: it closes idle views, then deletes closed views
// past their retention. It returns how many views it closed.
func (s *Supervisor) Sweep(ctx context.Context) int {
	closed := s.closeIdle(ctx)

	if s.retention > 0 {
		if n, err := s.views.PurgeClosed(ctx, s.retention); err != nil {
			s.log.Error("sweeper: purging closed views: %v", err)
		} else if n > 0 {
			s.log.Debug("forgot %d closed views", n)
		}
	}
	return closed
}

func (s *Supervisor) closeIdle(ctx context.Context) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	views, err := s.views.OpenViews(ctx)
	if err != nil {
		s.log.Error("sweeper: listing open views: %v", err)
		return 0
	}

	now := s.now()
	closed := 0
	for _, v := range views {
		idle := now.Sub(v.UpdatedAt)
		if idle < s.idleTimeout {
			continue
		}
		if err := s.views.Close(ctx, v.ID); err != nil {
			s.log.Error("sweeper: closing view %s: %v", v.ID, err)
			continue
		}
		closed++
		s.log.Debug("closed idle view %s (%s idle)", v.ID, idle.Round(time.Second))

		if s.notifier != nil {
			msg := fmt.Sprintf("Closed %s after %s without changes.", v.RecipeName, formatIdle(idle))
			if err := s.notifier.Notify(ctx, msg); err != nil {
				s.log.Error("sweeper: notifying: %v", err)
			}
		}
	}
	return closed
}

// formatIdle rounds to whole minutes once past a minute.
func formatIdle(d time.Duration) string {
	d = d.Round(time.Second)
	totalSec := int(d.Seconds())
	if totalSec < 60 {
		if totalSec == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", totalSec)
	}
	m := (totalSec + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
