// Package historian drains game action records from the Redis queue and
// persists them to PostgreSQL in batches. It also marks games abandoned once
// their action stream goes quiet.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Source yields queued action records. ok is false when nothing arrived
// within timeout.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (rec cache.GameActionRecord, ok bool, err error)
}

// Store persists action batches.
type Store interface {
	InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error
	MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Config tunes batching and abandonment.
type Config struct {
	BatchSize       int
	FlushDelay      time.Duration
	PopTimeout      time.Duration
	Inactivity      time.Duration // quiet period until a game is marked abandoned
	InactivityCheck time.Duration
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		BatchSize:       100,
		FlushDelay:      2 * time.Second,
		PopTimeout:      3 * time.Second,
		Inactivity:      10 * time.Minute,
		InactivityCheck: time.Minute,
	}
}

// Service encapsulates the queue + DB logic for capturing game actions.
type Service struct {
	source Source
	store  Store
	cfg    Config
	logger logrus.FieldLogger
	now    func() time.Time

	batchMu sync.Mutex
	batch   []cache.GameActionRecord

	activityMu   sync.Mutex
	lastActivity map[uuid.UUID]time.Time
}

// New constructs a Service. Zero fields in cfg fall back to DefaultConfig.
func New(source Source, store Store, cfg Config, logger logrus.FieldLogger) *Service {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = def.FlushDelay
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = def.PopTimeout
	}
	if cfg.Inactivity <= 0 {
		cfg.Inactivity = def.Inactivity
	}
	if cfg.InactivityCheck <= 0 {
		cfg.InactivityCheck = def.InactivityCheck
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		source:       source,
		store:        store,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		batch:        make([]cache.GameActionRecord, 0, cfg.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run reads, flushes and checks for inactivity until ctx is cancelled, then
// flushes whatever is still buffered.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("historian service started")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop(gctx) })
	g.Go(func() error { return s.flushLoop(gctx) })
	g.Go(func() error { return s.inactivityLoop(gctx) })
	err := g.Wait()

	// the run context is gone; give the final flush its own deadline
	finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.flush(finalCtx)
	s.logger.Info("historian shutting down")
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Service) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rec, ok, err := s.source.Pop(ctx, s.cfg.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Errorf("pop action: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if !ok {
			continue
		}
		s.track(rec)
		if s.append(rec) {
			s.flush(ctx)
		}
	}
}

func (s *Service) flushLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *Service) inactivityLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.InactivityCheck)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.checkInactivity(ctx, s.now())
		}
	}
}

// append buffers rec and reports whether the batch is full.
func (s *Service) append(rec cache.GameActionRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	return len(s.batch) >= s.cfg.BatchSize
}

// flush writes the buffered batch in one call. A failed batch is put back in
// front of anything buffered since, to be retried on the next flush.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := make([]cache.GameActionRecord, len(s.batch))
	copy(pending, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.store.InsertGameActions(ctx, pending); err != nil {
		s.logger.Errorf("flush %d actions: %v", len(pending), err)
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		s.batchMu.Unlock()
		return
	}
	s.logger.Debugf("flushed %d actions", len(pending))
}

// track records the latest activity for rec's game. A finished game is no
// longer watched.
func (s *Service) track(rec cache.GameActionRecord) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	if rec.ActionType == cache.ActionGameOver {
		delete(s.lastActivity, rec.GameID)
		return
	}
	s.lastActivity[rec.GameID] = s.now()
}

// checkInactivity marks every game quiet for longer than cfg.Inactivity as abandoned.
func (s *Service) checkInactivity(ctx context.Context, now time.Time) {
	var stale []uuid.UUID
	s.activityMu.Lock()
	for id, last := range s.lastActivity {
		if now.Sub(last) > s.cfg.Inactivity {
			stale = append(stale, id)
			delete(s.lastActivity, id)
		}
	}
	s.activityMu.Unlock()

	for _, id := range stale {
		if err := s.store.MarkGameAbandoned(ctx, id); err != nil {
			s.logger.WithField("game", id).Errorf("failed to mark game abandoned: %v", err)
			continue
		}
		s.logger.WithField("game", id).Info("marked game abandoned due to inactivity")
	}
}
