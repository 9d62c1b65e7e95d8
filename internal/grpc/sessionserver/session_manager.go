package sessionserver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events/subscribers"
	"github.com/rs/zerolog"
)

// ErrAtCapacity is returned when the session limit is reached
var ErrAtCapacity = errors.New("server at capacity")

// ManagerConfig controls session lifetime and ticking
type ManagerConfig struct {
	// MaxSessions caps concurrent sessions; 0 means unlimited
	MaxSessions     int
	TickInterval    time.Duration
	AutoTick        bool
	IdleTimeout     time.Duration // 0 disables the idle sweep
	CleanupInterval time.Duration
	// LogEvents attaches a logger subscriber to every session's event bus
	LogEvents bool
}

// DefaultManagerConfig mirrors the server config defaults
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxSessions:     100,
		TickInterval:    2 * time.Second,
		AutoTick:        true,
		IdleTimeout:     30 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// SessionOptions are per-session overrides of the engine template
type SessionOptions struct {
	Rows           int
	Cols           int
	Lives          int
	MaxAdversaries int
	PlayerName     string
	Seed           int64
	HasSeed        bool
	// AutoTick overrides the manager default when set
	AutoTick *bool
}

type session struct {
	id     string
	engine *game.Engine
	mu     sync.Mutex

	createdAt    time.Time
	lastActivity time.Time

	streams *StreamManager
	cancel  context.CancelFunc
	logger  zerolog.Logger
}

// SessionManager owns every live session
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	config   ManagerConfig
	template game.GameConfig
	logger   zerolog.Logger

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	tickers atomic.Int32
}

// NewSessionManager creates a manager. template supplies the engine
// settings every session starts from; its Rng and EventBus are ignored.
func NewSessionManager(cfg ManagerConfig, template game.GameConfig, logger zerolog.Logger) *SessionManager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultManagerConfig().TickInterval
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultManagerConfig().CleanupInterval
	}
	template.Rng = nil
	template.EventBus = nil

	ctx, stop := context.WithCancel(context.Background())
	return &SessionManager{
		sessions: make(map[string]*session),
		config:   cfg,
		template: template,
		logger:   logger.With().Str("component", "SessionManager").Logger(),
		baseCtx:  ctx,
		stop:     stop,
	}
}

// Create builds an engine for a new session and starts its ticker
func (sm *SessionManager) Create(ctx context.Context, opts SessionOptions) (*session, error) {
	sm.mu.RLock()
	current := len(sm.sessions)
	sm.mu.RUnlock()

	if sm.config.MaxSessions > 0 && current >= sm.config.MaxSessions {
		sm.logger.Warn().
			Int("current_sessions", current).
			Int("max_sessions", sm.config.MaxSessions).
			Msg("Rejecting session creation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d sessions active", ErrAtCapacity, current, sm.config.MaxSessions)
	}

	cfg := sm.template
	if opts.Rows > 0 {
		cfg.Rows = opts.Rows
	}
	if opts.Cols > 0 {
		cfg.Cols = opts.Cols
	}
	if opts.Lives > 0 {
		cfg.Lives = opts.Lives
	}
	if opts.MaxAdversaries > 0 {
		cfg.MaxAdversaries = opts.MaxAdversaries
	}
	if opts.PlayerName != "" {
		cfg.PlayerName = opts.PlayerName
	}
	if opts.HasSeed {
		cfg.Rng = rand.New(rand.NewSource(opts.Seed))
	}
	cfg.Logger = sm.logger

	engine, err := game.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &session{
		id:           engine.SessionID(),
		engine:       engine,
		createdAt:    now,
		lastActivity: now,
		logger:       sm.logger.With().Str("session_id", engine.SessionID()).Logger(),
	}
	s.streams = NewStreamManager(s.logger)

	if sm.config.LogEvents {
		sub := subscribers.NewLoggerSubscriber("session-logger", s.logger, zerolog.DebugLevel)
		engine.EventBus().Subscribe(sub)
	}
	engine.EventBus().SubscribeFunc(events.TypeSessionEnded, func(e events.Event) {
		if ended, ok := e.(*events.SessionEndedEvent); ok {
			s.logger.Info().
				Int("final_score", ended.FinalScore).
				Int("final_level", ended.FinalLevel).
				Str("reason", ended.Reason).
				Msg("Game ended")
		}
	})

	tickerCtx, cancel := context.WithCancel(sm.baseCtx)
	s.cancel = cancel

	sm.mu.Lock()
	if sm.config.MaxSessions > 0 && len(sm.sessions) >= sm.config.MaxSessions {
		n := len(sm.sessions)
		sm.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("%w: %d/%d sessions active", ErrAtCapacity, n, sm.config.MaxSessions)
	}
	sm.sessions[s.id] = s
	count := len(sm.sessions)
	sm.mu.Unlock()

	autoTick := sm.config.AutoTick
	if opts.AutoTick != nil {
		autoTick = *opts.AutoTick
	}
	if autoTick {
		sm.wg.Add(1)
		sm.tickers.Add(1)
		go func() {
			defer sm.wg.Done()
			defer sm.tickers.Add(-1)
			s.runTicker(tickerCtx, sm.config.TickInterval)
		}()
	}

	sm.logger.Info().
		Str("session_id", s.id).
		Int("current_sessions", count).
		Int("max_sessions", sm.config.MaxSessions).
		Bool("auto_tick", autoTick).
		Msg("Created session")

	return s, nil
}

// Get retrieves a session by ID
func (sm *SessionManager) Get(id string) (*session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, exists := sm.sessions[id]
	return s, exists
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Close stops a session's ticker, ends its watchers and forgets it
func (sm *SessionManager) Close(id string) bool {
	sm.mu.Lock()
	s, exists := sm.sessions[id]
	if exists {
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	if !exists {
		return false
	}
	s.shutdown()
	return true
}

// Run sweeps idle sessions until ctx is cancelled, then closes everything
func (sm *SessionManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(sm.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sm.Shutdown()
			return nil
		case <-ticker.C:
			sm.cleanupSessions(time.Now())
		}
	}
}

// Shutdown closes every session and waits for their tickers to exit
func (sm *SessionManager) Shutdown() {
	sm.stop()

	sm.mu.Lock()
	all := make([]*session, 0, len(sm.sessions))
	for id, s := range sm.sessions {
		all = append(all, s)
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()

	for _, s := range all {
		s.shutdown()
	}
	sm.wg.Wait()

	if len(all) > 0 {
		sm.logger.Info().Int("closed", len(all)).Msg("Closed all sessions")
	}
}

// ActiveGoroutines returns the number of running session tickers
func (sm *SessionManager) ActiveGoroutines() int {
	return int(sm.tickers.Load())
}

// cleanupSessions removes sessions idle for longer than the idle timeout
func (sm *SessionManager) cleanupSessions(now time.Time) {
	if sm.config.IdleTimeout <= 0 {
		return
	}

	// Collect references first so no session lock is taken under the manager lock
	sm.mu.RLock()
	refs := make([]*session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		refs = append(refs, s)
	}
	sm.mu.RUnlock()

	var toDelete []string
	for _, s := range refs {
		s.mu.Lock()
		inactive := now.Sub(s.lastActivity)
		s.mu.Unlock()

		if inactive > sm.config.IdleTimeout {
			toDelete = append(toDelete, s.id)
			sm.logger.Info().
				Str("session_id", s.id).
				Dur("age", now.Sub(s.createdAt)).
				Dur("inactive", inactive).
				Msg("Cleaning up idle session")
		}
	}

	for _, id := range toDelete {
		sm.Close(id)
	}
	if len(toDelete) > 0 {
		sm.logger.Info().
			Int("cleaned", len(toDelete)).
			Int("remaining", sm.Count()).
			Msg("Session cleanup completed")
	}
}

// do runs fn under the session lock and broadcasts the resulting snapshot
// before releasing it, so watchers see snapshots in command order.
// Broadcast never blocks.
func (s *session) do(fn func(e *game.Engine)) game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.engine)
	s.lastActivity = time.Now()
	snap := s.engine.Snapshot()
	s.streams.Broadcast(snap)
	return snap
}

func (s *session) snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
	return s.engine.Snapshot()
}

// tick advances adversaries without counting as client activity
func (s *session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Tick() {
		s.streams.Broadcast(s.engine.Snapshot())
	}
}

func (s *session) runTicker(ctx context.Context, interval time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Interface("panic", r).
				Msg("Session ticker panicked")
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *session) shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
	s.streams.CloseAll()
}
