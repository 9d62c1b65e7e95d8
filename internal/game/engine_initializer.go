package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/events"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/gridgen"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/rs/zerolog"
)

// EngineInitializer handles defaulting and validation of a GameConfig
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "MunchersEngine").Logger(),
	}
}

// Initialize creates an engine in PhaseIdle
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled before it started")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	if err := ei.validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	engine := ei.createEngine()

	ei.logger.Info().
		Int("rows", ei.config.Rows).
		Int("cols", ei.config.Cols).
		Int("lives", ei.config.Lives).
		Int("categories", len(ei.config.Pool)).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	cfg := &ei.config

	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	ei.logger = ei.logger.With().Str("session_id", cfg.SessionID).Logger()

	if cfg.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Rows == 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Cols == 0 {
		cfg.Cols = DefaultCols
	}
	if cfg.Lives == 0 {
		cfg.Lives = DefaultLives
	}
	if cfg.MaxAdversaries == 0 {
		cfg.MaxAdversaries = DefaultMaxAdversaries
	}
	if len(cfg.Pool) == 0 {
		cfg.Pool = rules.DefaultPool()
	}
	if cfg.Generator == (gridgen.Config{}) {
		cfg.Generator = gridgen.DefaultConfig()
	}
	if cfg.Scorer == nil {
		cfg.Scorer = NewClassicScorer()
	}
	if cfg.Listener == nil {
		cfg.Listener = nopListener{}
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = DefaultPlayerName
	}
	if cfg.RecordTimeout == 0 {
		cfg.RecordTimeout = DefaultRecordTimeout
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus()
	}
}

func (ei *EngineInitializer) validate() error {
	cfg := ei.config

	if !common.IsValidGridSize(cfg.Rows, cfg.Cols) {
		return fmt.Errorf("%w: %dx%d", core.ErrInvalidGridSize, cfg.Rows, cfg.Cols)
	}
	if cfg.Lives < 1 {
		return fmt.Errorf("lives must be positive, got %d", cfg.Lives)
	}
	if cfg.MaxAdversaries < 0 {
		return fmt.Errorf("max adversaries must not be negative, got %d", cfg.MaxAdversaries)
	}
	for _, c := range cfg.Pool {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return cfg.Generator.Validate()
}

// createEngine wires the engine with its collaborators
func (ei *EngineInitializer) createEngine() *Engine {
	cfg := ei.config

	sessionCtx := states.NewSessionContext(cfg.SessionID, ei.logger)
	pool := make([]rules.Category, len(cfg.Pool))
	copy(pool, cfg.Pool)

	return &Engine{
		config:       cfg,
		sessionID:    cfg.SessionID,
		logger:       ei.logger,
		rng:          cfg.Rng,
		generator:    gridgen.NewGenerator(cfg.Generator, cfg.Rng),
		eventBus:     cfg.EventBus,
		stateMachine: states.NewStateMachine(sessionCtx, cfg.EventBus),
		listener:     cfg.Listener,
		scorer:       cfg.Scorer,
		recorder:     cfg.Recorder,
		pool:         pool,
	}
}
