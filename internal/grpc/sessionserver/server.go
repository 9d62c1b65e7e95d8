// Package sessionserver serves Number Munchers sessions over gRPC.
package sessionserver

import (
	"context"
	"errors"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements SessionServiceServer
type Server struct {
	sessions      *SessionManager
	leaderboard   *leaderboard.Board
	revealTargets bool
	logger        zerolog.Logger
}

var _ SessionServiceServer = (*Server)(nil)

// Options configure a Server
type Options struct {
	Manager ManagerConfig
	// Template is the engine configuration every session starts from
	Template game.GameConfig
	// Leaderboard may be nil; GetLeaderboard then fails with FailedPrecondition
	Leaderboard *leaderboard.Board
	// RevealTargets lets clients ask for target flags in snapshots
	RevealTargets bool
	Logger        zerolog.Logger
}

// NewServer creates a session server. Finished games are recorded on the
// leaderboard unless the template already names a recorder.
func NewServer(opts Options) *Server {
	logger := opts.Logger.With().Str("component", "SessionServer").Logger()
	template := opts.Template
	if template.Recorder == nil && opts.Leaderboard != nil {
		template.Recorder = opts.Leaderboard
	}
	return &Server{
		sessions:      NewSessionManager(opts.Manager, template, opts.Logger),
		leaderboard:   opts.Leaderboard,
		revealTargets: opts.RevealTargets,
		logger:        logger,
	}
}

// Sessions exposes the session manager for lifecycle wiring
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// GetActiveSessions returns the number of live sessions
func (s *Server) GetActiveSessions() int {
	return s.sessions.Count()
}

func (s *Server) session(req *structpb.Struct) (*session, error) {
	id, err := requireSessionID(req)
	if err != nil {
		return nil, err
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "session %s not found", id)
	}
	return sess, nil
}

func (s *Server) reveal(req *structpb.Struct) bool {
	return s.revealTargets && boolField(req, fieldRevealTargets)
}

// CreateSession creates an engine in the Idle phase
func (s *Server) CreateSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var opts SessionOptions
	var err error

	ints := []struct {
		key string
		dst *int
	}{
		{"rows", &opts.Rows},
		{"cols", &opts.Cols},
		{"lives", &opts.Lives},
		{fieldMaxAdversaries, &opts.MaxAdversaries},
	}
	for _, f := range ints {
		n, ok, ferr := intField(req, f.key)
		if ferr != nil {
			return nil, status.Error(codes.InvalidArgument, ferr.Error())
		}
		if ok && n < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "%s must not be negative", f.key)
		}
		*f.dst = n
	}

	seed, hasSeed, err := intField(req, "seed")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	opts.Seed, opts.HasSeed = int64(seed), hasSeed
	opts.PlayerName = stringField(req, "player_name")
	if v, ok := req.GetFields()["auto_tick"]; ok {
		autoTick := v.GetBoolValue()
		opts.AutoTick = &autoTick
	}

	sess, err := s.sessions.Create(ctx, opts)
	if err != nil {
		if errors.Is(err, ErrAtCapacity) {
			return nil, status.Errorf(codes.ResourceExhausted, "failed to create session: %v", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, status.FromContextError(ctxErr).Err()
		}
		return nil, status.Errorf(codes.InvalidArgument, "failed to create session: %v", err)
	}

	s.logger.Info().Str("session_id", sess.id).Msg("Session created")
	return stateResponse(sess.snapshot(), s.reveal(req), map[string]interface{}{
		fieldSessionID: sess.id,
	})
}

// StartGame starts or restarts a game. An optional categories list narrows
// the pool for this game.
func (s *Server) StartGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	specs, err := stringListField(req, fieldCategories)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var pool []rules.Category
	if len(specs) > 0 {
		if pool, err = rules.ParsePool(specs); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid categories: %v", err)
		}
	}

	var started bool
	snap := sess.do(func(e *game.Engine) { started = e.StartGame(pool...) })
	return stateResponse(snap, s.reveal(req), map[string]interface{}{"started": started})
}

// Move moves the player by a direction name or by d_row/d_col
func (s *Server) Move(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}

	var dRow, dCol int
	if name := stringField(req, fieldDirection); name != "" {
		dir, err := core.ParseDirection(name)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		dRow, dCol = dir.Delta()
	} else {
		var hasRow, hasCol bool
		if dRow, hasRow, err = intField(req, "d_row"); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		if dCol, hasCol, err = intField(req, "d_col"); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		if !hasRow && !hasCol {
			return nil, status.Error(codes.InvalidArgument, "direction or d_row/d_col is required")
		}
	}

	var moved bool
	snap := sess.do(func(e *game.Engine) { moved = e.MovePlayer(dRow, dCol) })
	return stateResponse(snap, s.reveal(req), map[string]interface{}{"moved": moved})
}

// Munch munches the cell under the player
func (s *Server) Munch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	var outcome core.MunchOutcome
	snap := sess.do(func(e *game.Engine) { outcome = e.Munch() })
	return stateResponse(snap, s.reveal(req), map[string]interface{}{"outcome": outcome.String()})
}

// Tick advances the adversaries once
func (s *Server) Tick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	var ticked bool
	snap := sess.do(func(e *game.Engine) { ticked = e.Tick() })
	return stateResponse(snap, s.reveal(req), map[string]interface{}{"ticked": ticked})
}

// Quit abandons the current game without recording it
func (s *Server) Quit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	var quit bool
	snap := sess.do(func(e *game.Engine) { quit = e.Quit() })
	return stateResponse(snap, s.reveal(req), map[string]interface{}{"quit": quit})
}

// GetState returns the current snapshot
func (s *Server) GetState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.session(req)
	if err != nil {
		return nil, err
	}
	return stateResponse(sess.snapshot(), s.reveal(req), nil)
}

// CloseSession ends a session and its watchers
func (s *Server) CloseSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireSessionID(req)
	if err != nil {
		return nil, err
	}
	if !s.sessions.Close(id) {
		return nil, status.Errorf(codes.NotFound, "session %s not found", id)
	}
	s.logger.Info().Str("session_id", id).Msg("Session closed")
	return structpb.NewStruct(map[string]interface{}{"closed": true, fieldSessionID: id})
}

// GetLeaderboard returns the ranked leaderboard entries
func (s *Server) GetLeaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.leaderboard == nil {
		return nil, status.Error(codes.FailedPrecondition, "leaderboard is not configured")
	}
	entries, err := s.leaderboard.Top(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, status.FromContextError(err).Err()
		}
		return nil, status.Errorf(codes.Internal, "failed to load leaderboard: %v", err)
	}
	return entriesToStruct(entries)
}

// WatchSession streams a snapshot after every state change
func (s *Server) WatchSession(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	reveal := s.reveal(req)

	id, updates := sess.streams.Register()
	defer sess.streams.Unregister(id)

	sess.logger.Info().Uint64("watcher_id", id).Msg("Client watching session")

	initial, err := stateResponse(sess.snapshot(), reveal, nil)
	if err != nil {
		return err
	}
	if err := stream.Send(initial); err != nil {
		sess.logger.Error().Err(err).Msg("Failed to send initial session state")
		return err
	}

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				// Session closed
				return nil
			}
			msg, err := stateResponse(snap, reveal, nil)
			if err != nil {
				return err
			}
			if err := stream.Send(msg); err != nil {
				sess.logger.Error().Err(err).Msg("Stream error")
				return err
			}
		case <-stream.Context().Done():
			sess.logger.Info().Uint64("watcher_id", id).Msg("Stream closed by client")
			return nil
		}
	}
}
