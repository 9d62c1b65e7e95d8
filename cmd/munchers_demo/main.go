package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/mitchelldurbincs/NumberMunchers/internal/bootstrap"
	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/mitchelldurbincs/NumberMunchers/internal/grpc/sessionserver"
)

// session is what the demo bot drives, either a local engine or a remote one
type session interface {
	Start(ctx context.Context) (game.Snapshot, error)
	Move(ctx context.Context, d core.Direction) (game.Snapshot, error)
	Munch(ctx context.Context) (game.Snapshot, error)
	Tick(ctx context.Context) (game.Snapshot, error)
}

func main() {
	fs := pflag.NewFlagSet("munchers_demo", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	server := fs.String("server", "", "Play against a session server at this address instead of a local engine")
	seed := fs.Int64("seed", 12345, "Random seed for the local engine and the bot")
	steps := fs.Int("steps", 60, "Number of bot actions")
	ticksEvery := fs.Int("ticks-every", 3, "Advance adversaries after this many actions")
	noColor := fs.Bool("no-color", false, "Disable ANSI colors")
	delay := fs.Duration("delay", 0, "Pause between frames")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = fs.Parse(os.Args[1:])

	bootstrap.SetupLogging(*logLevel)
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	ctx := context.Background()
	var (
		s   session
		err error
	)
	if *server != "" {
		s, err = newRemoteSession(ctx, *server)
	} else {
		s, err = newLocalSession(ctx, config.Get(), *seed, log.Logger)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}

	rng := rand.New(rand.NewSource(*seed))
	snap, err := s.Start(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start game")
	}
	fmt.Println(game.Render(snap, true, !*noColor))

	for step := 1; step <= *steps && snap.Phase == states.PhasePlaying; step++ {
		if snap.Grid != nil && nextAction(snap) == actionMunch {
			snap, err = s.Munch(ctx)
		} else {
			snap, err = s.Move(ctx, nextDirection(snap, rng))
		}
		if err == nil && *ticksEvery > 0 && step%*ticksEvery == 0 {
			snap, err = s.Tick(ctx)
		}
		if err != nil {
			log.Fatal().Err(err).Int("step", step).Msg("Demo step failed")
		}

		fmt.Printf("After step %d:\n%s\n", step, game.Render(snap, true, !*noColor))
		if *delay > 0 {
			time.Sleep(*delay)
		}
	}

	if snap.Result != nil {
		fmt.Printf("Game over: %d points on level %d\n", snap.Result.Score, snap.Result.Level)
	} else {
		fmt.Printf("Stopped with %d points on level %d\n", snap.Score, snap.Level)
	}
}

type action int

const (
	actionMove action = iota
	actionMunch
)

// nextAction munches when the player stands on an uneaten target
func nextAction(s game.Snapshot) action {
	cell := s.Grid[s.Player.Row][s.Player.Col]
	if cell.Target && !cell.Munched {
		return actionMunch
	}
	return actionMove
}

// nextDirection heads for the nearest uneaten target, or wanders when the
// snapshot does not reveal any
func nextDirection(s game.Snapshot, rng *rand.Rand) core.Direction {
	best, found := core.Position{}, false
	for row, cells := range s.Grid {
		for col, cell := range cells {
			if !cell.Target || cell.Munched {
				continue
			}
			p := core.NewPosition(row, col)
			if !found || s.Player.DistanceTo(p) < s.Player.DistanceTo(best) {
				best, found = p, true
			}
		}
	}
	if !found {
		return core.Direction(rng.Intn(4))
	}

	switch dRow := common.Sign(best.Row - s.Player.Row); {
	case dRow < 0:
		return core.Up
	case dRow > 0:
		return core.Down
	}
	if best.Col < s.Player.Col {
		return core.Left
	}
	return core.Right
}

type localSession struct {
	engine *game.Engine
}

func newLocalSession(ctx context.Context, cfg *config.Config, seed int64, logger zerolog.Logger) (*localSession, error) {
	template, err := bootstrap.GameTemplate(cfg, logger)
	if err != nil {
		return nil, err
	}
	template.Rng = rand.New(rand.NewSource(seed))
	engine, err := game.NewEngine(ctx, template)
	if err != nil {
		return nil, err
	}
	return &localSession{engine: engine}, nil
}

func (l *localSession) Start(ctx context.Context) (game.Snapshot, error) {
	l.engine.StartGame()
	return l.engine.Snapshot(), nil
}

func (l *localSession) Move(ctx context.Context, d core.Direction) (game.Snapshot, error) {
	l.engine.Move(d)
	return l.engine.Snapshot(), nil
}

func (l *localSession) Munch(ctx context.Context) (game.Snapshot, error) {
	l.engine.Munch()
	return l.engine.Snapshot(), nil
}

func (l *localSession) Tick(ctx context.Context) (game.Snapshot, error) {
	l.engine.Tick()
	return l.engine.Snapshot(), nil
}

type remoteSession struct {
	client *sessionserver.Client
	id     string
}

func newRemoteSession(ctx context.Context, target string) (*remoteSession, error) {
	client, err := sessionserver.Dial(target)
	if err != nil {
		return nil, err
	}
	client.RevealTargets = true

	autoTick := false
	id, _, err := client.CreateSession(ctx, sessionserver.CreateRequest{
		PlayerName: "demo",
		AutoTick:   &autoTick,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &remoteSession{client: client, id: id}, nil
}

func (r *remoteSession) Start(ctx context.Context) (game.Snapshot, error) {
	_, snap, err := r.client.StartGame(ctx, r.id)
	return snap, err
}

func (r *remoteSession) Move(ctx context.Context, d core.Direction) (game.Snapshot, error) {
	_, snap, err := r.client.Move(ctx, r.id, d)
	return snap, err
}

func (r *remoteSession) Munch(ctx context.Context) (game.Snapshot, error) {
	_, snap, err := r.client.Munch(ctx, r.id)
	return snap, err
}

func (r *remoteSession) Tick(ctx context.Context) (game.Snapshot, error) {
	_, snap, err := r.client.Tick(ctx, r.id)
	return snap, err
}
