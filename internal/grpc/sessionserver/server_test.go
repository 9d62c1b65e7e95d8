package sessionserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/rules"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

type testEnv struct {
	client *Client
	rpc    SessionServiceClient
	server *Server
	board  *leaderboard.Board
}

func testOptions() Options {
	manager := DefaultManagerConfig()
	manager.AutoTick = false
	return Options{
		Manager: manager,
		Template: game.GameConfig{
			Pool:   []rules.Category{rules.MultipleOf(3)},
			Logger: zerolog.Nop(),
		},
		Leaderboard:   leaderboard.NewBoard(leaderboard.NewMemoryStore(), 10, zerolog.Nop()),
		RevealTargets: true,
		Logger:        zerolog.Nop(),
	}
}

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T, opts Options) *testEnv {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	srv := NewServer(opts)
	RegisterSessionServiceServer(s, srv)

	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		s.Stop()
		srv.Sessions().Shutdown()
		_ = lis.Close()
	})

	return &testEnv{
		client: NewClient(conn),
		rpc:    NewSessionServiceClient(conn),
		server: srv,
		board:  opts.Leaderboard,
	}
}

func seed(n int64) *int64 { return &n }

func TestCreateSession(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	id, snap, err := env.client.CreateSession(ctx, CreateRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, snap.SessionID)
	assert.Equal(t, states.PhaseIdle, snap.Phase)
	assert.Equal(t, 5, snap.Rows)
	assert.Equal(t, 5, snap.Cols)
	assert.Nil(t, snap.Grid, "no board before the first game")

	id2, snap2, err := env.client.CreateSession(ctx, CreateRequest{Rows: 6, Cols: 7})
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
	assert.Equal(t, 6, snap2.Rows)
	assert.Equal(t, 7, snap2.Cols)
	assert.Equal(t, 2, env.server.GetActiveSessions())
}

func TestStartMoveMunch(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	env.client.RevealTargets = true
	id, _, err := env.client.CreateSession(ctx, CreateRequest{Seed: seed(12345), Lives: 3})
	require.NoError(t, err)

	started, snap, err := env.client.StartGame(ctx, id)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, states.PhasePlaying, snap.Phase)
	assert.Equal(t, "Multiples of 3", snap.Category)
	require.Len(t, snap.Grid, 5)
	assert.Equal(t, core.Position{Row: 2, Col: 2}, snap.Player)
	assert.Greater(t, snap.RemainingTargets, 0)

	// Moving up is always safe: adversaries spawn at least two cells away
	moved, snap, err := env.client.Move(ctx, id, core.Up)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, core.Position{Row: 1, Col: 2}, snap.Player)

	cell := snap.Grid[1][2]
	outcome, after, err := env.client.Munch(ctx, id)
	require.NoError(t, err)
	if cell.Target {
		assert.Equal(t, core.MunchCorrect, outcome)
		assert.Equal(t, 10, after.Score)
		assert.True(t, after.Grid[1][2].Munched)
	} else {
		assert.Equal(t, core.MunchIncorrect, outcome)
		assert.Equal(t, 2, after.Lives)
		assert.Equal(t, 0, after.Score)
	}

	ticked, _, err := env.client.Tick(ctx, id)
	require.NoError(t, err)
	assert.True(t, ticked)
}

func TestTargetsHiddenUnlessServerAllows(t *testing.T) {
	opts := testOptions()
	opts.RevealTargets = false
	env := setupTestServer(t, opts)
	env.client.RevealTargets = true
	ctx := context.Background()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{Seed: seed(12345)})
	require.NoError(t, err)
	_, snap, err := env.client.StartGame(ctx, id)
	require.NoError(t, err)

	for _, row := range snap.Grid {
		for _, c := range row {
			assert.False(t, c.Target)
		}
	}
}

func TestQuitAndRestart(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{Seed: seed(12345)})
	require.NoError(t, err)

	quit, _, err := env.client.Quit(ctx, id)
	require.NoError(t, err)
	assert.False(t, quit, "nothing to quit while idle")

	_, _, err = env.client.StartGame(ctx, id, "even")
	require.NoError(t, err)
	started, snap, err := env.client.StartGame(ctx, id, "odd")
	require.NoError(t, err)
	assert.True(t, started, "restart while playing")
	assert.Equal(t, "Odd Numbers", snap.Category)

	quit, snap, err = env.client.Quit(ctx, id)
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, states.PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Result, "quitting records nothing")
}

func TestGameOverRecordsLeaderboard(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{Seed: seed(12345), Lives: 1, PlayerName: "ada"})
	require.NoError(t, err)
	_, _, err = env.client.StartGame(ctx, id)
	require.NoError(t, err)

	// A stationary player is caught within a few ticks
	var snap game.Snapshot
	for i := 0; i < 10; i++ {
		_, snap, err = env.client.Tick(ctx, id)
		require.NoError(t, err)
		if snap.Result != nil {
			break
		}
	}
	require.NotNil(t, snap.Result)
	assert.Equal(t, states.PhaseIdle, snap.Phase)
	assert.Equal(t, 1, snap.Result.Level)
	assert.Equal(t, 1, snap.Result.Stats.TimesCaught)

	entries, err := env.client.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ada", entries[0].Name)
	assert.Equal(t, snap.Result.Score, entries[0].Score)
	assert.Equal(t, 1, entries[0].Level)
}

func TestGetLeaderboardWithoutBoard(t *testing.T) {
	opts := testOptions()
	opts.Leaderboard = nil
	env := setupTestServer(t, opts)

	_, err := env.client.Leaderboard(context.Background())
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestErrorCodes(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{})
	require.NoError(t, err)

	mustStruct := func(m map[string]interface{}) *structpb.Struct {
		s, err := structpb.NewStruct(m)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"unknown session", func() error {
			_, err := env.client.State(ctx, "nope")
			return err
		}, codes.NotFound},
		{"missing session id", func() error {
			_, err := env.rpc.GetState(ctx, mustStruct(map[string]interface{}{}))
			return err
		}, codes.InvalidArgument},
		{"bad category", func() error {
			_, _, err := env.client.StartGame(ctx, id, "fibonacci")
			return err
		}, codes.InvalidArgument},
		{"bad direction", func() error {
			_, err := env.rpc.Move(ctx, mustStruct(map[string]interface{}{fieldSessionID: id, fieldDirection: "sideways"}))
			return err
		}, codes.InvalidArgument},
		{"move without delta", func() error {
			_, err := env.rpc.Move(ctx, mustStruct(map[string]interface{}{fieldSessionID: id}))
			return err
		}, codes.InvalidArgument},
		{"fractional delta", func() error {
			_, err := env.rpc.Move(ctx, mustStruct(map[string]interface{}{fieldSessionID: id, "d_row": 0.5}))
			return err
		}, codes.InvalidArgument},
		{"negative rows", func() error {
			_, err := env.rpc.CreateSession(ctx, mustStruct(map[string]interface{}{"rows": -1}))
			return err
		}, codes.InvalidArgument},
		{"oversized grid", func() error {
			_, err := env.rpc.CreateSession(ctx, mustStruct(map[string]interface{}{"rows": 2147483647, "cols": 2147483647}))
			return err
		}, codes.InvalidArgument},
		{"close unknown", func() error {
			return env.client.CloseSession(ctx, "nope")
		}, codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(tt.call()))
		})
	}
}

func TestMaxSessions(t *testing.T) {
	opts := testOptions()
	opts.Manager.MaxSessions = 2
	env := setupTestServer(t, opts)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := env.client.CreateSession(ctx, CreateRequest{})
		require.NoError(t, err)
	}
	_, _, err := env.client.CreateSession(ctx, CreateRequest{})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, 2, env.server.GetActiveSessions())
}

func TestCloseSession(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx := context.Background()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{})
	require.NoError(t, err)

	require.NoError(t, env.client.CloseSession(ctx, id))
	_, err = env.client.State(ctx, id)
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, 0, env.server.GetActiveSessions())
}

func TestWatchSession(t *testing.T) {
	env := setupTestServer(t, testOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, _, err := env.client.CreateSession(ctx, CreateRequest{Seed: seed(12345)})
	require.NoError(t, err)

	snaps := make(chan game.Snapshot, 16)
	done := make(chan error, 1)
	go func() {
		done <- env.client.Watch(ctx, id, func(s game.Snapshot) error {
			snaps <- s
			return nil
		})
	}()

	select {
	case initial := <-snaps:
		assert.Equal(t, states.PhaseIdle, initial.Phase)
	case <-ctx.Done():
		t.Fatal("no initial snapshot")
	}

	// The watcher is registered before the initial snapshot is sent
	_, _, err = env.client.StartGame(ctx, id)
	require.NoError(t, err)

	select {
	case s := <-snaps:
		assert.Equal(t, states.PhasePlaying, s.Phase)
		assert.NotNil(t, s.Grid)
	case <-ctx.Done():
		t.Fatal("no update after StartGame")
	}

	require.NoError(t, env.client.CloseSession(ctx, id))
	select {
	case err := <-done:
		assert.NoError(t, err, "closing the session ends the stream cleanly")
	case <-ctx.Done():
		t.Fatal("stream did not end after close")
	}
}
