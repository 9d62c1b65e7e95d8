package sessionserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client wraps SessionServiceClient with typed requests and snapshots
type Client struct {
	rpc  SessionServiceClient
	conn *grpc.ClientConn

	// RevealTargets asks for target flags in snapshots. The server only
	// honours it when started with target reveal enabled.
	RevealTargets bool
}

// CreateRequest mirrors the CreateSession request fields. Zero values use
// the server defaults.
type CreateRequest struct {
	Rows           int
	Cols           int
	Lives          int
	MaxAdversaries int
	PlayerName     string
	Seed           *int64
	AutoTick       *bool
}

// Dial connects to a session server without transport security
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &Client{rpc: NewSessionServiceClient(conn), conn: conn}, nil
}

// NewClient wraps an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{rpc: NewSessionServiceClient(cc)}
}

// Close closes the connection opened by Dial
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func request(fields map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return req, nil
}

func (c *Client) sessionRequest(id string, extra map[string]interface{}) (*structpb.Struct, error) {
	fields := map[string]interface{}{fieldSessionID: id}
	if c.RevealTargets {
		fields[fieldRevealTargets] = true
	}
	for k, v := range extra {
		fields[k] = v
	}
	return request(fields)
}

// CreateSession creates a session and returns its id and initial snapshot
func (c *Client) CreateSession(ctx context.Context, r CreateRequest) (string, game.Snapshot, error) {
	fields := map[string]interface{}{}
	setInt := func(key string, v int) {
		if v != 0 {
			fields[key] = v
		}
	}
	setInt("rows", r.Rows)
	setInt("cols", r.Cols)
	setInt("lives", r.Lives)
	setInt(fieldMaxAdversaries, r.MaxAdversaries)
	if r.PlayerName != "" {
		fields["player_name"] = r.PlayerName
	}
	if r.Seed != nil {
		fields["seed"] = *r.Seed
	}
	if r.AutoTick != nil {
		fields["auto_tick"] = *r.AutoTick
	}
	if c.RevealTargets {
		fields[fieldRevealTargets] = true
	}

	req, err := request(fields)
	if err != nil {
		return "", game.Snapshot{}, err
	}
	resp, err := c.rpc.CreateSession(ctx, req)
	if err != nil {
		return "", game.Snapshot{}, err
	}
	snap, err := SnapshotFromStruct(resp)
	return stringField(resp, fieldSessionID), snap, err
}

func (c *Client) call(ctx context.Context, method func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error), id string, extra map[string]interface{}) (*structpb.Struct, game.Snapshot, error) {
	req, err := c.sessionRequest(id, extra)
	if err != nil {
		return nil, game.Snapshot{}, err
	}
	resp, err := method(ctx, req)
	if err != nil {
		return nil, game.Snapshot{}, err
	}
	snap, err := SnapshotFromStruct(resp)
	return resp, snap, err
}

// StartGame starts a game, optionally restricted to the given category specs
func (c *Client) StartGame(ctx context.Context, id string, categories ...string) (bool, game.Snapshot, error) {
	var extra map[string]interface{}
	if len(categories) > 0 {
		list := make([]interface{}, len(categories))
		for i, name := range categories {
			list[i] = name
		}
		extra = map[string]interface{}{fieldCategories: list}
	}
	resp, snap, err := c.call(ctx, c.rpc.StartGame, id, extra)
	return boolField(resp, "started"), snap, err
}

// Move moves the player one cell
func (c *Client) Move(ctx context.Context, id string, dir core.Direction) (bool, game.Snapshot, error) {
	resp, snap, err := c.call(ctx, c.rpc.Move, id, map[string]interface{}{fieldDirection: dir.String()})
	return boolField(resp, "moved"), snap, err
}

// Munch munches the cell under the player
func (c *Client) Munch(ctx context.Context, id string) (core.MunchOutcome, game.Snapshot, error) {
	resp, snap, err := c.call(ctx, c.rpc.Munch, id, nil)
	if err != nil {
		return core.MunchIgnored, snap, err
	}
	return parseOutcome(stringField(resp, "outcome")), snap, nil
}

// Tick advances the adversaries once
func (c *Client) Tick(ctx context.Context, id string) (bool, game.Snapshot, error) {
	resp, snap, err := c.call(ctx, c.rpc.Tick, id, nil)
	return boolField(resp, "ticked"), snap, err
}

// Quit abandons the current game
func (c *Client) Quit(ctx context.Context, id string) (bool, game.Snapshot, error) {
	resp, snap, err := c.call(ctx, c.rpc.Quit, id, nil)
	return boolField(resp, "quit"), snap, err
}

// State fetches the current snapshot
func (c *Client) State(ctx context.Context, id string) (game.Snapshot, error) {
	_, snap, err := c.call(ctx, c.rpc.GetState, id, nil)
	return snap, err
}

// CloseSession ends a session
func (c *Client) CloseSession(ctx context.Context, id string) error {
	req, err := c.sessionRequest(id, nil)
	if err != nil {
		return err
	}
	_, err = c.rpc.CloseSession(ctx, req)
	return err
}

// Leaderboard fetches the ranked entries
func (c *Client) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	resp, err := c.rpc.GetLeaderboard(ctx, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	values := resp.GetFields()[fieldEntries].GetListValue().GetValues()
	entries := make([]leaderboard.Entry, 0, len(values))
	for _, v := range values {
		e := v.GetStructValue()
		date, err := time.Parse(time.RFC3339, stringField(e, "date"))
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard date: %w", err)
		}
		entries = append(entries, leaderboard.Entry{
			Name:  stringField(e, "name"),
			Score: int(e.GetFields()["score"].GetNumberValue()),
			Level: int(e.GetFields()["level"].GetNumberValue()),
			Date:  date,
		})
	}
	return entries, nil
}

// Watch calls fn for every snapshot the server streams until ctx ends, the
// session closes, or fn returns an error.
func (c *Client) Watch(ctx context.Context, id string, fn func(game.Snapshot) error) error {
	req, err := c.sessionRequest(id, nil)
	if err != nil {
		return err
	}
	stream, err := c.rpc.WatchSession(ctx, req)
	if err != nil {
		return err
	}
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		snap, err := SnapshotFromStruct(msg)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

func parseOutcome(s string) core.MunchOutcome {
	for _, o := range []core.MunchOutcome{core.MunchCorrect, core.MunchIncorrect, core.MunchAlreadyMunched} {
		if o.String() == s {
			return o
		}
	}
	return core.MunchIgnored
}
