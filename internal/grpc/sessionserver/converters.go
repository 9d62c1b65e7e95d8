package sessionserver

import (
	"fmt"
	"math"
	"time"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/mitchelldurbincs/NumberMunchers/internal/leaderboard"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by requests and responses
const (
	fieldSessionID      = "session_id"
	fieldState          = "state"
	fieldCategories     = "categories"
	fieldDirection      = "direction"
	fieldRevealTargets  = "reveal_targets"
	fieldEntries        = "entries"
	fieldUpdatedAt      = "updated_at"
	fieldMaxAdversaries = "max_adversaries"
)

func positionValue(p core.Position) map[string]interface{} {
	return map[string]interface{}{"row": p.Row, "col": p.Col}
}

// snapshotToMap converts a snapshot to structpb-compatible values. Target
// flags are only included when reveal is set.
func snapshotToMap(s game.Snapshot, reveal bool) map[string]interface{} {
	adversaries := make([]interface{}, 0, len(s.Adversaries))
	for _, a := range s.Adversaries {
		adversaries = append(adversaries, positionValue(a))
	}

	m := map[string]interface{}{
		fieldSessionID:      s.SessionID,
		"phase":             s.Phase.String(),
		"score":             s.Score,
		"lives":             s.Lives,
		"level":             s.Level,
		"category":          s.Category,
		"rows":              s.Rows,
		"cols":              s.Cols,
		"player":            positionValue(s.Player),
		"adversaries":       adversaries,
		"remaining_targets": s.RemainingTargets,
	}

	if s.Grid != nil {
		grid := make([]interface{}, 0, len(s.Grid))
		for _, row := range s.Grid {
			cells := make([]interface{}, 0, len(row))
			for _, c := range row {
				cell := map[string]interface{}{"value": c.Value, "munched": c.Munched}
				if reveal {
					cell["target"] = c.Target
				}
				cells = append(cells, cell)
			}
			grid = append(grid, cells)
		}
		m["grid"] = grid
	}

	if s.Result != nil {
		m["result"] = map[string]interface{}{
			fieldSessionID:      s.Result.SessionID,
			"score":             s.Result.Score,
			"level":             s.Result.Level,
			"category":          s.Result.Category,
			"correct_munches":   s.Result.Stats.CorrectMunches,
			"incorrect_munches": s.Result.Stats.IncorrectMunches,
			"times_caught":      s.Result.Stats.TimesCaught,
			"levels_completed":  s.Result.Stats.LevelsCompleted,
		}
	}
	return m
}

// stateResponse builds a response carrying the snapshot plus extra fields
func stateResponse(s game.Snapshot, reveal bool, extra map[string]interface{}) (*structpb.Struct, error) {
	m := map[string]interface{}{
		fieldState:     snapshotToMap(s, reveal),
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range extra {
		m[k] = v
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode state for session %s: %v", s.SessionID, err)
	}
	return out, nil
}

func entriesToStruct(entries []leaderboard.Entry) (*structpb.Struct, error) {
	list := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]interface{}{
			"name":  e.Name,
			"score": e.Score,
			"level": e.Level,
			"date":  e.Date.UTC().Format(time.RFC3339),
		})
	}
	out, err := structpb.NewStruct(map[string]interface{}{fieldEntries: list})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode leaderboard: %v", err)
	}
	return out, nil
}

// stringField returns the string at key, or "" when absent
func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func boolField(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	return s.GetFields()[key].GetBoolValue()
}

// intField returns the integer at key. ok is false when the key is absent.
func intField(s *structpb.Struct, key string) (n int, ok bool, err error) {
	if s == nil {
		return 0, false, nil
	}
	v, present := s.GetFields()[key]
	if !present {
		return 0, false, nil
	}
	num, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum {
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
	f := num.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, true, fmt.Errorf("%s must be an integer, got %v", key, f)
	}
	return int(f), true, nil
}

func stringListField(s *structpb.Struct, key string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	v, present := s.GetFields()[key]
	if !present {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%s must be a list of strings", key)
	}
	out := make([]string, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		str, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		out = append(out, str.StringValue)
	}
	return out, nil
}

func requireSessionID(req *structpb.Struct) (string, error) {
	id := stringField(req, fieldSessionID)
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "session_id is required")
	}
	return id, nil
}

// SnapshotFromStruct decodes the state field of a response back into a
// snapshot. Target flags are only set when the server revealed them.
func SnapshotFromStruct(resp *structpb.Struct) (game.Snapshot, error) {
	stateValue, ok := resp.GetFields()[fieldState]
	if !ok {
		return game.Snapshot{}, fmt.Errorf("response has no %s field", fieldState)
	}
	st := stateValue.GetStructValue()
	if st == nil {
		return game.Snapshot{}, fmt.Errorf("%s must be an object", fieldState)
	}

	phase, err := states.ParsePhase(stringField(st, "phase"))
	if err != nil {
		return game.Snapshot{}, err
	}

	num := func(s *structpb.Struct, key string) int {
		return int(s.GetFields()[key].GetNumberValue())
	}
	pos := func(v *structpb.Value) core.Position {
		p := v.GetStructValue()
		return core.Position{Row: num(p, "row"), Col: num(p, "col")}
	}

	snap := game.Snapshot{
		SessionID:        stringField(st, fieldSessionID),
		Phase:            phase,
		Score:            num(st, "score"),
		Lives:            num(st, "lives"),
		Level:            num(st, "level"),
		Category:         stringField(st, "category"),
		Rows:             num(st, "rows"),
		Cols:             num(st, "cols"),
		Player:           pos(st.GetFields()["player"]),
		RemainingTargets: num(st, "remaining_targets"),
	}
	for _, a := range st.GetFields()["adversaries"].GetListValue().GetValues() {
		snap.Adversaries = append(snap.Adversaries, pos(a))
	}

	if grid := st.GetFields()["grid"].GetListValue(); grid != nil {
		snap.Grid = make([][]game.CellView, 0, len(grid.GetValues()))
		for _, rowValue := range grid.GetValues() {
			cells := rowValue.GetListValue().GetValues()
			row := make([]game.CellView, 0, len(cells))
			for _, c := range cells {
				cs := c.GetStructValue()
				row = append(row, game.CellView{
					Value:   num(cs, "value"),
					Munched: boolField(cs, "munched"),
					Target:  boolField(cs, "target"),
				})
			}
			snap.Grid = append(snap.Grid, row)
		}
	}

	if rs := st.GetFields()["result"].GetStructValue(); rs != nil {
		snap.Result = &game.Result{
			SessionID: stringField(rs, fieldSessionID),
			Score:     num(rs, "score"),
			Level:     num(rs, "level"),
			Category:  stringField(rs, "category"),
			Stats: game.Stats{
				CorrectMunches:   num(rs, "correct_munches"),
				IncorrectMunches: num(rs, "incorrect_munches"),
				TimesCaught:      num(rs, "times_caught"),
				LevelsCompleted:  num(rs, "levels_completed"),
			},
		}
	}
	return snap, nil
}
