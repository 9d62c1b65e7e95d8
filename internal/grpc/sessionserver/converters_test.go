package sessionserver

import (
	"testing"

	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestIntField(t *testing.T) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"rows":  4,
		"half":  2.5,
		"name":  "x",
		"huge":  1e12,
		"minus": -3,
	})
	require.NoError(t, err)

	tests := []struct {
		key     string
		want    int
		present bool
		wantErr bool
	}{
		{"rows", 4, true, false},
		{"minus", -3, true, false},
		{"missing", 0, false, false},
		{"half", 0, true, true},
		{"name", 0, true, true},
		{"huge", 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			n, ok, err := intField(req, tt.key)
			assert.Equal(t, tt.present, ok)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestStringListField(t *testing.T) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"ok":    []interface{}{"even", "prime"},
		"mixed": []interface{}{"even", 3},
		"flat":  "even",
	})
	require.NoError(t, err)

	got, err := stringListField(req, "ok")
	require.NoError(t, err)
	assert.Equal(t, []string{"even", "prime"}, got)

	got, err = stringListField(req, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = stringListField(req, "mixed")
	assert.Error(t, err)
	_, err = stringListField(req, "flat")
	assert.Error(t, err)
}

func sampleSnapshot() game.Snapshot {
	return game.Snapshot{
		SessionID:        "s-1",
		Phase:            states.PhasePlaying,
		Score:            40,
		Lives:            2,
		Level:            2,
		Category:         "Prime Numbers",
		Rows:             2,
		Cols:             2,
		Player:           core.Position{Row: 1, Col: 0},
		Adversaries:      []core.Position{{Row: 0, Col: 1}},
		RemainingTargets: 1,
		Grid: [][]game.CellView{
			{{Value: 2, Target: true, Munched: true}, {Value: 9}},
			{{Value: 7, Target: true}, {Value: 8}},
		},
		Result: &game.Result{SessionID: "s-1", Score: 30, Level: 1, Category: "Even Numbers",
			Stats: game.Stats{CorrectMunches: 3, TimesCaught: 1}},
	}
}

func TestSnapshotStructRoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	revealed, err := stateResponse(snap, true, map[string]interface{}{"moved": true})
	require.NoError(t, err)
	assert.True(t, boolField(revealed, "moved"))

	got, err := SnapshotFromStruct(revealed)
	require.NoError(t, err)
	// Stats fields not carried on the wire are dropped
	assert.Equal(t, snap, got)

	hidden, err := stateResponse(snap, false, nil)
	require.NoError(t, err)
	got, err = SnapshotFromStruct(hidden)
	require.NoError(t, err)
	assert.False(t, got.Grid[1][0].Target)
	assert.True(t, got.Grid[0][0].Munched)
}

func TestSnapshotFromStructErrors(t *testing.T) {
	empty := &structpb.Struct{}
	_, err := SnapshotFromStruct(empty)
	assert.Error(t, err)

	bad, err := structpb.NewStruct(map[string]interface{}{fieldState: map[string]interface{}{"phase": "Dancing"}})
	require.NoError(t, err)
	_, err = SnapshotFromStruct(bad)
	assert.Error(t, err)
}

func TestParseOutcome(t *testing.T) {
	for _, o := range []core.MunchOutcome{core.MunchIgnored, core.MunchCorrect, core.MunchIncorrect, core.MunchAlreadyMunched} {
		assert.Equal(t, o, parseOutcome(o.String()))
	}
	assert.Equal(t, core.MunchIgnored, parseOutcome("garbage"))
}
