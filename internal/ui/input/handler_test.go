package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
	"github.com/stretchr/testify/assert"
)

func pressed(keys ...ebiten.Key) KeyFunc {
	set := make(map[ebiten.Key]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		keys []ebiten.Key
		want []Command
	}{
		{"nothing", nil, nil},
		{"arrow up", []ebiten.Key{ebiten.KeyArrowUp}, []Command{{Action: ActionMove, Direction: core.Up}}},
		{"wasd left", []ebiten.Key{ebiten.KeyA}, []Command{{Action: ActionMove, Direction: core.Left}}},
		{"arrow and letter collapse", []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, []Command{{Action: ActionMove, Direction: core.Down}}},
		{"munch with space", []ebiten.Key{ebiten.KeySpace}, []Command{{Action: ActionMunch}}},
		{"munch with enter", []ebiten.Key{ebiten.KeyEnter}, []Command{{Action: ActionMunch}}},
		{"new game", []ebiten.Key{ebiten.KeyN}, []Command{{Action: ActionNewGame}}},
		{"quit", []ebiten.Key{ebiten.KeyEscape}, []Command{{Action: ActionQuit}}},
		{"move then munch", []ebiten.Key{ebiten.KeySpace, ebiten.KeyArrowRight}, []Command{
			{Action: ActionMove, Direction: core.Right},
			{Action: ActionMunch},
		}},
		{"unbound key", []ebiten.Key{ebiten.KeyZ}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlerWithKeys(pressed(tt.keys...))
			assert.Equal(t, tt.want, h.Commands())
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "munch", ActionMunch.String())
	assert.Equal(t, "none", Action(99).String())
}
