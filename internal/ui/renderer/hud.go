package renderer

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/states"
)

const lineHeight = 16

// HUD draws the score line, status message and the idle/game-over screen
type HUD struct {
	defaultFont font.Face
	margin      int
}

func NewHUD(f font.Face, margin int) *HUD {
	return &HUD{defaultFont: f, margin: margin}
}

// HeaderLines are the two lines above the grid
func HeaderLines(s game.Snapshot) []string {
	if s.Grid == nil {
		return []string{"Number Munchers", ""}
	}
	return []string{
		fmt.Sprintf("Munch: %s", s.Category),
		fmt.Sprintf("Score: %d   Lives: %d   Level: %d   Left: %d", s.Score, s.Lives, s.Level, s.RemainingTargets),
	}
}

// OverlayLines is the centre text shown while no game is being played.
// The last result stays on screen until the next game starts.
func OverlayLines(s game.Snapshot, highScores string) []string {
	if s.Phase != states.PhaseIdle && s.Phase != states.PhaseGameOver {
		return nil
	}
	var lines []string
	if s.Result != nil {
		lines = append(lines,
			fmt.Sprintf("Last game: %d points on level %d", s.Result.Score, s.Result.Level),
			"Press N to play again, Esc to exit")
	} else {
		lines = append(lines, "Press N to start", "Arrows move, Space munches, Esc quits")
	}
	if highScores != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimRight(highScores, "\n"), "\n")...)
	}
	return lines
}

// Draw renders the header, overlay and status line
func (h *HUD) Draw(screen *ebiten.Image, s game.Snapshot, status, highScores string) {
	header := HeaderLines(s)
	y := h.margin + lineHeight
	text.Draw(screen, header[0], h.defaultFont, h.margin, y, common.CategoryColor)
	text.Draw(screen, header[1], h.defaultFont, h.margin, y+lineHeight, common.HUDTextColor)

	bounds := screen.Bounds()
	overlay := OverlayLines(s, highScores)
	if len(overlay) > 0 {
		oy := bounds.Dy()/2 - len(overlay)*lineHeight/2
		for _, line := range overlay {
			width := font.MeasureString(h.defaultFont, line).Ceil()
			text.Draw(screen, line, h.defaultFont, (bounds.Dx()-width)/2, oy, common.TitleColor)
			oy += lineHeight
		}
	}

	if status != "" {
		text.Draw(screen, status, h.defaultFont, h.margin, bounds.Dy()-h.margin, common.LivesColor)
	}
}
