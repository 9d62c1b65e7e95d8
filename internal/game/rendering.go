package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

// ANSI color codes for terminal rendering
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Render draws a snapshot as text. revealTargets marks un-munched targets
// for debugging; munched cells show as "--", the player as [n] and
// adversaries as <n>.
func Render(s Snapshot, revealTargets, color bool) string {
	paint := func(code, text string) string {
		if !color {
			return text
		}
		return code + text + ColorReset
	}

	var sb strings.Builder
	sb.Grow((s.Cols*6 + 8) * (s.Rows + 4))

	fmt.Fprintf(&sb, "%s  Score: %d  Lives: %d  Level: %d  [%s]\n",
		paint(ColorCyan, s.Category), s.Score, s.Lives, s.Level, s.Phase)

	if s.Grid == nil {
		sb.WriteString("(no board)\n")
		return sb.String()
	}

	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			p := core.Position{Row: row, Col: col}
			cell := s.Grid[row][col]

			text := fmt.Sprintf("%3d", cell.Value)
			if cell.Munched {
				text = " --"
			}
			bare := strings.TrimSpace(text)
			pad := strings.Repeat(" ", common.Max(0, 5-len(bare)))
			switch {
			case s.Player.Equal(p):
				sb.WriteString(paint(ColorGreen, "["+bare+"]") + pad)
				continue
			case s.HasAdversaryAt(p):
				sb.WriteString(paint(ColorRed, "<"+bare+">") + pad)
				continue
			case cell.Munched:
				text = paint(ColorGray, text)
			case revealTargets && cell.Target:
				text = paint(ColorYellow, text)
			}
			sb.WriteString(" ")
			sb.WriteString(text)
			sb.WriteString("   ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "remaining: %d\n", s.RemainingTargets)
	return sb.String()
}
