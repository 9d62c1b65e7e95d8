package renderer

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/NumberMunchers/internal/common"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game"
	"github.com/mitchelldurbincs/NumberMunchers/internal/game/core"
)

// Occupant says who stands on a cell
type Occupant int

const (
	OccupantNone Occupant = iota
	OccupantPlayer
	OccupantAdversary
	OccupantBoth
)

// OccupantAt reports who stands on p in the snapshot
func OccupantAt(s game.Snapshot, p core.Position) Occupant {
	player := s.Player == p
	adversary := false
	for _, a := range s.Adversaries {
		if a == p {
			adversary = true
			break
		}
	}
	switch {
	case player && adversary:
		return OccupantBoth
	case player:
		return OccupantPlayer
	case adversary:
		return OccupantAdversary
	default:
		return OccupantNone
	}
}

// FillColor picks the tile colour. Occupants win over cell state, and an
// adversary standing on the player shows as the adversary.
func FillColor(cell game.CellView, occ Occupant, revealTargets bool) color.Color {
	switch occ {
	case OccupantAdversary, OccupantBoth:
		return common.AdversaryColor
	case OccupantPlayer:
		return common.PlayerColor
	}
	if cell.Munched {
		return common.MunchedColor
	}
	if revealTargets && cell.Target {
		return common.TargetHint
	}
	return common.TileColor
}

// CellLabel is the text drawn on a tile; munched cells are blank
func CellLabel(cell game.CellView) string {
	if cell.Munched {
		return ""
	}
	return strconv.Itoa(cell.Value)
}

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

type BoardRenderer struct {
	tileSize    int
	offsetX     int
	offsetY     int
	defaultFont font.Face
}

// NewBoardRenderer returns a renderer that draws tiles of tileSize pixels
// starting at (offsetX, offsetY).
func NewBoardRenderer(tileSize, offsetX, offsetY int, f font.Face) *BoardRenderer {
	return &BoardRenderer{tileSize: tileSize, offsetX: offsetX, offsetY: offsetY, defaultFont: f}
}

// CellOrigin is the top-left pixel of a tile
func (br *BoardRenderer) CellOrigin(row, col int) (x, y int) {
	return br.offsetX + col*br.tileSize, br.offsetY + row*br.tileSize
}

// Draw renders the snapshot grid on the supplied Ebiten screen.
func (br *BoardRenderer) Draw(screen *ebiten.Image, s game.Snapshot, revealTargets bool) {
	if s.Grid == nil {
		return
	}

	size := float32(br.tileSize)
	for row, cells := range s.Grid {
		for col, cell := range cells {
			x, y := br.CellOrigin(row, col)
			fx, fy := float32(x), float32(y)

			occ := OccupantAt(s, core.NewPosition(row, col))
			vector.DrawFilledRect(screen, fx, fy, size, size, FillColor(cell, occ, revealTargets), false)
			vector.StrokeRect(screen, fx, fy, size, size, 2, common.GridLineColor, false)

			if label := CellLabel(cell); label != "" {
				br.drawCentered(screen, label, x, y)
			}
			switch occ {
			case OccupantPlayer:
				br.drawMarker(screen, "M", x, y)
			case OccupantAdversary, OccupantBoth:
				br.drawMarker(screen, "T", x, y)
			}
		}
	}
}

func (br *BoardRenderer) drawCentered(screen *ebiten.Image, label string, x, y int) {
	width := font.MeasureString(br.defaultFont, label).Ceil()
	height := br.defaultFont.Metrics().Ascent.Ceil()
	tx := x + (br.tileSize-width)/2
	ty := y + (br.tileSize+height)/2
	text.Draw(screen, label, br.defaultFont, tx, ty, common.TileTextColor)
}

// drawMarker puts a small letter in the top-left corner of a tile
func (br *BoardRenderer) drawMarker(screen *ebiten.Image, marker string, x, y int) {
	height := br.defaultFont.Metrics().Ascent.Ceil()
	text.Draw(screen, marker, br.defaultFont, x+4, y+4+height, common.HUDTextColor)
}
