package common

import (
	"image/color"
)

// Classic arcade palette: navy background, white number tiles.
var (
	BackgroundColor = color.RGBA{0, 0, 128, 255}
	TileColor       = color.RGBA{255, 255, 255, 255}
	TileTextColor   = color.Black
	MunchedColor    = color.RGBA{64, 64, 64, 255}
	GridLineColor   = color.RGBA{0, 0, 80, 255}
)

// Actor colors
var (
	PlayerColor    = color.RGBA{0, 255, 0, 255}   // lime
	AdversaryColor = color.RGBA{220, 30, 30, 255} // red
	TargetHint     = color.RGBA{173, 216, 230, 255}
)

// HUD colors
var (
	TitleColor    = color.RGBA{255, 255, 0, 255}
	CategoryColor = color.RGBA{0, 255, 255, 255}
	LivesColor    = color.RGBA{255, 60, 60, 255}
	HUDTextColor  = color.White
)
