package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws Image at Transform minus Origin. When Image is nil a filled
// rectangle of Width x Height in Color is drawn instead.
type Sprite struct {
	Image   *ebiten.Image
	Width   float64
	Height  float64
	Color   color.Color
	OriginX float64
	OriginY float64
	Hidden  bool
}

var SpriteComponent = NewComponent[Sprite]()
